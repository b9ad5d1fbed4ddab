package kigo

import "testing"

func TestParseDays(t *testing.T) {
	tests := []struct {
		in       string
		fallback int
		want     int
		wantErr  bool
	}{
		{"", 30, 30, false},
		{"7", 30, 7, false},
		{"365", 30, 365, false},
		{"30abc", 30, 0, true},
		{"abc", 30, 0, true},
		{"0", 30, 0, true},
		{"-5", 30, 0, true},
		{"1.5", 30, 0, true},
	}
	for _, tt := range tests {
		got, err := parseDays(tt.in, tt.fallback)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDays(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseDays(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
