package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gyeomkim/kigo"
	"github.com/gyeomkim/kigo/content"
	"github.com/gyeomkim/kigo/favicon"
	"github.com/gyeomkim/kigo/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "sync":
		err = runSync(os.Args[2:])
	case "new":
		err = runNew(os.Args[2:])
	case "favicon":
		err = runFavicon(os.Args[2:])
	case "version":
		fmt.Printf("kigo %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "site.toml", "path to the site configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := kigo.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	app := kigo.New(cfg, views.New(cfg))
	app.SyncFunc = func() (string, error) {
		docs, parseErrs, err := content.LoadTree(cfg.ContentDir)
		if err != nil {
			return "", err
		}
		result, err := content.NewSyncer(app.Store, false, true).Sync(docs)
		if err != nil {
			return "", err
		}
		result.Errors = append(result.Errors, parseErrs...)
		app.Cache.Invalidate()
		return result.Summary(), nil
	}
	defer app.Close()
	return app.Start()
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	configPath := fs.String("config", "site.toml", "path to the site configuration file")
	dir := fs.String("dir", "", "content directory (defaults to config content_dir)")
	dryRun := fs.Bool("dry-run", false, "report changes without writing to the database")
	deleteOrphan := fs.Bool("delete-orphan", false, "delete posts whose source file is gone")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := kigo.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	root := cfg.ContentDir
	if *dir != "" {
		root = *dir
	}

	docs, parseErrs, err := content.LoadTree(root)
	if err != nil {
		return err
	}
	for _, perr := range parseErrs {
		fmt.Fprintf(os.Stderr, "parse: %v\n", perr)
	}

	store, err := kigo.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := content.NewSyncer(store, *dryRun, *deleteOrphan).Sync(docs)
	if err != nil {
		return err
	}
	for _, serr := range result.Errors {
		fmt.Fprintf(os.Stderr, "sync: %v\n", serr)
	}
	if *dryRun {
		fmt.Print("dry run: ")
	}
	fmt.Println(result.Summary())
	if len(result.Errors) > 0 || len(parseErrs) > 0 {
		return fmt.Errorf("sync finished with %d error(s)", len(result.Errors)+len(parseErrs))
	}
	return nil
}

func runNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	configPath := fs.String("config", "site.toml", "path to the site configuration file")
	lang := fs.String("lang", "", "post language (defaults to the site default)")
	author := fs.String("author", "", "author recorded in the front matter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: kigo new [flags] <title>")
	}
	title := fs.Arg(0)

	cfg, err := kigo.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	code := cfg.DefaultLanguage
	if *lang != "" {
		code = *lang
	}
	if _, ok := cfg.Languages[code]; !ok {
		return fmt.Errorf("unknown language %q", code)
	}
	if *author == "" {
		*author = cfg.Author
	}

	path, err := content.NewPost(cfg.ContentDir, code, title, *author)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

func runFavicon(args []string) error {
	fs := flag.NewFlagSet("favicon", flag.ExitOnError)
	out := fs.String("out", "public", "directory the icon set is written to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	files, err := favicon.Generate(*out)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Println(f)
	}
	return nil
}

func printUsage() {
	fmt.Println(`kigo - a bilingual Markdown blog engine

Usage:
  kigo <command> [arguments]

Commands:
  serve     Run the blog server (flags: -config)
  sync      Sync the content tree into the database (flags: -config, -dir, -dry-run, -delete-orphan)
  new       Scaffold a new post (flags: -config, -lang, -author) <title>
  favicon   Generate the favicon set (flags: -out)
  version   Print the kigo version
  help      Show this help message

Examples:
  kigo serve -config site.toml
  kigo sync -dry-run
  kigo new -lang ko "레디스 캐시 전략"`)
}
