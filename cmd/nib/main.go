package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/nib/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/nib/config.toml)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	pollSeconds := flag.Int("poll", 0, "list refresh interval in seconds (optional, defaults to 5s)")
	importPath := flag.String("import", "", "create an article from a Markdown file with YAML front matter and exit")
	deleteIdent := flag.String("delete", "", "delete one of your articles by id or slug after confirmation and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, PrefsPath: *prefsPath}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	var err error
	switch {
	case *importPath != "" && *deleteIdent != "":
		err = fmt.Errorf("-import and -delete cannot be combined")
	case *importPath != "":
		err = app.Import(ctx, opts, *importPath)
	case *deleteIdent != "":
		err = app.DeleteArticle(ctx, opts, *deleteIdent)
	default:
		err = app.Run(ctx, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "nib: %v\n", err)
		return 1
	}
	return 0
}
