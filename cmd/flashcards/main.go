package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kpauljoseph/flashcards/internal/api"
	"github.com/kpauljoseph/flashcards/internal/config"
	"github.com/kpauljoseph/flashcards/internal/store"
	"github.com/kpauljoseph/flashcards/pkg/logger"
)

type runFunc func(ctx context.Context, app *app, args []string) error

// command registers its own flags on fs and returns the function that runs
// once they are parsed.
type command struct {
	name  string
	usage string
	setup func(fs *flag.FlagSet) runFunc
}

var commands = []command{
	{"tui", "open the terminal UI", tuiCmd},
	{"tags", "list tags", tagsCmd},
	{"cards", "list cards [-tag id]", cardsCmd},
	{"add-tag", "create a tag: add-tag <name>", addTagCmd},
	{"rm-tag", "delete a tag: rm-tag <id>", rmTagCmd},
	{"add-card", "create a card [-front text] [-back text] [-front-image path] [-back-image path] [-tags 1,2]", addCardCmd},
	{"rm-card", "delete a card: rm-card <id>", rmCardCmd},
	{"relate", "link two cards: relate [-note text] <from> <to>", relateCmd},
	{"related", "list links of a card: related <id>", relatedCmd},
	{"unrelate", "remove a link: unrelate <card> <relation>", unrelateCmd},
	{"import-pdf", "upload flashcards from PDFs: import-pdf [-tags 1,2] [-tag-from-path] <file or dir>", importPDFCmd},
	{"version", "print the version [-check]", versionCmd},
}

// common holds the flags every subcommand accepts.
type common struct {
	configPath string
	apiBase    string
	verbose    bool
	debug      bool
	yes        bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "config.yaml", "path to config file")
	fs.StringVar(&c.apiBase, "api", "", "API base URL (overrides config and "+config.EnvAPIBase+")")
	fs.BoolVar(&c.verbose, "verbose", false, "enable verbose logging")
	fs.BoolVar(&c.debug, "debug", false, "enable debug mode with trace logging")
	fs.BoolVar(&c.yes, "yes", false, "do not ask before deleting")
}

// app is what a subcommand gets once flags and config are settled.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *store.Store
	confirm store.Confirmer
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name, args := os.Args[1], os.Args[2:]
	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := dispatch(ctx, cmd, args)
		stop()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if name != "-h" && name != "help" && name != "--help" {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", name)
	}
	usage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: flashcards <command> [flags] [args]")
	fmt.Fprintln(os.Stderr)
	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %-11s %s\n", cmd.name, cmd.usage)
	}
}

func dispatch(ctx context.Context, cmd command, args []string) error {
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	var c common
	c.register(fs)
	run := cmd.setup(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if c.apiBase != "" {
		cfg.API.BaseURL = c.apiBase
	}
	if c.yes {
		cfg.Confirm = config.ConfirmYes
	}

	log, closeLog, err := newLogger(cmd.name, cfg, c)
	if err != nil {
		return err
	}
	defer closeLog()

	enc, err := api.ParseTagIDEncoding(cfg.API.TagIDEncoding)
	if err != nil {
		return err
	}
	client := api.NewClient(cfg.API.BaseURL, log,
		api.WithTimeout(cfg.API.Timeout),
		api.WithTagIDEncoding(enc),
	)

	a := &app{
		cfg:     cfg,
		log:     log,
		store:   store.New(client, log),
		confirm: confirmer(cfg.Confirm, log),
	}
	log.Debug("using API at %s", client.BaseURL())

	return run(ctx, a, fs.Args())
}

// newLogger builds the CLI logger. The terminal UI owns the screen, so it
// writes to the configured log file or nowhere.
func newLogger(name string, cfg *config.Config, c common) (*logger.Logger, func(), error) {
	opts := []logger.Option{
		logger.WithPrefix("[flashcards] "),
		logger.WithVerbose(c.verbose || cfg.Verbose),
	}

	var log *logger.Logger
	closeLog := func() {}
	switch {
	case cfg.LogFile != "":
		l, f, err := logger.OpenFile(cfg.LogFile, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		log, closeLog = l, func() { f.Close() }
	case name == "tui":
		log = logger.Discard()
	default:
		log = logger.New(opts...)
	}

	if c.debug {
		log.SetLevel(logger.LevelTrace)
	}
	if c.verbose {
		log.Debug("Verbose logging enabled")
	}
	return log, closeLog, nil
}
