package main

import (
	"flag"
	"net/http"

	"github.com/kpauljoseph/flashcards/internal/config"
	"github.com/kpauljoseph/flashcards/internal/devapi"
	"github.com/kpauljoseph/flashcards/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	addr := flag.String("addr", "", "listen address (overrides config and "+config.EnvDevAPIAddr+")")
	dbPath := flag.String("db", "", "bolt database file (overrides config and "+config.EnvDevAPIDB+")")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	flag.Parse()

	log := logger.New(logger.WithPrefix("[flashcards-devapi] "))
	log.SetVerbose(*verbose)
	if *debug {
		log.SetLevel(logger.LevelTrace)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Error loading config: %v", err)
	}
	if *addr != "" {
		cfg.DevAPI.ListenAddr = *addr
	}
	if *dbPath != "" {
		cfg.DevAPI.DBPath = *dbPath
	}
	if cfg.Verbose {
		log.SetVerbose(true)
	}

	store, err := devapi.OpenBolt(cfg.DevAPI.DBPath)
	if err != nil {
		log.Fatal("Error opening %s: %v", cfg.DevAPI.DBPath, err)
	}
	defer store.Close()

	log.Info("Serving %s on http://%s%s/", cfg.DevAPI.DBPath, cfg.DevAPI.ListenAddr, devapi.APIPrefix)
	if err := http.ListenAndServe(cfg.DevAPI.ListenAddr, devapi.NewServer(store, log)); err != nil {
		log.Error("server stopped: %v", err)
	}
}
