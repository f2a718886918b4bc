package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bdbarbs/geoview/internal/config"
	"github.com/bdbarbs/geoview/internal/logger"
	"github.com/bdbarbs/geoview/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		// the default path may simply not exist yet; an explicit one must
		if os.IsNotExist(err) && opts.ConfigFile == "config.yaml" {
			log.Warn().Str("path", opts.ConfigFile).Msg("No configuration file, using built-in defaults")
			cfg = config.Default()
		} else {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	srvCtx := server.NewServerContext(cfg)
	srvCtx.LoadSeeds(&http.Client{Timeout: 30 * time.Second})

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", srvCtx.HandleConfig)
	mux.HandleFunc("/api/layers", srvCtx.HandleLayers)
	mux.HandleFunc("/api/layers/", srvCtx.HandleLayer)
	mux.HandleFunc("/favicon.svg", srvCtx.HandleFavicon)
	mux.HandleFunc("/", srvCtx.HandleIndex)

	handler := server.RequestLogger(mux)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("basemaps", len(cfg.Basemaps)).
		Int("layers_loaded", srvCtx.Registry.Len()).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
