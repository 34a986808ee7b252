// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the hotspotd aggregation service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wneessen/hotspotd/internal/api"
	"github.com/wneessen/hotspotd/internal/config"
	"github.com/wneessen/hotspotd/internal/credentials"
	"github.com/wneessen/hotspotd/internal/hotspot/provider/overpass"
	"github.com/wneessen/hotspotd/internal/hotspot/provider/wigle"
	httpclient "github.com/wneessen/hotspotd/internal/http"
	"github.com/wneessen/hotspotd/internal/logger"
	"github.com/wneessen/hotspotd/internal/service"
)

const shutdownTimeout = time.Second * 10

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT,
		os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	// Read config
	confRead := false
	confPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	// Read default config
	conf, err := config.New()
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}

	// If config file was specified, read it
	if *confPath != "" {
		file := filepath.Base(*confPath)
		path := filepath.Dir(*confPath)
		conf, err = config.NewFromFile(path, file)
		if err != nil {
			log.Error("failed to load config from file", logger.Err(err))
			os.Exit(1)
		}
		confRead = true
	}

	// Check if we have a config file in the default location
	if path, file := findConfigFile(); !confRead && (path != "" && file != "") {
		conf, err = config.NewFromFile(path, file)
		if err != nil {
			log.Error("failed to load config from file", logger.Err(err))
			os.Exit(1)
		}
	}

	log = logger.New(conf.LogLevel)

	// The commercial source credential is an injected dependency, either fixed from
	// the config/environment or hot-reloaded from a watched file.
	var creds credentials.Source = credentials.Static(conf.WiGLE.APIKey)
	if conf.WiGLE.CredentialFile != "" {
		store := credentials.NewFileStore(conf.WiGLE.CredentialFile, log)
		go func() {
			if err := store.Watch(ctx); err != nil {
				log.Error("credential file watcher stopped", logger.Err(err))
			}
		}()
		creds = store
	}

	// Wire the data source adapters and the aggregation coordinator
	client := httpclient.New(log)
	wigleProvider, err := wigle.New(client, log, creds)
	if err != nil {
		log.Error("failed to create WiGLE adapter", logger.Err(err))
		os.Exit(1)
	}
	overpassProvider, err := overpass.New(client, log)
	if err != nil {
		log.Error("failed to create Overpass adapter", logger.Err(err))
		os.Exit(1)
	}
	aggregator := service.New(conf, log, wigleProvider, overpassProvider)

	// Start the HTTP API
	handler := api.NewHandler(aggregator, log)
	server := &http.Server{
		Addr:              conf.Listen,
		Handler:           handler.Router(),
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down HTTP server", logger.Err(err))
		}
	}()

	log.Info("starting hotspotd service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date),
		slog.String("listen", conf.Listen))
	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("failed to start hotspotd service", logger.Err(err))
		os.Exit(1)
	}
	log.Info("shutting down hotspotd service")
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "hotspotd", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
