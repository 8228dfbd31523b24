// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

// Package main implements the seekr walking navigation service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/wneessen/seekr/internal/config"
	"github.com/wneessen/seekr/internal/geo"
	"github.com/wneessen/seekr/internal/i18n"
	"github.com/wneessen/seekr/internal/logger"
	"github.com/wneessen/seekr/internal/service"
)

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
	destFlag := flag.String("dest", "", "destination as \"lat,lon\"")
	searchFlag := flag.String("search", "", "destination search query")
	nameFlag := flag.String("name", "", "display name for the destination")
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
	t, err := i18n.New(conf.Locale)
	if err != nil {
		log.Error("failed to initialize localizer", logger.Err(err))
		os.Exit(1)
	}

	req, err := startRequest(*destFlag, *searchFlag, *nameFlag)
	if err != nil {
		log.Error("invalid destination", logger.Err(err))
		os.Exit(1)
	}

	// Initialize the service
	serv, err := service.New(conf, log, t)
	if err != nil {
		log.Error("failed to initialize seekr service", logger.Err(err))
		os.Exit(1)
	}

	// SIGUSR1 cancels the active session without stopping the service
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGUSR1)
	go serv.HandleCancelSignal(ctx, sigChan)

	if req != nil {
		go func() {
			if err := serv.StartNavigation(ctx, *req); err != nil {
				log.Error("failed to start navigation", logger.Err(err))
			}
		}()
	}

	// Start the service loop
	log.Info(t.Get("starting seekr service"), slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx); err != nil {
		log.Error(t.Get("failed to start seekr service"), logger.Err(err))
	}
	log.Info(t.Get("shutting down seekr service"))
}

// startRequest builds the initial navigation request from the destination
// flags. Returns nil if no destination was given; the service then idles
// until a session is started by other means.
func startRequest(dest, search, name string) (*service.StartRequest, error) {
	switch {
	case dest != "":
		parts := strings.Split(dest, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected \"lat,lon\", got %q", dest)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse latitude: %w", err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse longitude: %w", err)
		}
		return &service.StartRequest{
			Destination: geo.Coordinate{Lat: lat, Lon: lon},
			Name:        name,
		}, nil
	case search != "":
		return &service.StartRequest{Query: search, Name: name}, nil
	default:
		return nil, nil
	}
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "seekr", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
