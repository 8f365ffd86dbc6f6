package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/fitforge/internal/config"
	fitmcp "github.com/meltforce/fitforge/internal/mcp"
	"github.com/meltforce/fitforge/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "FitForge server URL for remote mode (e.g. https://fitforge.tail1234.ts.net)")
	configPath := flag.String("config", "", "config file for local database mode")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fitforge-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds fitmcp.DataSource

	switch {
	case *serverURL != "":
		ds = fitmcp.NewHTTPClient(*serverURL)
		log.Info("MCP remote mode", "server", *serverURL)

	case *configPath != "":
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("MCP local mode", "database", cfg.Database.Name)

	default:
		fmt.Fprintf(os.Stderr, "Usage: fitforge-mcp -server <URL> | -config <config.yaml>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := fitmcp.New(ds, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
