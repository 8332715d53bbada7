package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bigschool/authkit/internal/client/api"
	"github.com/bigschool/authkit/internal/client/auth"
	"github.com/bigschool/authkit/internal/client/cli"
	"github.com/bigschool/authkit/internal/client/iocli"
	"github.com/bigschool/authkit/internal/client/session"
	"github.com/bigschool/authkit/internal/client/storage"
	"github.com/bigschool/authkit/internal/client/storage/boltdb"
	"github.com/bigschool/authkit/internal/client/storage/memory"
	"github.com/bigschool/authkit/internal/config"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg := config.Load()

	// Глобальные флаги, перекрывают значения из конфигурации
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", cfg.ServerURL, "Server URL")
	dbPath := flag.String("db", cfg.DBPath, "Path to local session database")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// Пустой -db включает эфемерный режим: сессия живет только
	// до завершения процесса
	var store storage.Store
	if *dbPath == "" {
		store = memory.New()
	} else {
		boltStore, err := boltdb.New(ctx, *dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open session database: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := boltStore.Close(); err != nil {
				slog.Error("failed to close session database", "error", err)
			}
		}()
		store = boltStore
	}

	// Один координатор на процесс: конкурентные refresh схлопываются
	// в один сетевой вызов
	coordinator := session.NewCoordinator(store)
	apiClient := api.NewClient(*serverURL, store, coordinator)
	authService := auth.NewService(apiClient, store)

	app := cli.New(authService, iocli.NewStdio())
	if err := app.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("Big School Auth Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
