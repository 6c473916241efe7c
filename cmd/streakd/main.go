// ABOUTME: Entry point for the streakd workout tracker server
// ABOUTME: Subcommands for serving, config init, health checks, and export

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/streakfit/streakd/internal/api"
	"github.com/streakfit/streakd/internal/backup"
	"github.com/streakfit/streakd/internal/config"
	"github.com/streakfit/streakd/internal/jobs"
	"github.com/streakfit/streakd/internal/session"
	"github.com/streakfit/streakd/internal/store"
	"github.com/streakfit/streakd/internal/tracker"
	"github.com/streakfit/streakd/internal/web"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
      _                 _       _
  ___| |_ _ __ ___  ___| | ____| |
 / __| __| '__/ _ \/ _' | |/ / _' |
 \__ \ |_| | |  __/ (_| |   < (_| |
 |___/\__|_|  \___|\__,_|_|\_\__,_|
`

// getConfigPath returns the path to the streakd config file.
// Priority: STREAKD_CONFIG env var > XDG_CONFIG_HOME/streakd/streakd.yaml > ~/.config/streakd/streakd.yaml
func getConfigPath() string {
	if envPath := os.Getenv("STREAKD_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "streakd.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "streakd", "streakd.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: streakd <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve              Start the tracker server")
		fmt.Println("  init               Write a starter config file")
		fmt.Println("  health             Check server health")
		fmt.Println("  export -o FILE     Write a backup archive of the ledger")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx)
	case "export":
		err = runExport(ctx, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config: %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:   %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Data:   %s\n", cfg.Storage.DataDir)
	fmt.Println()

	logger.Info("starting streakd",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"data_dir", cfg.Storage.DataDir,
	)

	fileStore, err := store.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer fileStore.Close()

	if cfg.Backup.Enabled {
		if err := os.MkdirAll(cfg.Backup.Dir, 0o755); err != nil {
			return fmt.Errorf("creating backup directory: %w", err)
		}
	}

	service := tracker.New(fileStore, session.NewRegistry())

	mux := http.NewServeMux()
	api.NewServer(service).RegisterRoutes(mux)
	mux.Handle("GET /", web.Handler())

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           api.WithRequestLog(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	runner := jobs.New(service, cfg.Backup, cfg.SelfPing)
	jobsDone := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(jobsDone)
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		logger.Error("server error", "error", serverErr)
	}

	// Shutdown needs a fresh context; the signal context is already canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdownErr := server.Shutdown(shutdownCtx)

	<-jobsDone

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

const starterConfig = `server:
  http_addr: "0.0.0.0:8080"

storage:
  data_dir: "./data"

backup:
  enabled: false
  dir: "./backups"
  interval: "6h"

selfping:
  enabled: false
  url: "http://localhost:8080/api/health"
  interval: "10m"

logging:
  level: "info"
  format: "text"
`

func runInit() error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Wrote starter config to %s\n", configPath)
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/api/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: status %d", resp.StatusCode)
	}

	color.Green("✓ server healthy (%s)", url)
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("o", "", "output path for the backup archive")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		*output = fmt.Sprintf("streakd-backup-%s.zip", time.Now().UTC().Format("20060102-150405"))
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fileStore, err := store.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer fileStore.Close()

	service := tracker.New(fileStore, session.NewRegistry())
	snap, err := service.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("taking snapshot: %w", err)
	}

	if err := backup.WriteFile(*output, snap); err != nil {
		return err
	}

	color.Green("✓ wrote %s (%d users, %d records)", *output, len(snap.Users), len(snap.Records))
	return nil
}
