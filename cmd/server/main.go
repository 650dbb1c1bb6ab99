// Package main - Entry point for the doorcost pricing server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"doorcost/api"
	"doorcost/core/rules"
	"doorcost/internal/config"
	"doorcost/internal/logging"
)

var version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "doorcost-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgFile := flag.String("config", "", "config file (default is $HOME/.doorcost.json)")
	addr := flag.String("addr", "", "server address (overrides the config)")
	rulesFile := flag.String("rules", "", "rules file (.hcl, .yaml)")
	flag.Parse()

	if err := config.LoadDotEnv(""); err != nil {
		return err
	}
	path := *cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *rulesFile != "" {
		cfg.Rules.File = *rulesFile
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	table := rules.Default()
	if cfg.Rules.File != "" {
		if table, err = rules.LoadFile(cfg.Rules.File); err != nil {
			return err
		}
	}

	server := api.NewServer(api.Config{
		Version: version,
		Table:   table,
		Logger:  logging.Named("api"),
	})
	httpServer := server.HTTPServer(cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version),
			zap.String("rules", table.Fingerprint()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
