package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"canteen/internal/config"
	httpapi "canteen/internal/http"
	"canteen/internal/logging"
	"canteen/internal/repository"
	"canteen/internal/service"

	_ "canteen/docs"
)

var (
	version = "dev"
	commit  = "none"
)

// CLI flags
var (
	verbosity int
	logFile   string
	addr      string
	demo      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "canteen",
		Short: "University canteen ordering backend",
		Long:  "HTTP backend for the university canteen: login, menu, orders and sales reports over Postgres.",
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to a rotating file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from CANTEEN_ADDR or :9091)")
	serveCmd.Flags().BoolVar(&demo, "demo", false, "Run on an in-memory store with demo data, no Postgres needed")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert demo users and meals into the database",
		RunE:  runSeed,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check database connectivity",
		RunE:  runCheck,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("canteen %s (commit: %s)\n", version, commit)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if logFile == "" {
		logFile = cfg.LogFile
	}
	log := logging.Setup(verbosity, logFile)
	if addr == "" {
		addr = cfg.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		users   repository.UserRepository
		menu    repository.MenuRepository
		orders  repository.OrderRepository
		reports repository.ReportRepository
	)
	if demo {
		store := repository.NewDemoStore()
		users, menu, orders, reports = store, store, store, store
		log.Info().Msg("running on in-memory demo store")
	} else {
		if err := cfg.DB.Validate(); err != nil {
			return err
		}
		store, err := repository.NewPostgresStore(ctx, cfg.DB, log)
		if err != nil {
			return err
		}
		defer store.Close()
		users, menu, orders, reports = store, store, store, store
	}

	authSvc := service.NewAuthService(users)
	menuSvc := service.NewMenuService(menu)
	orderSvc := service.NewOrderService(orders)
	reportSvc := service.NewReportService(reports, log)

	templates := cfg.Templates
	if matches, _ := filepath.Glob(templates); len(matches) == 0 {
		// pages are optional, the JSON API works without them
		templates = ""
		log.Warn().Str("glob", cfg.Templates).Msg("no page templates found, serving API only")
	}

	srv := httpapi.NewServer(log, templates, authSvc, menuSvc, orderSvc, reportSvc)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Engine(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Str("version", version).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runSeed(cmd *cobra.Command, args []string) error {
	log := logging.Setup(verbosity, logFile)
	store, err := openStore(log)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.Seed(ctx); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Info().Msg("database populated with demo data")
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logging.Setup(verbosity, logFile)
	store, err := openStore(log)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		return err
	}
	fmt.Println("connection successful")
	return nil
}

// openStore общий путь для команд seed и check
func openStore(log zerolog.Logger) (*repository.PostgresStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.DB.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return repository.NewPostgresStore(ctx, cfg.DB, log)
}
