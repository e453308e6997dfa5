package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/coursedeck/accounts/postgres"
	"github.com/jrsteele09/coursedeck/auth"
	"github.com/jrsteele09/coursedeck/internal/config"
	"github.com/jrsteele09/coursedeck/internal/logutil"
	"github.com/jrsteele09/coursedeck/server"
	"github.com/jrsteele09/coursedeck/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running server: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	logger := logutil.NewLogger(cfg.Env)
	displayAppname(cfg.AppName)

	ctx := context.Background()
	store, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("open account store: %w", err)
	}
	defer store.Close()

	codec := token.NewCodec([]byte(cfg.TokenSecret), token.WithLifetime(cfg.TokenLifetime))
	authService, err := auth.NewService(store, codec)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.New(authService, codec, logger),
	}

	errCh := make(chan error, 1)
	go listenAndServe(httpServer, logger, errCh)

	select {
	case err := <-errCh:
		return err
	case <-stopSignal():
	}
	return shutdown(httpServer)
}

func listenAndServe(httpServer *http.Server, logger zerolog.Logger, errCh chan<- error) {
	logger.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errCh <- fmt.Errorf("server.ListenAndServe: %w", err)
	}
}

func stopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
