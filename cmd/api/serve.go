package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/handlers"
	"github.com/akolanti/pdfchat/internal/middleware"
	"github.com/akolanti/pdfchat/internal/server"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen-addr", "", "server listen address (default from LISTEN_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, settings, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
		defer cancel()
		a.Close(closeCtx)
	}()

	addr := settings.ListenAddr
	if listenAddr != "" {
		addr = listenAddr
	}

	chain := middleware.NewChain(a.accounts)
	router := server.NewRouter(handlers.NewHandler(a.rag, a.accounts), chain, settings.AllowedOrigins())
	err = server.Run(ctx, server.NewServer(addr, router))
	logger_i.NewLogger("main").Info("Server stopped")
	return err
}
