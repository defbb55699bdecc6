package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/pdfchat/internal/mcpServer"
	"github.com/spf13/cobra"
)

var mcpUser string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the document tools over MCP (stdio)",
	Long: `Starts a Model Context Protocol server on stdin/stdout.
All tools act on the documents of the given user.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVarP(&mcpUser, "user", "u", "", "user the tools act as")
	_ = mcpCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, settings, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close(cmd.Context())

	s, err := mcpServer.NewServer(a.rag, mcpUser)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}
