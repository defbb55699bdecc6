package main

import (
	"github.com/akolanti/pdfchat/internal/config"
	"github.com/spf13/cobra"
)

var (
	configFile string
	settings   *config.Settings
)

var rootCmd = &cobra.Command{
	Use:          "pdfchat",
	Short:        "Chat with your PDFs",
	Long:         `Indexes uploaded PDFs and answers questions about them over HTTP or MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = config.LoadSettings(configFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional yaml config file")
}
