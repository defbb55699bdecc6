package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akolanti/pdfchat/internal/adapter"
	"github.com/akolanti/pdfchat/internal/rag"
	"github.com/spf13/cobra"
)

var (
	cliUser          string
	answerFormat     string
	responseLanguage string
)

var indexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Index a local PDF for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the PDFs indexed for a user",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var askCmd = &cobra.Command{
	Use:   "ask [file_id] [question]",
	Short: "Ask a question about an indexed PDF",
	Args:  cobra.ExactArgs(2),
	RunE:  runAsk,
}

func init() {
	for _, c := range []*cobra.Command{indexCmd, listCmd, askCmd} {
		c.Flags().StringVarP(&cliUser, "user", "u", "", "user the documents belong to")
		_ = c.MarkFlagRequired("user")
		rootCmd.AddCommand(c)
	}
	askCmd.Flags().StringVar(&answerFormat, "format", "", "points, paragraph or summary")
	askCmd.Flags().StringVar(&responseLanguage, "language", "", "language of the answer")
}

func runIndex(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	a, err := buildApp(cmd.Context(), settings, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close(cmd.Context())

	doc, err := a.rag.IndexDocument(cmd.Context(), cliUser, filepath.Base(args[0]), raw)
	if err != nil {
		return err
	}
	return printJSON(cmd, adapter.ToUploadResponse(doc))
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd.Context(), settings, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close(cmd.Context())

	docs, err := a.rag.ListDocuments(cmd.Context(), cliUser)
	if err != nil {
		return err
	}
	return printJSON(cmd, adapter.ToDocumentList(docs))
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context(), settings, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close(cmd.Context())

	answer, err := a.rag.Ask(cmd.Context(), cliUser, rag.Question{
		DocumentId:       args[0],
		Text:             args[1],
		AnswerFormat:     answerFormat,
		ResponseLanguage: responseLanguage,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, adapter.ToChatResponse(answer))
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
