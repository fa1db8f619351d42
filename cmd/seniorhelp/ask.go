package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TAKIS21345/SeniorHelp/internal/document"
	"github.com/TAKIS21345/SeniorHelp/internal/provider"
	"github.com/TAKIS21345/SeniorHelp/internal/session"
	"github.com/TAKIS21345/SeniorHelp/internal/transcript"
)

var askDocument string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the steps",
	Long: `Ask sends a single question to the answer provider and prints the answer split into
numbered steps.

  seniorhelp ask "How do I make the text bigger on my iPhone?"
  seniorhelp ask --document manual.pdf "How do I set the clock?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askDocument, "document", "", "PDF to send along with the question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	client, err := provider.New(provider.Config{
		BaseURL: cfg.Client.ProviderURL,
		Timeout: cfg.ClientTimeout(),
	})
	if err != nil {
		return err
	}

	draft := session.Draft{Text: strings.Join(args, " ")}
	if askDocument != "" {
		attachment, err := loadDocument(askDocument)
		if err != nil {
			return err
		}
		draft.Document = attachment
	}

	controller := session.New(client, session.WithLogger(logger.Named("ask")))
	outcome, ok := controller.Submit(cmd.Context(), draft)
	if !ok {
		return errors.New("question is empty")
	}
	return printOutcome(cmd.OutOrStdout(), controller, outcome)
}

func loadDocument(path string) (*provider.Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, document.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if len(data) > document.MaxUploadBytes {
		return nil, document.ErrTooLarge
	}
	return &provider.Attachment{Name: filepath.Base(path), Data: data}, nil
}

func printOutcome(w io.Writer, controller *session.Controller, outcome session.Outcome) error {
	if outcome != session.Answered {
		message := transcript.GenericError
		turns := controller.Transcript()
		if n := len(turns); n > 0 && turns[n-1].Role == transcript.RoleError {
			message = turns[n-1].Content
		}
		return errors.New(message)
	}
	stack := controller.Stack()
	if stack == nil {
		fmt.Fprintln(w, "The helper replied without any steps.")
		return nil
	}
	for _, step := range stack.Steps() {
		fmt.Fprintf(w, "Step %d: %s\n", step.Ordinal, step.Text)
	}
	return nil
}
