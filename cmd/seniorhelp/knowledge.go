package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/TAKIS21345/SeniorHelp/internal/config"
	"github.com/TAKIS21345/SeniorHelp/internal/knowledge"
	"github.com/TAKIS21345/SeniorHelp/internal/transcript"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "List the questions recorded by the answer provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := knowledge.Open(cfg.Server.Knowledge.Driver, cfg.Server.Knowledge.Path)
		if err != nil {
			return fmt.Errorf("open knowledge base: %w", err)
		}
		defer store.Close()
		records, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		return printRecords(cmd.OutOrStdout(), records)
	},
}

func printRecords(w io.Writer, records []knowledge.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No questions recorded yet.")
		return err
	}
	for _, rec := range records {
		line := fmt.Sprintf("%s  %-8s  %s", rec.CreatedAt.Format("2006-01-02 15:04"), rec.Kind, transcript.Preview(rec.Question, 70))
		if rec.Kind == knowledge.KindQA {
			line += "\n    → " + transcript.Preview(rec.Answer, 70)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		abs, _ := filepath.Abs(path)
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", abs)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
