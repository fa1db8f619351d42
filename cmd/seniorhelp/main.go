package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TAKIS21345/SeniorHelp/internal/config"
	"github.com/TAKIS21345/SeniorHelp/internal/logging"
	"github.com/TAKIS21345/SeniorHelp/internal/provider"
	"github.com/TAKIS21345/SeniorHelp/internal/tui"
)

var (
	// Global flags
	configPath  string
	verbose     bool
	noAltScreen bool
	llmModel    string
	llmEndpoint string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "seniorhelp",
	Short: "Step-by-step tech help, one card at a time",
	Long: `SeniorHelp asks a local model for help with a tech problem and shows the answer
as step cards you work through one at a time.

Run without arguments to open the terminal client. Run "seniorhelp serve" to start the
answer provider it talks to.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClient()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "override the model (default deepseek-llm:7b for Ollama)")
	rootCmd.PersistentFlags().StringVar(&llmEndpoint, "llm-endpoint", "", "custom model host (eg. http://localhost:11434)")
	rootCmd.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(knowledgeCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config and builds the logger for every command. Only serve logs to
// stderr; the other commands own the terminal and log to the configured file.
func setup(cmd *cobra.Command) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if llmModel != "" {
		loaded.LLM.Model = llmModel
	}
	if llmEndpoint != "" {
		loaded.LLM.Endpoint = llmEndpoint
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	opts := logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File}
	if cmd == serveCmd {
		opts.File = ""
	}
	if verbose {
		opts.Level = "debug"
		opts.Development = true
	}
	logger, err = logging.New(opts)
	return err
}

func runClient() error {
	client, err := provider.New(provider.Config{
		BaseURL: cfg.Client.ProviderURL,
		Timeout: cfg.ClientTimeout(),
	})
	if err != nil {
		return err
	}
	logger.Info("starting terminal client", zap.String("provider", client.BaseURL()))

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.Client.AltScreen && !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Provider:      client,
			ProviderURL:   client.BaseURL(),
			Logger:        logger.Named("tui"),
			MarkdownStyle: cfg.Client.MarkdownStyle,
		}),
		opts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
