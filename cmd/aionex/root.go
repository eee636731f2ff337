package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dmehta/aionex/internal/config"
	"github.com/dmehta/aionex/internal/gateway"
	"github.com/dmehta/aionex/internal/logging"
	"github.com/dmehta/aionex/internal/speech"
	"github.com/dmehta/aionex/internal/store"
	"github.com/dmehta/aionex/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	flagAPI         string
	flagLang        string
	flagConfig      string
	flagNoAltScreen bool
)

var rootCmd = &cobra.Command{
	Use:   "aionex",
	Short: "TUI for searching, summarizing and questioning research articles",
	Long: `aionex searches research articles through the AIONEX backend, shows
sentiment-scored summaries with reputation breakdowns, translates them on
demand, and answers questions grounded in the original abstract.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "backend base URL (overrides config and AIONEX_API)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&flagLang, "lang", "", "interface language (en, es, zh)")
	rootCmd.Flags().BoolVar(&flagNoAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(savedCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("aionex %s (commit: %s)\n", version, commit)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFrom(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagAPI != "" {
		cfg.API = flagAPI
	}
	return cfg, nil
}

func openStore(cfg *config.Config) *store.Store {
	return store.Open(filepath.Join(cfg.DataDirPath(), "aionex.db"))
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logging.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "logging disabled:", err)
	}
	defer logging.Close()
	logging.Info("starting", "version", version, "api", cfg.API)

	st := openStore(cfg)
	defer st.Close()

	client := gateway.New(gateway.Config{
		BaseURL:         cfg.API,
		DefaultLanguage: cfg.DefaultLanguage,
		HTTPClient:      &http.Client{Timeout: cfg.RequestTimeoutDuration()},
	})

	opts := []tea.ProgramOption{}
	if !flagNoAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Backend:         client,
			Store:           st,
			Speaker:         speech.New(nil),
			DefaultLanguage: cfg.DefaultLanguage,
			Language:        flagLang,
		}),
		opts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
