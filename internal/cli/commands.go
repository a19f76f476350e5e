package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"warroom/internal/config"
	"warroom/internal/dataflows"
	"warroom/internal/display"
	"warroom/internal/engine"
	"warroom/internal/memory"
	"warroom/internal/pipeline"
	"warroom/internal/protocol"
	"warroom/internal/quote"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "warroom",
		Short: "warroom - protocol-driven market analysis console",
		Long: `warroom is a single-operator console for running canned analysis protocols
against a reasoning model. A run enriches the prompt with a live quote
snapshot and past decisions, and archives the structured verdict into an
append-only memory log.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMode(cfg)
		},
	}

	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Show the raw model response after each run")

	return rootCmd
}

// buildPipeline wires the external clients once per process. A missing
// memory store degrades: searches return no history and writes report
// Connection Failed instead of aborting.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, func(), error) {
	eng, err := engine.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var store memory.Store
	sqlStore, err := memory.OpenSQLite(cfg.LogDBPath)
	if err != nil {
		log.Printf("memory store unavailable at %s: %v", cfg.LogDBPath, err)
	} else {
		store = sqlStore
	}

	p, err := pipeline.New(eng, quote.NewProvider(cfg), store, dataflows.NewArticleFetcher())
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if sqlStore != nil {
			_ = sqlStore.Close()
		}
	}
	return p, cleanup, nil
}

// newRunCmd creates the flag-driven one-shot command
func newRunCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one analysis protocol non-interactively",
		Long: `Run one protocol from flags.
Examples:
  warroom run --protocol scout --ticker NVDA
  warroom run --protocol hunt --keyword "liquid cooling"
  warroom run --protocol macro --sofr-iorb=-0.05 --hyg falling --btc weak --copper-gold falling`,
		RunE: func(cmd *cobra.Command, args []string) error {
			protoName, _ := cmd.Flags().GetString("protocol")
			proto, err := protocol.Parse(protoName)
			if err != nil {
				return err
			}

			fields := map[string]string{}
			for flag, key := range map[string]string{
				"ticker":      protocol.FieldTicker,
				"content":     protocol.FieldContent,
				"keyword":     protocol.FieldKeyword,
				"sofr-iorb":   protocol.FieldSofrIorb,
				"hyg":         protocol.FieldHygTrend,
				"btc":         protocol.FieldBtcTrend,
				"copper-gold": protocol.FieldCopperGold,
				"notes":       protocol.FieldNotes,
			} {
				if val, _ := cmd.Flags().GetString(flag); val != "" {
					fields[key] = val
				}
			}

			return executeRun(cmd.Context(), cfg, proto, fields)
		},
	}

	cmd.Flags().String("protocol", "", "Protocol: scout, intel, hunt or macro")
	cmd.Flags().String("ticker", "", "Ticker symbol (scout, intel)")
	cmd.Flags().String("content", "", "Pasted intel text or a link (intel)")
	cmd.Flags().String("keyword", "", "Trend keyword (hunt)")
	cmd.Flags().String("sofr-iorb", "", "SOFR-IORB spread reading (macro)")
	cmd.Flags().String("hyg", "", "HYG high-yield trend (macro)")
	cmd.Flags().String("btc", "", "BTC trend (macro)")
	cmd.Flags().String("copper-gold", "", "Copper/gold ratio trend (macro)")
	cmd.Flags().String("notes", "", "Supplementary macro notes (macro)")
	cmd.MarkFlagRequired("protocol")

	return cmd
}

func executeRun(ctx context.Context, cfg *config.Config, proto protocol.Protocol, fields map[string]string) error {
	p, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := p.Run(ctx, proto, fields)
	if err != nil {
		return err
	}

	display.Results(out, cfg.Debug)
	return nil
}

// newHistoryCmd creates the decision-log search command
func newHistoryCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "history [QUERY]",
		Short: "Fuzzy-search the decision memory log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := memory.OpenSQLite(cfg.LogDBPath)
			if err != nil {
				return fmt.Errorf("open memory store: %w", err)
			}
			defer store.Close()

			records, err := store.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			display.History(records, args[0])
			return nil
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Data dir:       %s\n", cfg.DataDir)
			fmt.Printf("Memory log:     %s\n", cfg.LogDBPath)
			fmt.Printf("LLM provider:   %s\n", cfg.LLMProvider)
			fmt.Printf("Model:          %s\n", cfg.Model)
			fmt.Printf("Quote cache:    %s\n", cfg.QuoteCacheTTL)
			fmt.Printf("Finnhub key:    %s\n", maskKey(cfg.FinnhubAPIKey))
			fmt.Printf("Provider key:   %s\n", maskKey(cfg.APIKey()))
		},
	})

	return configCmd
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 6 {
		return "******"
	}
	return key[:3] + "..." + key[len(key)-3:]
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("warroom v1.0.0")
			fmt.Println("Protocol-driven market analysis console")
		},
	}
}
