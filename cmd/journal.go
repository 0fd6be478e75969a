package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/sysarch/internal/render"
	"github.com/papapumpkin/sysarch/internal/telemetry"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show the mutation journal",
	Long: `Show the events recorded in the mutation journal: every created, updated
and deleted entity, every candidate rejected by validation, and every
manifest import. The journal is written only when --journal (or the journal
setting) names a file.`,
	Args: cobra.NoArgs,
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().Int("tail", 0, "show only the last N events")
	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Journal == "" {
		return errors.New("no journal configured: pass --journal or set journal in .sysarch.yaml")
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	events, err := telemetry.ReadFile(cfg.Journal)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if n, _ := cmd.Flags().GetInt("tail"); n > 0 && n < len(events) {
		events = events[len(events)-n:]
	}
	out := render.New(cmd.OutOrStdout(), format, cfg.Color && isTerminal(cmd.OutOrStdout()))
	return out.Events(events, time.Now())
}
