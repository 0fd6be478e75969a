package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/sysarch/internal/catalog"
	"github.com/papapumpkin/sysarch/internal/config"
	"github.com/papapumpkin/sysarch/internal/logger"
	"github.com/papapumpkin/sysarch/internal/render"
	"github.com/papapumpkin/sysarch/internal/store"
	"github.com/papapumpkin/sysarch/internal/telemetry"
	"github.com/papapumpkin/sysarch/internal/ui"
)

// app holds the resources opened for one command invocation.
type app struct {
	cfg     config.Config
	log     *logger.Logger
	store   *store.Store
	journal *telemetry.Emitter
	svc     *catalog.Service
	out     *render.Renderer
	ui      *ui.Printer
}

// loadConfig resolves configuration and applies --no-color.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		cfg.Color = false
	}
	return cfg, nil
}

// openApp loads configuration and opens the catalog, the journal and the
// output writers. Callers must Close the result.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cmd.Context(), cfg.DBPath, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	var journal *telemetry.Emitter
	if cfg.Journal != "" {
		journal, err = telemetry.NewEmitter(cfg.Journal)
		if err != nil {
			st.Close()
			log.Sync()
			return nil, fmt.Errorf("open journal: %w", err)
		}
	}

	return &app{
		cfg:     cfg,
		log:     log,
		store:   st,
		journal: journal,
		svc:     catalog.New(st, log, journal),
		out:     render.New(cmd.OutOrStdout(), format, cfg.Color && isTerminal(cmd.OutOrStdout())),
		ui:      ui.New(cmd.ErrOrStderr(), cfg.Color && isTerminal(cmd.ErrOrStderr())),
	}, nil
}

// Close releases everything openApp acquired.
func (a *app) Close() {
	if err := a.journal.Close(); err != nil {
		a.log.Warn("close journal", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("close store", "error", err)
	}
	a.log.Sync()
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTerminal(f)
}

// optionalID returns the value of an id flag, or nil when it was not given.
func optionalID(cmd *cobra.Command, name string) *int64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt64(name)
	return &v
}
