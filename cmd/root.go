package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/sysarch/internal/config"
	"github.com/papapumpkin/sysarch/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "sysarch",
	Short: "Hierarchical catalog of mechanical assemblies",
	Long: `sysarch records systems, assemblies, parts and their features in a local
SQLite catalog, places part and sub-assembly instances inside assemblies,
and connects features on one instance to features on another.

Containment cycles are rejected before they reach the database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
		ui.NewStderr(viper.GetBool("color") && !noColor).Err(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .sysarch.yaml)")
	pf.String("db", config.DefaultDBPath, "path to SQLite database file")
	pf.String("format", config.FormatText, "output format: text, json or yaml")
	pf.Bool("no-color", false, "disable coloured output")
	pf.String("log-level", "warn", "diagnostic log level: debug, info, warn, error or off")
	pf.String("journal", "", "append mutation events to this JSONL file")

	_ = viper.BindPFlag("db", pf.Lookup("db"))
	_ = viper.BindPFlag("format", pf.Lookup("format"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("journal", pf.Lookup("journal"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".sysarch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("SYSARCH")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
