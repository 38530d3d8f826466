package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yasabs10/panelreader"
	"github.com/Yasabs10/panelreader/config"
)

var RootCmd = &cobra.Command{
	Use:   "panelreader",
	Short: "Comic and manga panel reading order",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		ll, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}

		switch strings.ToUpper(ll) {
		case "DEBUG":
			level = slog.LevelDebug
		case "WARN":
			level = slog.LevelWarn
		case "ERROR":
			level = slog.LevelError
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		handler := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(handler)

		return nil
	},
}

var configPath string

func init() {
	ll := os.Getenv("LOG_LEVEL")
	if ll == "" {
		ll = "INFO"
	}
	RootCmd.PersistentFlags().String("log-level", ll, "The logging level for the command")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML tuning file")
}

// loadOptions builds pipeline options from the tuning file (when
// given) with command-line flags layered on top.
func loadOptions(cmd *cobra.Command) (panelreader.Options, error) {
	settings := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return panelreader.Options{}, err
		}
		settings = loaded
	}

	if cmd.Flags().Changed("strategy") {
		settings.Strategy, _ = cmd.Flags().GetString("strategy")
	}
	if cmd.Flags().Changed("ltr") {
		if ltr, _ := cmd.Flags().GetBool("ltr"); ltr {
			settings.Direction = "ltr"
		}
	}
	if cmd.Flags().Changed("no-refine") {
		if off, _ := cmd.Flags().GetBool("no-refine"); off {
			settings.ShrinkWrap = false
			settings.SnapGutters = false
		}
	}

	return panelreader.OptionsFromSettings(settings)
}

// orderingFlags registers the flags shared by the order and batch
// commands.
func orderingFlags(cmd *cobra.Command) {
	cmd.Flags().String("strategy", "graph", "Ordering strategy: graph or histogram")
	cmd.Flags().Bool("ltr", false, "Read pages left to right (default is right to left)")
	cmd.Flags().Bool("no-refine", false, "Skip content shrink-wrap and gutter snapping")
}
