package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/snapwatch/snapwatch-daemon/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the daemon configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			cfg.Validate(logger)
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config and data locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := config.GetPaths()
			if err != nil {
				logger.Error("Failed to resolve paths", zap.Error(err))
				return err
			}
			fmt.Printf("Config file: %s\n", paths.ConfigFile)
			fmt.Printf("Data dir:    %s\n", paths.DataDir)
			fmt.Printf("Seed cache:  %s\n", paths.DBFile)
			fmt.Printf("Log dir:     %s\n", paths.LogDir)
			return nil
		},
	}

	configCmd.AddCommand(showCmd, pathCmd)
	return configCmd
}
