package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmcdole/xyzreader/internal/adapter"
)

func newInitCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := initialConfig(root)
			if err != nil {
				return err
			}
			if root.configFile == "" {
				if err := adapter.SaveConfig(cfg); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Config saved")
				return nil
			}
			if err := adapter.SaveConfigTo(viper.New(), cfg, root.configFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", root.configFile)
			return nil
		},
	}
}

// initialConfig loads the existing config, or starts from defaults when the
// requested file does not exist yet.
func initialConfig(root *rootOptions) (*adapter.Config, error) {
	if root.configFile != "" {
		if _, err := os.Stat(root.configFile); errors.Is(err, fs.ErrNotExist) {
			return applyOverrides(adapter.DefaultConfig(), root)
		}
	}
	return loadConfig(root)
}
