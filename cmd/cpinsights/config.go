package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cpinsights/internal/config"
	apperrors "cpinsights/internal/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// Overrides the root setup: the file being managed may not load.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "cpinsights.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if config.FileExists(path) && !force {
				return apperrors.NewConfigError(fmt.Sprintf("%s already exists, use --force to overwrite", path), nil).
					WithContext(apperrors.CtxFile, path)
			}

			if err := config.Default().Save(path); err != nil {
				return apperrors.NewConfigError("failed to write config file", err).
					WithContext(apperrors.CtxFile, path)
			}
			fmt.Fprintf(a.out, "Wrote default configuration to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
