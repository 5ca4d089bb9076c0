package main

import (
	"github.com/spf13/cobra"

	"github.com/samuelfneumann/locomotion/environment/envconfig"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage environment configurations",
	}

	var envName, out string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "write the default configuration of an environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := envconfig.Default(envconfig.EnvName(envName))
			if err != nil {
				return err
			}
			if err := c.Save(out); err != nil {
				return err
			}

			logger.Info("wrote configuration", "env", envName, "path", out)
			return nil
		},
	}
	initCmd.Flags().StringVar(&envName, "env", string(envconfig.Hopper),
		"environment (Hopper or Walker2D)")
	initCmd.Flags().StringVarP(&out, "out", "o", "env.yaml",
		"configuration file to write")

	configCmd.AddCommand(initCmd)
	return configCmd
}
