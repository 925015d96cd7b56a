package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getdecider/decider/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a configuration file without serving",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "decider.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return err
		}
		if errs := cfg.Validate(); len(errs) > 0 {
			return errors.Join(errs...)
		}
		// Compiling catches bad expressions, schemas, and patterns
		// that plain validation cannot see.
		if _, err := config.BuildRouter(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d routes)\n", path, len(cfg.Routes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
