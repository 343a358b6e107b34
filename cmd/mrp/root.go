package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mrp",
		Short:         "Material requirements planning engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newOrdersCmd())
	cmd.AddCommand(newExceptionsCmd())
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newRelayCmd())
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
