package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/app-sre/gabi-console/pkg/console"
	"github.com/app-sre/gabi-console/pkg/view"
)

var errQueryFailed = errors.New("query failed")

func newExecCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <query>",
		Short: "Submit a single query and print the outcome",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := view.NewFormatter(a.cfg.Format)
			if err != nil {
				return err
			}

			inputs := console.Fields{console.DefaultInputName: strings.Join(args, " ")}
			output := console.NewWriter(cmd.OutOrStdout(), formatter, a.logger)

			c := console.New(a.client(), inputs, output, console.WithLogger(a.logger))
			c.Submit(cmd.Context())

			if c.State() == console.StateErrorDisplayed {
				return errQueryFailed
			}
			return nil
		},
	}
}
