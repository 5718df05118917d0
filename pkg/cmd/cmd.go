// Package cmd holds the gabi-console command line: the query endpoint
// server, one-shot submission and the interactive console.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/app-sre/gabi-console/pkg/client"
	"github.com/app-sre/gabi-console/pkg/config"
	"github.com/app-sre/gabi-console/pkg/version"
)

type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.SugaredLogger
}

func (a *app) client() *client.Client {
	return client.New(a.cfg.Endpoint,
		client.WithTimeout(a.cfg.Timeout),
		client.WithLogger(a.logger),
	)
}

func NewRootCommand(logger *zap.SugaredLogger) *cobra.Command {
	a := &app{logger: logger}

	root := &cobra.Command{
		Use:     "gabi-console",
		Short:   "Query console for a GABI query endpoint",
		Version: version.Version(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "path to a YAML configuration file")
	pf.String("endpoint", "", "query endpoint URL (default: the local server on server.port)")
	pf.Duration("timeout", config.DefaultTimeout, "time to wait for a query reply (0 waits forever)")
	pf.String("format", config.DefaultFormat, "output format (text|html)")

	_ = root.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "html"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newServeCommand(a),
		newExecCommand(a),
		newREPLCommand(a),
	)

	return root
}

// Run executes the command line with the given arguments.
func Run(ctx context.Context, logger *zap.SugaredLogger, args []string) error {
	root := NewRootCommand(logger)
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}
