package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/app-sre/gabi-console/pkg/console"
	"github.com/app-sre/gabi-console/pkg/view"
)

const (
	prompt             = "gabi> "
	continuationPrompt = "  ...> "

	historyFile = ".gabi_console_history"
)

// lineReader is the part of readline the loop depends on.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(p string)
}

func newREPLCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive query console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formatter, err := view.NewFormatter(a.cfg.Format)
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          prompt,
				HistoryFile:     historyPath(),
				AutoComplete:    completer(),
				InterruptPrompt: "^C",
				EOFPrompt:       ".quit",
			})
			if err != nil {
				return fmt.Errorf("unable to initialize console: %w", err)
			}
			defer func() { _ = rl.Close() }()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "GABI Console (endpoint: %s)\n", a.cfg.Endpoint)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
			_, _ = fmt.Fprintln(cmd.OutOrStdout())

			r := newREPL(a.client(), formatter, cmd.OutOrStdout(), cmd.ErrOrStderr(), a.logger)
			return r.run(cmd.Context(), rl)
		},
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".format",
			readline.PcItem("text"),
			readline.PcItem("html"),
		),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

// repl draws console output onto a stream with a formatter that can be
// switched between submissions.
type repl struct {
	console   *console.Console
	fields    console.Fields
	formatter view.Formatter
	out       io.Writer
	errOut    io.Writer
	logger    *zap.SugaredLogger
}

func newREPL(submitter console.Submitter, formatter view.Formatter, out, errOut io.Writer, logger *zap.SugaredLogger) *repl {
	r := &repl{
		fields:    console.Fields{},
		formatter: formatter,
		out:       out,
		errOut:    errOut,
		logger:    logger,
	}
	r.console = console.New(submitter, r.fields, r, console.WithLogger(logger))

	return r
}

func (r *repl) Replace(n *view.Node) {
	if err := r.formatter.Format(n, r.out); err != nil {
		r.logger.Errorf("Unable to write %s output: %s", r.formatter.Name(), err)
	}
}

func (r *repl) run(ctx context.Context, rl lineReader) error {
	var buffer strings.Builder

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("unable to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buffer.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := r.command(line); quit {
				break
			}
			continue
		}

		buffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buffer.WriteString("\n")
			rl.SetPrompt(continuationPrompt)
			continue
		}
		rl.SetPrompt(prompt)

		r.fields[console.DefaultInputName] = buffer.String()
		buffer.Reset()

		r.console.Submit(ctx)
		_, _ = fmt.Fprintln(r.out)
	}

	return nil
}

// command handles a dot command and reports whether the loop should end.
func (r *repl) command(line string) bool {
	parts := strings.Fields(line)

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		_, _ = fmt.Fprint(r.out, `
Commands:
  .help            Show this help message
  .format [name]   Show or set the output format (text, html)
  .quit / .exit    Exit the console

Statements end with a semicolon (;) and may span several lines.
`)
	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(r.out, "Output format: %s\n", r.formatter.Name())
			break
		}
		formatter, err := view.NewFormatter(parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %s\n", err)
			break
		}
		r.formatter = formatter
	default:
		_, _ = fmt.Fprintf(r.errOut, "Unknown command: %s (type .help for commands)\n", parts[0])
	}

	return false
}
