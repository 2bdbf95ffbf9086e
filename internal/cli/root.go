// Package cli implements the logease command line: it builds a Logger from a YAML
// configuration and emits lines through it, lists the configured destinations and
// removes their log files.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/LixenWraith/logease"
)

// shutdownTimeout bounds the drain of asynchronous destinations before exit.
const shutdownTimeout = 5 * time.Second

// options holds the flag values shared by all subcommands.
type options struct {
	configPath string
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context, version string) error {
	return NewRootCommand(version).ExecuteContext(ctx)
}

// NewRootCommand builds the logease command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "logease",
		Short:         "Destination-based logger with rotating file output",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file (default: console only)")

	rootCmd.AddCommand(
		newEmitCommand(opts),
		newDestinationsCommand(opts),
		newDeleteCommand(opts),
	)
	return rootCmd
}

// loadConfig reads the configuration file, or returns a console-only configuration
// when no file was given.
func (o *options) loadConfig() (*logease.Config, error) {
	if o.configPath == "" {
		return &logease.Config{Console: &logease.ConsoleConfig{}}, nil
	}
	return logease.LoadConfig(o.configPath)
}

func newEmitCommand(opts *options) *cobra.Command {
	var levelName string

	cmd := &cobra.Command{
		Use:   "emit [MESSAGE...]",
		Short: "Log MESSAGE, or every line of standard input, through the configured destinations",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logease.ParseLevel(levelName)
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			l, err := cfg.Build()
			if err != nil {
				return err
			}

			if len(args) > 0 {
				msg := strings.Join(args, " ")
				site := logease.CallSite{File: "args", Function: cmd.Name(), Line: 1}
				l.Custom(level, func() string { return msg }, site)
			} else if err := emitLines(cmd.Context(), l, level, logease.CallSite{File: "stdin", Function: cmd.Name()}, cmd.InOrStdin()); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return l.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVarP(&levelName, "level", "l", "info", "level of the emitted events")
	return cmd
}

// emitLines logs every line of r, numbering the call site by line.
func emitLines(ctx context.Context, l *logease.Logger, level logease.Level, site logease.CallSite, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		site.Line++
		line := scanner.Text()
		l.Custom(level, func() string { return line }, site)
	}
	return errors.Wrap(scanner.Err(), "read standard input")
}

func newDestinationsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "destinations",
		Short: "List the configured destinations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			dsts, err := cfg.Destinations()
			if err != nil {
				return err
			}
			renderDestinations(cmd.OutOrStdout(), dsts)
			return nil
		},
	}
}

// renderDestinations writes one table row per destination.
func renderDestinations(w io.Writer, dsts []logease.Destination) {
	table := tablewriter.NewTable(w)
	table.Header([]string{"ID", "Type", "Level", "Async", "Target", "Rotation"})

	var rows [][]string
	for _, d := range dsts {
		row := []string{string(d.ID()), "", d.MinLevel().String(), fmt.Sprintf("%t", d.Async()), "", "-"}
		switch dst := d.(type) {
		case *logease.ConsoleDestination:
			row[1] = "console"
			row[4] = "stdout"
			if dst.Style() == logease.StyleSystem {
				row[4] = "system log"
			}
		case *logease.FileDestination:
			row[1] = "file"
			row[4] = dst.Path()
			if dst.RotationCount() > 1 {
				row[5] = fmt.Sprintf("%d x %d bytes", dst.RotationCount(), dst.MaxFileSize())
			}
		default:
			row[1] = fmt.Sprintf("%T", d)
		}
		rows = append(rows, row)
	}

	table.Bulk(rows)
	table.Render()
}

func newDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-logs",
		Short: "Delete the active log file of every file destination",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			dsts, err := cfg.Destinations()
			if err != nil {
				return err
			}

			var failed []string
			for _, d := range dsts {
				f, ok := d.(*logease.FileDestination)
				if !ok {
					continue
				}
				if !f.DeleteLogFile() {
					failed = append(failed, f.Path())
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", f.Path())
			}
			if len(failed) > 0 {
				return errors.Errorf("could not delete %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}
}
