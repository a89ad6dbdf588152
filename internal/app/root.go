package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"probekit/internal/version"
)

func (e *env) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "probekit",
		Short: "Design and score hybridization probes",
		Long: `probekit tiles reverse-complement probes along a target sequence, scores
candidate sequences in batch, and grades probe specificity from alignment
search reports.

Settings are read from probekit.yaml (current directory or
$HOME/.config/probekit), PROBEKIT_* environment variables and flags, in
increasing order of precedence.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&e.cfgFile, "config", "", "config file (default probekit.yaml on the search path)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.String("metrics-file", "", "write Prometheus metrics to this textfile when done")
	pf.String("store", "", "record design runs in this sqlite database")
	pf.BoolVarP(&e.quiet, "quiet", "q", false, "log warnings and errors only")
	e.bindings[root] = map[string]string{
		"log.level":    "log-level",
		"log.format":   "log-format",
		"metrics.file": "metrics-file",
		"store.dsn":    "store",
	}

	root.AddCommand(
		e.designCommand(),
		e.batchCommand(),
		e.classifyCommand(),
		e.revcompCommand(),
		e.versionCommand(),
	)
	return root
}

// exactArgs is cobra.ExactArgs reporting as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(lo, hi)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func (e *env) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  exactArgs(0),
		// no config needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "probekit version %s\n", version.Version)
			return err
		},
	}
}
