package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/run0-ai/superfast-rsync/internal/dcontext"
	rsyncmetrics "github.com/run0-ai/superfast-rsync/metrics"
	"github.com/run0-ai/superfast-rsync/rsync"
)

var applyOut string

func init() {
	ApplyCmd.Flags().StringVarP(&applyOut, "out", "o", "", "output path for the reconstructed file (default: stdout)")
}

// ApplyCmd reconstructs a target file from a base file and a delta.
var ApplyCmd = &cobra.Command{
	Use:   "apply <base-file> <delta-file>",
	Short: "`apply` reconstructs a target file from a base file and a delta",
	Long:  "`apply` reconstructs a target file from a base file and a delta",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		config, err := resolveConfiguration()
		if err != nil {
			fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
			os.Exit(1)
		}
		ctx, err := configureLogging(dcontext.Background(), config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "unable to configure logging: %v\n", err)
			os.Exit(1)
		}
		configureMetricsServer(config)

		base, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading base file: %v\n", err)
			os.Exit(1)
		}
		delta, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading delta file: %v\n", err)
			os.Exit(1)
		}

		out := os.Stdout
		if applyOut != "" {
			f, err := os.Create(applyOut)
			if err != nil {
				fmt.Fprintf(os.Stderr, "creating output file: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			out = f
		}

		if err := rsync.Apply(base, delta, out); err != nil {
			rsyncmetrics.DeltasRejected.WithValues(rejectReason(err)).Inc()
			fmt.Fprintf(os.Stderr, "applying delta: %v\n", err)
			os.Exit(1)
		}
		rsyncmetrics.DeltasApplied.Inc()

		dcontext.GetLogger(ctx).Infof("applied delta against %d base bytes", len(base))
	},
}

func rejectReason(err error) string {
	var unk *rsync.UnknownCommandError
	var oob *rsync.OutOfBoundsError
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, rsync.ErrWrongMagic):
		return "wrong_magic"
	case errors.Is(err, rsync.ErrUnexpectedEOF):
		return "unexpected_eof"
	case errors.As(err, &unk):
		return "unknown_command"
	case errors.As(err, &oob):
		return "out_of_bounds"
	default:
		return "other"
	}
}
