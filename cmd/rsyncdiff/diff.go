package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/run0-ai/superfast-rsync/internal/dcontext"
	rsyncmetrics "github.com/run0-ai/superfast-rsync/metrics"
	"github.com/run0-ai/superfast-rsync/rsync"
)

var (
	diffParallel bool
	diffOut      string
)

func init() {
	DiffCmd.Flags().BoolVarP(&diffParallel, "parallel", "p", false, "use the block-aligned parallel matcher (BLAKE3 signatures only)")
	DiffCmd.Flags().StringVarP(&diffOut, "out", "o", "", "output path for the delta (default: stdout)")
}

// DiffCmd computes a delta between a signature and a target file.
var DiffCmd = &cobra.Command{
	Use:   "diff <signature-file> <target-file>",
	Short: "`diff` computes a delta of target against a base signature",
	Long:  "`diff` computes a delta of target against a base signature",
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

		sigBlob, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading signature file: %v\n", err)
			os.Exit(1)
		}
		sig, err := rsync.Deserialize(sigBlob)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parsing signature: %v\n", err)
			os.Exit(1)
		}

		target, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading target file: %v\n", err)
			os.Exit(1)
		}

		out := os.Stdout
		if diffOut != "" {
			f, err := os.Create(diffOut)
			if err != nil {
				fmt.Fprintf(os.Stderr, "creating output file: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			out = f
		}

		useParallel := diffParallel || config.Signature.Parallel
		mode := "sequential"
		if useParallel {
			mode = "parallel"
		}

		start := time.Now()
		index := sig.Index()
		if useParallel {
			err = rsync.DiffParallel(index, target, out)
		} else {
			err = rsync.Diff(index, target, out)
		}
		rsyncmetrics.DiffDuration.WithValues(mode).UpdateSince(start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "computing delta: %v\n", err)
			os.Exit(1)
		}

		dcontext.GetLogger(ctx).Infof("computed delta for %d target bytes using %s matcher", len(target), mode)
	},
}
