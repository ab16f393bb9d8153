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
	sigBlockSize uint32
	sigAlgorithm string
	sigOut       string
)

func init() {
	SignatureCmd.Flags().Uint32VarP(&sigBlockSize, "block-size", "b", 0, "block size in bytes (default taken from configuration)")
	SignatureCmd.Flags().StringVarP(&sigAlgorithm, "hash", "H", "", `strong hash algorithm: "md4" or "blake3" (default taken from configuration)`)
	SignatureCmd.Flags().StringVarP(&sigOut, "out", "o", "", "output path for the signature blob (default: stdout)")
}

// SignatureCmd computes a block signature for a base file.
var SignatureCmd = &cobra.Command{
	Use:   "signature <base-file>",
	Short: "`signature` builds a block signature for a base file",
	Long:  "`signature` builds a block signature for a base file",
	Args:  cobra.ExactArgs(1),
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

		alg := sigAlgorithm
		if alg == "" {
			alg = config.Signature.HashAlgorithm
		}
		hashAlg, err := parseHashAlgorithm(alg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		blockSize := sigBlockSize
		if blockSize == 0 {
			blockSize = config.Signature.BlockSize
		}

		base, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading base file: %v\n", err)
			os.Exit(1)
		}

		start := time.Now()
		sig := rsync.Calculate(base, rsync.SignatureOptions{
			BlockSize:      blockSize,
			CryptoHashSize: uint32(hashAlg.MaxHashSize()),
			HashAlgorithm:  hashAlg,
		})
		rsyncmetrics.SignatureBuildDuration.WithValues(alg).UpdateSince(start)
		rsyncmetrics.SignaturesBuilt.WithValues(alg).Inc()

		dcontext.GetLogger(ctx).Infof("built signature: %d bytes, block size %d, hash %s", len(sig.Serialized()), blockSize, alg)

		out := os.Stdout
		if sigOut != "" {
			f, err := os.Create(sigOut)
			if err != nil {
				fmt.Fprintf(os.Stderr, "creating output file: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			out = f
		}
		if _, err := out.Write(sig.Serialized()); err != nil {
			fmt.Fprintf(os.Stderr, "writing signature: %v\n", err)
			os.Exit(1)
		}
	},
}

func parseHashAlgorithm(s string) (rsync.HashAlgorithm, error) {
	switch s {
	case "", "blake3":
		return rsync.Blake3, nil
	case "md4":
		return rsync.Md4, nil
	default:
		return 0, fmt.Errorf("unknown hash algorithm %q: want %q or %q", s, "md4", "blake3")
	}
}
