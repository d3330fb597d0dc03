package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/truelossless/cugparck/internal/bench"
	"github.com/truelossless/cugparck/internal/chain"
	"github.com/truelossless/cugparck/internal/hashreg"
	"github.com/truelossless/cugparck/internal/rterrors"
)

var (
	benchHash          string
	benchCharsetLit    string
	benchCharsetPreset string
	benchMaxLength     int
	benchWorkers       int
	benchBatchSize     int
	benchDuration      time.Duration
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Measure the CPU executor's chain-extension throughput",
	RunE:  runBenchmark,
}

func init() {
	f := benchmarkCmd.Flags()
	f.StringVar(&benchHash, "hash", "ntlm", "hash kind: md4, md5, ntlm, sha1, sha2-256, sha3-256")
	f.StringVar(&benchCharsetLit, "charset", "", "literal alphabet (overrides --charset-preset)")
	f.StringVar(&benchCharsetPreset, "charset-preset", "lower", "preset alphabet name")
	f.IntVar(&benchMaxLength, "max-length", 8, "maximum plaintext length")
	f.IntVar(&benchWorkers, "workers", 0, "worker count (0 autodetects)")
	f.IntVar(&benchBatchSize, "batch-size", 0, "synthetic batch size (0 picks a default)")
	f.DurationVar(&benchDuration, "duration", 2*time.Second, "measurement window")

	rootCmd.AddCommand(benchmarkCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	hashKind, err := hashreg.Parse(benchHash)
	if err != nil {
		return withExitCode(2, &rterrors.InvalidParameter{Message: err.Error()})
	}

	cs, err := resolveCharset(benchCharsetLit, benchCharsetPreset, benchMaxLength)
	if err != nil {
		return withExitCode(2, err)
	}

	newKernel := func() *chain.Kernel {
		return chain.NewKernel(chain.Params{Charset: cs, Hash: hashKind, TableID: 0})
	}

	result, err := bench.MeasureCPU(context.Background(), newKernel, benchWorkers, benchBatchSize, benchDuration)
	if err != nil {
		return withExitCode(1, err)
	}

	workers := "auto"
	if benchWorkers > 0 {
		workers = fmt.Sprintf("%d", result.Workers)
	}

	fmt.Printf(
		"%s hashes/sec (%s hashes over %s, workers=%s)\n",
		humanize.Comma(int64(result.HashesPerSecond)),
		humanize.Comma(int64(result.Operations)),
		result.Duration.Round(time.Millisecond),
		workers,
	)
	return nil
}
