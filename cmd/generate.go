package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/spf13/cobra"

	"github.com/truelossless/cugparck/internal/appstate"
	"github.com/truelossless/cugparck/internal/bench"
	"github.com/truelossless/cugparck/internal/chain"
	"github.com/truelossless/cugparck/internal/charset"
	"github.com/truelossless/cugparck/internal/executor"
	"github.com/truelossless/cugparck/internal/hashreg"
	"github.com/truelossless/cugparck/internal/pipeline"
	"github.com/truelossless/cugparck/internal/rterrors"
	"github.com/truelossless/cugparck/internal/store"
)

// defaultBatchMemoryBudgetBytes bounds the batch size bench.RecommendBatchSize
// picks when --batch-size isn't given: 256MiB of chain.Chain values.
const defaultBatchMemoryBudgetBytes = 256 << 20

// charsetPresets maps a short preset name to its literal alphabet. Each
// literal is deduplicated with slice.Unique before use, so a preset typo'd
// into a hand-edited config with repeated bytes never doubles a symbol's
// sampling weight.
var charsetPresets = map[string]string{
	"digit":         "0123456789",
	"lower":         "abcdefghijklmnopqrstuvwxyz",
	"upper":         "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"alpha":         "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"alphanum":      "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
	"loweralphanum": "abcdefghijklmnopqrstuvwxyz0123456789",
}

var (
	genHash            string
	genCharsetLiteral  string
	genCharsetPreset   string
	genMaxLength       int
	genChainLength     uint64
	genStartpoints     uint64
	genSuccessRate     float64
	genFiltrationCount int
	genTableCount      int
	genOutput          string
	genWorkers         int
	genBatchSize       int
	genShowProgress    bool
	genParallelTables  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one or more rainbow tables",
	RunE:  runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genHash, "hash", "ntlm", "hash kind: md4, md5, ntlm, sha1, sha2-256, sha3-256")
	f.StringVar(&genCharsetLiteral, "charset", "", "literal alphabet (overrides --charset-preset)")
	f.StringVar(&genCharsetPreset, "charset-preset", "lower", "preset alphabet name")
	f.IntVar(&genMaxLength, "max-length", 8, "maximum plaintext length")
	f.Uint64Var(&genChainLength, "chain-length", 10000, "chain length t")
	f.Uint64Var(&genStartpoints, "startpoints", 0, "startpoint count m0 (0 derives it from --success-rate)")
	f.Float64Var(&genSuccessRate, "success-rate", 0.99, "target per-table coverage used to derive m0 when --startpoints is 0")
	f.IntVar(&genFiltrationCount, "filtration-count", 0, "number of interior filtration columns")
	f.IntVar(&genTableCount, "tables", 1, "number of tables to generate")
	f.StringVar(&genOutput, "output", "", "output directory (default: the configured tables directory)")
	f.IntVar(&genWorkers, "workers", 0, "CPU executor worker count (0 autodetects)")
	f.IntVar(&genBatchSize, "batch-size", 0, "chains per Execute call (0 derives it from a memory budget via bench.RecommendBatchSize)")
	f.BoolVar(&genShowProgress, "progress", true, "show a progress bar")
	f.BoolVar(&genParallelTables, "parallel-tables", false, "generate all tables concurrently instead of one at a time")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	hashKind, err := hashreg.Parse(genHash)
	if err != nil {
		return withExitCode(2, &rterrors.InvalidParameter{Message: err.Error()})
	}

	cs, err := resolveCharset(genCharsetLiteral, genCharsetPreset, genMaxLength)
	if err != nil {
		return withExitCode(2, err)
	}

	m0 := genStartpoints
	if m0 == 0 {
		m0 = estimateStartpoints(cs.SearchSpaceSize(), genChainLength, genSuccessRate)
	}

	output := genOutput
	if output == "" {
		output = appstate.State.TablesDir
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return withExitCode(1, err)
	}

	newKernel := func(tableID uint32) *chain.Kernel {
		return chain.NewKernel(chain.Params{Charset: cs, Hash: hashKind, TableID: tableID})
	}

	batchSize := genBatchSize
	if batchSize <= 0 {
		caps := executor.NewCPU(func() *chain.Kernel { return newKernel(0) }, genWorkers).Capabilities()
		batchSize = bench.RecommendBatchSize(caps, defaultBatchMemoryBudgetBytes)
	}

	cfg := pipeline.Config{
		Charset:         cs,
		Hash:            hashKind,
		T:               genChainLength,
		M0:              m0,
		FiltrationCount: genFiltrationCount,
		NewKernel:       newKernel,
		Workers:         genWorkers,
		MaxRetries:      3,
		BatchSize:       batchSize,
		ShowProgress:    genShowProgress,
	}

	genStarted := time.Now()
	tables, err := pipeline.GenerateTables(context.Background(), cfg, 0, genTableCount, genParallelTables)
	if err != nil {
		return withExitCode(classifyGenerateErr(err), err)
	}
	genElapsed := time.Since(genStarted)

	for i, table := range tables {
		tableCfg := cfg
		tableCfg.TableID = uint32(i)

		appstate.GenerationFinished(appstate.NewGenerationStats(
			tableCfg.TableID, cfg.M0, cfg.T, cs.SearchSpaceSize(), len(table.Chains), genElapsed,
		))

		started := time.Now()
		path := filepath.Join(output, fmt.Sprintf("table_%d.cgpk", i))

		f, err := os.Create(path)
		if err != nil {
			return withExitCode(1, err)
		}
		err = store.WriteTable(f, tableCfg.TableParams(), table.Chains)
		closeErr := f.Close()
		if err != nil {
			return withExitCode(1, err)
		}
		if closeErr != nil {
			return withExitCode(1, closeErr)
		}

		appstate.TableWritten(path, len(table.Chains), time.Since(started))
	}

	return nil
}

// resolveCharset builds a charset.Config from a literal alphabet (when
// non-empty) or a named preset, deduplicating the symbols before indexing.
func resolveCharset(literal, preset string, maxLen int) (*charset.Config, error) {
	raw := literal
	if raw == "" {
		p, ok := charsetPresets[preset]
		if !ok {
			return nil, &rterrors.InvalidParameter{Message: fmt.Sprintf("unknown charset preset %q", preset)}
		}
		raw = p
	}

	symbols := make([]byte, len(raw))
	copy(symbols, raw)
	deduped := slice.Unique(symbols)

	cs, err := charset.New(deduped, maxLen)
	if err != nil {
		return nil, &rterrors.InvalidParameter{Message: err.Error()}
	}
	return cs, nil
}

// estimateStartpoints derives a startpoint count from the standard
// approximation for single-table coverage: m0 = ceil(-N*ln(1-p)/t).
func estimateStartpoints(searchSpace, t uint64, successRate float64) uint64 {
	if successRate <= 0 || successRate >= 1 || t == 0 {
		return searchSpace / 10
	}
	m0 := math.Ceil(-float64(searchSpace) * math.Log(1-successRate) / float64(t))
	if m0 < 1 {
		m0 = 1
	}
	if m0 > float64(searchSpace) {
		m0 = float64(searchSpace)
	}
	return uint64(m0)
}

// classifyGenerateErr maps a generation failure to the process exit code
// contract: 2 for a bad parameter, 1 for anything else.
func classifyGenerateErr(err error) int {
	var invalid *rterrors.InvalidParameter
	var overflow *rterrors.SearchSpaceOverflow
	if errors.As(err, &invalid) || errors.As(err, &overflow) {
		return 2
	}
	return 1
}
