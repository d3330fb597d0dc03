package cmd

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/truelossless/cugparck/internal/appstate"
	"github.com/truelossless/cugparck/internal/attack"
	"github.com/truelossless/cugparck/internal/chain"
	"github.com/truelossless/cugparck/internal/charset"
	"github.com/truelossless/cugparck/internal/rterrors"
	"github.com/truelossless/cugparck/internal/store"
)

var (
	attackDigest    string
	attackHashList  string
	attackTablesDir string
)

var attackCmd = &cobra.Command{
	Use:   "attack",
	Short: "Invert a digest, or a file of digests, against a set of tables",
	RunE:  runAttackCmd,
}

func init() {
	f := attackCmd.Flags()
	f.StringVar(&attackDigest, "hash", "", "a single hex-encoded digest to invert")
	f.StringVar(&attackHashList, "hash-list", "", "a file of newline-separated hex-encoded digests")
	f.StringVar(&attackTablesDir, "tables-dir", "", "directory of .cgpk tables (default: the configured tables directory)")

	rootCmd.AddCommand(attackCmd)
}

func runAttackCmd(cmd *cobra.Command, args []string) error {
	if attackDigest == "" && attackHashList == "" {
		return withExitCode(2, &rterrors.InvalidParameter{Message: "attack: one of --hash or --hash-list is required"})
	}

	dir := attackTablesDir
	if dir == "" {
		dir = appstate.State.TablesDir
	}

	sources, closeAll, err := loadTableSources(dir)
	if err != nil {
		return withExitCode(1, err)
	}
	defer closeAll()

	if attackHashList != "" {
		return runAttackHashList(sources)
	}
	return runAttack(sources)
}

// loadTableSources globs every .cgpk file in dir and reconstructs an
// attack.TableSource purely from each file's own header: charset, hash kind
// and table id never need to be supplied separately on the command line.
func loadTableSources(dir string) ([]attack.TableSource, func(), error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.cgpk"))
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, &rterrors.InvalidParameter{Message: fmt.Sprintf("attack: no .cgpk tables found in %s", dir)}
	}

	sources := make([]attack.TableSource, 0, len(paths))
	readers := make([]*store.Reader, 0, len(paths))

	closeAll := func() {
		for _, r := range readers {
			r.Close()
		}
	}

	for _, path := range paths {
		reader, err := store.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		readers = append(readers, reader)

		h := reader.Header()
		cs, err := charset.New(h.Charset, int(h.L))
		if err != nil {
			closeAll()
			return nil, nil, &rterrors.CorruptedTable{Message: err.Error()}
		}

		kernel := chain.NewKernel(chain.Params{Charset: cs, Hash: h.HashKind, TableID: h.TableID})

		sources = append(sources, attack.TableSource{
			Reader:  reader,
			Kernel:  kernel,
			Charset: cs,
			Hash:    h.HashKind,
		})
	}

	return sources, closeAll, nil
}

func runAttack(sources []attack.TableSource) error {
	digest, err := hex.DecodeString(strings.TrimSpace(attackDigest))
	if err != nil {
		return withExitCode(2, &rterrors.InvalidParameter{Message: "attack: --hash is not valid hex"})
	}

	result, err := attack.Attack(context.Background(), digest, sources)
	if err != nil {
		if errors.Is(err, rterrors.ErrNotFound) {
			fmt.Println("not found")
			return withExitCode(3, err)
		}
		return withExitCode(1, err)
	}

	fmt.Println(string(result.Plaintext))
	return nil
}

func runAttackHashList(sources []attack.TableSource) error {
	f, err := os.Open(attackHashList)
	if err != nil {
		return withExitCode(1, err)
	}
	defer f.Close()

	allFound := true
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		digest, err := hex.DecodeString(line)
		if err != nil {
			return withExitCode(2, &rterrors.InvalidParameter{Message: fmt.Sprintf("attack: %q is not valid hex", line)})
		}

		result, err := attack.Attack(context.Background(), digest, sources)
		switch {
		case err == nil:
			fmt.Printf("%s:%s\n", line, result.Plaintext)
		case errors.Is(err, rterrors.ErrNotFound):
			fmt.Printf("%s:<not found>\n", line)
			allFound = false
		default:
			return withExitCode(1, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return withExitCode(1, err)
	}

	if !allFound {
		return withExitCode(3, rterrors.ErrNotFound)
	}
	return nil
}
