package pipeline

import (
	"context"
	"sync"
)

// GenerateTables builds count independent tables, each a copy of base with
// TableID set to baseTableID+i. Outputs are disjoint: the keyed startpoint
// permutation and reduction mixer both fold in TableID, so no two tables
// in the set walk the same chains.
//
// When parallel is false, tables are generated sequentially and the first
// error aborts the remaining ones. When true, all tables run concurrently
// and the first error cancels the rest via ctx.
func GenerateTables(ctx context.Context, base Config, baseTableID uint32, count int, parallel bool) ([]*Table, error) {
	tables := make([]*Table, count)

	if !parallel {
		for i := 0; i < count; i++ {
			cfg := base
			cfg.TableID = baseTableID + uint32(i)

			table, err := Generate(ctx, cfg)
			if err != nil {
				return nil, err
			}
			tables[i] = table
		}
		return tables, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	wg.Add(count)
	for i := 0; i < count; i++ {
		go func(i int) {
			defer wg.Done()

			cfg := base
			cfg.TableID = baseTableID + uint32(i)

			table, err := Generate(ctx, cfg)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()
				return
			}

			tables[i] = table
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return tables, nil
}
