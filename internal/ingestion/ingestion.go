package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/contractpulse/internal/logger"
	"github.com/guttosm/contractpulse/internal/storage"
)

const (
	filePattern      = "*.csv"
	defaultBatchSize = 5000
	maxParallelFiles = 8
	defaultTable     = "contratos_vivo"
)

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB, table string) storage.ContractsRepository {
	return storage.NewContractsRepository(db, table)
}

// Options tunes ImportDirectory.
//
// Fields:
//   - Table: destination table (default "contratos_vivo").
//   - Parallel: files processed concurrently; 0 means min(8, NumCPU), values are clamped to 1..8.
//   - Force: re-import files already recorded in import_log (their rows are deleted first).
type Options struct {
	Table    string
	Parallel int
	Force    bool
}

// ImportDirectory loads every ';'-separated *.csv export in dir into Postgres.
//
// Behavior:
//   - Files are processed in name order, up to Parallel at a time.
//   - A file already present in import_log is skipped unless Force is set.
//   - Each file is validated (header, column count, number and date format)
//     and inserted in batches via the repository.
//   - If any file fails, the remaining ones are canceled and the first error is returned.
//
// Returns:
//   - int: rows imported across all files (skipped files count 0).
//   - error: first error encountered (if any).
func ImportDirectory(ctx context.Context, dir string, db *sql.DB, opts Options) (int, error) {
	table := opts.Table
	if table == "" {
		table = defaultTable
	}
	repo := repoCtor(db, table)

	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no %s files found in %s", filePattern, dir)
	}
	sort.Strings(files)

	maxParallel := clampParallel(opts.Parallel)
	log := logger.Component("ingestion")
	log.Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", maxParallel).Msg("import start")

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)
	counts := make([]int, len(files))

	for i, file := range files {
		idx := i
		f := file
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			return 0, waitErr(g, gctx)
		}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()
			base := filepath.Base(f)
			log.Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Msg("file start")

			exists, err := repo.HasImportForFile(gctx, base)
			if err != nil {
				return fmt.Errorf("file %s: check import log: %w", base, err)
			}
			if exists && !opts.Force {
				log.Info().Str("file", base).Bool("skipped", true).Msg("already imported")
				return nil
			}
			if exists {
				if err := repo.DeleteContractsBySource(gctx, base); err != nil {
					return fmt.Errorf("file %s: delete existing: %w", base, err)
				}
			}

			total, err := parseAndPersistFile(gctx, f, repo, defaultBatchSize)
			if err != nil {
				log.Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", base, err)
			}
			if err := repo.UpsertImportLog(gctx, base, total); err != nil {
				return fmt.Errorf("file %s: upsert import log: %w", base, err)
			}
			counts[idx] = total
			log.Info().Str("file", base).Int("rows", total).Dur("elapsed", time.Since(start)).Bool("force", opts.Force).Msg("file done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	rows := 0
	for _, n := range counts {
		rows += n
	}
	log.Info().Int("rows", rows).Msg("import completed")
	return rows, nil
}

func clampParallel(parallel int) int {
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	if parallel > maxParallelFiles {
		parallel = maxParallelFiles
	}
	if parallel < 1 {
		parallel = 1
	}
	return parallel
}

// waitErr drains the group after cancellation and prefers the worker error.
func waitErr(g *errgroup.Group, ctx context.Context) error {
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
