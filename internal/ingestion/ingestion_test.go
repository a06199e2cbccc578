package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/guttosm/contractpulse/internal/storage"
)

func useRepo(t *testing.T, repo *fakeRepo) {
	t.Helper()
	old := repoCtor
	repoCtor = func(_ *sql.DB, _ string) storage.ContractsRepository { return repo }
	t.Cleanup(func() { repoCtor = old })
}

func TestImportDirectory_ImportsAllFiles(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.csv", validHeader+validRow+validRow)
	writeTempFile(t, dir, "b.csv", validHeader+validRow)
	writeTempFile(t, dir, "notes.txt", "ignored")

	repo := &fakeRepo{}
	useRepo(t, repo)

	n, err := ImportDirectory(context.Background(), dir, nil, Options{Parallel: 2})
	if err != nil {
		t.Fatalf("ImportDirectory err: %v", err)
	}
	if n != 3 || repo.rows() != 3 {
		t.Fatalf("expected 3 rows, got returned=%d inserted=%d", n, repo.rows())
	}
	if repo.imported["a.csv"] != 2 || repo.imported["b.csv"] != 1 {
		t.Fatalf("unexpected import log: %v", repo.imported)
	}
}

func TestImportDirectory_SkipIfAlreadyImported(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.csv", validHeader+validRow)

	repo := &fakeRepo{imported: map[string]int{"a.csv": 1}}
	useRepo(t, repo)

	n, err := ImportDirectory(context.Background(), dir, nil, Options{})
	if err != nil {
		t.Fatalf("ImportDirectory err: %v", err)
	}
	if n != 0 || repo.rows() != 0 {
		t.Fatalf("expected no inserts when already imported, got %d", repo.rows())
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("unexpected delete: %v", repo.deleted)
	}
}

func TestImportDirectory_ForceReimport(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.csv", validHeader+validRow+validRow)

	repo := &fakeRepo{imported: map[string]int{"a.csv": 1}}
	useRepo(t, repo)

	n, err := ImportDirectory(context.Background(), dir, nil, Options{Force: true, Parallel: 1})
	if err != nil {
		t.Fatalf("ImportDirectory err: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "a.csv" {
		t.Fatalf("expected delete for a.csv, got %v", repo.deleted)
	}
	if n != 2 || repo.imported["a.csv"] != 2 {
		t.Fatalf("expected 2 rows re-imported, got n=%d log=%v", n, repo.imported)
	}
}

func TestImportDirectory_Errors(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name    string
		files   map[string]string
		repo    *fakeRepo
		wantErr string
	}{
		{name: "no files", files: nil, repo: &fakeRepo{}, wantErr: "no *.csv files found"},
		{name: "import log check", files: map[string]string{"a.csv": validHeader}, repo: &fakeRepo{hasErr: boom}, wantErr: "check import log"},
		{name: "upsert log", files: map[string]string{"a.csv": validHeader + validRow}, repo: &fakeRepo{logErr: boom}, wantErr: "upsert import log"},
		{name: "insert", files: map[string]string{"a.csv": validHeader + validRow}, repo: &fakeRepo{err: boom}, wantErr: "final flush"},
		{name: "bad file", files: map[string]string{"a.csv": "x;y\n"}, repo: &fakeRepo{}, wantErr: "file a.csv: invalid header length"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tc.files {
				writeTempFile(t, dir, name, content)
			}
			useRepo(t, tc.repo)

			_, err := ImportDirectory(context.Background(), dir, nil, Options{Parallel: 1})
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestImportDirectory_DefaultTable(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "a.csv", validHeader)

	var gotTable string
	old := repoCtor
	repoCtor = func(_ *sql.DB, table string) storage.ContractsRepository {
		gotTable = table
		return &fakeRepo{}
	}
	t.Cleanup(func() { repoCtor = old })

	if _, err := ImportDirectory(context.Background(), dir, nil, Options{}); err != nil {
		t.Fatalf("ImportDirectory err: %v", err)
	}
	if gotTable != "contratos_vivo" {
		t.Fatalf("table: got %q", gotTable)
	}
}

func TestClampParallel(t *testing.T) {
	def := runtime.NumCPU()
	if def > maxParallelFiles {
		def = maxParallelFiles
	}
	cases := []struct {
		in, want int
	}{
		{in: 0, want: def},
		{in: -3, want: def},
		{in: 1, want: 1},
		{in: 4, want: 4},
		{in: 64, want: maxParallelFiles},
	}
	for _, tc := range cases {
		if got := clampParallel(tc.in); got != tc.want {
			t.Errorf("clampParallel(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
