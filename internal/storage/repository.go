package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/contractpulse/internal/domain/models"
	pq "github.com/lib/pq"
)

// ErrNoData is returned by a source whose fetch succeeded without yielding a
// data set at all (as opposed to an empty one).
var ErrNoData = errors.New("no contract data returned")

// ContractSource is the read side used by the quality service: it returns
// every contract row or fails.
type ContractSource interface {
	ListContracts(ctx context.Context) ([]models.Contract, error)
	Ping(ctx context.Context) error
}

// ContractsRepository defines contract for DB operations.
type ContractsRepository interface {
	ContractSource
	InsertContractsBatch(ctx context.Context, contracts []models.Contract) error
	HasImportForFile(ctx context.Context, filename string) (bool, error)
	UpsertImportLog(ctx context.Context, filename string, rowCount int) error
	DeleteContractsBySource(ctx context.Context, filename string) error
}

// contractColumns lists the persisted columns in scan/copy order.
var contractColumns = []string{
	"numero_contrato",
	"area_solicitante",
	"tipo_alerta",
	"risco",
	"status",
	"valor_contrato",
	"multa",
	"data_vencimento",
	"data_assinatura",
	"fornecedor",
	"tipo_contrato",
	"source_file",
}

type contractsRepository struct {
	db    *sql.DB
	table string
}

// NewContractsRepository returns a repository reading and writing table.
func NewContractsRepository(db *sql.DB, table string) ContractsRepository {
	return &contractsRepository{db: db, table: table}
}

func (r *contractsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListContracts reads the whole table in a single query, ordered by id.
func (r *contractsRepository) ListContracts(ctx context.Context) ([]models.Contract, error) {
	query := fmt.Sprintf(`
		SELECT id, numero_contrato, area_solicitante, tipo_alerta, risco, status,
		       valor_contrato, multa, data_vencimento, data_assinatura,
		       fornecedor, tipo_contrato, COALESCE(source_file, '')
		FROM %s
		ORDER BY id`, pq.QuoteIdentifier(r.table))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query contracts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	contracts := make([]models.Contract, 0)
	for rows.Next() {
		var c models.Contract
		var number, area, alert, risk, status, supp, ctype sql.NullString
		var value, penalty sql.NullFloat64
		var expiry, signature sql.NullTime
		if err := rows.Scan(
			&c.ID, &number, &area, &alert, &risk, &status,
			&value, &penalty, &expiry, &signature,
			&supp, &ctype, &c.SourceFile,
		); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		c.ContractNumber = stringPtr(number)
		c.RequestingArea = stringPtr(area)
		c.AlertType = stringPtr(alert)
		c.Risk = stringPtr(risk)
		c.Status = stringPtr(status)
		c.Value = floatPtr(value)
		c.Penalty = floatPtr(penalty)
		c.ExpiryDate = timePtr(expiry)
		c.SignatureDate = timePtr(signature)
		c.Supplier = stringPtr(supp)
		c.ContractType = stringPtr(ctype)
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contracts: %w", err)
	}
	return contracts, nil
}

// InsertContractsBatch inserts multiple contracts in a single transaction
// using COPY.
func (r *contractsRepository) InsertContractsBatch(ctx context.Context, contracts []models.Contract) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(r.table, contractColumns...))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, c := range contracts {
		if _, err := stmt.ExecContext(ctx,
			nullable(c.ContractNumber),
			nullable(c.RequestingArea),
			nullable(c.AlertType),
			nullable(c.Risk),
			nullable(c.Status),
			nullableFloat(c.Value),
			nullableFloat(c.Penalty),
			nullableTime(c.ExpiryDate),
			nullableTime(c.SignatureDate),
			nullable(c.Supplier),
			nullable(c.ContractType),
			c.SourceFile,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// HasImportForFile checks if a CSV export was already imported.
func (r *contractsRepository) HasImportForFile(ctx context.Context, filename string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM import_log WHERE filename = $1)`, filename).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertImportLog records (or updates) an import entry for a file.
func (r *contractsRepository) UpsertImportLog(ctx context.Context, filename string, rowCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO import_log (filename, row_count)
		VALUES ($1, $2)
		ON CONFLICT (filename)
		DO UPDATE SET row_count = EXCLUDED.row_count,
					  imported_at = NOW()
	`, filename, rowCount)
	return err
}

// DeleteContractsBySource removes every contract imported from filename.
func (r *contractsRepository) DeleteContractsBySource(ctx context.Context, filename string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE source_file = $1`, pq.QuoteIdentifier(r.table))
	_, err := r.db.ExecContext(ctx, query, filename)
	return err
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// nullable helpers map absent optional columns to NULL.
func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
