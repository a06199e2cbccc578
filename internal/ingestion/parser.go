package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/contractpulse/internal/domain/models"
	"github.com/guttosm/contractpulse/internal/storage"
)

// expectedHeaders enforces strict column ordering for contratos_vivo exports.
// If the header doesn't match (order + count, case-insensitive), the file is rejected.
var expectedHeaders = []string{
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
}

// dateLayouts are tried in order for date cells.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// parseAndPersistFile opens, validates, parses, and persists one file in batches.
// It fails on:
//   - header not matching expected order/length
//   - a row with the wrong column count or a malformed number/date
//   - unrecoverable I/O errors
//
// It tolerates:
//   - empty cells (the field stays absent, stored as NULL)
//
// Parameters:
//   - ctx:    context for cancellation/timeouts.
//   - path:   file path.
//   - repo:   repository for DB insertion.
//   - batch:  batch size for inserts (e.g., 5000).
func parseAndPersistFile(ctx context.Context, path string, repo storage.ContractsRepository, batch int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // checked explicitly below

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return 0, err
	}

	source := filepath.Base(path)
	buf := make([]models.Contract, 0, batch)
	lineNumber := 1

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := repo.InsertContractsBatch(ctx, buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedHeaders) {
			return 0, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedHeaders), len(rec))
		}

		c, err := recordToContract(rec)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		c.SourceFile = source

		buf = append(buf, c)
		total++
		if len(buf) >= batch {
			if err := flush(); err != nil {
				return 0, fmt.Errorf("flush batch ending line %d: %w", lineNumber, err)
			}
		}
	}

	if err := flush(); err != nil {
		return 0, fmt.Errorf("final flush: %w", err)
	}
	return total, nil
}

func validateHeader(header []string) error {
	if len(header) != len(expectedHeaders) {
		return fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if !strings.EqualFold(h, expectedHeaders[i]) {
			return fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}
	return nil
}

// recordToContract converts one CSV record (already validated length==11)
// into a models.Contract. Blank cells stay nil.
//
// Column order:
//
//	 0 numero_contrato   → ContractNumber
//	 1 area_solicitante  → RequestingArea
//	 2 tipo_alerta       → AlertType
//	 3 risco             → Risk
//	 4 status            → Status
//	 5 valor_contrato    → Value   ("1.234,56" or "1234.56")
//	 6 multa             → Penalty ("1.234,56" or "1234.56")
//	 7 data_vencimento   → ExpiryDate    ("2006-01-02" or "02/01/2006")
//	 8 data_assinatura   → SignatureDate ("2006-01-02" or "02/01/2006")
//	 9 fornecedor        → Supplier
//	10 tipo_contrato     → ContractType
func recordToContract(rec []string) (models.Contract, error) {
	var c models.Contract
	var err error

	c.ContractNumber = text(rec[0])
	c.RequestingArea = text(rec[1])
	c.AlertType = text(rec[2])
	c.Risk = text(rec[3])
	c.Status = text(rec[4])

	if c.Value, err = parseDecimal(rec[5]); err != nil {
		return c, fmt.Errorf("invalid valor_contrato: %w", err)
	}
	if c.Penalty, err = parseDecimal(rec[6]); err != nil {
		return c, fmt.Errorf("invalid multa: %w", err)
	}
	if c.ExpiryDate, err = parseDate(rec[7]); err != nil {
		return c, fmt.Errorf("invalid data_vencimento: %w", err)
	}
	if c.SignatureDate, err = parseDate(rec[8]); err != nil {
		return c, fmt.Errorf("invalid data_assinatura: %w", err)
	}

	c.Supplier = text(rec[9])
	c.ContractType = text(rec[10])
	return c, nil
}

func text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseDecimal accepts Brazilian ("1.234,56") and plain ("1234.56") notation,
// with an optional "R$" prefix.
func parseDecimal(s string) (*float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return nil, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD or DD/MM/YYYY)", s)
}
