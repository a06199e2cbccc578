package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/guttosm/contractpulse/internal/domain/models"
	"github.com/guttosm/contractpulse/internal/logger"
)

// RestSource reads the contracts table from a hosted PostgREST backend
// (e.g. Supabase): GET {baseURL}/rest/v1/{table}?select=*.
type RestSource struct {
	client  *fasthttp.Client
	baseURL string
	table   string
	apiKey  string
	timeout time.Duration
}

// NewRestSource constructs a RestSource.
//
// Parameters:
//   - baseURL: project URL without trailing slash (e.g. "https://xyz.supabase.co").
//   - table: table to read (e.g. "contratos_vivo").
//   - apiKey: key sent both as apikey and bearer token.
//   - timeout: per-request deadline, capped by the caller's context deadline.
func NewRestSource(baseURL, table, apiKey string, timeout time.Duration) *RestSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RestSource{
		client: &fasthttp.Client{
			Name:                "contractpulse",
			MaxIdleConnDuration: time.Minute,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		table:   table,
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// restContract mirrors a contratos_vivo row as serialized by PostgREST.
type restContract struct {
	ID             int64    `json:"id"`
	ContractNumber *string  `json:"numero_contrato"`
	RequestingArea *string  `json:"area_solicitante"`
	AlertType      *string  `json:"tipo_alerta"`
	Risk           *string  `json:"risco"`
	Status         *string  `json:"status"`
	Value          *float64 `json:"valor_contrato"`
	Penalty        *float64 `json:"multa"`
	ExpiryDate     *string  `json:"data_vencimento"`
	SignatureDate  *string  `json:"data_assinatura"`
	Supplier       *string  `json:"fornecedor"`
	ContractType   *string  `json:"tipo_contrato"`
}

// ListContracts fetches every row of the table.
//
// Returns:
//   - ErrNoData when the backend answers 2xx with a JSON null body.
//   - an error for transport failures, non-2xx statuses and invalid JSON.
func (s *RestSource) ListContracts(ctx context.Context) ([]models.Contract, error) {
	body, err := s.get(ctx, s.endpoint(""))
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrNoData
	}

	var rows []restContract
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode contracts: %w", err)
	}

	contracts := make([]models.Contract, 0, len(rows))
	for _, row := range rows {
		c := models.Contract{
			ID:             row.ID,
			ContractNumber: row.ContractNumber,
			RequestingArea: row.RequestingArea,
			AlertType:      row.AlertType,
			Risk:           row.Risk,
			Status:         row.Status,
			Value:          row.Value,
			Penalty:        row.Penalty,
			Supplier:       row.Supplier,
			ContractType:   row.ContractType,
		}
		c.ExpiryDate, c.InvalidExpiryDate = parseRestDate(row.ID, "data_vencimento", row.ExpiryDate)
		c.SignatureDate, c.InvalidSignatureDate = parseRestDate(row.ID, "data_assinatura", row.SignatureDate)
		contracts = append(contracts, c)
	}
	return contracts, nil
}

// Ping checks that the table endpoint answers.
func (s *RestSource) Ping(ctx context.Context) error {
	_, err := s.get(ctx, s.endpoint("&limit=1"))
	return err
}

func (s *RestSource) endpoint(extra string) string {
	return s.baseURL + "/rest/v1/" + url.PathEscape(s.table) + "?select=*" + extra
}

func (s *RestSource) get(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.table, err)
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch %s: unexpected status %d: %s", s.table, status, snippet(resp.Body()))
	}

	// resp is released on return; copy the body out.
	return append([]byte(nil), resp.Body()...), nil
}

// parseRestDate accepts "YYYY-MM-DD" and RFC 3339 timestamps. A nil or empty
// value is absent. Any other value that does not parse is reported as invalid.
func parseRestDate(id int64, column string, raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, false
	}
	v := strings.TrimSpace(*raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, false
		}
	}
	logger.L().Debug().Int64("id", id).Str("column", column).Str("value", *raw).Msg("unparseable date")
	return nil, true
}

func snippet(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
