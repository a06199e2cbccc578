package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/guttosm/contractpulse/internal/domain/models"
)

func newRestServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	seen := &http.Request{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = *r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestRestSource_ListContracts(t *testing.T) {
	expiry := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		status  int
		body    string
		want    []models.Contract
		wantErr error
		anyErr  bool
	}{
		{
			name:   "rows",
			status: http.StatusOK,
			body: `[{"id":7,"numero_contrato":"CT-7","risco":"ALTO","valor_contrato":1500.25,"multa":null,
				"data_vencimento":"2025-10-01","data_assinatura":"not-a-date","fornecedor":"Fornecedor A"}]`,
			want: []models.Contract{{
				ID:             7,
				ContractNumber: models.StringPtr("CT-7"),
				Risk:           models.StringPtr("ALTO"),
				Value:          models.FloatPtr(1500.25),
				ExpiryDate:     models.TimePtr(expiry),
				Supplier:       models.StringPtr("Fornecedor A"),

				InvalidSignatureDate: true,
			}},
		},
		{name: "empty array", status: http.StatusOK, body: `[]`, want: []models.Contract{}},
		{name: "null body", status: http.StatusOK, body: `null`, wantErr: ErrNoData},
		{name: "server error", status: http.StatusInternalServerError, body: `{"message":"boom"}`, anyErr: true},
		{name: "invalid json", status: http.StatusOK, body: `{"id":`, anyErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, seen := newRestServer(t, tc.status, tc.body)
			src := NewRestSource(srv.URL+"/", "contratos_vivo", "anon-key", 2*time.Second)

			got, err := src.ListContracts(context.Background())
			switch {
			case tc.wantErr != nil:
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
			case tc.anyErr:
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if diff := cmp.Diff(tc.want, got); diff != "" {
					t.Fatalf("contracts mismatch (-want +got):\n%s", diff)
				}
			}

			if seen.URL.Path != "/rest/v1/contratos_vivo" || seen.URL.Query().Get("select") != "*" {
				t.Fatalf("unexpected request uri %s", seen.URL.String())
			}
			if seen.Header.Get("apikey") != "anon-key" || seen.Header.Get("Authorization") != "Bearer anon-key" {
				t.Fatalf("missing auth headers: %v", seen.Header)
			}
		})
	}
}

func TestRestSource_Ping(t *testing.T) {
	srv, seen := newRestServer(t, http.StatusOK, `[]`)
	src := NewRestSource(srv.URL, "contratos_vivo", "k", 0)

	if err := src.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if seen.URL.Query().Get("limit") != "1" {
		t.Fatalf("ping should limit rows, got %s", seen.URL.RawQuery)
	}
}

func TestRestSource_CanceledContext(t *testing.T) {
	src := NewRestSource("http://127.0.0.1:1", "contratos_vivo", "k", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.ListContracts(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestParseRestDate(t *testing.T) {
	cases := []struct {
		in          *string
		want        *time.Time
		wantInvalid bool
	}{
		{in: nil},
		{in: models.StringPtr("")},
		{in: models.StringPtr("  "), wantInvalid: true},
		{in: models.StringPtr("2025-01-31"), want: models.TimePtr(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))},
		{in: models.StringPtr("2025-01-31T10:00:00Z"), want: models.TimePtr(time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC))},
		{in: models.StringPtr("31/01/2025"), wantInvalid: true},
	}
	for _, c := range cases {
		got, invalid := parseRestDate(1, "data_vencimento", c.in)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Fatalf("parseRestDate mismatch (-want +got):\n%s", diff)
		}
		if invalid != c.wantInvalid {
			t.Fatalf("parseRestDate(%v) invalid = %v, want %v", c.in, invalid, c.wantInvalid)
		}
	}
}
