package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/guttosm/contractpulse/internal/cache"
	"github.com/guttosm/contractpulse/internal/domain/models"
	"github.com/guttosm/contractpulse/internal/quality"
	"github.com/guttosm/contractpulse/internal/storage"
)

var now = time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

type stubSource struct {
	mu      sync.Mutex
	records []models.Contract
	err     error
	calls   int
}

func (s *stubSource) ListContracts(context.Context) ([]models.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.records, s.err
}

func (s *stubSource) Ping(context.Context) error { return s.err }

type stubRecorder struct {
	outcomes  []string
	published []models.QualityMetrics
}

func (r *stubRecorder) SourceFetch(outcome string) { r.outcomes = append(r.outcomes, outcome) }
func (r *stubRecorder) PublishOverview(q models.QualityMetrics, _ time.Time) {
	r.published = append(r.published, q)
}

func contracts() []models.Contract {
	return []models.Contract{
		{
			ContractNumber: models.StringPtr("CT-1"),
			RequestingArea: models.StringPtr("TI"),
			Risk:           models.StringPtr(models.RiskHigh),
			Status:         models.StringPtr(models.StatusCritical),
			Value:          models.FloatPtr(1_000_000),
			Penalty:        models.FloatPtr(500),
			ExpiryDate:     models.TimePtr(now.AddDate(0, 0, 10)),
			Supplier:       models.StringPtr("Fornecedor A"),
			ContractType:   models.StringPtr("Serviços"),
		},
		{
			ContractNumber: models.StringPtr("CT-2"),
			RequestingArea: models.StringPtr("Jurídico"),
			Risk:           models.StringPtr(models.RiskLow),
			Status:         models.StringPtr(models.StatusRenewed),
			Value:          models.FloatPtr(200),
			Penalty:        models.FloatPtr(10),
			Supplier:       models.StringPtr("Fornecedor B"),
			ContractType:   models.StringPtr("Licença"),
		},
	}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestQualityService_ComputesFromSource(t *testing.T) {
	src := &stubSource{records: contracts()}
	svc := NewQualityService(src, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() (any, error)
		want any
	}{
		{
			name: "overview",
			run:  func() (any, error) { return svc.Overview(ctx, nil) },
			want: quality.ComputeOverview(contracts(), now),
		},
		{
			name: "distribution",
			run:  func() (any, error) { return svc.Distribution(ctx, nil) },
			want: quality.ComputeInconsistencyDistribution(contracts(), now),
		},
		{
			name: "suppliers",
			run:  func() (any, error) { return svc.SupplierRanking(ctx, nil) },
			want: quality.ComputeSupplierRanking(contracts()),
		},
		{
			name: "risk",
			run:  func() (any, error) { return svc.RiskBreakdown(ctx, nil) },
			want: quality.ComputeContractRiskBreakdown(contracts()),
		},
		{
			name: "dashboard",
			run:  func() (any, error) { return svc.Dashboard(ctx, nil) },
			want: quality.BuildDashboard(contracts(), now, quality.DefaultAlertThresholds()),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.run()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got, approx); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQualityService_AsOfOverridesClock(t *testing.T) {
	src := &stubSource{records: contracts()}
	svc := NewQualityService(src, WithClock(func() time.Time { return now }))

	later := now.AddDate(0, 0, 20)
	got, err := svc.Overview(context.Background(), &later)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if got.ContractsExpiring30Days != 0 {
		t.Fatalf("contract expired before as-of date should not count, got %d", got.ContractsExpiring30Days)
	}
}

func TestQualityService_FetchFailure(t *testing.T) {
	boom := errors.New("connection refused")
	rec := &stubRecorder{}
	svc := NewQualityService(&stubSource{err: boom}, WithRecorder(rec))
	ctx := context.Background()

	calls := []struct {
		name string
		run  func() error
	}{
		{"overview", func() error { _, err := svc.Overview(ctx, nil); return err }},
		{"distribution", func() error { _, err := svc.Distribution(ctx, nil); return err }},
		{"suppliers", func() error { _, err := svc.SupplierRanking(ctx, nil); return err }},
		{"risk", func() error { _, err := svc.RiskBreakdown(ctx, nil); return err }},
		{"dashboard", func() error { _, err := svc.Dashboard(ctx, nil); return err }},
	}
	for _, c := range calls {
		t.Run(c.name, func(t *testing.T) {
			err := c.run()
			if !errors.Is(err, ErrDataUnavailable) || !errors.Is(err, boom) {
				t.Fatalf("want ErrDataUnavailable wrapping cause, got %v", err)
			}
		})
	}
	if len(rec.published) != 0 {
		t.Fatalf("nothing should be published on failure")
	}
	if diff := cmp.Diff([]string{FetchError, FetchError, FetchError, FetchError, FetchError}, rec.outcomes); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestQualityService_NoDataSet(t *testing.T) {
	svc := NewQualityService(&stubSource{err: storage.ErrNoData}, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if _, err := svc.Overview(ctx, nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("overview: want ErrNoData, got %v", err)
	}
	if _, err := svc.Dashboard(ctx, nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("dashboard: want ErrNoData, got %v", err)
	}

	dist, err := svc.Distribution(ctx, nil)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if diff := cmp.Diff(quality.ComputeInconsistencyDistribution(nil, now), dist); diff != "" {
		t.Fatalf("distribution mismatch (-want +got):\n%s", diff)
	}

	ranking, err := svc.SupplierRanking(ctx, nil)
	if err != nil || ranking == nil || len(ranking) != 0 {
		t.Fatalf("ranking: want empty non-nil, got %v err=%v", ranking, err)
	}
	risk, err := svc.RiskBreakdown(ctx, nil)
	if err != nil || risk == nil || len(risk) != 0 {
		t.Fatalf("risk: want empty non-nil, got %v err=%v", risk, err)
	}
}

func TestQualityService_EmptyTable(t *testing.T) {
	svc := NewQualityService(&stubSource{records: []models.Contract{}}, WithClock(func() time.Time { return now }))

	got, err := svc.Overview(context.Background(), nil)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	want := models.QualityMetrics{AverageResolutionTime: models.AverageResolutionTimeDays}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("overview mismatch (-want +got):\n%s", diff)
	}
}

func TestQualityService_CachesAndPublishes(t *testing.T) {
	src := &stubSource{records: contracts()}
	rec := &stubRecorder{}
	clock := func() time.Time { return now }
	qc := cache.New(cache.NewMemoryStore(clock), 5*time.Minute, 10*time.Minute, cache.WithClock(clock))
	svc := NewQualityService(src, WithCache(qc), WithRecorder(rec), WithClock(clock))
	ctx := context.Background()

	first, err := svc.Overview(ctx, nil)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.Overview(ctx, nil)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if diff := cmp.Diff(first, second, approx); diff != "" {
		t.Fatalf("cached overview differs (-first +second):\n%s", diff)
	}
	if src.calls != 1 {
		t.Fatalf("second overview should come from cache, source calls=%d", src.calls)
	}
	if len(rec.published) != 1 {
		t.Fatalf("published=%d, want 1", len(rec.published))
	}

	asOf := now.AddDate(0, 1, 0)
	if _, err := svc.Overview(ctx, &asOf); err != nil {
		t.Fatalf("as-of overview: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("other reference date must use its own key, calls=%d", src.calls)
	}
	if len(rec.published) != 1 {
		t.Fatalf("historical overviews must not be published")
	}
}

func TestQualityService_FailuresAreNotCached(t *testing.T) {
	src := &stubSource{err: errors.New("timeout")}
	qc := cache.New(cache.NewMemoryStore(nil), time.Minute, time.Minute)
	svc := NewQualityService(src, WithCache(qc), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if _, err := svc.RiskBreakdown(ctx, nil); err == nil {
		t.Fatalf("expected error")
	}
	src.mu.Lock()
	src.err = nil
	src.records = contracts()
	src.mu.Unlock()

	got, err := svc.RiskBreakdown(ctx, nil)
	if err != nil || len(got) == 0 {
		t.Fatalf("recovered fetch should compute, got %v err=%v", got, err)
	}
}

func TestCacheKey(t *testing.T) {
	day := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		asOf *time.Time
		want string
	}{
		{name: "live", asOf: nil, want: "quality-metrics:2025-09-15"},
		{name: "explicit date", asOf: &day, want: "quality-metrics:as-of:2025-09-15"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cacheKey(KeyOverview, tc.asOf, now); got != tc.want {
				t.Fatalf("cacheKey = %q, want %q", got, tc.want)
			}
		})
	}
}
