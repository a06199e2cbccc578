package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/contractpulse/internal/cache"
	"github.com/guttosm/contractpulse/internal/domain/models"
	"github.com/guttosm/contractpulse/internal/logger"
	"github.com/guttosm/contractpulse/internal/quality"
	"github.com/guttosm/contractpulse/internal/storage"
)

// ErrDataUnavailable wraps any data-source failure. No metrics are computed
// from a failed fetch.
var ErrDataUnavailable = errors.New("contract data unavailable")

// ErrNoData is re-exported so handlers need not import storage.
var ErrNoData = storage.ErrNoData

// Cache keys, one per dashboard query.
const (
	KeyOverview     = "quality-metrics"
	KeyDistribution = "inconsistency-distribution"
	KeySuppliers    = "supplier-ranking"
	KeyRisk         = "contract-risk-analysis"
	KeyDashboard    = "dashboard"
)

// Fetch outcomes reported to the Recorder.
const (
	FetchOK     = "ok"
	FetchNoData = "no_data"
	FetchError  = "error"
)

// QualityService computes the contract quality views.
//
// asOf overrides the reference instant used for expiry windows; nil means now.
type QualityService interface {
	Overview(ctx context.Context, asOf *time.Time) (models.QualityMetrics, error)
	Distribution(ctx context.Context, asOf *time.Time) (models.InconsistencyDistribution, error)
	SupplierRanking(ctx context.Context, asOf *time.Time) ([]models.SupplierRanking, error)
	RiskBreakdown(ctx context.Context, asOf *time.Time) ([]models.ContractRisk, error)
	Dashboard(ctx context.Context, asOf *time.Time) (models.Dashboard, error)
}

// Recorder receives fetch outcomes and freshly computed live overviews.
type Recorder interface {
	SourceFetch(outcome string)
	PublishOverview(q models.QualityMetrics, at time.Time)
}

// Option customizes the quality service.
type Option func(*qualityService)

// WithCache serves results through c.
func WithCache(c *cache.QueryCache) Option {
	return func(s *qualityService) { s.cache = c }
}

// WithRecorder publishes fetch outcomes and overview gauges.
func WithRecorder(r Recorder) Option {
	return func(s *qualityService) { s.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *qualityService) { s.now = now }
}

// WithThresholds sets the dashboard alert thresholds.
func WithThresholds(th quality.AlertThresholds) Option {
	return func(s *qualityService) { s.thresholds = th }
}

type qualityService struct {
	source     storage.ContractSource
	cache      *cache.QueryCache
	recorder   Recorder
	now        func() time.Time
	thresholds quality.AlertThresholds
	log        zerolog.Logger
}

// NewQualityService wires a QualityService over source.
func NewQualityService(source storage.ContractSource, opts ...Option) QualityService {
	s := &qualityService{
		source:     source,
		now:        time.Now,
		thresholds: quality.DefaultAlertThresholds(),
		log:        logger.Component("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *qualityService) Overview(ctx context.Context, asOf *time.Time) (models.QualityMetrics, error) {
	ref := s.reference(asOf)
	return cached(ctx, s, cacheKey(KeyOverview, asOf, ref), func(ctx context.Context) (models.QualityMetrics, error) {
		records, err := s.fetch(ctx, false)
		if err != nil {
			return models.QualityMetrics{}, err
		}
		m := quality.ComputeOverview(records, ref)
		if asOf == nil && s.recorder != nil {
			s.recorder.PublishOverview(m, ref)
		}
		return m, nil
	})
}

func (s *qualityService) Distribution(ctx context.Context, asOf *time.Time) (models.InconsistencyDistribution, error) {
	ref := s.reference(asOf)
	return cached(ctx, s, cacheKey(KeyDistribution, asOf, ref), func(ctx context.Context) (models.InconsistencyDistribution, error) {
		records, err := s.fetch(ctx, true)
		if err != nil {
			return models.InconsistencyDistribution{}, err
		}
		return quality.ComputeInconsistencyDistribution(records, ref), nil
	})
}

// SupplierRanking does not depend on the reference date; asOf only keeps the
// signature uniform.
func (s *qualityService) SupplierRanking(ctx context.Context, _ *time.Time) ([]models.SupplierRanking, error) {
	return cached(ctx, s, KeySuppliers, func(ctx context.Context) ([]models.SupplierRanking, error) {
		records, err := s.fetch(ctx, true)
		if err != nil {
			return nil, err
		}
		return quality.ComputeSupplierRanking(records), nil
	})
}

func (s *qualityService) RiskBreakdown(ctx context.Context, _ *time.Time) ([]models.ContractRisk, error) {
	return cached(ctx, s, KeyRisk, func(ctx context.Context) ([]models.ContractRisk, error) {
		records, err := s.fetch(ctx, true)
		if err != nil {
			return nil, err
		}
		return quality.ComputeContractRiskBreakdown(records), nil
	})
}

// Dashboard computes every view from a single fetch. A missing data set is
// surfaced as ErrNoData, like Overview.
func (s *qualityService) Dashboard(ctx context.Context, asOf *time.Time) (models.Dashboard, error) {
	ref := s.reference(asOf)
	return cached(ctx, s, cacheKey(KeyDashboard, asOf, ref), func(ctx context.Context) (models.Dashboard, error) {
		records, err := s.fetch(ctx, false)
		if err != nil {
			return models.Dashboard{}, err
		}
		d := quality.BuildDashboard(records, ref, s.thresholds)
		if asOf == nil && s.recorder != nil {
			s.recorder.PublishOverview(d.Overview, ref)
		}
		return d, nil
	})
}

// fetch reads the full contract set. With tolerateMissing, a source that
// returned no data set yields an empty slice instead of ErrNoData.
func (s *qualityService) fetch(ctx context.Context, tolerateMissing bool) ([]models.Contract, error) {
	records, err := s.source.ListContracts(ctx)
	switch {
	case errors.Is(err, storage.ErrNoData):
		s.record(FetchNoData)
		if tolerateMissing {
			return []models.Contract{}, nil
		}
		return nil, err
	case err != nil:
		s.record(FetchError)
		s.log.Error().Err(err).Msg("contract fetch failed")
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	s.record(FetchOK)
	s.log.Debug().Int("rows", len(records)).Msg("contracts fetched")
	return records, nil
}

func (s *qualityService) record(outcome string) {
	if s.recorder != nil {
		s.recorder.SourceFetch(outcome)
	}
}

func (s *qualityService) reference(asOf *time.Time) time.Time {
	if asOf != nil {
		return *asOf
	}
	return s.now()
}

// cacheKey scopes date-dependent queries to their reference day. Explicit
// as-of requests use midnight rather than the current instant, so they get
// their own key.
func cacheKey(name string, asOf *time.Time, ref time.Time) string {
	if asOf != nil {
		return name + ":as-of:" + ref.Format("2006-01-02")
	}
	return name + ":" + ref.Format("2006-01-02")
}

// cached runs compute through the query cache when one is configured.
func cached[T any](ctx context.Context, s *qualityService, key string, compute func(context.Context) (T, error)) (T, error) {
	if s.cache == nil {
		return compute(ctx)
	}
	return cache.Load(ctx, s.cache, key, compute)
}
