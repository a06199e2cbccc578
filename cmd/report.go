package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/guttosm/contractpulse/internal/domain/dto"
	"github.com/guttosm/contractpulse/internal/service"
)

const reportDateLayout = "2006-01-02"

// runReport computes the dashboard once and writes it as indented JSON to w.
// An empty asOf means "now".
func runReport(ctx context.Context, w io.Writer, svc service.QualityService, asOf string) error {
	var ref *time.Time
	label := time.Now().Format(reportDateLayout)
	if asOf != "" {
		t, err := time.Parse(reportDateLayout, asOf)
		if err != nil {
			return fmt.Errorf("invalid --as-of %q: %w", asOf, err)
		}
		ref = &t
		label = asOf
	}

	d, err := svc.Dashboard(ctx, ref)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.DashboardResponse{AsOf: label, Dashboard: d})
}
