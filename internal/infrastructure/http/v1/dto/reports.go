package dto

import (
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/id"
	"tokopos/internal/domain/reports"
)

// ReportRangeRequest carries the reporting window as query parameters.
// Accepts either full RFC3339 timestamps or plain dates (2006-01-02).
type ReportRangeRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// SalesReportRequest adds the optional cashier/partner narrowing to the
// range.
type SalesReportRequest struct {
	ReportRangeRequest
	CashierID string `form:"cashierId"`
	PartnerID string `form:"partnerId"`
}

func (r *SalesReportRequest) ToFilter() (reports.SalesFilter, error) {
	rng, err := r.ToRange()
	if err != nil {
		return reports.SalesFilter{}, err
	}
	f := reports.SalesFilter{Range: rng}
	if f.CashierID, err = parseOptionalID(r.CashierID, "cashierId"); err != nil {
		return reports.SalesFilter{}, err
	}
	if f.PartnerID, err = parseOptionalID(r.PartnerID, "partnerId"); err != nil {
		return reports.SalesFilter{}, err
	}
	return f, nil
}

// PurchasesReportRequest adds the optional supplier narrowing to the
// range.
type PurchasesReportRequest struct {
	ReportRangeRequest
	PartnerID string `form:"partnerId"`
}

func (r *PurchasesReportRequest) ToFilter() (reports.PurchasesFilter, error) {
	rng, err := r.ToRange()
	if err != nil {
		return reports.PurchasesFilter{}, err
	}
	f := reports.PurchasesFilter{Range: rng}
	if f.PartnerID, err = parseOptionalID(r.PartnerID, "partnerId"); err != nil {
		return reports.PurchasesFilter{}, err
	}
	return f, nil
}

func parseOptionalID(s, field string) (*id.ID, error) {
	if s == "" {
		return nil, nil
	}
	parsed, err := id.Parse(s)
	if err != nil {
		return nil, apperror.NewValidation("invalid " + field).WithDetail(field, s)
	}
	return &parsed, nil
}

func (r *ReportRangeRequest) ToRange() (reports.Range, error) {
	from, err := parseReportTime(r.From, false)
	if err != nil {
		return reports.Range{}, apperror.NewValidation("invalid from date").
			WithDetail("from", r.From)
	}
	to, err := parseReportTime(r.To, true)
	if err != nil {
		return reports.Range{}, apperror.NewValidation("invalid to date").
			WithDetail("to", r.To)
	}
	return reports.Range{From: from, To: to}, nil
}

// parseReportTime parses RFC3339 or a bare date. A bare "to" date is
// pushed to the end of that day so the range is inclusive.
func parseReportTime(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
