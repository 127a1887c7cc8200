package services

import (
	"context"

	"pfm/internal/core"
	"pfm/internal/storage"
)

// ReportEngine computes period summaries. Reads only, idempotent.
type ReportEngine struct {
	ledger *storage.Ledger
}

func NewReportEngine(ledger *storage.Ledger) *ReportEngine {
	return &ReportEngine{ledger: ledger}
}

// Monthly reports income, expense and savings for one month. Savings is
// income minus expense, unclamped.
func (r *ReportEngine) Monthly(ctx context.Context, userID int64, month core.Month) (core.Report, error) {
	totals, err := r.ledger.MonthTotals(ctx, userID, month)
	if err != nil {
		return core.Report{}, err
	}
	return reportFrom(totals), nil
}

// Yearly reports the same figures over a calendar year.
func (r *ReportEngine) Yearly(ctx context.Context, userID int64, year int) (core.Report, error) {
	totals, err := r.ledger.YearTotals(ctx, userID, year)
	if err != nil {
		return core.Report{}, err
	}
	return reportFrom(totals), nil
}

func reportFrom(totals core.Totals) core.Report {
	return core.Report{
		Income:  totals.Income,
		Expense: totals.Expense,
		Savings: totals.Income.Sub(totals.Expense),
	}
}
