// Package services composes the storage engine into the domain write
// path and the budget/report read views.
package services

import (
	"context"
	"fmt"

	"pfm/internal/core"
	"pfm/internal/storage"
)

// BudgetEngine evaluates spend against monthly category limits.
type BudgetEngine struct {
	ledger *storage.Ledger
}

func NewBudgetEngine(ledger *storage.Ledger) *BudgetEngine {
	return &BudgetEngine{ledger: ledger}
}

// BudgetStatus is a budget annotated with its current month spend.
type BudgetStatus struct {
	Budget core.Budget
	Spent  core.Money
	Level  core.SignalLevel
}

// Evaluate returns the threshold signal for one category and month.
// Without a budget the signal is none. Comparisons are strict: a spend
// exactly at the limit is not exceeded, and exactly 90% of the limit is
// not yet an alert.
func (e *BudgetEngine) Evaluate(ctx context.Context, userID int64, category string, month core.Month) (core.Signal, error) {
	limit, found, err := e.ledger.GetBudget(ctx, userID, category, month)
	if err != nil {
		return core.Signal{}, err
	}
	if !found {
		return core.Signal{Level: core.SignalNone}, nil
	}

	spent, err := e.ledger.CategoryMonthExpense(ctx, userID, category, month)
	if err != nil {
		return core.Signal{}, err
	}

	return core.Signal{Level: threshold(spent, limit), Spent: spent, Limit: limit}, nil
}

// threshold compares in integer cents; spent > 0.9*limit becomes
// 10*spent > 9*limit so the 0.9 factor stays exact.
func threshold(spent, limit core.Money) core.SignalLevel {
	switch {
	case spent.Cents > limit.Cents:
		return core.SignalExceeded
	case 10*spent.Cents > 9*limit.Cents:
		return core.SignalAlert
	default:
		return core.SignalNone
	}
}

// ListStatuses returns the user's budgets annotated with current spend,
// ordered as ListBudgets orders them.
func (e *BudgetEngine) ListStatuses(ctx context.Context, userID int64, month core.Month) ([]BudgetStatus, error) {
	budgets, err := e.ledger.ListBudgets(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent, err := e.ledger.CategoryMonthExpense(ctx, userID, b.Category, b.Month)
		if err != nil {
			return nil, fmt.Errorf("spend for %s %s: %w", b.Category, b.Month, err)
		}
		statuses = append(statuses, BudgetStatus{
			Budget: b,
			Spent:  spent,
			Level:  threshold(spent, b.Limit),
		})
	}
	return statuses, nil
}

// Set validates and stores a budget limit for the triple.
func (e *BudgetEngine) Set(ctx context.Context, userID int64, category string, month core.Month, limit core.Money) error {
	return e.ledger.SetBudget(ctx, userID, category, month, limit)
}
