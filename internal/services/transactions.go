package services

import (
	"context"
	"log/slog"

	"pfm/internal/core"
	"pfm/internal/storage"
)

// TransactionService runs the transaction write path: persist first,
// then evaluate the budget for expense entries. The evaluation result
// rides along with the new id so the caller can surface it.
type TransactionService struct {
	ledger  *storage.Ledger
	budgets *BudgetEngine
}

func NewTransactionService(ledger *storage.Ledger, budgets *BudgetEngine) *TransactionService {
	return &TransactionService{ledger: ledger, budgets: budgets}
}

// Add persists the transaction and, for expenses, evaluates the budget
// of its category and month. A failed evaluation is logged but never
// fails the committed write.
func (s *TransactionService) Add(ctx context.Context, userID int64, tx core.Transaction) (int64, core.Signal, error) {
	id, err := s.ledger.AddTransaction(ctx, userID, tx)
	if err != nil {
		return 0, core.Signal{}, err
	}

	signal := core.Signal{Level: core.SignalNone}
	if tx.Type == core.Expense {
		signal, err = s.budgets.Evaluate(ctx, userID, tx.Category, tx.Date.MonthKey())
		if err != nil {
			slog.ErrorContext(ctx, "Budget evaluation failed after expense",
				"user_id", userID,
				"category", tx.Category,
				"month", string(tx.Date.MonthKey()),
				"error", err)
			signal = core.Signal{Level: core.SignalNone}
		}
	}

	return id, signal, nil
}

// Update applies a partial update scoped to the owning user.
func (s *TransactionService) Update(ctx context.Context, txID, userID int64, patch core.TransactionPatch) error {
	return s.ledger.UpdateTransaction(ctx, txID, userID, patch)
}

// Delete removes the transaction scoped to the owning user.
func (s *TransactionService) Delete(ctx context.Context, txID, userID int64) error {
	return s.ledger.DeleteTransaction(ctx, txID, userID)
}

// List returns the user's transactions, optionally filtered by month.
func (s *TransactionService) List(ctx context.Context, userID int64, month core.Month) ([]core.Transaction, error) {
	return s.ledger.ListTransactions(ctx, userID, month)
}
