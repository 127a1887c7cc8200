package services

import (
	"context"
	"testing"

	"pfm/internal/core"
	"pfm/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ledger  *storage.Ledger
	budgets *BudgetEngine
	reports *ReportEngine
	txs     *TransactionService
	userID  int64
	ctx     context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ledger, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	userID, err := ledger.CreateUser(context.Background(), "alice", []byte("salt0123456789ab"), []byte("hash"))
	require.NoError(t, err)

	budgets := NewBudgetEngine(ledger)
	return &fixture{
		ledger:  ledger,
		budgets: budgets,
		reports: NewReportEngine(ledger),
		txs:     NewTransactionService(ledger, budgets),
		userID:  userID,
		ctx:     context.Background(),
	}
}

func (f *fixture) addExpense(t *testing.T, category, amount, date string) core.Signal {
	t.Helper()
	m, err := core.ParseAmount(amount)
	require.NoError(t, err)
	_, signal, err := f.txs.Add(f.ctx, f.userID, core.Transaction{
		Type:     core.Expense,
		Category: category,
		Amount:   m,
		Date:     core.Date(date),
	})
	require.NoError(t, err)
	return signal
}

func TestEvaluateWithoutBudget(t *testing.T) {
	f := newFixture(t)
	f.addExpense(t, "Food", "500.00", "2025-09-20")

	signal, err := f.budgets.Evaluate(f.ctx, f.userID, "Food", "2025-09")
	require.NoError(t, err)
	assert.Equal(t, core.SignalNone, signal.Level)
}

func TestEvaluateExceeded(t *testing.T) {
	// Scenario: limit 100.00, spend 120.00 -> exceeded with both figures.
	f := newFixture(t)
	require.NoError(t, f.budgets.Set(f.ctx, f.userID, "Food", "2025-09", core.Money{Cents: 10000}))

	signal := f.addExpense(t, "Food", "120.00", "2025-09-20")
	assert.Equal(t, core.SignalExceeded, signal.Level)
	assert.Equal(t, int64(12000), signal.Spent.Cents)
	assert.Equal(t, int64(10000), signal.Limit.Cents)
}

func TestEvaluateAlert(t *testing.T) {
	// Spend 95.00 against limit 100.00: above the 90% threshold.
	f := newFixture(t)
	require.NoError(t, f.budgets.Set(f.ctx, f.userID, "Food", "2025-09", core.Money{Cents: 10000}))

	signal := f.addExpense(t, "Food", "95.00", "2025-09-20")
	assert.Equal(t, core.SignalAlert, signal.Level)
	assert.Equal(t, int64(9500), signal.Spent.Cents)
	assert.Equal(t, int64(10000), signal.Limit.Cents)
}

func TestEvaluateUnderThreshold(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.budgets.Set(f.ctx, f.userID, "Food", "2025-09", core.Money{Cents: 10000}))

	signal := f.addExpense(t, "Food", "80.00", "2025-09-20")
	assert.Equal(t, core.SignalNone, signal.Level)
}

func TestEvaluateStrictBoundaries(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.budgets.Set(f.ctx, f.userID, "Food", "2025-09", core.Money{Cents: 10000}))

	// Exactly 90% of the limit: strictly greater is required, so no alert.
	signal := f.addExpense(t, "Food", "90.00", "2025-09-20")
	assert.Equal(t, core.SignalNone, signal.Level)

	// Another 10.00 lands exactly on the limit: still not exceeded, but
	// now above 90%, so an alert.
	signal = f.addExpense(t, "Food", "10.00", "2025-09-21")
	assert.Equal(t, core.SignalAlert, signal.Level)
	assert.Equal(t, int64(10000), signal.Spent.Cents)

	// One more cent tips it over.
	signal = f.addExpense(t, "Food", "0.01", "2025-09-22")
	assert.Equal(t, core.SignalExceeded, signal.Level)
}

func TestEvaluateScopedToCategoryAndMonth(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.budgets.Set(f.ctx, f.userID, "Food", "2025-09", core.Money{Cents: 10000}))

	// Spend in a different category and a different month.
	f.addExpense(t, "Rent", "5000.00", "2025-09-01")
	f.addExpense(t, "Food", "5000.00", "2025-10-01")

	signal, err := f.budgets.Evaluate(f.ctx, f.userID, "Food", "2025-09")
	require.NoError(t, err)
	assert.Equal(t, core.SignalNone, signal.Level)
	assert.Zero(t, signal.Spent.Cents)
}

func TestIncomeNeverTriggersEvaluation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.budgets.Set(f.ctx, f.userID, "Food", "2025-09", core.Money{Cents: 100}))

	m, err := core.ParseAmount("5000.00")
	require.NoError(t, err)
	_, signal, err := f.txs.Add(f.ctx, f.userID, core.Transaction{
		Type:     core.Income,
		Category: "Food",
		Amount:   m,
		Date:     core.Date("2025-09-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, core.SignalNone, signal.Level)
}

func TestListStatuses(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.budgets.Set(f.ctx, f.userID, "Food", "2025-09", core.Money{Cents: 10000}))
	require.NoError(t, f.budgets.Set(f.ctx, f.userID, "Rent", "2025-09", core.Money{Cents: 80000}))

	f.addExpense(t, "Food", "120.00", "2025-09-05")
	f.addExpense(t, "Rent", "500.00", "2025-09-01")

	statuses, err := f.budgets.ListStatuses(f.ctx, f.userID, "2025-09")
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, "Food", statuses[0].Budget.Category)
	assert.Equal(t, int64(12000), statuses[0].Spent.Cents)
	assert.Equal(t, core.SignalExceeded, statuses[0].Level)

	assert.Equal(t, "Rent", statuses[1].Budget.Category)
	assert.Equal(t, int64(50000), statuses[1].Spent.Cents)
	assert.Equal(t, core.SignalNone, statuses[1].Level)
}
