// Package storage owns the sqlite schema for users, transactions and
// budgets and enforces its invariants: username uniqueness, ownership
// scoping, the (user, category, month) budget upsert and exact cent
// aggregation.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pfm/internal/core"

	_ "modernc.org/sqlite"
)

// Ledger is the storage engine. Every mutation is a single statement,
// so each operation is atomic with respect to the persisted store.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path and applies migrations.
// The path comes in explicitly; environment lookup happens only at the
// composition boundary.
func Open(path string) (*Ledger, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// A single connection keeps an in-memory database coherent and
	// serializes writers, matching the single-session model.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Ledger{db: db, path: path}, nil
}

func (l *Ledger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// Path returns the database file path, used by the snapshot service.
func (l *Ledger) Path() string {
	return l.path
}

// CreateUser persists a user with pre-derived credentials. Returns
// core.ErrUsernameTaken when the username is already present.
func (l *Ledger) CreateUser(ctx context.Context, username string, salt, hash []byte) (int64, error) {
	res, err := l.db.ExecContext(ctx,
		"INSERT INTO users(username, salt, password_hash, created_at) VALUES(?,?,?,?)",
		username, salt, hash, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			return 0, core.ErrUsernameTaken
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user id: %w", err)
	}
	return id, nil
}

// GetUser looks up a user by exact username. Absence is not an error:
// it returns (nil, nil).
func (l *Ledger) GetUser(ctx context.Context, username string) (*core.User, error) {
	var u core.User
	err := l.db.QueryRowContext(ctx,
		"SELECT id, username, salt, password_hash, created_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.Salt, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// AddTransaction validates and inserts a transaction for the user.
func (l *Ledger) AddTransaction(ctx context.Context, userID int64, tx core.Transaction) (int64, error) {
	tx.UserID = userID
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	res, err := l.db.ExecContext(ctx,
		"INSERT INTO transactions(user_id, type, category, amount_cents, date, note) VALUES(?,?,?,?,?,?)",
		userID, string(tx.Type), tx.Category, tx.Amount.Cents, string(tx.Date), tx.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("add transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"user_id", userID,
		"type", string(tx.Type),
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents,
		"date", string(tx.Date))

	return id, nil
}

// UpdateTransaction applies a partial update scoped to (id, userID) in a
// single statement. An empty patch is a legal no-op. Touching a row the
// user does not own affects zero rows and is silent: callers cannot tell
// "not yours" from "not there".
func (l *Ledger) UpdateTransaction(ctx context.Context, txID, userID int64, patch core.TransactionPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	var (
		sets []string
		args []any
	)
	if patch.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, string(*patch.Type))
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Amount != nil {
		sets = append(sets, "amount_cents = ?")
		args = append(args, patch.Amount.Cents)
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, string(*patch.Date))
	}
	if patch.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *patch.Note)
	}
	args = append(args, txID, userID)

	query := "UPDATE transactions SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes the row scoped to (id, userID). Deleting a
// missing or foreign row is a silent no-op; deletion is permanent.
func (l *Ledger) DeleteTransaction(ctx context.Context, txID, userID int64) error {
	if _, err := l.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?", txID, userID,
	); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// ListTransactions returns the user's transactions ordered by date
// descending then id descending. An empty month lists everything;
// otherwise only entries whose date carries that YYYY-MM prefix.
func (l *Ledger) ListTransactions(ctx context.Context, userID int64, month core.Month) ([]core.Transaction, error) {
	query := "SELECT id, user_id, type, category, amount_cents, date, note FROM transactions WHERE user_id = ?"
	args := []any{userID}
	if month != "" {
		query += " AND date LIKE ? || '-%'"
		args = append(args, string(month))
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx    core.Transaction
			typ   string
			date  string
			cents int64
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &typ, &tx.Category, &cents, &date, &tx.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = core.TxType(typ)
		tx.Date = core.Date(date)
		tx.Amount = core.Money{Cents: cents}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// MonthTotals sums amounts grouped by type for the given month. Missing
// groups stay zero; an empty period is not an error.
func (l *Ledger) MonthTotals(ctx context.Context, userID int64, month core.Month) (core.Totals, error) {
	return l.totals(ctx, userID, string(month))
}

// YearTotals sums amounts grouped by type for the calendar year.
func (l *Ledger) YearTotals(ctx context.Context, userID int64, year int) (core.Totals, error) {
	if err := core.ValidateYear(year); err != nil {
		return core.Totals{}, err
	}
	return l.totals(ctx, userID, fmt.Sprintf("%04d", year))
}

func (l *Ledger) totals(ctx context.Context, userID int64, datePrefix string) (core.Totals, error) {
	var totals core.Totals
	rows, err := l.db.QueryContext(ctx,
		`SELECT type, COALESCE(SUM(amount_cents), 0)
		 FROM transactions
		 WHERE user_id = ? AND date LIKE ? || '-%'
		 GROUP BY type`,
		userID, datePrefix,
	)
	if err != nil {
		return totals, fmt.Errorf("totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			typ   string
			cents int64
		)
		if err := rows.Scan(&typ, &cents); err != nil {
			return totals, fmt.Errorf("scan totals: %w", err)
		}
		switch core.TxType(typ) {
		case core.Income:
			totals.Income = core.Money{Cents: cents}
		case core.Expense:
			totals.Expense = core.Money{Cents: cents}
		}
	}
	return totals, rows.Err()
}

// CategoryMonthExpense sums expense-type amounts for one category and
// month, zero when there are none.
func (l *Ledger) CategoryMonthExpense(ctx context.Context, userID int64, category string, month core.Month) (core.Money, error) {
	var cents int64
	err := l.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0)
		 FROM transactions
		 WHERE user_id = ? AND type = 'expense' AND category = ? AND date LIKE ? || '-%'`,
		userID, category, string(month),
	).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("category month expense: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SetBudget creates or overwrites the limit for (userID, category,
// month) with a native upsert, so the uniqueness invariant holds even
// under a concurrent adaptation.
func (l *Ledger) SetBudget(ctx context.Context, userID int64, category string, month core.Month, limit core.Money) error {
	b := core.Budget{UserID: userID, Category: category, Month: month, Limit: limit}
	if err := b.Validate(); err != nil {
		return err
	}

	if _, err := l.db.ExecContext(ctx,
		`INSERT INTO budgets(user_id, category, month, limit_cents)
		 VALUES(?,?,?,?)
		 ON CONFLICT(user_id, category, month)
		 DO UPDATE SET limit_cents = excluded.limit_cents`,
		userID, category, string(month), limit.Cents,
	); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"user_id", userID,
		"category", category,
		"month", string(month),
		"limit_cents", limit.Cents)

	return nil
}

// GetBudget returns the limit for the exact triple; found is false when
// no budget is set (absence is not an error).
func (l *Ledger) GetBudget(ctx context.Context, userID int64, category string, month core.Month) (limit core.Money, found bool, err error) {
	var cents int64
	scanErr := l.db.QueryRowContext(ctx,
		"SELECT limit_cents FROM budgets WHERE user_id = ? AND category = ? AND month = ?",
		userID, category, string(month),
	).Scan(&cents)
	if scanErr == sql.ErrNoRows {
		return core.Money{}, false, nil
	}
	if scanErr != nil {
		return core.Money{}, false, fmt.Errorf("get budget: %w", scanErr)
	}
	return core.Money{Cents: cents}, true, nil
}

// ListBudgets returns the user's budgets: category ascending when
// filtered by month, month descending then category ascending otherwise.
func (l *Ledger) ListBudgets(ctx context.Context, userID int64, month core.Month) ([]core.Budget, error) {
	query := "SELECT id, user_id, category, month, limit_cents FROM budgets WHERE user_id = ?"
	args := []any{userID}
	if month != "" {
		query += " AND month = ? ORDER BY category"
		args = append(args, string(month))
	} else {
		query += " ORDER BY month DESC, category"
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var (
			b     core.Budget
			m     string
			cents int64
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &m, &cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Month = core.Month(m)
		b.Limit = core.Money{Cents: cents}
		out = append(out, b)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error, constraint string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+constraint)
}
