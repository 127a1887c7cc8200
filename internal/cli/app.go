package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"pfm/internal/auth"
	"pfm/internal/core"
	"pfm/internal/services"
	"pfm/internal/snapshot"
)

// App is the interactive menu loop. It holds one authenticated session
// at a time and only ever talks to the service layer; all contracts
// live below it.
type App struct {
	in    *bufio.Scanner
	rawIn io.Reader
	out   io.Writer

	auth      *auth.Service
	txs       *services.TransactionService
	budgets   *services.BudgetEngine
	reports   *services.ReportEngine
	snapshots *snapshot.Service
	backupDir string

	userID   int64
	username string
}

func NewApp(in io.Reader, out io.Writer, authSvc *auth.Service, txs *services.TransactionService,
	budgets *services.BudgetEngine, reports *services.ReportEngine,
	snapshots *snapshot.Service, backupDir string) *App {
	return &App{
		in:        bufio.NewScanner(in),
		rawIn:     in,
		out:       out,
		auth:      authSvc,
		txs:       txs,
		budgets:   budgets,
		reports:   reports,
		snapshots: snapshots,
		backupDir: backupDir,
	}
}

// Run drives the menu loop until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "\nPersonal Finance Manager")
	fmt.Fprintln(a.out, strings.Repeat("-", 27))

	for {
		if a.userID == 0 {
			choice, ok := a.prompt("\n1) Register\n2) Login\n3) Exit\nSelect: ")
			if !ok {
				return nil
			}
			switch choice {
			case "1":
				a.handleRegister(ctx)
			case "2":
				a.handleLogin(ctx)
			case "3":
				fmt.Fprintln(a.out, "Goodbye!")
				return nil
			}
			continue
		}

		fmt.Fprintf(a.out, "\nLogged in as: %s\n", a.username)
		choice, ok := a.prompt("1) Transactions\n2) Budgets\n3) Reports\n4) Backup & Restore\n5) Logout\n6) Exit\nSelect: ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			a.menuTransactions(ctx)
		case "2":
			a.menuBudgets(ctx)
		case "3":
			a.menuReports(ctx)
		case "4":
			a.menuSnapshots()
		case "5":
			fmt.Fprintf(a.out, "User '%s' logged out.\n", a.username)
			a.userID, a.username = 0, ""
		case "6":
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		}
	}
}

// ---- input helpers ----

func (a *App) prompt(msg string) (string, bool) {
	fmt.Fprint(a.out, msg)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

// promptPassword reads without echo on a terminal and falls back to
// plain line input for pipes and tests.
func (a *App) promptPassword(msg string) (string, bool) {
	fmt.Fprint(a.out, msg)
	if f, ok := a.rawIn.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", false
		}
		return string(raw), true
	}
	if !a.in.Scan() {
		return "", false
	}
	return a.in.Text(), true
}

func (a *App) promptID(msg string) (int64, bool) {
	raw, ok := a.prompt(msg)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		fmt.Fprintln(a.out, "  ! Invalid id.")
		return 0, false
	}
	return id, true
}

// ---- auth ----

func (a *App) handleRegister(ctx context.Context) {
	fmt.Fprintln(a.out, "\n== Register ==")
	username, ok := a.prompt("Username: ")
	if !ok {
		return
	}
	password, ok := a.promptPassword("Password: ")
	if !ok {
		return
	}
	confirm, ok := a.promptPassword("Confirm: ")
	if !ok {
		return
	}
	if password != confirm {
		fmt.Fprintln(a.out, "  ! Passwords do not match.")
		return
	}

	id, err := a.auth.Register(ctx, username, password)
	if err != nil {
		fmt.Fprintf(a.out, "  ! %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "  Registered user '%s' (id=%d)\n", username, id)
}

func (a *App) handleLogin(ctx context.Context) {
	fmt.Fprintln(a.out, "\n== Login ==")
	username, ok := a.prompt("Username: ")
	if !ok {
		return
	}
	password, ok := a.promptPassword("Password: ")
	if !ok {
		return
	}

	id, authenticated, err := a.auth.Login(ctx, username, password)
	if err != nil {
		fmt.Fprintf(a.out, "  ! %v\n", err)
		return
	}
	if !authenticated {
		fmt.Fprintln(a.out, "  ! Invalid credentials.")
		return
	}
	a.userID, a.username = id, username
	fmt.Fprintf(a.out, "  Welcome, %s!\n", username)
}

// ---- transactions ----

func (a *App) menuTransactions(ctx context.Context) {
	for {
		choice, ok := a.prompt("\nTransactions:\n1) Add\n2) List\n3) Update\n4) Delete\n5) Back\nSelect: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			a.txAdd(ctx)
		case "2":
			a.txList(ctx)
		case "3":
			a.txUpdate(ctx)
		case "4":
			a.txDelete(ctx)
		case "5":
			return
		}
	}
}

func (a *App) txAdd(ctx context.Context) {
	fmt.Fprintln(a.out, "\n== Add Transaction ==")

	rawType, ok := a.prompt("Type ('income' or 'expense'): ")
	if !ok {
		return
	}
	txType, err := core.ParseTxType(rawType)
	if err != nil {
		fmt.Fprintln(a.out, "  ! Invalid type.")
		return
	}

	category, ok := a.prompt("Category (e.g., Salary, Rent, Food): ")
	if !ok {
		return
	}

	rawAmount, ok := a.prompt("Amount: ")
	if !ok {
		return
	}
	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		fmt.Fprintln(a.out, "  ! Invalid amount.")
		return
	}

	date, ok := a.promptDate(fmt.Sprintf("Date [%s]: ", core.Today()), core.Today())
	if !ok || date == "" {
		return
	}

	note, ok := a.prompt("Note (optional): ")
	if !ok {
		return
	}

	id, signal, err := a.txs.Add(ctx, a.userID, core.Transaction{
		Type:     txType,
		Category: category,
		Amount:   amount,
		Date:     date,
		Note:     note,
	})
	if err != nil {
		fmt.Fprintf(a.out, "  ! %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "  Added transaction id=%d.\n", id)
	a.printSignal(signal, category, date.MonthKey())
}

func (a *App) printSignal(signal core.Signal, category string, month core.Month) {
	switch signal.Level {
	case core.SignalExceeded:
		fmt.Fprintf(a.out, "  WARNING: Budget exceeded for '%s' in %s: spent %s > limit %s.\n",
			category, month, signal.Spent, signal.Limit)
	case core.SignalAlert:
		fmt.Fprintf(a.out, "  ALERT: You are close to exceeding the '%s' budget in %s: %s/%s.\n",
			category, month, signal.Spent, signal.Limit)
	}
}

func (a *App) txList(ctx context.Context) {
	fmt.Fprintln(a.out, "\n== List Transactions ==")
	month, ok := a.promptOptionalMonth("Month filter (YYYY-MM) or Enter for all: ")
	if !ok {
		return
	}

	txs, err := a.txs.List(ctx, a.userID, month)
	if err != nil {
		fmt.Fprintf(a.out, "  ! %v\n", err)
		return
	}
	if len(txs) == 0 {
		fmt.Fprintln(a.out, "  (no transactions)")
		return
	}
	fmt.Fprintf(a.out, "  Showing %d transactions:\n", len(txs))
	for _, tx := range txs {
		fmt.Fprintf(a.out, "  [%d] %s %-7s %-12s $%8s :: %s\n",
			tx.ID, tx.Date, strings.ToUpper(string(tx.Type)), tx.Category, tx.Amount, tx.Note)
	}
}

func (a *App) txUpdate(ctx context.Context) {
	fmt.Fprintln(a.out, "\n== Update Transaction ==")
	id, ok := a.promptID("Transaction ID: ")
	if !ok {
		return
	}

	var patch core.TransactionPatch
	if a.confirm("Change type? (y/N): ") {
		raw, ok := a.prompt("  New type ('income'/'expense'): ")
		if !ok {
			return
		}
		if t, err := core.ParseTxType(raw); err == nil {
			patch.Type = &t
		} else {
			fmt.Fprintln(a.out, "  ! Invalid type, skipped.")
		}
	}
	if a.confirm("Change category? (y/N): ") {
		raw, ok := a.prompt("  New category: ")
		if !ok {
			return
		}
		patch.Category = &raw
	}
	if a.confirm("Change amount? (y/N): ") {
		raw, ok := a.prompt("  New amount: ")
		if !ok {
			return
		}
		if m, err := core.ParseAmount(raw); err == nil {
			patch.Amount = &m
		} else {
			fmt.Fprintln(a.out, "  ! Invalid amount, skipped.")
		}
	}
	if a.confirm("Change date? (y/N): ") {
		d, ok := a.promptDate("  New date [YYYY-MM-DD]: ", "")
		if !ok {
			return
		}
		if d != "" {
			patch.Date = &d
		}
	}
	if a.confirm("Change note? (y/N): ") {
		raw, ok := a.prompt("  New note: ")
		if !ok {
			return
		}
		patch.Note = &raw
	}

	if patch.IsEmpty() {
		fmt.Fprintln(a.out, "  (no changes)")
		return
	}
	if err := a.txs.Update(ctx, id, a.userID, patch); err != nil {
		fmt.Fprintf(a.out, "  ! %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "  Updated.")
}

func (a *App) txDelete(ctx context.Context) {
	fmt.Fprintln(a.out, "\n== Delete Transaction ==")
	id, ok := a.promptID("Transaction ID: ")
	if !ok {
		return
	}
	if err := a.txs.Delete(ctx, id, a.userID); err != nil {
		fmt.Fprintf(a.out, "  ! %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "  Deleted.")
}

// ---- budgets ----

func (a *App) menuBudgets(ctx context.Context) {
	for {
		choice, ok := a.prompt("\nBudgets:\n1) Set/Update Monthly Budget\n2) List Budgets\n3) Back\nSelect: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			a.budgetSet(ctx)
		case "2":
			a.budgetList(ctx)
		case "3":
			return
		}
	}
}

func (a *App) budgetSet(ctx context.Context) {
	fmt.Fprintln(a.out, "\n== Set/Update Budget ==")
	category, ok := a.prompt("Category (e.g., Food, Rent): ")
	if !ok {
		return
	}

	current := core.CurrentMonth()
	raw, ok := a.prompt(fmt.Sprintf("Month (YYYY-MM) [%s]: ", current))
	if !ok {
		return
	}
	month := current
	if raw != "" {
		m, err := core.ParseMonth(raw)
		if err != nil {
			fmt.Fprintln(a.out, "  ! Invalid month format.")
			return
		}
		month = m
	}

	rawLimit, ok := a.prompt("Monthly limit: ")
	if !ok {
		return
	}
	limit, err := core.ParseAmount(rawLimit)
	if err != nil {
		fmt.Fprintln(a.out, "  ! Invalid amount.")
		return
	}

	if err := a.budgets.Set(ctx, a.userID, category, month, limit); err != nil {
		fmt.Fprintf(a.out, "  ! %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "  Budget saved.")
}

func (a *App) budgetList(ctx context.Context) {
	fmt.Fprintln(a.out, "\n== List Budgets ==")
	month, ok := a.promptOptionalMonth("Month filter (YYYY-MM) or Enter for all: ")
	if !ok {
		return
	}

	statuses, err := a.budgets.ListStatuses(ctx, a.userID, month)
	if err != nil {
		fmt.Fprintf(a.out, "  ! %v\n", err)
		return
	}
	if len(statuses) == 0 {
		fmt.Fprintln(a.out, "  (no budgets)")
		return
	}
	for _, st := range statuses {
		fmt.Fprintf(a.out, "  %s | %-12s limit $%8s | spent $%8s\n",
			st.Budget.Month, st.Budget.Category, st.Budget.Limit, st.Spent)
	}
}

// ---- reports ----

func (a *App) menuReports(ctx context.Context) {
	for {
		choice, ok := a.prompt("\nReports:\n1) Monthly\n2) Yearly\n3) Back\nSelect: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			a.reportMonthly(ctx)
		case "2":
			a.reportYearly(ctx)
		case "3":
			return
		}
	}
}

func (a *App) reportMonthly(ctx context.Context) {
	current := core.CurrentMonth()
	raw, ok := a.prompt(fmt.Sprintf("Month (YYYY-MM) [%s]: ", current))
	if !ok {
		return
	}
	month := current
	if raw != "" {
		m, err := core.ParseMonth(raw)
		if err != nil {
			fmt.Fprintln(a.out, "  ! Invalid month format.")
			return
		}
		month = m
	}

	report, err := a.reports.Monthly(ctx, a.userID, month)
	if err != nil {
		fmt.Fprintf(a.out, "  ! %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "\n== Monthly Report: %s ==\n", month)
	a.printReport(report)
}

func (a *App) reportYearly(ctx context.Context) {
	raw, ok := a.prompt("Year (YYYY): ")
	if !ok {
		return
	}
	year, err := strconv.Atoi(raw)
	if err != nil || core.ValidateYear(year) != nil {
		fmt.Fprintln(a.out, "  ! Invalid year.")
		return
	}

	report, err := a.reports.Yearly(ctx, a.userID, year)
	if err != nil {
		fmt.Fprintf(a.out, "  ! %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "\n== Yearly Report: %d ==\n", year)
	a.printReport(report)
}

func (a *App) printReport(report core.Report) {
	fmt.Fprintf(a.out, "  Income : $%s\n", report.Income)
	fmt.Fprintf(a.out, "  Expense: $%s\n", report.Expense)
	fmt.Fprintf(a.out, "  Savings: $%s\n", report.Savings)
}

// ---- snapshots ----

func (a *App) menuSnapshots() {
	for {
		choice, ok := a.prompt("\nBackup/Restore:\n1) Backup DB\n2) Restore DB\n3) Back\nSelect: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			dest, ok := a.prompt(fmt.Sprintf("Destination folder [%s]: ", a.backupDir))
			if !ok {
				return
			}
			if dest == "" {
				dest = a.backupDir
			}
			path, err := a.snapshots.Export(dest)
			if err != nil {
				fmt.Fprintf(a.out, "  ! Backup failed: %v\n", err)
				continue
			}
			fmt.Fprintf(a.out, "  Backup saved to: %s\n", path)
		case "2":
			src, ok := a.prompt("Path to backup file: ")
			if !ok {
				return
			}
			if err := a.snapshots.Import(src); err != nil {
				fmt.Fprintf(a.out, "  ! Restore failed: %v\n", err)
				continue
			}
			fmt.Fprintln(a.out, "  Restore complete. Please restart the app.")
		case "3":
			return
		}
	}
}

// ---- shared prompts ----

func (a *App) confirm(msg string) bool {
	raw, ok := a.prompt(msg)
	return ok && strings.EqualFold(raw, "y")
}

func (a *App) promptDate(msg string, fallback core.Date) (core.Date, bool) {
	raw, ok := a.prompt(msg)
	if !ok {
		return "", false
	}
	if raw == "" {
		return fallback, true
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		fmt.Fprintln(a.out, "  ! Please enter a valid date in YYYY-MM-DD format.")
		return "", true
	}
	return d, true
}

func (a *App) promptOptionalMonth(msg string) (core.Month, bool) {
	raw, ok := a.prompt(msg)
	if !ok {
		return "", false
	}
	if raw == "" {
		return "", true
	}
	m, err := core.ParseMonth(raw)
	if err != nil {
		fmt.Fprintln(a.out, "  ! Invalid month format.")
		return "", false
	}
	return m, true
}
