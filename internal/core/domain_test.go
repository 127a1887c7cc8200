package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-09-01", true},
		{"2025-12-31", true},
		{"2025-9-1", false}, // not zero padded
		{"2025-13-01", false},
		{"2025-02-30", false},
		{"01-09-2025", false},
		{"2025-09-01T00:00", false},
		{"", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q expected valid, got %v", tc.in, err)
			}
			if string(d) != tc.in {
				t.Fatalf("%q did not round-trip, got %q", tc.in, d)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-09", true},
		{"2025-01", true},
		{"2025-9", false},
		{"2025-13", false},
		{"2025-09-01", false},
		{"", false},
	}
	for _, tc := range cases {
		if _, err := ParseMonth(tc.in); (err == nil) != tc.ok {
			t.Fatalf("%q: expected ok=%v, got err=%v", tc.in, tc.ok, err)
		}
	}
}

func TestDateMonthKey(t *testing.T) {
	d, err := ParseDate("2025-09-15")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.MonthKey(); got != Month("2025-09") {
		t.Fatalf("expected 2025-09, got %q", got)
	}
}

func TestParseTxType(t *testing.T) {
	cases := []struct {
		in   string
		want TxType
		ok   bool
	}{
		{"income", Income, true},
		{"expense", Expense, true},
		{" Income ", Income, true},
		{"EXPENSE", Expense, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseTxType(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
			}
		} else if !errors.Is(err, ErrInvalidType) {
			t.Fatalf("%q expected ErrInvalidType, got %v", tc.in, err)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Type:     Expense,
		Category: "Food",
		Amount:   Money{Cents: 1200},
		Date:     Date("2025-09-15"),
		Note:     "groceries",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid transaction, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(tx *Transaction)
		want error
	}{
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"empty category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{"bad date", func(tx *Transaction) { tx.Date = "2025-9-1" }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := valid
			tc.mut(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTransactionPatch(t *testing.T) {
	if !(TransactionPatch{}).IsEmpty() {
		t.Fatal("zero patch should be empty")
	}

	note := "updated"
	p := TransactionPatch{Note: &note}
	if p.IsEmpty() {
		t.Fatal("patch with note should not be empty")
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("note-only patch should validate, got %v", err)
	}

	bad := TxType("transfer")
	p = TransactionPatch{Type: &bad}
	if err := p.Validate(); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}

	empty := " "
	p = TransactionPatch{Category: &empty}
	if err := p.Validate(); !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
}

func TestSignalLevelString(t *testing.T) {
	cases := map[SignalLevel]string{
		SignalNone:     "none",
		SignalAlert:    "alert",
		SignalExceeded: "exceeded",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
