package items

import (
	"database/sql"
	"testing"
	"time"
)

func TestTransactionTypesColumn(t *testing.T) {
	types := TransactionFlags{TakeOut: true, CorpTieUps: true}.Labels()
	got := splitTypes(joinTypes(types))
	if len(got) != 2 || got[0] != TxTakeOut || got[1] != TxCorpTieUps {
		t.Fatalf("round trip lost labels: %v", got)
	}
	if got := splitTypes(""); got == nil || len(got) != 0 {
		t.Fatalf("empty column must decode to an empty slice, got %#v", got)
	}
}

func TestDateColumns(t *testing.T) {
	if dateArg("") != nil {
		t.Fatalf("empty date must be NULL")
	}
	arg, ok := dateArg("2026-02-03").(time.Time)
	if !ok || arg.Day() != 3 {
		t.Fatalf("unexpected arg %v", arg)
	}
	if s := formatDate(sql.NullTime{Time: arg, Valid: true}); s != "2026-02-03" {
		t.Fatalf("unexpected format %q", s)
	}
	if s := formatDate(sql.NullTime{}); s != "" {
		t.Fatalf("NULL date must format empty, got %q", s)
	}
}
