package items

import (
	"context"
	"net/http"
	"testing"
	"time"

	"itembuildup/internal/apperr"
	"itembuildup/internal/users"
)

var (
	employee = Actor{EmployeeID: "E001", AccountType: users.AccountEmployee}
	other    = Actor{EmployeeID: "E002", AccountType: users.AccountEmployee}
	admin    = Actor{EmployeeID: "A001", AccountType: users.AccountAdmin}
)

func validForm() Form {
	return Form{
		CompanyCode:           "ACME",
		ParentItemDescription: "CHICKEN MEAL",
		PosTxt:                "CHKN ML",
		StartDate:             "2026-01-01",
		EndDate:               "2026-03-31",
		GrossPrice:            199.5,
		TransactionTypes:      TransactionFlags{DineIn: true, Delivery: true},
		Summary: []SummaryRow{
			{LineNo: 7, Description: "RICE", SAPCode: "R-1", MMPrice: 20},
			{},
			{LineNo: 9, Description: "CHICKEN", SAPCode: "C-1", MMPrice: 120, ProvPrice: 125},
		},
	}
}

func newTestService() *Service {
	svc := NewService(NewMemoryRepo())
	svc.clock = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc
}

func TestCreate_StampsSubmitterAndNumbersRows(t *testing.T) {
	svc := newTestService()

	f := validForm()
	it, err := svc.Create(context.Background(), employee, f)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if it.ID == 0 || it.UserID != "E001" || it.State != StateOngoing {
		t.Fatalf("unexpected item %+v", it)
	}
	if got := it.TransactionTypes; len(got) != 2 || got[0] != TxDineIn || got[1] != TxDelivery {
		t.Fatalf("unexpected transaction types %v", got)
	}
	if len(it.Summary) != 2 || it.Summary[0].LineNo != 1 || it.Summary[1].LineNo != 2 || it.Summary[1].Description != "CHICKEN" {
		t.Fatalf("blank rows must be dropped and lines renumbered: %+v", it.Summary)
	}
	if !it.CreatedAt.Equal(svc.clock()) {
		t.Fatalf("created_at not stamped: %v", it.CreatedAt)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()

	cases := map[string]func(*Form){
		"no company":       func(f *Form) { f.CompanyCode = " " },
		"no description":   func(f *Form) { f.ParentItemDescription = "" },
		"no transaction":   func(f *Form) { f.TransactionTypes = TransactionFlags{} },
		"bad date":         func(f *Form) { f.StartDate = "01/02/2026" },
		"end before start": func(f *Form) { f.EndDate = "2025-12-31" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := validForm()
			mutate(&f)
			if _, err := svc.Create(context.Background(), employee, f); apperr.Status(err) != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestList_FiltersByState(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, _ := svc.Create(ctx, employee, validForm())
	second, _ := svc.Create(ctx, employee, validForm())
	f := validForm()
	f.ItemID = first.ID
	f.State = StateApproved
	if _, err := svc.Update(ctx, admin, f); err != nil {
		t.Fatalf("approve: %v", err)
	}

	ongoing, err := svc.List(ctx, "Ongoing")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ongoing) != 1 || ongoing[0].ID != second.ID {
		t.Fatalf("unexpected ongoing items %+v", ongoing)
	}

	all, _ := svc.List(ctx, "")
	if len(all) != 2 || all[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}

	if _, err := svc.List(ctx, "Pending"); apperr.Status(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown state, got %v", err)
	}
}

func TestUpdate_ReplacesRowsAndKeepsSubmitter(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, employee, validForm())

	f := validForm()
	f.ItemID = created.ID
	f.GrossPrice = 210
	f.Summary = []SummaryRow{{Description: "FRIES", MMPrice: 30}}
	it, err := svc.Update(ctx, admin, f)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if it.UserID != "E001" || it.EditedBy != "A001" || it.EditedAt == nil {
		t.Fatalf("submitter must be kept and editor stamped: %+v", it)
	}
	if it.GrossPrice != 210 || len(it.Summary) != 1 || it.Summary[0].Description != "FRIES" {
		t.Fatalf("update not applied: %+v", it)
	}
	if !it.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at changed")
	}
}

func TestUpdate_Permissions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, employee, validForm())
	f := validForm()
	f.ItemID = created.ID

	if _, err := svc.Update(ctx, other, f); apperr.Status(err) != http.StatusForbidden {
		t.Fatalf("another employee: expected 403, got %v", err)
	}

	f.State = StateApproved
	if _, err := svc.Update(ctx, employee, f); apperr.Status(err) != http.StatusForbidden {
		t.Fatalf("self-approval: expected 403, got %v", err)
	}

	if _, err := svc.Update(ctx, admin, f); err != nil {
		t.Fatalf("admin approval: %v", err)
	}
	f.State = ""
	if _, err := svc.Update(ctx, employee, f); apperr.Status(err) != http.StatusForbidden {
		t.Fatalf("editing an approved item: expected 403, got %v", err)
	}

	f.ItemID = 0
	if _, err := svc.Update(ctx, admin, f); apperr.Status(err) != http.StatusBadRequest {
		t.Fatalf("missing id: expected 400, got %v", err)
	}
	f.ItemID = 999
	if _, err := svc.Update(ctx, admin, f); apperr.Status(err) != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %v", err)
	}
	f.ItemID = created.ID
	f.State = "Archived"
	if _, err := svc.Update(ctx, admin, f); apperr.Status(err) != http.StatusBadRequest {
		t.Fatalf("unknown state: expected 400, got %v", err)
	}
}
