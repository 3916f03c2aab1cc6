package items

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("items: not found")

// State is the review state of an item build-up record.
type State string

const (
	StateOngoing     State = "Ongoing"
	StateApproved    State = "Approved"
	StateDisapproved State = "Disapproved"
)

func (s State) Valid() bool {
	switch s {
	case StateOngoing, StateApproved, StateDisapproved:
		return true
	}
	return false
}

// Transaction type labels as stored on the record.
const (
	TxDineIn     = "Dine In"
	TxTakeOut    = "Take Out"
	TxDelivery   = "Delivery"
	TxBulkOrder  = "Bulk Order"
	TxEvents     = "Events"
	TxCorpTieUps = "Corp Tie-ups"
)

// TransactionFlags is the checkbox group submitted by the form.
type TransactionFlags struct {
	DineIn     bool `json:"dineIn"`
	TakeOut    bool `json:"takeOut"`
	Delivery   bool `json:"delivery"`
	BulkOrder  bool `json:"bulkOrder"`
	Events     bool `json:"events"`
	CorpTieUps bool `json:"corpTieUps"`
}

// Labels returns the checked boxes in form order.
func (f TransactionFlags) Labels() []string {
	var out []string
	for _, t := range []struct {
		on    bool
		label string
	}{
		{f.DineIn, TxDineIn},
		{f.TakeOut, TxTakeOut},
		{f.Delivery, TxDelivery},
		{f.BulkOrder, TxBulkOrder},
		{f.Events, TxEvents},
		{f.CorpTieUps, TxCorpTieUps},
	} {
		if t.on {
			out = append(out, t.label)
		}
	}
	return out
}

// SummaryRow is one component line of an item. LineNo is assigned on save.
type SummaryRow struct {
	LineNo      int     `json:"id"`
	Description string  `json:"description"`
	PosText     string  `json:"posText"`
	SAPCode     string  `json:"sapCode"`
	MMPrice     float64 `json:"mmPrice"`
	ProvPrice   float64 `json:"provPrice"`
}

// Item is a stored item build-up record. Dates are YYYY-MM-DD or empty.
type Item struct {
	ID                    int64        `json:"item_id"`
	UserID                string       `json:"user_id"`
	CompanyCode           string       `json:"company_code"`
	ParentItemDescription string       `json:"parent_item_description"`
	PosTxt                string       `json:"pos_txt"`
	DatePrepared          string       `json:"date_prepared"`
	StartDate             string       `json:"start_date"`
	EndDate               string       `json:"end_date"`
	PriceTier             string       `json:"price_tier"`
	GrossPrice            float64      `json:"gross_price"`
	DeliveryPrice         float64      `json:"delivery_price"`
	Category              string       `json:"category"`
	Subcategory           string       `json:"subcategory"`
	Coverage              string       `json:"coverage"`
	Components            string       `json:"components"`
	TransactionTypes      []string     `json:"transaction_types"`
	State                 State        `json:"state"`
	Summary               []SummaryRow `json:"summary"`
	CreatedAt             time.Time    `json:"created_at"`
	EditedAt              *time.Time   `json:"edit_date,omitempty"`
	EditedBy              string       `json:"edit_by,omitempty"`
}

func (it Item) clone() Item {
	it.TransactionTypes = append(make([]string, 0, len(it.TransactionTypes)), it.TransactionTypes...)
	it.Summary = append(make([]SummaryRow, 0, len(it.Summary)), it.Summary...)
	if it.EditedAt != nil {
		t := *it.EditedAt
		it.EditedAt = &t
	}
	return it
}
