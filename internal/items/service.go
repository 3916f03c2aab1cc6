package items

import (
	"context"
	"errors"
	"strings"
	"time"

	"itembuildup/internal/apperr"
	"itembuildup/internal/users"
)

// Form is the item build-up form body shared by create and update. The
// submitting employee always comes from the caller's verified claims, so any
// userId the form carries is ignored.
type Form struct {
	ItemID                int64            `json:"itemId"`
	CompanyCode           string           `json:"companyCode"`
	ParentItemDescription string           `json:"parentItemDescription"`
	PosTxt                string           `json:"posTxt"`
	DatePrepared          string           `json:"datePrepared"`
	StartDate             string           `json:"startDate"`
	EndDate               string           `json:"endDate"`
	PriceTier             string           `json:"priceTier"`
	GrossPrice            float64          `json:"grossPrice"`
	DeliveryPrice         float64          `json:"deliveryPrice"`
	Category              string           `json:"category"`
	Subcategory           string           `json:"subcategory"`
	Coverage              string           `json:"coverage"`
	Components            string           `json:"components"`
	TransactionTypes      TransactionFlags `json:"transactionTypes"`
	Summary               []SummaryRow     `json:"summary"`

	// State is only honored on update.
	State State `json:"state"`
}

// Actor is the authenticated employee acting on an item.
type Actor struct {
	EmployeeID  string
	AccountType users.AccountType
}

func (a Actor) isAdmin() bool { return a.AccountType <= users.AccountAdmin }

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Create stores a new Ongoing item submitted by actor.
func (s *Service) Create(ctx context.Context, actor Actor, f Form) (Item, error) {
	it, err := s.fromForm(f)
	if err != nil {
		return Item{}, err
	}
	it.UserID = actor.EmployeeID
	it.State = StateOngoing
	it.CreatedAt = s.clock().UTC()
	return s.repo.Create(ctx, it)
}

// List returns items in rawState, or every item when rawState is empty.
func (s *Service) List(ctx context.Context, rawState string) ([]Item, error) {
	state := State(strings.TrimSpace(rawState))
	if state != "" && !state.Valid() {
		return nil, apperr.BadRequest("Invalid state")
	}
	return s.repo.List(ctx, state)
}

func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	it, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Item{}, apperr.NotFound("Item not found")
	}
	return it, err
}

// Update replaces the editable fields of f.ItemID. The submitter may edit their
// own item while it is Ongoing; admins may edit any item and move it between
// states.
func (s *Service) Update(ctx context.Context, actor Actor, f Form) (Item, error) {
	if f.ItemID <= 0 {
		return Item{}, apperr.BadRequest("Item ID is required.")
	}
	cur, err := s.Get(ctx, f.ItemID)
	if err != nil {
		return Item{}, err
	}
	if !actor.isAdmin() {
		if cur.UserID != actor.EmployeeID {
			return Item{}, apperr.Forbidden("You can only update your own items.")
		}
		if cur.State != StateOngoing {
			return Item{}, apperr.Forbidden("Only ongoing items can be edited.")
		}
	}

	next, err := s.fromForm(f)
	if err != nil {
		return Item{}, err
	}
	next.ID = cur.ID
	next.UserID = cur.UserID
	next.CreatedAt = cur.CreatedAt
	next.State = cur.State
	if f.State != "" && f.State != cur.State {
		if !f.State.Valid() {
			return Item{}, apperr.BadRequest("Invalid state")
		}
		if !actor.isAdmin() {
			return Item{}, apperr.Forbidden("Only admins can change an item's state.")
		}
		next.State = f.State
	}
	now := s.clock().UTC()
	next.EditedAt = &now
	next.EditedBy = actor.EmployeeID

	it, err := s.repo.Update(ctx, next)
	if errors.Is(err, ErrNotFound) {
		return Item{}, apperr.NotFound("Item not found")
	}
	return it, err
}

// fromForm validates the shape of f. Prices are taken as submitted.
func (s *Service) fromForm(f Form) (Item, error) {
	it := Item{
		CompanyCode:           strings.TrimSpace(f.CompanyCode),
		ParentItemDescription: strings.TrimSpace(f.ParentItemDescription),
		PosTxt:                strings.TrimSpace(f.PosTxt),
		DatePrepared:          strings.TrimSpace(f.DatePrepared),
		StartDate:             strings.TrimSpace(f.StartDate),
		EndDate:               strings.TrimSpace(f.EndDate),
		PriceTier:             strings.TrimSpace(f.PriceTier),
		GrossPrice:            f.GrossPrice,
		DeliveryPrice:         f.DeliveryPrice,
		Category:              strings.TrimSpace(f.Category),
		Subcategory:           strings.TrimSpace(f.Subcategory),
		Coverage:              strings.TrimSpace(f.Coverage),
		Components:            strings.TrimSpace(f.Components),
		TransactionTypes:      f.TransactionTypes.Labels(),
	}
	if it.CompanyCode == "" {
		return Item{}, apperr.BadRequest("Company is required.")
	}
	if it.ParentItemDescription == "" {
		return Item{}, apperr.BadRequest("Parent item description is required.")
	}
	if len(it.TransactionTypes) == 0 {
		return Item{}, apperr.BadRequest("Please select at least one transaction type.")
	}

	for _, d := range []struct{ name, v string }{
		{"datePrepared", it.DatePrepared},
		{"startDate", it.StartDate},
		{"endDate", it.EndDate},
	} {
		if d.v == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d.v); err != nil {
			return Item{}, apperr.BadRequest("Invalid %s, expected YYYY-MM-DD.", d.name)
		}
	}
	if it.StartDate != "" && it.EndDate != "" && it.EndDate < it.StartDate {
		return Item{}, apperr.BadRequest("End date is before start date.")
	}

	it.Summary = make([]SummaryRow, 0, len(f.Summary))
	for _, row := range f.Summary {
		row.Description = strings.TrimSpace(row.Description)
		row.PosText = strings.TrimSpace(row.PosText)
		row.SAPCode = strings.TrimSpace(row.SAPCode)
		if row.Description == "" && row.PosText == "" && row.SAPCode == "" && row.MMPrice == 0 && row.ProvPrice == 0 {
			continue
		}
		row.LineNo = len(it.Summary) + 1
		it.Summary = append(it.Summary, row)
	}
	return it, nil
}
