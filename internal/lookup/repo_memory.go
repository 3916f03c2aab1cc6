package lookup

import (
	"context"
	"sort"

	"itembuildup/internal/users"
)

// MemoryRepo serves fixed lookup tables. It is read-only after construction.
type MemoryRepo struct {
	nav       []NavItem
	companies []Company
	options   []DropdownOption
}

func NewMemoryRepo(nav []NavItem, companies []Company, options []DropdownOption) *MemoryRepo {
	sorted := append([]NavItem(nil), nav...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	return &MemoryRepo{nav: sorted, companies: companies, options: options}
}

func (r *MemoryRepo) Navigation(_ context.Context, viewer users.AccountType) ([]NavItem, error) {
	out := []NavItem{}
	for _, n := range r.nav {
		if Visible(n, viewer) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Companies(_ context.Context) ([]Company, error) {
	return append([]Company{}, r.companies...), nil
}

func (r *MemoryRepo) Dropdown(_ context.Context, name string) ([]DropdownOption, error) {
	out := []DropdownOption{}
	for _, o := range r.options {
		if name == "" || o.DropdownName == name {
			out = append(out, o)
		}
	}
	return out, nil
}
