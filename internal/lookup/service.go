package lookup

import (
	"context"
	"strconv"
	"strings"

	"itembuildup/internal/apperr"
	"itembuildup/internal/users"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Navigation returns the menu for the account type named by rawUserType.
// A caller may ask for its own menu or a less privileged one, never a more
// privileged one.
func (s *Service) Navigation(ctx context.Context, caller users.AccountType, rawUserType string) ([]NavItem, error) {
	n, err := strconv.Atoi(strings.TrimSpace(rawUserType))
	if err != nil || !users.AccountType(n).Valid() {
		return nil, apperr.BadRequest("Invalid userType")
	}
	requested := users.AccountType(n)
	if requested < caller {
		return nil, apperr.Forbidden("Navigation for userType %d is not available", requested)
	}
	return s.repo.Navigation(ctx, requested)
}

func (s *Service) Companies(ctx context.Context) ([]Company, error) {
	return s.repo.Companies(ctx)
}

func (s *Service) Dropdown(ctx context.Context, name string) ([]DropdownOption, error) {
	return s.repo.Dropdown(ctx, strings.TrimSpace(name))
}
