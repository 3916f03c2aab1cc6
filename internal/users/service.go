package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"itembuildup/internal/apperr"
)

var ErrInvalidImage = errors.New("users: invalid image")

// Upload is an optional profile image attached to an update.
type Upload struct {
	Name string
	Body io.Reader
}

// UpdateRequest is an edit submitted through the profile or admin forms.
// Password is plaintext and is hashed before it reaches the repository.
type UpdateRequest struct {
	EmployeeID  string
	FirstName   string
	LastName    string
	JobTitle    string
	Department  string
	Email       string
	Password    string
	AccountType *AccountType
	Image       *Upload

	EditedBy string
}

// Service holds the user-management operations behind the users routes.
type Service struct {
	repo   Repository
	images ImageStore
	clock  func() time.Time
}

func NewService(repo Repository, images ImageStore) *Service {
	return &Service{repo: repo, images: images, clock: time.Now}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, employeeID string) (User, error) {
	u, err := s.repo.FindByEmployeeID(ctx, employeeID)
	if errors.Is(err, ErrNotFound) {
		return User{}, apperr.NotFound("User not found")
	}
	return u, err
}

// Update applies req and returns the stored record after the change.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (User, error) {
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" {
		return User{}, apperr.BadRequest("Employee ID is required.")
	}
	if req.AccountType != nil && !req.AccountType.Valid() {
		return User{}, apperr.BadRequest("Invalid account type.")
	}
	if _, err := s.Get(ctx, req.EmployeeID); err != nil {
		return User{}, err
	}

	changes := Changes{
		EmployeeID:  req.EmployeeID,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		JobTitle:    strings.TrimSpace(req.JobTitle),
		Department:  strings.TrimSpace(req.Department),
		Email:       strings.TrimSpace(req.Email),
		AccountType: req.AccountType,
		EditedBy:    req.EditedBy,
		EditedAt:    s.clock().UTC(),
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		changes.PasswordHash = hash
	}
	if req.Image != nil {
		if s.images == nil {
			return User{}, errors.New("users: image store not configured")
		}
		path, err := s.images.Save(req.Image.Name, req.Image.Body)
		if err != nil {
			if errors.Is(err, ErrInvalidImage) {
				return User{}, apperr.BadRequest("Unsupported image type.")
			}
			return User{}, fmt.Errorf("save image: %w", err)
		}
		changes.ProfileImage = path
	}

	u, err := s.repo.Update(ctx, changes)
	if errors.Is(err, ErrNotFound) {
		return User{}, apperr.NotFound("User not found")
	}
	return u, err
}

func (s *Service) Delete(ctx context.Context, employeeID string) error {
	if strings.TrimSpace(employeeID) == "" {
		return apperr.BadRequest("Employee ID is required.")
	}
	err := s.repo.Delete(ctx, employeeID)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	return err
}
