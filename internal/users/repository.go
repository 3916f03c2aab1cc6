package users

import (
	"context"
	"database/sql"
	"errors"
)

// Repository is the persistence contract for user records.
type Repository interface {
	FindByEmployeeID(ctx context.Context, employeeID string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, c Changes) (User, error)
	SetStatus(ctx context.Context, employeeID string, status Status) error
	Delete(ctx context.Context, employeeID string) error
}

// NOTE: PostgresRepo expects a users table keyed by employee_id, see db/schema.sql.

const userColumns = `employee_id, password_hash, first_name, last_name, profile_image,
       job_title, department, account_type, email, status, edited_at, edited_by`

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var (
		u        User
		editedAt sql.NullTime
		editedBy sql.NullString
		image    sql.NullString
	)
	if err := row.Scan(
		&u.EmployeeID,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&image,
		&u.JobTitle,
		&u.Department,
		&u.AccountType,
		&u.Email,
		&u.Status,
		&editedAt,
		&editedBy,
	); err != nil {
		return User{}, err
	}
	u.ProfileImage = image.String
	u.EditedBy = editedBy.String
	if editedAt.Valid {
		t := editedAt.Time
		u.EditedAt = &t
	}
	return u, nil
}

func (r *PostgresRepo) FindByEmployeeID(ctx context.Context, employeeID string) (User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE employee_id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, employeeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY last_name, first_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, c Changes) (User, error) {
	var accountType sql.NullInt64
	if c.AccountType != nil {
		accountType = sql.NullInt64{Int64: int64(*c.AccountType), Valid: true}
	}

	q := `
UPDATE users SET
  first_name    = COALESCE(NULLIF($2, ''), first_name),
  last_name     = COALESCE(NULLIF($3, ''), last_name),
  job_title     = COALESCE(NULLIF($4, ''), job_title),
  department    = COALESCE(NULLIF($5, ''), department),
  email         = COALESCE(NULLIF($6, ''), email),
  account_type  = COALESCE($7, account_type),
  password_hash = COALESCE(NULLIF($8, ''), password_hash),
  profile_image = COALESCE(NULLIF($9, ''), profile_image),
  edited_at     = $10,
  edited_by     = $11
WHERE employee_id = $1
RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, q,
		c.EmployeeID,
		c.FirstName,
		c.LastName,
		c.JobTitle,
		c.Department,
		c.Email,
		accountType,
		c.PasswordHash,
		c.ProfileImage,
		c.EditedAt,
		c.EditedBy,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) SetStatus(ctx context.Context, employeeID string, status Status) error {
	const q = `UPDATE users SET status = $2 WHERE employee_id = $1`
	res, err := r.db.ExecContext(ctx, q, employeeID, string(status))
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (r *PostgresRepo) Delete(ctx context.Context, employeeID string) error {
	const q = `DELETE FROM users WHERE employee_id = $1`
	res, err := r.db.ExecContext(ctx, q, employeeID)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
