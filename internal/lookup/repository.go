package lookup

import (
	"context"
	"database/sql"
	"fmt"

	"itembuildup/internal/users"
)

type Repository interface {
	Navigation(ctx context.Context, viewer users.AccountType) ([]NavItem, error)
	Companies(ctx context.Context) ([]Company, error)
	Dropdown(ctx context.Context, name string) ([]DropdownOption, error)
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func navigationFilter(viewer users.AccountType) (string, error) {
	switch viewer {
	case users.AccountSuperAdmin:
		return "", nil
	case users.AccountAdmin:
		return fmt.Sprintf("WHERE user_type <> %d", users.AccountSuperAdmin), nil
	case users.AccountEmployee:
		return fmt.Sprintf("WHERE user_type = %d", users.AccountEmployee), nil
	default:
		return "", fmt.Errorf("unknown account type %d", viewer)
	}
}

func (r *PostgresRepo) Navigation(ctx context.Context, viewer users.AccountType) ([]NavItem, error) {
	where, err := navigationFilter(viewer)
	if err != nil {
		return nil, err
	}
	q := `SELECT id, name, path, COALESCE(icon, ''), user_type, sort_order FROM navigation_items ` +
		where + ` ORDER BY sort_order, id`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []NavItem{}
	for rows.Next() {
		var n NavItem
		if err := rows.Scan(&n.ID, &n.Name, &n.Path, &n.Icon, &n.UserType, &n.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Companies(ctx context.Context) ([]Company, error) {
	const q = `SELECT id, code, name FROM companies ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Company{}
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Code, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Dropdown(ctx context.Context, name string) ([]DropdownOption, error) {
	q := `SELECT id, dropdown_name, value, label FROM dropdown_options`
	var args []any
	if name != "" {
		q += ` WHERE dropdown_name = $1`
		args = append(args, name)
	}
	q += ` ORDER BY dropdown_name, id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DropdownOption{}
	for rows.Next() {
		var o DropdownOption
		if err := rows.Scan(&o.ID, &o.DropdownName, &o.Value, &o.Label); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
