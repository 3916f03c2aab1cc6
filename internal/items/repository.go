package items

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"itembuildup/pkg/utils"
)

const dateLayout = "2006-01-02"

// Repository is the persistence contract for item build-up records.
// Summary rows are written and read together with their item.
type Repository interface {
	Create(ctx context.Context, it Item) (Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	// List returns items newest first; an empty state matches every item.
	List(ctx context.Context, state State) ([]Item, error)
	Update(ctx context.Context, it Item) (Item, error)
}

const itemColumns = `id, user_id, company_code, parent_item_description, pos_txt,
       date_prepared, start_date, end_date, price_tier, gross_price, delivery_price,
       category, subcategory, coverage, components, transaction_types, state,
       created_at, edited_at, edited_by`

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var (
		it                   Item
		prepared, start, end sql.NullTime
		txTypes, editedBy    sql.NullString
		editedAt             sql.NullTime
	)
	if err := row.Scan(
		&it.ID,
		&it.UserID,
		&it.CompanyCode,
		&it.ParentItemDescription,
		&it.PosTxt,
		&prepared,
		&start,
		&end,
		&it.PriceTier,
		&it.GrossPrice,
		&it.DeliveryPrice,
		&it.Category,
		&it.Subcategory,
		&it.Coverage,
		&it.Components,
		&txTypes,
		&it.State,
		&it.CreatedAt,
		&editedAt,
		&editedBy,
	); err != nil {
		return Item{}, err
	}
	it.DatePrepared = formatDate(prepared)
	it.StartDate = formatDate(start)
	it.EndDate = formatDate(end)
	it.TransactionTypes = splitTypes(txTypes.String)
	it.EditedBy = editedBy.String
	if editedAt.Valid {
		t := editedAt.Time
		it.EditedAt = &t
	}
	return it, nil
}

func formatDate(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(dateLayout)
}

// dateArg turns a validated YYYY-MM-DD string into a query argument; empty is NULL.
func dateArg(s string) any {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return t
}

func joinTypes(types []string) string { return strings.Join(types, ", ") }

func splitTypes(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r *PostgresRepo) Create(ctx context.Context, it Item) (Item, error) {
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const q = `
INSERT INTO items (user_id, company_code, parent_item_description, pos_txt,
  date_prepared, start_date, end_date, price_tier, gross_price, delivery_price,
  category, subcategory, coverage, components, transaction_types, state, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING id`
		if err := tx.QueryRowContext(ctx, q,
			it.UserID,
			it.CompanyCode,
			it.ParentItemDescription,
			it.PosTxt,
			dateArg(it.DatePrepared),
			dateArg(it.StartDate),
			dateArg(it.EndDate),
			it.PriceTier,
			it.GrossPrice,
			it.DeliveryPrice,
			it.Category,
			it.Subcategory,
			it.Coverage,
			it.Components,
			joinTypes(it.TransactionTypes),
			string(it.State),
			it.CreatedAt,
		).Scan(&it.ID); err != nil {
			return err
		}
		return insertRows(ctx, tx, it.ID, it.Summary)
	})
	if err != nil {
		return Item{}, err
	}
	return r.Get(ctx, it.ID)
}

func insertRows(ctx context.Context, tx *sql.Tx, itemID int64, rows []SummaryRow) error {
	const q = `
INSERT INTO item_summary_rows (item_id, line_no, description, pos_text, sap_code, mm_price, prov_price)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, q,
			itemID, row.LineNo, row.Description, row.PosText, row.SAPCode, row.MMPrice, row.ProvPrice,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Item, error) {
	q := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	rows, err := r.summaryRows(ctx, `WHERE item_id = $1`, id)
	if err != nil {
		return Item{}, err
	}
	it.Summary = rows[id]
	if it.Summary == nil {
		it.Summary = []SummaryRow{}
	}
	return it, nil
}

func (r *PostgresRepo) List(ctx context.Context, state State) ([]Item, error) {
	q := `SELECT ` + itemColumns + ` FROM items WHERE ($1::text = '' OR state = $1) ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, string(state))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary, err := r.summaryRows(ctx,
		`WHERE item_id IN (SELECT id FROM items WHERE ($1::text = '' OR state = $1))`, string(state))
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Summary = summary[out[i].ID]
		if out[i].Summary == nil {
			out[i].Summary = []SummaryRow{}
		}
	}
	return out, nil
}

func (r *PostgresRepo) summaryRows(ctx context.Context, where string, args ...any) (map[int64][]SummaryRow, error) {
	q := `SELECT item_id, line_no, description, pos_text, sap_code, mm_price, prov_price
FROM item_summary_rows ` + where + ` ORDER BY item_id, line_no`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64][]SummaryRow{}
	for rows.Next() {
		var (
			itemID int64
			row    SummaryRow
		)
		if err := rows.Scan(&itemID, &row.LineNo, &row.Description, &row.PosText, &row.SAPCode, &row.MMPrice, &row.ProvPrice); err != nil {
			return nil, err
		}
		out[itemID] = append(out[itemID], row)
	}
	return out, rows.Err()
}

// Update rewrites the item's fields and replaces its summary rows.
// user_id and created_at are never changed.
func (r *PostgresRepo) Update(ctx context.Context, it Item) (Item, error) {
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const q = `
UPDATE items SET
  company_code            = $2,
  parent_item_description = $3,
  pos_txt                 = $4,
  date_prepared           = $5,
  start_date              = $6,
  end_date                = $7,
  price_tier              = $8,
  gross_price             = $9,
  delivery_price          = $10,
  category                = $11,
  subcategory             = $12,
  coverage                = $13,
  components              = $14,
  transaction_types       = $15,
  state                   = $16,
  edited_at               = $17,
  edited_by               = $18
WHERE id = $1`
		res, err := tx.ExecContext(ctx, q,
			it.ID,
			it.CompanyCode,
			it.ParentItemDescription,
			it.PosTxt,
			dateArg(it.DatePrepared),
			dateArg(it.StartDate),
			dateArg(it.EndDate),
			it.PriceTier,
			it.GrossPrice,
			it.DeliveryPrice,
			it.Category,
			it.Subcategory,
			it.Coverage,
			it.Components,
			joinTypes(it.TransactionTypes),
			string(it.State),
			it.EditedAt,
			it.EditedBy,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM item_summary_rows WHERE item_id = $1`, it.ID); err != nil {
			return err
		}
		return insertRows(ctx, tx, it.ID, it.Summary)
	})
	if err != nil {
		return Item{}, err
	}
	return r.Get(ctx, it.ID)
}
