package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/cinetick/booking-core/internal/model"
)

// PromotionRepo provides persistence for promotion codes.  Validation
// against a cart only reads; the admin surface owns create/update.
type PromotionRepo struct {
    db *sql.DB
}

// NewPromotionRepo constructs a PromotionRepo with the given DB handle.
func NewPromotionRepo(db *sql.DB) *PromotionRepo {
    return &PromotionRepo{db: db}
}

const promotionColumns = `id, code, description, promo_type, value, starts_at, expires_at, is_active, created_at, updated_at`

func scanPromotion(row interface{ Scan(...interface{}) error }) (*model.Promotion, error) {
    var p model.Promotion
    if err := row.Scan(
        &p.ID, &p.Code, &p.Description, &p.PromoType, &p.Value,
        &p.StartsAt, &p.ExpiresAt, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
    ); err != nil {
        return nil, err
    }
    return &p, nil
}

// GetByCode retrieves a promotion by its customer facing code.  Codes
// are matched case-insensitively after trimming.  It returns
// ErrPromotionNotFound when the code is unknown.
func (r *PromotionRepo) GetByCode(ctx context.Context, code string) (*model.Promotion, error) {
    sel := `SELECT ` + promotionColumns + ` FROM promotions WHERE UPPER(code) = ?`
    p, err := scanPromotion(q(ctx, r.db).QueryRowContext(ctx, sel, strings.ToUpper(strings.TrimSpace(code))))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrPromotionNotFound
        }
        return nil, err
    }
    return p, nil
}

// GetByID retrieves a promotion by its ID.
func (r *PromotionRepo) GetByID(ctx context.Context, id uint64) (*model.Promotion, error) {
    sel := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = ?`
    p, err := scanPromotion(q(ctx, r.db).QueryRowContext(ctx, sel, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrPromotionNotFound
        }
        return nil, err
    }
    return p, nil
}

// List returns all promotions ordered by creation time descending.
func (r *PromotionRepo) List(ctx context.Context) ([]model.Promotion, error) {
    sel := `SELECT ` + promotionColumns + ` FROM promotions ORDER BY created_at DESC, id DESC`
    rows, err := q(ctx, r.db).QueryContext(ctx, sel)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Promotion, 0)
    for rows.Next() {
        p, err := scanPromotion(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, *p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// Create inserts a promotion record.  On success the promotion's ID
// and DB defaults are populated.
func (r *PromotionRepo) Create(ctx context.Context, p *model.Promotion) error {
    const ins = `INSERT INTO promotions (code, description, promo_type, value, starts_at, expires_at, is_active)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := q(ctx, r.db).ExecContext(ctx, ins,
        p.Code, p.Description, p.PromoType, p.Value,
        p.StartsAt.UTC().Format(dbTime), p.ExpiresAt.UTC().Format(dbTime), p.IsActive,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    sel := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = ?`
    fresh, err := scanPromotion(q(ctx, r.db).QueryRowContext(ctx, sel, p.ID))
    if err != nil {
        return err
    }
    *p = *fresh
    return nil
}

// Update rewrites a promotion's fields.
func (r *PromotionRepo) Update(ctx context.Context, p *model.Promotion) error {
    const upd = `UPDATE promotions
                 SET code = ?, description = ?, promo_type = ?, value = ?, starts_at = ?, expires_at = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
                 WHERE id = ?`
    _, err := q(ctx, r.db).ExecContext(ctx, upd,
        p.Code, p.Description, p.PromoType, p.Value,
        p.StartsAt.UTC().Format(dbTime), p.ExpiresAt.UTC().Format(dbTime), p.IsActive, p.ID,
    )
    return err
}

// Delete removes a promotion.  Receipts are unaffected: the discount
// they recorded is immutable history.
func (r *PromotionRepo) Delete(ctx context.Context, id uint64) error {
    const del = `DELETE FROM promotions WHERE id = ?`
    res, err := q(ctx, r.db).ExecContext(ctx, del, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrPromotionNotFound
    }
    return nil
}
