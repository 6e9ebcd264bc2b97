package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/cinetick/booking-core/internal/model"
)

// ReceiptRepo provides persistence for receipts.  Receipts are
// write-once: there is no update method by design.
type ReceiptRepo struct {
    db *sql.DB
}

// NewReceiptRepo returns a new ReceiptRepo bound to the given database.
func NewReceiptRepo(db *sql.DB) *ReceiptRepo { return &ReceiptRepo{db: db} }

// Create inserts a receipt and populates the generated ID and
// DB-default issued_at on the provided struct.
func (r *ReceiptRepo) Create(ctx context.Context, rec *model.Receipt) error {
    const ins = `INSERT INTO receipts (receipt_no, user_id, movie_id, total_cents, discount_cents, payment_method)
                 VALUES (?, ?, ?, ?, ?, ?)`
    res, err := q(ctx, r.db).ExecContext(ctx, ins, rec.ReceiptNo, rec.UserID, rec.MovieID, rec.TotalCents, rec.DiscountCents, rec.PaymentMethod)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    const sel = `SELECT id, receipt_no, user_id, movie_id, total_cents, discount_cents, payment_method, issued_at
                 FROM receipts WHERE id = ?`
    return q(ctx, r.db).QueryRowContext(ctx, sel, rec.ID).Scan(
        &rec.ID, &rec.ReceiptNo, &rec.UserID, &rec.MovieID, &rec.TotalCents, &rec.DiscountCents, &rec.PaymentMethod, &rec.IssuedAt,
    )
}

// GetByID retrieves a receipt by its ID.  It returns
// ErrReceiptNotFound when there is no matching row.
func (r *ReceiptRepo) GetByID(ctx context.Context, id uint64) (*model.Receipt, error) {
    const sel = `SELECT id, receipt_no, user_id, movie_id, total_cents, discount_cents, payment_method, issued_at
                 FROM receipts WHERE id = ?`
    var rec model.Receipt
    err := q(ctx, r.db).QueryRowContext(ctx, sel, id).Scan(
        &rec.ID, &rec.ReceiptNo, &rec.UserID, &rec.MovieID, &rec.TotalCents, &rec.DiscountCents, &rec.PaymentMethod, &rec.IssuedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReceiptNotFound
        }
        return nil, err
    }
    return &rec, nil
}
