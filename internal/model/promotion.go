package model

import "time"

// Promotion types. PERCENTAGE values are whole percents in (0,100];
// FIXED_AMOUNT values are cents; BUY_ONE_GET_ONE ignores Value and
// discounts the cheapest seat in the cart.
const (
    PromoPercentage   = "PERCENTAGE"
    PromoFixedAmount  = "FIXED_AMOUNT"
    PromoBuyOneGetOne = "BUY_ONE_GET_ONE"
)

// Promotion is a discount code valid within [StartsAt, ExpiresAt).
// Promotions are read-only with respect to bookings: validating one
// against a cart never mutates it.
//
// Fields:
//  ID          – primary key identifier.
//  Code        – customer facing code, unique.
//  Description – human readable description.
//  PromoType   – PERCENTAGE, FIXED_AMOUNT or BUY_ONE_GET_ONE.
//  Value       – percent or cents depending on PromoType.
//  StartsAt    – when the promotion becomes valid.
//  ExpiresAt   – when the promotion stops being valid (exclusive).
//  IsActive    – manual on/off switch.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Promotion struct {
    ID          uint64    // promotions.id
    Code        string    // promotions.code
    Description string    // promotions.description
    PromoType   string    // promotions.promo_type
    Value       uint32    // promotions.value
    StartsAt    time.Time // promotions.starts_at
    ExpiresAt   time.Time // promotions.expires_at
    IsActive    bool      // promotions.is_active
    CreatedAt   time.Time // promotions.created_at
    UpdatedAt   time.Time // promotions.updated_at
}
