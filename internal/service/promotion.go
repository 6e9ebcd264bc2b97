package service

import (
    "context"
    "strings"

    "github.com/cinetick/booking-core/internal/clock"
    "github.com/cinetick/booking-core/internal/model"
)

// ValidationResult reports the outcome of evaluating a promotion code
// against a prospective checkout total.
type ValidationResult struct {
    Promotion     *model.Promotion
    DiscountCents uint32
    FinalCents    uint32
}

// PromotionService evaluates promotion codes and manages the
// promotion catalog. Evaluation is read-only: applying the discount
// to a receipt is the payment flow's job.
type PromotionService struct {
    promotions PromotionStore
    showtimes  ShowtimeStore
    clock      clock.Clock
}

func NewPromotionService(promotions PromotionStore, showtimes ShowtimeStore, clk clock.Clock) *PromotionService {
    if promotions == nil || showtimes == nil || clk == nil {
        panic("nil dependency passed to NewPromotionService")
    }
    return &PromotionService{promotions: promotions, showtimes: showtimes, clock: clk}
}

// Validate checks a code against the current time and computes the
// discount it would yield for the given total. seatPrices carries the
// per-ticket prices of the checkout; BUY_ONE_GET_ONE discounts the
// cheapest of them. The discount never exceeds the total.
func (s *PromotionService) Validate(ctx context.Context, code string, showtimeID uint64, totalCents uint32, seatPrices []uint32) (*ValidationResult, error) {
    code = strings.TrimSpace(code)
    if code == "" {
        return nil, Errf(CodeValidation, "promotion code is required")
    }
    promo, err := s.promotions.GetByCode(ctx, code)
    if err != nil {
        return nil, asServiceErr(err)
    }
    if !promo.IsActive {
        return nil, Errf(CodePromotionInactive, "promotion %s has been deactivated", promo.Code)
    }
    now := s.clock.Now()
    if now.Before(promo.StartsAt) {
        return nil, Errf(CodePromotionNotStarted, "promotion %s is not active yet", promo.Code)
    }
    if !now.Before(promo.ExpiresAt) {
        return nil, Errf(CodePromotionExpired, "promotion %s has expired", promo.Code)
    }

    discount, err := s.discountFor(ctx, promo, showtimeID, totalCents, seatPrices)
    if err != nil {
        return nil, err
    }
    if discount > totalCents {
        discount = totalCents
    }
    return &ValidationResult{
        Promotion:     promo,
        DiscountCents: discount,
        FinalCents:    totalCents - discount,
    }, nil
}

func (s *PromotionService) discountFor(ctx context.Context, promo *model.Promotion, showtimeID uint64, totalCents uint32, seatPrices []uint32) (uint32, error) {
    switch promo.PromoType {
    case model.PromoPercentage:
        // Widen before multiplying; uint32 overflows past ~42.9M cents.
        return uint32(uint64(totalCents) * uint64(promo.Value) / 100), nil
    case model.PromoFixedAmount:
        if promo.Value > totalCents {
            return totalCents, nil
        }
        return promo.Value, nil
    case model.PromoBuyOneGetOne:
        if len(seatPrices) >= 2 {
            cheapest := seatPrices[0]
            for _, p := range seatPrices[1:] {
                if p < cheapest {
                    cheapest = p
                }
            }
            return cheapest, nil
        }
        if len(seatPrices) == 1 {
            // A single ticket gets nothing free.
            return 0, nil
        }
        // No per-ticket prices supplied (standalone validation):
        // estimate with the showtime's base price.
        showtime, err := s.showtimes.GetByID(ctx, showtimeID)
        if err != nil {
            return 0, asServiceErr(err)
        }
        if showtime.PriceCents > totalCents {
            return totalCents, nil
        }
        return showtime.PriceCents, nil
    default:
        return 0, Errf(CodeValidation, "unknown promotion kind %q", promo.PromoType)
    }
}

// Create registers a new promotion after validating its fields.
func (s *PromotionService) Create(ctx context.Context, p *model.Promotion) error {
    if err := validatePromotion(p); err != nil {
        return err
    }
    p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
    return s.promotions.Create(ctx, p)
}

// Update rewrites an existing promotion in place.
func (s *PromotionService) Update(ctx context.Context, p *model.Promotion) error {
    if _, err := s.promotions.GetByID(ctx, p.ID); err != nil {
        return asServiceErr(err)
    }
    if err := validatePromotion(p); err != nil {
        return err
    }
    p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
    return s.promotions.Update(ctx, p)
}

// Delete removes a promotion. Receipts that already used it keep
// their recorded discount.
func (s *PromotionService) Delete(ctx context.Context, id uint64) error {
    return asServiceErr(s.promotions.Delete(ctx, id))
}

// Get returns a single promotion by ID.
func (s *PromotionService) Get(ctx context.Context, id uint64) (*model.Promotion, error) {
    p, err := s.promotions.GetByID(ctx, id)
    if err != nil {
        return nil, asServiceErr(err)
    }
    return p, nil
}

// List returns all promotions, active or not.
func (s *PromotionService) List(ctx context.Context) ([]model.Promotion, error) {
    return s.promotions.List(ctx)
}

func validatePromotion(p *model.Promotion) error {
    if strings.TrimSpace(p.Code) == "" {
        return Errf(CodeValidation, "code is required")
    }
    if !p.ExpiresAt.After(p.StartsAt) {
        return Errf(CodeValidation, "expires_at must be after starts_at")
    }
    switch p.PromoType {
    case model.PromoPercentage:
        if p.Value == 0 || p.Value > 100 {
            return Errf(CodeValidation, "percentage value must be between 1 and 100")
        }
    case model.PromoFixedAmount:
        if p.Value == 0 {
            return Errf(CodeValidation, "fixed amount value must be positive")
        }
    case model.PromoBuyOneGetOne:
        // Value is ignored for BUY_ONE_GET_ONE.
    default:
        return Errf(CodeValidation, "unknown promotion kind %q", p.PromoType)
    }
    return nil
}
