package service

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinetick/booking-core/internal/model"
)

func seedPromo(t *testing.T, f *fixture, p model.Promotion) model.Promotion {
    t.Helper()
    require.NoError(t, f.promos.Create(context.Background(), &p))
    return p
}

func activeWindow() (time.Time, time.Time) {
    return testNow.Add(-time.Hour), testNow.Add(time.Hour)
}

func TestValidatePercentageDiscount(t *testing.T) {
    f := newFixture(testNow)
    svc := NewPromotionService(f.promos, f.showtimes, &stubClock{now: testNow})
    starts, expires := activeWindow()
    seedPromo(t, f, model.Promotion{Code: "SAVE10", PromoType: model.PromoPercentage, Value: 10, StartsAt: starts, ExpiresAt: expires, IsActive: true})

    res, err := svc.Validate(context.Background(), "save10", f.showtime.ID, 3000, nil)
    require.NoError(t, err)
    assert.Equal(t, uint32(300), res.DiscountCents)
    assert.Equal(t, uint32(2700), res.FinalCents)
}

func TestValidatePercentageOnLargeTotal(t *testing.T) {
    f := newFixture(testNow)
    svc := NewPromotionService(f.promos, f.showtimes, &stubClock{now: testNow})
    starts, expires := activeWindow()
    seedPromo(t, f, model.Promotion{Code: "COMP", PromoType: model.PromoPercentage, Value: 100, StartsAt: starts, ExpiresAt: expires, IsActive: true})

    // Totals past ~42.9M cents would wrap a 32-bit product.
    const total = uint32(100_000_000)
    res, err := svc.Validate(context.Background(), "COMP", f.showtime.ID, total, nil)
    require.NoError(t, err)
    assert.Equal(t, total, res.DiscountCents)
    assert.Equal(t, uint32(0), res.FinalCents)
}

func TestValidateFixedAmountClampsToTotal(t *testing.T) {
    f := newFixture(testNow)
    svc := NewPromotionService(f.promos, f.showtimes, &stubClock{now: testNow})
    starts, expires := activeWindow()
    seedPromo(t, f, model.Promotion{Code: "FLAT500", PromoType: model.PromoFixedAmount, Value: 500, StartsAt: starts, ExpiresAt: expires, IsActive: true})

    res, err := svc.Validate(context.Background(), "FLAT500", f.showtime.ID, 300, nil)
    require.NoError(t, err)
    assert.Equal(t, uint32(300), res.DiscountCents, "discount must never exceed the total")
    assert.Equal(t, uint32(0), res.FinalCents)
}

func TestValidateBuyOneGetOneUsesCheapestSeat(t *testing.T) {
    f := newFixture(testNow)
    svc := NewPromotionService(f.promos, f.showtimes, &stubClock{now: testNow})
    starts, expires := activeWindow()
    seedPromo(t, f, model.Promotion{Code: "BOGO", PromoType: model.PromoBuyOneGetOne, StartsAt: starts, ExpiresAt: expires, IsActive: true})
    ctx := context.Background()

    res, err := svc.Validate(ctx, "BOGO", f.showtime.ID, 3700, []uint32{1500, 2200})
    require.NoError(t, err)
    assert.Equal(t, uint32(1500), res.DiscountCents)

    // A single ticket gets nothing free.
    res, err = svc.Validate(ctx, "BOGO", f.showtime.ID, 2200, []uint32{2200})
    require.NoError(t, err)
    assert.Equal(t, uint32(0), res.DiscountCents)

    // Without per-ticket prices the showtime base price estimates it.
    res, err = svc.Validate(ctx, "BOGO", f.showtime.ID, 3000, nil)
    require.NoError(t, err)
    assert.Equal(t, uint32(1500), res.DiscountCents)
}

func TestValidateRejectsOutsideWindow(t *testing.T) {
    f := newFixture(testNow)
    svc := NewPromotionService(f.promos, f.showtimes, &stubClock{now: testNow})

    seedPromo(t, f, model.Promotion{Code: "SOON", PromoType: model.PromoPercentage, Value: 10,
        StartsAt: testNow.Add(time.Hour), ExpiresAt: testNow.Add(2 * time.Hour), IsActive: true})
    seedPromo(t, f, model.Promotion{Code: "GONE", PromoType: model.PromoPercentage, Value: 10,
        StartsAt: testNow.Add(-2 * time.Hour), ExpiresAt: testNow.Add(-time.Hour), IsActive: true})
    seedPromo(t, f, model.Promotion{Code: "OFF", PromoType: model.PromoPercentage, Value: 10,
        StartsAt: testNow.Add(-time.Hour), ExpiresAt: testNow.Add(time.Hour), IsActive: false})
    ctx := context.Background()

    _, err := svc.Validate(ctx, "SOON", f.showtime.ID, 1000, nil)
    assert.Equal(t, CodePromotionNotStarted, CodeOf(err))

    _, err = svc.Validate(ctx, "GONE", f.showtime.ID, 1000, nil)
    assert.Equal(t, CodePromotionExpired, CodeOf(err))

    _, err = svc.Validate(ctx, "OFF", f.showtime.ID, 1000, nil)
    assert.Equal(t, CodePromotionInactive, CodeOf(err))

    _, err = svc.Validate(ctx, "NOSUCH", f.showtime.ID, 1000, nil)
    assert.Equal(t, CodePromotionNotFound, CodeOf(err))
}

func TestValidateExpiryBoundaryIsExclusive(t *testing.T) {
    f := newFixture(testNow)
    svc := NewPromotionService(f.promos, f.showtimes, &stubClock{now: testNow})
    seedPromo(t, f, model.Promotion{Code: "EDGE", PromoType: model.PromoPercentage, Value: 10,
        StartsAt: testNow.Add(-time.Hour), ExpiresAt: testNow, IsActive: true})

    _, err := svc.Validate(context.Background(), "EDGE", f.showtime.ID, 1000, nil)
    assert.Equal(t, CodePromotionExpired, CodeOf(err), "a promotion expires exactly at expires_at")
}

func TestCreatePromotionValidatesFields(t *testing.T) {
    f := newFixture(testNow)
    svc := NewPromotionService(f.promos, f.showtimes, &stubClock{now: testNow})
    starts, expires := activeWindow()
    ctx := context.Background()

    cases := []struct {
        name  string
        promo model.Promotion
    }{
        {"empty code", model.Promotion{PromoType: model.PromoPercentage, Value: 10, StartsAt: starts, ExpiresAt: expires}},
        {"zero percent", model.Promotion{Code: "X", PromoType: model.PromoPercentage, Value: 0, StartsAt: starts, ExpiresAt: expires}},
        {"over 100 percent", model.Promotion{Code: "X", PromoType: model.PromoPercentage, Value: 101, StartsAt: starts, ExpiresAt: expires}},
        {"zero fixed amount", model.Promotion{Code: "X", PromoType: model.PromoFixedAmount, Value: 0, StartsAt: starts, ExpiresAt: expires}},
        {"inverted window", model.Promotion{Code: "X", PromoType: model.PromoPercentage, Value: 10, StartsAt: expires, ExpiresAt: starts}},
        {"unknown type", model.Promotion{Code: "X", PromoType: "HALF_OFF", Value: 10, StartsAt: starts, ExpiresAt: expires}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            p := tc.promo
            err := svc.Create(ctx, &p)
            require.Error(t, err)
            assert.Equal(t, CodeValidation, CodeOf(err))
        })
    }
}

func TestCreatePromotionUppercasesCode(t *testing.T) {
    f := newFixture(testNow)
    svc := NewPromotionService(f.promos, f.showtimes, &stubClock{now: testNow})
    starts, expires := activeWindow()

    p := model.Promotion{Code: " save10 ", PromoType: model.PromoPercentage, Value: 10, StartsAt: starts, ExpiresAt: expires, IsActive: true}
    require.NoError(t, svc.Create(context.Background(), &p))
    assert.Equal(t, "SAVE10", p.Code)
}
