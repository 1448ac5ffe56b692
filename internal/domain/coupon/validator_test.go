package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCouponRepo struct {
	rule      *Rule
	err       error
	userUses  int
	usageErr  error
	seenCode  string
	seenUser  string
	seenCount bool
}

func (m *mockCouponRepo) FindByCode(_ context.Context, code string) (*Rule, error) {
	m.seenCode = code
	if m.err != nil {
		return nil, m.err
	}
	return m.rule, nil
}

func (m *mockCouponRepo) CountUserUsage(_ context.Context, _, userID string) (int, error) {
	m.seenCount = true
	m.seenUser = userID
	return m.userUses, m.usageErr
}

func TestRepoValidator_Validate(t *testing.T) {
	fixedNow := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	pastTime := fixedNow.Add(-24 * time.Hour)
	futureTime := fixedNow.Add(24 * time.Hour)

	tests := []struct {
		name       string
		repo       *mockCouponRepo
		code       string
		userID     string
		subtotal   string
		wantAmount string
		wantErr    error
	}{
		{
			name: "valid percentage code",
			repo: &mockCouponRepo{rule: &Rule{
				Code: "SAVE10", Active: true,
				DiscountType: DiscountPercentage, Value: dec("10"),
			}},
			code:       "SAVE10",
			subtotal:   "400.00",
			wantAmount: "40.00",
		},
		{
			name:     "unknown code",
			repo:     &mockCouponRepo{err: ErrInvalidCoupon},
			code:     "NOPE",
			subtotal: "100.00",
			wantErr:  ErrInvalidCoupon,
		},
		{
			name:     "blank code",
			repo:     &mockCouponRepo{},
			code:     "   ",
			subtotal: "100.00",
			wantErr:  ErrInvalidCoupon,
		},
		{
			name: "inactive coupon",
			repo: &mockCouponRepo{rule: &Rule{
				Code: "OFF", Active: false,
				DiscountType: DiscountFixed, Value: dec("5"),
			}},
			code:     "OFF",
			subtotal: "100.00",
			wantErr:  ErrInvalidCoupon,
		},
		{
			name: "expired coupon",
			repo: &mockCouponRepo{rule: &Rule{
				Code: "OLD", Active: true, ValidUntil: &pastTime,
				DiscountType: DiscountPercentage, Value: dec("10"),
			}},
			code:     "OLD",
			subtotal: "100.00",
			wantErr:  ErrCouponExpired,
		},
		{
			name: "not yet valid",
			repo: &mockCouponRepo{rule: &Rule{
				Code: "SOON", Active: true, ValidFrom: &futureTime,
				DiscountType: DiscountPercentage, Value: dec("10"),
			}},
			code:     "SOON",
			subtotal: "100.00",
			wantErr:  ErrCouponExpired,
		},
		{
			name: "within window",
			repo: &mockCouponRepo{rule: &Rule{
				Code: "NOW", Active: true,
				ValidFrom: &pastTime, ValidUntil: &futureTime,
				DiscountType: DiscountPercentage, Value: dec("10"),
			}},
			code:       "NOW",
			subtotal:   "100.00",
			wantAmount: "10.00",
		},
		{
			name: "usage limit reached",
			repo: &mockCouponRepo{rule: &Rule{
				Code: "LIMITED", Active: true, MaxUses: 100, Uses: 100,
				DiscountType: DiscountPercentage, Value: dec("10"),
			}},
			code:     "LIMITED",
			subtotal: "100.00",
			wantErr:  ErrUsageLimitReached,
		},
		{
			name: "unlimited uses",
			repo: &mockCouponRepo{rule: &Rule{
				Code: "FOREVER", Active: true, MaxUses: 0, Uses: 9999,
				DiscountType: DiscountFixed, Value: dec("5"),
			}},
			code:       "FOREVER",
			subtotal:   "100.00",
			wantAmount: "5.00",
		},
		{
			name: "per-user limit reached",
			repo: &mockCouponRepo{
				rule: &Rule{
					ID: "c-1", Code: "ONCE", Active: true, PerUserLimit: 1,
					DiscountType: DiscountFixed, Value: dec("5"),
				},
				userUses: 1,
			},
			code:     "ONCE",
			userID:   "u-1",
			subtotal: "100.00",
			wantErr:  ErrPerUserLimitReached,
		},
		{
			name: "per-user limit with room",
			repo: &mockCouponRepo{
				rule: &Rule{
					ID: "c-1", Code: "TWICE", Active: true, PerUserLimit: 2,
					DiscountType: DiscountFixed, Value: dec("5"),
				},
				userUses: 1,
			},
			code:       "TWICE",
			userID:     "u-1",
			subtotal:   "100.00",
			wantAmount: "5.00",
		},
		{
			name: "min order not met",
			repo: &mockCouponRepo{rule: &Rule{
				Code: "BIG", Active: true, MinOrder: dec("500.00"),
				DiscountType: DiscountPercentage, Value: dec("10"),
			}},
			code:     "BIG",
			subtotal: "499.00",
			wantErr:  ErrMinOrderNotMet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRepoValidator(tt.repo)
			v.now = func() time.Time { return fixedNow }

			got, err := v.Validate(context.Background(), tt.code, tt.userID, dec(tt.subtotal))

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, dec(tt.wantAmount).Equal(got.Amount),
				"want %s, got %s", tt.wantAmount, got.Amount)
		})
	}
}

func TestRepoValidator_UpperCasesCode(t *testing.T) {
	repo := &mockCouponRepo{rule: &Rule{
		Code: "SAVE10", Active: true,
		DiscountType: DiscountPercentage, Value: dec("10"),
	}}
	v := NewRepoValidator(repo)

	_, err := v.Validate(context.Background(), "  save10 ", "", dec("100.00"))

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", repo.seenCode)
}

func TestRepoValidator_GuestSkipsPerUserCheck(t *testing.T) {
	repo := &mockCouponRepo{rule: &Rule{
		ID: "c-1", Code: "ONCE", Active: true, PerUserLimit: 1,
		DiscountType: DiscountFixed, Value: dec("5"),
	}}
	v := NewRepoValidator(repo)

	// Guest checkout has no user identity to count usage against.
	got, err := v.Validate(context.Background(), "ONCE", "", dec("100.00"))

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, repo.seenCount)
}

func TestRepoValidator_UsageCountError(t *testing.T) {
	repo := &mockCouponRepo{
		rule: &Rule{
			ID: "c-1", Code: "ONCE", Active: true, PerUserLimit: 1,
			DiscountType: DiscountFixed, Value: dec("5"),
		},
		usageErr: errors.New("db down"),
	}
	v := NewRepoValidator(repo)

	_, err := v.Validate(context.Background(), "ONCE", "u-1", dec("100.00"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "count coupon usage")
}
