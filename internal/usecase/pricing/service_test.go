package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainTariff "transport-manager/internal/domain/tariff"
	appErrors "transport-manager/pkg/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeTariffRepo serves a single rate for every lookup. Embedding the
// interface keeps the stub small; only RateFor is exercised here.
type fakeTariffRepo struct {
	domainTariff.Repository
	rate *domainTariff.Rate
	err  error
}

func (f *fakeTariffRepo) RateFor(_ context.Context, _, _ uuid.UUID) (*domainTariff.Rate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rate, nil
}

func TestPriceShipment(t *testing.T) {
	repo := &fakeTariffRepo{rate: &domainTariff.Rate{
		BaseFee: dec("50.00"),
		PerKg:   dec("2.50"),
		PerM3:   dec("15.00"),
	}}
	svc := NewService(repo)

	// 50 + 10*2.50 + 1*15.00 = 90.00
	got, err := svc.PriceShipment(context.Background(), uuid.New(), uuid.New(), dec("10"), dec("1"))
	require.NoError(t, err)
	assert.True(t, dec("90.00").Equal(got), "got %s", got)
}

func TestPriceShipment_RoundsHalfUp(t *testing.T) {
	repo := &fakeTariffRepo{rate: &domainTariff.Rate{
		BaseFee: dec("0"),
		PerKg:   dec("0.333"),
		PerM3:   dec("0"),
	}}
	svc := NewService(repo)

	// 1.5 * 0.333 = 0.4995 -> 0.50
	got, err := svc.PriceShipment(context.Background(), uuid.New(), uuid.New(), dec("1.5"), dec("1"))
	require.NoError(t, err)
	assert.Equal(t, "0.50", got.StringFixed(2))
}

func TestPriceShipment_TariffNotFound(t *testing.T) {
	repo := &fakeTariffRepo{err: domainTariff.ErrTariffNotFound}
	svc := NewService(repo)

	_, err := svc.PriceShipment(context.Background(), uuid.New(), uuid.New(), dec("1"), dec("1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrTariffNotFound))

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "TARIFF_NOT_FOUND", appErr.Code)
}

func TestSplitTax_InvariantHoldsExactly(t *testing.T) {
	cases := []string{"0.01", "33.33", "100.00", "500.00", "1234.56", "0.03"}

	for _, ht := range cases {
		amount := dec(ht)
		tva, ttc := SplitTax(amount, DefaultTaxRate)

		assert.True(t, ttc.Equal(amount.Add(tva)),
			"ht=%s: ttc %s != ht + tva %s", ht, ttc, amount.Add(tva))
		assert.True(t, tva.Equal(amount.Mul(DefaultTaxRate).Round(2)))
	}
}

func TestPriceInvoice(t *testing.T) {
	svc := NewService(&fakeTariffRepo{})

	ht, tva, ttc := svc.PriceInvoice([]decimal.Decimal{dec("100.00"), dec("400.00")})
	assert.True(t, dec("500.00").Equal(ht), "ht=%s", ht)
	assert.True(t, dec("100.00").Equal(tva), "tva=%s", tva)
	assert.True(t, dec("600.00").Equal(ttc), "ttc=%s", ttc)
}

func TestPriceInvoice_Empty(t *testing.T) {
	svc := NewService(&fakeTariffRepo{})

	ht, tva, ttc := svc.PriceInvoice(nil)
	assert.True(t, ht.IsZero())
	assert.True(t, tva.IsZero())
	assert.True(t, ttc.IsZero())
}
