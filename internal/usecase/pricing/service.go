package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainTariff "transport-manager/internal/domain/tariff"
	appErrors "transport-manager/pkg/errors"
)

// DefaultTaxRate is the VAT rate applied when the caller does not override it.
var DefaultTaxRate = decimal.RequireFromString("0.20")

// Service implements the pricing engine: shipment cost from tariffs and
// invoice tax breakdown. All arithmetic is fixed-point decimal; monetary
// results carry exactly 2 fractional digits, rounded half-up.
type Service struct {
	tariffRepo domainTariff.Repository
}

func NewService(tariffRepo domainTariff.Repository) *Service {
	return &Service{tariffRepo: tariffRepo}
}

// PriceShipment computes base_fee + weight*per_kg + volume*per_m3 for the
// (service type, destination) pair. Returns ErrTariffNotFound when no tariff
// exists; the caller decides the fallback policy. Weight and volume are
// assumed validated strictly positive upstream.
func (s *Service) PriceShipment(ctx context.Context, serviceTypeID, destinationID uuid.UUID, weight, volume decimal.Decimal) (decimal.Decimal, error) {
	rate, err := s.tariffRepo.RateFor(ctx, serviceTypeID, destinationID)
	if err != nil {
		if errors.Is(err, domainTariff.ErrTariffNotFound) {
			return decimal.Zero, appErrors.NewAppError(
				"TARIFF_NOT_FOUND",
				"no tariff for this service type and destination",
				appErrors.ErrTariffNotFound,
			)
		}
		return decimal.Zero, err
	}

	total := rate.BaseFee.
		Add(weight.Mul(rate.PerKg)).
		Add(volume.Mul(rate.PerM3))

	return total.Round(2), nil
}

// SplitTax computes the tax amount and the tax-inclusive total for a
// tax-exclusive amount. tva = round(ht * rate, 2); ttc = ht + tva, so the
// invariant ttc == ht + tva holds exactly.
func SplitTax(amountHT, taxRate decimal.Decimal) (tva, ttc decimal.Decimal) {
	tva = amountHT.Mul(taxRate).Round(2)
	ttc = amountHT.Add(tva)
	return tva, ttc
}

// PriceInvoice sums the (tax-exclusive) amounts of the given expeditions and
// derives the tax breakdown at the default rate.
func (s *Service) PriceInvoice(amounts []decimal.Decimal) (ht, tva, ttc decimal.Decimal) {
	ht = decimal.Zero
	for _, a := range amounts {
		ht = ht.Add(a)
	}
	ht = ht.Round(2)
	tva, ttc = SplitTax(ht, DefaultTaxRate)
	return ht, tva, ttc
}
