package service

import (
	"math"

	"pickup/internal/domain"
)

// minimumFareCeiling caps the customer total at the base price constant
// plus tip. It mirrors the $3.99 base price but is a fixed clamp, not
// derived from config; whether it is intentional price protection or a
// leftover constant is an open product question, so it is preserved
// verbatim and regression-guarded in tests.
const minimumFareCeiling = 3.99

// conservationTolerance is the rounding slack allowed by the breakdown
// validator.
const conservationTolerance = 0.01

// Size classification boundaries (item value in USD).
const (
	sizeMediumMinValue = 25.0
	sizeLargeMinValue  = 100.0
	sizeXLMinValue     = 300.0
)

// Value-cap bounds: the customer never pays more than one cent under the
// item's value, and never less than the minimum service charge.
const (
	capCentUnderValue = 0.01
	capFloorTotal     = 1.00
)

// ClassifySize maps a declared item value to a size category. Total for
// all inputs; negative values fall into the small bucket.
func ClassifySize(itemValue float64) domain.SizeCategory {
	switch {
	case itemValue < sizeMediumMinValue:
		return domain.SizeSmall
	case itemValue < sizeLargeMinValue:
		return domain.SizeMedium
	case itemValue < sizeXLMinValue:
		return domain.SizeLarge
	default:
		return domain.SizeExtraLarge
	}
}

// Compose calculates the full customer/driver/company breakdown for a
// pickup fare. Inputs are bounds-checked; the arithmetic itself never
// fails and identical inputs always produce identical output.
func Compose(route domain.RouteInfo, size domain.SizeCategory, itemCount int, isRush bool, tip float64, cfg *domain.PaymentConfig) (*domain.PaymentBreakdown, error) {
	if err := validateFareInputs(route, itemCount, tip); err != nil {
		return nil, err
	}

	hours := route.EstimatedTimeMinutes / 60

	// Customer side. The small-order fee is tested against the pre-fee
	// subtotal so it cannot exempt itself.
	b := &domain.PaymentBreakdown{
		BasePrice:    cfg.BasePrice,
		DistanceFee:  route.DistanceMiles * cfg.DistanceRate,
		TimeFee:      hours * cfg.TimeRate,
		SizeUpcharge: cfg.SizeUpcharges[size],
		Tip:          tip,
	}
	if itemCount > 1 {
		b.MultiItemFee = float64(itemCount-1) * cfg.MultiItemFee
	}
	if isRush {
		b.RushFee = cfg.RushFee
	}

	initialSubtotal := b.BasePrice + b.DistanceFee + b.TimeFee + b.SizeUpcharge + b.MultiItemFee + b.RushFee
	if initialSubtotal < cfg.SmallOrderThreshold {
		b.SmallOrderFee = cfg.SmallOrderFee
	}
	b.Subtotal = initialSubtotal + b.SmallOrderFee
	b.ServiceFee = b.Subtotal * cfg.ServiceFeeRate
	b.TotalPrice = math.Min(b.Subtotal+b.ServiceFee+tip, minimumFareCeiling+tip)

	// Driver side, computed independently from the same inputs. The driver
	// keeps the whole tip.
	b.DriverBasePay = cfg.DriverBasePay
	b.DriverDistancePay = route.DistanceMiles * cfg.DriverDistanceRate
	b.DriverTimePay = hours * cfg.DriverTimeRate
	b.DriverSizeBonus = cfg.DriverSizeBonuses[size]
	b.DriverTip = tip
	b.DriverTotalEarning = b.DriverBasePay + b.DriverDistancePay + b.DriverTimePay + b.DriverSizeBonus + b.DriverTip

	// Company side. The company keeps the whole service fee.
	b.CompanyServiceFee = b.ServiceFee
	b.CompanyBaseFeeShare = cfg.CompanyBaseShare
	b.CompanyDistanceFeeShare = route.DistanceMiles * cfg.CompanyDistanceRate
	b.CompanyTimeFeeShare = hours * cfg.CompanyTimeRate
	b.CompanyTotalRevenue = b.CompanyServiceFee + b.CompanyBaseFeeShare + b.CompanyDistanceFeeShare + b.CompanyTimeFeeShare

	return b, nil
}

// CapToItemValue computes a fare that never charges the customer more
// than (almost) the value of the item being returned. The size category
// is derived from the item value. When the standard fare fits under the
// cap it is returned unchanged; otherwise every customer fee line is
// scaled down proportionally, the service fee is back-solved from its
// rate, and the tip passes through untouched.
//
// Driver pay follows cfg.DriverCapPolicy: the default preserves the
// uncapped earning, which means a capped breakdown can fail the
// conservation check.
func CapToItemValue(route domain.RouteInfo, itemValue float64, itemCount int, isRush bool, tip float64, cfg *domain.PaymentConfig) (*domain.PaymentBreakdown, error) {
	if itemValue < 0 {
		return nil, ErrInvalidItemValue
	}

	size := ClassifySize(itemValue)
	standard, err := Compose(route, size, itemCount, isRush, tip, cfg)
	if err != nil {
		return nil, err
	}

	maxAllowableTotal := math.Max(itemValue-capCentUnderValue, capFloorTotal)
	if standard.TotalPrice <= maxAllowableTotal {
		return standard, nil
	}

	cappedTotal := maxAllowableTotal
	cappedSubtotal := cappedTotal - tip
	// Back-solve the service fee so that preService + fee == cappedSubtotal
	// at the configured rate.
	cappedServiceFee := cappedSubtotal * (cfg.ServiceFeeRate / (1 + cfg.ServiceFeeRate))
	cappedPreServiceTotal := cappedSubtotal - cappedServiceFee

	reductionFactor := 0.0
	if standard.Subtotal > 0 {
		reductionFactor = cappedPreServiceTotal / standard.Subtotal
	}

	capped := *standard
	capped.BasePrice = standard.BasePrice * reductionFactor
	capped.DistanceFee = standard.DistanceFee * reductionFactor
	capped.TimeFee = standard.TimeFee * reductionFactor
	capped.SizeUpcharge = standard.SizeUpcharge * reductionFactor
	capped.MultiItemFee = standard.MultiItemFee * reductionFactor
	capped.SmallOrderFee = standard.SmallOrderFee * reductionFactor
	capped.RushFee = standard.RushFee * reductionFactor
	capped.ServiceFee = cappedServiceFee
	capped.Subtotal = cappedPreServiceTotal
	capped.TotalPrice = cappedTotal

	capped.CompanyServiceFee = cappedServiceFee
	capped.CompanyBaseFeeShare = standard.CompanyBaseFeeShare * reductionFactor
	capped.CompanyDistanceFeeShare = standard.CompanyDistanceFeeShare * reductionFactor
	capped.CompanyTimeFeeShare = standard.CompanyTimeFeeShare * reductionFactor
	capped.CompanyTotalRevenue = capped.CompanyServiceFee + capped.CompanyBaseFeeShare + capped.CompanyDistanceFeeShare + capped.CompanyTimeFeeShare

	if cfg.DriverCapPolicy == domain.DriverCapScale {
		capped.DriverBasePay = standard.DriverBasePay * reductionFactor
		capped.DriverDistancePay = standard.DriverDistancePay * reductionFactor
		capped.DriverTimePay = standard.DriverTimePay * reductionFactor
		capped.DriverSizeBonus = standard.DriverSizeBonus * reductionFactor
		capped.DriverTotalEarning = capped.DriverBasePay + capped.DriverDistancePay + capped.DriverTimePay + capped.DriverSizeBonus + capped.DriverTip
	}

	return &capped, nil
}

// Validate checks the conservation invariant: the customer total must
// equal driver earnings plus company revenue within rounding slack. It
// is a diagnostic; neither Compose nor CapToItemValue calls it.
func Validate(b *domain.PaymentBreakdown) domain.ValidationResult {
	allocated := b.DriverTotalEarning + b.CompanyTotalRevenue
	diff := math.Abs(b.TotalPrice - allocated)

	if diff < conservationTolerance {
		return domain.ValidationResult{
			IsValid:     true,
			Difference:  diff,
			Explanation: "customer total matches driver earnings plus company revenue",
		}
	}

	explanation := "conservation violated: customer total does not equal driver earnings plus company revenue"
	if b.TotalPrice < allocated {
		explanation = "conservation violated: allocations exceed the customer total (capped or clamped fare with preserved driver pay)"
	}

	return domain.ValidationResult{
		IsValid:     false,
		Difference:  diff,
		Explanation: explanation,
	}
}

func validateFareInputs(route domain.RouteInfo, itemCount int, tip float64) error {
	switch {
	case route.DistanceMiles < 0:
		return ErrInvalidDistance
	case route.EstimatedTimeMinutes < 0:
		return ErrInvalidDuration
	case itemCount < 1:
		return ErrInvalidItemCount
	case tip < 0:
		return ErrInvalidTip
	}
	return nil
}

// FareService exposes the fare calculator with a process-wide default
// rate schedule. The config is read-only; any number of goroutines may
// call these methods concurrently.
type FareService struct {
	config *domain.PaymentConfig
}

// NewFareService creates a new FareService.
func NewFareService(config *domain.PaymentConfig) *FareService {
	return &FareService{config: config}
}

// Config returns the rate schedule the service was built with.
func (s *FareService) Config() *domain.PaymentConfig {
	return s.config
}

// Quote computes a standard breakdown using the default schedule.
func (s *FareService) Quote(route domain.RouteInfo, size domain.SizeCategory, itemCount int, isRush bool, tip float64) (*domain.PaymentBreakdown, error) {
	return Compose(route, size, itemCount, isRush, tip, s.config)
}

// QuoteForItemValue computes a value-capped breakdown using the default
// schedule.
func (s *FareService) QuoteForItemValue(route domain.RouteInfo, itemValue float64, itemCount int, isRush bool, tip float64) (*domain.PaymentBreakdown, error) {
	return CapToItemValue(route, itemValue, itemCount, isRush, tip, s.config)
}
