package domain

// SizeCategory is a coarse item-value bucket used to scale upcharges
// and driver bonuses.
type SizeCategory string

const (
	SizeSmall      SizeCategory = "S"
	SizeMedium     SizeCategory = "M"
	SizeLarge      SizeCategory = "L"
	SizeExtraLarge SizeCategory = "XL"
)

// DriverCapPolicy controls what happens to driver pay when a fare is
// rescaled by the value cap.
type DriverCapPolicy string

const (
	// DriverCapPreserve keeps driver pay at the uncapped amount. This is the
	// historical behavior; the conservation invariant can break under capping.
	DriverCapPreserve DriverCapPolicy = "preserve"

	// DriverCapScale reduces driver pay by the same factor as the customer
	// fee lines (tip excluded).
	DriverCapScale DriverCapPolicy = "scale"
)

// RouteInfo describes the pickup route as supplied by the caller.
// Distances come from the booking flow; this package never talks to a
// map provider.
type RouteInfo struct {
	DistanceMiles        float64
	EstimatedTimeMinutes float64
}

// PaymentConfig is the immutable rate schedule for a fare calculation.
// For each fee line the driver share plus the company share equals the
// total rate; the default schedule satisfies this by construction and
// it is not re-checked at runtime.
type PaymentConfig struct {
	// Base fee (flat per pickup) and its split.
	BasePrice        float64
	DriverBasePay    float64
	CompanyBaseShare float64

	// Per-mile distance fee and its split.
	DistanceRate        float64
	DriverDistanceRate  float64
	CompanyDistanceRate float64

	// Per-hour time fee and its split.
	TimeRate        float64
	DriverTimeRate  float64
	CompanyTimeRate float64

	// Size upcharge charged to the customer and the matching bonus paid to
	// the driver, keyed by size category. Unknown categories read as zero.
	SizeUpcharges     map[SizeCategory]float64
	DriverSizeBonuses map[SizeCategory]float64

	// ServiceFeeRate is a fraction of the subtotal, kept entirely by the
	// company.
	ServiceFeeRate float64

	// MultiItemFee is charged per item beyond the first.
	MultiItemFee float64

	// RushFee is a flat fee for same-day pickups.
	RushFee float64

	// SmallOrderFee applies when the pre-fee subtotal is below
	// SmallOrderThreshold.
	SmallOrderFee       float64
	SmallOrderThreshold float64

	// DriverCapPolicy selects the driver-pay behavior under value-capping.
	// An empty value means DriverCapPreserve.
	DriverCapPolicy DriverCapPolicy
}

// PaymentBreakdown is the full allocation of one fare across the
// customer charge, the driver payout, and company revenue. It is a pure
// computed value and is never mutated after construction.
type PaymentBreakdown struct {
	// Customer charges.
	BasePrice     float64 `json:"base_price"`
	DistanceFee   float64 `json:"distance_fee"`
	TimeFee       float64 `json:"time_fee"`
	SizeUpcharge  float64 `json:"size_upcharge"`
	MultiItemFee  float64 `json:"multi_item_fee"`
	SmallOrderFee float64 `json:"small_order_fee"`
	ServiceFee    float64 `json:"service_fee"`
	RushFee       float64 `json:"rush_fee"`
	Subtotal      float64 `json:"subtotal"`
	Tip           float64 `json:"tip"`
	TotalPrice    float64 `json:"total_price"`

	// Driver earnings.
	DriverBasePay      float64 `json:"driver_base_pay"`
	DriverDistancePay  float64 `json:"driver_distance_pay"`
	DriverTimePay      float64 `json:"driver_time_pay"`
	DriverSizeBonus    float64 `json:"driver_size_bonus"`
	DriverTip          float64 `json:"driver_tip"`
	DriverTotalEarning float64 `json:"driver_total_earning"`

	// Company revenue.
	CompanyServiceFee       float64 `json:"company_service_fee"`
	CompanyBaseFeeShare     float64 `json:"company_base_fee_share"`
	CompanyDistanceFeeShare float64 `json:"company_distance_fee_share"`
	CompanyTimeFeeShare     float64 `json:"company_time_fee_share"`
	CompanyTotalRevenue     float64 `json:"company_total_revenue"`
}

// ValidationResult reports whether a breakdown conserves money
// (customer total == driver earnings + company revenue).
type ValidationResult struct {
	IsValid     bool    `json:"is_valid"`
	Difference  float64 `json:"difference"`
	Explanation string  `json:"explanation"`
}
