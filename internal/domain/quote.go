package domain

import "time"

// Quote is a priced fare offer held for a short time so the booking
// flow can reference it. Quotes live only in cache; an expired quote
// simply requires re-pricing.
type Quote struct {
	ID                   string           `json:"id"`
	SizeCategory         SizeCategory     `json:"size_category"`
	ItemValue            float64          `json:"item_value,omitempty"`
	ItemCount            int              `json:"item_count"`
	DistanceMiles        float64          `json:"distance_miles"`
	EstimatedTimeMinutes float64          `json:"estimated_time_minutes"`
	Rush                 bool             `json:"rush"`
	Tip                  float64          `json:"tip"`
	ValueCapped          bool             `json:"value_capped"`
	Breakdown            PaymentBreakdown `json:"breakdown"`
	CreatedAt            time.Time        `json:"created_at"`
}
