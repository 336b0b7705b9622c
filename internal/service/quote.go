package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pickup/internal/domain"
	"pickup/internal/redis"
)

// QuoteService prices pickups and holds the resulting quotes for the
// booking window.
type QuoteService struct {
	fare   *FareService
	quotes redis.QuoteStoreInterface
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(fare *FareService, quotes redis.QuoteStoreInterface) *QuoteService {
	return &QuoteService{
		fare:   fare,
		quotes: quotes,
	}
}

// CreateQuoteRequest contains the parameters for pricing a pickup.
// When ValueCapped is set, ItemValue drives both the size category and
// the value cap; otherwise SizeCategory must be supplied.
type CreateQuoteRequest struct {
	DistanceMiles        float64
	EstimatedTimeMinutes float64
	SizeCategory         domain.SizeCategory
	ItemValue            float64
	ValueCapped          bool
	ItemCount            int
	Rush                 bool
	Tip                  float64
}

// CreateQuote computes a breakdown and caches it under a fresh quote ID.
func (s *QuoteService) CreateQuote(ctx context.Context, req CreateQuoteRequest) (*domain.Quote, error) {
	route := domain.RouteInfo{
		DistanceMiles:        req.DistanceMiles,
		EstimatedTimeMinutes: req.EstimatedTimeMinutes,
	}

	var breakdown *domain.PaymentBreakdown
	var err error
	size := req.SizeCategory

	if req.ValueCapped {
		size = ClassifySize(req.ItemValue)
		breakdown, err = s.fare.QuoteForItemValue(route, req.ItemValue, req.ItemCount, req.Rush, req.Tip)
	} else {
		if !isKnownSize(size) {
			return nil, ErrInvalidSizeCategory
		}
		breakdown, err = s.fare.Quote(route, size, req.ItemCount, req.Rush, req.Tip)
	}
	if err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		ID:                   uuid.New().String(),
		SizeCategory:         size,
		ItemValue:            req.ItemValue,
		ItemCount:            req.ItemCount,
		DistanceMiles:        req.DistanceMiles,
		EstimatedTimeMinutes: req.EstimatedTimeMinutes,
		Rush:                 req.Rush,
		Tip:                  req.Tip,
		ValueCapped:          req.ValueCapped,
		Breakdown:            *breakdown,
		CreatedAt:            time.Now(),
	}

	if err := s.quotes.Put(ctx, quote); err != nil {
		return nil, err
	}

	return quote, nil
}

// GetQuote retrieves a cached quote.
func (s *QuoteService) GetQuote(ctx context.Context, quoteID string) (*domain.Quote, error) {
	if quoteID == "" {
		return nil, ErrInvalidQuoteID
	}

	quote, err := s.quotes.Get(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, ErrQuoteExpired
	}

	return quote, nil
}

// ValidateQuote runs the conservation check against a cached quote.
// Diagnostic endpoint for ops tooling; nothing blocks on it.
func (s *QuoteService) ValidateQuote(ctx context.Context, quoteID string) (*domain.ValidationResult, error) {
	quote, err := s.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	result := Validate(&quote.Breakdown)
	return &result, nil
}

func isKnownSize(size domain.SizeCategory) bool {
	switch size {
	case domain.SizeSmall, domain.SizeMedium, domain.SizeLarge, domain.SizeExtraLarge:
		return true
	default:
		return false
	}
}
