package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"pickup/internal/domain"
)

const (
	quoteKeyPrefix = "quote:"

	// QuoteTTL is how long a priced quote stays bookable.
	QuoteTTL = 15 * time.Minute
)

// QuoteStore holds priced quotes in Redis for the booking window.
type QuoteStore struct {
	client *redis.Client
}

// NewQuoteStore creates a new QuoteStore.
func NewQuoteStore(client *redis.Client) *QuoteStore {
	return &QuoteStore{client: client}
}

// Put stores a quote under its ID for the quote TTL.
func (s *QuoteStore) Put(ctx context.Context, quote *domain.Quote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, quoteKeyPrefix+quote.ID, data, QuoteTTL).Err()
}

// Get retrieves a quote by ID. Returns nil when the quote has expired
// or never existed.
func (s *QuoteStore) Get(ctx context.Context, quoteID string) (*domain.Quote, error) {
	data, err := s.client.Get(ctx, quoteKeyPrefix+quoteID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// Invalidate removes a quote, typically once it has been booked.
func (s *QuoteStore) Invalidate(ctx context.Context, quoteID string) error {
	return s.client.Del(ctx, quoteKeyPrefix+quoteID).Err()
}
