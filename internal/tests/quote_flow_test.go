package tests

import (
	"context"
	"math"
	"testing"

	"pickup/internal/domain"
	"pickup/internal/service"
)

// ──────────────────────────────────────────────
// QUOTE FLOW
// ──────────────────────────────────────────────

func TestQuote_CreatedAndCached(t *testing.T) {
	t.Parallel()

	quotes := NewMockQuoteStore()
	fare := service.NewFareService(standardSchedule())
	quoteService := service.NewQuoteService(fare, quotes)

	quote, err := quoteService.CreateQuote(context.Background(), service.CreateQuoteRequest{
		DistanceMiles:        5,
		EstimatedTimeMinutes: 30,
		SizeCategory:         domain.SizeMedium,
		ItemCount:            1,
		Tip:                  2.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.ID == "" {
		t.Error("expected a quote ID")
	}
	if math.Abs(quote.Breakdown.TotalPrice-5.99) > 1e-9 {
		t.Errorf("expected total 5.99, got %v", quote.Breakdown.TotalPrice)
	}
	if !quotes.HasQuote(quote.ID) {
		t.Error("expected the quote to be cached")
	}
	if quotes.PutCallCount != 1 {
		t.Errorf("expected 1 cache write, got %d", quotes.PutCallCount)
	}
}

func TestQuote_ValueCappedDerivesSizeFromValue(t *testing.T) {
	t.Parallel()

	quotes := NewMockQuoteStore()
	fare := service.NewFareService(standardSchedule())
	quoteService := service.NewQuoteService(fare, quotes)

	quote, err := quoteService.CreateQuote(context.Background(), service.CreateQuoteRequest{
		DistanceMiles:        5,
		EstimatedTimeMinutes: 30,
		ItemValue:            150,
		ValueCapped:          true,
		ItemCount:            1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// $150 classifies as large regardless of what the caller supplied.
	if quote.SizeCategory != domain.SizeLarge {
		t.Errorf("expected size %s, got %s", domain.SizeLarge, quote.SizeCategory)
	}
	maxAllowable := 150 - 0.01
	if quote.Breakdown.TotalPrice > maxAllowable {
		t.Errorf("total %v exceeds the value cap", quote.Breakdown.TotalPrice)
	}
}

func TestQuote_UnknownSizeRejected(t *testing.T) {
	t.Parallel()

	quotes := NewMockQuoteStore()
	fare := service.NewFareService(standardSchedule())
	quoteService := service.NewQuoteService(fare, quotes)

	_, err := quoteService.CreateQuote(context.Background(), service.CreateQuoteRequest{
		DistanceMiles: 5,
		SizeCategory:  "HUGE",
		ItemCount:     1,
	})
	if err != service.ErrInvalidSizeCategory {
		t.Errorf("got error %v, want %v", err, service.ErrInvalidSizeCategory)
	}
	if quotes.PutCallCount != 0 {
		t.Error("rejected quote must not be cached")
	}
}

func TestQuote_ExpiredQuoteGone(t *testing.T) {
	t.Parallel()

	quotes := NewMockQuoteStore()
	fare := service.NewFareService(standardSchedule())
	quoteService := service.NewQuoteService(fare, quotes)

	_, err := quoteService.GetQuote(context.Background(), "no-such-quote")
	if err != service.ErrQuoteExpired {
		t.Errorf("got error %v, want %v", err, service.ErrQuoteExpired)
	}
}

func TestQuote_ValidationReportsClampGap(t *testing.T) {
	t.Parallel()

	quotes := NewMockQuoteStore()
	fare := service.NewFareService(standardSchedule())
	quoteService := service.NewQuoteService(fare, quotes)

	quote, err := quoteService.CreateQuote(context.Background(), service.CreateQuoteRequest{
		DistanceMiles:        5,
		EstimatedTimeMinutes: 30,
		SizeCategory:         domain.SizeMedium,
		ItemCount:            1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := quoteService.ValidateQuote(context.Background(), quote.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The standard schedule clamps this fare, so the diagnostic reports
	// the allocation gap.
	if result.IsValid {
		t.Error("expected the conservation diagnostic to fail for a clamped fare")
	}
	if result.Difference <= 0 {
		t.Errorf("expected a positive difference, got %v", result.Difference)
	}
}

func TestQuote_ValidationPassesForAllocatedSchedule(t *testing.T) {
	t.Parallel()

	quotes := NewMockQuoteStore()
	fare := service.NewFareService(allocatedSchedule())
	quoteService := service.NewQuoteService(fare, quotes)

	quote, err := quoteService.CreateQuote(context.Background(), service.CreateQuoteRequest{
		DistanceMiles:        5,
		EstimatedTimeMinutes: 30,
		SizeCategory:         domain.SizeMedium,
		ItemCount:            1,
		Tip:                  1.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := quoteService.ValidateQuote(context.Background(), quote.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsValid {
		t.Errorf("expected the diagnostic to pass, gap %v", result.Difference)
	}
}
