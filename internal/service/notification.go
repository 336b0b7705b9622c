package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"pickup/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationPickupBooked    NotificationType = "PICKUP_BOOKED"
	NotificationPickupClaimed   NotificationType = "PICKUP_CLAIMED"
	NotificationPickupCompleted NotificationType = "PICKUP_COMPLETED"
	NotificationPickupCancelled NotificationType = "PICKUP_CANCELLED"
	NotificationPayoutSent      NotificationType = "PAYOUT_SENT"
	NotificationPayoutFailed    NotificationType = "PAYOUT_FAILED"
	NotificationReceiptReady    NotificationType = "RECEIPT_READY"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string // Customer or Driver ID
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery. The delivery
// transports (push, SMS, email, websocket) live outside this service;
// here they are logged.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyPickupBooked confirms a booking to the customer.
func (s *NotificationService) NotifyPickupBooked(ctx context.Context, pickup *domain.Pickup) error {
	notification := Notification{
		Type:        NotificationPickupBooked,
		RecipientID: pickup.CustomerID,
		Title:       "Pickup Booked",
		Message:     fmt.Sprintf("Your return pickup is booked. Quoted total: $%.2f", pickup.TotalPrice),
		Data: map[string]interface{}{
			"pickup_id":   pickup.ID,
			"total_price": pickup.TotalPrice,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPickupClaimed tells the customer a driver took the pickup.
func (s *NotificationService) NotifyPickupClaimed(ctx context.Context, pickup *domain.Pickup, driver *domain.Driver) error {
	notification := Notification{
		Type:        NotificationPickupClaimed,
		RecipientID: pickup.CustomerID,
		Title:       "Driver On The Way",
		Message:     fmt.Sprintf("%s will pick up your return", driver.Name),
		Data: map[string]interface{}{
			"pickup_id":   pickup.ID,
			"driver_id":   driver.ID,
			"driver_name": driver.Name,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPickupCompleted tells the customer the return was picked up.
func (s *NotificationService) NotifyPickupCompleted(ctx context.Context, pickup *domain.Pickup) error {
	notification := Notification{
		Type:        NotificationPickupCompleted,
		RecipientID: pickup.CustomerID,
		Title:       "Pickup Completed",
		Message:     fmt.Sprintf("Your return was picked up. Total charged: $%.2f", pickup.TotalPrice),
		Data: map[string]interface{}{
			"pickup_id":    pickup.ID,
			"completed_at": pickup.CompletedAt,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPickupCancelled notifies the affected parties of a cancellation.
func (s *NotificationService) NotifyPickupCancelled(ctx context.Context, pickup *domain.Pickup) error {
	recipientID := pickup.CustomerID
	if pickup.DriverID != "" {
		recipientID = pickup.DriverID
	}

	notification := Notification{
		Type:        NotificationPickupCancelled,
		RecipientID: recipientID,
		Title:       "Pickup Cancelled",
		Message:     "The pickup has been cancelled",
		Data: map[string]interface{}{
			"pickup_id": pickup.ID,
			"reason":    pickup.CancelReason,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPayoutSent tells the driver their earning was transferred.
func (s *NotificationService) NotifyPayoutSent(ctx context.Context, payout *domain.Payout) error {
	notification := Notification{
		Type:        NotificationPayoutSent,
		RecipientID: payout.DriverID,
		Title:       "Payout Sent",
		Message:     fmt.Sprintf("You earned $%.2f for this pickup", payout.Amount),
		Data: map[string]interface{}{
			"payout_id": payout.ID,
			"amount":    payout.Amount,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPayoutFailed tells the driver the transfer failed.
func (s *NotificationService) NotifyPayoutFailed(ctx context.Context, payout *domain.Payout) error {
	notification := Notification{
		Type:        NotificationPayoutFailed,
		RecipientID: payout.DriverID,
		Title:       "Payout Failed",
		Message:     fmt.Sprintf("Your payout of $%.2f failed and will be retried", payout.Amount),
		Data: map[string]interface{}{
			"payout_id": payout.ID,
			"amount":    payout.Amount,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyReceiptReady tells the customer their receipt is available.
func (s *NotificationService) NotifyReceiptReady(ctx context.Context, receipt *domain.Receipt) error {
	notification := Notification{
		Type:        NotificationReceiptReady,
		RecipientID: receipt.CustomerID,
		Title:       "Receipt Ready",
		Message:     fmt.Sprintf("Your receipt for $%.2f is ready", receipt.Breakdown.TotalPrice),
		Data: map[string]interface{}{
			"receipt_id": receipt.ID,
			"pickup_id":  receipt.PickupID,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}
