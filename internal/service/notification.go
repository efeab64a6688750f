package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ambulance/internal/domain"
)

// NotificationType represents the type of notification. It doubles as the routing key.
type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "booking.created"
	NotificationBookingCancelled NotificationType = "booking.cancelled"
	NotificationBookingStatus    NotificationType = "booking.status"
	NotificationBookingReviewed  NotificationType = "booking.reviewed"
	NotificationPrimaryContact   NotificationType = "contact.primary"
	NotificationEquipmentFault   NotificationType = "vehicle.equipment_fault"
)

// Notification represents an event to be delivered.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	RecipientID string           `json:"recipientId,omitempty"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Data        map[string]any   `json:"data,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Publisher delivers a JSON payload under a routing key.
type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, payload any) error
}

// NotificationService turns domain changes into events. Delivery to devices is
// downstream of the broker.
type NotificationService struct {
	publisher Publisher
	log       *zap.Logger
}

// NewNotificationService creates a new NotificationService. With a nil
// publisher, notifications are only logged.
func NewNotificationService(publisher Publisher, log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{publisher: publisher, log: log}
}

// NotifyBookingCreated tells dispatch a new request is waiting.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, b *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingCreated,
		RecipientID: b.RequesterID,
		Title:       "Ambulance Requested",
		Message:     fmt.Sprintf("Your %s ambulance request from %s has been received", b.AmbulanceType, b.Pickup),
		Data: map[string]any{
			"booking_id":   b.ID,
			"pickup":       b.Pickup,
			"dropoff":      b.Dropoff,
			"scheduled_at": b.ScheduledAt,
		},
	})
}

// NotifyBookingCancelled notifies the other party about a cancellation.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, b *domain.Booking, cancelledBy string) error {
	recipientID := b.DriverID
	message := "The patient has cancelled the booking"
	if cancelledBy != b.RequesterID {
		recipientID = b.RequesterID
		message = "Your booking has been cancelled"
	}

	if recipientID == "" {
		return nil // No one to notify
	}

	return s.send(ctx, Notification{
		Type:        NotificationBookingCancelled,
		RecipientID: recipientID,
		Title:       "Booking Cancelled",
		Message:     message,
		Data: map[string]any{
			"booking_id":   b.ID,
			"cancelled_by": cancelledBy,
			"reason":       b.CancellationReason,
		},
	})
}

// NotifyBookingStatus tells the requester their booking moved.
func (s *NotificationService) NotifyBookingStatus(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error {
	var title, message string
	switch b.Status {
	case domain.BookingStatusUpcoming:
		title, message = "Ambulance Assigned", "A driver has accepted your booking"
	case domain.BookingStatusActive:
		title, message = "Ambulance On The Way", "Your ambulance trip has started"
	case domain.BookingStatusCompleted:
		title, message = "Trip Completed", "Your trip is complete. Please rate your experience"
	default:
		title, message = "Booking Updated", fmt.Sprintf("Your booking is now %s", b.Status)
	}

	return s.send(ctx, Notification{
		Type:        NotificationBookingStatus,
		RecipientID: b.RequesterID,
		Title:       title,
		Message:     message,
		Data: map[string]any{
			"booking_id": b.ID,
			"from":       from,
			"to":         b.Status,
			"driver_id":  b.DriverID,
		},
	})
}

// NotifyBookingReviewed tells the driver about a new or edited review.
func (s *NotificationService) NotifyBookingReviewed(ctx context.Context, b *domain.Booking) error {
	if b.DriverID == "" || b.Rating == nil {
		return nil
	}
	return s.send(ctx, Notification{
		Type:        NotificationBookingReviewed,
		RecipientID: b.DriverID,
		Title:       "New Review",
		Message:     fmt.Sprintf("A patient rated a trip %d/5", *b.Rating),
		Data: map[string]any{
			"booking_id": b.ID,
			"rating":     *b.Rating,
		},
	})
}

// NotifyPrimaryContactChanged records which contact is notified first.
func (s *NotificationService) NotifyPrimaryContactChanged(ctx context.Context, ownerID string, c *domain.EmergencyContact) error {
	return s.send(ctx, Notification{
		Type:        NotificationPrimaryContact,
		RecipientID: ownerID,
		Title:       "Primary Contact Updated",
		Message:     fmt.Sprintf("%s is now your primary emergency contact", c.Name),
		Data: map[string]any{
			"contact_id": c.ID,
		},
	})
}

// NotifyEquipmentFault alerts fleet administrators.
func (s *NotificationService) NotifyEquipmentFault(ctx context.Context, v *domain.Vehicle, faulty []string) error {
	return s.send(ctx, Notification{
		Type:    NotificationEquipmentFault,
		Title:   "Equipment Fault Reported",
		Message: fmt.Sprintf("Vehicle %s reports %d faulty item(s)", v.Registration, len(faulty)),
		Data: map[string]any{
			"vehicle_id": v.ID,
			"driver_id":  v.DriverID,
			"faulty":     faulty,
		},
	})
}

func (s *NotificationService) send(ctx context.Context, n Notification) error {
	n.ID = uuid.New().String()
	n.CreatedAt = time.Now()

	if s.publisher == nil {
		s.log.Info("notification",
			zap.String("type", string(n.Type)),
			zap.String("recipient", n.RecipientID),
			zap.String("title", n.Title),
			zap.String("message", n.Message),
		)
		return nil
	}

	if err := s.publisher.PublishJSON(ctx, string(n.Type), n); err != nil {
		s.log.Warn("failed to publish notification", zap.String("type", string(n.Type)), zap.Error(err))
		return err
	}
	return nil
}
