package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
)

type BookingInput struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Guests int    `json:"guests"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Notes  string `json:"notes"`
}

type BookingStatusInput struct {
	Status string `json:"status" binding:"required"`
}

type BookingService struct {
	bookings *database.Repository[models.TableBooking]
	hub      Broadcaster
	bridge   Notifier
	now      func() time.Time
}

func NewBookingService(store *database.Store, broadcaster Broadcaster, bridge Notifier) *BookingService {
	return &BookingService{
		bookings: database.NewRepository[models.TableBooking](store, database.CollectionTableBookings),
		hub:      broadcaster,
		bridge:   bridge,
		now:      time.Now,
	}
}

// Create stores a customer's reservation request.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (models.TableBooking, error) {
	v := &ValidationError{}
	requireField(v, "name", in.Name)
	requireField(v, "date", in.Date)
	requireField(v, "time", in.Time)
	if len(models.NormalizePhone(in.Phone)) < 7 {
		v.Add("phone", "phone must contain at least 7 digits")
	}
	if in.Guests < 1 || in.Guests > 20 {
		v.Add("guests", "guests must be between 1 and 20")
	}
	if err := v.OrNil(); err != nil {
		return models.TableBooking{}, err
	}

	now := s.now()
	created, err := s.bookings.Create(models.TableBooking{
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Guests:    in.Guests,
		Date:      strings.TrimSpace(in.Date),
		Time:      strings.TrimSpace(in.Time),
		Notes:     in.Notes,
		Status:    models.BookingPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return models.TableBooking{}, err
	}

	s.hub.BroadcastNewTableBooking(created)
	publish(ctx, s.bridge, RouteAdminTableBooking, BookingEvent{Booking: created})
	return created, nil
}

// List returns bookings newest first, optionally only those of one phone.
func (s *BookingService) List(phone string) ([]models.TableBooking, error) {
	all, err := s.bookings.All()
	if err != nil {
		return nil, err
	}
	want := models.NormalizePhone(phone)
	out := make([]models.TableBooking, 0, len(all))
	for _, b := range all {
		if want != "" && models.NormalizePhone(b.Phone) != want {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, id string, in BookingStatusInput) (models.TableBooking, error) {
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if !oneOf(status, models.BookingPending, models.BookingConfirmed, models.BookingCancelled) {
		return models.TableBooking{}, fieldError("status", "status must be pending, confirmed or cancelled")
	}

	updated, err := s.bookings.Update(id, database.Record{
		"status":    status,
		"updatedAt": s.now(),
	})
	if err != nil {
		return models.TableBooking{}, err
	}

	s.hub.BroadcastTableBookingUpdated(updated)
	publish(ctx, s.bridge, RouteTableBookingUpdate, BookingEvent{Booking: updated})
	return updated, nil
}
