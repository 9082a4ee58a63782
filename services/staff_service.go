package services

import (
	"context"
	"strings"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/hub"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
)

type RiderInput struct {
	Name   *string  `json:"name"`
	Phone  *string  `json:"phone"`
	Photo  *string  `json:"photo"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	Status *string  `json:"status"`
}

type LocationInput struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

type ChefInput struct {
	Name        *string   `json:"name"`
	Photo       *string   `json:"photo"`
	Specialties *[]string `json:"specialties"`
	Rating      *float64  `json:"rating"`
	Bio         *string   `json:"bio"`
}

// StaffService manages riders and chefs. Every admin-side change is pushed
// to local clients and mirrored to the peer.
type StaffService struct {
	riders *database.Repository[models.Rider]
	chefs  *database.Repository[models.Chef]
	hub    Broadcaster
	bridge Notifier
	now    func() time.Time
}

func NewStaffService(store *database.Store, broadcaster Broadcaster, bridge Notifier) *StaffService {
	return &StaffService{
		riders: database.NewRepository[models.Rider](store, database.CollectionRiders),
		chefs:  database.NewRepository[models.Chef](store, database.CollectionChefs),
		hub:    broadcaster,
		bridge: bridge,
		now:    time.Now,
	}
}

func (s *StaffService) Riders() ([]models.Rider, error) { return s.riders.All() }

func (s *StaffService) Rider(id string) (models.Rider, error) { return s.riders.Get(id) }

func (s *StaffService) CreateRider(ctx context.Context, in RiderInput) (models.Rider, error) {
	now := s.now()
	rider := models.Rider{Status: models.RiderAvailable, CreatedAt: now, UpdatedAt: now}
	in.applyTo(&rider)
	if err := validateRider(rider); err != nil {
		return models.Rider{}, err
	}
	created, err := s.riders.Create(rider)
	if err != nil {
		return models.Rider{}, err
	}
	s.riderSaved(ctx, hub.ActionAdded, created)
	return created, nil
}

func (s *StaffService) UpdateRider(ctx context.Context, id string, in RiderInput) (models.Rider, error) {
	rider, err := s.riders.Get(id)
	if err != nil {
		return models.Rider{}, err
	}
	in.applyTo(&rider)
	rider.UpdatedAt = s.now()
	if err := validateRider(rider); err != nil {
		return models.Rider{}, err
	}
	updated, err := s.riders.Put(rider)
	if err != nil {
		return models.Rider{}, err
	}
	s.riderSaved(ctx, hub.ActionUpdated, updated)
	return updated, nil
}

// UpdateRiderLocation patches only the coordinates.
func (s *StaffService) UpdateRiderLocation(ctx context.Context, id string, in LocationInput) (models.Rider, error) {
	v := &ValidationError{}
	if in.Lat == nil || *in.Lat < -90 || *in.Lat > 90 {
		v.Add("lat", "lat must be between -90 and 90")
	}
	if in.Lng == nil || *in.Lng < -180 || *in.Lng > 180 {
		v.Add("lng", "lng must be between -180 and 180")
	}
	if err := v.OrNil(); err != nil {
		return models.Rider{}, err
	}

	updated, err := s.riders.Update(id, database.Record{
		"lat":       *in.Lat,
		"lng":       *in.Lng,
		"updatedAt": s.now(),
	})
	if err != nil {
		return models.Rider{}, err
	}
	s.riderSaved(ctx, hub.ActionUpdated, updated)
	return updated, nil
}

func (s *StaffService) DeleteRider(ctx context.Context, id string) error {
	if err := s.riders.Delete(id); err != nil {
		return err
	}
	s.hub.BroadcastRiderUpdated(hub.ActionDeleted, nil, id)
	publish(ctx, s.bridge, RouteStaffUpdate, StaffEvent{Action: StaffRiderDeleted, ItemID: id})
	return nil
}

func (s *StaffService) riderSaved(ctx context.Context, action string, rider models.Rider) {
	s.hub.BroadcastRiderUpdated(action, &rider, rider.ID)
	publish(ctx, s.bridge, RouteStaffUpdate, StaffEvent{Action: StaffRiderSaved, Rider: &rider, ItemID: rider.ID})
}

func (s *StaffService) Chefs() ([]models.Chef, error) { return s.chefs.All() }

func (s *StaffService) Chef(id string) (models.Chef, error) { return s.chefs.Get(id) }

func (s *StaffService) CreateChef(ctx context.Context, in ChefInput) (models.Chef, error) {
	now := s.now()
	chef := models.Chef{CreatedAt: now, UpdatedAt: now}
	in.applyTo(&chef)
	if err := validateChef(chef); err != nil {
		return models.Chef{}, err
	}
	created, err := s.chefs.Create(chef)
	if err != nil {
		return models.Chef{}, err
	}
	s.chefSaved(ctx, hub.ActionAdded, created)
	return created, nil
}

func (s *StaffService) UpdateChef(ctx context.Context, id string, in ChefInput) (models.Chef, error) {
	chef, err := s.chefs.Get(id)
	if err != nil {
		return models.Chef{}, err
	}
	in.applyTo(&chef)
	chef.UpdatedAt = s.now()
	if err := validateChef(chef); err != nil {
		return models.Chef{}, err
	}
	updated, err := s.chefs.Put(chef)
	if err != nil {
		return models.Chef{}, err
	}
	s.chefSaved(ctx, hub.ActionUpdated, updated)
	return updated, nil
}

func (s *StaffService) DeleteChef(ctx context.Context, id string) error {
	if err := s.chefs.Delete(id); err != nil {
		return err
	}
	s.hub.BroadcastChefUpdated(hub.ActionDeleted, nil, id)
	publish(ctx, s.bridge, RouteStaffUpdate, StaffEvent{Action: StaffChefDeleted, ItemID: id})
	return nil
}

func (s *StaffService) chefSaved(ctx context.Context, action string, chef models.Chef) {
	s.hub.BroadcastChefUpdated(action, &chef, chef.ID)
	publish(ctx, s.bridge, RouteStaffUpdate, StaffEvent{Action: StaffChefSaved, Chef: &chef, ItemID: chef.ID})
}

func (in RiderInput) applyTo(r *models.Rider) {
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		r.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Photo != nil {
		r.Photo = models.NormalizeImage(*in.Photo)
	}
	if in.Lat != nil {
		r.Lat = *in.Lat
	}
	if in.Lng != nil {
		r.Lng = *in.Lng
	}
	if in.Status != nil {
		r.Status = strings.ToLower(strings.TrimSpace(*in.Status))
	}
}

func (in ChefInput) applyTo(c *models.Chef) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Photo != nil {
		c.Photo = models.NormalizeImage(*in.Photo)
	}
	if in.Specialties != nil {
		c.Specialties = append([]string(nil), (*in.Specialties)...)
	}
	if in.Rating != nil {
		c.Rating = *in.Rating
	}
	if in.Bio != nil {
		c.Bio = *in.Bio
	}
}

func validateRider(r models.Rider) error {
	v := &ValidationError{}
	requireField(v, "name", r.Name)
	requireField(v, "phone", r.Phone)
	if !oneOf(r.Status, models.RiderAvailable, models.RiderBusy, models.RiderOffline) {
		v.Add("status", "status must be available, busy or offline")
	}
	return v.OrNil()
}

func validateChef(c models.Chef) error {
	v := &ValidationError{}
	requireField(v, "name", c.Name)
	if c.Rating < 0 || c.Rating > 5 {
		v.Add("rating", "rating must be between 0 and 5")
	}
	return v.OrNil()
}
