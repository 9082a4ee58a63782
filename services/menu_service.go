package services

import (
	"context"
	"strings"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/hub"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"golang.org/x/text/cases"
)

// MenuItemInput is both the create and the patch body; nil fields are left
// untouched on update.
type MenuItemInput struct {
	Name         *string  `json:"name"`
	Type         *string  `json:"type"`
	Category     *string  `json:"category"`
	Price        *float64 `json:"price"`
	Badge        *string  `json:"badge"`
	Image        *string  `json:"image"`
	PrepTime     *string  `json:"prepTime"`
	DeliveryTime *string  `json:"deliveryTime"`
	Description  *string  `json:"description"`
}

type MenuService struct {
	items  *database.Repository[models.MenuItem]
	hub    Broadcaster
	bridge Notifier
	now    func() time.Time
}

func NewMenuService(store *database.Store, broadcaster Broadcaster, bridge Notifier) *MenuService {
	return &MenuService{
		items:  database.NewRepository[models.MenuItem](store, database.CollectionMenuItems),
		hub:    broadcaster,
		bridge: bridge,
		now:    time.Now,
	}
}

func (s *MenuService) List() ([]models.MenuItem, error) {
	return s.items.All()
}

func (s *MenuService) Get(id string) (models.MenuItem, error) {
	return s.items.Get(id)
}

// ByCategory matches categories case-insensitively with Unicode folding.
func (s *MenuService) ByCategory(category string) ([]models.MenuItem, error) {
	all, err := s.items.All()
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(category))

	out := make([]models.MenuItem, 0)
	for _, item := range all {
		if fold.String(strings.TrimSpace(item.Category)) == want {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *MenuService) Create(ctx context.Context, in MenuItemInput) (models.MenuItem, error) {
	now := s.now()
	item := models.MenuItem{CreatedAt: now, UpdatedAt: now}
	in.applyTo(&item)
	if err := validateMenuItem(item); err != nil {
		return models.MenuItem{}, err
	}

	created, err := s.items.Create(item)
	if err != nil {
		return models.MenuItem{}, err
	}

	s.hub.BroadcastMenuUpdated(hub.ActionAdded, &created, created.ID)
	publish(ctx, s.bridge, RouteMenuUpdate, MenuEvent{Action: hub.ActionAdded, Item: &created, ItemID: created.ID})
	return created, nil
}

func (s *MenuService) Update(ctx context.Context, id string, in MenuItemInput) (models.MenuItem, error) {
	updated, err := s.items.Modify(id, func(item *models.MenuItem) error {
		in.applyTo(item)
		item.UpdatedAt = s.now()
		return validateMenuItem(*item)
	})
	if err != nil {
		return models.MenuItem{}, err
	}

	s.hub.BroadcastMenuUpdated(hub.ActionUpdated, &updated, updated.ID)
	publish(ctx, s.bridge, RouteMenuUpdate, MenuEvent{Action: hub.ActionUpdated, Item: &updated, ItemID: updated.ID})
	return updated, nil
}

func (s *MenuService) Delete(ctx context.Context, id string) error {
	if err := s.items.Delete(id); err != nil {
		return err
	}
	s.hub.BroadcastMenuUpdated(hub.ActionDeleted, nil, id)
	publish(ctx, s.bridge, RouteMenuUpdate, MenuEvent{Action: hub.ActionDeleted, ItemID: id})
	return nil
}

func (in MenuItemInput) applyTo(item *models.MenuItem) {
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		item.Type = strings.ToLower(strings.TrimSpace(*in.Type))
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Badge != nil {
		item.Badge = *in.Badge
	}
	if in.Image != nil {
		item.Image = models.NormalizeImage(*in.Image)
	}
	if in.PrepTime != nil {
		item.PrepTime = *in.PrepTime
	}
	if in.DeliveryTime != nil {
		item.DeliveryTime = *in.DeliveryTime
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
}

func validateMenuItem(item models.MenuItem) error {
	v := &ValidationError{}
	requireField(v, "name", item.Name)
	requireField(v, "category", item.Category)
	if !oneOf(item.Type, models.MenuTypeVeg, models.MenuTypeNonVeg) {
		v.Add("type", "type must be veg or non-veg")
	}
	if item.Price <= 0 {
		v.Add("price", "price must be greater than 0")
	}
	return v.OrNil()
}
