package database

import (
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/models"
)

// seedTime is fixed so both services seed byte-identical menus.
var seedTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func DefaultMenu() []models.MenuItem {
	items := []models.MenuItem{
		{ID: "menu-001", Name: "Paneer Tikka", Type: models.MenuTypeVeg, Category: "Starters", Price: 249, Badge: "Bestseller", Image: "/images/menu/paneer-tikka.jpg", PrepTime: "15 mins", DeliveryTime: "30 mins", Description: "Cottage cheese cubes marinated in spiced yoghurt and grilled in the tandoor."},
		{ID: "menu-002", Name: "Chicken Seekh Kebab", Type: models.MenuTypeNonVeg, Category: "Starters", Price: 299, Image: "/images/menu/seekh-kebab.jpg", PrepTime: "20 mins", DeliveryTime: "35 mins", Description: "Minced chicken skewers with herbs, cooked over charcoal."},
		{ID: "menu-003", Name: "Grilled Veg Burger", Type: models.MenuTypeVeg, Category: "Burgers", Price: 179, Image: "/images/menu/veg-burger.jpg", PrepTime: "10 mins", DeliveryTime: "25 mins", Description: "Char-grilled vegetable patty, cheddar and smoky mayo."},
		{ID: "menu-004", Name: "BBQ Chicken Burger", Type: models.MenuTypeNonVeg, Category: "Burgers", Price: 229, Badge: "Chef's Special", Image: "/images/menu/bbq-burger.jpg", PrepTime: "12 mins", DeliveryTime: "25 mins", Description: "Grilled chicken thigh glazed with house barbecue sauce."},
		{ID: "menu-005", Name: "Butter Chicken", Type: models.MenuTypeNonVeg, Category: "Main Course", Price: 349, Badge: "Bestseller", Image: "/images/menu/butter-chicken.jpg", PrepTime: "25 mins", DeliveryTime: "40 mins", Description: "Tandoori chicken simmered in a tomato and butter gravy."},
		{ID: "menu-006", Name: "Dal Makhani", Type: models.MenuTypeVeg, Category: "Main Course", Price: 229, Image: "/images/menu/dal-makhani.jpg", PrepTime: "20 mins", DeliveryTime: "35 mins", Description: "Black lentils slow-cooked overnight with cream."},
		{ID: "menu-007", Name: "Garlic Naan", Type: models.MenuTypeVeg, Category: "Breads", Price: 59, Image: "/images/menu/garlic-naan.jpg", PrepTime: "5 mins", DeliveryTime: "20 mins", Description: "Leavened bread with garlic butter."},
		{ID: "menu-008", Name: "Gulab Jamun", Type: models.MenuTypeVeg, Category: "Desserts", Price: 99, Image: "/images/menu/gulab-jamun.jpg", PrepTime: "5 mins", DeliveryTime: "20 mins", Description: "Milk dumplings soaked in cardamom syrup."},
	}
	for i := range items {
		items[i].CreatedAt = seedTime
		items[i].UpdatedAt = seedTime
	}
	return items
}

// DefaultMenuSeed is the store option installing DefaultMenu.
func DefaultMenuSeed() Option {
	menu := DefaultMenu()
	records := make([]Record, 0, len(menu))
	for _, item := range menu {
		rec, err := ToRecord(item)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return WithSeed(CollectionMenuItems, records)
}
