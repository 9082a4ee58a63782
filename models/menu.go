package models

import (
	"path"
	"strings"
	"time"
)

const (
	MenuTypeVeg    = "veg"
	MenuTypeNonVeg = "non-veg"
)

type MenuItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	Badge        string    `json:"badge,omitempty"`
	Image        string    `json:"image,omitempty"`
	PrepTime     string    `json:"prepTime,omitempty"`
	DeliveryTime string    `json:"deliveryTime,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (m MenuItem) Key() string { return m.ID }

// NormalizeImage returns the canonical stored form of an image reference.
// Absolute URLs and inline data images are kept verbatim; anything else is
// treated as a relative path and rooted at "/".
func NormalizeImage(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "data:image/") {
		return ref
	}

	p := strings.ReplaceAll(ref, `\`, "/")
	p = path.Clean("/" + p)
	switch {
	case p == "/public":
		return "/"
	case strings.HasPrefix(p, "/public/"):
		return p[len("/public"):]
	}
	return p
}
