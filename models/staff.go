package models

import "time"

const (
	RiderAvailable = "available"
	RiderBusy      = "busy"
	RiderOffline   = "offline"
)

type Rider struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Photo     string    `json:"photo,omitempty"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Chef struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Photo       string    `json:"photo,omitempty"`
	Specialties []string  `json:"specialties,omitempty"`
	Rating      float64   `json:"rating"`
	Bio         string    `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
