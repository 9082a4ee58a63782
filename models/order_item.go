package models

// LineItem is one priced entry of an order. Name and price are captured at
// order time and never follow later menu edits.
type LineItem struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

func (li LineItem) Amount() float64 {
	return li.Price * float64(li.Quantity)
}
