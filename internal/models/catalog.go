package models

// Product is the subset of a catalog product surfaced in assistant replies.
type Product struct {
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// OrderStats summarises the orders table.
type OrderStats struct {
	Total     int64 `json:"total"`
	Delivered int64 `json:"delivered"`
}
