package models

// PriceUnavailable is stored when an item has no price text.
const PriceUnavailable = "N/A"

// Product is one catalog entry. Field order is the JSON field order.
type Product struct {
	Title string `json:"title"`
	Price string `json:"price"`
	Link  string `json:"link"`
}
