package catalog

import (
	"encoding/json"
	"strings"
	"time"
)

// Category is one of the fixed product categories.
type Category string

const (
	CategoryGeneral     Category = "General"
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryFood        Category = "Food"
	CategoryBooks       Category = "Books"
)

// DefaultCategory is preselected for new drafts.
const DefaultCategory = CategoryGeneral

var categories = []Category{
	CategoryGeneral,
	CategoryElectronics,
	CategoryClothing,
	CategoryFood,
	CategoryBooks,
}

// Categories returns the allowed categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory matches value against the allowed set, ignoring case and
// surrounding whitespace.
func ParseCategory(value string) (Category, bool) {
	for _, c := range categories {
		if strings.EqualFold(string(c), strings.TrimSpace(value)) {
			return c, true
		}
	}
	return "", false
}

// NextCategory returns the category after c in display order, wrapping around.
// Unknown categories restart at the first entry.
func NextCategory(c Category, step int) Category {
	n := len(categories)
	for i, candidate := range categories {
		if candidate == c {
			return categories[((i+step)%n+n)%n]
		}
	}
	return categories[0]
}

// Product mirrors a product record as served by the API.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	CreatedAt   string   `json:"createdAt"`
}

// UnmarshalJSON accepts both "id" and the document-store style "_id" key.
func (p *Product) UnmarshalJSON(data []byte) error {
	type wire Product
	var raw struct {
		wire
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Product(raw.wire)
	if p.ID == "" {
		p.ID = raw.LegacyID
	}
	return nil
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp, or the zero time.
func (p Product) ParsedCreatedAt() time.Time {
	return parseTime(p.CreatedAt)
}

// ProductInput is the request body for create and update.
type ProductInput struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// ProductListResponse is the optional envelope form of the list endpoint.
type ProductListResponse struct {
	Items []Product `json:"items"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
