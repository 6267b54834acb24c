package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field names one editable draft field.
type Field int

const (
	FieldName Field = iota
	FieldPrice
	FieldDescription
	FieldCategory
)

// Fields lists draft fields in form order.
var Fields = []Field{FieldName, FieldPrice, FieldDescription, FieldCategory}

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldPrice:
		return "price"
	case FieldDescription:
		return "description"
	case FieldCategory:
		return "category"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Draft is the unvalidated, text-only form representation of a product.
type Draft struct {
	Name        string
	Price       string
	Description string
	Category    string
}

// NewDraft returns a blank draft with the default category selected.
func NewDraft() Draft {
	return Draft{Category: string(DefaultCategory)}
}

// DraftFromProduct copies p's editable fields into a draft.
func DraftFromProduct(p Product) Draft {
	return Draft{
		Name:        p.Name,
		Price:       FormatPriceInput(p.Price),
		Description: p.Description,
		Category:    string(p.Category),
	}
}

// FormatPriceInput renders price as the shortest decimal text that parses
// back to the same value.
func FormatPriceInput(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// Get returns the current text of field f.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldPrice:
		return d.Price
	case FieldDescription:
		return d.Description
	case FieldCategory:
		return d.Category
	default:
		return ""
	}
}

// Set replaces the text of field f.
func (d *Draft) Set(f Field, value string) error {
	switch f {
	case FieldName:
		d.Name = value
	case FieldPrice:
		d.Price = value
	case FieldDescription:
		d.Description = value
	case FieldCategory:
		d.Category = value
	default:
		return fmt.Errorf("unknown draft field %v", f)
	}
	return nil
}

// Validate converts the draft into a request body, or returns the first
// *ValidationError found in form order.
func (d Draft) Validate() (ProductInput, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return ProductInput{}, &ValidationError{Field: FieldName, Message: "Product name is required"}
	}

	rawPrice := strings.TrimSpace(d.Price)
	if rawPrice == "" {
		return ProductInput{}, &ValidationError{Field: FieldPrice, Message: "Price is required"}
	}
	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return ProductInput{}, &ValidationError{Field: FieldPrice, Message: fmt.Sprintf("Price %q is not a number", rawPrice)}
	}
	if price < 0 {
		return ProductInput{}, &ValidationError{Field: FieldPrice, Message: "Price must not be negative"}
	}

	description := strings.TrimSpace(d.Description)
	if description == "" {
		return ProductInput{}, &ValidationError{Field: FieldDescription, Message: "Description is required"}
	}

	category, ok := ParseCategory(d.Category)
	if !ok {
		return ProductInput{}, &ValidationError{Field: FieldCategory, Message: fmt.Sprintf("Unknown category %q", d.Category)}
	}

	return ProductInput{
		Name:        name,
		Price:       price,
		Description: description,
		Category:    category,
	}, nil
}
