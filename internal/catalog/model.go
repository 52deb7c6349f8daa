package catalog

import "github.com/shopspring/decimal"

// MinPrice is the lowest price a product may be listed at.
var MinPrice = decimal.NewFromInt(50)

type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"productName"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stocks      int             `json:"stocks"`
	Image       string          `json:"image"` // URL the API serves the picture from
}

// Image is an uploaded product picture on its way to the API.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProductForm is what an admin submits when creating or editing a product.
type ProductForm struct {
	Name        string          `validate:"required"`
	Description string          `validate:"required"`
	Price       decimal.Decimal `validate:"decimalgte=50"`
	Stocks      int             `validate:"gt=0"`
	Image       *Image
}

// HasImage reports whether the form carries a non-empty upload.
func (f ProductForm) HasImage() bool {
	return f.Image != nil && len(f.Image.Data) > 0
}
