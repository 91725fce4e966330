package models

// Gender values accepted by the catalog.
const (
	GenderMen    = "Men"
	GenderWomen  = "Women"
	GenderBaby   = "Baby"
	GenderAnyone = "Anyone"
)

// ValidGender reports whether g is one of the accepted gender values.
func ValidGender(g string) bool {
	switch g {
	case GenderMen, GenderWomen, GenderBaby, GenderAnyone:
		return true
	}
	return false
}

// Product is a catalog item as the gateway stores it. Price and stock
// travel as strings on the wire.
type Product struct {
	ID          string   `json:"_id,omitempty"`
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Price       string   `json:"price" validate:"required,numeric"`
	Stock       string   `json:"stock" validate:"required,numeric"`
	Description string   `json:"description"`
	Gender      string   `json:"gender" validate:"required"`
	Tags        []string `json:"tags"`
	Colors      []string `json:"colors"`
	Images      []string `json:"image" validate:"required,min=2,max=4"`
}

// ImageLimits for a publishable product.
const (
	MinImages = 2
	MaxImages = 4
)
