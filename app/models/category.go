package models

// Category groups products. Image is the display URL returned by the
// image host.
type Category struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"required,url"`
}
