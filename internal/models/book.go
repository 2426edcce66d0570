package models

import (
	"time"

	"livraria/pkg/money"
)

// DefaultCoverImage is used when a book has no cover of its own.
const DefaultCoverImage = "static/img/default.jpg"

// Book represents a book in the catalog.
type Book struct {
	ID              string       `json:"id"`
	Title           string       `json:"title" validate:"required,max=255"`
	Price           money.Amount `json:"price"`
	Category        string       `json:"category" validate:"required,max=100"`
	Tags            []string     `json:"tags"`
	Authors         []string     `json:"authors" validate:"required,min=1,dive,required"`
	LatestEdition   bool         `json:"latest_edition"`
	PublicationDate *time.Time   `json:"publication_date,omitempty"`
	Publisher       string       `json:"publisher"`
	Description     string       `json:"description"`
	ISBN            string       `json:"isbn"`
	Stock           int          `json:"stock" validate:"gte=0"`
	CoverImage      string       `json:"cover_image"`
}

// ApplyDefaults fills optional fields that were left empty.
func (b *Book) ApplyDefaults() {
	if b.CoverImage == "" {
		b.CoverImage = DefaultCoverImage
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Authors == nil {
		b.Authors = []string{}
	}
}
