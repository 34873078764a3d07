package entity

import (
	"time"

	"github.com/google/uuid"
)

// Place is the catalog record the chat pipeline retrieves and ranks.
type Place struct {
	Id          uuid.UUID
	Name        string
	Description string
	Address     string
	District    string
	Category    string
	Price       int
	Rating      float64
	ReviewCount int
	ImageURL    string
	AiTags      []string
	Latitude    *float64
	Longitude   *float64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
