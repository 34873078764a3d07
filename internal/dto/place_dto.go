package dto

import "github.com/google/uuid"

type CreatePlaceRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Description string   `json:"description"`
	Address     string   `json:"address" validate:"required"`
	District    string   `json:"district"`
	Category    string   `json:"category" validate:"required"`
	Price       int      `json:"price" validate:"gte=0"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int      `json:"reviewCount" validate:"gte=0"`
	ImageURL    string   `json:"imageUrl"`
	AiTags      []string `json:"aiTags"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type UpdatePlaceRequest struct {
	Id uuid.UUID `json:"-"`
	CreatePlaceRequest
}

type PlaceDetailResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	District    string    `json:"district"`
	Category    string    `json:"category"`
	Price       int       `json:"price"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
	ImageURL    string    `json:"imageUrl"`
	AiTags      []string  `json:"aiTags"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
}

// PublishEmbedPlaceMessage is the watermill payload that asks the
// ingestion consumer to (re)embed one place.
type PublishEmbedPlaceMessage struct {
	PlaceId uuid.UUID `json:"placeId"`
}
