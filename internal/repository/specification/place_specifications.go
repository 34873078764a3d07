package specification

import (
	"gorm.io/gorm"
)

// TextSearch matches the keyword case-insensitively against a place's
// name, description and address.
type TextSearch struct {
	Query string
}

func (s TextSearch) Apply(db *gorm.DB) *gorm.DB {
	like := "%" + s.Query + "%"
	return db.Where("name ILIKE ? OR description ILIKE ? OR address ILIKE ?", like, like, like)
}

// AddressRegex matches the address against a POSIX regex, case-insensitive.
// Used by the street-address retrieval strategy ("67 văn cao").
type AddressRegex struct {
	Pattern string
}

func (s AddressRegex) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("address ~* ?", s.Pattern)
}

// ByDistrict filters to an exact district value.
type ByDistrict struct {
	District string
}

func (s ByDistrict) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("district = ?", s.District)
}

// ByCategory filters to an exact category value.
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// MinPrice keeps places at or above a price floor.
type MinPrice struct {
	Price int
}

func (s MinPrice) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price >= ?", s.Price)
}

// TagsContainAny matches places whose aiTags JSON array holds at least
// one of the given tags.
type TagsContainAny struct {
	Tags []string
}

func (s TagsContainAny) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Tags) == 0 {
		return db
	}
	// jsonb_exists_any instead of the ?| operator, whose question mark
	// collides with gorm placeholders.
	return db.Where("jsonb_exists_any(ai_tags, ?::text[])", s.Tags)
}

// HasCoordinates keeps places that can be distance-sorted.
type HasCoordinates struct{}

func (s HasCoordinates) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("latitude IS NOT NULL AND longitude IS NOT NULL")
}
