package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Place struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string         `gorm:"type:varchar(255);not null;index"`
	Description string         `gorm:"type:text"`
	Address     string         `gorm:"type:varchar(500)"`
	District    string         `gorm:"type:varchar(100);index"`
	Category    string         `gorm:"type:varchar(100);index"`
	Price       int            `gorm:"default:0"`
	Rating      float64        `gorm:"default:0"`
	ReviewCount int            `gorm:"default:0"`
	ImageURL    string         `gorm:"type:varchar(500)"`
	AiTags      datatypes.JSON `gorm:"type:jsonb"`
	Latitude    *float64       `gorm:"type:double precision"`
	Longitude   *float64       `gorm:"type:double precision"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Place) TableName() string {
	return "places"
}
