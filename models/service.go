package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceUnit is how a subservice's base price is charged.
type PriceUnit string

const (
	PriceUnitUnset   PriceUnit = ""
	PriceUnitPerItem PriceUnit = "per item"
	PriceUnitPerKg   PriceUnit = "per kg"
)

// Valid reports whether u is a known unit. The unset unit is valid.
func (u PriceUnit) Valid() bool {
	switch u {
	case PriceUnitUnset, PriceUnitPerItem, PriceUnitPerKg:
		return true
	}
	return false
}

type Service struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudioID *uuid.UUID `gorm:"type:uuid;index" json:"studioId"` // nil for shared catalog services
	Name     string     `gorm:"not null" json:"name"`
	Enabled  bool       `gorm:"not null" json:"enabled"`

	Subservices []Subservice `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"subservices"`
}

type Subservice struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"serviceId"`
	Name      string    `gorm:"not null" json:"name"`
	BasePrice float64   `gorm:"type:decimal(10,2);default:0.0" json:"basePrice"`
	PriceUnit PriceUnit `gorm:"type:varchar(20)" json:"priceUnit"`
	Enabled   bool      `gorm:"not null" json:"enabled"`

	Items []ClothingItem `gorm:"foreignKey:SubserviceID;constraint:OnDelete:CASCADE" json:"items"`
}

type ClothingItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SubserviceID  uuid.UUID `gorm:"type:uuid;index;not null" json:"subserviceId"`
	Name          string    `gorm:"not null" json:"name"`
	StandardPrice float64   `gorm:"type:decimal(10,2);default:0.0" json:"standardPrice"`
	ExpressPrice  float64   `gorm:"type:decimal(10,2);default:0.0" json:"expressPrice"`
}

// Initialize UUIDs before creating
func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

func (s *Subservice) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

func (i *ClothingItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// Clone returns a deep copy of the service and everything it owns.
func (s Service) Clone() Service {
	out := s
	if s.StudioID != nil {
		id := *s.StudioID
		out.StudioID = &id
	}
	out.Subservices = make([]Subservice, len(s.Subservices))
	for i, sub := range s.Subservices {
		out.Subservices[i] = sub.Clone()
	}
	return out
}

func (s Subservice) Clone() Subservice {
	out := s
	out.Items = append([]ClothingItem(nil), s.Items...)
	if out.Items == nil {
		out.Items = []ClothingItem{}
	}
	return out
}
