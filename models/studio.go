package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WashCategory string

const (
	WashStandard WashCategory = "standard"
	WashExpress  WashCategory = "express"
	WashBoth     WashCategory = "both"
)

type PaymentSchedule string

const (
	PaymentDaily  PaymentSchedule = "daily"
	PaymentWeekly PaymentSchedule = "weekly"
)

type Studio struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	// Basic information
	Name            string `gorm:"not null" json:"name"`
	OwnerName       string `gorm:"not null" json:"ownerName"`
	OwnerLastName   string `json:"ownerLastName"`
	ContactNumber   string `gorm:"not null" json:"contactNumber"`
	SecondaryNumber string `json:"secondaryNumber"`
	Email           string `json:"email"`

	// Address
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`

	// Operations
	NumberOfEmployees int          `gorm:"default:0" json:"numberOfEmployees"`
	DailyCapacity     int          `gorm:"default:0" json:"dailyCapacity"` // in kg
	SpecialEquipment  string       `json:"specialEquipment"`
	WashCategory      WashCategory `gorm:"type:varchar(20);default:'both'" json:"washCategory"`

	// Business
	BusinessRegistrationNumber string `json:"businessRegistrationNumber"`
	GSTNumber                  string `json:"gstNumber"`
	PANNumber                  string `json:"panNumber"`
	OpeningTime                string `json:"openingTime"`
	ClosingTime                string `json:"closingTime"`
	PriceAdjustmentPercentage  int    `gorm:"default:0" json:"priceAdjustmentPercentage"`

	// Payment
	AccountNumber     string          `json:"accountNumber"`
	AccountHolderName string          `json:"accountHolderName"`
	BankName          string          `json:"bankName"`
	IFSCCode          string          `json:"ifscCode"`
	BranchName        string          `json:"branchName"`
	UPIID             string          `json:"upiId"`
	PaymentSchedule   PaymentSchedule `gorm:"type:varchar(20);default:'daily'" json:"paymentSchedule"`

	CreatedAt time.Time `json:"createdAt"`
}

func (s *Studio) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
