package store

import (
	"context"
	"errors"
	"fmt"

	"laundrypro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalog is the Postgres-backed catalog.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Studio{},
		&models.Service{},
		&models.Subservice{},
		&models.ClothingItem{},
	)
}

// SeedIfEmpty inserts seed when the services table has no rows.
func (c *GormCatalog) SeedIfEmpty(ctx context.Context, seed []models.Service) error {
	var count int64
	if err := c.db.WithContext(ctx).Model(&models.Service{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting services: %w", err)
	}
	if count > 0 || len(seed) == 0 {
		return nil
	}
	services := make([]models.Service, len(seed))
	for i, s := range seed {
		services[i] = s.Clone()
	}
	if err := c.db.WithContext(ctx).Create(&services).Error; err != nil {
		return fmt.Errorf("seeding services: %w", err)
	}
	return nil
}

func (c *GormCatalog) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := c.db.WithContext(ctx).
		Preload("Subservices", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Preload("Subservices.Items", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Order("name").
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	return services, nil
}

func (c *GormCatalog) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	err := c.db.WithContext(ctx).
		Preload("Subservices.Items").
		First(&service, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("getting service %s: %w", id, ErrServiceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting service %s: %w", id, err)
	}
	return &service, nil
}

func (c *GormCatalog) CreateServiceWithSubservices(ctx context.Context, studioID *uuid.UUID, name string, subservices []models.SubserviceDraft) (*models.Service, error) {
	service := serviceFromDrafts(studioID, name, subservices)
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&service).Error
	})
	if err != nil {
		return nil, fmt.Errorf("creating service %q: %w", name, err)
	}
	return &service, nil
}

func (c *GormCatalog) AddItem(ctx context.Context, serviceID, subserviceID uuid.UUID, draft models.ItemDraft) (*models.ClothingItem, error) {
	item := itemFromDraft(subserviceID, draft)
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findSubservice(tx, serviceID, subserviceID); err != nil {
			return err
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, fmt.Errorf("adding item: %w", err)
	}
	return &item, nil
}

func (c *GormCatalog) ToggleService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&service, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrServiceNotFound
			}
			return err
		}
		service.Enabled = !service.Enabled
		return tx.Model(&service).Update("enabled", service.Enabled).Error
	})
	if err != nil {
		return nil, fmt.Errorf("toggling service %s: %w", id, err)
	}
	return &service, nil
}

func (c *GormCatalog) ToggleSubservice(ctx context.Context, serviceID, subserviceID uuid.UUID) (*models.Subservice, error) {
	var sub *models.Subservice
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findSubservice(tx, serviceID, subserviceID)
		if err != nil {
			return err
		}
		found.Enabled = !found.Enabled
		sub = found
		return tx.Model(found).Update("enabled", found.Enabled).Error
	})
	if err != nil {
		return nil, fmt.Errorf("toggling subservice: %w", err)
	}
	return sub, nil
}

func (c *GormCatalog) CreateStudio(ctx context.Context, studio *models.Studio) error {
	if err := c.db.WithContext(ctx).Create(studio).Error; err != nil {
		return fmt.Errorf("creating studio: %w", err)
	}
	return nil
}

func findSubservice(tx *gorm.DB, serviceID, subserviceID uuid.UUID) (*models.Subservice, error) {
	var sub models.Subservice
	err := tx.Where("service_id = ? AND id = ?", serviceID, subserviceID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubserviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
