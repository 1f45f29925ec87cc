// Package store holds the catalog and studio repositories behind the
// service form, the catalog browser and the studio onboarding flow.
package store

import (
	"context"
	"errors"

	"laundrypro-backend/models"

	"github.com/google/uuid"
)

var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrSubserviceNotFound = errors.New("subservice not found")
)

// CatalogSource is the read-only catalog used for lookups and autofill.
// Callers never mutate what it returns.
type CatalogSource interface {
	ListServices(ctx context.Context) ([]models.Service, error)
}

// Catalog is the writable catalog. Identifiers are assigned by the catalog.
type Catalog interface {
	CatalogSource

	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	// CreateServiceWithSubservices stores a new service together with its
	// subservices and items. Either everything is stored or nothing is.
	CreateServiceWithSubservices(ctx context.Context, studioID *uuid.UUID, name string, subservices []models.SubserviceDraft) (*models.Service, error)
	AddItem(ctx context.Context, serviceID, subserviceID uuid.UUID, draft models.ItemDraft) (*models.ClothingItem, error)
	ToggleService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	ToggleSubservice(ctx context.Context, serviceID, subserviceID uuid.UUID) (*models.Subservice, error)
}

type StudioStore interface {
	CreateStudio(ctx context.Context, studio *models.Studio) error
}

func serviceFromDrafts(studioID *uuid.UUID, name string, drafts []models.SubserviceDraft) models.Service {
	svc := models.Service{
		ID:          uuid.New(),
		Name:        name,
		Enabled:     true,
		Subservices: make([]models.Subservice, 0, len(drafts)),
	}
	if studioID != nil {
		id := *studioID
		svc.StudioID = &id
	}
	for _, d := range drafts {
		svc.Subservices = append(svc.Subservices, subserviceFromDraft(svc.ID, d))
	}
	return svc
}

// subserviceFromDraft builds the catalog record for a committed draft row.
// Draft item ids are temporary and are replaced.
func subserviceFromDraft(serviceID uuid.UUID, draft models.SubserviceDraft) models.Subservice {
	sub := models.Subservice{
		ID:        uuid.New(),
		ServiceID: serviceID,
		Name:      draft.Name,
		BasePrice: draft.BasePrice,
		PriceUnit: draft.PriceUnit,
		Enabled:   draft.Enabled,
		Items:     make([]models.ClothingItem, 0, len(draft.Items)),
	}
	for _, it := range draft.Items {
		sub.Items = append(sub.Items, itemFromDraft(sub.ID, it))
	}
	return sub
}

func itemFromDraft(subserviceID uuid.UUID, draft models.ItemDraft) models.ClothingItem {
	return models.ClothingItem{
		ID:            uuid.New(),
		SubserviceID:  subserviceID,
		Name:          draft.Name,
		StandardPrice: draft.StandardPrice,
		ExpressPrice:  draft.ExpressPrice,
	}
}
