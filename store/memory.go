package store

import (
	"context"
	"fmt"
	"sync"

	"laundrypro-backend/models"

	"github.com/google/uuid"
)

// MemoryCatalog is the in-memory catalog. Every value it returns is a copy.
type MemoryCatalog struct {
	mu       sync.RWMutex
	services []models.Service
	studios  []models.Studio
}

// NewMemoryCatalog returns a catalog holding a copy of seed.
func NewMemoryCatalog(seed []models.Service) *MemoryCatalog {
	c := &MemoryCatalog{services: make([]models.Service, 0, len(seed))}
	for _, s := range seed {
		c.services = append(c.services, s.Clone())
	}
	return c
}

func (c *MemoryCatalog) ListServices(ctx context.Context) ([]models.Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Service, len(c.services))
	for i, s := range c.services {
		out[i] = s.Clone()
	}
	return out, nil
}

func (c *MemoryCatalog) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := c.serviceIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("getting service %s: %w", id, ErrServiceNotFound)
	}
	s := c.services[idx].Clone()
	return &s, nil
}

func (c *MemoryCatalog) CreateServiceWithSubservices(ctx context.Context, studioID *uuid.UUID, name string, subservices []models.SubserviceDraft) (*models.Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("creating service: %w", err)
	}
	s := serviceFromDrafts(studioID, name, subservices)

	c.mu.Lock()
	c.services = append(c.services, s)
	c.mu.Unlock()

	out := s.Clone()
	return &out, nil
}

func (c *MemoryCatalog) AddItem(ctx context.Context, serviceID, subserviceID uuid.UUID, draft models.ItemDraft) (*models.ClothingItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, err := c.subservice(serviceID, subserviceID)
	if err != nil {
		return nil, fmt.Errorf("adding item: %w", err)
	}
	item := itemFromDraft(subserviceID, draft)
	sub.Items = append(sub.Items, item)
	return &item, nil
}

func (c *MemoryCatalog) ToggleService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.serviceIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("toggling service %s: %w", id, ErrServiceNotFound)
	}
	c.services[idx].Enabled = !c.services[idx].Enabled
	out := c.services[idx].Clone()
	return &out, nil
}

func (c *MemoryCatalog) ToggleSubservice(ctx context.Context, serviceID, subserviceID uuid.UUID) (*models.Subservice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, err := c.subservice(serviceID, subserviceID)
	if err != nil {
		return nil, fmt.Errorf("toggling subservice: %w", err)
	}
	sub.Enabled = !sub.Enabled
	out := sub.Clone()
	return &out, nil
}

func (c *MemoryCatalog) CreateStudio(ctx context.Context, studio *models.Studio) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if studio.ID == uuid.Nil {
		studio.ID = uuid.New()
	}
	c.studios = append(c.studios, *studio)
	return nil
}

// Studios returns the studios created so far.
func (c *MemoryCatalog) Studios() []models.Studio {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Studio(nil), c.studios...)
}

// serviceIndex must be called with c.mu held.
func (c *MemoryCatalog) serviceIndex(id uuid.UUID) int {
	for i := range c.services {
		if c.services[i].ID == id {
			return i
		}
	}
	return -1
}

// subservice must be called with c.mu held for writing.
func (c *MemoryCatalog) subservice(serviceID, subserviceID uuid.UUID) (*models.Subservice, error) {
	idx := c.serviceIndex(serviceID)
	if idx < 0 {
		return nil, ErrServiceNotFound
	}
	subs := c.services[idx].Subservices
	for i := range subs {
		if subs[i].ID == subserviceID {
			return &subs[i], nil
		}
	}
	return nil, ErrSubserviceNotFound
}
