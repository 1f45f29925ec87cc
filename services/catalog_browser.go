package services

import (
	"context"
	"fmt"
	"strings"

	"laundrypro-backend/models"
	"laundrypro-backend/store"
	"laundrypro-backend/utils"

	"github.com/google/uuid"
)

const noServicesMessage = "No services found. Try adjusting your search."

// CatalogBrowser is the three panel view over the catalog: services,
// subservices of expanded services and items of expanded subservices.
type CatalogBrowser struct {
	catalog  store.Catalog
	notifier Notifier

	expandedServices    map[uuid.UUID]bool
	expandedSubservices map[uuid.UUID]bool
}

type ServiceRow struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Enabled         bool      `json:"enabled"`
	Expanded        bool      `json:"expanded"`
	SubserviceCount int       `json:"subserviceCount"`
}

type SubserviceRow struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	BasePrice float64          `json:"basePrice"`
	PriceUnit models.PriceUnit `json:"priceUnit"`
	Enabled   bool             `json:"enabled"`
	Expanded  bool             `json:"expanded"`
	ItemCount int              `json:"itemCount"`
}

type SubserviceGroup struct {
	ServiceID   uuid.UUID       `json:"serviceId"`
	ServiceName string          `json:"serviceName"`
	Subservices []SubserviceRow `json:"subservices"`
}

type ItemGroup struct {
	ServiceID    uuid.UUID             `json:"serviceId"`
	SubserviceID uuid.UUID             `json:"subserviceId"`
	Heading      string                `json:"heading"`
	Items        []models.ClothingItem `json:"items"`
}

// CatalogView is what the browser renders for one search term.
type CatalogView struct {
	Search      string            `json:"search"`
	Services    []ServiceRow      `json:"services"`
	Subservices []SubserviceGroup `json:"subservices"`
	Items       []ItemGroup       `json:"items"`
	Message     string            `json:"message,omitempty"`
}

func NewCatalogBrowser(catalog store.Catalog, notifier Notifier) *CatalogBrowser {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &CatalogBrowser{
		catalog:             catalog,
		notifier:            notifier,
		expandedServices:    map[uuid.UUID]bool{},
		expandedSubservices: map[uuid.UUID]bool{},
	}
}

func (b *CatalogBrowser) ToggleServiceExpand(id uuid.UUID) bool {
	b.expandedServices[id] = !b.expandedServices[id]
	return b.expandedServices[id]
}

func (b *CatalogBrowser) ToggleSubserviceExpand(id uuid.UUID) bool {
	b.expandedSubservices[id] = !b.expandedSubservices[id]
	return b.expandedSubservices[id]
}

func (b *CatalogBrowser) ServiceExpanded(id uuid.UUID) bool    { return b.expandedServices[id] }
func (b *CatalogBrowser) SubserviceExpanded(id uuid.UUID) bool { return b.expandedSubservices[id] }

// View filters the catalog by term and lays it out in three panels.
func (b *CatalogBrowser) View(ctx context.Context, term string) (*CatalogView, error) {
	services, err := b.catalog.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	filtered := FilterServices(services, term)

	view := &CatalogView{
		Search:      term,
		Services:    make([]ServiceRow, 0, len(filtered)),
		Subservices: []SubserviceGroup{},
		Items:       []ItemGroup{},
	}
	if len(filtered) == 0 {
		view.Message = noServicesMessage
		return view, nil
	}

	for _, svc := range filtered {
		view.Services = append(view.Services, ServiceRow{
			ID:              svc.ID,
			Name:            svc.Name,
			Enabled:         svc.Enabled,
			Expanded:        b.expandedServices[svc.ID],
			SubserviceCount: len(svc.Subservices),
		})
		if !b.expandedServices[svc.ID] {
			continue
		}

		group := SubserviceGroup{ServiceID: svc.ID, ServiceName: svc.Name, Subservices: make([]SubserviceRow, 0, len(svc.Subservices))}
		for _, sub := range svc.Subservices {
			group.Subservices = append(group.Subservices, SubserviceRow{
				ID:        sub.ID,
				Name:      sub.Name,
				BasePrice: sub.BasePrice,
				PriceUnit: sub.PriceUnit,
				Enabled:   sub.Enabled,
				Expanded:  b.expandedSubservices[sub.ID],
				ItemCount: len(sub.Items),
			})
			if b.expandedSubservices[sub.ID] {
				view.Items = append(view.Items, ItemGroup{
					ServiceID:    svc.ID,
					SubserviceID: sub.ID,
					Heading:      svc.Name + " > " + sub.Name,
					Items:        sub.Items,
				})
			}
		}
		view.Subservices = append(view.Subservices, group)
	}
	return view, nil
}

func (b *CatalogBrowser) ToggleService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return b.catalog.ToggleService(ctx, id)
}

func (b *CatalogBrowser) ToggleSubservice(ctx context.Context, serviceID, subserviceID uuid.UUID) (*models.Subservice, error) {
	return b.catalog.ToggleSubservice(ctx, serviceID, subserviceID)
}

// AddItem adds a clothing item straight to a catalog subservice.
func (b *CatalogBrowser) AddItem(ctx context.Context, serviceID, subserviceID uuid.UUID, draft models.ItemDraft) (*models.ClothingItem, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		b.notifier.Notify(invalidInput("Item name is required"))
		return nil, fmt.Errorf("%w: item name is required", ErrValidation)
	}
	draft.ID = ""
	draft.StandardPrice = utils.FinitePrice(draft.StandardPrice)
	draft.ExpressPrice = utils.FinitePrice(draft.ExpressPrice)
	return b.catalog.AddItem(ctx, serviceID, subserviceID, draft)
}

// ComingSoon announces a catalog action that is not available yet.
func (b *CatalogBrowser) ComingSoon(feature string) {
	b.notifier.Notify(comingSoon(feature))
}

// FilterServices keeps services whose own name, or the name of any of their
// subservices or items, contains term (case-insensitive). A matching
// descendant keeps the whole service.
func FilterServices(services []models.Service, term string) []models.Service {
	if term == "" {
		return services
	}
	needle := strings.ToLower(term)
	match := func(name string) bool { return strings.Contains(strings.ToLower(name), needle) }

	out := make([]models.Service, 0, len(services))
	for _, svc := range services {
		if match(svc.Name) || subservicesMatch(svc.Subservices, match) {
			out = append(out, svc)
		}
	}
	return out
}

func subservicesMatch(subs []models.Subservice, match func(string) bool) bool {
	for _, sub := range subs {
		if match(sub.Name) {
			return true
		}
		for _, it := range sub.Items {
			if match(it.Name) {
				return true
			}
		}
	}
	return false
}
