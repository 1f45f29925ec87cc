package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"laundrypro-backend/models"
	"laundrypro-backend/store"
	"laundrypro-backend/utils"

	"github.com/google/uuid"
)

var (
	// ErrValidation marks input the admin has to correct. A notification has
	// already been sent when it is returned.
	ErrValidation      = errors.New("validation failed")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoActivePanel   = errors.New("no subservice item panel is open")
	ErrUnknownField    = errors.New("unknown field")
)

type SubserviceField string

const (
	FieldName      SubserviceField = "name"
	FieldBasePrice SubserviceField = "basePrice"
	FieldPriceUnit SubserviceField = "priceUnit"
)

type ItemField string

const (
	ItemFieldName          ItemField = "name"
	ItemFieldStandardPrice ItemField = "standardPrice"
	ItemFieldExpressPrice  ItemField = "expressPrice"
)

// CommitFunc receives a validated, normalised service. The caller owns
// persistence and id assignment.
type CommitFunc func(ctx context.Context, serviceName string, subservices []models.SubserviceDraft) error

// ServiceForm is the editor for one new service and its subservice rows.
// Rows are addressed by index since drafts have no ids. It is not safe for
// concurrent use.
type ServiceForm struct {
	catalog  store.CatalogSource
	ids      IDProvider
	notifier Notifier

	serviceName     string
	selectedService string
	subservices     []models.SubserviceDraft
	active          int
	newItem         models.ItemDraft
	open            bool
}

// ServiceFormState is a snapshot of the form for rendering.
type ServiceFormState struct {
	Open                  bool                     `json:"open"`
	ServiceName           string                   `json:"serviceName"`
	SelectedServiceID     string                   `json:"selectedServiceId"`
	Subservices           []models.SubserviceDraft `json:"subservices"`
	ActiveSubserviceIndex *int                     `json:"activeSubserviceIndex"`
	NewItem               models.ItemDraft         `json:"newItem"`
}

func NewServiceForm(catalog store.CatalogSource, ids IDProvider, notifier Notifier) *ServiceForm {
	if ids == nil {
		ids = UUIDProvider{}
	}
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	f := &ServiceForm{catalog: catalog, ids: ids, notifier: notifier}
	f.reset()
	f.open = true
	return f
}

func (f *ServiceForm) reset() {
	f.serviceName = ""
	f.selectedService = ""
	f.subservices = []models.SubserviceDraft{models.NewSubserviceDraft()}
	f.active = -1
	f.newItem = models.ItemDraft{}
}

// State returns a deep copy of the form.
func (f *ServiceForm) State() ServiceFormState {
	st := ServiceFormState{
		Open:              f.open,
		ServiceName:       f.serviceName,
		SelectedServiceID: f.selectedService,
		Subservices:       make([]models.SubserviceDraft, len(f.subservices)),
		NewItem:           f.newItem,
	}
	for i, s := range f.subservices {
		st.Subservices[i] = s.Clone()
	}
	if f.active >= 0 {
		idx := f.active
		st.ActiveSubserviceIndex = &idx
	}
	return st
}

func (f *ServiceForm) IsOpen() bool { return f.open }

// Open shows the form again after a save or cancel.
func (f *ServiceForm) Open() { f.open = true }

// ActiveIndex returns the row whose item panel is open.
func (f *ServiceForm) ActiveIndex() (int, bool) {
	return f.active, f.active >= 0
}

func (f *ServiceForm) Subservices() []models.SubserviceDraft {
	return f.State().Subservices
}

func (f *ServiceForm) NewItem() models.ItemDraft { return f.newItem }

func (f *ServiceForm) ServiceName() string { return f.serviceName }

// SetServiceName sets the name as free text and forgets any picked service.
func (f *ServiceForm) SetServiceName(name string) {
	f.serviceName = name
	f.selectedService = ""
}

// SelectService picks an existing catalog service by id or name. Its
// subservices become the templates offered for each row.
func (f *ServiceForm) SelectService(ctx context.Context, key string) error {
	svc, err := f.lookupService(ctx, key)
	if err != nil {
		return err
	}
	if svc == nil {
		f.notifier.Notify(invalidInput("Select a service from the list"))
		return fmt.Errorf("%w: service %q not found", ErrValidation, key)
	}
	f.serviceName = svc.Name
	f.selectedService = svc.ID.String()
	return nil
}

// AvailableSubservices lists the templates of the selected service.
func (f *ServiceForm) AvailableSubservices(ctx context.Context) ([]models.Subservice, error) {
	if f.selectedService == "" {
		return []models.Subservice{}, nil
	}
	svc, err := f.lookupService(ctx, f.selectedService)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return []models.Subservice{}, nil
	}
	return svc.Subservices, nil
}

func (f *ServiceForm) AddSubservice() {
	f.subservices = append(f.subservices, models.NewSubserviceDraft())
}

// RemoveSubservice drops row i. The last remaining row cannot be removed.
func (f *ServiceForm) RemoveSubservice(i int) error {
	if len(f.subservices) == 1 {
		f.notifier.Notify(Notification{
			Title:       "Cannot remove",
			Description: "You need at least one subservice",
			Variant:     VariantDestructive,
		})
		return fmt.Errorf("%w: at least one subservice is required", ErrValidation)
	}
	if err := f.checkRow(i); err != nil {
		return err
	}

	f.subservices = append(f.subservices[:i], f.subservices[i+1:]...)

	switch {
	case f.active == i:
		f.active = -1
	case f.active > i:
		f.active--
	}
	return nil
}

// EditSubservice sets one field of row i. Prices are read like a number
// input: anything that does not parse is 0.
func (f *ServiceForm) EditSubservice(i int, field SubserviceField, value string) error {
	if err := f.checkRow(i); err != nil {
		return err
	}
	row := &f.subservices[i]
	switch field {
	case FieldName:
		row.Name = value
	case FieldBasePrice:
		row.BasePrice = utils.ParsePrice(value)
	case FieldPriceUnit:
		unit := models.PriceUnit(strings.TrimSpace(value))
		if !unit.Valid() {
			f.notifier.Notify(invalidInput(`Price unit must be "per item" or "per kg"`))
			return fmt.Errorf("%w: unknown price unit %q", ErrValidation, value)
		}
		row.PriceUnit = unit
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// ToggleItemsPanel opens row i's item panel, or closes it when it is already
// open. Any item being typed in is discarded.
func (f *ServiceForm) ToggleItemsPanel(i int) error {
	if err := f.checkRow(i); err != nil {
		return err
	}
	if f.active == i {
		f.active = -1
	} else {
		f.active = i
	}
	f.newItem = models.ItemDraft{}
	return nil
}

// SelectExistingSubservice fills row i from a template of the selected
// service, matched by id first and then by name. The row keeps the base price
// and unit already entered.
func (f *ServiceForm) SelectExistingSubservice(ctx context.Context, i int, key string) error {
	if err := f.checkRow(i); err != nil {
		return err
	}
	templates, err := f.AvailableSubservices(ctx)
	if err != nil {
		return err
	}
	tmpl := matchSubservice(templates, key)
	if tmpl == nil {
		f.notifier.Notify(invalidInput("Select a subservice of the chosen service"))
		return fmt.Errorf("%w: subservice %q not found", ErrValidation, key)
	}

	row := &f.subservices[i]
	row.Name = tmpl.Name
	row.Items = make([]models.ItemDraft, 0, len(tmpl.Items))
	for _, it := range tmpl.Items {
		row.Items = append(row.Items, models.DraftFromItem(it))
	}
	return nil
}

func (f *ServiceForm) SetNewItemField(field ItemField, value string) error {
	switch field {
	case ItemFieldName:
		f.newItem.Name = value
	case ItemFieldStandardPrice:
		f.newItem.StandardPrice = utils.ParsePrice(value)
	case ItemFieldExpressPrice:
		f.newItem.ExpressPrice = utils.ParsePrice(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// AddItem appends the pending item to the row whose panel is open and gives
// it a temporary id.
func (f *ServiceForm) AddItem() error {
	if f.active < 0 {
		return ErrNoActivePanel
	}
	if strings.TrimSpace(f.newItem.Name) == "" {
		f.notifier.Notify(invalidInput("Item name is required"))
		return fmt.Errorf("%w: item name is required", ErrValidation)
	}

	item := f.newItem
	item.ID = f.ids.NewID()
	row := &f.subservices[f.active]
	row.Items = append(row.Items, item)
	f.newItem = models.ItemDraft{}
	return nil
}

func (f *ServiceForm) RemoveItem(subserviceIndex, itemIndex int) error {
	if err := f.checkRow(subserviceIndex); err != nil {
		return err
	}
	row := &f.subservices[subserviceIndex]
	if itemIndex < 0 || itemIndex >= len(row.Items) {
		return fmt.Errorf("item %d of subservice %d: %w", itemIndex, subserviceIndex, ErrIndexOutOfRange)
	}
	row.Items = append(row.Items[:itemIndex], row.Items[itemIndex+1:]...)
	return nil
}

// Save validates the form and hands the normalised service to commit. On
// success the form is reset and closed; on any failure it is left as is.
func (f *ServiceForm) Save(ctx context.Context, commit CommitFunc) error {
	if strings.TrimSpace(f.serviceName) == "" {
		f.notifier.Notify(invalidInput("Service name is required"))
		return fmt.Errorf("%w: service name required", ErrValidation)
	}
	for _, sub := range f.subservices {
		if strings.TrimSpace(sub.Name) == "" {
			f.notifier.Notify(invalidInput("All subservice names are required"))
			return fmt.Errorf("%w: all subservice names are required", ErrValidation)
		}
	}

	name := strings.TrimSpace(f.serviceName)
	subs := NormalizeSubservices(f.subservices)
	if err := commit(ctx, name, subs); err != nil {
		f.notifier.Notify(Notification{
			Title:       "Error",
			Description: "Failed to add service",
			Variant:     VariantDestructive,
		})
		return fmt.Errorf("committing service: %w", err)
	}

	f.reset()
	f.open = false
	return nil
}

// Cancel discards everything entered and closes the form.
func (f *ServiceForm) Cancel() {
	f.reset()
	f.open = false
}

func (f *ServiceForm) checkRow(i int) error {
	if i < 0 || i >= len(f.subservices) {
		return fmt.Errorf("subservice %d: %w", i, ErrIndexOutOfRange)
	}
	return nil
}

func (f *ServiceForm) lookupService(ctx context.Context, key string) (*models.Service, error) {
	if f.catalog == nil {
		return nil, nil
	}
	services, err := f.catalog.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing catalog services: %w", err)
	}
	return matchService(services, key), nil
}

// NormalizeSubservices returns a deep copy with names trimmed and every
// non-finite price set to 0.
func NormalizeSubservices(in []models.SubserviceDraft) []models.SubserviceDraft {
	out := make([]models.SubserviceDraft, len(in))
	for i, sub := range in {
		n := sub.Clone()
		n.Name = strings.TrimSpace(n.Name)
		n.BasePrice = utils.FinitePrice(n.BasePrice)
		for j := range n.Items {
			n.Items[j].Name = strings.TrimSpace(n.Items[j].Name)
			n.Items[j].StandardPrice = utils.FinitePrice(n.Items[j].StandardPrice)
			n.Items[j].ExpressPrice = utils.FinitePrice(n.Items[j].ExpressPrice)
		}
		out[i] = n
	}
	return out
}

func matchService(services []models.Service, key string) *models.Service {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if id, err := uuid.Parse(key); err == nil {
		for i := range services {
			if services[i].ID == id {
				return &services[i]
			}
		}
	}
	for i := range services {
		if strings.EqualFold(services[i].Name, key) {
			return &services[i]
		}
	}
	return nil
}

func matchSubservice(subs []models.Subservice, key string) *models.Subservice {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if id, err := uuid.Parse(key); err == nil {
		for i := range subs {
			if subs[i].ID == id {
				return &subs[i]
			}
		}
	}
	for i := range subs {
		if strings.EqualFold(subs[i].Name, key) {
			return &subs[i]
		}
	}
	return nil
}
