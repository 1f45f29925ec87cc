package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"laundrypro-backend/models"
	"laundrypro-backend/store"
	"laundrypro-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAddedServiceNotFound = errors.New("added service not found")
	ErrAlreadySubmitted     = errors.New("studio already submitted")
)

// StudioInput is the studio profile as typed into the onboarding form.
type StudioInput struct {
	Name            string `json:"name" validate:"required"`
	OwnerName       string `json:"ownerName" validate:"required"`
	OwnerLastName   string `json:"ownerLastName"`
	ContactNumber   string `json:"contactNumber" validate:"min=10"`
	SecondaryNumber string `json:"secondaryNumber"`
	Email           string `json:"email" validate:"omitempty,email"`

	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`

	NumberOfEmployees int                 `json:"numberOfEmployees" validate:"min=0"`
	DailyCapacity     int                 `json:"dailyCapacity" validate:"min=0"`
	SpecialEquipment  string              `json:"specialEquipment"`
	WashCategory      models.WashCategory `json:"washCategory" validate:"omitempty,oneof=standard express both"`

	BusinessRegistrationNumber string `json:"businessRegistrationNumber"`
	GSTNumber                  string `json:"gstNumber"`
	PANNumber                  string `json:"panNumber"`
	OpeningTime                string `json:"openingTime"`
	ClosingTime                string `json:"closingTime"`
	PriceAdjustmentPercentage  int    `json:"priceAdjustmentPercentage"`

	AccountNumber     string                 `json:"accountNumber"`
	AccountHolderName string                 `json:"accountHolderName"`
	BankName          string                 `json:"bankName"`
	IFSCCode          string                 `json:"ifscCode"`
	BranchName        string                 `json:"branchName"`
	UPIID             string                 `json:"upiId"`
	PaymentSchedule   models.PaymentSchedule `json:"paymentSchedule" validate:"omitempty,oneof=daily weekly"`
}

// fieldMessages maps "<Field>.<tag>" to the message shown next to the field.
var fieldMessages = map[string]string{
	"Name.required":         "Studio name is required",
	"OwnerName.required":    "Owner first name is required",
	"ContactNumber.min":     "Contact number must be at least 10 digits",
	"Email.email":           "Invalid email address",
	"NumberOfEmployees.min": "Number of employees cannot be negative",
	"DailyCapacity.min":     "Daily capacity cannot be negative",
	"WashCategory.oneof":    "Wash category must be standard, express or both",
	"PaymentSchedule.oneof": "Payment schedule must be daily or weekly",
}

// FieldErrors holds one message per invalid studio field, keyed by JSON name.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for k, v := range e {
		parts = append(parts, k+": "+v)
	}
	return "invalid studio: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Unwrap() error { return ErrValidation }

// AddedService summarises a service committed during onboarding.
type AddedService struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Subservices []AddedSubservice `json:"subservices"`
}

type AddedSubservice struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// StudioPayload is everything submitted for a new studio.
type StudioPayload struct {
	Studio   models.Studio  `json:"studio"`
	Services []AddedService `json:"services"`
}

// StudioForm collects a studio profile and the services added to it.
type StudioForm struct {
	id        uuid.UUID
	catalog   store.Catalog
	studios   store.StudioStore
	notifier  Notifier
	messenger Messenger
	log       *zap.Logger
	validate  *validator.Validate

	added     []AddedService
	submitted bool
}

type StudioFormOption func(*StudioForm)

func WithMessenger(m Messenger) StudioFormOption {
	return func(f *StudioForm) { f.messenger = m }
}

func WithLogger(log *zap.Logger) StudioFormOption {
	return func(f *StudioForm) { f.log = log }
}

func NewStudioForm(catalog store.Catalog, studios store.StudioStore, notifier Notifier, opts ...StudioFormOption) *StudioForm {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	f := &StudioForm{
		id:       uuid.New(),
		catalog:  catalog,
		studios:  studios,
		notifier: notifier,
		log:      zap.NewNop(),
		validate: validator.New(),
		added:    []AddedService{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ID is the temporary studio id services are filed under until submit.
func (f *StudioForm) ID() uuid.UUID { return f.id }

func (f *StudioForm) Submitted() bool { return f.submitted }

func (f *StudioForm) AddedServices() []AddedService {
	out := make([]AddedService, len(f.added))
	for i, a := range f.added {
		a.Subservices = append([]AddedSubservice{}, a.Subservices...)
		out[i] = a
	}
	return out
}

// AddService commits a service from the service form into the catalog under
// this studio. It satisfies CommitFunc.
func (f *StudioForm) AddService(ctx context.Context, serviceName string, subservices []models.SubserviceDraft) error {
	added, err := CommitToCatalog(ctx, f.catalog, &f.id, serviceName, subservices)
	if err != nil {
		f.log.Error("adding service", zap.String("studio", f.id.String()), zap.Error(err))
		return err
	}
	f.added = append(f.added, *added)
	f.notifier.Notify(Notification{
		Title:       "Success",
		Description: "Service added successfully",
		Variant:     VariantDefault,
	})
	return nil
}

func (f *StudioForm) RemoveService(id uuid.UUID) error {
	for i, a := range f.added {
		if a.ID == id {
			f.added = append(f.added[:i], f.added[i+1:]...)
			f.notifier.Notify(Notification{
				Title:       "Service removed",
				Description: "Service has been removed from this studio",
				Variant:     VariantDefault,
			})
			return nil
		}
	}
	return fmt.Errorf("removing service %s: %w", id, ErrAddedServiceNotFound)
}

// Submit validates the profile and stores the studio together with the
// services added so far.
func (f *StudioForm) Submit(ctx context.Context, in StudioInput) (*StudioPayload, error) {
	if f.submitted {
		return nil, ErrAlreadySubmitted
	}
	in = trimStudioInput(in)
	if err := f.validateInput(in); err != nil {
		f.notifier.Notify(invalidInput("Please correct the highlighted studio fields"))
		return nil, err
	}

	studio := studioFromInput(f.id, in)
	if err := f.studios.CreateStudio(ctx, &studio); err != nil {
		f.log.Error("creating studio", zap.String("studio", f.id.String()), zap.Error(err))
		f.notifier.Notify(Notification{Title: "Error", Description: "Failed to add studio", Variant: VariantDestructive})
		return nil, err
	}

	payload := &StudioPayload{Studio: studio, Services: f.AddedServices()}
	f.log.Info("studio submitted",
		zap.String("studio", studio.ID.String()),
		zap.String("name", studio.Name),
		zap.Int("services", len(payload.Services)),
		zap.Any("payload", payload),
	)
	f.submitted = true
	f.notifier.Notify(Notification{
		Title:       "Studio added",
		Description: studio.Name + " has been added successfully",
		Variant:     VariantDefault,
	})
	f.welcome(ctx, studio)
	return payload, nil
}

func (f *StudioForm) welcome(ctx context.Context, studio models.Studio) {
	if f.messenger == nil || !utils.ValidatePhone(studio.ContactNumber) {
		return
	}
	body := fmt.Sprintf("Hi %s, %s is now live on LaundryPro with %d services.", studio.OwnerName, studio.Name, len(f.added))
	if err := f.messenger.Send(ctx, studio.ContactNumber, body); err != nil {
		f.log.Warn("sending studio welcome message", zap.String("studio", studio.ID.String()), zap.Error(err))
	}
}

func (f *StudioForm) validateInput(in StudioInput) error {
	err := f.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating studio: %w", err)
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[jsonFieldName(fe.Field())] = msg
	}
	return out
}

// CommitToCatalog stores the service and each named subservice in the
// catalog in one step. Rows without a name are skipped. A nil studioID files
// the service under no studio.
func CommitToCatalog(ctx context.Context, catalog store.Catalog, studioID *uuid.UUID, serviceName string, subservices []models.SubserviceDraft) (*AddedService, error) {
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return nil, fmt.Errorf("%w: service name is required", ErrValidation)
	}
	var named []models.SubserviceDraft
	for _, sub := range NormalizeSubservices(subservices) {
		if sub.Name != "" {
			named = append(named, sub)
		}
	}
	if len(named) == 0 {
		return nil, fmt.Errorf("%w: at least one subservice with a name is required", ErrValidation)
	}

	svc, err := catalog.CreateServiceWithSubservices(ctx, studioID, serviceName, named)
	if err != nil {
		return nil, fmt.Errorf("failed to add service: %w", err)
	}

	added := &AddedService{ID: svc.ID, Name: svc.Name, Subservices: make([]AddedSubservice, 0, len(svc.Subservices))}
	for _, sub := range svc.Subservices {
		added.Subservices = append(added.Subservices, AddedSubservice{ID: sub.ID, Name: sub.Name})
	}
	return added, nil
}

func trimStudioInput(in StudioInput) StudioInput {
	for _, p := range []*string{
		&in.Name, &in.OwnerName, &in.OwnerLastName, &in.ContactNumber, &in.SecondaryNumber, &in.Email,
		&in.Street, &in.City, &in.State, &in.PostalCode, &in.Latitude, &in.Longitude,
		&in.SpecialEquipment, &in.BusinessRegistrationNumber, &in.GSTNumber, &in.PANNumber,
		&in.OpeningTime, &in.ClosingTime, &in.AccountNumber, &in.AccountHolderName,
		&in.BankName, &in.IFSCCode, &in.BranchName, &in.UPIID,
	} {
		*p = strings.TrimSpace(*p)
	}
	if in.WashCategory == "" {
		in.WashCategory = models.WashBoth
	}
	if in.PaymentSchedule == "" {
		in.PaymentSchedule = models.PaymentDaily
	}
	return in
}

func studioFromInput(id uuid.UUID, in StudioInput) models.Studio {
	return models.Studio{
		ID:                         id,
		Name:                       in.Name,
		OwnerName:                  in.OwnerName,
		OwnerLastName:              in.OwnerLastName,
		ContactNumber:              in.ContactNumber,
		SecondaryNumber:            in.SecondaryNumber,
		Email:                      in.Email,
		Street:                     in.Street,
		City:                       in.City,
		State:                      in.State,
		PostalCode:                 in.PostalCode,
		Latitude:                   in.Latitude,
		Longitude:                  in.Longitude,
		NumberOfEmployees:          in.NumberOfEmployees,
		DailyCapacity:              in.DailyCapacity,
		SpecialEquipment:           in.SpecialEquipment,
		WashCategory:               in.WashCategory,
		BusinessRegistrationNumber: in.BusinessRegistrationNumber,
		GSTNumber:                  in.GSTNumber,
		PANNumber:                  in.PANNumber,
		OpeningTime:                in.OpeningTime,
		ClosingTime:                in.ClosingTime,
		PriceAdjustmentPercentage:  in.PriceAdjustmentPercentage,
		AccountNumber:              in.AccountNumber,
		AccountHolderName:          in.AccountHolderName,
		BankName:                   in.BankName,
		IFSCCode:                   in.IFSCCode,
		BranchName:                 in.BranchName,
		UPIID:                      in.UPIID,
		PaymentSchedule:            in.PaymentSchedule,
	}
}

func jsonFieldName(field string) string {
	switch field {
	case "GSTNumber":
		return "gstNumber"
	case "PANNumber":
		return "panNumber"
	case "IFSCCode":
		return "ifscCode"
	case "UPIID":
		return "upiId"
	}
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
