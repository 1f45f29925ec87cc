package store

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"laundrypro-backend/models"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed seed/mock_services.yaml
var defaultSeed []byte

// seedNamespace derives stable ids for seed entries that do not carry one.
var seedNamespace = uuid.MustParse("5c0f3c2e-6d1b-4b7a-9f6e-2a4d8c1e7b90")

type seedFile struct {
	Services []seedService `yaml:"services"`
}

type seedService struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Enabled     *bool            `yaml:"enabled"`
	Subservices []seedSubservice `yaml:"subservices"`
}

type seedSubservice struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	BasePrice float64    `yaml:"basePrice"`
	PriceUnit string     `yaml:"priceUnit"`
	Enabled   *bool      `yaml:"enabled"`
	Items     []seedItem `yaml:"items"`
}

type seedItem struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	StandardPrice float64 `yaml:"standardPrice"`
	ExpressPrice  float64 `yaml:"expressPrice"`
}

// DefaultSeed returns the built-in mock catalog.
func DefaultSeed() ([]models.Service, error) {
	return LoadSeed(bytes.NewReader(defaultSeed))
}

// LoadSeedFile reads a catalog fixture from path. An empty path yields the
// built-in catalog.
func LoadSeedFile(path string) ([]models.Service, error) {
	if path == "" {
		return DefaultSeed()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

// LoadSeed parses a YAML catalog fixture.
func LoadSeed(r io.Reader) ([]models.Service, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding seed: %w", err)
	}

	services := make([]models.Service, 0, len(file.Services))
	for _, ss := range file.Services {
		name := strings.TrimSpace(ss.Name)
		if name == "" {
			return nil, fmt.Errorf("seed service without a name")
		}
		svcID, err := seedID(ss.ID, "service/"+name)
		if err != nil {
			return nil, err
		}
		svc := models.Service{
			ID:          svcID,
			Name:        name,
			Enabled:     enabled(ss.Enabled),
			Subservices: make([]models.Subservice, 0, len(ss.Subservices)),
		}
		for _, sub := range ss.Subservices {
			s, err := buildSeedSubservice(svc, sub)
			if err != nil {
				return nil, err
			}
			svc.Subservices = append(svc.Subservices, s)
		}
		services = append(services, svc)
	}
	return services, nil
}

func buildSeedSubservice(svc models.Service, sub seedSubservice) (models.Subservice, error) {
	name := strings.TrimSpace(sub.Name)
	if name == "" {
		return models.Subservice{}, fmt.Errorf("seed subservice of %q without a name", svc.Name)
	}
	unit := models.PriceUnit(sub.PriceUnit)
	if !unit.Valid() {
		return models.Subservice{}, fmt.Errorf("seed subservice %q: unknown price unit %q", name, sub.PriceUnit)
	}
	id, err := seedID(sub.ID, "subservice/"+svc.Name+"/"+name)
	if err != nil {
		return models.Subservice{}, err
	}
	out := models.Subservice{
		ID:        id,
		ServiceID: svc.ID,
		Name:      name,
		BasePrice: sub.BasePrice,
		PriceUnit: unit,
		Enabled:   enabled(sub.Enabled),
		Items:     make([]models.ClothingItem, 0, len(sub.Items)),
	}
	for _, it := range sub.Items {
		itemID, err := seedID(it.ID, "item/"+svc.Name+"/"+name+"/"+it.Name)
		if err != nil {
			return models.Subservice{}, err
		}
		out.Items = append(out.Items, models.ClothingItem{
			ID:            itemID,
			SubserviceID:  out.ID,
			Name:          strings.TrimSpace(it.Name),
			StandardPrice: it.StandardPrice,
			ExpressPrice:  it.ExpressPrice,
		})
	}
	return out, nil
}

func seedID(raw, path string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.NewSHA1(seedNamespace, []byte(path)), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("seed id %q for %s: %w", raw, path, err)
	}
	return id, nil
}

func enabled(v *bool) bool {
	return v == nil || *v
}
