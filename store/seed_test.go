package store

import (
	"strings"
	"testing"

	"laundrypro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	services, err := DefaultSeed()
	require.NoError(t, err)
	require.NotEmpty(t, services)

	dry := findService(t, services, "Dry Cleaning")
	assert.True(t, dry.Enabled)
	assert.Nil(t, dry.StudioID, "seeded services belong to no studio")
	require.NotEmpty(t, dry.Subservices)
	assert.Equal(t, "Shirts", dry.Subservices[0].Name)
	assert.Equal(t, models.PriceUnitPerItem, dry.Subservices[0].PriceUnit)
	assert.Equal(t, dry.ID, dry.Subservices[0].ServiceID)

	shoes := findService(t, services, "Shoe Care")
	assert.False(t, shoes.Enabled)
}

func TestSeedIDsAreStable(t *testing.T) {
	a, err := DefaultSeed()
	require.NoError(t, err)
	b, err := DefaultSeed()
	require.NoError(t, err)
	assert.Equal(t, a[0].ID, b[0].ID)
	assert.Equal(t, a[0].Subservices[0].Items[0].ID, b[0].Subservices[0].Items[0].ID)
}

func TestLoadSeedExplicitIDs(t *testing.T) {
	doc := `
services:
  - id: 0b6f1f7e-3f43-4c55-8a38-2f5d0b7d5c11
    name: Ironing
    subservices:
      - name: Steam Press
        priceUnit: per item
`
	services, err := LoadSeed(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "0b6f1f7e-3f43-4c55-8a38-2f5d0b7d5c11", services[0].ID.String())
}

func TestLoadSeedRejectsUnknownUnit(t *testing.T) {
	doc := `
services:
  - name: Ironing
    subservices:
      - name: Steam Press
        priceUnit: per hour
`
	_, err := LoadSeed(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestLoadSeedEmpty(t *testing.T) {
	services, err := LoadSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, services)
}
