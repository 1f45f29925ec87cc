package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPriceUnitValid(t *testing.T) {
	assert.True(t, PriceUnitUnset.Valid())
	assert.True(t, PriceUnit("per item").Valid())
	assert.True(t, PriceUnit("per kg").Valid())
	assert.False(t, PriceUnit("per hour").Valid())
	assert.False(t, PriceUnit("Per Kg").Valid())
}

func TestServiceCloneIsDeep(t *testing.T) {
	svc := Service{
		ID:   uuid.New(),
		Name: "Dry Cleaning",
		Subservices: []Subservice{{
			Name:  "Shirts",
			Items: []ClothingItem{{Name: "Formal Shirt", StandardPrice: 50}},
		}},
	}

	cp := svc.Clone()
	cp.Subservices[0].Name = "changed"
	cp.Subservices[0].Items[0].Name = "changed"

	assert.Equal(t, "Shirts", svc.Subservices[0].Name)
	assert.Equal(t, "Formal Shirt", svc.Subservices[0].Items[0].Name)
}

func TestSubserviceCloneNonNilItems(t *testing.T) {
	assert.NotNil(t, Subservice{}.Clone().Items)
}

func TestSubserviceDraft(t *testing.T) {
	d := NewSubserviceDraft()
	assert.True(t, d.Enabled)
	assert.Equal(t, PriceUnitUnset, d.PriceUnit)
	assert.Empty(t, d.Items)

	d.Items = append(d.Items, ItemDraft{ID: "temp-1", Name: "Tee"})
	cp := d.Clone()
	cp.Items[0].Name = "changed"
	assert.Equal(t, "Tee", d.Items[0].Name)
}

func TestDraftFromItemKeepsID(t *testing.T) {
	id := uuid.New()
	d := DraftFromItem(ClothingItem{ID: id, Name: "Blazer", StandardPrice: 180, ExpressPrice: 280})
	assert.Equal(t, ItemDraft{ID: id.String(), Name: "Blazer", StandardPrice: 180, ExpressPrice: 280}, d)
}
