package models

// ItemDraft is a clothing item that has not been committed yet. ID holds a
// temporary identifier once the draft is appended to a subservice row and is
// empty while the item is still being typed in.
type ItemDraft struct {
	ID            string  `json:"id,omitempty"`
	Name          string  `json:"name"`
	StandardPrice float64 `json:"standardPrice"`
	ExpressPrice  float64 `json:"expressPrice"`
}

// SubserviceDraft is a subservice row of an uncommitted service form.
type SubserviceDraft struct {
	Name      string      `json:"name"`
	BasePrice float64     `json:"basePrice"`
	PriceUnit PriceUnit   `json:"priceUnit"`
	Items     []ItemDraft `json:"items"`
	Enabled   bool        `json:"enabled"`
}

// NewSubserviceDraft returns the default empty row.
func NewSubserviceDraft() SubserviceDraft {
	return SubserviceDraft{
		Name:      "",
		BasePrice: 0,
		PriceUnit: PriceUnitUnset,
		Items:     []ItemDraft{},
		Enabled:   true,
	}
}

func (d SubserviceDraft) Clone() SubserviceDraft {
	out := d
	out.Items = append([]ItemDraft{}, d.Items...)
	return out
}

// DraftFromItem converts a committed catalog item into a draft, keeping its id.
func DraftFromItem(item ClothingItem) ItemDraft {
	return ItemDraft{
		ID:            item.ID.String(),
		Name:          item.Name,
		StandardPrice: item.StandardPrice,
		ExpressPrice:  item.ExpressPrice,
	}
}
