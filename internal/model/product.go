package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// VariantOption is one selectable value on a configuration axis, e.g. "L" on
// "Size". Option stock is tracked in parallel with the product's global
// stock; the two figures are independent and are never reconciled
// automatically (an admin edit may move global stock without touching
// variants).
type VariantOption struct {
	Label      string `json:"label" validate:"required"`
	Image      string `json:"image,omitempty"`
	Stock      int    `json:"stock"`
	PriceAddon int64  `json:"price_addon"`
}

// VariantGroup is a named configuration axis and its ordered options.
type VariantGroup struct {
	Label   string          `json:"label" validate:"required"`
	Options []VariantOption `json:"options" validate:"dive"`
}

// VariantGroups is persisted as a single JSON column (`variants`).
type VariantGroups []VariantGroup

func (v VariantGroups) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return json.Marshal(v)
}

func (v *VariantGroups) Scan(src interface{}) error {
	if src == nil {
		*v = nil
		return nil
	}
	var data []byte
	switch raw := src.(type) {
	case []byte:
		data = raw
	case string:
		data = []byte(raw)
	default:
		return errors.New("variants: unsupported source type")
	}
	if len(data) == 0 {
		*v = nil
		return nil
	}
	return json.Unmarshal(data, v)
}

// Option resolves a selection to a concrete option. An empty group label
// matches any group (legacy rows recorded only the option label).
func (v VariantGroups) Option(sel VariantSelection) (groupIdx, optionIdx int, ok bool) {
	for gi, group := range v {
		if sel.Group != "" && group.Label != sel.Group {
			continue
		}
		for oi, opt := range group.Options {
			if opt.Label == sel.Option {
				return gi, oi, true
			}
		}
	}
	return 0, 0, false
}

type Product struct {
	BaseModel
	SellerID    *string       `gorm:"column:user_id;type:varchar(255);index" json:"user_id,omitempty"`
	Name        string        `gorm:"column:product_name;type:varchar(255);not null" json:"product_name" validate:"required"`
	SKU         string        `gorm:"column:product_sku;type:varchar(50);uniqueIndex" json:"product_sku" validate:"required"`
	Category    string        `gorm:"type:varchar(100)" json:"category"`
	Brand       string        `gorm:"type:varchar(100)" json:"brand"`
	Price       int64         `gorm:"default:0" json:"price"`
	Stock       int           `gorm:"column:stocks;default:0" json:"stocks"`
	Description string        `json:"description"`
	Image       string        `gorm:"type:text" json:"image,omitempty"`
	Variants    VariantGroups `gorm:"column:variants;type:jsonb" json:"variants,omitempty"`
}

// UnitPrice is the base price plus the addons of every resolved selection.
func (p *Product) UnitPrice(sels VariantSelections) int64 {
	price := p.Price
	for _, sel := range sels {
		if gi, oi, ok := p.Variants.Option(sel); ok {
			price += p.Variants[gi].Options[oi].PriceAddon
		}
	}
	return price
}

// Clone returns a deep copy, so callers can hand out product values without
// sharing the variant slices.
func (p Product) Clone() Product {
	clone := p
	if p.SellerID != nil {
		id := *p.SellerID
		clone.SellerID = &id
	}
	if p.Variants != nil {
		clone.Variants = make(VariantGroups, len(p.Variants))
		for i, group := range p.Variants {
			g := group
			g.Options = append([]VariantOption(nil), group.Options...)
			clone.Variants[i] = g
		}
	}
	return clone
}
