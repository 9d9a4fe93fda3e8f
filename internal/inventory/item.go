// Package inventory is the demo resource served by the crudkit CLI. It
// wires an Item entity, its transfer shapes and a store selected by
// configuration into a CRUD controller.
package inventory

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/crudkit/pkg/mapper"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Item is a stocked article.
type Item struct {
	types.Base[int64]
	Name     string   `json:"name"`
	SKU      string   `json:"sku"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
	Tags     []string `json:"tags,omitempty"`
}

// ItemDTO is the shape items take on the wire and in CLI output.
type ItemDTO struct {
	ID       int64     `json:"id,omitempty" yaml:"id,omitempty"`
	Key      uuid.UUID `json:"key" yaml:"key"`
	Name     string    `json:"name" yaml:"name"`
	SKU      string    `json:"sku" yaml:"sku"`
	Quantity int       `json:"quantity" yaml:"quantity"`
	Price    float64   `json:"price" yaml:"price"`
	Tags     []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ItemPatch carries a partial update. Nil fields are left untouched; a
// pointer to a zero value sets the field to zero.
type ItemPatch struct {
	Name     *string  `json:"name,omitempty"`
	SKU      *string  `json:"sku,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Validate checks the fields every stored item must carry.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: name is required", types.ErrInvalidData)
	}
	if i.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", types.ErrInvalidData)
	}
	if i.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", types.ErrInvalidData)
	}
	return nil
}

// toItem maps a DTO to a validated entity.
func toItem(dto ItemDTO) (*Item, error) {
	item, err := mapper.Parse[*Item](dto)
	if err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// toDTO maps an entity to its wire shape.
func toDTO(item *Item) (ItemDTO, error) {
	return mapper.Parse[ItemDTO](item)
}
