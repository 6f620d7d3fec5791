package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/medstock/medstock/internal/inventory"
)

const (
	KeyQuantity           = "quantity"
	KeyLength             = "length"
	KeyType               = "type"
	KeyName               = "name"
	KeyStrengthOrVolume   = "strength_or_volume"
	KeyRoute              = "route"
	KeyCap                = "cap"
	KeyPossibleSideEffect = "possible_side_effect"
	KeyLocation           = "location"
)

var contextKeys = []string{
	KeyQuantity,
	KeyLength,
	KeyType,
	KeyName,
	KeyStrengthOrVolume,
	KeyRoute,
	KeyCap,
	KeyPossibleSideEffect,
	KeyLocation,
}

// AnswerContext is the per-request fact sheet handed to the synthesizer.
type AnswerContext map[string]any

// BuildAnswerContext combines a supply row with the aggregate of its stock rows.
func BuildAnswerContext(item inventory.Item, stock []inventory.StockEntry) AnswerContext {
	summary := inventory.Summarize(stock)
	return AnswerContext{
		KeyQuantity:           summary.Quantity,
		KeyLength:             summary.Packages,
		KeyType:               item.Type,
		KeyName:               item.Name,
		KeyStrengthOrVolume:   item.StrengthOrVolume,
		KeyRoute:              item.RouteOfUse,
		KeyCap:                item.QuantityInPack,
		KeyPossibleSideEffect: item.PossibleSideEffect,
		KeyLocation:           item.Location,
	}
}

// Missing lists the required keys the context lacks, in canonical order.
func (c AnswerContext) Missing() []string {
	var missing []string
	for _, key := range contextKeys {
		if _, ok := c[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Render encodes the context as JSON with sorted keys.
func (c AnswerContext) Render() (string, error) {
	raw, err := json.Marshal(map[string]any(c))
	if err != nil {
		return "", fmt.Errorf("encode answer context: %w", err)
	}
	return string(raw), nil
}
