package models

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the persisted vehicle category tag (the tipo_veiculo field).
type Category string

// Supported vehicle categories. Values are the stored wire strings.
const (
	CategoryCar        Category = "Carro"
	CategoryMotorcycle Category = "Moto"
	CategoryTruck      Category = "Caminhão"
	CategoryVan        Category = "Van"
	CategoryBicycle    Category = "Bicicleta"
)

// ErrUnknownCategory is returned when a category string cannot be resolved.
var ErrUnknownCategory = errors.New("unknown vehicle category")

// Categories lists every category in display order.
var Categories = []Category{
	CategoryCar,
	CategoryMotorcycle,
	CategoryTruck,
	CategoryVan,
	CategoryBicycle,
}

var categoryLabels = map[Category]string{
	CategoryCar:        "Car",
	CategoryMotorcycle: "Motorcycle",
	CategoryTruck:      "Truck",
	CategoryVan:        "Van",
	CategoryBicycle:    "Bicycle",
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the english display name.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseCategory resolves either the stored value ("Caminhão") or the english
// label ("truck"), ignoring case and surrounding spaces.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(raw, string(c)) || strings.EqualFold(raw, c.Label()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}
