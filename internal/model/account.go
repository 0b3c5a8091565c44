package model

import "fmt"

// Category classifies the identity context an account represents.
type Category string

const (
	CategoryPersonal     Category = "personal"
	CategoryProfessional Category = "professional"
	CategoryAssociation  Category = "association"
)

// ParseCategory converts a configuration value into a Category.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryPersonal, CategoryProfessional, CategoryAssociation:
		return c, nil
	}
	return "", fmt.Errorf("unknown account category %q", s)
}

// PostalAddress is the physical delivery address of an account.
type PostalAddress struct {
	Street     string `mapstructure:"street" yaml:"street"`
	City       string `mapstructure:"city" yaml:"city"`
	PostalCode string `mapstructure:"postal_code" yaml:"postal_code"`
	Country    string `mapstructure:"country" yaml:"country"`

	// Label is the human-readable form printed on envelopes.
	Label string `mapstructure:"label" yaml:"label"`

	// TrackingCode is the QR/tracking code attached to the address.
	TrackingCode string `mapstructure:"tracking_code" yaml:"tracking_code"`
}

// String renders the address on a single line.
func (a PostalAddress) String() string {
	if a.Street == "" && a.City == "" {
		return a.Label
	}
	return fmt.Sprintf("%s, %s %s, %s", a.Street, a.PostalCode, a.City, a.Country)
}

// Account is an identity context the user can act as. Accounts are
// immutable once loaded.
type Account struct {
	ID       string        `mapstructure:"id" yaml:"id"`
	Name     string        `mapstructure:"name" yaml:"name"`
	Category Category      `mapstructure:"category" yaml:"category"`
	Address  PostalAddress `mapstructure:"address" yaml:"address"`
	Email    string        `mapstructure:"email" yaml:"email"`
}
