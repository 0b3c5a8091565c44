package model

import (
	"fmt"
	"time"
)

// ParcelStatus is the delivery state of a parcel. Transitions are driven
// by the carrier, never by the user.
type ParcelStatus string

const (
	ParcelPending   ParcelStatus = "pending"
	ParcelTransit   ParcelStatus = "transit"
	ParcelDelivered ParcelStatus = "delivered"
	ParcelAvailable ParcelStatus = "available"
)

// ParseParcelStatus converts a stored value into a ParcelStatus.
func ParseParcelStatus(s string) (ParcelStatus, error) {
	switch st := ParcelStatus(s); st {
	case ParcelPending, ParcelTransit, ParcelDelivered, ParcelAvailable:
		return st, nil
	}
	return "", fmt.Errorf("unknown parcel status %q", s)
}

// Label returns the display name of the status.
func (s ParcelStatus) Label() string {
	switch s {
	case ParcelPending:
		return "Pending"
	case ParcelTransit:
		return "In transit"
	case ParcelDelivered:
		return "Delivered"
	case ParcelAvailable:
		return "Ready for pickup"
	default:
		return string(s)
	}
}

// Parcel is a tracked physical shipment owned by one account.
type Parcel struct {
	ID                string       `json:"id"`
	AccountID         string       `json:"account_id"`
	TrackingNumber    string       `json:"tracking_number"`
	Sender            string       `json:"sender"`
	Description       string       `json:"description"`
	Status            ParcelStatus `json:"status"`
	EstimatedDelivery *time.Time   `json:"estimated_delivery,omitempty"`
}
