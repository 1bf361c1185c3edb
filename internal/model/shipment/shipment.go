package shipment

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups when no record matches. Callers must
// not surface which part of a multi-field query missed.
var ErrNotFound = errors.New("record not found")

// Status mirrors the carrier's movement codes.
type Status string

const (
	StatusPreparing      Status = "HAZIRLANIYOR"
	StatusTransfer       Status = "TRANSFER"
	StatusOutForDelivery Status = "DAGITIMDA"
	StatusDelivered      Status = "TESLIM_EDILDI"
	StatusCancelled      Status = "IPTAL_EDILDI"
)

// Role identifies which party of an order a customer is.
type Role string

const (
	RoleSender   Role = "gonderici"
	RoleReceiver Role = "alici"
)

// TicketKind selects the ticket table a record is written to.
type TicketKind string

const (
	TicketReturn    TicketKind = "iade"
	TicketDamage    TicketKind = "hasar"
	TicketComplaint TicketKind = "sikayet"
)

// InitialStatus returns the status a freshly created ticket carries.
func (k TicketKind) InitialStatus() string {
	switch k {
	case TicketReturn:
		return "ONAY_BEKLIYOR"
	case TicketDamage:
		return "INCELEMEDE"
	default:
		return "ACIK"
	}
}

// TrackingInfo is the current state of a shipment as read from storage.
// Never cached in a session; every precondition check reads it fresh.
type TrackingInfo struct {
	OrderNo           string  `json:"orderNo"`
	Status            Status  `json:"status"`
	EstimatedDelivery string  `json:"estimatedDelivery"`
	Address           string  `json:"address"`
	Product           string  `json:"product,omitempty"`
	Courier           Courier `json:"courier,omitempty"`
}

// Courier carries the delivery courier shown on a status lookup.
type Courier struct {
	Name   string  `json:"name,omitempty"`
	Phone  string  `json:"phone,omitempty"`
	Rating float64 `json:"rating,omitempty"`
}

// Party is the match produced by an order-party lookup: the customer who
// is either the sender or the receiver of the order.
type Party struct {
	CustomerID int64
	FullName   string
	Role       Role
	NotifyVia  string
}

// Branch describes a physical branch office.
type Branch struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	District string `json:"district"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Hours    string `json:"hours"`
}

// Store is the storage collaborator contract the dispatcher and verifier
// depend on. Implementations own the schema; callers only hold identifiers.
type Store interface {
	LookupShipmentStatus(ctx context.Context, trackingNo string) (TrackingInfo, error)
	LookupOrderParty(ctx context.Context, orderNo, phone string) (Party, error)
	CreateTicket(ctx context.Context, kind TicketKind, orderNo string, customerID int64, detail string) (int64, error)
	UpdateAddress(ctx context.Context, orderNo, newAddress string) error
	SetStatus(ctx context.Context, orderNo string, status Status) error
	LookupBranch(ctx context.Context, city, district string) (Branch, error)
}
