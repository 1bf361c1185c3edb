package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kargotek/destek/backend/internal/model/shipment"
)

// Failure reasons kept for logs and tests. They are never shown to the
// end user: the caller emits one generic mismatch message regardless of
// which factor disagreed.
const (
	ReasonNoMatch      = "no match"
	ReasonNameMismatch = "name mismatch"
)

// Result is the transient outcome of a verification attempt.
type Result struct {
	Verified   bool
	OrderNo    string
	CustomerID int64
	FullName   string
	Role       shipment.Role
	NotifyVia  string
	Reason     string
}

// Verifier matches a (order number, name, phone) triple against order
// records.
type Verifier struct {
	store shipment.Store
}

// NewVerifier returns a Verifier backed by the given storage collaborator.
func NewVerifier(store shipment.Store) *Verifier {
	return &Verifier{store: store}
}

// Verify normalizes the triple and matches it against storage. A non-nil
// error means the storage collaborator itself failed; a failed match is a
// Result with Verified=false and an internal Reason.
func (v *Verifier) Verify(ctx context.Context, orderNo, name, phone string) (Result, error) {
	orderNo = strings.TrimSpace(orderNo)
	party, err := v.store.LookupOrderParty(ctx, orderNo, NormalizePhone(phone))
	if errors.Is(err, shipment.ErrNotFound) {
		return Result{Reason: ReasonNoMatch}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("order party lookup: %w", err)
	}

	if !strings.Contains(FoldName(party.FullName), FoldName(name)) {
		return Result{Reason: ReasonNameMismatch}, nil
	}

	return Result{
		Verified:   true,
		OrderNo:    orderNo,
		CustomerID: party.CustomerID,
		FullName:   party.FullName,
		Role:       party.Role,
		NotifyVia:  party.NotifyVia,
	}, nil
}
