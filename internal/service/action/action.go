package action

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kargotek/destek/backend/internal/model/shipment"
	"github.com/kargotek/destek/backend/internal/service/estimate"
)

// Action names the resolver may emit. The registry is fixed: anything
// else is surfaced internally as ErrUnknownAction, never a crash.
const (
	ActionStatus           = "siparis_durumu"
	ActionCancel           = "kargo_iptal"
	ActionReturn           = "iade_talebi"
	ActionDamage           = "hasar_bildirimi"
	ActionUpdateAddress    = "adres_guncelleme"
	ActionUpdateRecipient  = "alici_adres_guncelleme"
	ActionComplaint        = "sikayet_olustur"
	ActionBranchInfo       = "sube_bilgisi"
	ActionDeliveryEstimate = "teslimat_tahmini"
)

var (
	ErrUnknownAction        = errors.New("unknown action")
	ErrVerificationRequired = errors.New("action requires a verified identity")
)

// Kind classifies an action outcome.
type Kind int

const (
	KindSuccess Kind = iota
	KindRejected
	KindNeedsInput
	// KindNotFound is a failed account-data lookup; the orchestrator
	// counts it against the lockout threshold.
	KindNotFound
)

// Outcome is the transient result of dispatching one action. Message is
// the business fact handed to response composition; it never names which
// factor of a lookup missed.
type Outcome struct {
	Kind         Kind
	Message      string
	MissingField string
	TicketID     int64
}

// Identity is the verified caller context dispatch runs under, taken
// from the session, never from the request.
type Identity struct {
	Verified   bool
	TrackingNo string
	CustomerID int64
	Role       shipment.Role
}

// Params carries the resolver-extracted action parameters.
type Params map[string]string

// Get returns a trimmed parameter value.
func (p Params) Get(key string) string {
	if p == nil {
		return ""
	}
	return trimmed(p[key])
}

type handlerFunc func(ctx context.Context, id Identity, p Params) (Outcome, error)

type entry struct {
	requiresVerified bool
	run              handlerFunc
}

// Registry is the fixed table of named actions. Preconditions always read
// the current shipment state fresh from storage.
type Registry struct {
	store     shipment.Store
	estimator *estimate.Estimator
	actions   map[string]entry
}

// NewRegistry builds the action table. The estimator may be nil; the
// delivery-estimate action then rejects with a service-unavailable fact.
func NewRegistry(store shipment.Store, estimator *estimate.Estimator) *Registry {
	r := &Registry{store: store, estimator: estimator}
	r.actions = map[string]entry{
		ActionStatus:           {requiresVerified: true, run: r.statusLookup},
		ActionCancel:           {requiresVerified: true, run: r.cancel},
		ActionReturn:           {requiresVerified: true, run: r.returnRequest},
		ActionDamage:           {requiresVerified: true, run: r.damageClaim},
		ActionUpdateAddress:    {requiresVerified: true, run: r.updateOwnAddress},
		ActionUpdateRecipient:  {requiresVerified: true, run: r.updateRecipientAddress},
		ActionComplaint:        {requiresVerified: true, run: r.complaint},
		ActionBranchInfo:       {requiresVerified: false, run: r.branchInfo},
		ActionDeliveryEstimate: {requiresVerified: false, run: r.deliveryEstimate},
	}
	return r
}

// RequiresVerification reports whether the named action needs a verified
// identity.
func (r *Registry) RequiresVerification(name string) bool {
	return r.actions[name].requiresVerified
}

// Known reports whether the action name is registered.
func (r *Registry) Known(name string) bool {
	_, ok := r.actions[name]
	return ok
}

// Dispatch runs the named action. A non-nil error is an internal or
// collaborator failure; business refusals come back as Outcome kinds.
func (r *Registry) Dispatch(ctx context.Context, name string, id Identity, p Params) (Outcome, error) {
	e, ok := r.actions[name]
	if !ok {
		log.Printf("[action] resolver produced unregistered action %q", name)
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	if e.requiresVerified && !id.Verified {
		return Outcome{}, ErrVerificationRequired
	}
	return e.run(ctx, id, p)
}
