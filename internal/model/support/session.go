package support

import (
	"time"

	"github.com/kargotek/destek/backend/internal/model/shipment"
)

// HistoryLimit caps the turn records a session keeps; older entries are
// evicted first.
const HistoryLimit = 10

// State is the verification phase of a session. LOCKED_OUT is deliberately
// absent: lockout is an ephemeral signal that collapses back to UNVERIFIED.
type State string

const (
	StateUnverified State = "UNVERIFIED"
	StateVerifying  State = "VERIFYING"
	StateVerified   State = "VERIFIED"
)

// TurnRecord is one half of a conversational turn kept in session history.
type TurnRecord struct {
	Sender    string    `json:"sender"` // "user" | "agent"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Slots is the partial verification input collected across turns.
// Fields fill in the fixed order name, order number, phone.
type Slots struct {
	Name    string `json:"name,omitempty"`
	OrderNo string `json:"orderNo,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Slot field names, also the targeted follow-up order.
const (
	SlotName    = "name"
	SlotOrderNo = "orderNo"
	SlotPhone   = "phone"
)

// NextMissing returns the first unfilled slot in fixed order, or "" when
// all three are present.
func (s Slots) NextMissing() string {
	switch {
	case s.Name == "":
		return SlotName
	case s.OrderNo == "":
		return SlotOrderNo
	case s.Phone == "":
		return SlotPhone
	default:
		return ""
	}
}

// Complete reports whether all three verification factors are present.
func (s Slots) Complete() bool { return s.NextMissing() == "" }

// Empty reports whether no slot has been collected yet.
func (s Slots) Empty() bool { return s == Slots{} }

// Session is the per-conversation state owned by the session store.
// Identity fields (TrackingNo, CustomerID, CustomerName, Role) are only
// ever set together by a single successful verification.
type Session struct {
	ID                  string
	History             []TurnRecord
	Verified            bool
	TrackingNo          string
	CustomerID          int64
	CustomerName        string
	Role                shipment.Role
	ConsecutiveFailures int
	Pending             Slots
	PendingAction       string
	PendingParams       map[string]string
	CreatedAt           time.Time
	LastSeen            time.Time
}

// State derives the verification phase from the session fields.
func (s *Session) State() State {
	switch {
	case s.Verified:
		return StateVerified
	case !s.Pending.Empty() || s.PendingAction != "":
		return StateVerifying
	default:
		return StateUnverified
	}
}

// AppendTurn records a user message and the produced reply, trimming
// history to the most recent HistoryLimit entries.
func (s *Session) AppendTurn(userMessage, reply string) {
	now := time.Now().UTC()
	s.History = append(s.History,
		TurnRecord{Sender: "user", Content: userMessage, CreatedAt: now},
		TurnRecord{Sender: "agent", Content: reply, CreatedAt: now},
	)
	if overflow := len(s.History) - HistoryLimit; overflow > 0 {
		s.History = s.History[overflow:]
	}
}

// SetIdentity stores a verification result. The four identity fields and
// the failure counter change together, never independently.
func (s *Session) SetIdentity(trackingNo string, customerID int64, fullName string, role shipment.Role) {
	s.Verified = true
	s.TrackingNo = trackingNo
	s.CustomerID = customerID
	s.CustomerName = fullName
	s.Role = role
	s.ConsecutiveFailures = 0
	s.Pending = Slots{}
}

// ClearPending drops collected slots and any action waiting on
// verification; the caller must restate all three factors.
func (s *Session) ClearPending() {
	s.Pending = Slots{}
	s.PendingAction = ""
	s.PendingParams = nil
}

// Clone returns a deep copy safe to use outside the store lock.
func (s *Session) Clone() Session {
	out := *s
	out.History = append([]TurnRecord(nil), s.History...)
	if s.PendingParams != nil {
		out.PendingParams = make(map[string]string, len(s.PendingParams))
		for k, v := range s.PendingParams {
			out.PendingParams[k] = v
		}
	}
	return out
}
