package support

import (
	"fmt"
	"testing"

	"github.com/kargotek/destek/backend/internal/model/shipment"
)

func TestSlotsFixedOrder(t *testing.T) {
	var s Slots
	if got := s.NextMissing(); got != SlotName {
		t.Errorf("NextMissing = %q, want name first", got)
	}
	s.Name = "Zeynep"
	if got := s.NextMissing(); got != SlotOrderNo {
		t.Errorf("NextMissing = %q, want orderNo second", got)
	}
	s.OrderNo = "123456"
	if got := s.NextMissing(); got != SlotPhone {
		t.Errorf("NextMissing = %q, want phone third", got)
	}
	s.Phone = "5551112233"
	if !s.Complete() {
		t.Error("all slots filled but Complete is false")
	}

	// Phone arriving before orderNo still asks for orderNo next.
	s = Slots{Name: "Zeynep", Phone: "5551112233"}
	if got := s.NextMissing(); got != SlotOrderNo {
		t.Errorf("NextMissing = %q, want orderNo", got)
	}
}

func TestSessionStateDerivation(t *testing.T) {
	sess := &Session{ID: "s1"}
	if got := sess.State(); got != StateUnverified {
		t.Errorf("State = %q, want UNVERIFIED", got)
	}

	sess.Pending.Name = "Zeynep"
	if got := sess.State(); got != StateVerifying {
		t.Errorf("State = %q, want VERIFYING with a pending slot", got)
	}

	sess.Pending = Slots{}
	sess.PendingAction = "kargo_iptal"
	if got := sess.State(); got != StateVerifying {
		t.Errorf("State = %q, want VERIFYING with a pending action", got)
	}

	sess.SetIdentity("123456", 1, "Zeynep Yılmaz", shipment.RoleSender)
	if got := sess.State(); got != StateVerified {
		t.Errorf("State = %q, want VERIFIED", got)
	}
}

func TestSetIdentityResetsCounters(t *testing.T) {
	sess := &Session{ID: "s1", ConsecutiveFailures: 2, Pending: Slots{Name: "Zeynep"}}

	sess.SetIdentity("123456", 1, "Zeynep Yılmaz", shipment.RoleSender)

	if sess.ConsecutiveFailures != 0 {
		t.Error("verification must reset the failure counter")
	}
	if !sess.Pending.Empty() {
		t.Error("verification must clear collected slots")
	}
	if sess.TrackingNo != "123456" || sess.CustomerID != 1 || sess.CustomerName != "Zeynep Yılmaz" || sess.Role != shipment.RoleSender {
		t.Errorf("identity fields not set together: %+v", sess)
	}
}

func TestClearPending(t *testing.T) {
	sess := &Session{
		Pending:       Slots{Name: "Zeynep", OrderNo: "123456"},
		PendingAction: "kargo_iptal",
		PendingParams: map[string]string{"siparis_no": "123456"},
	}

	sess.ClearPending()

	if !sess.Pending.Empty() || sess.PendingAction != "" || sess.PendingParams != nil {
		t.Errorf("ClearPending left state behind: %+v", sess)
	}
}

func TestAppendTurnCapsHistory(t *testing.T) {
	sess := &Session{ID: "s1"}
	for i := 0; i < 8; i++ {
		sess.AppendTurn(fmt.Sprintf("soru %d", i), fmt.Sprintf("cevap %d", i))
	}

	if len(sess.History) != HistoryLimit {
		t.Fatalf("history = %d entries, want %d", len(sess.History), HistoryLimit)
	}
	// Oldest entries go first: the window starts at turn 3.
	if sess.History[0].Content != "soru 3" {
		t.Errorf("oldest entry = %q, want soru 3", sess.History[0].Content)
	}
	if last := sess.History[len(sess.History)-1]; last.Content != "cevap 7" || last.Sender != "agent" {
		t.Errorf("newest entry = %+v", last)
	}
}

func TestCloneIsDeep(t *testing.T) {
	sess := &Session{ID: "s1", PendingParams: map[string]string{"konu": "gecikme"}}
	sess.AppendTurn("merhaba", "buyrun")

	clone := sess.Clone()
	clone.History[0].Content = "mutated"
	clone.PendingParams["konu"] = "mutated"

	if sess.History[0].Content != "merhaba" {
		t.Error("clone shares history backing array")
	}
	if sess.PendingParams["konu"] != "gecikme" {
		t.Error("clone shares params map")
	}
}
