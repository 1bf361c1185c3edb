package session

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/kargotek/destek/backend/internal/model/support"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGetOrCreateDefaults(t *testing.T) {
	store := NewStore()

	sess := store.GetOrCreate("s1")
	if sess.ID != "s1" {
		t.Errorf("ID = %q, want s1", sess.ID)
	}
	if sess.Verified {
		t.Error("new session must start unverified")
	}
	if got := sess.State(); got != support.StateUnverified {
		t.Errorf("State = %q, want %q", got, support.StateUnverified)
	}
	if len(sess.History) != 0 {
		t.Errorf("new session has %d history entries", len(sess.History))
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}

	// Same id returns the same session, not a second one.
	store.GetOrCreate("s1")
	if store.Len() != 1 {
		t.Errorf("Len after repeat GetOrCreate = %d, want 1", store.Len())
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	store := NewStore()
	store.Update("s1", func(s *support.Session) {
		s.AppendTurn("merhaba", "size nasıl yardımcı olabilirim?")
	})

	snap := store.GetOrCreate("s1")
	snap.History[0].Content = "mutated"
	snap.Pending.Name = "mutated"

	fresh := store.GetOrCreate("s1")
	if fresh.History[0].Content != "merhaba" {
		t.Error("mutating a snapshot leaked into the store")
	}
	if fresh.Pending.Name != "" {
		t.Error("mutating a snapshot's slots leaked into the store")
	}
}

func TestUpdateIsAtomic(t *testing.T) {
	store := NewStore()

	got := store.Update("s1", func(s *support.Session) {
		s.SetIdentity("123456", 7, "Zeynep Yılmaz", "gonderici")
		s.AppendTurn("kargom nerede", "kargonuz dağıtımda")
	})

	if !got.Verified || got.TrackingNo != "123456" || got.CustomerID != 7 {
		t.Errorf("returned snapshot missing the mutation: %+v", got)
	}
	if len(got.History) != 2 {
		t.Errorf("history = %d entries, want 2", len(got.History))
	}
	if got.LastSeen.IsZero() {
		t.Error("Update must stamp LastSeen")
	}
}

func TestConcurrentUpdatesSameSession(t *testing.T) {
	store := NewStore()
	const turns = 4

	var g errgroup.Group
	for i := 0; i < turns; i++ {
		i := i
		g.Go(func() error {
			store.Update("s1", func(s *support.Session) {
				s.AppendTurn(fmt.Sprintf("soru %d", i), fmt.Sprintf("cevap %d", i))
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	sess := store.GetOrCreate("s1")
	if len(sess.History) != 2*turns {
		t.Errorf("history = %d entries, want %d", len(sess.History), 2*turns)
	}
	// User/agent pairs stay adjacent under interleaving.
	for i := 0; i < len(sess.History); i += 2 {
		if sess.History[i].Sender != "user" || sess.History[i+1].Sender != "agent" {
			t.Fatalf("entry %d: pair order broken: %s/%s", i, sess.History[i].Sender, sess.History[i+1].Sender)
		}
	}
}

func TestHistoryCapUnderLoad(t *testing.T) {
	store := NewStore()

	var g errgroup.Group
	for i := 0; i < 25; i++ {
		i := i
		g.Go(func() error {
			store.Update("s1", func(s *support.Session) {
				s.AppendTurn(fmt.Sprintf("soru %d", i), "tamam")
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if got := len(store.GetOrCreate("s1").History); got != support.HistoryLimit {
		t.Errorf("history = %d entries, want cap %d", got, support.HistoryLimit)
	}
}

func TestKeepForeverNeverEvicts(t *testing.T) {
	store := NewStore()
	store.GetOrCreate("old")
	time.Sleep(5 * time.Millisecond)

	store.GetOrCreate("new")
	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}
}

func TestIdleTimeoutEvicts(t *testing.T) {
	store := NewStore(WithEvictionPolicy(IdleTimeout{After: time.Millisecond}))
	store.GetOrCreate("old")
	time.Sleep(10 * time.Millisecond)

	// The sweep runs on the next access.
	store.GetOrCreate("new")
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1 after idle sweep", store.Len())
	}
}
