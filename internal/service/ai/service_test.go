package ai

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kargotek/destek/backend/internal/model/shipment"
	"github.com/kargotek/destek/backend/internal/model/support"
)

func TestResolverSystemPrompt(t *testing.T) {
	prompt := resolverSystemPrompt(nil)
	if !strings.Contains(prompt, "siparis_durumu") || !strings.Contains(prompt, "teslimat_tahmini") {
		t.Error("prompt must list the action contract")
	}
	if !strings.Contains(prompt, "henüz doğrulanmadı") {
		t.Error("nil session must render as unverified")
	}

	sess := &support.Session{}
	sess.SetIdentity("123456", 1001, "Zeynep Yılmaz", shipment.RoleSender)
	prompt = resolverSystemPrompt(sess)
	if !strings.Contains(prompt, "Zeynep Yılmaz") || !strings.Contains(prompt, "123456") {
		t.Errorf("verified context missing from prompt:\n%s", prompt)
	}
}

func TestHistoryMessages(t *testing.T) {
	if got := historyMessages(nil); got != nil {
		t.Errorf("historyMessages(nil) = %v, want nil", got)
	}

	sess := &support.Session{}
	sess.AppendTurn("kargom nerede", "takip numaranızı alabilir miyim")

	msgs := historyMessages(sess)
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "kargom nerede" || msgs[1].Content != "takip numaranızı alabilir miyim" {
		t.Errorf("unexpected contents: %q / %q", msgs[0].Content, msgs[1].Content)
	}
	if string(msgs[0].Role) != "user" || string(msgs[1].Role) != "assistant" {
		t.Errorf("unexpected roles: %s / %s", msgs[0].Role, msgs[1].Role)
	}
}

func TestHistoryMessagesBounded(t *testing.T) {
	sess := &support.Session{}
	for i := 0; i < 12; i++ {
		sess.AppendTurn(fmt.Sprintf("soru %d", i), fmt.Sprintf("cevap %d", i))
	}

	msgs := historyMessages(sess)
	if len(msgs) != historyLimit {
		t.Errorf("len = %d, want %d", len(msgs), historyLimit)
	}
}
