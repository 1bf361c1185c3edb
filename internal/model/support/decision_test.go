package support

import "testing"

func TestParseDecisionAction(t *testing.T) {
	raw := `{"type":"action","function":"kargo_iptal","parameters":{"siparis_no":"123456"}}`

	dec, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision: %v", err)
	}
	if dec.Type != DecisionAction {
		t.Errorf("Type = %q, want action", dec.Type)
	}
	if dec.Function != "kargo_iptal" {
		t.Errorf("Function = %q", dec.Function)
	}
	if dec.Parameters["siparis_no"] != "123456" {
		t.Errorf("Parameters = %v", dec.Parameters)
	}
}

func TestParseDecisionChat(t *testing.T) {
	dec, err := ParseDecision(`{"type":"chat","reply":"Merhaba, size nasıl yardımcı olabilirim?"}`)
	if err != nil {
		t.Fatalf("ParseDecision: %v", err)
	}
	if dec.Type != DecisionChat || dec.Reply == "" {
		t.Errorf("unexpected decision: %+v", dec)
	}
}

func TestParseDecisionFenced(t *testing.T) {
	raw := "```json\n{\"type\":\"chat\",\"reply\":\"Tabii.\"}\n```"

	dec, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision: %v", err)
	}
	if dec.Reply != "Tabii." {
		t.Errorf("Reply = %q", dec.Reply)
	}
}

func TestParseDecisionRejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not json", "kargonuz yolda"},
		{"unknown type", `{"type":"tool_call","function":"kargo_iptal"}`},
		{"action without function", `{"type":"action","parameters":{}}`},
		{"chat without reply", `{"type":"chat"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseDecision(tc.raw); err == nil {
				t.Errorf("ParseDecision(%q) accepted invalid input", tc.raw)
			}
		})
	}
}
