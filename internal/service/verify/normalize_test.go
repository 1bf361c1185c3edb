package verify

import (
	"strings"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5551112233", "5551112233"},
		{"0555 111 22 33", "5551112233"},
		{"0555-111-22-33", "5551112233"},
		{"555 111 22 33", "5551112233"},
		{"05551112233", "5551112233"},
		// A doubled trunk zero still collapses in one pass.
		{"00555 111 22 33", "5551112233"},
		// Longer than ten digits but no trunk zero: left alone.
		{"905551112233", "905551112233"},
		// Ten digits starting with zero: not a trunk prefix.
		{"0551112233", "0551112233"},
	}

	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"0555 111 22 33", "5551112233", "0555-111-22-33", "905551112233", "00555 111 22 33"}
	for _, in := range inputs {
		once := NormalizePhone(in)
		if twice := NormalizePhone(once); twice != once {
			t.Errorf("NormalizePhone not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestFoldName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Zeynep Yılmaz", "zeynep yilmaz"},
		{"DOĞA ECE KOCA", "doga ece koca"},
		{"Çağrı Üşümüş", "cagri usumus"},
		{"İsmail", "ismail"},
		{"  Can Demir  ", "can demir"},
	}

	for _, tc := range cases {
		if got := FoldName(tc.in); got != tc.want {
			t.Errorf("FoldName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFoldNameSubstringMatch(t *testing.T) {
	stored := FoldName("Zeynep Yılmaz")

	if !strings.Contains(stored, FoldName("zeynep")) {
		t.Error("expected \"zeynep\" to match stored \"Zeynep Yılmaz\"")
	}
	if !strings.Contains(stored, FoldName("YILMAZ")) {
		t.Error("expected \"YILMAZ\" to match stored \"Zeynep Yılmaz\"")
	}
	// Word order matters: the supplied name must appear as-is.
	if strings.Contains(stored, FoldName("can zeynep")) {
		t.Error("did not expect \"can zeynep\" to match stored \"Zeynep Yılmaz\"")
	}
}
