package sentiment

import "strings"

// Label is the mood bucket a user utterance falls into.
type Label string

const (
	Neutral  Label = "notr"
	Positive Label = "pozitif"
	Negative Label = "negatif"
)

var keywordBuckets = map[Label][]string{
	Positive: {
		"teşekkür", "tesekkur", "sağ ol", "sagol", "harika", "süper", "super",
		"mükemmel", "mukemmel", "çok iyi", "cok iyi", "memnun", "güzel", "guzel",
		"eline sağlık", "bravo", "thanks", "great",
	},
	Negative: {
		"rezalet", "berbat", "şikayet", "sikayet", "kızgın", "kizgin", "sinir",
		"bıktım", "biktim", "mağdur", "magdur", "geç kaldı", "gec kaldi",
		"gecikti", "kırık", "kirik", "hasar", "kayıp", "kayip", "iğrenç", "igrenc",
		"çok kötü", "cok kotu", "skandal", "utanç", "utanc", "asla",
	},
}

// Analyze scores a user utterance by keyword hits and returns the
// dominant mood, Neutral on a tie or no hit.
func Analyze(text string) Label {
	folded := strings.ToLower(strings.TrimSpace(text))
	if folded == "" {
		return Neutral
	}

	scores := map[Label]int{}
	for label, keywords := range keywordBuckets {
		for _, kw := range keywords {
			if strings.Contains(folded, kw) {
				scores[label]++
			}
		}
	}
	// Exclamation marks amplify whichever mood is already present.
	if bangs := strings.Count(folded, "!"); bangs > 1 {
		for label := range scores {
			scores[label]++
		}
	}

	switch {
	case scores[Negative] > scores[Positive]:
		return Negative
	case scores[Positive] > scores[Negative] && scores[Positive] > 0:
		return Positive
	default:
		return Neutral
	}
}

// Prefix returns the empathy lead-in the composed reply is prefixed with.
func Prefix(label Label) string {
	switch label {
	case Negative:
		return "Çok üzgünüm, sizi anlıyorum. "
	case Positive:
		return "Harika! "
	default:
		return ""
	}
}
