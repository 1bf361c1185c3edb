package orchestrator

import (
	"fmt"

	"github.com/kargotek/destek/backend/internal/model/support"
)

// Canned user-facing messages. Verification failures stay deliberately
// generic: the reply never reveals which factor disagreed.
const (
	msgApology  = "Üzgünüm, şu anda size yardımcı olamıyorum. Lütfen birazdan tekrar deneyin."
	msgLockout  = "Sistemde numaranızı bulamadım. Lütfen uygulama bildirimlerinizi kontrol edin."
	msgNotFound = "Aradığınız kayda ulaşamadım."
)

func msgRetry(attempt, threshold int) string {
	return fmt.Sprintf(
		"Bilgileriniz kayıtlarımızla eşleşmedi (deneme %d/%d). Lütfen ad soyad, sipariş numarası ve telefon numaranızı birlikte tekrar paylaşır mısınız?",
		attempt, threshold)
}

func msgVerified(fullName string) string {
	return fmt.Sprintf("Teşekkürler %s, kimliğinizi doğruladım. Size nasıl yardımcı olabilirim?", fullName)
}

// slotPrompts are the targeted follow-ups asked one at a time, in the
// fixed order name, order number, phone.
var slotPrompts = map[string]string{
	support.SlotName:    "Size yardımcı olabilmem için önce kimliğinizi doğrulamam gerekiyor. Adınızı ve soyadınızı alabilir miyim?",
	support.SlotOrderNo: "Teşekkürler. Sipariş ya da takip numaranızı alabilir miyim?",
	support.SlotPhone:   "Son olarak siparişte kayıtlı telefon numaranızı alabilir miyim?",
}
