package ai

import (
	"fmt"
	"strings"

	"github.com/kargotek/destek/backend/internal/model/support"
)

const resolverContract = `Sen bir kargo şirketinin müşteri destek asistanısın. Kullanıcı mesajını
incele ve SADECE tek bir JSON nesnesi üret, başka hiçbir şey yazma.

İki şekil geçerlidir:
  {"type":"chat","reply":"<Türkçe doğal yanıt>"}
  {"type":"action","function":"<fonksiyon>","parameters":{...}}

Fonksiyonlar ve parametreleri:
  siparis_durumu          — kargo durumu sorgulama
  kargo_iptal             — kargo iptali
  iade_talebi             — iade talebi, opsiyonel "sebep"
  hasar_bildirimi         — hasar bildirimi, "hasar_tipi" (kırık/ezik/ıslak)
  adres_guncelleme        — kendi teslimat adresi, "yeni_adres" (tam adres)
  alici_adres_guncelleme  — alıcının adresi, "yeni_adres" (tam adres)
  sikayet_olustur         — şikayet kaydı, "konu"
  sube_bilgisi            — şube bilgisi, "il" ve opsiyonel "ilce"
  teslimat_tahmini        — süre tahmini, "mesafe" (mil) ve "agirlik" (kg)

Kullanıcı kimlik bilgisi verdiyse parametre olarak ekle: "ad_soyad",
"siparis_no", "telefon". Sohbet, selamlaşma ve kapsam dışı sorular için
"chat" kullan.`

const composerContract = `Sen bir kargo şirketinin müşteri destek asistanısın. Aşağıdaki sistem
bilgisini kullanıcının mesajına kibar, doğal ve kısa bir Türkçe yanıta
dönüştür. Bilgiyi değiştirme, yeni bilgi uydurma.

Sistem bilgisi: %s`

// resolverSystemPrompt renders the action contract plus the caller's
// current verification context.
func resolverSystemPrompt(sess *support.Session) string {
	var b strings.Builder
	b.WriteString(resolverContract)
	if sess != nil && sess.Verified {
		fmt.Fprintf(&b, "\n\nGörüşülen müşteri doğrulandı: %s, sipariş no %s, rol %s.",
			sess.CustomerName, sess.TrackingNo, sess.Role)
	} else {
		b.WriteString("\n\nGörüşülen müşteri henüz doğrulanmadı.")
	}
	return b.String()
}
