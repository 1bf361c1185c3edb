package action

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kargotek/destek/backend/internal/model/shipment"
)

func trimmed(s string) string { return strings.TrimSpace(s) }

func (r *Registry) statusLookup(ctx context.Context, id Identity, _ Params) (Outcome, error) {
	info, err := r.store.LookupShipmentStatus(ctx, id.TrackingNo)
	if errors.Is(err, shipment.ErrNotFound) {
		return Outcome{Kind: KindNotFound}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	msg := fmt.Sprintf("%s numaralı kargonuzun durumu: %s. Tahmini teslim tarihi %s, teslim adresi %s.",
		info.OrderNo, statusText(info.Status), info.EstimatedDelivery, info.Address)
	if info.Status == shipment.StatusOutForDelivery && info.Courier.Name != "" {
		msg += fmt.Sprintf(" Kuryeniz %s (puan %.1f), telefon %s.",
			info.Courier.Name, info.Courier.Rating, info.Courier.Phone)
	}
	return Outcome{Kind: KindSuccess, Message: msg}, nil
}

func (r *Registry) cancel(ctx context.Context, id Identity, _ Params) (Outcome, error) {
	info, err := r.store.LookupShipmentStatus(ctx, id.TrackingNo)
	if errors.Is(err, shipment.ErrNotFound) {
		return Outcome{Kind: KindNotFound}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	switch info.Status {
	case shipment.StatusDelivered:
		return Outcome{Kind: KindRejected,
			Message: "Kargonuz teslim edilmiş durumda, bu aşamada iptal edilemez. İsterseniz iade talebi oluşturabilirsiniz."}, nil
	case shipment.StatusCancelled:
		return Outcome{Kind: KindRejected,
			Message: "Bu kargo zaten iptal edilmiş görünüyor."}, nil
	}

	if err := r.store.SetStatus(ctx, info.OrderNo, shipment.StatusCancelled); err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: KindSuccess,
		Message: fmt.Sprintf("%s numaralı kargonuz iptal edildi.", info.OrderNo)}, nil
}

func (r *Registry) returnRequest(ctx context.Context, id Identity, p Params) (Outcome, error) {
	if id.Role == shipment.RoleSender {
		return Outcome{Kind: KindRejected,
			Message: "İade talebini yalnızca alıcı başlatabilir. Gönderici olarak kargonuzu iptal ettirmek isterseniz iptal talebi oluşturabilirim."}, nil
	}

	info, err := r.store.LookupShipmentStatus(ctx, id.TrackingNo)
	if errors.Is(err, shipment.ErrNotFound) {
		return Outcome{Kind: KindNotFound}, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	if info.Status != shipment.StatusDelivered {
		return Outcome{Kind: KindRejected,
			Message: "Kargonuz henüz teslim edilmediği için iade talebi oluşturulamıyor."}, nil
	}

	reason := p.Get("sebep")
	ticketID, err := r.store.CreateTicket(ctx, shipment.TicketReturn, info.OrderNo, id.CustomerID, reason)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: KindSuccess, TicketID: ticketID,
		Message: fmt.Sprintf("İade talebiniz oluşturuldu (talep no %d). Talebiniz onay bekliyor.", ticketID)}, nil
}

func (r *Registry) damageClaim(ctx context.Context, id Identity, p Params) (Outcome, error) {
	damageType := p.Get("hasar_tipi")
	if damageType == "" {
		return Outcome{Kind: KindNeedsInput, MissingField: "hasar_tipi",
			Message: "Hasar tipini belirtir misiniz? Örneğin kırık, ezik veya ıslak."}, nil
	}

	ticketID, err := r.store.CreateTicket(ctx, shipment.TicketDamage, id.TrackingNo, id.CustomerID, damageType)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: KindSuccess, TicketID: ticketID,
		Message: fmt.Sprintf("Hasar bildiriminiz alındı (kayıt no %d). Tazminat süreciniz incelemede.", ticketID)}, nil
}

func (r *Registry) updateOwnAddress(ctx context.Context, id Identity, p Params) (Outcome, error) {
	return r.updateAddress(ctx, id, p, false)
}

func (r *Registry) updateRecipientAddress(ctx context.Context, id Identity, p Params) (Outcome, error) {
	return r.updateAddress(ctx, id, p, true)
}

func (r *Registry) updateAddress(ctx context.Context, id Identity, p Params, forRecipient bool) (Outcome, error) {
	addr := p.Get("yeni_adres")
	if addr == "" {
		return Outcome{Kind: KindNeedsInput, MissingField: "yeni_adres",
			Message: "Lütfen mahalle, cadde, numara ve il/ilçe bilgisiyle birlikte yeni adresin tamamını iletin."}, nil
	}
	if isPartialAddress(addr) {
		return Outcome{Kind: KindRejected,
			Message: "Adresi yalnızca kısmen güncelleyemiyorum. Lütfen yeni adresin tamamını tek seferde iletin."}, nil
	}

	if err := r.store.UpdateAddress(ctx, id.TrackingNo, addr); err != nil {
		if errors.Is(err, shipment.ErrNotFound) {
			return Outcome{Kind: KindNotFound}, nil
		}
		return Outcome{}, err
	}

	msg := "Teslimat adresiniz güncellendi."
	if forRecipient {
		msg = "Alıcının teslimat adresi güncellendi, alıcı tercih ettiği kanaldan bilgilendirilecek."
	}
	return Outcome{Kind: KindSuccess, Message: msg}, nil
}

func (r *Registry) complaint(ctx context.Context, id Identity, p Params) (Outcome, error) {
	subject := p.Get("konu")
	if subject == "" {
		return Outcome{Kind: KindNeedsInput, MissingField: "konu",
			Message: "Şikayet konunuzu kısaca belirtir misiniz?"}, nil
	}

	ticketID, err := r.store.CreateTicket(ctx, shipment.TicketComplaint, id.TrackingNo, id.CustomerID, subject)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: KindSuccess, TicketID: ticketID,
		Message: fmt.Sprintf("Şikayet kaydınız oluşturuldu (kayıt no %d). En kısa sürede dönüş yapılacak.", ticketID)}, nil
}

func (r *Registry) branchInfo(ctx context.Context, _ Identity, p Params) (Outcome, error) {
	city := p.Get("il")
	if city == "" {
		return Outcome{Kind: KindNeedsInput, MissingField: "il",
			Message: "Hangi ildeki şubemizi arıyorsunuz?"}, nil
	}

	branch, err := r.store.LookupBranch(ctx, city, p.Get("ilce"))
	if errors.Is(err, shipment.ErrNotFound) {
		return Outcome{Kind: KindRejected,
			Message: fmt.Sprintf("%s için kayıtlı bir şube bulamadım.", city)}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Kind: KindSuccess,
		Message: fmt.Sprintf("%s: %s, %s/%s. Telefon %s. Çalışma saatleri: %s.",
			branch.Name, branch.Address, branch.District, branch.City, branch.Phone, branch.Hours)}, nil
}

func (r *Registry) deliveryEstimate(_ context.Context, _ Identity, p Params) (Outcome, error) {
	if r.estimator == nil {
		return Outcome{Kind: KindRejected,
			Message: "Teslimat süresi tahmini şu anda hizmet dışı."}, nil
	}

	distance, err1 := strconv.ParseFloat(p.Get("mesafe"), 64)
	weight, err2 := strconv.ParseFloat(p.Get("agirlik"), 64)
	if err1 != nil {
		return Outcome{Kind: KindNeedsInput, MissingField: "mesafe",
			Message: "Tahmin için gönderi mesafesini mil cinsinden belirtir misiniz?"}, nil
	}
	if err2 != nil {
		return Outcome{Kind: KindNeedsInput, MissingField: "agirlik",
			Message: "Tahmin için paketin ağırlığını kilogram cinsinden belirtir misiniz?"}, nil
	}

	days := r.estimator.Estimate(distance, weight)
	return Outcome{Kind: KindSuccess,
		Message: fmt.Sprintf("Geçmiş teslimat verilerine göre tahmini teslim süresi %.1f gün.", days)}, nil
}

// isPartialAddress flags inputs that look like a fragment edit ("sadece
// kapı numarası 5 olacak") instead of a full structured address. A full
// address carries a street-level component and a city component.
func isPartialAddress(addr string) bool {
	folded := strings.ToLower(addr)
	for _, marker := range []string{"sadece", "kalanı aynı", "gerisi aynı", "değişsin", "olacak sadece"} {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	hasStreet := false
	for _, kw := range []string{"mah", "cad", "sok", "bulvar", "no:", "no "} {
		if strings.Contains(folded, kw) {
			hasStreet = true
			break
		}
	}
	hasCity := strings.Contains(addr, "/")
	return !hasStreet || !hasCity
}

func statusText(s shipment.Status) string {
	switch s {
	case shipment.StatusPreparing:
		return "hazırlanıyor"
	case shipment.StatusTransfer:
		return "transfer aşamasında"
	case shipment.StatusOutForDelivery:
		return "dağıtımda"
	case shipment.StatusDelivered:
		return "teslim edildi"
	case shipment.StatusCancelled:
		return "iptal edildi"
	default:
		return string(s)
	}
}
