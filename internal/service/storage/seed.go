package storage

import (
	"context"
	"fmt"
	"time"
)

// Seed loads the simulation data set when the customer table is empty.
// Order 123456 is out for delivery (cancellable, not returnable) and
// order 999999 is delivered (returnable, not cancellable).
func (s *SQLiteStore) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM musteriler`).Scan(&count); err != nil {
		return fmt.Errorf("seed precheck: %w", err)
	}
	if count > 0 {
		return nil
	}

	today := time.Now().Format("2006-01-02")
	stmts := []struct {
		query string
		args  [][]any
	}{
		{
			query: `INSERT INTO musteriler (musteri_id, ad_soyad, telefon, email, bildirim_tercihi) VALUES (?,?,?,?,?)`,
			args: [][]any{
				{1001, "Zeynep Yılmaz", "5551112233", "zeynep@mail.com", "SMS"},
				{1002, "Can Demir", "5554445566", "can@mail.com", "SMS"},
				{1003, "Elif Kaya", "5559998877", "elif@mail.com", "E-posta"},
				{1004, "Doğa Ece Koca", "5415998046", "doga@mail.com", "SMS"},
			},
		},
		{
			query: `INSERT INTO siparisler (siparis_no, gonderici_id, alici_id, urun_tanimi) VALUES (?,?,?,?)`,
			args: [][]any{
				{"123456", 1001, 1002, "Kitap Kolisi"},
				{"999999", 1003, 1001, "Mobilya"},
				{"456789", 1004, 1003, "Kıyafet"},
			},
		},
		{
			query: `INSERT INTO kuryeler (kurye_id, ad_soyad, telefon, puan) VALUES (?,?,?,?)`,
			args: [][]any{
				{201, "Ahmet Hızlı", "0532 111 22 33", 4.8},
				{202, "Mehmet Çevik", "0533 444 55 66", 4.5},
				{203, "Ayşe Seri", "0544 777 88 99", 4.9},
			},
		},
		{
			query: `INSERT INTO kargo_takip (takip_no, siparis_no, durum_id, tahmini_teslim, teslim_adresi, kurye_id) VALUES (?,?,?,?,?,?)`,
			args: [][]any{
				{"123456", "123456", 3, today, "Moda Cad. No:10 Kadıköy/İSTANBUL", 201},
				{"999999", "999999", 4, today, "Pınar Mah. No:5 Sarıyer/İSTANBUL", 202},
				{"456789", "456789", 1, "2025-12-10", "Barbaros Hayrettin Paşa Mah. Beylikdüzü/İSTANBUL", 203},
			},
		},
		{
			query: `INSERT INTO subeler (sube_adi, il, ilce, adres, telefon, calisma_saatleri) VALUES (?,?,?,?,?,?)`,
			args: [][]any{
				{"Kadıköy Merkez", "İstanbul", "Kadıköy", "Caferağa Mah. Moda Cad. No:10", "0216 333 44 55", "Hafta içi: 09:00-18:00, Cmt: 09:00-13:00, Pazar: Kapalı"},
				{"Beşiktaş Şube", "İstanbul", "Beşiktaş", "Çırağan Cad. No:25", "0212 222 11 00", "Hafta içi: 09:00-18:00, Cmt: Kapalı, Pazar: Kapalı"},
				{"Çankaya Şube", "Ankara", "Çankaya", "Atatürk Bulvarı No:50", "0312 444 55 66", "Hafta içi: 08:30-17:30, Cmt: 09:00-12:00, Pazar: Kapalı"},
				{"Alsancak Şube", "İzmir", "Konak", "Kıbrıs Şehitleri Cad. No:15", "0232 555 66 77", "Hafta içi: 09:00-18:00, Cmt: 09:00-14:00, Pazar: 10:00-16:00 (Nöbetçi Şube)"},
			},
		},
	}

	for _, stmt := range stmts {
		for _, args := range stmt.args {
			if _, err := s.db.ExecContext(ctx, stmt.query, args...); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
	}
	return nil
}
