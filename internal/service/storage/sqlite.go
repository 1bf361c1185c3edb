package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kargotek/destek/backend/internal/model/shipment"
)

// statusIDs pins the movement codes used by the kargo_takip table.
var statusIDs = map[shipment.Status]int{
	shipment.StatusPreparing:      1,
	shipment.StatusTransfer:       2,
	shipment.StatusOutForDelivery: 3,
	shipment.StatusDelivered:      4,
	shipment.StatusCancelled:      8,
}

var statusByID = func() map[int]shipment.Status {
	out := make(map[int]shipment.Status, len(statusIDs))
	for s, id := range statusIDs {
		out[id] = s
	}
	return out
}()

// SQLiteStore implements shipment.Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database file and verifies connectivity.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s: %w", path, err)
	}
	// Session commits already serialize writers per conversation; a single
	// connection avoids SQLITE_BUSY between concurrent turns.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Migrate creates the schema when it does not exist yet.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS musteriler (
			musteri_id INTEGER PRIMARY KEY,
			ad_soyad TEXT,
			telefon TEXT,
			email TEXT,
			bildirim_tercihi TEXT DEFAULT 'SMS'
		)`,
		`CREATE TABLE IF NOT EXISTS siparisler (
			siparis_no TEXT PRIMARY KEY,
			gonderici_id INTEGER,
			alici_id INTEGER,
			urun_tanimi TEXT,
			FOREIGN KEY(gonderici_id) REFERENCES musteriler(musteri_id),
			FOREIGN KEY(alici_id) REFERENCES musteriler(musteri_id)
		)`,
		`CREATE TABLE IF NOT EXISTS kargo_takip (
			takip_no TEXT PRIMARY KEY,
			siparis_no TEXT,
			durum_id INTEGER,
			tahmini_teslim TEXT,
			teslim_adresi TEXT,
			kurye_id INTEGER,
			FOREIGN KEY(siparis_no) REFERENCES siparisler(siparis_no)
		)`,
		`CREATE TABLE IF NOT EXISTS kuryeler (
			kurye_id INTEGER PRIMARY KEY,
			ad_soyad TEXT,
			telefon TEXT,
			puan REAL
		)`,
		`CREATE TABLE IF NOT EXISTS subeler (
			sube_id INTEGER PRIMARY KEY AUTOINCREMENT,
			sube_adi TEXT,
			il TEXT,
			ilce TEXT,
			adres TEXT,
			telefon TEXT,
			calisma_saatleri TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS talepler (
			talep_id INTEGER PRIMARY KEY AUTOINCREMENT,
			tip TEXT NOT NULL,
			siparis_no TEXT,
			olusturan_musteri_id INTEGER,
			aciklama TEXT,
			durum TEXT,
			tarih TEXT DEFAULT (date('now'))
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) LookupShipmentStatus(ctx context.Context, trackingNo string) (shipment.TrackingInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT k.siparis_no, k.durum_id, k.tahmini_teslim, k.teslim_adresi,
		       COALESCE(sp.urun_tanimi, ''),
		       COALESCE(ku.ad_soyad, ''), COALESCE(ku.telefon, ''), COALESCE(ku.puan, 0)
		FROM kargo_takip k
		LEFT JOIN siparisler sp ON sp.siparis_no = k.siparis_no
		LEFT JOIN kuryeler ku ON ku.kurye_id = k.kurye_id
		WHERE k.takip_no = ?`, trackingNo)

	var info shipment.TrackingInfo
	var statusID int
	err := row.Scan(&info.OrderNo, &statusID, &info.EstimatedDelivery, &info.Address,
		&info.Product, &info.Courier.Name, &info.Courier.Phone, &info.Courier.Rating)
	if errors.Is(err, sql.ErrNoRows) {
		return shipment.TrackingInfo{}, shipment.ErrNotFound
	}
	if err != nil {
		return shipment.TrackingInfo{}, fmt.Errorf("lookup shipment %s: %w", trackingNo, err)
	}
	status, ok := statusByID[statusID]
	if !ok {
		return shipment.TrackingInfo{}, fmt.Errorf("shipment %s has unknown status id %d", trackingNo, statusID)
	}
	info.Status = status
	return info, nil
}

func (s *SQLiteStore) LookupOrderParty(ctx context.Context, orderNo, phone string) (shipment.Party, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT m.musteri_id, m.ad_soyad, m.bildirim_tercihi,
		       CASE WHEN sp.gonderici_id = m.musteri_id THEN 'gonderici' ELSE 'alici' END
		FROM siparisler sp
		JOIN musteriler m ON m.musteri_id IN (sp.gonderici_id, sp.alici_id)
		WHERE sp.siparis_no = ? AND m.telefon = ?`, orderNo, phone)

	var party shipment.Party
	var role string
	err := row.Scan(&party.CustomerID, &party.FullName, &party.NotifyVia, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return shipment.Party{}, shipment.ErrNotFound
	}
	if err != nil {
		return shipment.Party{}, fmt.Errorf("lookup order party %s: %w", orderNo, err)
	}
	party.Role = shipment.Role(role)
	return party, nil
}

func (s *SQLiteStore) CreateTicket(ctx context.Context, kind shipment.TicketKind, orderNo string, customerID int64, detail string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO talepler (tip, siparis_no, olusturan_musteri_id, aciklama, durum)
		VALUES (?, ?, ?, ?, ?)`,
		string(kind), orderNo, customerID, detail, kind.InitialStatus())
	if err != nil {
		return 0, fmt.Errorf("create %s ticket: %w", kind, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create %s ticket: %w", kind, err)
	}
	return id, nil
}

func (s *SQLiteStore) UpdateAddress(ctx context.Context, orderNo, newAddress string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE kargo_takip SET teslim_adresi = ? WHERE siparis_no = ?`, newAddress, orderNo)
	if err != nil {
		return fmt.Errorf("update address for %s: %w", orderNo, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update address for %s: %w", orderNo, err)
	}
	if affected == 0 {
		return shipment.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) SetStatus(ctx context.Context, orderNo string, status shipment.Status) error {
	id, ok := statusIDs[status]
	if !ok {
		return fmt.Errorf("unknown status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE kargo_takip SET durum_id = ? WHERE siparis_no = ?`, id, orderNo)
	if err != nil {
		return fmt.Errorf("set status for %s: %w", orderNo, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set status for %s: %w", orderNo, err)
	}
	if affected == 0 {
		return shipment.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) LookupBranch(ctx context.Context, city, district string) (shipment.Branch, error) {
	query := `SELECT sube_adi, il, ilce, adres, telefon, calisma_saatleri
		FROM subeler WHERE il = ? COLLATE NOCASE`
	args := []any{city}
	if district != "" {
		query += ` AND ilce = ? COLLATE NOCASE`
		args = append(args, district)
	}
	query += ` LIMIT 1`

	var b shipment.Branch
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&b.Name, &b.City, &b.District, &b.Address, &b.Phone, &b.Hours)
	if errors.Is(err, sql.ErrNoRows) {
		return shipment.Branch{}, shipment.ErrNotFound
	}
	if err != nil {
		return shipment.Branch{}, fmt.Errorf("lookup branch %s/%s: %w", city, district, err)
	}
	return b, nil
}
