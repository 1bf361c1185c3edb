package shipment

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore implements Store with in-memory tables, suitable for tests
// and for running the API without a database file.
type MemoryStore struct {
	mu        sync.RWMutex
	tracking  map[string]TrackingInfo
	parties   map[string][]seededParty
	branches  []Branch
	tickets   []Ticket
	nextTckID int64
}

type seededParty struct {
	Phone string
	Party Party
}

// Ticket is what MemoryStore records on CreateTicket, kept for assertions.
type Ticket struct {
	ID         int64
	Kind       TicketKind
	OrderNo    string
	CustomerID int64
	Detail     string
	Status     string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tracking: make(map[string]TrackingInfo),
		parties:  make(map[string][]seededParty),
	}
}

// PutShipment seeds or replaces a tracking record.
func (s *MemoryStore) PutShipment(info TrackingInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracking[info.OrderNo] = info
}

// PutParty seeds a customer as a party of the given order, reachable at
// the given normalized phone.
func (s *MemoryStore) PutParty(orderNo, phone string, party Party) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[orderNo] = append(s.parties[orderNo], seededParty{Phone: phone, Party: party})
}

// PutBranch seeds a branch office.
func (s *MemoryStore) PutBranch(b Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches = append(s.branches, b)
}

// Tickets returns a copy of every ticket created so far.
func (s *MemoryStore) Tickets() []Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Ticket(nil), s.tickets...)
}

func (s *MemoryStore) LookupShipmentStatus(_ context.Context, trackingNo string) (TrackingInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.tracking[trackingNo]
	if !ok {
		return TrackingInfo{}, ErrNotFound
	}
	return info, nil
}

func (s *MemoryStore) LookupOrderParty(_ context.Context, orderNo, phone string) (Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, cand := range s.parties[orderNo] {
		if cand.Phone == phone {
			return cand.Party, nil
		}
	}
	return Party{}, ErrNotFound
}

func (s *MemoryStore) CreateTicket(_ context.Context, kind TicketKind, orderNo string, customerID int64, detail string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTckID++
	s.tickets = append(s.tickets, Ticket{
		ID:         s.nextTckID,
		Kind:       kind,
		OrderNo:    orderNo,
		CustomerID: customerID,
		Detail:     detail,
		Status:     kind.InitialStatus(),
	})
	return s.nextTckID, nil
}

func (s *MemoryStore) UpdateAddress(_ context.Context, orderNo, newAddress string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.tracking[orderNo]
	if !ok {
		return ErrNotFound
	}
	info.Address = newAddress
	s.tracking[orderNo] = info
	return nil
}

func (s *MemoryStore) SetStatus(_ context.Context, orderNo string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.tracking[orderNo]
	if !ok {
		return ErrNotFound
	}
	info.Status = status
	s.tracking[orderNo] = info
	return nil
}

func (s *MemoryStore) LookupBranch(_ context.Context, city, district string) (Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.branches {
		if !strings.EqualFold(b.City, city) {
			continue
		}
		if district == "" || strings.EqualFold(b.District, district) {
			return b, nil
		}
	}
	return Branch{}, ErrNotFound
}
