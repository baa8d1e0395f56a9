package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"campora/errs"
	"campora/models"
)

// memStore implements Store in memory. The slots map plays the role of the
// unique (serviceid, timeslot) index: InsertAppointment fails with ErrConflict
// while a live appointment holds the pair.
type memStore struct {
	mu           sync.Mutex
	services     map[string]*models.Service
	appointments map[string]*models.Appointment
	slots        map[string]string // "serviceid|timeslot" -> appointmentid
}

func newMemStore(services ...*models.Service) *memStore {
	s := &memStore{
		services:     make(map[string]*models.Service),
		appointments: make(map[string]*models.Appointment),
		slots:        make(map[string]string),
	}
	for _, svc := range services {
		cp := *svc
		s.services[svc.ServiceID] = &cp
	}
	return s
}

func slotKey(serviceID, timeslot string) string {
	return serviceID + "|" + timeslot
}

func (s *memStore) GetService(_ context.Context, serviceID string) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[serviceID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *svc
	return &cp, nil
}

func (s *memStore) DeleteService(_ context.Context, serviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[serviceID]; !ok {
		return errs.ErrNotFound
	}
	delete(s.services, serviceID)
	return nil
}

func (s *memStore) GetAppointment(_ context.Context, appointmentID string) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[appointmentID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *appt
	return &cp, nil
}

func (s *memStore) InsertAppointment(_ context.Context, appt *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := slotKey(appt.ServiceID, appt.Timeslot)
	if _, taken := s.slots[key]; taken {
		return errs.ErrConflict
	}
	cp := *appt
	s.appointments[appt.AppointmentID] = &cp
	s.slots[key] = appt.AppointmentID
	return nil
}

func (s *memStore) DeleteAppointment(_ context.Context, appointmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[appointmentID]
	if !ok {
		return errs.ErrNotFound
	}
	delete(s.appointments, appointmentID)
	delete(s.slots, slotKey(appt.ServiceID, appt.Timeslot))
	return nil
}

func (s *memStore) AppointmentsByService(_ context.Context, serviceID string) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, appt := range s.appointments {
		if appt.ServiceID == serviceID {
			out = append(out, *appt)
		}
	}
	return out, nil
}

func (s *memStore) PurgeAppointments(_ context.Context, serviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, appt := range s.appointments {
		if appt.ServiceID == serviceID {
			delete(s.appointments, id)
			delete(s.slots, slotKey(appt.ServiceID, appt.Timeslot))
		}
	}
	return nil
}

func testService() *models.Service {
	return &models.Service{
		ServiceID:      "s1",
		UserID:         "provider",
		Description:    "haircut",
		AvailableDates: []string{"2026-09-01", "2026-09-02", "2026-09-03"},
	}
}

func TestBookClaimsSlot(t *testing.T) {
	store := newMemStore(testService())
	engine := NewEngine(store)

	appt, err := engine.Book(context.Background(), "s1", "alice", "2026-09-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.AppointmentID == "" {
		t.Fatal("expected a generated appointment id")
	}
	if appt.ServiceID != "s1" || appt.UserID != "alice" || appt.Timeslot != "2026-09-01" {
		t.Fatalf("unexpected appointment: %+v", appt)
	}
}

func TestBookMissingServiceNotFound(t *testing.T) {
	engine := NewEngine(newMemStore())

	_, err := engine.Book(context.Background(), "nope", "alice", "2026-09-01")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookUnknownTimeslotConflict(t *testing.T) {
	engine := NewEngine(newMemStore(testService()))

	_, err := engine.Book(context.Background(), "s1", "alice", "2030-01-01")
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected ErrConflict for timeslot outside available dates, got %v", err)
	}
}

func TestDoubleBookConflict(t *testing.T) {
	engine := NewEngine(newMemStore(testService()))

	if _, err := engine.Book(context.Background(), "s1", "alice", "2026-09-01"); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	_, err := engine.Book(context.Background(), "s1", "bob", "2026-09-01")
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected ErrConflict on second booking, got %v", err)
	}
	// a different slot is still free
	if _, err := engine.Book(context.Background(), "s1", "bob", "2026-09-02"); err != nil {
		t.Fatalf("booking a free slot failed: %v", err)
	}
}

func TestConcurrentBookSingleWinner(t *testing.T) {
	const contenders = 6

	store := newMemStore(testService())
	engine := NewEngine(store)

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := engine.Book(context.Background(), "s1", fmt.Sprintf("user%d", i), "2026-09-01")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, errs.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if conflicts != contenders-1 {
		t.Fatalf("expected %d conflicts, got %d", contenders-1, conflicts)
	}

	appts, _ := engine.Appointments(context.Background(), "s1")
	if len(appts) != 1 {
		t.Fatalf("expected one live appointment, got %d", len(appts))
	}
}

func TestBookableDatesSubtractTakenSlots(t *testing.T) {
	engine := NewEngine(newMemStore(testService()))

	if _, err := engine.Book(context.Background(), "s1", "alice", "2026-09-02"); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	dates, err := engine.BookableDates(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sort.Strings(dates)
	want := []string{"2026-09-01", "2026-09-03"}
	if len(dates) != len(want) {
		t.Fatalf("expected %v, got %v", want, dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, dates)
		}
	}
}

func TestBookableDatesMissingService(t *testing.T) {
	engine := NewEngine(newMemStore())

	_, err := engine.BookableDates(context.Background(), "nope")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteServiceCascades(t *testing.T) {
	store := newMemStore(testService())
	engine := NewEngine(store)

	if _, err := engine.Book(context.Background(), "s1", "alice", "2026-09-01"); err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if _, err := engine.Book(context.Background(), "s1", "bob", "2026-09-02"); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := engine.DeleteService(context.Background(), "s1", "intruder"); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := engine.DeleteService(context.Background(), "s1", "provider"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	if _, err := store.GetService(context.Background(), "s1"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected service to be gone, got %v", err)
	}
	appts, _ := store.AppointmentsByService(context.Background(), "s1")
	if len(appts) != 0 {
		t.Fatalf("expected cascade to remove appointments, %d remain", len(appts))
	}

	if err := engine.DeleteService(context.Background(), "s1", "provider"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteAppointmentFreesSlot(t *testing.T) {
	engine := NewEngine(newMemStore(testService()))

	appt, err := engine.Book(context.Background(), "s1", "alice", "2026-09-01")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if _, err := engine.DeleteAppointment(context.Background(), appt.AppointmentID, "bob"); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-booker, got %v", err)
	}

	freed, err := engine.DeleteAppointment(context.Background(), appt.AppointmentID, "alice")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if freed.Timeslot != "2026-09-01" {
		t.Fatalf("expected freed timeslot 2026-09-01, got %s", freed.Timeslot)
	}

	// slot is claimable again
	if _, err := engine.Book(context.Background(), "s1", "bob", "2026-09-01"); err != nil {
		t.Fatalf("rebooking freed slot failed: %v", err)
	}

	if _, err := engine.DeleteAppointment(context.Background(), appt.AppointmentID, "alice"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
