package appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	mu          sync.Mutex
	appts       map[uuid.UUID]*Appointment
	eventsByDay map[string][]Event
	failDays    map[string]bool
	failRange   bool
	rangeCalls  int
	dayCalls    []string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		appts:       make(map[uuid.UUID]*Appointment),
		eventsByDay: make(map[string][]Event),
		failDays:    make(map[string]bool),
	}
}

func (m *mockRepo) addEvent(date, start, title string) {
	m.eventsByDay[date] = append(m.eventsByDay[date], Event{
		ID:    uuid.New(),
		Date:  date,
		Start: start,
		Title: title,
	})
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.appts, id)
	return nil
}

func (m *mockRepo) Search(_ context.Context, _ SearchFilter, _, _ int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) EventsInRange(_ context.Context, from, to time.Time) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rangeCalls++
	if m.failRange {
		return nil, fmt.Errorf("db down")
	}
	var events []Event
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		events = append(events, m.eventsByDay[d.Format(DateLayout)]...)
	}
	return events, nil
}

func (m *mockRepo) EventsOnDate(_ context.Context, date time.Time) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := date.Format(DateLayout)
	m.dayCalls = append(m.dayCalls, key)
	if m.failDays[key] {
		return nil, fmt.Errorf("day fetch failed")
	}
	return m.eventsByDay[key], nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// -- Tests --

func TestCreateAppointmentValidation(t *testing.T) {
	svc := NewService(newMockRepo(), time.UTC)
	ctx := context.Background()
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	if err := svc.CreateAppointment(ctx, &Appointment{Date: date, StartTime: "09:00"}); err == nil {
		t.Error("expected missing patient_id to fail")
	}
	if err := svc.CreateAppointment(ctx, &Appointment{PatientID: uuid.New(), StartTime: "09:00"}); err == nil {
		t.Error("expected missing date to fail")
	}
	if err := svc.CreateAppointment(ctx, &Appointment{PatientID: uuid.New(), Date: date, StartTime: "25:00"}); err == nil {
		t.Error("expected bad start_time to fail")
	}
	bad := "9am"
	if err := svc.CreateAppointment(ctx, &Appointment{PatientID: uuid.New(), Date: date, StartTime: "09:00", EndTime: &bad}); err == nil {
		t.Error("expected bad end_time to fail")
	}
	if err := svc.CreateAppointment(ctx, &Appointment{PatientID: uuid.New(), Date: date, StartTime: "09:00"}); err != nil {
		t.Errorf("expected valid appointment to pass, got %v", err)
	}
}

func TestDedupeFirstWins(t *testing.T) {
	a := Event{Date: "2025-06-10", Start: "09:00", Title: "สมชาย ใจดี", Status: "pending"}
	b := Event{Date: "2025-06-10", Start: "09:00", Title: "สมชาย ใจดี", Status: "done"}
	c := Event{Date: "2025-06-10", Start: "10:00", Title: "สมชาย ใจดี"}

	out := dedupe([]Event{a, b, c})
	if len(out) != 2 {
		t.Fatalf("expected 2 events after dedupe, got %d", len(out))
	}
	if out[0].Status != "pending" {
		t.Errorf("expected first-seen instance retained, got status %q", out[0].Status)
	}
	if out[1].Start != "10:00" {
		t.Errorf("expected insertion order preserved, got %q", out[1].Start)
	}
}

func TestMonthEventsFutureMonth(t *testing.T) {
	repo := newMockRepo()
	repo.addEvent("2025-07-05", "09:00", "A")
	repo.addEvent("2025-07-20", "10:00", "B")
	// outside the displayed month, returned by the bulk query window
	repo.addEvent("2025-08-01", "08:00", "C")

	svc := NewService(repo, time.UTC)
	svc.now = fixedClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	res, err := svc.MonthEvents(context.Background(), time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthEvents: %v", err)
	}
	if len(res.Events) != 2 {
		t.Fatalf("expected 2 events in month, got %d", len(res.Events))
	}
	if res.Events[0].Title != "A" || res.Events[1].Title != "B" {
		t.Errorf("unexpected events %v", res.Events)
	}
	if repo.rangeCalls != 1 {
		t.Errorf("expected one bulk query, got %d", repo.rangeCalls)
	}
	if len(repo.dayCalls) != 0 {
		t.Errorf("expected no per-day queries for a future month, got %v", repo.dayCalls)
	}
}

func TestMonthEventsPastMonth(t *testing.T) {
	repo := newMockRepo()
	repo.addEvent("2025-05-03", "09:00", "A")
	repo.addEvent("2025-05-28", "14:00", "B")

	svc := NewService(repo, time.UTC)
	svc.now = fixedClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	res, err := svc.MonthEvents(context.Background(), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthEvents: %v", err)
	}
	if len(res.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(res.Events))
	}
	if repo.rangeCalls != 0 {
		t.Errorf("expected no bulk query for a fully past month, got %d", repo.rangeCalls)
	}
	// one per-day query per day of May
	if len(repo.dayCalls) != 31 {
		t.Errorf("expected 31 per-day queries, got %d", len(repo.dayCalls))
	}
}

func TestMonthEventsCurrentMonthSplit(t *testing.T) {
	repo := newMockRepo()
	repo.addEvent("2025-06-05", "09:00", "past")
	repo.addEvent("2025-06-20", "10:00", "future")
	repo.addEvent("2025-06-15", "11:00", "today")

	svc := NewService(repo, time.UTC)
	svc.now = fixedClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	res, err := svc.MonthEvents(context.Background(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthEvents: %v", err)
	}
	if len(res.Events) != 3 {
		t.Fatalf("expected 3 events, got %d: %v", len(res.Events), res.Events)
	}
	// bulk results come before per-day results
	if res.Events[0].Title == "past" {
		t.Error("expected bulk (future) results first in merge order")
	}
	// per-day queries cover June 1 through yesterday only
	if len(repo.dayCalls) != 14 {
		t.Errorf("expected 14 per-day queries, got %d (%v)", len(repo.dayCalls), repo.dayCalls)
	}
}

func TestMonthEventsDayFailureTolerated(t *testing.T) {
	repo := newMockRepo()
	repo.addEvent("2025-05-03", "09:00", "A")
	repo.failDays["2025-05-10"] = true
	repo.failDays["2025-05-11"] = true

	svc := NewService(repo, time.UTC)
	svc.now = fixedClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	res, err := svc.MonthEvents(context.Background(), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected day failures to be tolerated, got %v", err)
	}
	if res.FailedDays != 2 {
		t.Errorf("expected 2 failed days, got %d", res.FailedDays)
	}
	if len(res.Events) != 1 {
		t.Errorf("expected surviving event, got %d", len(res.Events))
	}
}

func TestMonthEventsBulkFailurePropagates(t *testing.T) {
	repo := newMockRepo()
	repo.failRange = true

	svc := NewService(repo, time.UTC)
	svc.now = fixedClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	_, err := svc.MonthEvents(context.Background(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected bulk query failure to propagate")
	}
}

func TestMonthEventsDedupAcrossPaths(t *testing.T) {
	repo := newMockRepo()
	repo.addEvent("2025-06-20", "10:00", "dup")
	repo.addEvent("2025-06-20", "10:00", "dup")

	svc := NewService(repo, time.UTC)
	svc.now = fixedClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	res, err := svc.MonthEvents(context.Background(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthEvents: %v", err)
	}
	if len(res.Events) != 1 {
		t.Errorf("expected duplicates collapsed to one, got %d", len(res.Events))
	}
}

func TestUpcomingClampsDays(t *testing.T) {
	repo := newMockRepo()
	repo.addEvent("2025-06-15", "09:00", "A")
	svc := NewService(repo, time.UTC)
	svc.now = fixedClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	events, err := svc.Upcoming(context.Background(), 0)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected today's event with clamped days, got %d", len(events))
	}
}

func TestPendingToday(t *testing.T) {
	repo := newMockRepo()
	day := "2025-06-15"
	repo.eventsByDay[day] = []Event{
		{Date: day, Start: "10:00", Title: "B", Status: "pending"},
		{Date: day, Start: "08:30", Title: "A", Status: "รอพบแพทย์"},
		{Date: day, Start: "09:00", Title: "C", Status: "done"},
		{Date: day, Start: "11:00", Title: "D", Status: "pending"},
	}

	svc := NewService(repo, time.UTC)
	svc.now = fixedClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	events, err := svc.PendingToday(context.Background(), 2)
	if err != nil {
		t.Fatalf("PendingToday: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events after truncation, got %d", len(events))
	}
	if events[0].Start != "08:30" || events[1].Start != "10:00" {
		t.Errorf("expected ascending start order, got %v", events)
	}
}
