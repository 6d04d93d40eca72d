package appointment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if err := validateClockTime("start_time", a.StartTime); err != nil {
		return err
	}
	if a.EndTime != nil {
		if err := validateClockTime("end_time", *a.EndTime); err != nil {
			return err
		}
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateAppointment(ctx context.Context, a *Appointment) error {
	if a.StartTime != "" {
		if err := validateClockTime("start_time", a.StartTime); err != nil {
			return err
		}
	}
	if a.EndTime != nil {
		if err := validateClockTime("end_time", *a.EndTime); err != nil {
			return err
		}
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) SearchAppointments(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.Search(ctx, filter, limit, offset)
}

// today returns the current calendar day in the service's timezone,
// as a midnight-anchored time.
func (s *Service) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// Upcoming returns events from today through today+days.
func (s *Service) Upcoming(ctx context.Context, days int) ([]Event, error) {
	if days < 1 {
		days = 1
	}
	from := s.today()
	return s.repo.EventsInRange(ctx, from, from.AddDate(0, 0, days))
}

// Timeline returns all events on one calendar day.
func (s *Service) Timeline(ctx context.Context, date time.Time) ([]Event, error) {
	return s.repo.EventsOnDate(ctx, date)
}

// MonthResult is the outcome of a month aggregation. FailedDays counts
// past-day queries that errored and were treated as empty.
type MonthResult struct {
	Events     []Event `json:"events"`
	FailedDays int     `json:"failed_days"`
}

// MonthEvents assembles the events visible for a calendar month from two
// access patterns: one bulk upcoming-days query for the portion from
// today forward, and one query per past day. The bulk query's error
// fails the whole operation; an individual past day's error only marks
// that day failed. Results are merged bulk-first, de-duplicated by
// (date, start, title) with the first occurrence winning, and returned
// in merge order.
func (s *Service) MonthEvents(ctx context.Context, month time.Time) (*MonthResult, error) {
	y, m, _ := month.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, s.loc)
	last := first.AddDate(0, 1, -1)
	today := s.today()

	var merged []Event

	if !last.Before(today) {
		days := int(last.Sub(today).Hours() / 24)
		if days < 1 {
			days = 1
		}
		bulk, err := s.repo.EventsInRange(ctx, today, today.AddDate(0, 0, days))
		if err != nil {
			return nil, fmt.Errorf("upcoming query: %w", err)
		}
		firstStr := first.Format(DateLayout)
		lastStr := last.Format(DateLayout)
		for _, e := range bulk {
			if e.Date >= firstStr && e.Date <= lastStr {
				merged = append(merged, e)
			}
		}
	}

	failed := 0
	if first.Before(today) {
		pastEnd := today.AddDate(0, 0, -1)
		if last.Before(pastEnd) {
			pastEnd = last
		}

		var days []time.Time
		for d := first; !d.After(pastEnd); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}

		type dayResult struct {
			events []Event
			err    error
		}
		results := make([]dayResult, len(days))

		var wg sync.WaitGroup
		for i, d := range days {
			wg.Add(1)
			go func(i int, d time.Time) {
				defer wg.Done()
				evs, err := s.repo.EventsOnDate(ctx, d)
				results[i] = dayResult{events: evs, err: err}
			}(i, d)
		}
		wg.Wait()

		for _, res := range results {
			if res.err != nil {
				failed++
				continue
			}
			merged = append(merged, res.events...)
		}
	}

	return &MonthResult{Events: dedupe(merged), FailedDays: failed}, nil
}

// dedupe removes later duplicates of the same (date, start, title) key,
// preserving input order.
func dedupe(events []Event) []Event {
	seen := make(map[string]bool, len(events))
	out := make([]Event, 0, len(events))
	for _, e := range events {
		k := e.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// PendingToday is the feed behind the dashboard's notification toasts:
// today's events whose status normalizes to pending, ascending by start
// time, truncated to limit.
func (s *Service) PendingToday(ctx context.Context, limit int) ([]Event, error) {
	events, err := s.repo.EventsOnDate(ctx, s.today())
	if err != nil {
		return nil, err
	}
	var pending []Event
	for _, e := range events {
		if NormalizeStatus(e.Status) == StatusPending {
			pending = append(pending, e)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Start < pending[j].Start
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}
