package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pallicare/pallicare/internal/domain/appointment"
	"github.com/pallicare/pallicare/internal/platform/line"
)

type mockRepo struct {
	runs       map[uuid.UUID]*DigestRun
	deliveries []*Delivery
}

func newMockRepo() *mockRepo {
	return &mockRepo{runs: make(map[uuid.UUID]*DigestRun)}
}

func (m *mockRepo) CreateRun(_ context.Context, run *DigestRun) error {
	run.ID = uuid.New()
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *mockRepo) FinishRun(_ context.Context, run *DigestRun) error {
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *mockRepo) GetRun(_ context.Context, id uuid.UUID) (*DigestRun, error) {
	run, ok := m.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return run, nil
}

func (m *mockRepo) ListRuns(_ context.Context, limit, offset int) ([]*DigestRun, int, error) {
	var runs []*DigestRun
	for _, r := range m.runs {
		runs = append(runs, r)
	}
	return runs, len(runs), nil
}

func (m *mockRepo) AddDelivery(_ context.Context, d *Delivery) error {
	d.ID = uuid.New()
	cp := *d
	m.deliveries = append(m.deliveries, &cp)
	return nil
}

func (m *mockRepo) GetDeliveries(_ context.Context, runID uuid.UUID) ([]*Delivery, error) {
	var out []*Delivery
	for _, d := range m.deliveries {
		if d.RunID == runID {
			out = append(out, d)
		}
	}
	return out, nil
}

type pushedText struct {
	to   string
	text string
}

type pushedFlex struct {
	to       string
	altText  string
	contents line.FlexContainer
}

type fakePusher struct {
	texts   []pushedText
	flexes  []pushedFlex
	failFor map[string]bool
}

func (f *fakePusher) PushText(_ context.Context, to, text string) error {
	if f.failFor[to] {
		return errors.New("push failed")
	}
	f.texts = append(f.texts, pushedText{to: to, text: text})
	return nil
}

func (f *fakePusher) PushFlex(_ context.Context, to, altText string, contents line.FlexContainer) error {
	if f.failFor[to] {
		return errors.New("push failed")
	}
	f.flexes = append(f.flexes, pushedFlex{to: to, altText: altText, contents: contents})
	return nil
}

type stubEvents struct {
	events []appointment.Event
	err    error
}

func (s *stubEvents) EventsOnDate(_ context.Context, _ time.Time) ([]appointment.Event, error) {
	return s.events, s.err
}

func strPtr(s string) *string { return &s }

func newTestDigest(events *stubEvents, pusher *fakePusher, repo Repository, recipients []string) *Digest {
	d := NewDigest(events, pusher, repo, recipients, time.UTC, zerolog.Nop())
	d.now = func() time.Time {
		return time.Date(2025, 6, 15, 6, 0, 0, 0, time.UTC)
	}
	return d
}

func TestDigestNoAppointments(t *testing.T) {
	repo := newMockRepo()
	pusher := &fakePusher{}
	d := newTestDigest(&stubEvents{}, pusher, repo, []string{"U1", "G1"})

	run, err := d.Run(context.Background(), TriggerScheduled)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if run.Outcome != OutcomeSuccess {
		t.Errorf("outcome = %q, want %q", run.Outcome, OutcomeSuccess)
	}
	if run.EventCount != 0 {
		t.Errorf("event count = %d, want 0", run.EventCount)
	}
	if len(pusher.flexes) != 0 {
		t.Errorf("sent %d flex messages, want 0", len(pusher.flexes))
	}
	if len(pusher.texts) != 2 {
		t.Fatalf("sent %d texts, want one per recipient", len(pusher.texts))
	}
	for _, sent := range pusher.texts {
		if !strings.Contains(sent.text, "ไม่มีนัดหมาย") {
			t.Errorf("text %q does not say there are no appointments", sent.text)
		}
		if !strings.Contains(sent.text, "2025-06-15") {
			t.Errorf("text %q does not name the date", sent.text)
		}
	}
	if len(repo.deliveries) != 2 {
		t.Errorf("recorded %d deliveries, want 2", len(repo.deliveries))
	}
}

func TestDigestCarouselAndSummary(t *testing.T) {
	events := &stubEvents{events: []appointment.Event{
		{Date: "2025-06-15", Start: "09:00", End: strPtr("09:30"), Title: "สมชาย ใจดี"},
		{Date: "2025-06-15", Start: "08:30", End: strPtr("09:00"), Title: "สมหญิง รักสงบ", Place: strPtr("OPD 3")},
		{Date: "2025-06-15", Start: "10:15", Title: "John Smith"},
	}}
	repo := newMockRepo()
	pusher := &fakePusher{}
	d := newTestDigest(events, pusher, repo, []string{"U1"})

	run, err := d.Run(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if run.Outcome != OutcomeSuccess {
		t.Errorf("outcome = %q, want %q", run.Outcome, OutcomeSuccess)
	}
	if run.EventCount != 3 {
		t.Errorf("event count = %d, want 3", run.EventCount)
	}

	if len(pusher.flexes) != 1 {
		t.Fatalf("sent %d flex messages, want 1", len(pusher.flexes))
	}
	carousel, ok := pusher.flexes[0].contents.(line.FlexCarousel)
	if !ok {
		t.Fatalf("flex contents is %T, want line.FlexCarousel", pusher.flexes[0].contents)
	}
	if len(carousel.Contents) != 3 {
		t.Errorf("carousel has %d bubbles, want 3", len(carousel.Contents))
	}

	if len(pusher.texts) != 1 {
		t.Fatalf("sent %d texts, want 1 summary", len(pusher.texts))
	}
	summary := pusher.texts[0].text
	if !strings.Contains(summary, "08:30") {
		t.Errorf("summary %q missing earliest start 08:30", summary)
	}
	// The 10:15 event has no end time, so its start stands in for it and
	// is the latest time of the day.
	if !strings.Contains(summary, "10:15") {
		t.Errorf("summary %q missing latest end 10:15", summary)
	}

	deliveries, _ := repo.GetDeliveries(context.Background(), run.ID)
	if len(deliveries) != 2 {
		t.Fatalf("recorded %d deliveries, want flex + text", len(deliveries))
	}
	for _, del := range deliveries {
		if !del.Success {
			t.Errorf("delivery %s/%s recorded as failed", del.Recipient, del.Kind)
		}
	}
}

func TestDigestPartialFailure(t *testing.T) {
	events := &stubEvents{events: []appointment.Event{
		{Date: "2025-06-15", Start: "09:00", Title: "สมชาย ใจดี"},
	}}
	repo := newMockRepo()
	pusher := &fakePusher{failFor: map[string]bool{"G1": true}}
	d := newTestDigest(events, pusher, repo, []string{"U1", "G1"})

	run, err := d.Run(context.Background(), TriggerScheduled)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if run.Outcome != OutcomePartial {
		t.Errorf("outcome = %q, want %q", run.Outcome, OutcomePartial)
	}

	// The healthy recipient still got both messages.
	if len(pusher.flexes) != 1 || len(pusher.texts) != 1 {
		t.Errorf("healthy recipient got %d flex / %d text, want 1 each", len(pusher.flexes), len(pusher.texts))
	}

	failed := 0
	for _, del := range repo.deliveries {
		if !del.Success {
			failed++
			if del.Recipient != "G1" {
				t.Errorf("failed delivery recorded for %q, want G1", del.Recipient)
			}
			if del.Error == nil {
				t.Error("failed delivery has no error recorded")
			}
		}
	}
	if failed != 2 {
		t.Errorf("recorded %d failed deliveries, want 2", failed)
	}
}

func TestDigestAllRecipientsFail(t *testing.T) {
	events := &stubEvents{events: []appointment.Event{
		{Date: "2025-06-15", Start: "09:00", Title: "สมชาย ใจดี"},
	}}
	repo := newMockRepo()
	pusher := &fakePusher{failFor: map[string]bool{"U1": true}}
	d := newTestDigest(events, pusher, repo, []string{"U1"})

	run, err := d.Run(context.Background(), TriggerScheduled)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if run.Outcome != OutcomeFailed {
		t.Errorf("outcome = %q, want %q", run.Outcome, OutcomeFailed)
	}
}

func TestDigestQueryFailure(t *testing.T) {
	repo := newMockRepo()
	pusher := &fakePusher{}
	d := newTestDigest(&stubEvents{err: errors.New("db down")}, pusher, repo, []string{"U1"})

	run, err := d.Run(context.Background(), TriggerScheduled)
	if err == nil {
		t.Fatal("Run() succeeded despite query failure")
	}
	if run == nil {
		t.Fatal("Run() returned nil run; the failed run should still be recorded")
	}
	if run.Outcome != OutcomeFailed {
		t.Errorf("outcome = %q, want %q", run.Outcome, OutcomeFailed)
	}
	if run.Error == nil || !strings.Contains(*run.Error, "db down") {
		t.Errorf("run error = %v, want the query error recorded", run.Error)
	}
	if len(pusher.texts) != 0 || len(pusher.flexes) != 0 {
		t.Error("messages were pushed despite the query failing")
	}

	stored, err := repo.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("GetRun() error: %v", err)
	}
	if stored.FinishedAt == nil {
		t.Error("failed run was not finalized")
	}
}

func TestSchedulerNextRun(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	s := NewScheduler(nil, 6, loc, zerolog.Nop())

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before the hour fires same day",
			now:  time.Date(2025, 6, 15, 3, 30, 0, 0, loc),
			want: time.Date(2025, 6, 15, 6, 0, 0, 0, loc),
		},
		{
			name: "at the hour fires next day",
			now:  time.Date(2025, 6, 15, 6, 0, 0, 0, loc),
			want: time.Date(2025, 6, 16, 6, 0, 0, 0, loc),
		},
		{
			name: "after the hour fires next day",
			now:  time.Date(2025, 6, 15, 18, 0, 0, 0, loc),
			want: time.Date(2025, 6, 16, 6, 0, 0, 0, loc),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.nextRun(tc.now)
			if !got.Equal(tc.want) {
				t.Errorf("nextRun(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}
