package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pallicare/pallicare/internal/domain/appointment"
	"github.com/pallicare/pallicare/internal/platform/line"
)

// Pusher sends outbound LINE messages. *line.Client satisfies it.
type Pusher interface {
	PushText(ctx context.Context, to, text string) error
	PushFlex(ctx context.Context, to, altText string, contents line.FlexContainer) error
}

// EventSource provides the day's appointment events.
// appointment.Repository satisfies it.
type EventSource interface {
	EventsOnDate(ctx context.Context, date time.Time) ([]appointment.Event, error)
}

// Digest queries today's appointments and pushes a summary to every
// configured recipient, recording the run and each delivery.
type Digest struct {
	events     EventSource
	pusher     Pusher
	repo       Repository
	recipients []string
	loc        *time.Location
	logger     zerolog.Logger
	now        func() time.Time
}

func NewDigest(events EventSource, pusher Pusher, repo Repository, recipients []string, loc *time.Location, logger zerolog.Logger) *Digest {
	if loc == nil {
		loc = time.UTC
	}
	return &Digest{
		events:     events,
		pusher:     pusher,
		repo:       repo,
		recipients: recipients,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one digest cycle. A recipient's delivery failure is
// recorded and does not stop the remaining recipients; a failed
// appointment query fails the whole run.
func (d *Digest) Run(ctx context.Context, trigger string) (*DigestRun, error) {
	y, m, day := d.now().In(d.loc).Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, d.loc)

	run := &DigestRun{
		Trigger:   trigger,
		RunDate:   today,
		StartedAt: d.now().UTC(),
		Outcome:   OutcomeFailed,
	}
	if err := d.repo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	events, err := d.events.EventsOnDate(ctx, today)
	if err != nil {
		d.finish(ctx, run, 0, 0, err)
		return run, fmt.Errorf("query today's appointments: %w", err)
	}
	run.EventCount = len(events)

	dateStr := today.Format(appointment.DateLayout)
	failures := 0
	attempts := 0

	if len(events) == 0 {
		text := fmt.Sprintf("วันนี้ (%s) ไม่มีนัดหมาย", dateStr)
		for _, to := range d.recipients {
			attempts++
			failures += d.deliver(ctx, run, to, KindText, func() error {
				return d.pusher.PushText(ctx, to, text)
			})
		}
	} else {
		carousel := buildCarousel(events)
		altText := fmt.Sprintf("นัดหมายวันนี้ %d รายการ", len(events))
		summary := summaryText(dateStr, events)
		for _, to := range d.recipients {
			attempts++
			failures += d.deliver(ctx, run, to, KindFlex, func() error {
				return d.pusher.PushFlex(ctx, to, altText, carousel)
			})
			attempts++
			failures += d.deliver(ctx, run, to, KindText, func() error {
				return d.pusher.PushText(ctx, to, summary)
			})
		}
	}

	d.finish(ctx, run, attempts, failures, nil)
	return run, nil
}

// deliver attempts one message, records the delivery row and returns 1
// on failure so callers can tally.
func (d *Digest) deliver(ctx context.Context, run *DigestRun, to, kind string, send func() error) int {
	err := send()
	delivery := &Delivery{
		RunID:     run.ID,
		Recipient: to,
		Kind:      kind,
		Success:   err == nil,
	}
	if err != nil {
		msg := err.Error()
		delivery.Error = &msg
		d.logger.Error().Err(err).Str("recipient", to).Str("kind", kind).Msg("digest delivery failed")
	}
	if repoErr := d.repo.AddDelivery(ctx, delivery); repoErr != nil {
		d.logger.Error().Err(repoErr).Msg("failed to record digest delivery")
	}
	if err != nil {
		return 1
	}
	return 0
}

func (d *Digest) finish(ctx context.Context, run *DigestRun, attempts, failures int, queryErr error) {
	now := d.now().UTC()
	run.FinishedAt = &now
	switch {
	case queryErr != nil:
		run.Outcome = OutcomeFailed
		msg := queryErr.Error()
		run.Error = &msg
	case failures == 0:
		run.Outcome = OutcomeSuccess
	case failures < attempts:
		run.Outcome = OutcomePartial
	default:
		run.Outcome = OutcomeFailed
	}
	if err := d.repo.FinishRun(ctx, run); err != nil {
		d.logger.Error().Err(err).Msg("failed to finalize digest run")
	}
}

// summaryText reports the day's span: earliest start and latest end
// across all appointments. An appointment without an end time counts
// its start as its end.
func summaryText(dateStr string, events []appointment.Event) string {
	earliest := events[0].Start
	latest := eventEnd(events[0])
	for _, e := range events[1:] {
		if e.Start < earliest {
			earliest = e.Start
		}
		if end := eventEnd(e); end > latest {
			latest = end
		}
	}
	return fmt.Sprintf("สรุปนัดหมายวันที่ %s ทั้งหมด %d รายการ เริ่ม %s สิ้นสุด %s",
		dateStr, len(events), earliest, latest)
}

func eventEnd(e appointment.Event) string {
	if e.End != nil && *e.End != "" {
		return *e.End
	}
	return e.Start
}

// buildCarousel renders one bubble per appointment.
func buildCarousel(events []appointment.Event) line.FlexCarousel {
	bubbles := make([]line.FlexBubble, 0, len(events))
	for _, e := range events {
		bubbles = append(bubbles, buildBubble(e))
	}
	return line.NewFlexCarousel(bubbles...)
}

func buildBubble(e appointment.Event) line.FlexBubble {
	timeRange := e.Start
	if e.End != nil && *e.End != "" {
		timeRange = e.Start + " - " + *e.End
	}

	title := line.NewFlexText(e.Title)
	title.Weight = "bold"
	title.Size = "md"
	title.Wrap = true

	when := line.NewFlexText("เวลา " + timeRange)
	when.Size = "sm"
	when.Color = "#555555"

	body := []line.FlexComponent{title, line.NewFlexSeparator(), when}
	if e.Place != nil && *e.Place != "" {
		place := line.NewFlexText("สถานที่ " + *e.Place)
		place.Size = "sm"
		place.Color = "#555555"
		place.Wrap = true
		body = append(body, place)
	}
	if e.Department != nil && *e.Department != "" {
		dept := line.NewFlexText("แผนก " + *e.Department)
		dept.Size = "sm"
		dept.Color = "#555555"
		dept.Wrap = true
		body = append(body, dept)
	}

	box := line.NewVerticalBox(body...)
	box.Spacing = "sm"

	return line.FlexBubble{
		Type: "bubble",
		Size: "kilo",
		Body: box,
	}
}
