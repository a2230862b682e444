package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/fixture"
	"github.com/riskibarqy/value-radar/internal/domain/notification"
	"github.com/riskibarqy/value-radar/internal/domain/prediction"
	"github.com/riskibarqy/value-radar/internal/domain/valuebet"
	"github.com/riskibarqy/value-radar/internal/platform/id"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
)

// DispatchOutcome summarizes one fixture's alert dispatch.
type DispatchOutcome struct {
	Sent    int
	Failed  int
	Skipped int
}

// AlertService owns the detected-to-sent transition. Delivery happens first;
// the sent state and the notification record are written only after the
// channel confirmed the message. A failed persist after a confirmed send is
// the accepted at-most-one-duplicate window.
type AlertService struct {
	betRepo   valuebet.Repository
	notifRepo notification.Repository
	fixtures  fixture.Repository
	deliverer AlertDeliverer
	renderer  MessageRenderer
	ids       id.Generator

	minConfidence   int
	maxAlertsPerDay int
	log             *logging.Logger
	now             func() time.Time
}

type AlertServiceParams struct {
	BetRepo         valuebet.Repository
	NotifRepo       notification.Repository
	FixtureRepo     fixture.Repository
	Deliverer       AlertDeliverer
	Renderer        MessageRenderer
	IDs             id.Generator
	MinConfidence   int
	MaxAlertsPerDay int
	Log             *logging.Logger
}

func NewAlertService(p AlertServiceParams) *AlertService {
	if p.MinConfidence <= 0 {
		p.MinConfidence = 3
	}
	if p.MaxAlertsPerDay <= 0 {
		p.MaxAlertsPerDay = 10
	}
	if p.Log == nil {
		p.Log = logging.Default()
	}
	if p.IDs == nil {
		p.IDs = id.NewRandomGenerator()
	}
	return &AlertService{
		betRepo:         p.BetRepo,
		notifRepo:       p.NotifRepo,
		fixtures:        p.FixtureRepo,
		deliverer:       p.Deliverer,
		renderer:        p.Renderer,
		ids:             p.IDs,
		minConfidence:   p.MinConfidence,
		maxAlertsPerDay: p.MaxAlertsPerDay,
		log:             p.Log.Named("alert-service"),
		now:             time.Now,
	}
}

// DispatchBets persists and delivers one fixture's detected bets, best edge
// first. Gates in order: confidence floor, daily cap, duplicate sent guard.
// A delivery failure records the failed attempt and moves on; the next cycle
// re-detects and retries.
func (s *AlertService) DispatchBets(ctx context.Context, fx fixture.Fixture, pred prediction.Prediction, bets []valuebet.ValueBet) (DispatchOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "AlertService.DispatchBets")
	defer span.End()

	var out DispatchOutcome
	if len(bets) == 0 {
		return out, nil
	}

	sorted := make([]valuebet.ValueBet, len(bets))
	copy(sorted, bets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Edge > sorted[j].Edge })

	for _, bet := range sorted {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		if bet.Confidence < s.minConfidence {
			out.Skipped++
			continue
		}

		capped, err := s.dailyCapReached(ctx)
		if err != nil {
			return out, err
		}
		if capped {
			s.log.InfoContext(ctx, "daily alert cap reached, holding remaining alerts",
				"fixture_id", fx.ID, "cap", s.maxAlertsPerDay)
			out.Skipped += len(sorted) - out.Sent - out.Failed - out.Skipped
			return out, nil
		}

		already, err := s.betRepo.HasSent(ctx, bet.FixtureID, string(bet.Outcome))
		if err != nil {
			return out, fmt.Errorf("sent lookup fixture=%d outcome=%s: %w", bet.FixtureID, bet.Outcome, err)
		}
		if already {
			out.Skipped++
			continue
		}

		if err := s.sendOne(ctx, fx, pred, bet); err != nil {
			out.Failed++
			s.log.ErrorContext(ctx, "alert delivery failed",
				"fixture_id", fx.ID, "outcome", bet.Outcome, "error", err)
			continue
		}
		out.Sent++
	}

	return out, nil
}

// sendOne inserts the detected bet, delivers, then marks sent. The sent mark
// and the notification record are written only on confirmed delivery.
func (s *AlertService) sendOne(ctx context.Context, fx fixture.Fixture, pred prediction.Prediction, bet valuebet.ValueBet) error {
	betID, err := id.NewPrefixedID(s.ids, "bet")
	if err != nil {
		return fmt.Errorf("bet id: %w", err)
	}
	bet.ID = betID
	bet.Status = valuebet.StatusDetected

	if _, err := s.betRepo.Insert(ctx, bet); err != nil {
		return fmt.Errorf("insert value bet: %w", err)
	}

	minutes := int(fx.KickoffUTC.Sub(s.now()).Minutes())
	msg := s.renderer.Alert(fx, bet, pred, minutes)
	receipt, err := s.deliverer.Send(ctx, msg)
	if err != nil {
		if markErr := s.betRepo.MarkFailed(ctx, betID, err.Error()); markErr != nil {
			s.log.ErrorContext(ctx, "failed to record delivery failure", "bet_id", betID, "error", markErr)
		}
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	if err := s.betRepo.MarkSent(ctx, betID, receipt.SentAt); err != nil {
		// The message is already out. Keep going so a storage blip cannot
		// lose the delivery record entirely; the duplicate guard may admit
		// one repeat for this outcome.
		s.log.ErrorContext(ctx, "sent mark failed after confirmed delivery",
			"bet_id", betID, "message_id", receipt.MessageID, "error", err)
		return nil
	}

	notifID, err := id.NewPrefixedID(s.ids, "ntf")
	if err != nil {
		notifID = betID
	}
	record := notification.Record{
		ID:         notifID,
		ValueBetID: betID,
		MessageID:  receipt.MessageID,
		Channel:    receipt.Channel,
		SentAt:     receipt.SentAt,
	}
	if err := s.notifRepo.Insert(ctx, record); err != nil {
		s.log.ErrorContext(ctx, "notification record insert failed",
			"bet_id", betID, "message_id", receipt.MessageID, "error", err)
	}

	s.log.InfoContext(ctx, "alert sent",
		"fixture_id", bet.FixtureID, "outcome", bet.Outcome,
		"edge", bet.Edge, "confidence", bet.Confidence, "message_id", receipt.MessageID)
	return nil
}

func (s *AlertService) dailyCapReached(ctx context.Context) (bool, error) {
	count, err := s.betRepo.CountSentSince(ctx, midnightUTC(s.now()))
	if err != nil {
		return false, fmt.Errorf("count sent today: %w", err)
	}
	return count >= s.maxAlertsPerDay, nil
}

// BuildDailySummary aggregates today's sent alerts for the summary message.
func (s *AlertService) BuildDailySummary(ctx context.Context) (DailySummary, error) {
	ctx, span := startUsecaseSpan(ctx, "AlertService.BuildDailySummary")
	defer span.End()

	now := s.now()
	since := midnightUTC(now)
	sent, err := s.betRepo.ListSentSince(ctx, since)
	if err != nil {
		return DailySummary{}, fmt.Errorf("list sent today: %w", err)
	}

	summary := DailySummary{
		Date:          now.UTC(),
		AlertsSent:    len(sent),
		Opportunities: len(sent),
	}
	if len(sent) == 0 {
		return summary, nil
	}

	best := sent[0]
	for _, b := range sent[1:] {
		if b.Edge > best.Edge {
			best = b
		}
	}
	summary.BestBet = &best

	if fx, exists, err := s.fixtures.GetByID(ctx, best.FixtureID); err == nil && exists {
		summary.BestFixture = &fx
	}
	return summary, nil
}

// SendSummary renders and delivers the daily summary. A failure is logged,
// not retried; the next day's summary covers a fresh window.
func (s *AlertService) SendSummary(ctx context.Context) error {
	summary, err := s.BuildDailySummary(ctx)
	if err != nil {
		return err
	}
	if _, err := s.deliverer.Send(ctx, s.renderer.Summary(summary)); err != nil {
		return fmt.Errorf("%w: summary: %v", ErrDelivery, err)
	}
	return nil
}

// NotifyStartup announces the service on the channel. Best effort.
func (s *AlertService) NotifyStartup(ctx context.Context, serviceName, version string, leagueIDs []int) {
	if _, err := s.deliverer.Send(ctx, s.renderer.Startup(serviceName, version, leagueIDs)); err != nil {
		s.log.WarnContext(ctx, "startup notice failed", "error", err)
	}
}

// NotifyFatal pushes an operational notice about a fatal provider failure.
func (s *AlertService) NotifyFatal(ctx context.Context, reason string) {
	if _, err := s.deliverer.Send(ctx, s.renderer.FatalNotice(reason)); err != nil {
		s.log.ErrorContext(ctx, "fatal notice delivery failed", "error", err)
	}
}

func midnightUTC(now time.Time) time.Time {
	t := now.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
