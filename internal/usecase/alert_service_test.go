package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/fixture"
	"github.com/riskibarqy/value-radar/internal/domain/odds"
	"github.com/riskibarqy/value-radar/internal/domain/prediction"
	"github.com/riskibarqy/value-radar/internal/domain/valuebet"
	"github.com/riskibarqy/value-radar/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
)

type recordingDeliverer struct {
	mu       sync.Mutex
	failWith error
	sent     []AlertMessage
	nextID   int64
}

func (d *recordingDeliverer) Send(_ context.Context, msg AlertMessage) (DeliveryReceipt, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWith != nil {
		return DeliveryReceipt{}, d.failWith
	}
	d.nextID++
	d.sent = append(d.sent, msg)
	return DeliveryReceipt{MessageID: d.nextID, Channel: "telegram", SentAt: time.Now().UTC()}, nil
}

func (d *recordingDeliverer) sentCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

type plainRenderer struct{}

func (plainRenderer) Alert(fx fixture.Fixture, bet valuebet.ValueBet, _ prediction.Prediction, _ int) AlertMessage {
	return AlertMessage{Text: fx.HomeTeamName + " vs " + fx.AwayTeamName + " " + string(bet.Outcome)}
}

func (plainRenderer) Summary(_ DailySummary) AlertMessage {
	return AlertMessage{Text: "summary"}
}

func (plainRenderer) Startup(serviceName, _ string, _ []int) AlertMessage {
	return AlertMessage{Text: serviceName + " up"}
}

func (plainRenderer) FatalNotice(reason string) AlertMessage {
	return AlertMessage{Text: "fatal: " + reason}
}

func alertTestFixture(kickoff time.Time) fixture.Fixture {
	return fixture.Fixture{
		ID:           1001,
		LeagueID:     39,
		Season:       2026,
		KickoffUTC:   kickoff,
		Status:       "NS",
		HomeTeamID:   40,
		HomeTeamName: "Liverpool",
		AwayTeamID:   50,
		AwayTeamName: "Manchester City",
	}
}

func detectedBet(fixtureID int64, outcome odds.Outcome, edge float64, confidence int) valuebet.ValueBet {
	return valuebet.ValueBet{
		FixtureID:        fixtureID,
		PredictionID:     "prd-test",
		Market:           odds.MarketMatchWinner,
		Outcome:          outcome,
		ModelProbability: 0.52,
		Price:            2.10,
		Bookmaker:        "Bet365",
		Edge:             edge,
		Confidence:       confidence,
		Status:           valuebet.StatusDetected,
		KickoffUTC:       time.Now().Add(45 * time.Minute),
		DetectedAt:       time.Now(),
	}
}

func newAlertServiceForTest(betRepo valuebet.Repository, deliverer AlertDeliverer, maxPerDay int) (*AlertService, *memory.NotificationRepository, *memory.FixtureRepository) {
	notifRepo := memory.NewNotificationRepository()
	fixtureRepo := memory.NewFixtureRepository()
	svc := NewAlertService(AlertServiceParams{
		BetRepo:         betRepo,
		NotifRepo:       notifRepo,
		FixtureRepo:     fixtureRepo,
		Deliverer:       deliverer,
		Renderer:        plainRenderer{},
		MinConfidence:   3,
		MaxAlertsPerDay: maxPerDay,
		Log:             logging.NewNop(),
	})
	return svc, notifRepo, fixtureRepo
}

func TestAlertService_DispatchBets_SendThenPersist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betRepo := memory.NewValueBetRepository()
	deliverer := &recordingDeliverer{}
	svc, notifRepo, _ := newAlertServiceForTest(betRepo, deliverer, 10)

	fx := alertTestFixture(time.Now().Add(45 * time.Minute))
	bets := []valuebet.ValueBet{detectedBet(fx.ID, odds.OutcomeHome, 0.08, 4)}

	out, err := svc.DispatchBets(ctx, fx, prediction.Prediction{ID: "prd-test"}, bets)
	if err != nil {
		t.Fatalf("DispatchBets error: %v", err)
	}
	if out.Sent != 1 || out.Failed != 0 {
		t.Fatalf("unexpected outcome: %+v", out)
	}

	already, err := betRepo.HasSent(ctx, fx.ID, string(odds.OutcomeHome))
	if err != nil {
		t.Fatalf("HasSent error: %v", err)
	}
	if !already {
		t.Fatalf("expected a sent row after confirmed delivery")
	}
	if got := len(notifRepo.Records()); got != 1 {
		t.Fatalf("expected 1 notification record, got=%d", got)
	}
	if deliverer.sentCount() != 1 {
		t.Fatalf("expected 1 delivered message, got=%d", deliverer.sentCount())
	}
}

func TestAlertService_DispatchBets_DeliveryFailureLeavesNothingSent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betRepo := memory.NewValueBetRepository()
	deliverer := &recordingDeliverer{failWith: errors.New("telegram unreachable")}
	svc, notifRepo, _ := newAlertServiceForTest(betRepo, deliverer, 10)

	fx := alertTestFixture(time.Now().Add(45 * time.Minute))
	bets := []valuebet.ValueBet{detectedBet(fx.ID, odds.OutcomeHome, 0.08, 4)}

	out, err := svc.DispatchBets(ctx, fx, prediction.Prediction{ID: "prd-test"}, bets)
	if err != nil {
		t.Fatalf("DispatchBets error: %v", err)
	}
	if out.Failed != 1 || out.Sent != 0 {
		t.Fatalf("unexpected outcome: %+v", out)
	}

	already, err := betRepo.HasSent(ctx, fx.ID, string(odds.OutcomeHome))
	if err != nil {
		t.Fatalf("HasSent error: %v", err)
	}
	if already {
		t.Fatalf("nothing may be marked sent after a delivery failure")
	}
	if got := len(notifRepo.Records()); got != 0 {
		t.Fatalf("expected 0 notification records, got=%d", got)
	}

	// The next cycle re-detects the same outcome and retries cleanly.
	deliverer.mu.Lock()
	deliverer.failWith = nil
	deliverer.mu.Unlock()

	out, err = svc.DispatchBets(ctx, fx, prediction.Prediction{ID: "prd-test"}, []valuebet.ValueBet{detectedBet(fx.ID, odds.OutcomeHome, 0.08, 4)})
	if err != nil {
		t.Fatalf("retry DispatchBets error: %v", err)
	}
	if out.Sent != 1 {
		t.Fatalf("expected retry to send, got %+v", out)
	}
}

func TestAlertService_DispatchBets_DuplicateGuard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betRepo := memory.NewValueBetRepository()
	deliverer := &recordingDeliverer{}
	svc, _, _ := newAlertServiceForTest(betRepo, deliverer, 10)

	fx := alertTestFixture(time.Now().Add(45 * time.Minute))
	bets := []valuebet.ValueBet{detectedBet(fx.ID, odds.OutcomeHome, 0.08, 4)}

	if _, err := svc.DispatchBets(ctx, fx, prediction.Prediction{ID: "prd-test"}, bets); err != nil {
		t.Fatalf("first DispatchBets error: %v", err)
	}

	out, err := svc.DispatchBets(ctx, fx, prediction.Prediction{ID: "prd-test"}, []valuebet.ValueBet{detectedBet(fx.ID, odds.OutcomeHome, 0.09, 4)})
	if err != nil {
		t.Fatalf("second DispatchBets error: %v", err)
	}
	if out.Sent != 0 || out.Skipped != 1 {
		t.Fatalf("expected duplicate to be skipped, got %+v", out)
	}
	if deliverer.sentCount() != 1 {
		t.Fatalf("expected exactly 1 delivered message, got=%d", deliverer.sentCount())
	}
}

func TestAlertService_DispatchBets_DailyCap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betRepo := memory.NewValueBetRepository()
	deliverer := &recordingDeliverer{}
	svc, _, _ := newAlertServiceForTest(betRepo, deliverer, 1)

	fx := alertTestFixture(time.Now().Add(45 * time.Minute))
	bets := []valuebet.ValueBet{
		detectedBet(fx.ID, odds.OutcomeHome, 0.10, 4),
		detectedBet(fx.ID, odds.OutcomeDraw, 0.06, 4),
	}

	out, err := svc.DispatchBets(ctx, fx, prediction.Prediction{ID: "prd-test"}, bets)
	if err != nil {
		t.Fatalf("DispatchBets error: %v", err)
	}
	if out.Sent != 1 {
		t.Fatalf("expected 1 sent under cap=1, got %+v", out)
	}
	if out.Skipped != 1 {
		t.Fatalf("expected the remaining bet held by the cap, got %+v", out)
	}

	// Highest edge goes out first.
	already, err := betRepo.HasSent(ctx, fx.ID, string(odds.OutcomeHome))
	if err != nil {
		t.Fatalf("HasSent error: %v", err)
	}
	if !already {
		t.Fatalf("expected the best-edge outcome to be the one sent")
	}
}

func TestAlertService_DispatchBets_ConfidenceFloor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betRepo := memory.NewValueBetRepository()
	deliverer := &recordingDeliverer{}
	svc, _, _ := newAlertServiceForTest(betRepo, deliverer, 10)

	fx := alertTestFixture(time.Now().Add(45 * time.Minute))
	bets := []valuebet.ValueBet{detectedBet(fx.ID, odds.OutcomeHome, 0.08, 2)}

	out, err := svc.DispatchBets(ctx, fx, prediction.Prediction{ID: "prd-test"}, bets)
	if err != nil {
		t.Fatalf("DispatchBets error: %v", err)
	}
	if out.Sent != 0 || out.Skipped != 1 {
		t.Fatalf("expected low-confidence bet skipped, got %+v", out)
	}
	if deliverer.sentCount() != 0 {
		t.Fatalf("expected 0 delivered messages, got=%d", deliverer.sentCount())
	}
}

func TestAlertService_BuildDailySummary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betRepo := memory.NewValueBetRepository()
	deliverer := &recordingDeliverer{}
	svc, _, fixtureRepo := newAlertServiceForTest(betRepo, deliverer, 10)

	fx := alertTestFixture(time.Now().Add(45 * time.Minute))
	if err := fixtureRepo.UpsertBatch(ctx, []fixture.Fixture{fx}); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	bets := []valuebet.ValueBet{
		detectedBet(fx.ID, odds.OutcomeHome, 0.04, 4),
		detectedBet(fx.ID, odds.OutcomeDraw, 0.12, 4),
	}
	if _, err := svc.DispatchBets(ctx, fx, prediction.Prediction{ID: "prd-test"}, bets); err != nil {
		t.Fatalf("DispatchBets error: %v", err)
	}

	summary, err := svc.BuildDailySummary(ctx)
	if err != nil {
		t.Fatalf("BuildDailySummary error: %v", err)
	}
	if summary.AlertsSent != 2 {
		t.Fatalf("expected 2 alerts in summary, got=%d", summary.AlertsSent)
	}
	if summary.BestBet == nil || summary.BestBet.Edge != 0.12 {
		t.Fatalf("expected the 0.12 edge as best bet, got %+v", summary.BestBet)
	}
	if summary.BestFixture == nil || summary.BestFixture.ID != fx.ID {
		t.Fatalf("expected best fixture %d, got %+v", fx.ID, summary.BestFixture)
	}
}
