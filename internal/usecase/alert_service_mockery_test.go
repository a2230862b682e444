package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/value-radar/internal/domain/odds"
	"github.com/riskibarqy/value-radar/internal/domain/prediction"
	"github.com/riskibarqy/value-radar/internal/domain/valuebet"
	"github.com/riskibarqy/value-radar/internal/infrastructure/repository/memory"
	valuebetmock "github.com/riskibarqy/value-radar/internal/mocks/domain/valuebet"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
)

func TestAlertService_DispatchBets_SentMarkFailureAfterDeliveryUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betRepo := valuebetmock.NewRepository(t)
	deliverer := &recordingDeliverer{}
	svc := NewAlertService(AlertServiceParams{
		BetRepo:         betRepo,
		NotifRepo:       memory.NewNotificationRepository(),
		FixtureRepo:     memory.NewFixtureRepository(),
		Deliverer:       deliverer,
		Renderer:        plainRenderer{},
		MinConfidence:   3,
		MaxAlertsPerDay: 10,
		Log:             logging.NewNop(),
	})

	fx := alertTestFixture(time.Now().Add(45 * time.Minute))
	bet := detectedBet(fx.ID, odds.OutcomeHome, 0.08, 4)

	betRepo.On("CountSentSince", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(0, nil).Once()
	betRepo.On("HasSent", mock.Anything, fx.ID, string(odds.OutcomeHome)).
		Return(false, nil).Once()
	betRepo.On("Insert", mock.Anything, mock.AnythingOfType("valuebet.ValueBet")).
		Return("", nil).Once()
	betRepo.On("MarkSent", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(errors.New("storage unavailable")).Once()

	out, err := svc.DispatchBets(ctx, fx, prediction.Prediction{ID: "prd-test"}, []valuebet.ValueBet{bet})
	if err != nil {
		t.Fatalf("DispatchBets error: %v", err)
	}
	// The message is already out; a failed sent mark must not be reported as
	// a delivery failure, and no MarkFailed may rewrite a delivered bet.
	if out.Sent != 1 || out.Failed != 0 {
		t.Fatalf("unexpected outcome after sent-mark failure: %+v", out)
	}
	if deliverer.sentCount() != 1 {
		t.Fatalf("expected 1 delivered message, got=%d", deliverer.sentCount())
	}
	betRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}
