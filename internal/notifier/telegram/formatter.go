package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/value-radar/internal/domain/fixture"
	"github.com/riskibarqy/value-radar/internal/domain/odds"
	"github.com/riskibarqy/value-radar/internal/domain/prediction"
	"github.com/riskibarqy/value-radar/internal/domain/valuebet"
	"github.com/riskibarqy/value-radar/internal/usecase"
)

var leagueEmoji = map[int]string{
	262: "\U0001F1F2\U0001F1FD", // Liga MX
	39:  "\U0001F3F4\U000E0067\U000E0062\U000E0065\U000E006E\U000E0067\U000E007F", // Premier League
	140: "\U0001F1EA\U0001F1F8", // La Liga
	78:  "\U0001F1E9\U0001F1EA", // Bundesliga
	135: "\U0001F1EE\U0001F1F9", // Serie A
	61:  "\U0001F1EB\U0001F1F7", // Ligue 1
}

var outcomeLabel = map[odds.Outcome]string{
	odds.OutcomeHome:    "Home win",
	odds.OutcomeDraw:    "Draw",
	odds.OutcomeAway:    "Away win",
	odds.OutcomeOver25:  "Over 2.5 goals",
	odds.OutcomeUnder25: "Under 2.5 goals",
	odds.OutcomeBTTSYes: "Both teams to score",
	odds.OutcomeBTTSNo:  "Both teams to score: No",
}

// Formatter renders HTML messages for Telegram. Buffers come from a shared
// pool; team names are escaped before they touch markup.
type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Alert(fx fixture.Fixture, bet valuebet.ValueBet, pred prediction.Prediction, minutesToKickoff int) usecase.AlertMessage {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	emoji := leagueEmoji[fx.LeagueID]
	if emoji == "" {
		emoji = "⚽"
	}

	label := outcomeLabel[bet.Outcome]
	if label == "" {
		label = string(bet.Outcome)
	}

	fmt.Fprintf(buf, "\U0001F6A8 <b>VALUE BET DETECTED</b> %s\n\n", emoji)
	fmt.Fprintf(buf, "<b>%s vs %s</b>\n", html.EscapeString(fx.HomeTeamName), html.EscapeString(fx.AwayTeamName))
	fmt.Fprintf(buf, "\U0001F552 Kickoff: %s UTC (in %d min)\n", fx.KickoffUTC.UTC().Format("15:04"), minutesToKickoff)
	if fx.Venue != "" {
		fmt.Fprintf(buf, "\U0001F3DF %s\n", html.EscapeString(fx.Venue))
	}
	buf.WriteString("\n")

	fmt.Fprintf(buf, "\U0001F4CC Bet: <b>%s</b> @ %.2f (%s)\n", label, bet.Price, html.EscapeString(bet.Bookmaker))
	if bet.FairProbability > 0 {
		fmt.Fprintf(buf, "\U0001F4C8 Model probability: %.1f%% (implied %.1f%%, fair %.1f%%)\n",
			bet.ModelProbability*100, 100/bet.Price, bet.FairProbability*100)
	} else {
		fmt.Fprintf(buf, "\U0001F4C8 Model probability: %.1f%% (implied %.1f%%)\n", bet.ModelProbability*100, 100/bet.Price)
	}
	fmt.Fprintf(buf, "\U0001F4B0 Edge: <b>%+.1f%%</b>\n", bet.Edge*100)
	fmt.Fprintf(buf, "%s Confidence: %d/5\n\n", strings.Repeat("⭐", bet.Confidence), bet.Confidence)

	fmt.Fprintf(buf, "⚔️ Expected goals: %.2f - %.2f\n", pred.LambdaHome, pred.LambdaAway)
	fmt.Fprintf(buf, "1X2: %.0f%% / %.0f%% / %.0f%%\n", pred.Outcomes.Home*100, pred.Outcomes.Draw*100, pred.Outcomes.Away*100)
	fmt.Fprintf(buf, "O/U 2.5: %.0f%% / %.0f%%  |  BTTS: %.0f%%\n\n", pred.Over25*100, pred.Under25*100, pred.BTTSYes*100)

	if !bet.SuggestedStake.IsZero() {
		stake, _ := bet.SuggestedStake.Float64()
		ev := valuebet.ExpectedValue(bet.ModelProbability, bet.Price, stake)
		fmt.Fprintf(buf, "\U0001F4B5 Suggested stake: %s (quarter Kelly, EV %+.2f)\n\n",
			bet.SuggestedStake.StringFixed(2), ev)
	}

	buf.WriteString("<i>Model output, not betting advice. Bet responsibly.</i>")

	return usecase.AlertMessage{Text: buf.String()}
}

func (f *Formatter) Summary(s usecase.DailySummary) usecase.AlertMessage {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "\U0001F4CA <b>Daily Summary</b> %s\n\n", s.Date.Format("2006-01-02"))
	fmt.Fprintf(buf, "Alerts sent today: <b>%d</b>\n", s.AlertsSent)

	if s.BestBet != nil {
		label := outcomeLabel[s.BestBet.Outcome]
		if label == "" {
			label = string(s.BestBet.Outcome)
		}
		buf.WriteString("\n\U0001F3C6 Best opportunity:\n")
		if s.BestFixture != nil {
			fmt.Fprintf(buf, "%s vs %s\n",
				html.EscapeString(s.BestFixture.HomeTeamName),
				html.EscapeString(s.BestFixture.AwayTeamName))
		}
		fmt.Fprintf(buf, "%s @ %.2f, edge %+.1f%%\n", label, s.BestBet.Price, s.BestBet.Edge*100)
	} else {
		buf.WriteString("\nNo value opportunities cleared the threshold today.\n")
	}

	return usecase.AlertMessage{Text: buf.String()}
}

func (f *Formatter) Startup(serviceName, version string, leagueIDs []int) usecase.AlertMessage {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "\U0001F916 <b>%s</b> %s is online\n", html.EscapeString(serviceName), html.EscapeString(version))
	if len(leagueIDs) > 0 {
		parts := make([]string, 0, len(leagueIDs))
		for _, id := range leagueIDs {
			parts = append(parts, fmt.Sprintf("%d", id))
		}
		fmt.Fprintf(buf, "Watching leagues: %s", strings.Join(parts, ", "))
	}

	return usecase.AlertMessage{Text: buf.String()}
}

func (f *Formatter) FatalNotice(reason string) usecase.AlertMessage {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString("❌ <b>Pipeline degraded</b>\n\n")
	fmt.Fprintf(buf, "%s\n\n", html.EscapeString(reason))
	buf.WriteString("New analysis is halted until the provider recovers. Check credentials and plan limits.")

	return usecase.AlertMessage{Text: buf.String()}
}
