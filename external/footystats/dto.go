package footystats

// The provider wraps every payload in a success flag plus a data array.
type teamEnvelope struct {
	Success bool       `json:"success"`
	Data    []teamData `json:"data"`
}

type teamData struct {
	ID    int64     `json:"id" validate:"required,gt=0"`
	Name  string    `json:"name"`
	Stats teamStats `json:"stats"`
}

type teamStats struct {
	SeasonPPG        float64 `json:"seasonPPG_overall" validate:"gte=0,lte=3"`
	Last5PPG         float64 `json:"formRun_overall" validate:"gte=0"`
	BTTSPercentage   float64 `json:"seasonBTTSPercentage_overall" validate:"gte=0,lte=100"`
	Over25Percentage float64 `json:"seasonOver25Percentage_overall" validate:"gte=0,lte=100"`
	ScoredAvg        float64 `json:"seasonScoredAVG_overall"`
	ConcededAvg      float64 `json:"seasonConcededAVG_overall"`
	MatchesPlayed    int     `json:"seasonMatchesPlayed_overall"`
	CleanSheetPct    float64 `json:"seasonCSPercentage_overall"`
	FailedToScorePct float64 `json:"seasonFTSPercentage_overall"`
}
