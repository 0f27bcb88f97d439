// Package tactics derives simple coaching suggestions from a team's
// reconciled statistics. Rules are thresholds over the stat line, nothing
// clever; the point is surfacing the obvious imbalances in a scannable list.
package tactics

import (
	"fmt"

	"github.com/pitchlens/pitchlens/internal/model"
)

// Rule thresholds.
const (
	passAccuracyFloor  = 70.0
	possessionFloor    = 40.0
	shotConversionMin  = 0.25
	foulCeiling        = 15
	cornerShareMinimum = 3
)

// Suggestion is one derived observation for one side.
type Suggestion struct {
	Side    model.TeamSide
	Title   string
	Message string
}

// Suggest evaluates both stat lines and returns suggestions in side order,
// home first. An empty slice means nothing stood out.
func Suggest(stats map[model.TeamSide]model.TeamStats) []Suggestion {
	var out []Suggestion
	for _, side := range model.Sides() {
		st, ok := stats[side]
		if !ok {
			continue
		}
		out = append(out, evaluate(side, st)...)
	}
	return out
}

func evaluate(side model.TeamSide, st model.TeamStats) []Suggestion {
	var out []Suggestion

	if st.Passes > 0 && st.PassAccuracy < passAccuracyFloor {
		out = append(out, Suggestion{
			Side:  side,
			Title: "low pass accuracy",
			Message: fmt.Sprintf("pass accuracy %.1f%% is below %.0f%%; shorten passing distances or slow the build-up",
				st.PassAccuracy, passAccuracyFloor),
		})
	}

	if st.Possession < possessionFloor {
		out = append(out, Suggestion{
			Side:  side,
			Title: "ceding possession",
			Message: fmt.Sprintf("possession %.1f%% is below %.0f%%; press higher or hold the ball longer in midfield",
				st.Possession, possessionFloor),
		})
	}

	if st.Shots >= 4 {
		conversion := float64(st.ShotsOnTarget) / float64(st.Shots)
		if conversion < shotConversionMin {
			out = append(out, Suggestion{
				Side:  side,
				Title: "wasteful shooting",
				Message: fmt.Sprintf("only %d of %d shots on target; work the ball closer before shooting",
					st.ShotsOnTarget, st.Shots),
			})
		}
	}

	if st.Fouls > foulCeiling {
		out = append(out, Suggestion{
			Side:    side,
			Title:   "foul count",
			Message: fmt.Sprintf("%d fouls conceded; tighten the challenges before cards decide the match", st.Fouls),
		})
	}

	if st.Shots > 0 && st.Corners >= cornerShareMinimum && st.ShotsOnTarget == 0 {
		out = append(out, Suggestion{
			Side:    side,
			Title:   "set pieces not threatening",
			Message: fmt.Sprintf("%d corners without a shot on target; vary the delivery", st.Corners),
		})
	}

	return out
}
