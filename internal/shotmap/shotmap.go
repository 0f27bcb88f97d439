// Package shotmap extracts the shot chart: every shot and goal attempt with
// a canonical coordinate and a resolved side.
package shotmap

import (
	"github.com/rs/zerolog/log"

	"github.com/pitchlens/pitchlens/internal/model"
	"github.com/pitchlens/pitchlens/internal/pitch"
	"github.com/pitchlens/pitchlens/internal/roster"
)

// Extract returns the shots in event order. Side resolution tries squad
// membership of the shooter first, then the event's own team tag. Attempts
// with no coordinate or no resolvable side are dropped rather than placed
// at a default location.
func Extract(events []model.MatchEvent, rosters *roster.Rosters, homeName, awayName string) []model.ShotAttempt {
	var shots []model.ShotAttempt
	dropped := 0
	for i := range events {
		ev := &events[i]
		if ev.Kind != model.KindShot && ev.Kind != model.KindGoal {
			continue
		}
		sample := ev.SampleCoordinate()
		if sample == nil {
			dropped++
			continue
		}
		side := rosters.SideOf(ev.PlayerID)
		if side == model.SideUnknown {
			side = ev.TaggedSide(homeName, awayName)
		}
		if side == model.SideUnknown {
			dropped++
			continue
		}
		shots = append(shots, model.ShotAttempt{
			Coordinate: pitch.Normalize(*sample),
			Side:       side,
			Outcome:    ev.Outcome,
		})
	}
	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("skipped shots without coordinate or side")
	}
	return shots
}
