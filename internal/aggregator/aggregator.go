// Package aggregator turns a parsed match record into its complete analytics
// bundle. The pipeline is deterministic: aggregating the same record twice
// yields identical bundles, which is what makes the store's hash key an
// idempotency key.
package aggregator

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pitchlens/pitchlens/internal/heatmap"
	"github.com/pitchlens/pitchlens/internal/model"
	"github.com/pitchlens/pitchlens/internal/passnet"
	"github.com/pitchlens/pitchlens/internal/roster"
	"github.com/pitchlens/pitchlens/internal/schema"
	"github.com/pitchlens/pitchlens/internal/shotmap"
)

// Aggregate builds the full bundle for one record. Missing record sections
// degrade to neutral defaults; only a nil record is an error.
func Aggregate(rec *model.RawRecord) (*model.AnalyticsBundle, error) {
	if rec == nil {
		return nil, fmt.Errorf("nil match record")
	}

	res := schema.NewResolver(rec.Raw)
	homeName := res.TeamName(model.SideHome)
	awayName := res.TeamName(model.SideAway)

	rosters := roster.Resolve(rec, homeName, awayName)
	networks := passnet.Build(rec.Events, rosters, homeName, awayName)
	shots := shotmap.Extract(rec.Events, rosters, homeName, awayName)

	homeScore, homeStated := res.Score(model.SideHome)
	awayScore, awayStated := res.Score(model.SideAway)

	bundle := &model.AnalyticsBundle{
		RecordHash: rec.Hash,
		TeamNames: map[model.TeamSide]string{
			model.SideHome: homeName,
			model.SideAway: awayName,
		},
		Score: map[model.TeamSide]int{
			model.SideHome: homeScore,
			model.SideAway: awayScore,
		},
		Rosters: map[model.TeamSide][]model.RosterEntry{
			model.SideHome: rosters.Squad(model.SideHome),
			model.SideAway: rosters.Squad(model.SideAway),
		},
		HeatMaps:     heatmap.Build(rec.Events, rosters, heatmap.DefaultWidth, heatmap.DefaultHeight),
		PassNetworks: networks,
		Shots:        shots,
	}

	if !homeStated && !awayStated {
		backfillScore(bundle, rec.Events, rosters, homeName, awayName)
	}
	bundle.TeamStats = resolveStats(res, rec.Events, rosters, networks, shots, homeName, awayName)
	bundle.MVP = pickMVP(res.Ratings(), rosters)
	return bundle, nil
}

// backfillScore counts goal events. Callers only invoke it when no score key
// resolved at all; a stated score, including an explicit 0-0 next to goal
// events, always wins.
func backfillScore(bundle *model.AnalyticsBundle, events []model.MatchEvent, rosters *roster.Rosters, homeName, awayName string) {
	counts := countByKindAndSide(events, model.KindGoal, rosters, homeName, awayName)
	if counts[model.SideHome] == 0 && counts[model.SideAway] == 0 {
		return
	}
	bundle.Score[model.SideHome] = counts[model.SideHome]
	bundle.Score[model.SideAway] = counts[model.SideAway]
	log.Debug().Int("home", counts[model.SideHome]).Int("away", counts[model.SideAway]).
		Msg("score backfilled from goal events")
}

// resolveStats reconciles the record's stated statistics with what the event
// stream actually shows. Stated values win; event-derived values fill gaps.
func resolveStats(res *schema.Resolver, events []model.MatchEvent, rosters *roster.Rosters,
	networks map[model.TeamSide]model.TeamPassNetwork, shots []model.ShotAttempt,
	homeName, awayName string) map[model.TeamSide]model.TeamStats {

	corners := countByKindAndSide(events, model.KindCorner, rosters, homeName, awayName)
	fouls := countByKindAndSide(events, model.KindFoul, rosters, homeName, awayName)

	shotCount := map[model.TeamSide]int{}
	onTarget := map[model.TeamSide]int{}
	for _, s := range shots {
		shotCount[s.Side]++
		switch s.Outcome {
		case "on_target", "goal":
			onTarget[s.Side]++
		}
	}

	out := make(map[model.TeamSide]model.TeamStats, 2)
	for _, side := range model.Sides() {
		net := networks[side]
		st := model.TeamStats{
			ExpectedGoals: res.StatOr(0, side, "xg", "expected_goals"),
			Shots:         intStatOr(res, shotCount[side], side, "shots", "total_shots"),
			ShotsOnTarget: intStatOr(res, onTarget[side], side, "shots_on_target", "on_target"),
			Passes:        intStatOr(res, net.Totals.Passes, side, "passes", "total_passes"),
			Corners:       intStatOr(res, corners[side], side, "corners"),
			Fouls:         intStatOr(res, fouls[side], side, "fouls"),
		}
		if v, ok := res.Stat(side, "pass_accuracy", "pass_accuracy_percent", "pass_pct"); ok {
			st.PassAccuracy = v
		} else if net.Totals.Passes > 0 {
			st.PassAccuracy = net.Totals.SuccessRate * 100
		}
		out[side] = st
	}

	reconcilePossession(res, out)
	return out
}

// reconcilePossession forces the two shares to sum to 100: a single stated
// side determines the other, no stated side splits evenly, and two stated
// sides are kept as given even when inconsistent.
func reconcilePossession(res *schema.Resolver, stats map[model.TeamSide]model.TeamStats) {
	home, hasHome := res.Stat(model.SideHome, "possession", "possession_percent", "possession_pct")
	away, hasAway := res.Stat(model.SideAway, "possession", "possession_percent", "possession_pct")
	switch {
	case hasHome && hasAway:
	case hasHome:
		away = 100 - home
	case hasAway:
		home = 100 - away
	default:
		home, away = 50, 50
	}

	h := stats[model.SideHome]
	h.Possession = home
	stats[model.SideHome] = h

	a := stats[model.SideAway]
	a.Possession = away
	stats[model.SideAway] = a
}

// pickMVP returns the player id of the squad member with the strictly
// highest rating; the id is the bundle key consumers index heat maps and
// rosters with, so display names are resolved only at render time. Rating
// keys may be player ids or display names. Ties keep the earlier player in
// roster order (home squad first), so the result is deterministic.
func pickMVP(ratings map[string]float64, rosters *roster.Rosters) string {
	if len(ratings) == 0 {
		return ""
	}
	var best string
	var bestRating float64
	found := false
	for _, member := range rosters.Members() {
		rating, ok := ratings[member.ID]
		if !ok {
			rating, ok = ratings[member.Name]
		}
		if !ok {
			continue
		}
		if !found || rating > bestRating {
			best = member.ID
			bestRating = rating
			found = true
		}
	}
	return best
}

func countByKindAndSide(events []model.MatchEvent, kind model.EventKind, rosters *roster.Rosters, homeName, awayName string) map[model.TeamSide]int {
	counts := make(map[model.TeamSide]int, 2)
	for i := range events {
		ev := &events[i]
		if ev.Kind != kind {
			continue
		}
		side := rosters.SideOf(ev.PlayerID)
		if side == model.SideUnknown {
			side = ev.TaggedSide(homeName, awayName)
		}
		if side == model.SideUnknown {
			continue
		}
		counts[side]++
	}
	return counts
}

func intStatOr(res *schema.Resolver, derived int, side model.TeamSide, names ...string) int {
	if v, ok := res.Stat(side, names...); ok {
		return int(v)
	}
	return derived
}
