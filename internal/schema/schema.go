// Package schema resolves scalar match facts out of a loosely-shaped record.
//
// The same logical fact may be spelled many ways across producers
// (home_goals, goals_home, score.home, nested under team_stats/stats/...).
// Resolution tries an ordered list of key variants against an ordered list
// of candidate containers and returns the first match; absence is a default,
// never an error. The rule tables are data so a new producer schema is a
// table edit, not new code.
package schema

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/pitchlens/pitchlens/internal/model"
)

// statContainers are tried in priority order; "" is the record root. The
// flat record wins over nested stat blocks.
var statContainers = []string{
	"",
	"statistics",
	"team_stats",
	"stats",
	"match_stats",
	"summary",
}

// teamNameKeys and scoreKeys are variant templates; %s is the side label.
var teamNameKeys = []string{
	"%s_team.name",
	"teams.%s.name",
	"%s_team_name",
	"team_names.%s",
	"%s_name",
	"%s_team",
}

var scoreKeys = []string{
	"score.%s",
	"score_%s",
	"%s_score",
	"goals_%s",
	"%s_goals",
}

var ratingKeys = []string{
	"ratings",
	"player_ratings",
	"summary.ratings",
	"summary.player_ratings",
}

// Resolver reads facts from one parsed record. It holds no mutable state
// and is safe for concurrent use.
type Resolver struct {
	doc gjson.Result
}

// NewResolver wraps raw record bytes. Invalid JSON yields a resolver where
// every lookup misses, which downstream code treats as "defaults for
// everything".
func NewResolver(raw []byte) *Resolver {
	return &Resolver{doc: gjson.ParseBytes(raw)}
}

// Lookup tries each key variant against each candidate container in
// priority order and returns the first value found.
func (r *Resolver) Lookup(variants ...string) (gjson.Result, bool) {
	for _, container := range statContainers {
		base := r.doc
		if container != "" {
			base = r.doc.Get(container)
			if !base.Exists() {
				continue
			}
		}
		for _, key := range variants {
			if v := base.Get(key); v.Exists() {
				return v, true
			}
		}
	}
	return gjson.Result{}, false
}

// Stat resolves a per-side statistic by any of its logical names. The
// spelling variants per name cover suffix, prefix, dotted, and capitalized
// forms (possession_home, home_possession, possession.home, possessionHome).
func (r *Resolver) Stat(side model.TeamSide, names ...string) (float64, bool) {
	var variants []string
	for _, name := range names {
		variants = append(variants, statVariants(name, side)...)
	}
	v, ok := r.Lookup(variants...)
	if !ok {
		return 0, false
	}
	return v.Float(), true
}

// StatOr is Stat with a caller-supplied default on miss.
func (r *Resolver) StatOr(def float64, side model.TeamSide, names ...string) float64 {
	if v, ok := r.Stat(side, names...); ok {
		return v
	}
	return def
}

// TeamName resolves a side's team name, defaulting to "Home"/"Away".
func (r *Resolver) TeamName(side model.TeamSide) string {
	v, ok := r.Lookup(expand(teamNameKeys, side)...)
	if ok {
		// A bare "home_team" may be the name string or a team object.
		if v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
		if name := v.Get("name"); name.Exists() && name.String() != "" {
			return name.String()
		}
	}
	if side == model.SideAway {
		return "Away"
	}
	return "Home"
}

// Score resolves a side's goal count. ok reports whether any score key was
// present; a stated 0 is distinct from an absent score.
func (r *Resolver) Score(side model.TeamSide) (int, bool) {
	if v, ok := r.Lookup(expand(scoreKeys, side)...); ok {
		return int(v.Int()), true
	}
	return 0, false
}

// Ratings returns the record's per-player ratings keyed by player id (or
// name, whichever the producer used). Nil when the record has none.
func (r *Resolver) Ratings() map[string]float64 {
	v, ok := r.Lookup(ratingKeys...)
	if !ok || !v.IsObject() {
		return nil
	}
	out := make(map[string]float64)
	v.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Number {
			out[key.String()] = value.Float()
		}
		return true
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func statVariants(name string, side model.TeamSide) []string {
	s := side.String()
	return []string{
		name + "_" + s,
		s + "_" + name,
		name + "." + s,
		s + "." + name,
		name + capitalize(s),
		name + "_" + capitalize(s),
	}
}

func expand(templates []string, side model.TeamSide) []string {
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		out = append(out, fmt.Sprintf(t, side.String()))
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if 'a' <= b[0] && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
