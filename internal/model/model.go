package model

import "fmt"

// TeamSide identifies which side of the match a player or event belongs to.
// SideUnknown is a legal transient state during resolution; it must never
// appear in a finished AnalyticsBundle.
type TeamSide int

const (
	SideUnknown TeamSide = 0
	SideHome    TeamSide = 1
	SideAway    TeamSide = 2
)

func (s TeamSide) String() string {
	switch s {
	case SideHome:
		return "home"
	case SideAway:
		return "away"
	default:
		return "?"
	}
}

// MarshalText makes TeamSide usable as a JSON map key ("home"/"away").
func (s TeamSide) MarshalText() ([]byte, error) {
	if s == SideUnknown {
		return nil, fmt.Errorf("cannot marshal unknown team side")
	}
	return []byte(s.String()), nil
}

func (s *TeamSide) UnmarshalText(b []byte) error {
	switch string(b) {
	case "home":
		*s = SideHome
	case "away":
		*s = SideAway
	default:
		return fmt.Errorf("unknown team side %q", string(b))
	}
	return nil
}

// Sides lists the two real sides in canonical order.
func Sides() [2]TeamSide {
	return [2]TeamSide{SideHome, SideAway}
}

// EventKind is the closed set of event variants the aggregators understand.
// The parser maps the producer's free-form kind strings onto this set; kinds
// it cannot place become KindUnknown and are ignored downstream.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindPass
	KindShot
	KindGoal
	KindSubstitution
	KindPosition
	KindCarry
	KindDribble
	KindCorner
	KindFoul
	KindCard
)

func (k EventKind) String() string {
	switch k {
	case KindPass:
		return "pass"
	case KindShot:
		return "shot"
	case KindGoal:
		return "goal"
	case KindSubstitution:
		return "substitution"
	case KindPosition:
		return "position"
	case KindCarry:
		return "carry"
	case KindDribble:
		return "dribble"
	case KindCorner:
		return "corner"
	case KindFoul:
		return "foul"
	case KindCard:
		return "card"
	default:
		return "unknown"
	}
}

// IsMovement reports whether the kind carries a tracking-style position
// sample rather than a one-off action marker.
func (k EventKind) IsMovement() bool {
	return k == KindPosition || k == KindCarry || k == KindDribble
}

// Coordinate is a position on the pitch. Raw event coordinates may arrive in
// any producer convention; canonical coordinates are metres in
// [0,105]×[0,68] with the origin at a pitch corner.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MatchEvent is one parsed telemetry event. Events are immutable once
// parsed; the aggregators never write to them.
type MatchEvent struct {
	Kind    EventKind
	RawKind string
	Minute  int

	PlayerID string
	TargetID string

	// Side is set when the event carried an explicit home/away tag
	// (boolean, 0/1 index, or "home"/"away" string). TeamTag keeps any
	// other team label (e.g. a club name) for late resolution.
	Side    TeamSide
	TeamTag string

	// TrackID is the producer's pitch-slot id (0..21), -1 when absent.
	TrackID int

	// Substitution payload, when explicitly present.
	InPlayerID   string
	InPlayerName string

	Position *Coordinate
	Start    *Coordinate
	End      *Coordinate

	Outcome string
}

// TaggedSide resolves the event's explicit team tag: the pre-resolved Side
// if any, else a TeamTag matching one of the resolved team names.
func (e *MatchEvent) TaggedSide(homeName, awayName string) TeamSide {
	if e.Side != SideUnknown {
		return e.Side
	}
	if e.TeamTag == "" {
		return SideUnknown
	}
	if homeName != "" && equalFold(e.TeamTag, homeName) {
		return SideHome
	}
	if awayName != "" && equalFold(e.TeamTag, awayName) {
		return SideAway
	}
	return SideUnknown
}

// SampleCoordinate returns the best raw position sample the event carries:
// the explicit position, else the start of its path.
func (e *MatchEvent) SampleCoordinate() *Coordinate {
	if e.Position != nil {
		return e.Position
	}
	return e.Start
}

// RawRecord is the typed boundary form of one match record: the original
// bytes (for schema resolution), their hash (the store key), and the parsed
// event sequence.
type RawRecord struct {
	Hash   string
	Raw    []byte
	Events []MatchEvent
}

// RosterEntry is one resolved squad member.
type RosterEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	IsSubstitute bool   `json:"is_substitute"`
}

// HeatMapGrid is a row-major occupancy histogram over the pitch for one
// player. len(Cells) == Width*Height and MaxIntensity == max(Cells).
type HeatMapGrid struct {
	PlayerID     string    `json:"player_id"`
	Width        int       `json:"grid_width"`
	Height       int       `json:"grid_height"`
	Cells        []float64 `json:"cells"`
	MaxIntensity float64   `json:"max_intensity"`
}

// Total returns the sum of all cell counts.
func (g *HeatMapGrid) Total() float64 {
	var sum float64
	for _, c := range g.Cells {
		sum += c
	}
	return sum
}

// PassNode is one player in a team's pass network.
type PassNode struct {
	PlayerID        string     `json:"player_id"`
	Name            string     `json:"display_name"`
	AveragePosition Coordinate `json:"average_position"`
	Touches         int        `json:"touch_count"`
}

// PassEdge is a directed player pair; (A→B) and (B→A) are distinct edges.
// Success+Failure == Count always holds.
type PassEdge struct {
	From         string     `json:"from"`
	To           string     `json:"to"`
	Count        int        `json:"count"`
	Success      int        `json:"success_count"`
	Failure      int        `json:"failure_count"`
	AverageStart Coordinate `json:"average_start"`
	AverageEnd   Coordinate `json:"average_end"`
	// PathSamples counts events that contributed both endpoints to the
	// averaged path; 0 means the averages carry no signal.
	PathSamples int `json:"path_samples"`
}

// PassTotals summarises one team's passing.
type PassTotals struct {
	Passes                    int     `json:"total_passes"`
	Success                   int     `json:"success_passes"`
	Failure                   int     `json:"failure_passes"`
	SuccessRate               float64 `json:"success_rate"`
	LongestSuccessfulDistance float64 `json:"longest_successful_distance"`
}

// TeamPassNetwork is the directed weighted pass graph for one side. Edges
// keep first-seen order so repeated aggregation of the same record yields
// an identical bundle.
type TeamPassNetwork struct {
	Side   TeamSide            `json:"side"`
	Nodes  map[string]PassNode `json:"nodes"`
	Edges  []PassEdge          `json:"edges"`
	Totals PassTotals          `json:"totals"`
}

// ShotAttempt is one shot with a canonical coordinate. Shots without a
// resolvable coordinate are dropped at extraction, never defaulted.
type ShotAttempt struct {
	Coordinate Coordinate `json:"coordinate"`
	Side       TeamSide   `json:"team_side"`
	Outcome    string     `json:"outcome"`
}

// TeamStats is the fixed set of reconciled per-team statistics. Missing
// values resolve to neutral defaults (possession 50, everything else 0).
type TeamStats struct {
	Possession    float64 `json:"possession"`
	Shots         int     `json:"shots"`
	ShotsOnTarget int     `json:"shots_on_target"`
	ExpectedGoals float64 `json:"expected_goals"`
	Passes        int     `json:"passes"`
	PassAccuracy  float64 `json:"pass_accuracy"`
	Corners       int     `json:"corners"`
	Fouls         int     `json:"fouls"`
}

// AnalyticsBundle is the complete analytics output for one match record. It
// is a plain serializable value: built once, never mutated, safe to cache
// and hand to any consumer.
type AnalyticsBundle struct {
	RecordHash   string                       `json:"record_hash"`
	TeamNames    map[TeamSide]string          `json:"team_names"`
	Score        map[TeamSide]int             `json:"score"`
	TeamStats    map[TeamSide]TeamStats       `json:"team_stats"`
	Rosters      map[TeamSide][]RosterEntry   `json:"rosters"`
	HeatMaps     map[string]HeatMapGrid       `json:"heat_maps"`
	PassNetworks map[TeamSide]TeamPassNetwork `json:"pass_networks"`
	Shots        []ShotAttempt                `json:"shots"`
	// MVP is the player id of the roster member with the highest supplied
	// rating, usable as a key into HeatMaps and the rosters; empty when the
	// record carries no ratings. Display names are a rendering concern.
	MVP string `json:"mvp,omitempty"`
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	Hash       string
	HomeName   string
	AwayName   string
	HomeScore  int
	AwayScore  int
	MVP        string
	ImportedAt string
}

// equalFold is ASCII case-insensitive equality; team tags and names in
// match records are ASCII.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
