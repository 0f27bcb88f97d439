// Package passnet builds each team's directed, weighted pass graph from
// pass-kind events in a single online pass over the event sequence.
package passnet

import (
	"strings"

	"github.com/pitchlens/pitchlens/internal/model"
	"github.com/pitchlens/pitchlens/internal/pitch"
	"github.com/pitchlens/pitchlens/internal/roster"
)

// failureTags is the closed set of outcome tags counted as failed passes;
// every other outcome (including empty) counts as success.
var failureTags = map[string]struct{}{
	"fail":         {},
	"failed":       {},
	"unsuccessful": {},
	"incomplete":   {},
	"error":        {},
	"blocked":      {},
}

type nodeAccum struct {
	touches int
	sumX    float64
	sumY    float64
	samples int
}

type edgeAccum struct {
	count, success, failure int
	startX, startY          float64
	endX, endY              float64
	pathSamples             int
}

type edgeKey struct{ from, to string }

type teamAccum struct {
	side      model.TeamSide
	nodes     map[string]*nodeAccum
	nodeOrder []string
	edges     map[edgeKey]*edgeAccum
	edgeOrder []edgeKey
}

func newTeamAccum(side model.TeamSide) *teamAccum {
	return &teamAccum{
		side:  side,
		nodes: make(map[string]*nodeAccum),
		edges: make(map[edgeKey]*edgeAccum),
	}
}

// Build constructs both team networks. Team attribution per pass event:
// membership of either endpoint in a resolved squad, else the event's own
// team tag; events with no resolvable side are skipped. A pass with one
// missing endpoint keeps the present endpoint for both ends of the edge
// (a self-loop), preserving the touch without discarding the event.
func Build(events []model.MatchEvent, rosters *roster.Rosters, homeName, awayName string) map[model.TeamSide]model.TeamPassNetwork {
	accums := map[model.TeamSide]*teamAccum{
		model.SideHome: newTeamAccum(model.SideHome),
		model.SideAway: newTeamAccum(model.SideAway),
	}

	for i := range events {
		ev := &events[i]
		if ev.Kind != model.KindPass {
			continue
		}
		from, to := ev.PlayerID, ev.TargetID
		if from == "" && to == "" {
			continue
		}
		if from == "" {
			from = to
		}
		if to == "" {
			to = from
		}

		side := rosters.SideOf(from)
		if side == model.SideUnknown {
			side = rosters.SideOf(to)
		}
		if side == model.SideUnknown {
			side = ev.TaggedSide(homeName, awayName)
		}
		if side == model.SideUnknown {
			continue
		}
		acc := accums[side]

		var start, end *model.Coordinate
		if ev.Start != nil {
			c := pitch.Normalize(*ev.Start)
			start = &c
		} else if ev.Position != nil {
			c := pitch.Normalize(*ev.Position)
			start = &c
		}
		if ev.End != nil {
			c := pitch.Normalize(*ev.End)
			end = &c
		}

		acc.touch(from, start)
		acc.touch(to, end)
		acc.edge(from, to, ev.Outcome, start, end)
	}

	out := make(map[model.TeamSide]model.TeamPassNetwork, 2)
	for _, side := range model.Sides() {
		out[side] = accums[side].finalize(rosters)
	}
	return out
}

// touch updates a node's touch count and running average position. The
// position sample may be nil; the touch still counts.
func (t *teamAccum) touch(id string, at *model.Coordinate) {
	n, ok := t.nodes[id]
	if !ok {
		n = &nodeAccum{}
		t.nodes[id] = n
		t.nodeOrder = append(t.nodeOrder, id)
	}
	n.touches++
	if at != nil {
		n.sumX += at.X
		n.sumY += at.Y
		n.samples++
	}
}

func (t *teamAccum) edge(from, to, outcome string, start, end *model.Coordinate) {
	key := edgeKey{from, to}
	e, ok := t.edges[key]
	if !ok {
		e = &edgeAccum{}
		t.edges[key] = e
		t.edgeOrder = append(t.edgeOrder, key)
	}
	e.count++
	if isFailure(outcome) {
		e.failure++
	} else {
		e.success++
	}
	if start != nil && end != nil {
		e.startX += start.X
		e.startY += start.Y
		e.endX += end.X
		e.endY += end.Y
		e.pathSamples++
	}
}

func (t *teamAccum) finalize(rosters *roster.Rosters) model.TeamPassNetwork {
	net := model.TeamPassNetwork{
		Side:  t.side,
		Nodes: make(map[string]model.PassNode, len(t.nodes)),
	}

	for _, id := range t.nodeOrder {
		n := t.nodes[id]
		node := model.PassNode{
			PlayerID: id,
			Name:     rosters.NameOf(id),
			Touches:  n.touches,
		}
		if n.samples > 0 {
			node.AveragePosition = model.Coordinate{
				X: n.sumX / float64(n.samples),
				Y: n.sumY / float64(n.samples),
			}
		}
		net.Nodes[id] = node
	}

	for _, key := range t.edgeOrder {
		e := t.edges[key]
		edge := model.PassEdge{
			From:        key.from,
			To:          key.to,
			Count:       e.count,
			Success:     e.success,
			Failure:     e.failure,
			PathSamples: e.pathSamples,
		}
		if e.pathSamples > 0 {
			samples := float64(e.pathSamples)
			edge.AverageStart = model.Coordinate{X: e.startX / samples, Y: e.startY / samples}
			edge.AverageEnd = model.Coordinate{X: e.endX / samples, Y: e.endY / samples}
		}
		net.Edges = append(net.Edges, edge)

		net.Totals.Passes += e.count
		net.Totals.Success += e.success
		net.Totals.Failure += e.failure
		if e.success > 0 && e.pathSamples > 0 {
			if d := pitch.Distance(edge.AverageStart, edge.AverageEnd); d > net.Totals.LongestSuccessfulDistance {
				net.Totals.LongestSuccessfulDistance = d
			}
		}
	}

	if net.Totals.Passes > 0 {
		net.Totals.SuccessRate = float64(net.Totals.Success) / float64(net.Totals.Passes)
	}
	return net
}

func isFailure(outcome string) bool {
	_, ok := failureTags[strings.ToLower(strings.TrimSpace(outcome))]
	return ok
}
