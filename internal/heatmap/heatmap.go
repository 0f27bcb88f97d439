// Package heatmap bins player position samples into per-player occupancy
// grids over the pitch.
package heatmap

import (
	"github.com/pitchlens/pitchlens/internal/model"
	"github.com/pitchlens/pitchlens/internal/pitch"
	"github.com/pitchlens/pitchlens/internal/roster"
)

// Default grid resolution.
const (
	DefaultWidth  = 20
	DefaultHeight = 20
)

// Build aggregates position samples into one grid per squad member.
//
// Sample selection is two-tier: when the record carries movement-kind
// samples (position/carry/dribble) only those feed the grids, so one-off
// action markers do not dilute the occupancy density; records without any
// movement samples fall back to every event with a coordinate. Every squad
// member gets a grid, possibly all-zero, so consumers never special-case a
// missing player.
func Build(events []model.MatchEvent, rosters *roster.Rosters, width, height int) map[string]model.HeatMapGrid {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	hasMovement := false
	for i := range events {
		if events[i].Kind.IsMovement() && events[i].SampleCoordinate() != nil {
			hasMovement = true
			break
		}
	}

	grids := make(map[string][]float64)
	for i := range events {
		ev := &events[i]
		if ev.PlayerID == "" {
			continue
		}
		if hasMovement && !ev.Kind.IsMovement() {
			continue
		}
		sample := ev.SampleCoordinate()
		if sample == nil {
			continue
		}
		cells, ok := grids[ev.PlayerID]
		if !ok {
			cells = make([]float64, width*height)
			grids[ev.PlayerID] = cells
		}
		_, _, idx := pitch.CellIndex(pitch.Normalize(*sample), width, height)
		cells[idx]++
	}

	out := make(map[string]model.HeatMapGrid)
	for _, member := range rosters.Members() {
		cells, ok := grids[member.ID]
		if !ok {
			cells = make([]float64, width*height)
		}
		out[member.ID] = model.HeatMapGrid{
			PlayerID:     member.ID,
			Width:        width,
			Height:       height,
			Cells:        cells,
			MaxIntensity: maxOf(cells),
		}
	}
	return out
}

func maxOf(cells []float64) float64 {
	var m float64
	for _, c := range cells {
		if c > m {
			m = c
		}
	}
	return m
}
