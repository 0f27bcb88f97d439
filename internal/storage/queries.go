package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pitchlens/pitchlens/internal/model"
)

// MatchExists returns true if a match with the given hash is already stored.
func (db *DB) MatchExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertBundle stores a complete analytics bundle in one transaction. Uses
// INSERT OR REPLACE throughout so re-importing the same record is idempotent.
func (db *DB) InsertBundle(bundle *model.AnalyticsBundle, importedAt string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(hash, home_name, away_name, home_score, away_score, mvp, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bundle.RecordHash,
		bundle.TeamNames[model.SideHome], bundle.TeamNames[model.SideAway],
		bundle.Score[model.SideHome], bundle.Score[model.SideAway],
		bundle.MVP, importedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	for _, side := range model.Sides() {
		st := bundle.TeamStats[side]
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO team_stats(
				match_hash, side, possession, shots, shots_on_target,
				expected_goals, passes, pass_accuracy, corners, fouls
			) VALUES (?,?,?,?,?,?,?,?,?,?)`,
			bundle.RecordHash, side.String(),
			st.Possession, st.Shots, st.ShotsOnTarget,
			st.ExpectedGoals, st.Passes, st.PassAccuracy, st.Corners, st.Fouls,
		)
		if err != nil {
			return fmt.Errorf("insert team_stats %s: %w", side, err)
		}
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO rosters(
			match_hash, side, position, player_id, player_name, role, is_substitute
		) VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, side := range model.Sides() {
		for i, entry := range bundle.Rosters[side] {
			_, err = stmt.Exec(
				bundle.RecordHash, side.String(), i,
				entry.ID, entry.Name, entry.Position, boolInt(entry.IsSubstitute),
			)
			if err != nil {
				return fmt.Errorf("insert roster entry %s: %w", entry.ID, err)
			}
		}
	}

	for i, shot := range bundle.Shots {
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO shots(match_hash, seq, side, x, y, outcome)
			VALUES (?,?,?,?,?,?)`,
			bundle.RecordHash, i, shot.Side.String(),
			shot.Coordinate.X, shot.Coordinate.Y, shot.Outcome,
		)
		if err != nil {
			return fmt.Errorf("insert shot %d: %w", i, err)
		}
	}

	for playerID, grid := range bundle.HeatMaps {
		blob, err := json.Marshal(grid)
		if err != nil {
			return fmt.Errorf("marshal heat map for %s: %w", playerID, err)
		}
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO heat_maps(match_hash, player_id, grid_json)
			VALUES (?,?,?)`,
			bundle.RecordHash, playerID, string(blob),
		)
		if err != nil {
			return fmt.Errorf("insert heat map for %s: %w", playerID, err)
		}
	}

	for _, side := range model.Sides() {
		net := bundle.PassNetworks[side]
		blob, err := json.Marshal(net)
		if err != nil {
			return fmt.Errorf("marshal pass network %s: %w", side, err)
		}
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO pass_networks(match_hash, side, network_json)
			VALUES (?,?,?)`,
			bundle.RecordHash, side.String(), string(blob),
		)
		if err != nil {
			return fmt.Errorf("insert pass network %s: %w", side, err)
		}
	}

	return tx.Commit()
}

// ListMatches returns all stored match summaries ordered by import time desc.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, home_name, away_name, home_score, away_score, mvp, imported_at
		FROM matches ORDER BY imported_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.Hash, &s.HomeName, &s.AwayName,
			&s.HomeScore, &s.AwayScore, &s.MVP, &s.ImportedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose hash starts with the given prefix.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	var s model.MatchSummary
	err := db.conn.QueryRow(`
		SELECT hash, home_name, away_name, home_score, away_score, mvp, imported_at
		FROM matches WHERE hash LIKE ? LIMIT 1`, prefix+"%").
		Scan(&s.Hash, &s.HomeName, &s.AwayName,
			&s.HomeScore, &s.AwayScore, &s.MVP, &s.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetBundle reassembles the full analytics bundle for a stored match hash.
// Returns nil when the hash is not stored.
func (db *DB) GetBundle(hash string) (*model.AnalyticsBundle, error) {
	summary, err := db.GetMatchByPrefix(hash)
	if err != nil || summary == nil {
		return nil, err
	}

	bundle := &model.AnalyticsBundle{
		RecordHash: summary.Hash,
		TeamNames: map[model.TeamSide]string{
			model.SideHome: summary.HomeName,
			model.SideAway: summary.AwayName,
		},
		Score: map[model.TeamSide]int{
			model.SideHome: summary.HomeScore,
			model.SideAway: summary.AwayScore,
		},
		TeamStats:    make(map[model.TeamSide]model.TeamStats, 2),
		Rosters:      make(map[model.TeamSide][]model.RosterEntry, 2),
		HeatMaps:     make(map[string]model.HeatMapGrid),
		PassNetworks: make(map[model.TeamSide]model.TeamPassNetwork, 2),
		MVP:          summary.MVP,
	}

	if err := db.loadTeamStats(bundle); err != nil {
		return nil, err
	}
	if err := db.loadRosters(bundle); err != nil {
		return nil, err
	}
	if err := db.loadShots(bundle); err != nil {
		return nil, err
	}
	if err := db.loadHeatMaps(bundle); err != nil {
		return nil, err
	}
	if err := db.loadPassNetworks(bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (db *DB) loadTeamStats(bundle *model.AnalyticsBundle) error {
	rows, err := db.conn.Query(`
		SELECT side, possession, shots, shots_on_target,
		       expected_goals, passes, pass_accuracy, corners, fouls
		FROM team_stats WHERE match_hash = ?`, bundle.RecordHash)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sideStr string
		var st model.TeamStats
		if err := rows.Scan(&sideStr, &st.Possession, &st.Shots, &st.ShotsOnTarget,
			&st.ExpectedGoals, &st.Passes, &st.PassAccuracy, &st.Corners, &st.Fouls); err != nil {
			return err
		}
		bundle.TeamStats[parseSide(sideStr)] = st
	}
	return rows.Err()
}

func (db *DB) loadRosters(bundle *model.AnalyticsBundle) error {
	rows, err := db.conn.Query(`
		SELECT side, player_id, player_name, role, is_substitute
		FROM rosters WHERE match_hash = ? ORDER BY side, position`, bundle.RecordHash)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sideStr string
		var entry model.RosterEntry
		var subInt int
		if err := rows.Scan(&sideStr, &entry.ID, &entry.Name, &entry.Position, &subInt); err != nil {
			return err
		}
		entry.IsSubstitute = subInt != 0
		side := parseSide(sideStr)
		bundle.Rosters[side] = append(bundle.Rosters[side], entry)
	}
	return rows.Err()
}

func (db *DB) loadShots(bundle *model.AnalyticsBundle) error {
	rows, err := db.conn.Query(`
		SELECT side, x, y, outcome
		FROM shots WHERE match_hash = ? ORDER BY seq`, bundle.RecordHash)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sideStr string
		var shot model.ShotAttempt
		if err := rows.Scan(&sideStr, &shot.Coordinate.X, &shot.Coordinate.Y, &shot.Outcome); err != nil {
			return err
		}
		shot.Side = parseSide(sideStr)
		bundle.Shots = append(bundle.Shots, shot)
	}
	return rows.Err()
}

func (db *DB) loadHeatMaps(bundle *model.AnalyticsBundle) error {
	rows, err := db.conn.Query(`
		SELECT player_id, grid_json FROM heat_maps WHERE match_hash = ?`, bundle.RecordHash)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var playerID, blob string
		if err := rows.Scan(&playerID, &blob); err != nil {
			return err
		}
		var grid model.HeatMapGrid
		if err := json.Unmarshal([]byte(blob), &grid); err != nil {
			return fmt.Errorf("unmarshal heat map for %s: %w", playerID, err)
		}
		bundle.HeatMaps[playerID] = grid
	}
	return rows.Err()
}

func (db *DB) loadPassNetworks(bundle *model.AnalyticsBundle) error {
	rows, err := db.conn.Query(`
		SELECT side, network_json FROM pass_networks WHERE match_hash = ?`, bundle.RecordHash)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sideStr, blob string
		if err := rows.Scan(&sideStr, &blob); err != nil {
			return err
		}
		var net model.TeamPassNetwork
		if err := json.Unmarshal([]byte(blob), &net); err != nil {
			return fmt.Errorf("unmarshal pass network %s: %w", sideStr, err)
		}
		bundle.PassNetworks[parseSide(sideStr)] = net
	}
	return rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseSide(s string) model.TeamSide {
	switch s {
	case "home":
		return model.SideHome
	case "away":
		return model.SideAway
	default:
		return model.SideUnknown
	}
}
