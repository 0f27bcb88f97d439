package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pitchlens/pitchlens/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored.")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("HASH", "HOME", "AWAY", "SCORE", "MVP", "IMPORTED")

	for _, m := range matches {
		hash := m.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		mvp := m.MVP
		if mvp == "" {
			mvp = "—"
		}
		table.Append(
			hash,
			m.HomeName,
			m.AwayName,
			strconv.Itoa(m.HomeScore)+"–"+strconv.Itoa(m.AwayScore),
			mvp,
			m.ImportedAt,
		)
	}
	table.Render()
	return nil
}
