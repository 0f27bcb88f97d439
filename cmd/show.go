package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pitchlens/pitchlens/internal/storage"
)

var (
	showPlayer  string
	showSuggest bool
)

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show stored match analytics by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "print this player's heat map (id or name)")
	showCmd.Flags().BoolVar(&showSuggest, "suggest", false, "print tactical suggestions")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return showByHash(db, args[0], showPlayer, showSuggest)
}
