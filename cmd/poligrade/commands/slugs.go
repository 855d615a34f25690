package commands

import (
	"log/slog"

	"github.com/gzambran/poligrade/lib/configutil"
	"github.com/gzambran/poligrade/services/politicians"
	politiciansdb "github.com/gzambran/poligrade/services/politicians/db"

	"github.com/spf13/cobra"
)

var slugsDb *string

func init() {
	slugsDb = backfillSlugsCmd.Flags().String("db", "poligrade.db", "The politician database to backfill.")
	rootCmd.AddCommand(backfillSlugsCmd)
}

var backfillSlugsCmd = &cobra.Command{
	Use:   "backfill-slugs [--db <path/to/poligrade.db>]",
	Short: "Generate profile slugs for records created before slugs existed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := configutil.Sqlite{File: *slugsDb}.OpenDB(politiciansdb.Schema)
		if err != nil {
			return err
		}
		defer db.Close()

		service := politicians.NewService(db)
		count, err := service.BackfillSlugs(cmd.Context())
		if err != nil {
			return err
		}
		slog.Info("backfilled slugs", "count", count)
		return nil
	},
}
