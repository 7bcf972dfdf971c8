package cmd

import (
	"github.com/spf13/cobra"

	"matchboard/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		return repository.Migrate(db)
	},
}
