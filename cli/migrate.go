package cli

import (
	"github.com/spf13/cobra"
	"github.com/yeremiapane/waitlist-app/config"
	"github.com/yeremiapane/waitlist-app/database"
)

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			db, err := config.InitDB(cfg)
			if err != nil {
				return err
			}
			return database.AutoMigrate(db)
		},
	}
}
