package database

import (
	"github.com/yeremiapane/waitlist-app/models"
	"github.com/yeremiapane/waitlist-app/utils"
	"gorm.io/gorm"
)

// constraintSQL -> extra statements per dialect that AutoMigrate cannot express.
// MySQL has no partial indexes; there the single-occupancy rule is enforced by the services only.
var constraintSQL = map[string][]string{
	"sqlite": {
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_seated_guest_per_table ON guests (table_id) WHERE status = 'SEATED'`,
	},
	"postgres": {
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_seated_guest_per_table ON guests (table_id) WHERE status = 'SEATED'`,
	},
}

// AutoMigrate creates or updates the schema for every model the service persists.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Venue{},
		&models.Table{},
		&models.Guest{},
		&models.StatusChange{},
	)
	if err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	ExecuteConstraints(db)
	return nil
}

// ExecuteConstraints runs the dialect specific statements. Failures are logged and skipped.
func ExecuteConstraints(db *gorm.DB) {
	dialect := db.Dialector.Name()
	for _, stmt := range constraintSQL[dialect] {
		if err := db.Exec(stmt).Error; err != nil {
			utils.ErrorLogger.Printf("Error executing constraint: %v\nStatement: %s", err, stmt)
			continue
		}
		utils.InfoLogger.Printf("Constraint applied on %s", dialect)
	}
}
