package db

import (
	"fmt"
	"log"

	"github.com/klararety/telehealth/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.User{},
		&models.ProviderAvailability{},
		&models.ProviderTimeOff{},
		&models.Appointment{},
		&models.Consultation{},
		&models.OutboxEntry{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// Overlap protection lives in the database: two active appointments for
	// one provider can never intersect, no matter how requests interleave.
	if err := DB.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		log.Fatal("Failed to enable btree_gist: ", err)
	}
	if err := DB.Exec(`
		DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap') THEN
				ALTER TABLE appointments
					ADD CONSTRAINT appointments_no_overlap
					EXCLUDE USING gist (
						provider_id WITH =,
						tsrange(scheduled_time, end_time) WITH &&
					)
					WHERE (status IN ('scheduled', 'confirmed', 'in_progress') AND deleted_at IS NULL);
			END IF;
		END $$;
	`).Error; err != nil {
		log.Fatal("Failed to add overlap constraint: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
