package db

import (
	"fmt"

	types "github.com/okothm/tutorledger-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + auth
		&types.User{},
		&types.UserToken{},

		// Ledger core
		&types.LedgerEntry{},
		&types.OpenProgress{},
		&types.ArchivedSnapshot{},

		// Roster / scheduling registry
		&types.Assignment{},
		&types.ControllerGrant{},
	)
}

// EnsureLedgerIndexes installs the constraints the ledger engine relies on.
// These are the store-level guards against the two races the engine cannot
// close on its own: concurrent first-writes creating two open aggregates for
// one pair, and concurrent same-day records duplicating an entry.
func EnsureLedgerIndexes(db *gorm.DB) error {
	// One open aggregate per (student, teacher).
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_open_progress_singleton
		ON open_progress (student_id, teacher_id)
		WHERE schedule_status = 'open';
	`).Error; err != nil {
		return fmt.Errorf("create idx_open_progress_singleton: %w", err)
	}

	// One open-owned entry per (student, teacher, day).
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_entry_open_day
		ON ledger_entry (student_id, teacher_id, date)
		WHERE open_progress_id IS NOT NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_ledger_entry_open_day: %w", err)
	}

	// One active assignment per student.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_assignment_student_singleton
		ON assignment (student_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_assignment_student_singleton: %w", err)
	}

	// One grant per (controller, student).
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_controller_grant_pair
		ON controller_grant (controller_id, student_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_controller_grant_pair: %w", err)
	}

	// Every entry has exactly one owner: open XOR archived.
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`
			ALTER TABLE ledger_entry
			DROP CONSTRAINT IF EXISTS chk_ledger_entry_single_owner;
		`).Error; err != nil {
			return fmt.Errorf("drop chk_ledger_entry_single_owner: %w", err)
		}
		if err := db.Exec(`
			ALTER TABLE ledger_entry
			ADD CONSTRAINT chk_ledger_entry_single_owner
			CHECK ((open_progress_id IS NULL) <> (archived_snapshot_id IS NULL));
		`).Error; err != nil {
			return fmt.Errorf("add chk_ledger_entry_single_owner: %w", err)
		}
	}

	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureLedgerIndexes(s.db); err != nil {
		s.log.Error("Ledger index migration failed", "error", err)
		return err
	}
	return nil
}
