package database

import (
	"fmt"

	"notebook-tree-be/internal/model"

	"gorm.io/gorm"
)

// Foreign keys are added by hand so that deleting a notebook that still
// owns notes or children fails instead of cascading silently.
var constraintSQL = []string{
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_notebooks_parent') THEN
			ALTER TABLE notebooks ADD CONSTRAINT fk_notebooks_parent
				FOREIGN KEY (parent_id) REFERENCES notebooks(id) ON DELETE RESTRICT;
		END IF;
	END $$;`,
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_notes_notebook') THEN
			ALTER TABLE notes ADD CONSTRAINT fk_notes_notebook
				FOREIGN KEY (notebook_id) REFERENCES notebooks(id) ON DELETE RESTRICT;
		END IF;
	END $$;`,
}

func Models() []interface{} {
	return []interface{}{
		&model.Notebook{},
		&model.Note{},
		&model.ActivityLog{},
	}
}

// Migrate creates or updates every table and the ownership constraints.
// The step callback, when set, is told about each phase.
func Migrate(db *gorm.DB, step func(string)) error {
	if step == nil {
		step = func(string) {}
	}

	step("enabling extensions")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}

	step("auto-migrating tables")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	step("ensuring foreign keys")
	for _, sql := range constraintSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("apply constraint: %w", err)
		}
	}
	return nil
}
