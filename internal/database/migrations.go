package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/charity-task-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes the workflow queries rely on.
// Single-column indexes are declared on the models.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		name    string
		columns string
	}{
		// CAS updates filter by id and state; listings by charity and state
		{&models.Task{}, "idx_tasks_charity_state", "charity_id, state"},
		{&models.Task{}, "idx_tasks_benefactor_state", "assigned_benefactor_id, state"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			logrus.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		stmt := fmt.Sprintf("CREATE INDEX %s ON tasks (%s)", idx.name, idx.columns)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logrus.WithFields(logrus.Fields{"index": idx.name, "columns": idx.columns}).Info("Created index")
	}

	return nil
}
