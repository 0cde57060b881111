package job

import (
	"github.com/otedola/cadastral/database"
	"github.com/otedola/cadastral/logger"

	"gorm.io/gorm"
)

// CheckpointJob folds the sqlite WAL back into the main database file.
type CheckpointJob struct {
	db *gorm.DB
}

func NewCheckpointJob(db *gorm.DB) *CheckpointJob {
	return &CheckpointJob{db: db}
}

func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(j.db); err != nil {
		logger.Warning("wal checkpoint failed:", err)
	}
}
