package job

import (
	"context"
	"time"

	"github.com/otedola/cadastral/logger"
	"github.com/otedola/cadastral/util/common"
	"github.com/otedola/cadastral/web/service"

	"go.uber.org/atomic"
)

const seedTimeout = time.Minute

// SeedJob populates an empty registry and keeps retrying on later runs until
// one attempt succeeds.
type SeedJob struct {
	parcels *service.ParcelService
	source  string
	seeded  atomic.Bool
}

func NewSeedJob(parcels *service.ParcelService, source string) *SeedJob {
	return &SeedJob{parcels: parcels, source: source}
}

func (j *SeedJob) Run() {
	if j.seeded.Load() {
		return
	}
	defer common.Recover("seed job")
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()
	if _, err := j.Seed(ctx); err != nil {
		logger.Warning("seed parcels failed, will retry:", err)
	}
}

// Seed runs one attempt and reports how many parcels were inserted.
func (j *SeedJob) Seed(ctx context.Context) (int, error) {
	n, err := j.parcels.SeedFromSource(ctx, j.source)
	if err != nil {
		return 0, err
	}
	count, err := j.parcels.Count()
	if err != nil {
		return n, err
	}
	if count > 0 {
		j.seeded.Store(true)
	}
	return n, nil
}

// Done reports whether the store has been seeded.
func (j *SeedJob) Done() bool {
	return j.seeded.Load()
}
