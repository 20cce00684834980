package inmemdb

import (
	"context"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/evaluation"
)

type evaluationRepository struct {
	db *DB
}

var _ evaluation.Repository = (*evaluationRepository)(nil)

func NewEvaluationRepository(db *DB) evaluation.Repository {
	return &evaluationRepository{db: db}
}

// queryConfigs copies the configs in creation order. Callers must hold db.mu.
func (db *DB) queryConfigs() []evaluation.Config {
	configs := make([]evaluation.Config, 0, len(db.configOrder))
	for _, id := range db.configOrder {
		configs = append(configs, copyConfig(*db.configs[id]))
	}
	return configs
}

// queryUpcoming copies the upcoming evaluations in insertion order. Callers must hold db.mu.
func (db *DB) queryUpcoming() []evaluation.Upcoming {
	upcoming := make([]evaluation.Upcoming, len(db.upcoming))
	copy(upcoming, db.upcoming)
	return upcoming
}

func (repo *evaluationRepository) QueryAllConfigs(ctx context.Context) ([]evaluation.Config, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.db.queryConfigs(), nil
}

func (repo *evaluationRepository) GetConfig(ctx context.Context, classID string) (evaluation.Config, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if cfg, ok := repo.db.configs[classID]; ok {
		return copyConfig(*cfg), nil
	}
	return evaluation.Config{}, evaluation.ErrNotFound
}

func (repo *evaluationRepository) SaveConfig(ctx context.Context, cfg evaluation.Config) (evaluation.Config, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.classes[cfg.ClassID]; !ok {
		return evaluation.Config{}, evaluation.ErrClassNotFound
	}
	c := copyConfig(cfg)
	c.UpdatedAt = stamp(c.UpdatedAt)
	if _, exists := repo.db.configs[c.ClassID]; !exists {
		repo.db.configOrder = append(repo.db.configOrder, c.ClassID)
	}
	repo.db.configs[c.ClassID] = &c
	return copyConfig(c), nil
}

func (repo *evaluationRepository) QueryAllUpcoming(ctx context.Context) ([]evaluation.Upcoming, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.db.queryUpcoming(), nil
}

func (repo *evaluationRepository) CreateUpcoming(ctx context.Context, upc evaluation.Upcoming) (evaluation.Upcoming, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if upc.ID == "" {
		upc.ID = core.NewID("evaluation")
	}
	upc.ScheduledAt = upc.ScheduledAt.UTC()
	repo.db.upcoming = append(repo.db.upcoming, upc)
	return upc, nil
}
