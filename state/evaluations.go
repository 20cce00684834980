package state

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/evaluation"
)

type EvaluationAPI interface {
	ListConfigs(ctx context.Context) ([]evaluation.Config, error)
	ListUpcoming(ctx context.Context) ([]evaluation.Upcoming, error)
	UpdateConfig(ctx context.Context, classID string, uc evaluation.UpdateConfig) (evaluation.Config, error)
	Schedule(ctx context.Context, nu evaluation.NewUpcoming) (evaluation.Upcoming, error)
}

// Evaluations holds the classes, their criteria configs (by class ID) and the upcoming evaluations sorted by date.
type Evaluations struct {
	base
	api     EvaluationAPI
	classes ClassLister

	classList []classroom.ClassRoom
	configs   map[string]evaluation.Config
	upcoming  []evaluation.Upcoming
}

func NewEvaluations(api EvaluationAPI, classes ClassLister) *Evaluations {
	return &Evaluations{
		base:    newBase("Erro inesperado ao processar avaliações."),
		api:     api,
		classes: classes,
		configs: make(map[string]evaluation.Config),
	}
}

func sortUpcoming(upcoming []evaluation.Upcoming) {
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledAt.Before(upcoming[j].ScheduledAt)
	})
}

func (e *Evaluations) Classes() []classroom.ClassRoom {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]classroom.ClassRoom, len(e.classList))
	copy(out, e.classList)
	return out
}

// Config returns the criteria config of a class.
func (e *Evaluations) Config(classID string) (evaluation.Config, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cfg, ok := e.configs[classID]
	return cfg, ok
}

func (e *Evaluations) Configs() map[string]evaluation.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]evaluation.Config, len(e.configs))
	for id, cfg := range e.configs {
		out[id] = cfg
	}
	return out
}

func (e *Evaluations) Upcoming() []evaluation.Upcoming {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]evaluation.Upcoming, len(e.upcoming))
	copy(out, e.upcoming)
	return out
}

// WeightTotal returns the weight total of a class config and whether it is balanced.
func (e *Evaluations) WeightTotal(classID string) (total float64, balanced bool) {
	cfg, ok := e.Config(classID)
	if !ok {
		return 0, false
	}
	return cfg.TotalWeight(), cfg.IsBalanced()
}

func (e *Evaluations) fetch(ctx context.Context) error {
	var (
		classes  []classroom.ClassRoom
		configs  []evaluation.Config
		upcoming []evaluation.Upcoming
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		classes, err = e.classes.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		configs, err = e.api.ListConfigs(gctx)
		return err
	})
	g.Go(func() (err error) {
		upcoming, err = e.api.ListUpcoming(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	byClass := make(map[string]evaluation.Config, len(configs))
	for _, cfg := range configs {
		byClass[cfg.ClassID] = cfg
	}
	sortUpcoming(upcoming)

	e.update(func() {
		e.classList = classes
		e.configs = byClass
		e.upcoming = upcoming
	})
	return nil
}

func (e *Evaluations) Load(ctx context.Context) error {
	return e.load(func() error { return e.fetch(ctx) })
}

func (e *Evaluations) Refresh(ctx context.Context) error {
	return e.refresh(func() error { return e.fetch(ctx) })
}

func (e *Evaluations) UpdateConfig(ctx context.Context, classID string, uc evaluation.UpdateConfig) (evaluation.Config, error) {
	var updated evaluation.Config
	err := e.mutate(func() (err error) {
		if updated, err = e.api.UpdateConfig(ctx, classID, uc); err != nil {
			return err
		}
		e.update(func() {
			configs := make(map[string]evaluation.Config, len(e.configs)+1)
			for id, cfg := range e.configs {
				configs[id] = cfg
			}
			configs[classID] = updated
			e.configs = configs
		})
		return nil
	})
	return updated, err
}

// Schedule adds an upcoming evaluation, keeping the list sorted by date.
func (e *Evaluations) Schedule(ctx context.Context, nu evaluation.NewUpcoming) (evaluation.Upcoming, error) {
	var created evaluation.Upcoming
	err := e.mutate(func() (err error) {
		if created, err = e.api.Schedule(ctx, nu); err != nil {
			return err
		}
		e.update(func() {
			upcoming := append(append([]evaluation.Upcoming(nil), e.upcoming...), created)
			sortUpcoming(upcoming)
			e.upcoming = upcoming
		})
		return nil
	})
	return created, err
}
