package evaluation

import (
	"context"
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
)

var (
	// errors
	ErrNotFound      = errors.New("evaluation config not found")
	ErrClassNotFound = errors.New("class not found")
)

type (
	Repository interface {
		QueryAllConfigs(ctx context.Context) ([]Config, error)
		GetConfig(ctx context.Context, classID string) (Config, error)
		// SaveConfig creates or replaces the config of an existing class; it fails with ErrClassNotFound.
		SaveConfig(ctx context.Context, cfg Config) (Config, error)
		QueryAllUpcoming(ctx context.Context) ([]Upcoming, error)
		CreateUpcoming(ctx context.Context, upc Upcoming) (Upcoming, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// InitValidators registers the evaluation labels used in validation messages.
func InitValidators(_ *validator.Validate, _ ut.Translator) {
	core.RegisterFieldLabel("UpdateConfig.criteria", "Critérios")
	core.RegisterFieldLabel("NewUpcoming.classId", "Turma")
	core.RegisterFieldLabel("NewUpcoming.scheduledAt", "Data")
}

func (svc *Service) ListConfigs(ctx context.Context) ([]Config, error) {
	return svc.repo.QueryAllConfigs(ctx)
}

func (svc *Service) GetConfig(ctx context.Context, classID string) (Config, error) {
	return svc.repo.GetConfig(ctx, classID)
}

// UpdateConfig replaces the criteria of a class. Criteria without an ID get a new one.
func (svc *Service) UpdateConfig(ctx context.Context, classID string, uc UpdateConfig) (Config, error) {
	criteria := make([]Criterion, 0, len(uc.Criteria))
	for _, in := range uc.Criteria {
		id := in.ID
		if id == "" {
			id = core.NewID("criterion")
		}
		criteria = append(criteria, Criterion{
			ID:     id,
			Name:   core.CleanString(in.Name),
			Weight: in.Weight,
		})
	}
	cfg := Config{
		ClassID:   classID,
		Criteria:  criteria,
		UpdatedAt: core.Now(),
	}
	return svc.repo.SaveConfig(ctx, cfg)
}

// ListUpcoming returns the upcoming evaluations, soonest first.
func (svc *Service) ListUpcoming(ctx context.Context) ([]Upcoming, error) {
	upcoming, err := svc.repo.QueryAllUpcoming(ctx)
	if err != nil {
		return nil, err
	}
	SortUpcoming(upcoming)
	return upcoming, nil
}

// Schedule appends an upcoming evaluation. The class is not checked.
func (svc *Service) Schedule(ctx context.Context, nu NewUpcoming) (Upcoming, error) {
	upc := Upcoming{
		ID:          core.NewID("evaluation"),
		ClassID:     core.CleanString(nu.ClassID),
		Title:       core.CleanString(nu.Title),
		ScheduledAt: nu.ScheduledAt.UTC(),
	}
	return svc.repo.CreateUpcoming(ctx, upc)
}

// SortUpcoming sorts evaluations by ScheduledAt, soonest first.
func SortUpcoming(upcoming []Upcoming) {
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledAt.Before(upcoming[j].ScheduledAt)
	})
}
