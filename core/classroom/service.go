package classroom

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
)

const idPrefix = "class"

var (
	// errors
	ErrNotFound       = errors.New("class not found")
	ErrCapacityTooLow = errors.New("capacity is lower than the number of enrolled students")
	errNameRequired   = core.NewFieldValidationError("name", "Nome da turma é obrigatório.")
)

type (
	Repository interface {
		QueryAllClasses(ctx context.Context) ([]ClassRoom, error)
		GetClassByID(ctx context.Context, id string) (ClassRoom, error)
		CreateClass(ctx context.Context, class ClassRoom) (ClassRoom, error)
		// UpdateClass applies changes atomically; it fails with ErrCapacityTooLow, leaving the class
		// untouched, when the new capacity is below the current enrolment.
		UpdateClass(ctx context.Context, id string, changes Changes) (ClassRoom, error)
		// DeleteClass removes the class and detaches its students (their ClassID becomes nil).
		DeleteClass(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// InitValidators registers the class labels used in validation messages.
func InitValidators(_ *validator.Validate, _ ut.Translator) {
	core.RegisterFieldLabel("NewClass.name", "Nome da turma")
}

func (svc *Service) List(ctx context.Context) ([]ClassRoom, error) {
	return svc.repo.QueryAllClasses(ctx)
}

func (svc *Service) Get(ctx context.Context, id string) (ClassRoom, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (ClassRoom, error) {
	name := core.CleanString(nc.Name)
	if name == "" {
		return ClassRoom{}, errNameRequired
	}
	capacity, err := nc.Capacity.Normalize()
	if err != nil {
		return ClassRoom{}, err
	}

	now := core.Now()
	class := ClassRoom{
		ID:         core.NewID(idPrefix),
		Name:       name,
		Capacity:   capacity,
		StudentIDs: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateClass(ctx, class)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateClass) (ClassRoom, error) {
	if err := uc.Validate(); err != nil {
		return ClassRoom{}, err
	}
	changes := Changes{Name: uc.Name, UpdatedAt: core.Now()}
	if uc.Capacity.IsSet() {
		capacity, _ := uc.Capacity.Normalize()
		changes.Capacity = &capacity
	}

	class, err := svc.repo.UpdateClass(ctx, id, changes)
	if err != nil {
		if errors.Cause(err) == ErrCapacityTooLow {
			return ClassRoom{}, core.NewValidationError(
				ErrCapacityTooLow,
				core.FieldError{Field: "capacity", Error: msgCapacityTooLow},
			)
		}
		return ClassRoom{}, err
	}
	return class, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteClass(ctx, id)
}
