package student

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
)

const idPrefix = "student"

var (
	// errors
	ErrNotFound      = errors.New("student not found")
	ErrClassNotFound = errors.New("class not found")
)

type (
	// Repository persists students. Every class change goes through the repository so that
	// ClassRoom.StudentIDs and Student.ClassID never disagree.
	Repository interface {
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// CreateStudent stores the student and enrols them in their class, if any.
		// The class capacity is not checked. It fails with ErrClassNotFound for an unknown class.
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// UpdateStudent applies changes, moving the student between classes when ClassID is set.
		UpdateStudent(ctx context.Context, id string, changes Changes) (Student, error)
		// DeleteStudent removes the student and their enrolment.
		DeleteStudent(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) List(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) Get(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	ns.clean()
	now := core.Now()
	std := Student{
		ID:        core.NewID(idPrefix),
		Name:      ns.Name,
		Email:     ns.Email,
		ClassID:   ns.ClassID,
		Status:    ns.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	std, err := svc.repo.CreateStudent(ctx, std)
	if err != nil {
		return Student{}, classError(err)
	}
	return std, nil
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	changes := Changes{
		Name:      us.Name,
		Email:     us.Email,
		Status:    us.Status,
		ClassID:   us.ClassID,
		UpdatedAt: core.Now(),
	}
	std, err := svc.repo.UpdateStudent(ctx, id, changes)
	if err != nil {
		return Student{}, classError(err)
	}
	return std, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}

func classError(err error) error {
	if errors.Cause(err) == ErrClassNotFound {
		return core.NewValidationError(
			ErrClassNotFound,
			core.FieldError{Field: "classId", Error: "Turma não encontrada."},
		)
	}
	return err
}
