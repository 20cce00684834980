package state

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/student"
)

type StudentAPI interface {
	List(ctx context.Context) ([]student.Student, error)
	Create(ctx context.Context, ns student.NewStudent) (student.Student, error)
	Update(ctx context.Context, id string, us student.UpdateStudent) (student.Student, error)
	Delete(ctx context.Context, id string) error
}

// Students holds the students and the classes they can be assigned to.
type Students struct {
	base
	api     StudentAPI
	classes ClassLister

	students  []student.Student
	classList []classroom.ClassRoom
}

func NewStudents(api StudentAPI, classes ClassLister) *Students {
	return &Students{
		base:    newBase("Erro inesperado ao processar operação com alunos."),
		api:     api,
		classes: classes,
	}
}

func (s *Students) Students() []student.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]student.Student, len(s.students))
	copy(out, s.students)
	return out
}

func (s *Students) Classes() []classroom.ClassRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]classroom.ClassRoom, len(s.classList))
	copy(out, s.classList)
	return out
}

func (s *Students) fetch(ctx context.Context) error {
	var (
		students []student.Student
		classes  []classroom.ClassRoom
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		students, err = s.api.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		classes, err = s.classes.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.update(func() {
		s.students = students
		s.classList = classes
	})
	return nil
}

// Load fetches students and classes in parallel.
func (s *Students) Load(ctx context.Context) error {
	return s.load(func() error { return s.fetch(ctx) })
}

func (s *Students) Refresh(ctx context.Context) error {
	return s.refresh(func() error { return s.fetch(ctx) })
}

// Create appends the new student; when they join a class, everything is reloaded so enrolment shows up.
func (s *Students) Create(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	var created student.Student
	err := s.mutate(func() (err error) {
		created, err = s.api.Create(ctx, ns)
		if err != nil {
			return err
		}
		s.update(func() { s.students = append(s.students, created) })
		return nil
	})
	if err != nil {
		return student.Student{}, err
	}
	if created.ClassID != nil {
		_ = s.Refresh(ctx)
	}
	return created, nil
}

// Update replaces the student; updates touching the class trigger a reload.
func (s *Students) Update(ctx context.Context, id string, us student.UpdateStudent) (student.Student, error) {
	var updated student.Student
	err := s.mutate(func() (err error) {
		updated, err = s.api.Update(ctx, id, us)
		if err != nil {
			return err
		}
		s.update(func() {
			for i := range s.students {
				if s.students[i].ID == id {
					s.students[i] = updated
				}
			}
		})
		return nil
	})
	if err != nil {
		return student.Student{}, err
	}
	if us.TouchesClass() {
		_ = s.Refresh(ctx)
	}
	return updated, nil
}

func (s *Students) Delete(ctx context.Context, id string) error {
	return s.mutate(func() error {
		if err := s.api.Delete(ctx, id); err != nil {
			return err
		}
		s.update(func() {
			kept := s.students[:0]
			for _, std := range s.students {
				if std.ID != id {
					kept = append(kept, std)
				}
			}
			s.students = kept
		})
		return nil
	})
}
