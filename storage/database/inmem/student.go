package inmemdb

import (
	"context"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

// queryStudents copies the students in creation order. Callers must hold db.mu.
func (db *DB) queryStudents() []student.Student {
	students := make([]student.Student, 0, len(db.studentOrder))
	for _, id := range db.studentOrder {
		students = append(students, copyStudent(*db.students[id]))
	}
	return students
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.db.queryStudents(), nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return copyStudent(*std), nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	s := copyStudent(std)
	if s.ID == "" {
		s.ID = core.NewID("student")
	}
	s.CreatedAt = stamp(s.CreatedAt)
	s.UpdatedAt = stamp(s.UpdatedAt)

	to := s.ClassID
	s.ClassID = nil
	if err := repo.db.moveStudent(&s, to, s.UpdatedAt); err != nil {
		return student.Student{}, err
	}

	if _, exists := repo.db.students[s.ID]; !exists {
		repo.db.studentOrder = append(repo.db.studentOrder, s.ID)
	}
	repo.db.students[s.ID] = &s
	return copyStudent(s), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, id string, changes student.Changes) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	orig, ok := repo.db.students[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}

	// work on a copy so that a failed move leaves the student untouched
	s := copyStudent(*orig)
	now := stamp(changes.UpdatedAt)
	if changes.ClassID.Set {
		if err := repo.db.moveStudent(&s, changes.ClassID.Ptr(), now); err != nil {
			return student.Student{}, err
		}
	}
	if changes.Name != nil {
		s.Name = *changes.Name
	}
	if changes.Email != nil {
		s.Email = *changes.Email
	}
	if changes.Status != nil {
		s.Status = *changes.Status
	}
	s.UpdatedAt = now

	*orig = s
	return copyStudent(s), nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	std, ok := repo.db.students[id]
	if !ok {
		return student.ErrNotFound
	}
	if err := repo.db.moveStudent(std, nil, core.Now()); err != nil {
		return err
	}
	delete(repo.db.students, id)
	repo.db.studentOrder = removeID(repo.db.studentOrder, id)
	return nil
}
