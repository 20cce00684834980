package inmemdb

import (
	"context"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/classroom"
)

type classRepository struct {
	db *DB
}

var _ classroom.Repository = (*classRepository)(nil)

func NewClassRepository(db *DB) classroom.Repository {
	return &classRepository{db: db}
}

// queryClasses copies the classes in creation order. Callers must hold db.mu.
func (db *DB) queryClasses() []classroom.ClassRoom {
	classes := make([]classroom.ClassRoom, 0, len(db.classOrder))
	for _, id := range db.classOrder {
		classes = append(classes, copyClass(*db.classes[id]))
	}
	return classes
}

func (repo *classRepository) QueryAllClasses(ctx context.Context) ([]classroom.ClassRoom, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.db.queryClasses(), nil
}

func (repo *classRepository) GetClassByID(ctx context.Context, id string) (classroom.ClassRoom, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if c, ok := repo.db.classes[id]; ok {
		return copyClass(*c), nil
	}
	return classroom.ClassRoom{}, classroom.ErrNotFound
}

func (repo *classRepository) CreateClass(ctx context.Context, class classroom.ClassRoom) (classroom.ClassRoom, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	c := copyClass(class)
	if c.ID == "" {
		c.ID = core.NewID("class")
	}
	if c.StudentIDs == nil {
		c.StudentIDs = []string{}
	}
	c.CreatedAt = stamp(c.CreatedAt)
	c.UpdatedAt = stamp(c.UpdatedAt)

	if _, exists := repo.db.classes[c.ID]; !exists {
		repo.db.classOrder = append(repo.db.classOrder, c.ID)
	}
	repo.db.classes[c.ID] = &c
	return copyClass(c), nil
}

func (repo *classRepository) UpdateClass(ctx context.Context, id string, changes classroom.Changes) (classroom.ClassRoom, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	c, ok := repo.db.classes[id]
	if !ok {
		return classroom.ClassRoom{}, classroom.ErrNotFound
	}
	if changes.Capacity != nil && *changes.Capacity < c.Enrolled() {
		return classroom.ClassRoom{}, classroom.ErrCapacityTooLow
	}

	if changes.Name != nil {
		c.Name = *changes.Name
	}
	if changes.Capacity != nil {
		c.Capacity = *changes.Capacity
	}
	c.UpdatedAt = stamp(changes.UpdatedAt)
	return copyClass(*c), nil
}

func (repo *classRepository) DeleteClass(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.classes[id]; !ok {
		return classroom.ErrNotFound
	}

	now := core.Now()
	for _, std := range repo.db.students {
		if std.InClass(id) {
			std.ClassID = nil
			std.UpdatedAt = now
		}
	}
	delete(repo.db.classes, id)
	repo.db.classOrder = removeID(repo.db.classOrder, id)
	return nil
}
