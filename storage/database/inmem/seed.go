package inmemdb

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/auth"
	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/core/student"
)

// Seed credentials.
const (
	SeedUserID       = "user-1"
	SeedUserEmail    = "professora@portal.com"
	SeedUserPassword = "senha123"
)

// OpenSeeded returns a DB holding the demo teacher and their classes, students and evaluations.
func OpenSeeded() (*DB, error) {
	db := Open()
	if err := db.Seed(); err != nil {
		return nil, err
	}
	return db, nil
}

// Seed replaces the DB content with the demo data set.
func (db *DB) Seed() error {
	usr := auth.User{
		ID:    SeedUserID,
		Name:  "Ana Professora",
		Email: SeedUserEmail,
		Role:  auth.RoleTeacher,
	}
	if err := usr.SetPassword(SeedUserPassword); err != nil {
		return errors.Wrap(err, "hashing seed password")
	}

	now := core.Now()
	classID := func(id string) *string { return &id }

	classes := []classroom.ClassRoom{
		{ID: "class-1", Name: "Turma Matemática 101", Capacity: 35},
		{ID: "class-2", Name: "Turma Física 201", Capacity: 30},
	}
	students := []student.Student{
		{ID: "student-1", Name: "Beatriz Souza", Email: "beatriz.souza@email.com", ClassID: classID("class-1"), Status: student.StatusActive},
		{ID: "student-2", Name: "Carlos Lima", Email: "carlos.lima@email.com", ClassID: classID("class-1"), Status: student.StatusActive},
		{ID: "student-3", Name: "Daniela Martins", Email: "daniela.martins@email.com", ClassID: classID("class-2"), Status: student.StatusInactive},
	}
	configs := []evaluation.Config{
		{
			ClassID: "class-1",
			Criteria: []evaluation.Criterion{
				{ID: "criterion-1", Name: "Prova 1", Weight: 50},
				{ID: "criterion-2", Name: "Trabalho em grupo", Weight: 30},
				{ID: "criterion-3", Name: "Participação", Weight: 20},
			},
		},
		{
			ClassID: "class-2",
			Criteria: []evaluation.Criterion{
				{ID: "criterion-4", Name: "Exame final", Weight: 60},
				{ID: "criterion-5", Name: "Projetos práticos", Weight: 40},
			},
		},
	}
	upcoming := []evaluation.Upcoming{
		{ID: "evaluation-1", ClassID: "class-1", Title: "Prova 1 - Matemática 101", ScheduledAt: now.Add(3 * 24 * time.Hour)},
		{ID: "evaluation-2", ClassID: "class-2", Title: "Exame final - Física 201", ScheduledAt: now.Add(7 * 24 * time.Hour)},
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.reset()

	u := usr
	db.users[u.ID] = &u

	for _, c := range classes {
		c := c
		c.StudentIDs = []string{}
		c.CreatedAt, c.UpdatedAt = now, now
		db.classes[c.ID] = &c
		db.classOrder = append(db.classOrder, c.ID)
	}
	for _, s := range students {
		s := s
		s.CreatedAt, s.UpdatedAt = now, now
		to := s.ClassID
		s.ClassID = nil
		if err := db.moveStudent(&s, to, now); err != nil {
			return errors.Wrapf(err, "enrolling seed student %s", s.ID)
		}
		db.students[s.ID] = &s
		db.studentOrder = append(db.studentOrder, s.ID)
	}
	for _, cfg := range configs {
		cfg := cfg
		cfg.UpdatedAt = now
		db.configs[cfg.ClassID] = &cfg
		db.configOrder = append(db.configOrder, cfg.ClassID)
	}
	db.upcoming = upcoming
	return nil
}
