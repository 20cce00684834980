package inmemdb

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/auth"
	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/dashboard"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/core/student"
)

// DB is an in-memory store for every collection of the portal.
// All tables share one lock: enrolment changes touch students and classes together.
type DB struct {
	mu sync.RWMutex

	users    map[string]*auth.User
	sessions map[string]*auth.SessionRecord // by access token
	evicted  map[string]*auth.SessionRecord // expired sessions, by refresh token

	classes    map[string]*classroom.ClassRoom
	classOrder []string

	students     map[string]*student.Student
	studentOrder []string

	configs     map[string]*evaluation.Config // by class ID
	configOrder []string

	upcoming []evaluation.Upcoming
}

// Open returns an empty DB.
func Open() *DB {
	db := new(DB)
	db.reset()
	return db
}

func (db *DB) reset() {
	db.users = make(map[string]*auth.User)
	db.sessions = make(map[string]*auth.SessionRecord)
	db.evicted = make(map[string]*auth.SessionRecord)
	db.classes = make(map[string]*classroom.ClassRoom)
	db.classOrder = nil
	db.students = make(map[string]*student.Student)
	db.studentOrder = nil
	db.configs = make(map[string]*evaluation.Config)
	db.configOrder = nil
	db.upcoming = nil
}

// Reset drops every record, sessions included.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.reset()
}

// Snapshot returns a deep copy of the classes, students, evaluation configs and upcoming evaluations.
func (db *DB) Snapshot(ctx context.Context) (dashboard.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return dashboard.Snapshot{}, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()

	return dashboard.Snapshot{
		Classes:             db.queryClasses(),
		Students:            db.queryStudents(),
		EvaluationConfigs:   db.queryConfigs(),
		UpcomingEvaluations: db.queryUpcoming(),
	}, nil
}

// moveStudent is the single write path of enrolment: it detaches std from their current class and
// attaches them to class `to` (nil detaches only). Touched classes get UpdatedAt = now.
// Callers must hold db.mu for writing.
func (db *DB) moveStudent(std *student.Student, to *string, now time.Time) error {
	var dest *classroom.ClassRoom
	if to != nil {
		c, ok := db.classes[*to]
		if !ok {
			return student.ErrClassNotFound
		}
		dest = c
	}
	if sameClass(std.ClassID, to) {
		if dest != nil && !dest.HasStudent(std.ID) {
			dest.StudentIDs = append(dest.StudentIDs, std.ID)
			dest.UpdatedAt = now
		}
		return nil
	}

	if std.ClassID != nil {
		if prev, ok := db.classes[*std.ClassID]; ok {
			prev.StudentIDs = removeID(prev.StudentIDs, std.ID)
			prev.UpdatedAt = now
		}
	}
	if dest != nil {
		if !dest.HasStudent(std.ID) {
			dest.StudentIDs = append(dest.StudentIDs, std.ID)
		}
		dest.UpdatedAt = now
		id := dest.ID
		std.ClassID = &id
	} else {
		std.ClassID = nil
	}
	return nil
}

func sameClass(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func copyClass(c classroom.ClassRoom) classroom.ClassRoom {
	ids := make([]string, len(c.StudentIDs))
	copy(ids, c.StudentIDs)
	c.StudentIDs = ids
	return c
}

func copyStudent(s student.Student) student.Student {
	if s.ClassID != nil {
		id := *s.ClassID
		s.ClassID = &id
	}
	return s
}

func copyConfig(c evaluation.Config) evaluation.Config {
	criteria := make([]evaluation.Criterion, len(c.Criteria))
	copy(criteria, c.Criteria)
	c.Criteria = criteria
	return c
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return core.Now()
	}
	return t.UTC()
}
