package state_test

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/portal/core/auth"
	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/dashboard"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/core/student"
)

var errSilent = errors.New("")

type fakeClasses struct {
	classes []classroom.ClassRoom
	err     error
	calls   int
}

func (f *fakeClasses) List(context.Context) ([]classroom.ClassRoom, error) {
	f.calls++
	return f.classes, f.err
}

func (f *fakeClasses) Create(context.Context, classroom.NewClass) (classroom.ClassRoom, error) {
	return classroom.ClassRoom{}, f.err
}

func (f *fakeClasses) Update(context.Context, string, classroom.UpdateClass) (classroom.ClassRoom, error) {
	return classroom.ClassRoom{}, f.err
}

func (f *fakeClasses) Delete(context.Context, string) error {
	return f.err
}

type fakeStudents struct {
	students []student.Student
	err      error
}

func (f *fakeStudents) List(context.Context) ([]student.Student, error) {
	return f.students, f.err
}

func (f *fakeStudents) Create(context.Context, student.NewStudent) (student.Student, error) {
	return student.Student{}, f.err
}

func (f *fakeStudents) Update(context.Context, string, student.UpdateStudent) (student.Student, error) {
	return student.Student{}, f.err
}

func (f *fakeStudents) Delete(context.Context, string) error {
	return f.err
}

type fakeEvaluations struct {
	err error
}

func (f *fakeEvaluations) ListConfigs(context.Context) ([]evaluation.Config, error) {
	return nil, f.err
}

func (f *fakeEvaluations) ListUpcoming(context.Context) ([]evaluation.Upcoming, error) {
	return nil, f.err
}

func (f *fakeEvaluations) UpdateConfig(context.Context, string, evaluation.UpdateConfig) (evaluation.Config, error) {
	return evaluation.Config{}, f.err
}

func (f *fakeEvaluations) Schedule(context.Context, evaluation.NewUpcoming) (evaluation.Upcoming, error) {
	return evaluation.Upcoming{}, f.err
}

type fakeSnapshots struct {
	snap  dashboard.Snapshot
	err   error
	calls int
}

func (f *fakeSnapshots) Snapshot(context.Context) (dashboard.Snapshot, error) {
	f.calls++
	return f.snap, f.err
}

// fakeAuth records the order of the calls it receives; a call blocks until its gate is released.
type fakeAuth struct {
	calls      chan string
	gate       chan struct{}
	loginErr   error
	logoutErr  error
	refreshErr error
	restore    *auth.Session
	restoreErr error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{calls: make(chan string, 10)}
}

func (f *fakeAuth) wait(name string) {
	f.calls <- name
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeAuth) Login(_ context.Context, creds auth.Credentials) (auth.Session, error) {
	f.wait("login")
	if f.loginErr != nil {
		return auth.Session{}, f.loginErr
	}
	return auth.Session{
		User:   auth.User{ID: "user-1", Email: creds.Email},
		Tokens: auth.Tokens{AccessToken: "access", RefreshToken: "refresh"},
	}, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.wait("logout")
	return f.logoutErr
}

func (f *fakeAuth) RefreshSession(_ context.Context, rt string) (auth.Session, error) {
	f.wait("refresh:" + rt)
	if f.refreshErr != nil {
		return auth.Session{}, f.refreshErr
	}
	return auth.Session{
		User:   auth.User{ID: "user-1"},
		Tokens: auth.Tokens{AccessToken: "access-2", RefreshToken: "refresh-2"},
	}, nil
}

func (f *fakeAuth) RestoreSession(context.Context) (*auth.Session, error) {
	f.wait("restore")
	return f.restore, f.restoreErr
}
