package client

import (
	"context"
	"net/url"

	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/dashboard"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/core/student"
)

// entity names used in fallback messages
const (
	classesEntity     = "turmas"
	studentsEntity    = "alunos"
	evaluationsEntity = "avaliações"
	dashboardEntity   = "painel"
)

// Services groups the API facades sharing one Client.
type Services struct {
	Auth        *AuthService
	Classes     *ClassService
	Students    *StudentService
	Evaluations *EvaluationService
	Dashboard   *DashboardService
}

func NewServices(c *Client) *Services {
	return &Services{
		Auth:        NewAuthService(c),
		Classes:     &ClassService{c: c},
		Students:    &StudentService{c: c},
		Evaluations: &EvaluationService{c: c},
		Dashboard:   &DashboardService{c: c},
	}
}

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}

type ClassService struct {
	c *Client
}

func (svc *ClassService) List(ctx context.Context) ([]classroom.ClassRoom, error) {
	var classes []classroom.ClassRoom
	if err := svc.c.get(ctx, "/classes", &classes); err != nil {
		return nil, newServiceError(err, classesEntity)
	}
	return classes, nil
}

func (svc *ClassService) Get(ctx context.Context, id string) (classroom.ClassRoom, error) {
	var class classroom.ClassRoom
	if err := svc.c.get(ctx, idPath("/classes", id), &class); err != nil {
		return classroom.ClassRoom{}, newServiceError(err, classesEntity)
	}
	return class, nil
}

func (svc *ClassService) Create(ctx context.Context, nc classroom.NewClass) (classroom.ClassRoom, error) {
	var class classroom.ClassRoom
	if err := svc.c.post(ctx, "/classes", nc, &class); err != nil {
		return classroom.ClassRoom{}, newServiceError(err, classesEntity)
	}
	return class, nil
}

func (svc *ClassService) Update(ctx context.Context, id string, uc classroom.UpdateClass) (classroom.ClassRoom, error) {
	var class classroom.ClassRoom
	if err := svc.c.put(ctx, idPath("/classes", id), uc, &class); err != nil {
		return classroom.ClassRoom{}, newServiceError(err, classesEntity)
	}
	return class, nil
}

func (svc *ClassService) Delete(ctx context.Context, id string) error {
	if err := svc.c.delete(ctx, idPath("/classes", id)); err != nil {
		return newServiceError(err, classesEntity)
	}
	return nil
}

type StudentService struct {
	c *Client
}

func (svc *StudentService) List(ctx context.Context) ([]student.Student, error) {
	var students []student.Student
	if err := svc.c.get(ctx, "/students", &students); err != nil {
		return nil, newServiceError(err, studentsEntity)
	}
	return students, nil
}

func (svc *StudentService) Get(ctx context.Context, id string) (student.Student, error) {
	var std student.Student
	if err := svc.c.get(ctx, idPath("/students", id), &std); err != nil {
		return student.Student{}, newServiceError(err, studentsEntity)
	}
	return std, nil
}

func (svc *StudentService) Create(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	var std student.Student
	if err := svc.c.post(ctx, "/students", ns, &std); err != nil {
		return student.Student{}, newServiceError(err, studentsEntity)
	}
	return std, nil
}

func (svc *StudentService) Update(ctx context.Context, id string, us student.UpdateStudent) (student.Student, error) {
	var std student.Student
	if err := svc.c.put(ctx, idPath("/students", id), us, &std); err != nil {
		return student.Student{}, newServiceError(err, studentsEntity)
	}
	return std, nil
}

func (svc *StudentService) Delete(ctx context.Context, id string) error {
	if err := svc.c.delete(ctx, idPath("/students", id)); err != nil {
		return newServiceError(err, studentsEntity)
	}
	return nil
}

type EvaluationService struct {
	c *Client
}

func (svc *EvaluationService) ListConfigs(ctx context.Context) ([]evaluation.Config, error) {
	var configs []evaluation.Config
	if err := svc.c.get(ctx, "/evaluations/configs", &configs); err != nil {
		return nil, newServiceError(err, evaluationsEntity)
	}
	return configs, nil
}

func (svc *EvaluationService) GetConfig(ctx context.Context, classID string) (evaluation.Config, error) {
	var cfg evaluation.Config
	if err := svc.c.get(ctx, idPath("/evaluations/configs", classID), &cfg); err != nil {
		return evaluation.Config{}, newServiceError(err, evaluationsEntity)
	}
	return cfg, nil
}

func (svc *EvaluationService) UpdateConfig(ctx context.Context, classID string, uc evaluation.UpdateConfig) (evaluation.Config, error) {
	var cfg evaluation.Config
	if err := svc.c.put(ctx, idPath("/evaluations/configs", classID), uc, &cfg); err != nil {
		return evaluation.Config{}, newServiceError(err, evaluationsEntity)
	}
	return cfg, nil
}

func (svc *EvaluationService) ListUpcoming(ctx context.Context) ([]evaluation.Upcoming, error) {
	var upcoming []evaluation.Upcoming
	if err := svc.c.get(ctx, "/evaluations/upcoming", &upcoming); err != nil {
		return nil, newServiceError(err, evaluationsEntity)
	}
	return upcoming, nil
}

func (svc *EvaluationService) Schedule(ctx context.Context, nu evaluation.NewUpcoming) (evaluation.Upcoming, error) {
	var upc evaluation.Upcoming
	if err := svc.c.post(ctx, "/evaluations/upcoming", nu, &upc); err != nil {
		return evaluation.Upcoming{}, newServiceError(err, evaluationsEntity)
	}
	return upc, nil
}

type DashboardService struct {
	c *Client
}

func (svc *DashboardService) Snapshot(ctx context.Context) (dashboard.Snapshot, error) {
	var snap dashboard.Snapshot
	if err := svc.c.get(ctx, "/dashboard/snapshot", &snap); err != nil {
		return dashboard.Snapshot{}, newServiceError(err, dashboardEntity)
	}
	return snap, nil
}

func (svc *DashboardService) Overview(ctx context.Context) (dashboard.Overview, error) {
	var overview dashboard.Overview
	if err := svc.c.get(ctx, "/dashboard/overview", &overview); err != nil {
		return dashboard.Overview{}, newServiceError(err, dashboardEntity)
	}
	return overview, nil
}
