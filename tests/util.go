package testutil

import (
	"context"
	"io/ioutil"
	"log"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/portal/apps/api/echo"
	"github.com/trezcool/portal/client"
	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/auth"
	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/core/student"
	logsvc "github.com/trezcool/portal/services/logger"
	inmemdb "github.com/trezcool/portal/storage/database/inmem"
)

// App bundles a seeded DB, its services and the API server.
type App struct {
	Conf       *core.Config
	DB         *inmemdb.DB
	Validate   *validator.Validate
	Translator ut.Translator

	AuthSvc       *auth.Service
	ClassSvc      *classroom.Service
	StudentSvc    *student.Service
	EvaluationSvc *evaluation.Service

	Metrics *echoapi.Metrics
	Server  *echoapi.Server
}

// NewConfig returns a test configuration: no latency, no request logs, tokens under t.TempDir().
func NewConfig(t *testing.T) *core.Config {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true
	conf.Env = "TEST"
	conf.SecretKey = "secret"
	conf.RollbarToken = ""
	conf.Server.DisableReqLogs = true
	conf.Server.LatencyMin, conf.Server.LatencyMax = 0, 0
	conf.Client.TokenFile = filepath.Join(t.TempDir(), "tokens.json")
	return conf
}

func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	classroom.InitValidators(validate, translator)
	evaluation.InitValidators(validate, translator)
	return validate, translator
}

func OpenDB(t *testing.T) *inmemdb.DB {
	db, err := inmemdb.OpenSeeded()
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

// ResetDB restores the seed data set; sessions are dropped.
func ResetDB(t *testing.T, db *inmemdb.DB) {
	if err := db.Seed(); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}

func NewApp(t *testing.T) *App {
	conf := NewConfig(t)
	db := OpenDB(t)
	validate, translator := NewValidator()

	app := &App{
		Conf:          conf,
		DB:            db,
		Validate:      validate,
		Translator:    translator,
		AuthSvc:       auth.NewService(inmemdb.NewUserRepository(db), conf),
		ClassSvc:      classroom.NewService(inmemdb.NewClassRepository(db)),
		StudentSvc:    student.NewService(inmemdb.NewStudentRepository(db)),
		EvaluationSvc: evaluation.NewService(inmemdb.NewEvaluationRepository(db)),
		Metrics:       echoapi.NewMetrics(),
	}
	app.Server = echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        NewLogger(conf),
		AuthSvc:       app.AuthSvc,
		ClassSvc:      app.ClassSvc,
		StudentSvc:    app.StudentSvc,
		EvaluationSvc: app.EvaluationSvc,
		Snapshotter:   db,
		Validate:      validate,
		Translator:    translator,
		Metrics:       app.Metrics,
	})
	return app
}

// Login opens a session for the seed teacher.
func Login(t *testing.T, svc *auth.Service) auth.Session {
	sess, err := svc.Login(context.Background(), auth.Credentials{
		Email:    inmemdb.SeedUserEmail,
		Password: inmemdb.SeedUserPassword,
	})
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	return sess
}

func CreateClass(t *testing.T, svc *classroom.Service, name string, capacity int) classroom.ClassRoom {
	class, err := svc.Create(context.Background(), classroom.NewClass{
		Name:     name,
		Capacity: classroom.NewCapacity(capacity),
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return class
}

func CreateStudent(t *testing.T, svc *student.Service, name, email string, classID *string, status student.Status) student.Student {
	std, err := svc.Create(context.Background(), student.NewStudent{
		Name:    name,
		Email:   email,
		ClassID: classID,
		Status:  status,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func StrPtr(s string) *string {
	return &s
}

// NewClient serves app over HTTP and returns API services talking to it, backed by an in-memory token store.
func NewClient(t *testing.T, app *App) (*client.Services, *client.MemoryTokenStore) {
	srv := httptest.NewServer(app.Server)
	t.Cleanup(srv.Close)

	store := client.NewMemoryTokenStore()
	c := client.New(core.ClientConfig{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second}, store)
	return client.NewServices(c), store
}

// NewLoggedInClient is NewClient with the seed teacher signed in.
func NewLoggedInClient(t *testing.T, app *App) (*client.Services, *client.MemoryTokenStore) {
	svcs, store := NewClient(t, app)
	if _, err := svcs.Auth.Login(context.Background(), auth.Credentials{
		Email:    inmemdb.SeedUserEmail,
		Password: inmemdb.SeedUserPassword,
	}); err != nil {
		t.Fatalf("NewLoggedInClient() failed: %v", err)
	}
	return svcs, store
}
