package dig_container

import (
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/portal/apps/api/echo"
	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/auth"
	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/core/student"
	logsvc "github.com/trezcool/portal/services/logger"
	inmemdb "github.com/trezcool/portal/storage/database/inmem"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In

	Conf          *core.Config
	Logger        core.Logger
	DB            *inmemdb.DB
	AuthSvc       *auth.Service
	ClassSvc      *classroom.Service
	StudentSvc    *student.Service
	EvaluationSvc *evaluation.Service
	Validate      *validator.Validate
	Translator    ut.Translator
	Metrics       *echoapi.Metrics
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

// newDB opens the in-memory store loaded with the demo data set.
func newDB(loggerParam DBLoggerParam) *inmemdb.DB {
	db, err := inmemdb.OpenSeeded()
	if err != nil {
		loggerParam.Logger.Fatal("seeding database", err)
	}
	loggerParam.Logger.Info("database seeded", map[string]interface{}{"teacher": inmemdb.SeedUserEmail})
	return db
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	classroom.InitValidators(validate, translator)
	evaluation.InitValidators(validate, translator)
	return validate
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:          p.Conf,
		Logger:        p.Logger,
		AuthSvc:       p.AuthSvc,
		ClassSvc:      p.ClassSvc,
		StudentSvc:    p.StudentSvc,
		EvaluationSvc: p.EvaluationSvc,
		Snapshotter:   p.DB,
		Validate:      p.Validate,
		Translator:    p.Translator,
		Metrics:       p.Metrics,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(inmemdb.NewUserRepository))
	must(c.Provide(inmemdb.NewClassRepository))
	must(c.Provide(inmemdb.NewStudentRepository))
	must(c.Provide(inmemdb.NewEvaluationRepository))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(auth.NewService))
	must(c.Provide(classroom.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(evaluation.NewService))
	must(c.Provide(echoapi.NewMetrics))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
