package dig_container

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/huda/apps/api/echo"
	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/course"
	"github.com/trezcool/huda/core/event"
	"github.com/trezcool/huda/core/progress"
	"github.com/trezcool/huda/core/registration"
	"github.com/trezcool/huda/core/schedule"
	"github.com/trezcool/huda/core/sheet"
	"github.com/trezcool/huda/core/task"
	"github.com/trezcool/huda/core/user"
	emailsvc "github.com/trezcool/huda/services/email"
	logsvc "github.com/trezcool/huda/services/logger"
	"github.com/trezcool/huda/storage/sheets"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

type ServerParams struct {
	dig.In
	Conf            *core.Config
	Logger          core.Logger
	Store           sheet.Store
	UserSvc         *user.Service
	ProgressSvc     *progress.Service
	TaskSvc         *task.Service
	CourseSvc       *course.Service
	EventSvc        *event.Service
	ScheduleSvc     *schedule.Service
	RegistrationSvc *registration.Service
	Validate        *validator.Validate
	Translator      ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newStoreLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "SHEETS : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newStore(conf *core.Config, loggerParam StoreLoggerParam) *sheets.Store {
	return sheets.NewStoreFromConfig(conf, loggerParam.Logger)
}

func asSheetStore(store *sheets.Store) sheet.Store {
	return store
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

// newScheduler prunes expired sheet cache entries on the configured cron schedule. It is started by the caller.
func newScheduler(conf *core.Config, store *sheets.Store, loggerParam StoreLoggerParam) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(conf.Sheets.PruneSpec, func() {
		if n := store.Prune(); n > 0 {
			loggerParam.Logger.Debug(fmt.Sprintf("pruned %d expired sheet(s) from cache", n))
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scheduling cache pruning %q", conf.Sheets.PruneSpec)
	}
	return c, nil
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(p.Conf, p.Logger, &echoapi.Deps{
		Store:           p.Store,
		UserSvc:         p.UserSvc,
		ProgressSvc:     p.ProgressSvc,
		TaskSvc:         p.TaskSvc,
		CourseSvc:       p.CourseSvc,
		EventSvc:        p.EventSvc,
		ScheduleSvc:     p.ScheduleSvc,
		RegistrationSvc: p.RegistrationSvc,
		Validate:        p.Validate,
		Translator:      p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(newStore))
	must(c.Provide(asSheetStore))
	must(c.Provide(newScheduler))
	must(c.Provide(emailsvc.NewService))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(user.NewService))
	must(c.Provide(progress.NewService))
	must(c.Provide(task.NewService))
	must(c.Provide(course.NewService))
	must(c.Provide(event.NewService))
	must(c.Provide(schedule.NewService))
	must(c.Provide(registration.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
