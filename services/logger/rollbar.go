package logsvc

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
	"github.com/trezcool/huda/core/user"
)

// RollbarLogger reports to Rollbar and echoes every entry to a std logger.
// The acting user becomes the Rollbar person; their role and class, and the sheet
// a store error is about, are sent as extras.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetCustom(map[string]interface{}{"app": conf.AppName, "sheets_endpoint": conf.Sheets.URL})
	rollbar.SetEnabled(!(conf.Debug || conf.TestMode) && conf.RollbarToken != "")
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// entry is a log call sorted out for Rollbar and the std logger.
type entry struct {
	msg    string
	usr    *user.User
	errs   []error
	extras map[string]interface{}
	other  []interface{}
}

// expected args: error, map[string]interface{} (extras), user.User (first one wins)
func newEntry(msg string, args []interface{}) entry {
	e := entry{msg: msg, extras: make(map[string]interface{})}
	for _, arg := range args {
		switch v := arg.(type) {
		case user.User:
			if e.usr == nil {
				usr := v
				e.usr = &usr
			}
		case map[string]interface{}:
			for k, val := range v {
				e.extras[k] = val
			}
		case error:
			if name := sheet.NameOf(v); name != "" {
				e.extras["sheet"] = name
			}
			e.errs = append(e.errs, v)
		case nil:
		default:
			e.other = append(e.other, v)
		}
	}
	if e.usr != nil {
		e.extras["role"] = e.usr.Role
		if e.usr.Class != "" {
			e.extras["class"] = e.usr.Class
		}
	}
	return e
}

// rollbarArgs sets the person and lays the entry out the way rollbar.Log reads it.
func (e entry) rollbarArgs() []interface{} {
	if e.usr != nil {
		rollbar.SetPerson(e.usr.Username, e.usr.Name, "")
	} else {
		rollbar.ClearPerson()
	}
	args := make([]interface{}, 0, len(e.errs)+len(e.other)+2)
	args = append(args, e.msg)
	for _, err := range e.errs {
		args = append(args, err)
	}
	args = append(args, e.other...)
	if len(e.extras) > 0 {
		args = append(args, e.extras)
	}
	return args
}

// line renders the entry on one line, extras sorted by key: `msg [sheet=x user=y]`.
func (e entry) line() string {
	var b strings.Builder
	b.WriteString(e.msg)

	fields := make([]string, 0, len(e.extras)+1)
	if e.usr != nil {
		fields = append(fields, "user="+e.usr.Username)
	}
	for k, v := range e.extras {
		fields = append(fields, k+"="+fmt.Sprint(v))
	}
	if len(fields) > 0 {
		sort.Strings(fields)
		b.WriteString(" [" + strings.Join(fields, " ") + "]")
	}
	return b.String()
}

func (l RollbarLogger) print(e entry) {
	l.std.Println(e.line())
	for _, err := range e.errs {
		l.std.Printf("%+v\n", err)
	}
	for _, arg := range e.other {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Debug(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Info(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Warning(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Error(e.rollbarArgs()...)
	l.print(e)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Critical(e.rollbarArgs()...)
	l.print(e)
	rollbar.Wait() // the process exits next
	l.std.Fatal(msg)
}
