package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

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
	"github.com/trezcool/huda/storage/sheetsim"
	testutil "github.com/trezcool/huda/tests"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}

	admin   = user.User{Username: "ada", Name: "Ada Admin", Role: user.RoleAdmin, Subjects: "3:Math|Science"}
	student = user.User{Username: "sam", Name: "Sam Student", Role: user.RoleStudent, Class: "3"}
	noClass = user.User{Username: "nina", Name: "Nina", Role: user.RoleStudent}
)

type testApp struct {
	*echoapi.Server
	conf   *core.Config
	auth   *echoapi.Auth
	sheets *testutil.SheetServer
}

func setup(t *testing.T, opts ...sheetsim.Options) testApp {
	conf := testutil.NewConfig(t)
	conf.Debug = false

	ss := testutil.NewSheetServer(t, opts...)
	ss.SeedUser(t, admin.Username, "secret1", admin.Name, admin.Role, "", admin.Subjects)
	ss.SeedUser(t, student.Username, "pass12", student.Name, student.Role, student.Class, "")
	ss.SeedUser(t, noClass.Username, "pass34", noClass.Name, noClass.Role, "", "")

	server := newServer(t, conf, ss.Store)
	return testApp{Server: server, conf: conf, auth: echoapi.NewAuth(conf), sheets: ss}
}

// newServer wires every service on store.
func newServer(t *testing.T, conf *core.Config, store sheet.Store) *echoapi.Server {
	logger := testutil.NewLogger(conf)
	validate, translator := testutil.NewValidator(t)
	user.InitValidators(validate, translator)

	emailsvc.ResetSentMessages()
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	return echoapi.NewServer(conf, logger, &echoapi.Deps{
		Store:           store,
		UserSvc:         user.NewService(store, validate),
		ProgressSvc:     progress.NewService(store, conf, logger),
		TaskSvc:         task.NewService(store, validate),
		CourseSvc:       course.NewService(store, validate),
		EventSvc:        event.NewService(store, validate),
		ScheduleSvc:     schedule.NewService(store),
		RegistrationSvc: registration.NewService(store, validate, mailSvc, logger),
		Validate:        validate,
		Translator:      translator,
	})
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app testApp) getToken(t *testing.T, usr user.User) string {
	token, err := app.auth.Token(usr)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

// do runs tt against the app and checks the response.
func (app testApp) do(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	if tt.wantCode != 0 {
		checkCodeAndData(t, tt, rec)
	}
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%s): %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
