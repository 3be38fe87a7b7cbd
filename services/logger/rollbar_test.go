package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
	"github.com/trezcool/huda/core/user"
)

func Test_newEntry(t *testing.T) {
	sam := user.User{Username: "sam", Name: "Sam Student", Role: user.RoleStudent, Class: "3"}
	ada := user.User{Username: "ada", Name: "Ada", Role: user.RoleAdmin}
	fetchErr := errors.Wrap(&sheet.FetchError{Sheet: "3_tasks_master", Err: errors.New("timeout")}, "listing tasks")

	tests := []struct {
		name       string
		args       []interface{}
		wantUser   string
		wantErrs   int
		wantExtras map[string]interface{}
		wantArgs   int
	}{
		{name: "message only", wantArgs: 1},
		{name: "nil args are skipped", args: []interface{}{nil}, wantArgs: 1},
		{
			name:       "first user wins",
			args:       []interface{}{sam, ada},
			wantUser:   "sam",
			wantExtras: map[string]interface{}{"role": user.RoleStudent, "class": "3"},
			wantArgs:   2,
		},
		{
			name:       "admin has no class",
			args:       []interface{}{ada},
			wantUser:   "ada",
			wantExtras: map[string]interface{}{"role": user.RoleAdmin},
			wantArgs:   2,
		},
		{
			name:       "sheet is lifted out of wrapped store errors",
			args:       []interface{}{fetchErr, map[string]interface{}{"k": "v"}},
			wantErrs:   1,
			wantExtras: map[string]interface{}{"sheet": "3_tasks_master", "k": "v"},
			wantArgs:   3,
		},
		{
			name:       "plain errors carry no sheet",
			args:       []interface{}{errors.New("boom"), 42},
			wantErrs:   1,
			wantExtras: map[string]interface{}{},
			wantArgs:   3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEntry("hello", tt.args)
			if tt.wantUser == "" {
				assert.Nil(t, e.usr)
			} else {
				require.NotNil(t, e.usr)
				assert.Equal(t, tt.wantUser, e.usr.Username)
			}
			assert.Len(t, e.errs, tt.wantErrs)
			if tt.wantExtras != nil {
				assert.Equal(t, tt.wantExtras, e.extras)
			}

			args := e.rollbarArgs()
			assert.Len(t, args, tt.wantArgs)
			assert.Equal(t, "hello", args[0])
			for _, arg := range args {
				_, isUser := arg.(user.User)
				assert.False(t, isUser, "users are not forwarded to rollbar as args")
			}
		})
	}
}

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := core.NewConfig()
	conf.TestMode = true
	logger := NewRollbarLogger(log.New(&buf, "TEST : ", 0), conf)

	sam := user.User{Username: "sam", Name: "Sam Student", Role: user.RoleStudent, Class: "3"}
	logger.Warn("sheet unavailable", sam, &sheet.FetchError{Sheet: "3_tasks_master", Err: errors.New("timeout")})

	out := buf.String()
	assert.Contains(t, out, "TEST : sheet unavailable [class=3 role=student sheet=3_tasks_master user=sam]\n")
	assert.Contains(t, out, `fetching sheet "3_tasks_master": timeout`)
	assert.NotContains(t, out, "Sam Student", "user records are never dumped")

	buf.Reset()
	logger.Info("ready")
	assert.Equal(t, "TEST : ready\n", buf.String())
}
