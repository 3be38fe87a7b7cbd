package echoapi

import (
	"testing"
	"time"
)

func SetNowFunc(t *testing.T, f func() time.Time) {
	old := nowFunc
	nowFunc = f
	t.Cleanup(func() { nowFunc = old })
}
