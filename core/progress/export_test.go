package progress

import (
	"testing"
	"time"
)

func SetNowFunc(t *testing.T, f func() time.Time) {
	nowFunc = f
	t.Cleanup(func() { nowFunc = time.Now })
}
