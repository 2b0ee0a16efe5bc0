package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("EVCHARGER_TEST_MODE", "1")
		if os.Getenv("DB_DRIVER") == "" {
			_ = os.Setenv("DB_DRIVER", "sqlite")
		}
		if os.Getenv("DB_FILE") == "" {
			_ = os.Setenv("DB_FILE", ":memory:")
		}
		_ = os.Setenv("REDIS_ADDR", "")
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
