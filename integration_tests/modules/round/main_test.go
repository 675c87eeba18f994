//go:build integration

package roundintegrationtests

import (
	"os"
	"testing"

	"github.com/Black-And-White-Club/ulti-bot/integration_tests/testutils"
)

var suite = &testutils.Suite{Name: "round"}

func TestMain(m *testing.M) {
	code := m.Run()
	suite.Teardown()
	os.Exit(code)
}
