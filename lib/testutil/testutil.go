package testutil

import (
	"fmt"
	"testing"

	"szenesync/lib/telemetry"
)

// SetupService prepares the shared test environment (telemetry) for a
// service test and returns its cleanup function. Runs are stateless so
// there is no database to provision.
func SetupService(t testing.TB, name string) func() {
	return telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", name))
}
