// A shared test server setup utility, which simplifies all API tests.

package testutil

import (
	"testing"

	"github.com/hibari-app/hibari/internal/api"
	"github.com/hibari-app/hibari/internal/config"
	"github.com/hibari-app/hibari/internal/core"
	"github.com/hibari-app/hibari/internal/providers"
	"github.com/hibari-app/hibari/internal/providers/mocktracker"
)

// SetupTestApp creates an App backed by an in-memory database.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	db := SetupTestDB(t)
	return core.NewApp(&config.Config{}, db)
}

// SetupTestServer creates an API server over an in-memory database with a
// mocktracker provider registered. The provider is returned so tests can
// stage its remote library or make its operations fail.
func SetupTestServer(t *testing.T) (*api.Server, *mocktracker.MockTrackerProvider) {
	t.Helper()

	app := SetupTestApp(t)
	server := api.NewServer(app)

	mock := mocktracker.New(server.Engine())
	providers.Register(mock)
	t.Cleanup(func() {
		providers.Unregister(mock.Info().Code)
	})

	return server, mock
}
