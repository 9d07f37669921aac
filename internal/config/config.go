package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"

	"github.com/pennyflow/pennyflow/internal/common"
)

// App is the resolved runtime configuration. Exactly one of DatabasePath or
// ServerURL drives each invocation: a configured server URL switches the CLI
// into remote mode.
type App struct {
	DatabasePath string
	ServerURL    string
	WorkspaceID  string
	PageSize     int
}

// Load resolves the application configuration from viper, which has already
// merged the config file, PENNYFLOW_ environment variables and flags.
func Load() (*App, error) {
	app := &App{
		DatabasePath: ExpandPath(viper.GetString("database.path")),
		ServerURL:    viper.GetString("server.url"),
		WorkspaceID:  viper.GetString("workspace"),
		PageSize:     viper.GetInt("review.page_size"),
	}

	if app.DatabasePath == "" {
		app.DatabasePath = DefaultDatabasePath()
	}

	if app.ServerURL != "" {
		u, err := url.Parse(app.ServerURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: server.url must be an absolute URL", common.ErrInvalidConfig)
		}
	}

	if app.PageSize < 0 {
		return nil, fmt.Errorf("%w: review.page_size must be positive", common.ErrInvalidConfig)
	}

	return app, nil
}
