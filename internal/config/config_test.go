package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyflow/pennyflow/internal/common"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	app, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, app.DatabasePath)
	assert.Empty(t, app.ServerURL)
}

func TestLoadRejectsRelativeServerURL(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("server.url", "localhost:8080")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadAcceptsServerURL(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("server.url", "http://localhost:8080")
	viper.Set("workspace", "ws-1")

	app, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", app.ServerURL)
	assert.Equal(t, "ws-1", app.WorkspaceID)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("PENNYFLOW_TEST_DIR", "/tmp/pennyflow")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "/var/db/ledger.db", want: "/var/db/ledger.db"},
		{name: "env var", in: "$PENNYFLOW_TEST_DIR/ledger.db", want: "/tmp/pennyflow/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
