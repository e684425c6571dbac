package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
history_db: /var/lib/visitpipe/history.db
http_addr: ":9090"
export_format: json
enable_watcher: true
`), 0644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/visitpipe/history.db", cfg.HistoryDB)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, "json", cfg.ExportFormat)
	require.True(t, cfg.EnableWatcher)
	require.Equal(t, Default().RunsDB, cfg.RunsDB, "unset keys keep defaults")
}

func TestValidateRejectsBadFormat(t *testing.T) {
	cfg := Default()
	cfg.ExportFormat = "xlsx"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.HistoryDB = ""
	require.Error(t, cfg.Validate())
}
