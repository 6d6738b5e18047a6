package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/matryer/is"
)

func TestParseEnv(t *testing.T) {
	is := is.New(t)
	td := t.TempDir()
	t.Setenv("SOFT_BOARD_DATA_PATH", td)
	t.Setenv("SOFT_BOARD_BOARDS_INVITE_ROLE", "member")
	t.Setenv("SOFT_BOARD_AUTH_TOKEN_EXPIRY", "2h")
	t.Setenv("SOFT_BOARD_JOBS_NOTIFICATION_RETENTION", "48h")
	t.Setenv("SOFT_BOARD_HTTP_PUBLIC_URL", "https://boards.example.com/")

	cfg := DefaultConfig()
	is.NoErr(cfg.ParseEnv())
	is.Equal(cfg.DataPath, td)
	is.Equal(cfg.Boards.InviteRole, access.MemberRole)
	is.Equal(cfg.Auth.TokenExpiry, 2*time.Hour)
	is.Equal(cfg.Jobs.NotificationRetention, 48*time.Hour)
	is.Equal(cfg.HTTP.PublicURL, "https://boards.example.com")
	is.Equal(cfg.Auth.KeyPath, filepath.Join(td, "keys", "soft_board_ed25519"))
}

func TestParseEnvInvalidRole(t *testing.T) {
	is := is.New(t)
	t.Setenv("SOFT_BOARD_DATA_PATH", t.TempDir())
	t.Setenv("SOFT_BOARD_BOARDS_INVITE_ROLE", "owner")

	cfg := DefaultConfig()
	is.True(cfg.ParseEnv() != nil)
}

func TestWriteAndParseConfig(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.Name = "Team boards"
	cfg.Boards.InviteRole = access.MemberRole
	cfg.Jobs.NotificationRetention = 12 * time.Hour
	is.NoErr(cfg.WriteConfig())
	is.True(cfg.Exist())

	parsed := DefaultConfig()
	parsed.DataPath = cfg.DataPath
	is.NoErr(parsed.Parse())
	is.Equal(parsed.Name, "Team boards")
	is.Equal(parsed.Boards.InviteRole, access.MemberRole)
	is.Equal(parsed.Jobs.NotificationRetention, 12*time.Hour)
	is.Equal(parsed.Auth.TokenExpiry, 24*time.Hour)
}

func TestSqliteDataSourceIsRelativeToDataPath(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.DataPath = t.TempDir()
	is.NoErr(cfg.Validate())
	is.Equal(filepath.Dir(cfg.DB.DataSource), cfg.DataPath)

	cfg = DefaultConfig()
	cfg.DB.Driver = "postgres"
	cfg.DB.DataSource = "postgres://localhost/boards"
	is.NoErr(cfg.Validate())
	is.Equal(cfg.DB.DataSource, "postgres://localhost/boards")
}

func TestCustomConfigLocation(t *testing.T) {
	is := is.New(t)
	td := t.TempDir()

	// Test that we get data from the custom file location, and not from the data dir.
	t.Setenv("SOFT_BOARD_CONFIG_LOCATION", "testdata/config.yaml")
	t.Setenv("SOFT_BOARD_DATA_PATH", td)
	cfg := DefaultConfig()
	is.NoErr(cfg.Parse())
	is.Equal(cfg.Name, "Test server name")
	is.Equal(cfg.Boards.InviteRole, access.MemberRole)

	// If the custom config location doesn't exist, default to datapath config.
	is.NoErr(os.Setenv("SOFT_BOARD_CONFIG_LOCATION", "testdata/config_nonexistent.yaml"))
	cfg = DefaultConfig()
	is.Equal(cfg.ConfigPath(), filepath.Join(td, "config.yaml"))
	is.Equal(cfg.Name, "Soft Board")
}

func TestEnviron(t *testing.T) {
	is := is.New(t)
	is.Equal(len((*Config)(nil).Environ()), 0)

	envs := DefaultConfig().Environ()
	is.True(len(envs) > 0)
	found := false
	for _, e := range envs {
		if e == "SOFT_BOARD_BOARDS_INVITE_ROLE=ADMIN" {
			found = true
		}
	}
	is.True(found) // invite role exported
}

func TestIsVerboseRequiresDebug(t *testing.T) {
	is := is.New(t)
	t.Setenv("SOFT_BOARD_VERBOSE", "true")
	t.Setenv("SOFT_BOARD_DEBUG", "false")
	is.True(!IsVerbose())
	t.Setenv("SOFT_BOARD_DEBUG", "true")
	is.True(IsDebug())
	is.True(IsVerbose())
}
