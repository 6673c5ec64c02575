package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/bookshelf.db", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "token", cfg.Auth.Header)
	assert.False(t, cfg.Catalog.EnforceOwnership)
	assert.Equal(t, "bookshelf-exports", cfg.Storage.KeyPrefix)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOOKSHELF_AUTH_JWTSECRET", "app-book")
	t.Setenv("BOOKSHELF_AUTH_TOKENTTL", "30m")
	t.Setenv("BOOKSHELF_DATABASE_DRIVER", "postgres")
	t.Setenv("BOOKSHELF_DATABASE_DSN", "postgres://localhost/books")
	t.Setenv("BOOKSHELF_CATALOG_ENFORCEOWNERSHIP", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "app-book", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/books", cfg.Database.DSN)
	assert.True(t, cfg.Catalog.EnforceOwnership)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.Auth.JWTSecret = "secret"
		cfg.Auth.TokenTTL = time.Hour
		cfg.Database.Driver = "sqlite"
		cfg.Database.Path = "data/test.db"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = " " }, wantErr: "jwt secret"},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }, wantErr: "ttl"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Database.Driver = "postgres" }, wantErr: "dsn"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mongo" }, wantErr: "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nBOOKSHELF_TEST_A=\"from-file\"\nexport BOOKSHELF_TEST_B=b\ninvalid-line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("BOOKSHELF_TEST_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("BOOKSHELF_TEST_A") })

	loadDotEnv(path)

	assert.Equal(t, "from-file", os.Getenv("BOOKSHELF_TEST_A"))
	assert.Equal(t, "from-env", os.Getenv("BOOKSHELF_TEST_B"))
}
