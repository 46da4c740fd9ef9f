package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, sourceURLEnv, dataDirEnv, archiveFileEnv, smtpHostEnv,
		smtpPortEnv, scheduleEnv, logLevelEnv, emailUserEnv, emailPassEnv, receiverEnv,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultSourceURL, cfg.Source.URL)
	assert.Equal(t, DefaultOrigin, cfg.Source.Origin)
	assert.Equal(t, DefaultUserAgent, cfg.Source.UserAgent)
	assert.Equal(t, DefaultTimeout, cfg.Source.Timeout)
	assert.Equal(t, DefaultArchiveFile, cfg.Archive.File)
	assert.Equal(t, DefaultSMTPHost, cfg.Mail.Host)
	assert.Equal(t, DefaultSMTPPort, cfg.Mail.Port)
	assert.Equal(t, DefaultSchedule, cfg.Schedule)
	assert.False(t, cfg.Mail.Configured())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(dataDirEnv, dir)
	t.Setenv(archiveFileEnv, "news.csv")
	t.Setenv(smtpHostEnv, "smtp.gmail.com")
	t.Setenv(smtpPortEnv, "587")
	t.Setenv(emailUserEnv, "bot@example.com")
	t.Setenv(emailPassEnv, "secret")
	t.Setenv(receiverEnv, "fan@example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "news.csv"), cfg.Archive.Path())
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "bot@example.com", cfg.Mail.Username)
	assert.Equal(t, "bot@example.com", cfg.Mail.From)
	assert.Equal(t, "fan@example.com", cfg.Mail.To)
	assert.Equal(t, "secret", cfg.Mail.Password)
	assert.True(t, cfg.Mail.Configured())
}

func TestLoadMailIdentityFallbacks(t *testing.T) {
	t.Run("receiver doubles as login", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(receiverEnv, "fan@example.com")
		t.Setenv(emailPassEnv, "secret")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "fan@example.com", cfg.Mail.Username)
		assert.Equal(t, "fan@example.com", cfg.Mail.From)
		assert.Equal(t, "fan@example.com", cfg.Mail.To)
	})

	t.Run("login doubles as receiver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(emailUserEnv, "bot@example.com")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "bot@example.com", cfg.Mail.To)
		assert.False(t, cfg.Mail.Configured(), "no password")
	})
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "f1news.yaml")
	content := `
source:
  url: https://example.com/sport/formula1
  timeout: 5s
archive:
  dataDir: ` + dir + `
  file: archive.csv
mail:
  host: smtp.example.com
  port: 2465
  to: team@example.com
schedule: "@hourly"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv(emailUserEnv, "bot@example.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/sport/formula1", cfg.Source.URL)
	assert.Equal(t, DefaultOrigin, cfg.Source.Origin)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, filepath.Join(dir, "archive.csv"), cfg.Archive.Path())
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 2465, cfg.Mail.Port)
	assert.Equal(t, "team@example.com", cfg.Mail.To)
	assert.Equal(t, "bot@example.com", cfg.Mail.Username)
	assert.Equal(t, "@hourly", cfg.Schedule)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(smtpPortEnv, "smtp")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("bad source url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(sourceURLEnv, "not a url")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestExpandDataDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Default()
	cfg.Archive.DataDir = "~/f1news"
	require.NoError(t, cfg.expandDataDir())
	assert.Equal(t, filepath.Join(home, "f1news"), cfg.Archive.DataDir)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EMAIL_USER=bot@example.com\nEMAIL_PASS=secret\n"), 0600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "bot@example.com", cfg.Mail.Username)
	assert.Equal(t, "bot@example.com", cfg.Mail.To)
}

func TestLoadMalformedDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EMAIL-USER=bot@example.com\n"), 0600))

	_, err := Load("")
	assert.ErrorContains(t, err, "loading .env")
}
