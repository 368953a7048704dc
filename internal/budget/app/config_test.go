package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "budgetd", cfg.Issuer)
	require.Equal(t, 3031, cfg.Port)
	require.Equal(t, "budget.db", cfg.DatabaseFile)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.EqualValues(t, 1<<20, cfg.MaxRequestBody)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BUDGET_ISSUER", "budgetd-staging")
	t.Setenv("PORT", "9090")
	t.Setenv("BUDGET_SESSION_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://beta.example.com")
	t.Setenv("BUDGET_TOKEN_PREVIOUS_SECRETS", "old-one,old-two")

	cfg := LoadConfig()
	require.Equal(t, "budgetd-staging", cfg.Issuer)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, []string{"https://app.example.com", "https://beta.example.com"}, cfg.CORSAllowedOrigins)
	require.Equal(t, []string{"old-one", "old-two"}, cfg.PreviousSecrets)
}

func TestTokenSecretsRequireConfiguration(t *testing.T) {
	_, err := Config{}.TokenSecrets()
	require.ErrorIs(t, err, ErrNoTokenSecret)
}

func TestTokenSecretsFromEnvValue(t *testing.T) {
	cfg := Config{TokenSecret: "inline-secret", PreviousSecrets: []string{"retired"}}

	secrets, err := cfg.TokenSecrets()
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("inline-secret"), []byte("retired")}, secrets)
}

func TestTokenSecretsPreferFiles(t *testing.T) {
	dir := t.TempDir()

	primaryFile := filepath.Join(dir, "secret")
	require.NoError(t, os.WriteFile(primaryFile, []byte("file-secret\n"), 0o600))
	previousFile := filepath.Join(dir, "previous")
	require.NoError(t, os.WriteFile(previousFile, []byte("old-a\nold-b\n"), 0o600))

	cfg := Config{
		TokenSecret:         "ignored",
		TokenSecretFile:     primaryFile,
		PreviousSecretsFile: previousFile,
	}

	secrets, err := cfg.TokenSecrets()
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("file-secret"), []byte("old-a"), []byte("old-b")}, secrets)
}

func TestTokenSecretsMissingFile(t *testing.T) {
	_, err := Config{TokenSecretFile: filepath.Join(t.TempDir(), "absent")}.TokenSecrets()
	require.Error(t, err)
}
