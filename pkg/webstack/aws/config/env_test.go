package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("AWS_ACCOUNT", "123456789012")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("RESOURCE_PREFIX", "ocs-prod")
	t.Setenv("ECR_REPO_NAME", "app-images")
	t.Setenv("NETWORK_STACK_REF", "org/network/prod")
	t.Setenv("DATABASE_STACK_REF", "org/database/prod")
	t.Setenv("CACHE_STACK_REF", "org/cache/prod")
	t.Setenv("DOMAIN_STACK_REF", "org/domain/prod")
	t.Setenv("S3_PRIVATE_BUCKET_NAME", "private-bucket")
	t.Setenv("S3_PUBLIC_BUCKET_NAME", "public-bucket")
	t.Setenv("S3_WHATSAPP_AUDIO_BUCKET", "audio-bucket")
	t.Setenv("DATABASE_NAME", "appdb")
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "123456789012", cfg.AWSAccount)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "latest", cfg.ImageTag)
	assert.Equal(t, "app-secret-key", cfg.AppSecretKeyName)
	assert.Empty(t, cfg.Secrets)
}

func TestLoadConfigParsesSecretList(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SECRETS", "sentry-dsn=unmanaged,platform-key=managed")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Len(t, cfg.Secrets, 2)
	assert.Equal(t, SecretSpec{Name: "sentry-dsn", Managed: false}, cfg.Secrets[0])
	assert.Equal(t, SecretSpec{Name: "platform-key", Managed: true}, cfg.Secrets[1])

	unmanaged := cfg.UnmanagedSecrets()
	require.Len(t, unmanaged, 1)
	assert.Equal(t, "sentry-dsn", unmanaged[0].Name)
}

func TestLoadConfigRequiresAccount(t *testing.T) {
	setRequiredEnv(t)
	// t.Setenv above registered the cleanup; drop the var for this test only
	require.NoError(t, os.Unsetenv("AWS_ACCOUNT"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestSecretListDecode(t *testing.T) {
	var secrets SecretList
	require.NoError(t, secrets.Decode(" sentry-dsn=unmanaged , openai-api-key=unmanaged "))
	assert.Len(t, secrets, 2)

	var empty SecretList
	require.NoError(t, empty.Decode(""))
	assert.Empty(t, empty)

	var invalid SecretList
	assert.Error(t, invalid.Decode("sentry-dsn"))
	assert.Error(t, invalid.Decode("sentry-dsn=sometimes"))
	assert.Error(t, invalid.Decode("=managed"))
}
