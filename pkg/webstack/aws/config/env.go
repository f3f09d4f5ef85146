// Package config provides an environment config helper
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// SecretSpec identifies an application secret by its Secrets Manager name.
// Managed secrets are provisioned elsewhere and injected by the platform;
// unmanaged secrets are referenced by name and injected as container secrets.
type SecretSpec struct {
	Name    string
	Managed bool
}

// SecretList parses a comma-separated list of "name=managed|unmanaged" entries.
type SecretList []SecretSpec

// Decode implements envconfig.Decoder.
func (s *SecretList) Decode(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var specs SecretList
	for _, entry := range strings.Split(value, ",") {
		name, mode, found := strings.Cut(strings.TrimSpace(entry), "=")
		if !found || name == "" {
			return fmt.Errorf("malformed secret entry %q, want name=managed|unmanaged", entry)
		}
		switch mode {
		case "managed":
			specs = append(specs, SecretSpec{Name: name, Managed: true})
		case "unmanaged":
			specs = append(specs, SecretSpec{Name: name, Managed: false})
		default:
			return fmt.Errorf("unknown secret mode %q for secret %q", mode, name)
		}
	}
	*s = specs

	return nil
}

// Config allows setting the web stack via environment variables
type Config struct {
	AWSAccount string `envconfig:"AWS_ACCOUNT" required:"true"`
	AWSRegion  string `envconfig:"AWS_REGION" required:"true"`

	// Prefix for all resource names. E.g.: "ocs-prod".
	Prefix string `envconfig:"RESOURCE_PREFIX" required:"true"`

	EcrRepoName string `envconfig:"ECR_REPO_NAME" required:"true"`
	ImageTag    string `envconfig:"IMAGE_TAG" default:"latest"`

	// Stack references to the external collaborator stacks
	NetworkStackRef  string `envconfig:"NETWORK_STACK_REF" required:"true"`
	DatabaseStackRef string `envconfig:"DATABASE_STACK_REF" required:"true"`
	CacheStackRef    string `envconfig:"CACHE_STACK_REF" required:"true"`
	DomainStackRef   string `envconfig:"DOMAIN_STACK_REF" required:"true"`

	S3PrivateBucketName   string `envconfig:"S3_PRIVATE_BUCKET_NAME" required:"true"`
	S3PublicBucketName    string `envconfig:"S3_PUBLIC_BUCKET_NAME" required:"true"`
	S3WhatsappAudioBucket string `envconfig:"S3_WHATSAPP_AUDIO_BUCKET" required:"true"`

	DatabaseName   string `envconfig:"DATABASE_NAME" required:"true"`
	SettingsModule string `envconfig:"SETTINGS_MODULE" default:"gpt_playground.settings_production"`
	AzureRegion    string `envconfig:"AZURE_REGION" default:""`

	PrivacyPolicyURL  string `envconfig:"PRIVACY_POLICY_URL" default:""`
	TermsURL          string `envconfig:"TERMS_URL" default:""`
	SignupEnabled     string `envconfig:"SIGNUP_ENABLED" default:"false"`
	SlackBotName      string `envconfig:"SLACK_BOT_NAME" default:""`
	TaskbadgerOrg     string `envconfig:"TASKBADGER_ORG" default:""`
	TaskbadgerProject string `envconfig:"TASKBADGER_PROJECT" default:""`

	// Name of the Secrets Manager secret holding the generated app secret key
	AppSecretKeyName string `envconfig:"APP_SECRET_KEY_NAME" default:"app-secret-key"`

	// Application secrets as "name=managed|unmanaged" entries.
	// E.g.: "sentry-dsn=unmanaged,openai-api-key=unmanaged"
	Secrets SecretList `envconfig:"SECRETS" default:""`
}

// LoadConfig loads configuration from environment variables
// All environment variables are required and will cause an error if not set
func LoadConfig() (*Config, error) {
	var config Config

	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment variables: %w", err)
	}

	log.Printf("Configuration loaded successfully:")
	log.Printf("  AWS Account: %s", config.AWSAccount)
	log.Printf("  AWS Region: %s", config.AWSRegion)
	log.Printf("  Resource Prefix: %s", config.Prefix)
	log.Printf("  ECR Repo Name: %s", config.EcrRepoName)
	log.Printf("  Image Tag: %s", config.ImageTag)
	log.Printf("  Private Bucket: %s", config.S3PrivateBucketName)
	log.Printf("  Public Bucket: %s", config.S3PublicBucketName)
	log.Printf("  Whatsapp Audio Bucket: %s", config.S3WhatsappAudioBucket)
	log.Printf("  Secrets: %d configured", len(config.Secrets))

	return &config, nil
}

// UnmanagedSecrets returns the subset of configured secrets that must be
// injected as container secret references.
func (c *Config) UnmanagedSecrets() []SecretSpec {
	var unmanaged []SecretSpec
	for _, secret := range c.Secrets {
		if secret.Managed {
			continue
		}
		unmanaged = append(unmanaged, secret)
	}

	return unmanaged
}
