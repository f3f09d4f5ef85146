package aws

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// RegistryArgs contains configuration arguments for creating a Registry instance.
type RegistryArgs struct {
	// Name of the image repository. Required.
	RepositoryName string
	// Whether to delete the repository and its images on stack destroy. Defaults to false.
	ForceDelete bool
	Tags        map[string]string
}

// NetworkRef holds outputs consumed from the networking stack.
type NetworkRef struct {
	VpcID pulumi.StringInput
	// Subnets for the load balancer and the service tasks.
	PublicSubnetIDs pulumi.StringArrayInput
}

// DatabaseRef holds outputs consumed from the database stack.
type DatabaseRef struct {
	Host pulumi.StringInput
	Port pulumi.StringInput
	// Secrets Manager secret with "username" and "password" keys.
	CredentialsSecretArn pulumi.StringInput
}

// CacheRef holds outputs consumed from the cache stack.
type CacheRef struct {
	// Secrets Manager secret holding the cache connection URL.
	ConnectionSecretArn pulumi.StringInput
}

// DomainRef holds outputs consumed from the domain and certificate stack.
type DomainRef struct {
	CertificateArn pulumi.StringInput
}

// RegistryRef holds outputs consumed from the registry declaration.
type RegistryRef struct {
	RepositoryURL pulumi.StringInput
}

// SecretRef names an application secret in Secrets Manager. Managed secrets
// are provisioned by another system; unmanaged ones are injected into the
// containers as secret references named by uppercasing Name.
type SecretRef struct {
	Name    string
	Managed bool
}

// AppArgs contains the application configuration bundle: plain environment
// values, bucket names and secret references assembled into the containers.
type AppArgs struct {
	// Buckets the task role gets read/write/delete access to. Required.
	PrivateBucketName   string
	PublicBucketName    string
	WhatsappAudioBucket string

	DatabaseName string
	// Settings module the web app boots with.
	SettingsModule string
	AzureRegion    string

	PrivacyPolicyURL  string
	TermsURL          string
	SignupEnabled     string
	SlackBotName      string
	TaskbadgerOrg     string
	TaskbadgerProject string

	// Extra plain key/value environment variables. Optional.
	EnvVars map[string]string

	// Name for the generated application secret key. Defaults to "app-secret-key".
	SecretKeyName string
	// Application secrets flagged managed/unmanaged.
	Secrets []SecretRef
}

// WebServiceArgs contains configuration arguments for creating a WebService instance.
type WebServiceArgs struct {
	// AWS account and region the task secrets are addressed in. Required.
	Account string
	Region  string

	Network  *NetworkRef
	Registry *RegistryRef
	Database *DatabaseRef
	Cache    *CacheRef
	Domain   *DomainRef

	App *AppArgs

	// Image tag to deploy from the registry. Defaults to "latest".
	ImageTag string
	// Port the web container listens on. Defaults to 8000.
	ContainerPort int
	// Load balancer health check path. Defaults to "/".
	HealthCheckPath string

	Tags map[string]string
}

// FirewallArgs contains configuration arguments for creating a Firewall instance.
type FirewallArgs struct {
	// ARN of the load balancer the web ACL is associated with. Required.
	LoadBalancerArn pulumi.StringInput
	Tags            map[string]string
}
