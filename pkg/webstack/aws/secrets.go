package aws

import (
	"fmt"
	"strings"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/secretsmanager"
	"github.com/pulumi/pulumi-random/sdk/v4/go/random"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const appSecretKeyLength = 50

// deployAppSecret generates the application secret key and stores it in
// Secrets Manager for the containers to reference.
func (s *WebService) deployAppSecret(ctx *pulumi.Context, app *AppArgs) error {
	password, err := random.NewRandomPassword(ctx, newResourceName(s.prefix, "web", "secret-key-value", 255), &random.RandomPasswordArgs{
		Length:  pulumi.Int(appSecretKeyLength),
		Special: pulumi.Bool(false),
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	secret, err := secretsmanager.NewSecret(ctx, app.SecretKeyName, &secretsmanager.SecretArgs{
		Name:        pulumi.String(app.SecretKeyName),
		Description: pulumi.String(fmt.Sprintf("Generated secret key (%s)", s.prefix)),
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	version, err := secretsmanager.NewSecretVersion(ctx, app.SecretKeyName, &secretsmanager.SecretVersionArgs{
		SecretId:     secret.ID(),
		SecretString: password.Result,
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	s.appSecret = secret
	s.appSecretVersion = version

	return nil
}

// secretRefArn addresses an existing secret by name in the given account and region.
func secretRefArn(region, account, name string) string {
	return fmt.Sprintf("arn:aws:secretsmanager:%s:%s:secret:%s", region, account, name)
}

// newContainerSecrets assembles the secret references injected into both
// containers: database credentials by JSON key, the cache connection URL,
// the generated secret key, and one entry per unmanaged config secret,
// named by uppercasing the secret's configured name.
func newContainerSecrets(app *AppArgs, region, account, dbSecretArn, cacheSecretArn, appSecretArn string) []containerSecret {
	secrets := []containerSecret{
		{Name: "DJANGO_DATABASE_USER", ValueFrom: dbSecretArn + ":username::"},
		{Name: "DJANGO_DATABASE_PASSWORD", ValueFrom: dbSecretArn + ":password::"},
		{Name: "REDIS_URL", ValueFrom: cacheSecretArn},
		{Name: "SECRET_KEY", ValueFrom: appSecretArn},
	}

	for _, secret := range app.Secrets {
		if secret.Managed {
			// provisioned and delivered by another system
			continue
		}
		secrets = append(secrets, containerSecret{
			Name:      strings.ToUpper(secret.Name),
			ValueFrom: secretRefArn(region, account, secret.Name),
		})
	}

	return secrets
}
