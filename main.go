// Package main provides the entry point for the Pulumi AWS web stack application.
package main

import (
	"log"

	"github.com/davidmontoyago/pulumi-aws-webstack/pkg/webstack/aws"
	"github.com/davidmontoyago/pulumi-aws-webstack/pkg/webstack/aws/config"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// Load config helper
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		// Collaborator stacks deployed separately
		networkStack, err := pulumi.NewStackReference(ctx, cfg.NetworkStackRef, nil)
		if err != nil {
			return err
		}
		databaseStack, err := pulumi.NewStackReference(ctx, cfg.DatabaseStackRef, nil)
		if err != nil {
			return err
		}
		cacheStack, err := pulumi.NewStackReference(ctx, cfg.CacheStackRef, nil)
		if err != nil {
			return err
		}
		domainStack, err := pulumi.NewStackReference(ctx, cfg.DomainStackRef, nil)
		if err != nil {
			return err
		}

		registry, err := aws.NewRegistry(ctx, cfg.Prefix, &aws.RegistryArgs{
			RepositoryName: cfg.EcrRepoName,
			ForceDelete:    true,
			Tags: map[string]string{
				"managed-by": "pulumi",
			},
		})
		if err != nil {
			return err
		}

		secrets := make([]aws.SecretRef, 0, len(cfg.Secrets))
		for _, secret := range cfg.Secrets {
			secrets = append(secrets, aws.SecretRef{
				Name:    secret.Name,
				Managed: secret.Managed,
			})
		}

		webService, err := aws.NewWebService(ctx, cfg.Prefix, &aws.WebServiceArgs{
			Account: cfg.AWSAccount,
			Region:  cfg.AWSRegion,
			Network: &aws.NetworkRef{
				VpcID:           networkStack.GetStringOutput(pulumi.String("vpc_id")),
				PublicSubnetIDs: toStringArray(networkStack.GetOutput(pulumi.String("public_subnet_ids"))),
			},
			Registry: &aws.RegistryRef{
				RepositoryURL: registry.GetRepository().RepositoryUrl,
			},
			Database: &aws.DatabaseRef{
				Host:                 databaseStack.GetStringOutput(pulumi.String("db_instance_host")),
				Port:                 databaseStack.GetStringOutput(pulumi.String("db_instance_port")),
				CredentialsSecretArn: databaseStack.GetStringOutput(pulumi.String("db_credentials_secret_arn")),
			},
			Cache: &aws.CacheRef{
				ConnectionSecretArn: cacheStack.GetStringOutput(pulumi.String("redis_url_secret_arn")),
			},
			Domain: &aws.DomainRef{
				CertificateArn: domainStack.GetStringOutput(pulumi.String("certificate_arn")),
			},
			App: &aws.AppArgs{
				PrivateBucketName:   cfg.S3PrivateBucketName,
				PublicBucketName:    cfg.S3PublicBucketName,
				WhatsappAudioBucket: cfg.S3WhatsappAudioBucket,
				DatabaseName:        cfg.DatabaseName,
				SettingsModule:      cfg.SettingsModule,
				AzureRegion:         cfg.AzureRegion,
				PrivacyPolicyURL:    cfg.PrivacyPolicyURL,
				TermsURL:            cfg.TermsURL,
				SignupEnabled:       cfg.SignupEnabled,
				SlackBotName:        cfg.SlackBotName,
				TaskbadgerOrg:       cfg.TaskbadgerOrg,
				TaskbadgerProject:   cfg.TaskbadgerProject,
				SecretKeyName:       cfg.AppSecretKeyName,
				Secrets:             secrets,
			},
			ImageTag: cfg.ImageTag,
			Tags: map[string]string{
				"environment": "production",
				"managed-by":  "pulumi",
			},
		})
		if err != nil {
			return err
		}

		_, err = aws.NewFirewall(ctx, cfg.Prefix, &aws.FirewallArgs{
			LoadBalancerArn: webService.GetLoadBalancer().Arn,
			Tags: map[string]string{
				"managed-by": "pulumi",
			},
		})
		if err != nil {
			return err
		}

		log.Println("Web stack deployment loaded and ready!")

		return nil
	})
}

func toStringArray(output pulumi.AnyOutput) pulumi.StringArrayOutput {
	return output.ApplyT(func(v interface{}) []string {
		values, ok := v.([]interface{})
		if !ok {
			return nil
		}
		converted := make([]string, 0, len(values))
		for _, value := range values {
			if s, ok := value.(string); ok {
				converted = append(converted, s)
			}
		}

		return converted
	}).(pulumi.StringArrayOutput)
}
