package aws

import (
	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type mocks int

func (mocks) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	return args.Name + "_id", args.Inputs, nil
}

func (mocks) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	return args.Args, nil
}

func newTestWebServiceArgs() *WebServiceArgs {
	return &WebServiceArgs{
		Account: "123456789012",
		Region:  "us-east-1",
		Network: &NetworkRef{
			VpcID: pulumi.String("vpc-123"),
			PublicSubnetIDs: pulumi.StringArray{
				pulumi.String("subnet-1"),
				pulumi.String("subnet-2"),
			},
		},
		Registry: &RegistryRef{
			RepositoryURL: pulumi.String("123456789012.dkr.ecr.us-east-1.amazonaws.com/app"),
		},
		Database: &DatabaseRef{
			Host:                 pulumi.String("db.internal"),
			Port:                 pulumi.String("5432"),
			CredentialsSecretArn: pulumi.String("arn:aws:secretsmanager:us-east-1:123456789012:secret:db-credentials"),
		},
		Cache: &CacheRef{
			ConnectionSecretArn: pulumi.String("arn:aws:secretsmanager:us-east-1:123456789012:secret:redis-url"),
		},
		Domain: &DomainRef{
			CertificateArn: pulumi.String("arn:aws:acm:us-east-1:123456789012:certificate/abc"),
		},
		App: &AppArgs{
			PrivateBucketName:   "private-bucket",
			PublicBucketName:    "public-bucket",
			WhatsappAudioBucket: "audio-bucket",
			DatabaseName:        "appdb",
			Secrets: []SecretRef{
				{Name: "sentry-dsn", Managed: false},
				{Name: "platform-key", Managed: true},
			},
		},
	}
}
