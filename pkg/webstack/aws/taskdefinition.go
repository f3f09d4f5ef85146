package aws

import (
	"encoding/json"
	"strconv"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecs"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const (
	webContainerName       = "web"
	migrationContainerName = "migrate"

	// The web container starts only after the migration container has
	// exited zero. A non-zero exit fails the whole deployment.
	dependencyConditionSuccess = "SUCCESS"
)

type keyValuePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type containerSecret struct {
	Name      string `json:"name"`
	ValueFrom string `json:"valueFrom"`
}

type portMapping struct {
	ContainerPort int    `json:"containerPort"`
	Protocol      string `json:"protocol,omitempty"`
}

type containerDependency struct {
	ContainerName string `json:"containerName"`
	Condition     string `json:"condition"`
}

type logConfiguration struct {
	LogDriver string            `json:"logDriver"`
	Options   map[string]string `json:"options"`
}

type containerDefinition struct {
	Name             string                `json:"name"`
	Image            string                `json:"image"`
	Essential        bool                  `json:"essential"`
	Command          []string              `json:"command,omitempty"`
	PortMappings     []portMapping         `json:"portMappings,omitempty"`
	Environment      []keyValuePair        `json:"environment"`
	Secrets          []containerSecret     `json:"secrets"`
	DependsOn        []containerDependency `json:"dependsOn,omitempty"`
	LogConfiguration *logConfiguration     `json:"logConfiguration,omitempty"`
}

// deployTaskDefinition creates the Fargate task definition with two
// containers sharing image, environment and secrets: a one-shot migration
// container, and the web container gated on its successful completion.
func (s *WebService) deployTaskDefinition(ctx *pulumi.Context, args *WebServiceArgs) error {
	logGroupName := newResourceName(s.prefix, "web", "logs", 512)
	logGroup, err := cloudwatch.NewLogGroup(ctx, logGroupName, &cloudwatch.LogGroupArgs{
		Name: pulumi.Sprintf("/ecs/%s", logGroupName),
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	image := pulumi.Sprintf("%s:%s", args.Registry.RepositoryURL, args.ImageTag)

	containerDefinitions := pulumi.All(
		image,
		args.Database.Host,
		args.Database.Port,
		args.Database.CredentialsSecretArn,
		args.Cache.ConnectionSecretArn,
		s.appSecret.Arn,
		logGroup.Name,
	).ApplyT(func(vals []interface{}) (string, error) {
		imageURI := vals[0].(string)
		dbHost := vals[1].(string)
		dbPort := vals[2].(string)
		dbSecretArn := vals[3].(string)
		cacheSecretArn := vals[4].(string)
		appSecretArn := vals[5].(string)
		logGroup := vals[6].(string)

		environment := newContainerEnvironment(args.App, s.region, dbHost, dbPort, args.ContainerPort)
		secrets := newContainerSecrets(args.App, s.region, s.account, dbSecretArn, cacheSecretArn, appSecretArn)
		definitions := newContainerDefinitions(imageURI, args.ContainerPort, environment, secrets, logGroup, s.region, s.prefix)

		raw, err := json.Marshal(definitions)
		if err != nil {
			return "", err
		}

		return string(raw), nil
	}).(pulumi.StringOutput)

	family := newResourceName(s.prefix, "web", "task", 255)
	taskDefinition, err := ecs.NewTaskDefinition(ctx, family, &ecs.TaskDefinitionArgs{
		Family:      pulumi.String(family),
		Cpu:         pulumi.String(taskCPU),
		Memory:      pulumi.String(taskMemory),
		NetworkMode: pulumi.String("awsvpc"),
		RequiresCompatibilities: pulumi.StringArray{
			pulumi.String("FARGATE"),
		},
		ExecutionRoleArn:     s.executionRole.Arn,
		TaskRoleArn:          s.taskRole.Arn,
		ContainerDefinitions: containerDefinitions,
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	s.appLogGroup = logGroup
	s.taskDefinition = taskDefinition

	return nil
}

// newContainerDefinitions builds the two-container list. Only the web
// container is essential; the migration container runs first and gates it.
func newContainerDefinitions(imageURI string, containerPort int, environment []keyValuePair, secrets []containerSecret, logGroup, region, streamPrefix string) []containerDefinition {
	logging := &logConfiguration{
		LogDriver: "awslogs",
		Options: map[string]string{
			"awslogs-group":         logGroup,
			"awslogs-region":        region,
			"awslogs-stream-prefix": streamPrefix,
		},
	}

	return []containerDefinition{
		{
			Name:             migrationContainerName,
			Image:            imageURI,
			Essential:        false,
			Command:          []string{"python", "manage.py", "migrate"},
			Environment:      environment,
			Secrets:          secrets,
			LogConfiguration: logging,
		},
		{
			Name:      webContainerName,
			Image:     imageURI,
			Essential: true,
			PortMappings: []portMapping{
				{ContainerPort: containerPort, Protocol: "tcp"},
			},
			Environment: environment,
			Secrets:     secrets,
			DependsOn: []containerDependency{
				{ContainerName: migrationContainerName, Condition: dependencyConditionSuccess},
			},
			LogConfiguration: logging,
		},
	}
}

// newContainerEnvironment assembles the plain key/value environment shared
// by both containers.
func newContainerEnvironment(app *AppArgs, region, dbHost, dbPort string, containerPort int) []keyValuePair {
	environment := []keyValuePair{
		{Name: "ACCOUNT_EMAIL_VERIFICATION", Value: "mandatory"},
		{Name: "AWS_PRIVATE_STORAGE_BUCKET_NAME", Value: app.PrivateBucketName},
		{Name: "AWS_PUBLIC_STORAGE_BUCKET_NAME", Value: app.PublicBucketName},
		{Name: "AWS_S3_REGION", Value: region},
		{Name: "AZURE_REGION", Value: app.AzureRegion},
		{Name: "DJANGO_DATABASE_NAME", Value: app.DatabaseName},
		{Name: "DJANGO_DATABASE_HOST", Value: dbHost},
		{Name: "DJANGO_DATABASE_PORT", Value: dbPort},
		{Name: "DJANGO_EMAIL_BACKEND", Value: "anymail.backends.amazon_ses.EmailBackend"},
		// SSL redirect is handled by the load balancer
		{Name: "DJANGO_SECURE_SSL_REDIRECT", Value: "false"},
		{Name: "DJANGO_SETTINGS_MODULE", Value: app.SettingsModule},
		{Name: "PORT", Value: strconv.Itoa(containerPort)},
		{Name: "PRIVACY_POLICY_URL", Value: app.PrivacyPolicyURL},
		{Name: "TERMS_URL", Value: app.TermsURL},
		{Name: "SIGNUP_ENABLED", Value: app.SignupEnabled},
		{Name: "SLACK_BOT_NAME", Value: app.SlackBotName},
		{Name: "USE_S3_STORAGE", Value: "True"},
		{Name: "WHATSAPP_S3_AUDIO_BUCKET", Value: app.WhatsappAudioBucket},
		{Name: "TASKBADGER_ORG", Value: app.TaskbadgerOrg},
		{Name: "TASKBADGER_PROJECT", Value: app.TaskbadgerProject},
	}

	for name, value := range app.EnvVars {
		environment = append(environment, keyValuePair{Name: name, Value: value})
	}

	return environment
}
