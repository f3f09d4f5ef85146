package aws

import (
	"encoding/json"
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const ecsTasksAssumeRolePolicy = `{
	"Version": "2012-10-17",
	"Statement": [
		{
			"Effect": "Allow",
			"Principal": {"Service": "ecs-tasks.amazonaws.com"},
			"Action": "sts:AssumeRole"
		}
	]
}`

const ecsTaskExecutionManagedPolicyArn = "arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy"

type policyStatement struct {
	Effect     string            `json:"Effect"`
	Principals map[string]string `json:"Principal,omitempty"`
	Actions    []string          `json:"Action"`
	Resources  []string          `json:"Resource"`
}

type policyDocument struct {
	Version    string            `json:"Version"`
	Statements []policyStatement `json:"Statement"`
}

func (s *WebService) deployTaskRoles(ctx *pulumi.Context, app *AppArgs) error {
	executionRole, err := s.newExecutionRole(ctx)
	if err != nil {
		return err
	}

	taskRole, err := s.newTaskRole(ctx, app)
	if err != nil {
		return err
	}

	s.executionRole = executionRole
	s.taskRole = taskRole

	return nil
}

// newExecutionRole creates the task execution role: pull images from the
// registry and write container logs.
func (s *WebService) newExecutionRole(ctx *pulumi.Context) (*iam.Role, error) {
	roleName := newResourceName(s.prefix, "web", "execution-role", 64)
	role, err := iam.NewRole(ctx, roleName, &iam.RoleArgs{
		Name:             pulumi.String(roleName),
		AssumeRolePolicy: pulumi.String(ecsTasksAssumeRolePolicy),
	}, pulumi.Parent(s))
	if err != nil {
		return nil, err
	}

	_, err = iam.NewRolePolicyAttachment(ctx, newResourceName(s.prefix, "web", "execution-managed", 255), &iam.RolePolicyAttachmentArgs{
		Role:      role.Name,
		PolicyArn: pulumi.String(ecsTaskExecutionManagedPolicyArn),
	}, pulumi.Parent(s))
	if err != nil {
		return nil, err
	}

	pullPolicy, err := json.Marshal(policyDocument{
		Version: "2012-10-17",
		Statements: []policyStatement{
			{
				Effect: "Allow",
				Actions: []string{
					"ecr:GetAuthorizationToken",
					"ecr:BatchCheckLayerAvailability",
					"ecr:GetDownloadUrlForLayer",
					"ecr:BatchGetImage",
					"logs:CreateLogStream",
					"logs:PutLogEvents",
				},
				Resources: []string{"*"},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render image pull policy: %w", err)
	}

	_, err = iam.NewRolePolicy(ctx, newResourceName(s.prefix, "web", "execution-pull", 255), &iam.RolePolicyArgs{
		Role:   role.Name,
		Policy: pulumi.String(pullPolicy),
	}, pulumi.Parent(s))
	if err != nil {
		return nil, err
	}

	return role, nil
}

// newTaskRole creates the role used by the containers, with read/write/delete
// access to the configured storage buckets.
func (s *WebService) newTaskRole(ctx *pulumi.Context, app *AppArgs) (*iam.Role, error) {
	roleName := newResourceName(s.prefix, "web", "task-role", 64)
	role, err := iam.NewRole(ctx, roleName, &iam.RoleArgs{
		Name:             pulumi.String(roleName),
		AssumeRolePolicy: pulumi.String(ecsTasksAssumeRolePolicy),
	}, pulumi.Parent(s))
	if err != nil {
		return nil, err
	}

	storagePolicy, err := newBucketObjectsPolicy([]string{
		app.PrivateBucketName,
		app.PublicBucketName,
		app.WhatsappAudioBucket,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render bucket objects policy: %w", err)
	}

	_, err = iam.NewRolePolicy(ctx, newResourceName(s.prefix, "web", "task-storage", 255), &iam.RolePolicyArgs{
		Role:   role.Name,
		Policy: pulumi.String(storagePolicy),
	}, pulumi.Parent(s))
	if err != nil {
		return nil, err
	}

	return role, nil
}

// newBucketObjectsPolicy grants object read/write/delete on each bucket,
// one resource ARN per bucket.
func newBucketObjectsPolicy(buckets []string) (string, error) {
	resources := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		if bucket == "" {
			continue
		}
		resources = append(resources, fmt.Sprintf("arn:aws:s3:::%s/*", bucket))
	}

	document, err := json.Marshal(policyDocument{
		Version: "2012-10-17",
		Statements: []policyStatement{
			{
				Effect: "Allow",
				Actions: []string{
					"s3:PutObject",
					"s3:GetObjectAcl",
					"s3:GetObject",
					"s3:ListBucket",
					"s3:DeleteObject",
					"s3:PutObjectAcl",
					"s3:GetBucketAcl",
				},
				Resources: resources,
			},
		},
	})
	if err != nil {
		return "", err
	}

	return string(document), nil
}
