package aws

import (
	"encoding/json"
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecr"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type lifecycleRuleSelection struct {
	TagStatus   string `json:"tagStatus"`
	CountType   string `json:"countType"`
	CountUnit   string `json:"countUnit,omitempty"`
	CountNumber int    `json:"countNumber"`
}

type lifecycleRuleAction struct {
	Type string `json:"type"`
}

type lifecycleRule struct {
	RulePriority int                    `json:"rulePriority"`
	Description  string                 `json:"description"`
	Selection    lifecycleRuleSelection `json:"selection"`
	Action       lifecycleRuleAction    `json:"action"`
}

type lifecyclePolicy struct {
	Rules []lifecycleRule `json:"rules"`
}

// NewRegistry creates a container image registry with two retention rules:
// untagged images are expired after 7 days, and at most 4 images are kept
// regardless of tag status.
func NewRegistry(ctx *pulumi.Context, name string, args *RegistryArgs, opts ...pulumi.ResourceOption) (*Registry, error) {
	if args == nil || args.RepositoryName == "" {
		return nil, fmt.Errorf("registry requires a repository name")
	}

	r := &Registry{
		prefix: name,
	}
	err := ctx.RegisterComponentResource("pulumi-webstack:aws:Registry", name, r, opts...)
	if err != nil {
		return nil, err
	}

	err = r.deploy(ctx, args)
	if err != nil {
		return nil, err
	}

	err = ctx.RegisterResourceOutputs(r, pulumi.Map{})
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) deploy(ctx *pulumi.Context, args *RegistryArgs) error {
	repoName := newResourceName(r.prefix, "images", "repo", 256)
	repository, err := ecr.NewRepository(ctx, repoName, &ecr.RepositoryArgs{
		Name:        pulumi.String(args.RepositoryName),
		ForceDelete: pulumi.Bool(args.ForceDelete),
		Tags: mergeTags(map[string]string{
			"registry": "true",
		}, toStringMap(args.Tags)),
	}, pulumi.Parent(r))
	if err != nil {
		return fmt.Errorf("failed to create image repository: %w", err)
	}

	policyDocument, err := newRetentionPolicyDocument()
	if err != nil {
		return fmt.Errorf("failed to render retention policy: %w", err)
	}

	lifecycle, err := ecr.NewLifecyclePolicy(ctx, newResourceName(r.prefix, "images", "retention", 256), &ecr.LifecyclePolicyArgs{
		Repository: repository.Name,
		Policy:     pulumi.String(policyDocument),
	}, pulumi.Parent(r))
	if err != nil {
		return fmt.Errorf("failed to create retention policy: %w", err)
	}

	r.repository = repository
	r.lifecyclePolicy = lifecycle

	ctx.Export("ecr_repository_arn", repository.Arn)
	ctx.Export("ecr_repository_url", repository.RepositoryUrl)

	return nil
}

// newRetentionPolicyDocument renders the repository's two retention rules.
func newRetentionPolicyDocument() (string, error) {
	policy := lifecyclePolicy{
		Rules: []lifecycleRule{
			{
				RulePriority: 1,
				Description:  "Expire untagged images older than 7 days",
				Selection: lifecycleRuleSelection{
					TagStatus:   "untagged",
					CountType:   "sinceImagePushed",
					CountUnit:   "days",
					CountNumber: 7,
				},
				Action: lifecycleRuleAction{Type: "expire"},
			},
			{
				RulePriority: 2,
				Description:  "Keep at most 4 images",
				Selection: lifecycleRuleSelection{
					TagStatus:   "any",
					CountType:   "imageCountMoreThan",
					CountNumber: 4,
				},
				Action: lifecycleRuleAction{Type: "expire"},
			},
		},
	}

	document, err := json.Marshal(policy)
	if err != nil {
		return "", err
	}

	return string(document), nil
}
