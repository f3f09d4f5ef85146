package aws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetentionPolicyHasExactlyTwoRules(t *testing.T) {
	document, err := newRetentionPolicyDocument()
	require.NoError(t, err)

	var policy lifecyclePolicy
	require.NoError(t, json.Unmarshal([]byte(document), &policy))

	require.Len(t, policy.Rules, 2)

	untagged := policy.Rules[0]
	assert.Equal(t, 1, untagged.RulePriority)
	assert.Equal(t, "untagged", untagged.Selection.TagStatus)
	assert.Equal(t, "sinceImagePushed", untagged.Selection.CountType)
	assert.Equal(t, "days", untagged.Selection.CountUnit)
	assert.Equal(t, 7, untagged.Selection.CountNumber)
	assert.Equal(t, "expire", untagged.Action.Type)

	capped := policy.Rules[1]
	assert.Equal(t, 2, capped.RulePriority)
	assert.Equal(t, "any", capped.Selection.TagStatus)
	assert.Equal(t, "imageCountMoreThan", capped.Selection.CountType)
	assert.Equal(t, 4, capped.Selection.CountNumber)
	assert.Equal(t, "expire", capped.Action.Type)
}

func TestRegistryRequiresRepositoryName(t *testing.T) {
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		_, err := NewRegistry(ctx, "test", &RegistryArgs{})
		assert.Error(t, err)

		return nil
	}, pulumi.WithMocks("project", "stack", mocks(0)))
	assert.NoError(t, err)
}

func TestRegistryCreatesRepositoryWithRetentionPolicy(t *testing.T) {
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		registry, err := NewRegistry(ctx, "test", &RegistryArgs{
			RepositoryName: "app-images",
			ForceDelete:    true,
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)

		registry.GetRepository().Name.ApplyT(func(name string) error {
			defer wg.Done()
			assert.Equal(t, "app-images", name)

			return nil
		})

		registry.GetLifecyclePolicy().Policy.ApplyT(func(document string) error {
			defer wg.Done()

			var policy lifecyclePolicy
			assert.NoError(t, json.Unmarshal([]byte(document), &policy))
			assert.Len(t, policy.Rules, 2)

			return nil
		})

		wg.Wait()

		return nil
	}, pulumi.WithMocks("project", "stack", mocks(0)))
	assert.NoError(t, err)
}
