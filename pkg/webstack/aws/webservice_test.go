package aws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebServiceRequiresCollaboratorReferences(t *testing.T) {
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		_, err := NewWebService(ctx, "test", nil)
		assert.Error(t, err)

		args := newTestWebServiceArgs()
		args.Database = nil
		_, err = NewWebService(ctx, "test", args)
		assert.Error(t, err)

		args = newTestWebServiceArgs()
		args.Domain = nil
		_, err = NewWebService(ctx, "test", args)
		assert.Error(t, err)

		return nil
	}, pulumi.WithMocks("project", "stack", mocks(0)))
	assert.NoError(t, err)
}

// task count bounds always satisfy min <= desired <= max
func TestAutoscalingBoundsContainDesiredCount(t *testing.T) {
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		service, err := NewWebService(ctx, "test", newTestWebServiceArgs())
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(1)

		pulumi.All(
			service.GetScalingTarget().MinCapacity,
			service.GetScalingTarget().MaxCapacity,
			service.GetService().DesiredCount,
		).ApplyT(func(vals []interface{}) error {
			defer wg.Done()

			minCapacity := vals[0].(int)
			maxCapacity := vals[1].(int)
			desired := vals[2].(*int)

			require.NotNil(t, desired)
			assert.Equal(t, 1, minCapacity)
			assert.Equal(t, 2, maxCapacity)
			assert.LessOrEqual(t, minCapacity, *desired)
			assert.LessOrEqual(t, *desired, maxCapacity)

			return nil
		})

		wg.Wait()

		return nil
	}, pulumi.WithMocks("project", "stack", mocks(0)))
	assert.NoError(t, err)
}

func TestScalingPolicyTracksCPUUtilization(t *testing.T) {
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		service, err := NewWebService(ctx, "test", newTestWebServiceArgs())
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(1)

		service.GetScalingPolicy().TargetTrackingScalingPolicyConfiguration.ApplyT(func(config interface{}) error {
			defer wg.Done()

			assert.NotNil(t, config)

			return nil
		})

		wg.Wait()

		return nil
	}, pulumi.WithMocks("project", "stack", mocks(0)))
	assert.NoError(t, err)
}

func TestTaskDefinitionTemplateShape(t *testing.T) {
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		service, err := NewWebService(ctx, "test", newTestWebServiceArgs())
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)

		pulumi.All(
			service.GetTaskDefinition().Cpu,
			service.GetTaskDefinition().Memory,
		).ApplyT(func(vals []interface{}) error {
			defer wg.Done()

			cpu := vals[0].(*string)
			memory := vals[1].(*string)

			require.NotNil(t, cpu)
			require.NotNil(t, memory)
			assert.Equal(t, "256", *cpu)
			assert.Equal(t, "512", *memory)

			return nil
		})

		service.GetTaskDefinition().ContainerDefinitions.ApplyT(func(document string) error {
			defer wg.Done()

			var definitions []containerDefinition
			require.NoError(t, json.Unmarshal([]byte(document), &definitions))

			require.Len(t, definitions, 2)
			assert.Equal(t, migrationContainerName, definitions[0].Name)
			assert.False(t, definitions[0].Essential)
			assert.Equal(t, webContainerName, definitions[1].Name)
			assert.True(t, definitions[1].Essential)

			require.Len(t, definitions[1].DependsOn, 1)
			assert.Equal(t, dependencyConditionSuccess, definitions[1].DependsOn[0].Condition)

			// one uppercased secret reference per unmanaged config secret
			var unmanagedRefs []string
			for _, secret := range definitions[1].Secrets {
				if secret.Name == "SENTRY-DSN" {
					unmanagedRefs = append(unmanagedRefs, secret.ValueFrom)
				}
				assert.NotEqual(t, "PLATFORM-KEY", secret.Name)
			}
			assert.Len(t, unmanagedRefs, 1)

			return nil
		})

		wg.Wait()

		return nil
	}, pulumi.WithMocks("project", "stack", mocks(0)))
	assert.NoError(t, err)
}

func TestWebServiceWiresLoadBalancerToWebContainer(t *testing.T) {
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		service, err := NewWebService(ctx, "test", newTestWebServiceArgs())
		require.NoError(t, err)

		assert.NotNil(t, service.GetHTTPSecurityGroup())
		assert.NotNil(t, service.GetHTTPSSecurityGroup())
		assert.NotNil(t, service.GetTargetGroup())

		var wg sync.WaitGroup
		wg.Add(1)

		service.GetService().LoadBalancers.ApplyT(func(v interface{}) error {
			defer wg.Done()

			assert.NotNil(t, v)

			return nil
		})

		wg.Wait()

		return nil
	}, pulumi.WithMocks("project", "stack", mocks(0)))
	assert.NoError(t, err)
}
