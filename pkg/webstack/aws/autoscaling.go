package aws

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/appautoscaling"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const (
	// Task count bounds. The service's desired count must stay within them.
	minTaskCount = 1
	maxTaskCount = 2

	cpuTargetUtilizationPercent = 70
	scaleCooldownSeconds        = 60
)

// deployAutoscaling bounds the service task count and scales it on average
// CPU utilization.
func (s *WebService) deployAutoscaling(ctx *pulumi.Context) error {
	target, err := appautoscaling.NewTarget(ctx, newResourceName(s.prefix, "web", "scaling-target", 255), &appautoscaling.TargetArgs{
		MinCapacity:       pulumi.Int(minTaskCount),
		MaxCapacity:       pulumi.Int(maxTaskCount),
		ResourceId:        pulumi.Sprintf("service/%s/%s", s.cluster.Name, s.service.Name),
		ScalableDimension: pulumi.String("ecs:service:DesiredCount"),
		ServiceNamespace:  pulumi.String("ecs"),
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	policy, err := appautoscaling.NewPolicy(ctx, newResourceName(s.prefix, "web", "cpu-scaling", 255), &appautoscaling.PolicyArgs{
		PolicyType:        pulumi.String("TargetTrackingScaling"),
		ResourceId:        target.ResourceId,
		ScalableDimension: target.ScalableDimension,
		ServiceNamespace:  target.ServiceNamespace,
		TargetTrackingScalingPolicyConfiguration: &appautoscaling.PolicyTargetTrackingScalingPolicyConfigurationArgs{
			TargetValue: pulumi.Float64(cpuTargetUtilizationPercent),
			PredefinedMetricSpecification: &appautoscaling.PolicyTargetTrackingScalingPolicyConfigurationPredefinedMetricSpecificationArgs{
				PredefinedMetricType: pulumi.String("ECSServiceAverageCPUUtilization"),
			},
			ScaleInCooldown:  pulumi.Int(scaleCooldownSeconds),
			ScaleOutCooldown: pulumi.Int(scaleCooldownSeconds),
		},
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	s.scalingTarget = target
	s.scalingPolicy = policy

	return nil
}
