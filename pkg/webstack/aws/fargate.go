package aws

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecs"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

func (s *WebService) deployCluster(ctx *pulumi.Context, args *WebServiceArgs) error {
	clusterName := newResourceName(s.prefix, "web", "cluster", 255)
	cluster, err := ecs.NewCluster(ctx, clusterName, &ecs.ClusterArgs{
		Name: pulumi.String(clusterName),
		Settings: ecs.ClusterSettingArray{
			&ecs.ClusterSettingArgs{
				Name:  pulumi.String("containerInsights"),
				Value: pulumi.String("enabled"),
			},
		},
		Tags: mergeTags(map[string]string{
			"web": "true",
		}, toStringMap(args.Tags)),
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	s.cluster = cluster

	return nil
}

func (s *WebService) deployFargateService(ctx *pulumi.Context, args *WebServiceArgs) error {
	serviceName := newResourceName(s.prefix, "web", "service", 255)
	service, err := ecs.NewService(ctx, serviceName, &ecs.ServiceArgs{
		Name:           pulumi.String(serviceName),
		Cluster:        s.cluster.Arn,
		TaskDefinition: s.taskDefinition.Arn,
		DesiredCount:   pulumi.Int(1),
		LaunchType:     pulumi.String("FARGATE"),
		NetworkConfiguration: &ecs.ServiceNetworkConfigurationArgs{
			AssignPublicIp: pulumi.Bool(true),
			Subnets:        args.Network.PublicSubnetIDs,
			SecurityGroups: pulumi.StringArray{
				s.httpSecurityGroup.ID().ToStringOutput(),
				s.httpsSecurityGroup.ID().ToStringOutput(),
			},
		},
		LoadBalancers: ecs.ServiceLoadBalancerArray{
			&ecs.ServiceLoadBalancerArgs{
				TargetGroupArn: s.targetGroup.Arn,
				ContainerName:  pulumi.String(webContainerName),
				ContainerPort:  pulumi.Int(args.ContainerPort),
			},
		},
		Tags: mergeTags(map[string]string{
			"web": "true",
		}, toStringMap(args.Tags)),
		// the target group must be attached to the load balancer before
		// the service can register tasks with it
	}, pulumi.Parent(s), pulumi.DependsOn([]pulumi.Resource{s.tlsListener}))
	if err != nil {
		return err
	}

	s.service = service

	return nil
}
