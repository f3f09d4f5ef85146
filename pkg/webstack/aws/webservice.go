package aws

import (
	"fmt"
	"log"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const (
	defaultContainerPort   = 8000
	defaultHealthCheckPath = "/"
	defaultImageTag        = "latest"
	defaultSecretKeyName   = "app-secret-key"

	// Fixed Fargate sizing, in CPU units and MiB
	taskCPU    = "256"
	taskMemory = "512"
)

// NewWebService creates a cluster and a load-balanced Fargate service whose
// task runs a migration container to successful completion before the web
// container is allowed to start.
func NewWebService(ctx *pulumi.Context, name string, args *WebServiceArgs, opts ...pulumi.ResourceOption) (*WebService, error) {
	if err := validateWebServiceArgs(args); err != nil {
		return nil, err
	}
	applyWebServiceDefaults(args)

	s := &WebService{
		prefix:  name,
		region:  args.Region,
		account: args.Account,
	}
	err := ctx.RegisterComponentResource("pulumi-webstack:aws:WebService", name, s, opts...)
	if err != nil {
		return nil, err
	}

	err = s.deploy(ctx, args)
	if err != nil {
		return nil, err
	}

	err = ctx.RegisterResourceOutputs(s, pulumi.Map{})
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *WebService) deploy(ctx *pulumi.Context, args *WebServiceArgs) error {
	if err := ctx.Log.Debug("Deploying web service with config: %v", &pulumi.LogArgs{
		Resource: s,
	}); err != nil {
		log.Printf("failed to log web service deployment with pulumi context: %v", err)
	}

	if err := s.deployIngressSecurityGroups(ctx, args); err != nil {
		return fmt.Errorf("failed to create ingress security groups: %w", err)
	}

	if err := s.deployCluster(ctx, args); err != nil {
		return fmt.Errorf("failed to create cluster: %w", err)
	}

	if err := s.deployLoadBalancer(ctx, args); err != nil {
		return fmt.Errorf("failed to create load balancer: %w", err)
	}

	if err := s.deployTaskRoles(ctx, args.App); err != nil {
		return fmt.Errorf("failed to create task roles: %w", err)
	}

	if err := s.deployAppSecret(ctx, args.App); err != nil {
		return fmt.Errorf("failed to create app secret: %w", err)
	}

	if err := s.deployTaskDefinition(ctx, args); err != nil {
		return fmt.Errorf("failed to create task definition: %w", err)
	}

	if err := s.deployFargateService(ctx, args); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := s.deployAutoscaling(ctx); err != nil {
		return fmt.Errorf("failed to create autoscaling policy: %w", err)
	}

	ctx.Export("web_service_cluster_name", s.cluster.Name)
	ctx.Export("web_service_name", s.service.Name)
	ctx.Export("web_service_load_balancer_dns", s.loadBalancer.DnsName)

	return nil
}

func validateWebServiceArgs(args *WebServiceArgs) error {
	if args == nil {
		return fmt.Errorf("web service requires args")
	}
	if args.Account == "" || args.Region == "" {
		return fmt.Errorf("web service requires an account and a region")
	}
	if args.Network == nil || args.Network.VpcID == nil || args.Network.PublicSubnetIDs == nil {
		return fmt.Errorf("web service requires a network reference")
	}
	if args.Registry == nil || args.Registry.RepositoryURL == nil {
		return fmt.Errorf("web service requires a registry reference")
	}
	if args.Database == nil || args.Database.CredentialsSecretArn == nil {
		return fmt.Errorf("web service requires a database reference")
	}
	if args.Cache == nil || args.Cache.ConnectionSecretArn == nil {
		return fmt.Errorf("web service requires a cache reference")
	}
	if args.Domain == nil || args.Domain.CertificateArn == nil {
		return fmt.Errorf("web service requires a certificate reference")
	}
	if args.App == nil {
		return fmt.Errorf("web service requires an app config bundle")
	}

	return nil
}

func applyWebServiceDefaults(args *WebServiceArgs) {
	if args.ContainerPort == 0 {
		args.ContainerPort = defaultContainerPort
	}
	if args.HealthCheckPath == "" {
		args.HealthCheckPath = defaultHealthCheckPath
	}
	if args.ImageTag == "" {
		args.ImageTag = defaultImageTag
	}
	if args.App.SecretKeyName == "" {
		args.App.SecretKeyName = defaultSecretKeyName
	}
}
