// Package aws provides AWS infrastructure components for load-balanced container applications.
package aws

import (
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/appautoscaling"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecr"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ecs"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/lb"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/secretsmanager"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/wafv2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// Registry represents a container image registry with image retention rules.
type Registry struct {
	pulumi.ResourceState

	prefix string

	repository      *ecr.Repository
	lifecyclePolicy *ecr.LifecyclePolicy
}

// GetRepository returns the ECR repository.
func (r *Registry) GetRepository() *ecr.Repository {
	return r.repository
}

// GetLifecyclePolicy returns the repository's image retention policy.
func (r *Registry) GetLifecyclePolicy() *ecr.LifecyclePolicy {
	return r.lifecyclePolicy
}

// WebService represents a load-balanced Fargate service with a two-phase
// startup gate: a migration container must complete successfully before the
// web container starts.
type WebService struct {
	pulumi.ResourceState

	prefix  string
	region  string
	account string

	httpSecurityGroup  *ec2.SecurityGroup
	httpsSecurityGroup *ec2.SecurityGroup

	cluster      *ecs.Cluster
	loadBalancer *lb.LoadBalancer
	targetGroup  *lb.TargetGroup
	httpListener *lb.Listener
	tlsListener  *lb.Listener

	executionRole *iam.Role
	taskRole      *iam.Role

	appLogGroup      *cloudwatch.LogGroup
	appSecret        *secretsmanager.Secret
	appSecretVersion *secretsmanager.SecretVersion

	taskDefinition *ecs.TaskDefinition
	service        *ecs.Service

	scalingTarget *appautoscaling.Target
	scalingPolicy *appautoscaling.Policy
}

// GetCluster returns the ECS cluster.
func (s *WebService) GetCluster() *ecs.Cluster {
	return s.cluster
}

// GetLoadBalancer returns the application load balancer fronting the service.
func (s *WebService) GetLoadBalancer() *lb.LoadBalancer {
	return s.loadBalancer
}

// GetTargetGroup returns the load balancer target group for the web container.
func (s *WebService) GetTargetGroup() *lb.TargetGroup {
	return s.targetGroup
}

// GetService returns the Fargate service.
func (s *WebService) GetService() *ecs.Service {
	return s.service
}

// GetTaskDefinition returns the two-container task definition.
func (s *WebService) GetTaskDefinition() *ecs.TaskDefinition {
	return s.taskDefinition
}

// GetExecutionRole returns the task execution role.
func (s *WebService) GetExecutionRole() *iam.Role {
	return s.executionRole
}

// GetTaskRole returns the task role used by the containers.
func (s *WebService) GetTaskRole() *iam.Role {
	return s.taskRole
}

// GetAppSecret returns the generated application secret.
func (s *WebService) GetAppSecret() *secretsmanager.Secret {
	return s.appSecret
}

// GetAppLogGroup returns the log group the containers write to.
func (s *WebService) GetAppLogGroup() *cloudwatch.LogGroup {
	return s.appLogGroup
}

// GetScalingTarget returns the autoscaling target bounding the task count.
func (s *WebService) GetScalingTarget() *appautoscaling.Target {
	return s.scalingTarget
}

// GetScalingPolicy returns the CPU target-tracking scaling policy.
func (s *WebService) GetScalingPolicy() *appautoscaling.Policy {
	return s.scalingPolicy
}

// GetHTTPSecurityGroup returns the HTTP ingress security group.
func (s *WebService) GetHTTPSecurityGroup() *ec2.SecurityGroup {
	return s.httpSecurityGroup
}

// GetHTTPSSecurityGroup returns the HTTPS ingress security group.
func (s *WebService) GetHTTPSSecurityGroup() *ec2.SecurityGroup {
	return s.httpsSecurityGroup
}

// Firewall represents a web ACL associated with a load balancer, with
// logging to CloudWatch.
type Firewall struct {
	pulumi.ResourceState

	prefix string

	webACL        *wafv2.WebAcl
	association   *wafv2.WebAclAssociation
	logGroup      *cloudwatch.LogGroup
	logPolicy     *cloudwatch.LogResourcePolicy
	loggingConfig *wafv2.WebAclLoggingConfiguration
}

// GetWebACL returns the web ACL.
func (f *Firewall) GetWebACL() *wafv2.WebAcl {
	return f.webACL
}

// GetAssociation returns the web ACL to load balancer association.
func (f *Firewall) GetAssociation() *wafv2.WebAclAssociation {
	return f.association
}

// GetLogGroup returns the WAF log destination.
func (f *Firewall) GetLogGroup() *cloudwatch.LogGroup {
	return f.logGroup
}

// GetLogPolicy returns the resource policy granting the WAF service
// principal write access to the log group.
func (f *Firewall) GetLogPolicy() *cloudwatch.LogResourcePolicy {
	return f.logPolicy
}

// GetLoggingConfiguration returns the web ACL logging configuration.
func (f *Firewall) GetLoggingConfiguration() *wafv2.WebAclLoggingConfiguration {
	return f.loggingConfig
}
