package aws

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/lb"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// deployIngressSecurityGroups creates one security group per public ingress
// port (HTTP and HTTPS), both with unrestricted egress.
func (s *WebService) deployIngressSecurityGroups(ctx *pulumi.Context, args *WebServiceArgs) error {
	httpSG, err := s.newIngressSecurityGroup(ctx, args, "http", 80)
	if err != nil {
		return err
	}

	httpsSG, err := s.newIngressSecurityGroup(ctx, args, "https", 443)
	if err != nil {
		return err
	}

	s.httpSecurityGroup = httpSG
	s.httpsSecurityGroup = httpsSG

	return nil
}

func (s *WebService) newIngressSecurityGroup(ctx *pulumi.Context, args *WebServiceArgs, scheme string, port int) (*ec2.SecurityGroup, error) {
	sgName := newResourceName(s.prefix, "web", fmt.Sprintf("%s-sg", scheme), 255)

	return ec2.NewSecurityGroup(ctx, sgName, &ec2.SecurityGroupArgs{
		Name:        pulumi.String(sgName),
		Description: pulumi.String(fmt.Sprintf("Allow %s ingress from anywhere (%s)", scheme, s.prefix)),
		VpcId:       args.Network.VpcID,
		Ingress: ec2.SecurityGroupIngressArray{
			&ec2.SecurityGroupIngressArgs{
				Protocol: pulumi.String("tcp"),
				FromPort: pulumi.Int(port),
				ToPort:   pulumi.Int(port),
				CidrBlocks: pulumi.StringArray{
					pulumi.String("0.0.0.0/0"),
				},
			},
		},
		Egress: ec2.SecurityGroupEgressArray{
			&ec2.SecurityGroupEgressArgs{
				Protocol: pulumi.String("-1"),
				FromPort: pulumi.Int(0),
				ToPort:   pulumi.Int(0),
				CidrBlocks: pulumi.StringArray{
					pulumi.String("0.0.0.0/0"),
				},
			},
		},
		Tags: mergeTags(map[string]string{
			"web": "true",
		}, toStringMap(args.Tags)),
	}, pulumi.Parent(s))
}

// deployLoadBalancer sets up a public Application Load Balancer in front of
// the web container:
//
// - HTTPS by default with the domain stack's certificate
// - HTTP forward & redirect to HTTPS
func (s *WebService) deployLoadBalancer(ctx *pulumi.Context, args *WebServiceArgs) error {
	albName := newResourceName(s.prefix, "web", "lb", 32)
	loadBalancer, err := lb.NewLoadBalancer(ctx, albName, &lb.LoadBalancerArgs{
		Name:             pulumi.String(albName),
		Internal:         pulumi.Bool(false),
		LoadBalancerType: pulumi.String("application"),
		SecurityGroups: pulumi.StringArray{
			s.httpSecurityGroup.ID().ToStringOutput(),
			s.httpsSecurityGroup.ID().ToStringOutput(),
		},
		Subnets: args.Network.PublicSubnetIDs,
		Tags: mergeTags(map[string]string{
			"web": "true",
		}, toStringMap(args.Tags)),
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	targetGroupName := newResourceName(s.prefix, "web", "tg", 32)
	targetGroup, err := lb.NewTargetGroup(ctx, targetGroupName, &lb.TargetGroupArgs{
		Name:       pulumi.String(targetGroupName),
		Port:       pulumi.Int(args.ContainerPort),
		Protocol:   pulumi.String("HTTP"),
		TargetType: pulumi.String("ip"),
		VpcId:      args.Network.VpcID,
		HealthCheck: &lb.TargetGroupHealthCheckArgs{
			Path:    pulumi.String(args.HealthCheckPath),
			Matcher: pulumi.String("200-399"),
		},
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	tlsListener, err := lb.NewListener(ctx, newResourceName(s.prefix, "web", "https", 255), &lb.ListenerArgs{
		LoadBalancerArn: loadBalancer.Arn,
		Port:            pulumi.Int(443),
		Protocol:        pulumi.String("HTTPS"),
		SslPolicy:       pulumi.String("ELBSecurityPolicy-TLS13-1-2-2021-06"),
		CertificateArn:  args.Domain.CertificateArn,
		DefaultActions: lb.ListenerDefaultActionArray{
			&lb.ListenerDefaultActionArgs{
				Type:           pulumi.String("forward"),
				TargetGroupArn: targetGroup.Arn,
			},
		},
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	// TLS termination happens at the load balancer; plain HTTP is bounced
	httpListener, err := lb.NewListener(ctx, newResourceName(s.prefix, "web", "http", 255), &lb.ListenerArgs{
		LoadBalancerArn: loadBalancer.Arn,
		Port:            pulumi.Int(80),
		Protocol:        pulumi.String("HTTP"),
		DefaultActions: lb.ListenerDefaultActionArray{
			&lb.ListenerDefaultActionArgs{
				Type: pulumi.String("redirect"),
				Redirect: &lb.ListenerDefaultActionRedirectArgs{
					Port:       pulumi.String("443"),
					Protocol:   pulumi.String("HTTPS"),
					StatusCode: pulumi.String("HTTP_301"),
				},
			},
		},
	}, pulumi.Parent(s))
	if err != nil {
		return err
	}

	s.loadBalancer = loadBalancer
	s.targetGroup = targetGroup
	s.tlsListener = tlsListener
	s.httpListener = httpListener

	return nil
}
