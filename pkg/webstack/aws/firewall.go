package aws

import (
	"encoding/json"
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v7/go/aws/wafv2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const (
	// Requests per source IP per evaluation window before the rate rule matches
	rateLimitThreshold = 2000

	// CloudWatch Logs has no 730-day setting; two years is 731
	wafLogRetentionDays = 731

	wafServicePrincipal = "wafv2.amazonaws.com"
)

// NewFirewall creates a web ACL with a vendor-managed common rule set and a
// rate limiting rule, both in count mode, associates it with a load balancer
// and wires log delivery to CloudWatch.
func NewFirewall(ctx *pulumi.Context, name string, args *FirewallArgs, opts ...pulumi.ResourceOption) (*Firewall, error) {
	if args == nil || args.LoadBalancerArn == nil {
		return nil, fmt.Errorf("firewall requires a load balancer reference")
	}

	f := &Firewall{
		prefix: name,
	}
	err := ctx.RegisterComponentResource("pulumi-webstack:aws:Firewall", name, f, opts...)
	if err != nil {
		return nil, err
	}

	err = f.deploy(ctx, args)
	if err != nil {
		return nil, err
	}

	err = ctx.RegisterResourceOutputs(f, pulumi.Map{})
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (f *Firewall) deploy(ctx *pulumi.Context, args *FirewallArgs) error {
	webACL, err := f.deployWebACL(ctx, args)
	if err != nil {
		return fmt.Errorf("failed to create web ACL: %w", err)
	}

	association, err := wafv2.NewWebAclAssociation(ctx, newResourceName(f.prefix, "waf", "association", 255), &wafv2.WebAclAssociationArgs{
		ResourceArn: args.LoadBalancerArn,
		WebAclArn:   webACL.Arn,
	}, pulumi.Parent(f))
	if err != nil {
		return fmt.Errorf("failed to associate web ACL with load balancer: %w", err)
	}

	err = f.deployLogging(ctx, webACL)
	if err != nil {
		return fmt.Errorf("failed to configure web ACL logging: %w", err)
	}

	f.webACL = webACL
	f.association = association

	ctx.Export("web_acl_arn", webACL.Arn)
	ctx.Export("waf_log_group_arn", f.logGroup.Arn)

	return nil
}

func (f *Firewall) deployWebACL(ctx *pulumi.Context, args *FirewallArgs) (*wafv2.WebAcl, error) {
	aclName := newResourceName(f.prefix, "waf", "acl", 128)

	// Both rules only count matches for now; enforcement is deliberately
	// deferred until the observed metrics are understood.
	rules := wafv2.WebAclRuleArray{
		f.newManagedCommonRuleSetRule(),
		f.newRateLimitRule(),
	}

	return wafv2.NewWebAcl(ctx, aclName, &wafv2.WebAclArgs{
		Name:  pulumi.String(aclName),
		Scope: pulumi.String("REGIONAL"),
		DefaultAction: &wafv2.WebAclDefaultActionArgs{
			Allow: &wafv2.WebAclDefaultActionAllowArgs{},
		},
		VisibilityConfig: &wafv2.WebAclVisibilityConfigArgs{
			CloudwatchMetricsEnabled: pulumi.Bool(true),
			MetricName:               pulumi.String(newResourceName(f.prefix, "waf", "metrics", 128)),
			SampledRequestsEnabled:   pulumi.Bool(true),
		},
		Rules: rules,
		Tags: mergeTags(map[string]string{
			"firewall": "true",
		}, toStringMap(args.Tags)),
	}, pulumi.Parent(f))
}

// newManagedCommonRuleSetRule evaluates the vendor-managed common rule set
// at the highest priority, overridden to count.
func (f *Firewall) newManagedCommonRuleSetRule() *wafv2.WebAclRuleArgs {
	return &wafv2.WebAclRuleArgs{
		Name:     pulumi.String("AWSManagedCommonRuleSet"),
		Priority: pulumi.Int(0),
		OverrideAction: &wafv2.WebAclRuleOverrideActionArgs{
			Count: &wafv2.WebAclRuleOverrideActionCountArgs{},
		},
		Statement: &wafv2.WebAclRuleStatementArgs{
			ManagedRuleGroupStatement: &wafv2.WebAclRuleStatementManagedRuleGroupStatementArgs{
				VendorName: pulumi.String("AWS"),
				Name:       pulumi.String("AWSManagedRulesCommonRuleSet"),
			},
		},
		VisibilityConfig: &wafv2.WebAclRuleVisibilityConfigArgs{
			CloudwatchMetricsEnabled: pulumi.Bool(true),
			MetricName:               pulumi.String(newResourceName(f.prefix, "waf", "common-rule-set-metrics", 128)),
			SampledRequestsEnabled:   pulumi.Bool(true),
		},
	}
}

// newRateLimitRule counts source IPs exceeding the request threshold.
func (f *Firewall) newRateLimitRule() *wafv2.WebAclRuleArgs {
	return &wafv2.WebAclRuleArgs{
		Name:     pulumi.String("RateLimitRule"),
		Priority: pulumi.Int(1),
		Action: &wafv2.WebAclRuleActionArgs{
			Count: &wafv2.WebAclRuleActionCountArgs{},
		},
		Statement: &wafv2.WebAclRuleStatementArgs{
			RateBasedStatement: &wafv2.WebAclRuleStatementRateBasedStatementArgs{
				Limit:            pulumi.Int(rateLimitThreshold),
				AggregateKeyType: pulumi.String("IP"),
			},
		},
		VisibilityConfig: &wafv2.WebAclRuleVisibilityConfigArgs{
			CloudwatchMetricsEnabled: pulumi.Bool(true),
			MetricName:               pulumi.String(newResourceName(f.prefix, "waf", "rate-limit-metrics", 128)),
			SampledRequestsEnabled:   pulumi.Bool(true),
		},
	}
}

// deployLogging creates the log destination and grants the WAF service
// principal write access to it before log delivery is configured.
func (f *Firewall) deployLogging(ctx *pulumi.Context, webACL *wafv2.WebAcl) error {
	// The "aws-waf-logs-" name prefix is required by the platform
	logGroupName := fmt.Sprintf("aws-waf-logs-%s", newResourceName(f.prefix, "waf", "logs", 400))
	logGroup, err := cloudwatch.NewLogGroup(ctx, logGroupName, &cloudwatch.LogGroupArgs{
		Name:            pulumi.String(logGroupName),
		RetentionInDays: pulumi.Int(wafLogRetentionDays),
	}, pulumi.Parent(f), pulumi.RetainOnDelete(true))
	if err != nil {
		return err
	}

	policyJSON := logGroup.Arn.ApplyT(func(arn string) (string, error) {
		document, err := json.Marshal(policyDocument{
			Version: "2012-10-17",
			Statements: []policyStatement{
				{
					Effect:     "Allow",
					Principals: map[string]string{"Service": wafServicePrincipal},
					Actions:    []string{"logs:CreateLogStream", "logs:PutLogEvents"},
					Resources:  []string{arn},
				},
			},
		})
		if err != nil {
			return "", err
		}

		return string(document), nil
	}).(pulumi.StringOutput)

	logPolicy, err := cloudwatch.NewLogResourcePolicy(ctx, newResourceName(f.prefix, "waf", "log-policy", 255), &cloudwatch.LogResourcePolicyArgs{
		PolicyName:     pulumi.String(newResourceName(f.prefix, "waf", "log-policy", 255)),
		PolicyDocument: policyJSON,
	}, pulumi.Parent(f))
	if err != nil {
		return err
	}

	// the access policy must exist before log delivery is switched on
	loggingConfig, err := wafv2.NewWebAclLoggingConfiguration(ctx, newResourceName(f.prefix, "waf", "logging-config", 255), &wafv2.WebAclLoggingConfigurationArgs{
		ResourceArn: webACL.Arn,
		LogDestinationConfigs: pulumi.StringArray{
			logGroup.Arn,
		},
	}, pulumi.Parent(f), pulumi.DependsOn([]pulumi.Resource{logPolicy}))
	if err != nil {
		return err
	}

	f.logGroup = logGroup
	f.logPolicy = logPolicy
	f.loggingConfig = loggingConfig

	return nil
}
