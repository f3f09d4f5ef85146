package aws

import "github.com/pulumi/pulumi/sdk/v3/go/pulumi"

// mergeTags adds custom to default tags.
func mergeTags(defaultTags map[string]string, additionalTags pulumi.StringMap) pulumi.StringMap {
	merged := make(pulumi.StringMap)

	for k, v := range defaultTags {
		merged[k] = pulumi.String(v)
	}

	// Add additional tags (these will override any conflicting keys)
	for k, v := range additionalTags {
		merged[k] = v
	}

	return merged
}

func toStringMap(tags map[string]string) pulumi.StringMap {
	converted := make(pulumi.StringMap, len(tags))
	for k, v := range tags {
		converted[k] = pulumi.String(v)
	}

	return converted
}
