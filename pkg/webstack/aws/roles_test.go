package aws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// one resource ARN per bucket, never a concatenated pattern
func TestBucketObjectsPolicyGrantsOneResourcePerBucket(t *testing.T) {
	document, err := newBucketObjectsPolicy([]string{"private", "public", "audio"})
	require.NoError(t, err)

	var policy policyDocument
	require.NoError(t, json.Unmarshal([]byte(document), &policy))

	require.Len(t, policy.Statements, 1)
	statement := policy.Statements[0]

	assert.Equal(t, "Allow", statement.Effect)
	assert.Equal(t, []string{
		"arn:aws:s3:::private/*",
		"arn:aws:s3:::public/*",
		"arn:aws:s3:::audio/*",
	}, statement.Resources)
	assert.Contains(t, statement.Actions, "s3:PutObject")
	assert.Contains(t, statement.Actions, "s3:GetObject")
	assert.Contains(t, statement.Actions, "s3:DeleteObject")
}

func TestBucketObjectsPolicySkipsEmptyBucketNames(t *testing.T) {
	document, err := newBucketObjectsPolicy([]string{"private", "", "audio"})
	require.NoError(t, err)

	var policy policyDocument
	require.NoError(t, json.Unmarshal([]byte(document), &policy))

	require.Len(t, policy.Statements, 1)
	assert.Len(t, policy.Statements[0].Resources, 2)
}
