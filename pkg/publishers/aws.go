package publishers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Message attributes set on every queue sink.
const (
	attrJobID    = "job_id"
	attrKind     = "kind"
	attrSource   = "source"
	attrLocation = "location"

	fifoSuffix = ".fifo"
)

// messageAttributes returns the string attributes describing evt. Empty values are omitted.
func messageAttributes(evt Event) map[string]string {
	attrs := map[string]string{attrJobID: evt.JobID}
	if evt.Kind != "" {
		attrs[attrKind] = evt.Kind
	}
	if evt.Source != "" {
		attrs[attrSource] = evt.Source
	}
	if loc := strings.TrimSpace(evt.Job.Location()); loc != "" {
		attrs[attrLocation] = loc
	}
	return attrs
}

// isFIFO reports whether a queue URL or topic ARN names a FIFO target.
func isFIFO(target string) bool {
	return strings.HasSuffix(target, fifoSuffix)
}

// fifoGroup is the message group for FIFO targets. Events from one source stay ordered.
func fifoGroup(evt Event) string {
	if evt.Source != "" {
		return evt.Source
	}
	return "jobs"
}

// AWSConfig holds settings shared by the SQS and SNS publishers.
// Static keys are optional; without them the default credential chain applies.
type AWSConfig struct {
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
}

func loadAWSConfig(ctx context.Context, cfg AWSConfig) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awscfg.WithBaseEndpoint(cfg.Endpoint))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}
