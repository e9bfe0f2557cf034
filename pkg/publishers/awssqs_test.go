package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/samvad-hq/samvad-jobs-client/pkg/jobservice"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func engineerEvent() Event {
	return Event{
		Source: "all_data",
		JobID:  "42",
		Job:    jobservice.JobPosting{"id": float64(42), "job_title": "Engineer", "location": "杭州"},
	}
}

func TestAWSSQSSenderSend(t *testing.T) {
	tests := []struct {
		name     string
		queueURL string
		wantFIFO bool
	}{
		{name: "standard queue", queueURL: "https://sqs.local/000000000000/jobs"},
		{name: "fifo queue", queueURL: "https://sqs.local/000000000000/jobs.fifo", wantFIFO: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSQSClient{}
			sender := &awsSQSSender{queueURL: tt.queueURL, client: client, log: noopLogger{}}

			if err := sender.Send(context.Background(), engineerEvent()); err != nil {
				t.Fatalf("Send returned error: %v", err)
			}
			in := client.input
			if in == nil {
				t.Fatalf("client was not called")
			}
			if got := aws.ToString(in.QueueUrl); got != tt.queueURL {
				t.Fatalf("QueueUrl = %s", got)
			}
			for key, want := range map[string]string{attrJobID: "42", attrSource: "all_data", attrLocation: "杭州"} {
				attr, ok := in.MessageAttributes[key]
				if !ok || aws.ToString(attr.StringValue) != want || aws.ToString(attr.DataType) != "String" {
					t.Fatalf("attribute %s = %#v, want %q", key, attr, want)
				}
			}
			if !strings.Contains(aws.ToString(in.MessageBody), `"job_id":"42"`) {
				t.Fatalf("MessageBody missing job_id: %s", aws.ToString(in.MessageBody))
			}

			if tt.wantFIFO {
				if aws.ToString(in.MessageGroupId) != "all_data" || aws.ToString(in.MessageDeduplicationId) != "42" {
					t.Fatalf("fifo ids not set: group=%v dedup=%v", in.MessageGroupId, in.MessageDeduplicationId)
				}
			} else if in.MessageGroupId != nil || in.MessageDeduplicationId != nil {
				t.Fatalf("standard queue should not carry fifo ids")
			}
		})
	}
}

func TestAWSSQSSenderSendError(t *testing.T) {
	cause := errors.New("boom")
	sender := &awsSQSSender{
		queueURL: "https://sqs.local/000000000000/jobs",
		client:   &fakeSQSClient{err: cause},
		log:      noopLogger{},
	}

	if err := sender.Send(context.Background(), engineerEvent()); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

func TestMessageAttributesOmitEmptyValues(t *testing.T) {
	attrs := messageAttributes(Event{JobID: "7", Job: jobservice.JobPosting{"id": 7.0}})
	if len(attrs) != 1 || attrs[attrJobID] != "7" {
		t.Fatalf("unexpected attributes %#v", attrs)
	}
}
