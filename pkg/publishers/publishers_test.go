package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryYAMLWebhooksWithRoutes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: disabled-hook
    type: http
    enabled: false
    http:
      url: https://hooks.example.com/old
  - id: beijing-hook
    type: HTTP
    http:
      url: " https://hooks.example.com/jobs "
      method: put
      max_retries: 2
    filter:
      locations: [" 北京 "]
      min_predicted_salary: 15000
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "beijing-hook" {
		t.Fatalf("expected only beijing-hook enabled, got %#v", enabled)
	}
	hook := enabled[0]
	if hook.Type != TypeHTTP || hook.HTTP.URL != "https://hooks.example.com/jobs" || hook.HTTP.Method != "PUT" {
		t.Fatalf("unexpected http config %#v", hook.HTTP)
	}
	if hook.HTTP.MaxRetries != 2 || hook.HTTP.RetryWaitMs != httpDefaultRetryWaitMs || hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("defaults not applied: %#v", hook.HTTP)
	}
	if hook.Filter == nil || hook.Filter.Locations[0] != "北京" || hook.Filter.MinPredictedSalary != 15000 {
		t.Fatalf("unexpected filter %#v", hook.Filter)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 publishers in total")
	}
}

func TestLoadRegistryRejectsDuplicatesAndEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	dup := filepath.Join(dir, "dup.yaml")
	raw := `
publishers:
  - id: a
    type: http
    http:
      url: https://x.example.com
  - id: a
    type: http
    http:
      url: https://y.example.com
`
	if err := os.WriteFile(dup, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(dup); err == nil {
		t.Fatalf("expected duplicate id error")
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"publishers": []}`), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(empty); err == nil {
		t.Fatalf("expected error for empty registry")
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadRegistryJSONWithQueueSinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.json")
	raw := `{
  "publishers": [
    {"id": "queue", "type": "SQS", "sqs": {"uri": " https://sqs.example/q ", "region": "ap-south-1"}},
    {"id": "topic", "type": "sns", "sns": {"topic_arn": "arn:aws:sns:ap-south-1:1:jobs", "region": "ap-south-1", "access_key_id": "AKID", "secret_access_key": "secret"}},
    {"id": "ps", "type": "gcp_pubsub", "gcp_pubsub": {"project_id": "p", "topic": "jobs"}}
  ]
}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	queue, ok := reg.ByID("queue")
	if !ok || queue.Type != TypeSQS || queue.SQS.QueueURL != "https://sqs.example/q" {
		t.Fatalf("unexpected sqs config %#v", queue)
	}
	topic, _ := reg.ByID("topic")
	if topic.SNS.AccessKeyID != "AKID" || topic.SNS.Region != "ap-south-1" {
		t.Fatalf("unexpected sns config %#v", topic.SNS)
	}
	if len(reg.Enabled()) != 3 {
		t.Fatalf("expected all publishers enabled by default")
	}
}

func TestLoadRegistryYAMLInlinesAWSSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.example/q
      region: us-east-1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, _ := reg.ByID("queue")
	if cfg.SQS.Region != "us-east-1" {
		t.Fatalf("region = %q", cfg.SQS.Region)
	}
}

func TestValidatePublisherConfigRejectsIncompleteQueues(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "s", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}},
		{ID: "n", Type: TypeSNS, SNS: &SNSPublisherConfig{AWSConfig: AWSConfig{Region: "us-east-1"}}},
		{ID: "g", Type: TypeGCPPubSub, GCPPubSub: &GCPQueueConfig{ProjectID: "p"}},
		{ID: "k", Type: "kafka"},
	}
	for _, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %s", cfg.ID)
		}
	}
}
