package jobservice

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// predictionFeatures are the posting fields the salary model reads.
var predictionFeatures = []string{
	"job_title",
	"experience",
	"education",
	"location",
	"industry",
	"company_type",
	"company_size",
}

// PredictionRequestFromPosting copies the model features present on job.
func PredictionRequestFromPosting(job JobPosting) map[string]any {
	out := make(map[string]any, len(predictionFeatures))
	for _, key := range predictionFeatures {
		if v, ok := job[key]; ok && v != nil {
			out[key] = v
		}
	}
	return out
}

// LoadPredictionRequest reads a job description from a YAML or JSON file.
func LoadPredictionRequest(path string) (map[string]any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("prediction request file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prediction request file: %w", err)
	}
	return ParsePredictionRequest(raw, filepath.Ext(path))
}

// ParsePredictionRequest decodes data as YAML or JSON. An empty ext tries both.
func ParsePredictionRequest(data []byte, ext string) (map[string]any, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		ext string
		fn  func([]byte, any) error
	}{
		{ext: ".json", fn: json.Unmarshal},
		{ext: ".yaml", fn: yaml.Unmarshal},
		{ext: ".yml", fn: yaml.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out map[string]any
		if err := d.fn(data, &out); err == nil && out != nil {
			return out, nil
		}
	}
	return nil, errors.New("prediction request format not recognized (expected YAML or JSON object)")
}
