package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000/api/" {
		t.Fatalf("APIBaseURL = %s", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Fatalf("APITimeout = %v", cfg.APITimeout)
	}
	if cfg.WatchInterval != 5*time.Minute || !cfg.WatchPredict || cfg.WatchRepublishChanged {
		t.Fatalf("watch settings = %v predict=%v", cfg.WatchInterval, cfg.WatchPredict)
	}
	if cfg.StorageTTL != 30*24*time.Hour || cfg.StorageCleanupInterval != 12*time.Hour {
		t.Fatalf("storage durations = %v / %v", cfg.StorageTTL, cfg.StorageCleanupInterval)
	}
	if len(cfg.APIHeaders) != 0 || len(cfg.WatchParams) != 0 {
		t.Fatalf("expected empty headers and params, got %v / %v", cfg.APIHeaders, cfg.WatchParams)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://jobs.example.com/api/")
	t.Setenv("API_TIMEOUT_MS", "2500")
	t.Setenv("API_HEADERS", "X-Client=jobsctl, Accept-Language=zh-CN")
	t.Setenv("WATCH_QUERY", "location=%E5%8C%97%E4%BA%AC&min_salary=15000")
	t.Setenv("WATCH_PREDICT", "false")
	t.Setenv("WATCH_REPUBLISH_CHANGED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://jobs.example.com/api/" {
		t.Fatalf("APIBaseURL = %s", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 2500*time.Millisecond {
		t.Fatalf("APITimeout = %v", cfg.APITimeout)
	}
	if cfg.APIHeaders["X-Client"] != "jobsctl" || cfg.APIHeaders["Accept-Language"] != "zh-CN" {
		t.Fatalf("APIHeaders = %v", cfg.APIHeaders)
	}
	if cfg.WatchParams.Get("location") != "北京" || cfg.WatchParams.Get("min_salary") != "15000" {
		t.Fatalf("WatchParams = %v", cfg.WatchParams)
	}
	if cfg.WatchPredict || !cfg.WatchRepublishChanged {
		t.Fatalf("expected WatchPredict=false and WatchRepublishChanged=true")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"API_TIMEOUT_MS": "0",
		"API_BASE_URL":   "not a url",
		"WATCH_INTERVAL": "-1",
		"API_HEADERS":    "novalue",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
