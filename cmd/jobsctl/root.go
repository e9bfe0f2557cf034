package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-jobs-client/internal/app"
	"github.com/samvad-hq/samvad-jobs-client/internal/config"
	"github.com/samvad-hq/samvad-jobs-client/internal/logger"
	"github.com/samvad-hq/samvad-jobs-client/pkg/jobservice"
	"github.com/spf13/cobra"
)

// cli carries the global flags and the client built from them.
type cli struct {
	baseURL  string
	timeout  time.Duration
	logLevel string

	client *jobservice.Client
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "jobsctl",
		Short:         "Query the job postings backend",
		Long:          "jobsctl lists job postings, fetches a single posting and asks the backend for salary predictions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Close()
		},
	}

	root.PersistentFlags().StringVar(&c.baseURL, "base-url", "", "backend API base URL (default: API_BASE_URL or http://localhost:8000/api/)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 0, "per-request timeout (default: API_TIMEOUT_MS or 10s)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newListCmd(c),
		newAllCmd(c),
		newDetailCmd(c),
		newPredictCmd(c),
	)
	return root
}

// setup loads config, applies flag overrides and builds the client.
// Logs go to stderr so stdout only carries results.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.APIBaseURL = strings.TrimSpace(c.baseURL)
	}
	if flags.Changed("timeout") {
		if c.timeout <= 0 {
			return fmt.Errorf("--timeout must be positive")
		}
		cfg.APITimeout = c.timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}

	log, err := logger.InitWriter(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.client = app.NewJobClient(cfg, log)
	return nil
}

// parsePairs turns repeated key=value flags into a map.
func parsePairs(flag string, pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --%s %q: expected key=value", flag, pair)
		}
		if prev, exists := out[key]; exists {
			switch p := prev.(type) {
			case string:
				out[key] = []string{p, val}
			case []string:
				out[key] = append(p, val)
			}
			continue
		}
		out[key] = val
	}
	return out, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
