package app

import (
	"github.com/samvad-hq/samvad-jobs-client/internal/config"
	"github.com/samvad-hq/samvad-jobs-client/pkg/httpclient"
)

// TransportConfig maps application settings onto the backend transport.
func TransportConfig(cfg *config.Config) httpclient.Config {
	return httpclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Headers: cfg.APIHeaders,
	}
}
