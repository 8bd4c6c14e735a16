package github

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"

	"github.com/sevigo/pr-summarizer/internal/config"
)

// CreateInstallationClient creates a GitHub client that is authenticated as a specific
// application installation. The installation token is refreshed by the transport.
func CreateInstallationClient(cfg *config.Config, installationID int64, logger *slog.Logger) (Client, error) {
	logger.Info("creating GitHub installation client", "installation_id", installationID)

	itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.GitHub.AppID, installationID, cfg.GitHub.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create installation transport from %s: %w", cfg.GitHub.PrivateKeyPath, err)
	}

	if cfg.GitHub.APIBaseURL != "" {
		itr.BaseURL = cfg.GitHub.APIBaseURL
	}

	return NewHTTPClient(&http.Client{Transport: itr}, cfg.GitHub.APIBaseURL, logger)
}
