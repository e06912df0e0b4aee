package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tokenEnvVars are checked in order before any Copilot config file.
var tokenEnvVars = []string{"EVENTIDE_GITHUB_TOKEN", "GITHUB_TOKEN"}

// ErrNoGitHubToken is returned when no Copilot credentials can be found.
var ErrNoGitHubToken = errors.New("GitHub token not found: set GITHUB_TOKEN or sign in to GitHub Copilot in your editor")

// LoadGitHubToken returns the GitHub OAuth token used to obtain Copilot
// bearer tokens. Environment variables win over the hosts.json and
// apps.json files written by the Copilot editor plugins.
func LoadGitHubToken() (string, error) {
	for _, key := range tokenEnvVars {
		if token := os.Getenv(key); token != "" {
			return token, nil
		}
	}

	dir, err := copilotConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating copilot config: %w", err)
	}
	for _, name := range []string{"hosts.json", "apps.json"} {
		if token := tokenFromFile(filepath.Join(dir, name)); token != "" {
			return token, nil
		}
	}
	return "", ErrNoGitHubToken
}

// copilotConfigDir honours XDG_CONFIG_HOME, then the platform config dir
// (LOCALAPPDATA on Windows is what the plugins use).
func copilotConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "github-copilot"), nil
	}
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		return filepath.Join(local, "github-copilot"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "github-copilot"), nil
}

// tokenFromFile returns the oauth_token of the first github.com entry in a
// Copilot config file, or "" when there is none.
func tokenFromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var entries map[string]struct {
		OAuthToken string `json:"oauth_token"`
	}
	if json.Unmarshal(data, &entries) != nil {
		return ""
	}
	for host, e := range entries {
		if strings.Contains(host, "github.com") && e.OAuthToken != "" {
			return e.OAuthToken
		}
	}
	return ""
}
