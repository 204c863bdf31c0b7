package di

// Secrets holds the token for the GitHub API.
type Secrets struct {
	GitHubToken string
}

// SetFromEnv sets secrets from environment variables.
// SHELLCHECK_GHA_GITHUB_TOKEN takes precedence over GITHUB_TOKEN.
func (s *Secrets) SetFromEnv(getEnv func(string) string) {
	for _, envName := range []string{"SHELLCHECK_GHA_GITHUB_TOKEN", "GITHUB_TOKEN"} {
		if token := getEnv(envName); token != "" {
			s.GitHubToken = token
			return
		}
	}
}

// SetEnv populates flags from environment variables.
func SetEnv(flags *Flags, getEnv func(string) string) {
	flags.GitHubRepository = getEnv("GITHUB_REPOSITORY")
	flags.GitHubEventPath = getEnv("GITHUB_EVENT_PATH")
	flags.GitHubAPIURL = getEnv("GITHUB_API_URL")
	flags.IsGitHubActions = getEnv("GITHUB_ACTIONS") == "true"
	flags.KeyringEnabled = getEnv("SHELLCHECK_GHA_KEYRING_ENABLED") == "true"
	if getEnv("NO_COLOR") != "" {
		flags.NoColor = true
	}
}
