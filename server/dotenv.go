// ABOUTME: Dotenv loader scoped to the QAFORGE_* configuration namespace.
// ABOUTME: Parses KEY=VALUE pairs and applies only keys the server actually reads.
package server

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// envPrefix is the configuration namespace this process reads. Keys outside
// it are ignored by LoadDotEnv so a shared .env cannot leak unrelated
// variables into the server environment.
const envPrefix = "QAFORGE_"

var envKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// LoadDotEnv reads a dotenv file and applies its QAFORGE_* settings to the
// process environment. Keys already present in the environment win, so
// explicit env vars override file defaults. A missing file is not an error.
func LoadDotEnv(path string) error {
	pairs, err := parseDotEnv(path)
	if err != nil {
		return err
	}
	for key, value := range pairs {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

// parseDotEnv extracts the QAFORGE_* pairs from a dotenv file. Comments,
// blank lines, malformed keys, and keys outside the namespace are skipped.
// An optional "export " prefix per line is accepted.
func parseDotEnv(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	pairs := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if !envKeyPattern.MatchString(key) || !strings.HasPrefix(key, envPrefix) {
			continue
		}
		pairs[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// unquote strips one matching pair of surrounding single or double quotes.
func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}
