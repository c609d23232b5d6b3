// ABOUTME: Tests for the namespace-scoped dotenv loader.
// ABOUTME: Verifies parsing, quoting, no-override behavior, and QAFORGE_* key filtering.
package server

import (
	"os"
	"path/filepath"
	"testing"
)

// unsetForTest unsets an env var and registers cleanup to unset it again after the test.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	_ = os.Unsetenv(key)
	t.Cleanup(func() { _ = os.Unsetenv(key) })
}

// writeDotEnv writes content to a temp .env file and returns its path.
func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	return path
}

func TestLoadDotEnv_BasicKeyValue(t *testing.T) {
	path := writeDotEnv(t, "QAFORGE_DOTENV_BASIC=hello\n")
	unsetForTest(t, "QAFORGE_DOTENV_BASIC")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("QAFORGE_DOTENV_BASIC"); got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	path := writeDotEnv(t, "QAFORGE_DOTENV_EXISTING=fromfile\n")
	t.Setenv("QAFORGE_DOTENV_EXISTING", "fromenv")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("QAFORGE_DOTENV_EXISTING"); got != "fromenv" {
		t.Errorf("got %q, want %q (should not override)", got, "fromenv")
	}
}

func TestLoadDotEnv_QuotedValues(t *testing.T) {
	path := writeDotEnv(t, `QAFORGE_DOTENV_DOUBLE="double quoted"
QAFORGE_DOTENV_SINGLE='single quoted'
`)
	unsetForTest(t, "QAFORGE_DOTENV_DOUBLE")
	unsetForTest(t, "QAFORGE_DOTENV_SINGLE")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("QAFORGE_DOTENV_DOUBLE"); got != "double quoted" {
		t.Errorf("double: got %q, want %q", got, "double quoted")
	}
	if got := os.Getenv("QAFORGE_DOTENV_SINGLE"); got != "single quoted" {
		t.Errorf("single: got %q, want %q", got, "single quoted")
	}
}

func TestLoadDotEnv_CommentsAndBlanks(t *testing.T) {
	path := writeDotEnv(t, `# This is a comment
QAFORGE_DOTENV_COMMENT=works

# Another comment

QAFORGE_DOTENV_AFTER_BLANK=also_works
`)
	unsetForTest(t, "QAFORGE_DOTENV_COMMENT")
	unsetForTest(t, "QAFORGE_DOTENV_AFTER_BLANK")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("QAFORGE_DOTENV_COMMENT"); got != "works" {
		t.Errorf("comment: got %q, want %q", got, "works")
	}
	if got := os.Getenv("QAFORGE_DOTENV_AFTER_BLANK"); got != "also_works" {
		t.Errorf("after_blank: got %q, want %q", got, "also_works")
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv("/nonexistent/path/.env"); err != nil {
		t.Errorf("expected nil for missing file, got: %v", err)
	}
}

func TestLoadDotEnv_SpacesAroundEquals(t *testing.T) {
	path := writeDotEnv(t, "QAFORGE_DOTENV_SPACES = spaced\n")
	unsetForTest(t, "QAFORGE_DOTENV_SPACES")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("QAFORGE_DOTENV_SPACES"); got != "spaced" {
		t.Errorf("got %q, want %q", got, "spaced")
	}
}

func TestLoadDotEnv_ExportPrefix(t *testing.T) {
	path := writeDotEnv(t, "export QAFORGE_DOTENV_EXPORTED=yes\n")
	unsetForTest(t, "QAFORGE_DOTENV_EXPORTED")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("QAFORGE_DOTENV_EXPORTED"); got != "yes" {
		t.Errorf("got %q, want %q", got, "yes")
	}
}

func TestLoadDotEnv_IgnoresKeysOutsideNamespace(t *testing.T) {
	path := writeDotEnv(t, `AWS_SECRET_ACCESS_KEY=leaky
PATH=/tmp/evil
QAFORGE_DOTENV_SCOPED=kept
`)
	unsetForTest(t, "AWS_SECRET_ACCESS_KEY")
	unsetForTest(t, "QAFORGE_DOTENV_SCOPED")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got, exists := os.LookupEnv("AWS_SECRET_ACCESS_KEY"); exists {
		t.Errorf("key outside namespace was applied: %q", got)
	}
	if got := os.Getenv("QAFORGE_DOTENV_SCOPED"); got != "kept" {
		t.Errorf("scoped key: got %q, want %q", got, "kept")
	}
}

func TestLoadDotEnv_SkipsMalformedLines(t *testing.T) {
	path := writeDotEnv(t, `not a pair
QAFORGE_lower_case=skipped
QAFORGE DOTENV SPACES=skipped
=novalue
QAFORGE_DOTENV_VALID=ok
`)
	unsetForTest(t, "QAFORGE_DOTENV_VALID")
	unsetForTest(t, "QAFORGE_lower_case")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("QAFORGE_DOTENV_VALID"); got != "ok" {
		t.Errorf("valid key: got %q, want %q", got, "ok")
	}
	if _, exists := os.LookupEnv("QAFORGE_lower_case"); exists {
		t.Error("malformed key was applied")
	}
}
