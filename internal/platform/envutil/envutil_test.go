package envutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTypedLookups(t *testing.T) {
	t.Setenv("CC_TEST_INT", "42")
	t.Setenv("CC_TEST_BAD_INT", "forty")
	t.Setenv("CC_TEST_BOOL", "yes")
	t.Setenv("CC_TEST_DUR", "90s")
	t.Setenv("CC_TEST_SECS", "30")
	t.Setenv("CC_TEST_LIST", " a, ,b ")
	t.Setenv("CC_TEST_RATIO", "0.25")

	if got := Int("CC_TEST_INT", 1, nil); got != 42 {
		t.Fatalf("Int: want=42 got=%d", got)
	}
	if got := Int("CC_TEST_BAD_INT", 7, nil); got != 7 {
		t.Fatalf("Int fallback: want=7 got=%d", got)
	}
	if got := Bool("CC_TEST_BOOL", false, nil); !got {
		t.Fatalf("Bool: want=true got=false")
	}
	if got := Duration("CC_TEST_DUR", time.Second, nil); got != 90*time.Second {
		t.Fatalf("Duration: want=90s got=%s", got)
	}
	if got := Duration("CC_TEST_SECS", time.Second, nil); got != 30*time.Second {
		t.Fatalf("Duration seconds: want=30s got=%s", got)
	}
	if got := List("CC_TEST_LIST", nil, nil); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List: want=[a b] got=%v", got)
	}
	if got := Float64("CC_TEST_RATIO", 1, nil); got != 0.25 {
		t.Fatalf("Float64: want=0.25 got=%v", got)
	}
	if got := String("CC_TEST_MISSING", "def", nil); got != "def" {
		t.Fatalf("String default: want=def got=%s", got)
	}
}

func TestLoadDotEnvKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CC_DOTENV_NEW=from-file\nCC_DOTENV_SET=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CC_DOTENV_SET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("CC_DOTENV_NEW") })

	LoadDotEnv(nil, path, filepath.Join(dir, "missing.env"))

	if got := os.Getenv("CC_DOTENV_NEW"); got != "from-file" {
		t.Fatalf("new var: want=from-file got=%s", got)
	}
	if got := os.Getenv("CC_DOTENV_SET"); got != "from-env" {
		t.Fatalf("existing var: want=from-env got=%s", got)
	}
}
