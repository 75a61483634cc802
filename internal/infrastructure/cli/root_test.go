package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/testutil/fakeprovider"
)

// isolate points every prompty path at a temp dir and clears provider
// key variables inherited from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(domain.EnvHome, home)
	t.Setenv(domain.EnvConfig, "")
	for _, provider := range domain.Providers() {
		upper := strings.ToUpper(string(provider))
		t.Setenv(upper+"_API_KEY", "")
		t.Setenv("VITE_"+upper+"_API_KEY", "")
	}
	return home
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd(context.Background(), Options{EnvFiles: []string{}})
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(content), 0o600))
}

func TestVersionSkipsContainer(t *testing.T) {
	home := isolate(t)

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "prompty version")

	_, statErr := os.Stat(filepath.Join(home, "config.yaml"))
	assert.True(t, os.IsNotExist(statErr), "version must not write a config file")
}

func TestKeysSetListDelete(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "keys", "set", "openai", "sk-test-123456")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved OpenAI API key.")

	out, _, err = execute(t, "keys", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "3456 (stored)")
	assert.Contains(t, out, "anthropic    not set")

	_, _, err = execute(t, "keys", "delete", "openai")
	require.NoError(t, err)

	out, _, err = execute(t, "keys", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "openai       not set")

	_, _, err = execute(t, "keys", "set", "cohere", "x")
	assert.ErrorContains(t, err, "unknown provider")
}

func TestGenerateEndToEnd(t *testing.T) {
	home := isolate(t)
	srv := fakeprovider.New(t)
	writeConfig(t, home, "providers:\n  - id: openai\n    endpoint: "+srv.Endpoint(fakeprovider.OpenAIPath)+"\n")
	t.Setenv("OPENAI_API_KEY", "sk-env-key")

	out, _, err := execute(t, "generate", "--set", "subject=landscape,castle", "--set", "style=fantasy")
	require.NoError(t, err)
	assert.Contains(t, out, "A generated prompt")
	assert.Equal(t, 1, srv.Count())

	last, ok := srv.Last()
	require.True(t, ok)
	assert.Equal(t, "Bearer sk-env-key", last.Header.Get("Authorization"))

	out, _, err = execute(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "GPT 3.5 Turbo")
	assert.Contains(t, out, "A generated prompt")
}

func TestGenerateVerboseLogsCacheStats(t *testing.T) {
	home := isolate(t)
	srv := fakeprovider.New(t)
	writeConfig(t, home, "providers:\n  - id: openai\n    endpoint: "+srv.Endpoint(fakeprovider.OpenAIPath)+"\n")
	t.Setenv("OPENAI_API_KEY", "sk-env-key")

	_, stderr, err := execute(t, "-v", "generate", "-s", "subject=fox", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "response cache")
	assert.Contains(t, stderr, "provider=openai")
	assert.Contains(t, stderr, "misses=")
}

func TestGenerateBatchJSON(t *testing.T) {
	home := isolate(t)
	srv := fakeprovider.New(t)
	writeConfig(t, home, "providers:\n  - id: openai\n    endpoint: "+srv.Endpoint(fakeprovider.OpenAIPath)+"\n")
	t.Setenv("OPENAI_API_KEY", "sk-env-key")

	out, _, err := execute(t, "generate", "-s", "subject=fox", "-n", "3", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"batchId"`)
	assert.Equal(t, 3, srv.Count())
}

func TestGenerateWithoutKey(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "generate", "--set", "subject=fox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no OpenAI API key")
}

func TestGenerateRejectsMalformedSet(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "generate", "--set", "subject")
	assert.ErrorContains(t, err, "key=value")
}

func TestCategoriesList(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "subject")
	content := strings.Index(out, "Content\n")
	setting := strings.Index(out, "Setting\n")
	require.True(t, content >= 0 && setting > content, "sections out of order:\n%s", out)
	assert.Less(t, strings.Index(out, "subject"), setting)
	assert.Greater(t, strings.Index(out, "weather"), setting)

	out, _, err = execute(t, "categories", "list", "style")
	require.NoError(t, err)
	assert.Contains(t, out, "Art Style (style) [Content]")

	_, _, err = execute(t, "categories", "list", "nope")
	assert.ErrorContains(t, err, "unknown category")
}

func TestConfigCommands(t *testing.T) {
	home := isolate(t)

	out, _, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.yaml"), strings.TrimSpace(out))

	out, _, err = execute(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")

	out, _, err = execute(t, "config", "get", "preferences.default_model")
	require.NoError(t, err)
	assert.Equal(t, "gpt-3.5-turbo", strings.TrimSpace(out))

	_, _, err = execute(t, "models", "use", "gpt-4")
	require.NoError(t, err)

	out, _, err = execute(t, "models", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* gpt-4")

	out, _, err = execute(t, "config", "diff")
	require.NoError(t, err)
	assert.Contains(t, out, "gpt-4")
}

func TestHistoryClearRequiresConfirmation(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Clear cancelled.")

	out, _, err = execute(t, "history", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared.")

	out, _, err = execute(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No history recorded yet.")
}

func TestDoctorWarnsAboutMissingKeys(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-env-key")

	out, _, err := execute(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] OpenAI key")
	assert.Contains(t, out, "[WARN] Anthropic key")
	assert.Contains(t, out, "[OK] Category catalog")
}
