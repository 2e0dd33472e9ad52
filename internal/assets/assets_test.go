package assets

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, root, name, content string) {
	t.Helper()
	target := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.WriteFile(target, []byte(content), 0644))
}

func TestVersion(t *testing.T) {
	v := Version([]byte("body { margin: 0; }"))
	assert.Len(t, v, 8)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}$`), v)
	assert.Equal(t, v, Version([]byte("body { margin: 0; }")))
	assert.NotEqual(t, v, Version([]byte("body { margin: 1px; }")))
}

func TestBuildDefaultEnvironment(t *testing.T) {
	root := t.TempDir()
	css := "body { font-family: serif; }\n"
	writeSource(t, root, "app/css/app.css", css)

	env := NewDefaultEnvironment(root, "gen")
	manifest, err := env.Build()
	require.NoError(t, err)

	output := manifest["app_css"]
	assert.Equal(t, "gen/styles."+Version([]byte(css))+".css", output)

	built, err := os.ReadFile(filepath.Join(root, output))
	require.NoError(t, err)
	assert.Equal(t, css, string(built))

	url, err := env.URL("app_css")
	require.NoError(t, err)
	assert.Equal(t, "/static/"+output, url)

	_, err = os.Stat(filepath.Join(root, "gen", "manifest.json"))
	assert.NoError(t, err)
}

func TestURLReadsManifestFromDisk(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "app/css/app.css", "h1 {}")

	_, err := NewDefaultEnvironment(root, "gen").Build()
	require.NoError(t, err)

	fresh := NewDefaultEnvironment(root, "gen")
	url, err := fresh.URL("app_css")
	require.NoError(t, err)
	assert.Contains(t, url, "/static/gen/styles.")

	_, err = fresh.URL("missing")
	assert.ErrorIs(t, err, ErrUnknownBundle)
}

func TestURLWithoutBuild(t *testing.T) {
	env := NewDefaultEnvironment(t.TempDir(), "gen")
	_, err := env.URL("app_css")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConcatenatesContents(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "a.css", "a {}")
	writeSource(t, root, "b.css", "b {}")

	env := NewEnvironment(root, "out", "/assets")
	require.NoError(t, env.Register("both", &Bundle{
		Contents: []string{"a.css", "b.css"},
		Output:   "out/both.%(version)s.css",
	}))

	manifest, err := env.Build()
	require.NoError(t, err)

	built, err := os.ReadFile(filepath.Join(root, manifest["both"]))
	require.NoError(t, err)
	assert.Equal(t, "a {}\nb {}", string(built))

	url, err := env.URL("both")
	require.NoError(t, err)
	assert.Equal(t, "/assets/"+manifest["both"], url)
}

func TestRegisterErrors(t *testing.T) {
	env := NewEnvironment(t.TempDir(), "gen", "/static")

	assert.ErrorIs(t, env.Register("empty", &Bundle{}), ErrEmptyBundle)

	bundle := &Bundle{Contents: []string{"x.css"}, Output: "gen/x.css"}
	require.NoError(t, env.Register("x", bundle))
	assert.ErrorIs(t, env.Register("x", bundle), ErrDuplicateBundle)
}

func TestBuildMissingSource(t *testing.T) {
	env := NewDefaultEnvironment(t.TempDir(), "gen")
	_, err := env.Build()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "app/css/app.css")
}
