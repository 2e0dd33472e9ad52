// Package assets concatenates static sources into versioned bundles and
// keeps a manifest mapping bundle names to their built files.
package assets

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// VersionPlaceholder is replaced by the content version in bundle outputs.
const VersionPlaceholder = "%(version)s"

const (
	manifestName  = "manifest.json"
	versionLength = 8
)

var (
	ErrDuplicateBundle = errors.New("bundle already registered")
	ErrUnknownBundle   = errors.New("unknown bundle")
	ErrEmptyBundle     = errors.New("bundle has no contents")
)

// Bundle is a group of source files written to one output file.
// Paths are relative to the static root and use forward slashes.
type Bundle struct {
	Contents []string
	Output   string
}

// Environment holds registered bundles for one static root.
type Environment struct {
	root      string
	outputDir string
	urlPrefix string

	mu       sync.RWMutex
	bundles  map[string]*Bundle
	manifest map[string]string
}

// NewEnvironment creates an environment rooted at staticPath. Built files and
// the manifest go to outputDir inside it; URLs are served under urlPrefix.
func NewEnvironment(staticPath, outputDir, urlPrefix string) *Environment {
	return &Environment{
		root:      staticPath,
		outputDir: strings.Trim(outputDir, "/"),
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		bundles:   make(map[string]*Bundle),
	}
}

// NewDefaultEnvironment registers the application stylesheet bundle.
func NewDefaultEnvironment(staticPath, outputDir string) *Environment {
	env := NewEnvironment(staticPath, outputDir, "/static")
	_ = env.Register("app_css", &Bundle{
		Contents: []string{"app/css/app.css"},
		Output:   path.Join(env.outputDir, "styles."+VersionPlaceholder+".css"),
	})
	return env
}

func (e *Environment) Register(name string, bundle *Bundle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.bundles[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBundle, name)
	}
	if len(bundle.Contents) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyBundle, name)
	}
	e.bundles[name] = bundle
	return nil
}

// Names returns the registered bundle names in sorted order.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.bundles))
	for name := range e.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build writes every bundle and the manifest, returning bundle name to
// output path (relative to the static root).
func (e *Environment) Build() (map[string]string, error) {
	manifest := make(map[string]string)

	for _, name := range e.Names() {
		e.mu.RLock()
		bundle := e.bundles[name]
		e.mu.RUnlock()

		output, content, err := e.render(bundle)
		if err != nil {
			return nil, fmt.Errorf("failed to build bundle %s: %w", name, err)
		}

		target := filepath.Join(e.root, filepath.FromSlash(output))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(target, content, 0644); err != nil {
			return nil, fmt.Errorf("failed to write bundle %s: %w", name, err)
		}
		manifest[name] = output
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(e.root, e.outputDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(e.manifestPath(), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	e.mu.Lock()
	e.manifest = manifest
	e.mu.Unlock()

	return manifest, nil
}

// URL returns the public URL of a built bundle. The manifest is read from
// disk when the environment has not built anything itself.
func (e *Environment) URL(name string) (string, error) {
	e.mu.RLock()
	manifest := e.manifest
	e.mu.RUnlock()

	if manifest == nil {
		loaded, err := e.loadManifest()
		if err != nil {
			return "", err
		}
		e.mu.Lock()
		e.manifest = loaded
		e.mu.Unlock()
		manifest = loaded
	}

	output, ok := manifest[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownBundle, name)
	}
	return path.Join(e.urlPrefix, output), nil
}

// Version computes the content version used in output names.
func Version(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])[:versionLength]
}

func (e *Environment) render(bundle *Bundle) (string, []byte, error) {
	var parts [][]byte
	for _, source := range bundle.Contents {
		data, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(source)))
		if err != nil {
			return "", nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		parts = append(parts, data)
	}

	var content []byte
	for i, part := range parts {
		if i > 0 && len(content) > 0 && content[len(content)-1] != '\n' {
			content = append(content, '\n')
		}
		content = append(content, part...)
	}

	output := strings.ReplaceAll(bundle.Output, VersionPlaceholder, Version(content))
	return output, content, nil
}

func (e *Environment) loadManifest() (map[string]string, error) {
	data, err := os.ReadFile(e.manifestPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("assets not built, run 'marcdemo assets build': %w", err)
		}
		return nil, err
	}

	var manifest map[string]string
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("invalid assets manifest: %w", err)
	}
	return manifest, nil
}

func (e *Environment) manifestPath() string {
	return filepath.Join(e.root, e.outputDir, manifestName)
}
