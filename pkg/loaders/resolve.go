package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ResolveScene finds a scene by name. The name is tried, in order, as a
// built-in scene id, a "json:<name>" id from scene discovery, a path to a
// scene file, and a file in scenesDir with or without the .json extension.
func ResolveScene(name, scenesDir string) (*scene.Scene, error) {
	if s, ok := scene.NewBuiltinScene(name); ok {
		return s, nil
	}

	name = strings.TrimPrefix(name, "json:")

	candidates := []string{name}
	if scenesDir != "" {
		candidates = append(candidates, filepath.Join(scenesDir, name))
		if filepath.Ext(name) == "" {
			candidates = append(candidates, filepath.Join(scenesDir, name+".json"))
		}
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return LoadSceneFile(path)
		}
	}

	return nil, fmt.Errorf("unknown scene %q", name)
}
