package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads config/<env>.yaml.
func Load(env string) (Config, error) {
	path := locate(env + ".yaml")
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse expands environment references in data, decodes it, applies
// defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GetEnv returns $ENV, or "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// locate prefers ./config and then the config directory of the source
// tree, which lets tests run from any package.
func locate(name string) string {
	local := filepath.Join("config", name)
	dirs := []string{local}
	if _, file, _, ok := runtime.Caller(0); ok {
		root := filepath.Join(filepath.Dir(file), "..", "..")
		dirs = append(dirs, filepath.Join(root, "config", name))
	}
	for _, p := range dirs {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return local
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars substitutes ${VAR} and ${VAR:-default}. Unset variables
// without a default become empty.
func expandEnvVars(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		name, fallback, ok := strings.Cut(string(envRef.FindSubmatch(m)[1]), ":-")
		v := os.Getenv(name)
		if v == "" && ok {
			v = fallback
		}
		return []byte(v)
	})
}
