package authz

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/dora-register/pkg/configuration"
)

// Files of config/access, relative to the module root.
const (
	DefaultModelPath  = "config/access/model.conf"
	DefaultPolicyPath = "config/access/policy.csv"
)

// Config locates the casbin model, the role policy and the mode flags.
// Relative paths that do not exist under the working directory are looked
// up under the module root, so commands and tests started from a package
// directory find config/access.
type Config struct {
	ModelPath    string
	PolicyPath   string
	FlagPath     string
	FlagMode     Mode
	Logger       *logrus.Logger
	FlagProvider FlagProvider
}

// ForMode reads the checked-in model and policy and pins the mode instead
// of watching the flag file.
func ForMode(mode Mode) Config {
	return Config{
		ModelPath:    DefaultModelPath,
		PolicyPath:   DefaultPolicyPath,
		FlagProvider: StaticFlagProvider(sanitizeMode(mode)),
	}
}

// DefaultConfig builds a Config from the AUTHZ_* settings.
func DefaultConfig() Config {
	cfg := configuration.Use()
	return Config{
		ModelPath:  cfg.Authz.ModelPath,
		PolicyPath: cfg.Authz.PolicyPath,
		FlagPath:   cfg.Authz.FlagConfigPath,
		FlagMode:   sanitizeMode(Mode(cfg.Authz.Mode)),
		Logger:     cfg.Logger(),
	}
}

func (c Config) validate() error {
	if c.ModelPath == "" {
		return configError("missing model path")
	}
	if c.PolicyPath == "" {
		return configError("missing policy path")
	}
	if c.FlagPath == "" && c.FlagProvider == nil {
		return configError("missing flag configuration path")
	}
	for _, p := range []string{c.ModelPath, c.PolicyPath} {
		if _, err := os.Stat(p); err != nil {
			return configError("%s: %v", p, err)
		}
	}
	return nil
}

func (c Config) normalized() Config {
	c.ModelPath = resolvePath(c.ModelPath)
	c.PolicyPath = resolvePath(c.PolicyPath)
	if c.FlagPath != "" {
		// The flag file may be created later, so it is resolved like the
		// others but never required to exist.
		c.FlagPath = resolvePath(c.FlagPath)
	}
	return c
}

func resolvePath(p string) string {
	if p == "" {
		return ""
	}
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	root, ok := moduleRoot()
	if !ok {
		return p
	}
	if candidate := filepath.Join(root, p); fileExists(candidate) {
		return candidate
	}
	return p
}

func moduleRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
