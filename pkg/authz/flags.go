package authz

import (
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode represents the global enforcement mode.
type Mode string

const (
	ModeDisabled Mode = "disabled"
	ModeShadow   Mode = "shadow"
	ModeEnforce  Mode = "enforce"
)

// FlagProvider supplies the current enforcement mode.
type FlagProvider interface {
	Mode() Mode
}

type StaticFlagProvider Mode

func (s StaticFlagProvider) Mode() Mode {
	return Mode(s)
}

// FileFlagProvider loads the mode from a YAML file such as
//
//	mode: shadow
//
// The file is re-read at most once per refresh interval so operators can
// flip modes without a restart.
type FileFlagProvider struct {
	path     string
	fallback Mode
	refresh  time.Duration

	mu       sync.Mutex
	lastMode Mode
	readAt   time.Time
	now      func() time.Time
}

// NewFileFlagProvider returns a provider backed by a YAML config file.
func NewFileFlagProvider(path string, fallback Mode) *FileFlagProvider {
	return &FileFlagProvider{
		path:     path,
		fallback: sanitizeMode(fallback),
		refresh:  5 * time.Second,
		now:      time.Now,
	}
}

func (p *FileFlagProvider) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastMode != "" && p.now().Sub(p.readAt) < p.refresh {
		return p.lastMode
	}
	p.readAt = p.now()

	data, err := os.ReadFile(p.path)
	if err != nil {
		if p.lastMode == "" {
			p.lastMode = p.fallback
		}
		return p.lastMode
	}

	var cfg struct {
		Mode string `yaml:"mode"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil || strings.TrimSpace(cfg.Mode) == "" {
		p.lastMode = p.fallback
		return p.lastMode
	}
	p.lastMode = sanitizeMode(Mode(cfg.Mode))
	return p.lastMode
}

func sanitizeMode(mode Mode) Mode {
	switch strings.ToLower(strings.TrimSpace(string(mode))) {
	case string(ModeDisabled):
		return ModeDisabled
	case string(ModeEnforce):
		return ModeEnforce
	default:
		return ModeShadow
	}
}
