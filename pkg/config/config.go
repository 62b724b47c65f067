package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-go-golems/readviz/pkg/form"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFilename = ".readviz.yaml"

type File struct {
	BaseURL           string            `yaml:"base_url,omitempty"`
	Timeout           string            `yaml:"timeout,omitempty"`
	ReenableOnFailure bool              `yaml:"reenable_on_failure,omitempty"`
	ExportDir         string            `yaml:"export_dir,omitempty"`
	Hooks             []Hook            `yaml:"hooks,omitempty"`
	Form              map[string]string `yaml:"form,omitempty"` // control id -> initial value
}

// Hook is a chart hook script. Relative paths resolve against the config
// file's directory.
type Hook struct {
	Path    string `yaml:"path"`
	Timeout string `yaml:"timeout,omitempty"`
}

func DefaultPath(dir string) string {
	return filepath.Join(dir, DefaultConfigFilename)
}

func LoadFromFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var cfg File
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config yaml")
	}
	dir := filepath.Dir(path)
	for i, h := range cfg.Hooks {
		if h.Path != "" && !filepath.IsAbs(h.Path) {
			cfg.Hooks[i].Path = filepath.Join(dir, h.Path)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return &cfg, nil
}

func LoadOptional(path string) (*File, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, errors.Wrap(err, "stat config")
	}
	return LoadFromFile(path)
}

func (f *File) Validate() error {
	if _, err := f.RequestTimeout(); err != nil {
		return err
	}
	for i, h := range f.Hooks {
		if strings.TrimSpace(h.Path) == "" {
			return errors.Errorf("hooks[%d]: path is required", i)
		}
		if h.Timeout != "" {
			if _, err := time.ParseDuration(h.Timeout); err != nil {
				return errors.Wrapf(err, "hooks[%d]: timeout", i)
			}
		}
	}
	known := map[string]struct{}{}
	for _, fld := range form.Controls() {
		known[fld.Control] = struct{}{}
	}
	var unknown []string
	for k := range f.Form {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return errors.Errorf("form: unknown controls %s", strings.Join(unknown, ", "))
	}
	return nil
}

// RequestTimeout parses Timeout. An empty value means no timeout.
func (f *File) RequestTimeout() (time.Duration, error) {
	if strings.TrimSpace(f.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return 0, errors.Wrap(err, "timeout")
	}
	if d < 0 {
		return 0, errors.Errorf("timeout must not be negative: %s", f.Timeout)
	}
	return d, nil
}
