package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// ConfigFileName is the file FindConfig looks for.
const ConfigFileName = "xmlsyn.toml"

// Config is the decoded form of xmlsyn.toml:
//
//	extensions = [".xml", ".xsd"]
//	jobs = 4
//	poll_interval = "2s"
//	max_diagnostics = 20
//	encoding = "windows-1252"
//
//	[log]
//	verbosity = 1
//	file = "xmlsyn.log"
//
//	[lsp]
//	name = "xmlsyn"
type Config struct {
	Extensions     []string  `toml:"extensions"`
	Jobs           int       `toml:"jobs"`
	PollInterval   Duration  `toml:"poll_interval"`
	MaxDiagnostics int       `toml:"max_diagnostics"`
	Encoding       string    `toml:"encoding"`
	Log            LogConfig `toml:"log"`
	LSP            LSPConfig `toml:"lsp"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

type LSPConfig struct {
	Name string `toml:"name"`
}

// Duration decodes TOML strings such as "500ms" or "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func DefaultConfig() Config {
	return Config{
		Extensions:   []string{".xml"},
		Jobs:         runtime.GOMAXPROCS(0),
		PollInterval: Duration{time.Second},
		LSP:          LSPConfig{Name: "xmlsyn"},
	}
}

// FindConfig walks up from startDir looking for xmlsyn.toml.
func FindConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig decodes path over the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FindAndLoadConfig returns the defaults when no config file exists above
// startDir.
func FindAndLoadConfig(startDir string) (Config, string, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return DefaultConfig(), "", nil
	}
	cfg, err := LoadConfig(path)
	return cfg, path, err
}

func (c Config) validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative")
	}
	if c.MaxDiagnostics < 0 {
		return fmt.Errorf("max_diagnostics must not be negative")
	}
	if c.PollInterval.Duration <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with '.'", ext)
		}
	}
	if _, err := c.DecoderEncoding(); err != nil {
		return err
	}
	return nil
}

// Matches reports whether path has one of the configured extensions.
func (c Config) Matches(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range c.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// DecoderEncoding resolves the configured encoding name using the WHATWG
// label set. An empty name means UTF-8.
func (c Config) DecoderEncoding() (encoding.Encoding, error) {
	if c.Encoding == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(c.Encoding)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", c.Encoding, err)
	}
	return enc, nil
}
