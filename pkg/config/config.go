// Package config loads the console and endpoint settings.
//
// Values are layered, lowest to highest: built-in defaults, an optional
// YAML file, GABI_ environment variables and explicitly set flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	gabienv "github.com/app-sre/gabi-console/pkg/env"
	"github.com/app-sre/gabi-console/pkg/env/db"
)

const (
	EnvPrefix = "GABI_"

	DefaultEndpoint = "http://localhost:8080/query"
	DefaultTimeout  = 30 * time.Second
	DefaultFormat   = "text"
	DefaultPort     = 8080

	defaultServerTimeout = 2 * time.Minute
	localEndpointFormat  = "http://localhost:%d/query"
)

// sections lists the nested keys that environment variables may address,
// so GABI_DB_ALLOW_WRITE maps to db.allow_write.
var sections = []string{"db", "server"}

// flagKeys maps flag names that differ from their configuration keys.
var flagKeys = map[string]string{
	"port":        "server.port",
	"allow-write": "db.allow_write",
}

type Config struct {
	Endpoint   string        `koanf:"endpoint"`
	Timeout    time.Duration `koanf:"timeout"`
	Format     string        `koanf:"format"`
	Production bool          `koanf:"production"`
	Server     Server        `koanf:"server"`
	DB         db.Env        `koanf:"db"`
}

type Server struct {
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// Load reads the configuration. An empty path skips the file layer; flags
// may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"timeout":        DefaultTimeout.String(),
		"format":         DefaultFormat,
		"production":     false,
		"server.port":    DefaultPort,
		"server.timeout": defaultServerTimeout.String(),
		"db.allow_write": false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("unable to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("unable to read configuration file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("unable to load environment variables: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("unable to load flags: %w", err)
		}
	}

	// Without an explicit endpoint the console talks to the local server.
	if k.String("endpoint") == "" {
		if err := k.Set("endpoint", fmt.Sprintf(localEndpointFormat, k.Int("server.port"))); err != nil {
			return nil, fmt.Errorf("unable to set default endpoint: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings shared by every command. Database settings
// are checked separately, since only the server needs them.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return &gabienv.Error{Name: "endpoint"}
	}
	if c.Timeout < 0 {
		return &gabienv.TypeError{Name: "timeout", Value: c.Timeout.String()}
	}

	switch c.Format {
	case "text", "html":
	default:
		return &gabienv.TypeError{Name: "format", Value: c.Format}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &gabienv.TypeError{Name: "server.port", Value: fmt.Sprint(c.Server.Port)}
	}
	if c.Server.Timeout <= 0 {
		return &gabienv.TypeError{Name: "server.timeout", Value: c.Server.Timeout.String()}
	}

	return nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}
