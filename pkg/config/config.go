package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotmgr/pkg/engine"
	"github.com/arthur-debert/dotmgr/pkg/errors"
	"github.com/arthur-debert/dotmgr/pkg/logging"
	"github.com/arthur-debert/dotmgr/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the config file looked up below $XDG_CONFIG_HOME/dotmgr
const ConfigFileName = "config.toml"

// Config is the effective dotmgr configuration
type Config struct {
	Repository string           `koanf:"repository" toml:"repository"`
	Stage      string           `koanf:"stage" toml:"stage"`
	TagConfig  string           `koanf:"tag_config" toml:"tag_config"`
	Hostname   string           `koanf:"hostname" toml:"hostname"`
	Generalize GeneralizeConfig `koanf:"generalize" toml:"generalize"`

	// File is the config file that was loaded, if any
	File string `koanf:"-" toml:"-"`
}

// GeneralizeConfig holds options for folding concrete files back
type GeneralizeConfig struct {
	Policy engine.Policy `koanf:"policy" toml:"policy"`
}

// envKeys maps environment variables to config keys
var envKeys = map[string]string{
	paths.EnvRepo:     "repository",
	paths.EnvStage:    "stage",
	paths.EnvTagConf:  "tag_config",
	"DOTMGR_HOSTNAME": "hostname",
	"DOTMGR_POLICY":   "generalize.policy",
}

// LoadOptions holds options for Load
type LoadOptions struct {
	// File overrides the config file location. An explicitly named file must
	// exist; the default location is optional.
	File string

	// Overrides are applied last, for values given on the command line
	Overrides map[string]interface{}
}

// Load builds the configuration from defaults, the config file, the
// environment and opts.Overrides
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default configuration")
	}

	// 2. Config file
	path, required := configFile(opts.File)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config file %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	} else if required {
		return nil, errors.Newf(errors.ErrConfig, "config file not found: %s", path).
			WithDetail("path", path)
	} else {
		path = ""
	}

	// 3. Environment
	if err := k.Load(env.Provider("DOTMGR_", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfig, "failed to load environment variables")
	}

	// 4. Command line
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfig, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				stringToPolicyHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	cfg.File = path

	if err := postProcessConfig(&cfg); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("repository", cfg.Repository).
		Str("stage", cfg.Stage).
		Str("tag_config", cfg.TagConfig).
		Str("hostname", cfg.Hostname).
		Str("policy", string(cfg.Generalize.Policy)).
		Msg("Configuration loaded")

	return &cfg, nil
}

// DefaultFile returns the config file used when DOTMGR_CONFIG is unset
func DefaultFile() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, paths.AppName, ConfigFileName)
}

// PathOptions returns the locations for paths.New
func (c *Config) PathOptions() paths.Options {
	return paths.Options{
		Repository: c.Repository,
		Stage:      c.Stage,
		TagConfig:  c.TagConfig,
	}
}

func configFile(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if fromEnv := os.Getenv(paths.EnvConfig); fromEnv != "" {
		return fromEnv, true
	}
	return DefaultFile(), false
}

func postProcessConfig(cfg *Config) error {
	if cfg.Hostname == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return errors.Wrap(err, errors.ErrConfig, "failed to determine host name")
		}
		cfg.Hostname = hostname
	}
	if cfg.Generalize.Policy == "" {
		cfg.Generalize.Policy = engine.PolicyShared
	}
	cfg.TagConfig = strings.TrimSpace(cfg.TagConfig)
	return nil
}

// stringToPolicyHookFunc validates generalize policies while decoding
func stringToPolicyHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(engine.Policy("")) {
			return data, nil
		}
		return engine.ParsePolicy(data.(string))
	}
}
