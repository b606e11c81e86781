package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Paths    PathsConfig   `mapstructure:"paths"`
	Runtime  RuntimeConfig `mapstructure:"runtime"`
	Engine   EngineConfig  `mapstructure:"engine"`
	Server   ServerConfig  `mapstructure:"server"`
}

type PathsConfig struct {
	ModelPath string `mapstructure:"model_path"`
}

type RuntimeConfig struct {
	ORTLibraryPath string `mapstructure:"ort_library_path"`
	ORTAPIVersion  uint32 `mapstructure:"ort_api_version"`
}

type EngineConfig struct {
	// SequenceLength is the model's fixed input window; segments are
	// always strictly shorter.
	SequenceLength int `mapstructure:"sequence_length"`
	// Debounce is the quiet interval before an interactive request runs.
	Debounce time.Duration `mapstructure:"debounce"`
}

type ServerConfig struct {
	ListenAddr     string        `mapstructure:"listen_addr"`
	MaxTextBytes   int           `mapstructure:"max_text_bytes"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RatePerSecond  float64       `mapstructure:"rate_per_second"`
	RateBurst      int           `mapstructure:"rate_burst"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Paths: PathsConfig{
			ModelPath: "models/nakdimon.onnx",
		},
		Runtime: RuntimeConfig{
			ORTLibraryPath: "",
			ORTAPIVersion:  23,
		},
		Engine: EngineConfig{
			SequenceLength: 126,
			Debounce:       300 * time.Millisecond,
		},
		Server: ServerConfig{
			ListenAddr:     ":8080",
			MaxTextBytes:   16384,
			RequestTimeout: 30 * time.Second,
			RatePerSecond:  0,
			RateBurst:      1,
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("paths-model-path", defaults.Paths.ModelPath, "Path to the niqqud ONNX model")
	fs.String("runtime-ort-library-path", defaults.Runtime.ORTLibraryPath, "Path to ONNX Runtime shared library")
	fs.String("ort-lib", defaults.Runtime.ORTLibraryPath, "Path to ONNX Runtime shared library (alias for --runtime-ort-library-path)")
	fs.Uint32("runtime-ort-api-version", defaults.Runtime.ORTAPIVersion, "ONNX Runtime C API version")
	fs.Int("engine-sequence-length", defaults.Engine.SequenceLength, "Model input window in characters")
	fs.Duration("engine-debounce", defaults.Engine.Debounce, "Quiet interval before interactive vocalization runs")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Maximum request text size in bytes")
	fs.Duration("server-request-timeout", defaults.Server.RequestTimeout, "Per-request vocalization deadline")
	fs.Float64("server-rate-per-second", defaults.Server.RatePerSecond, "Request rate limit (0 disables)")
	fs.Int("server-rate-burst", defaults.Server.RateBurst, "Request rate limit burst")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("ALEPHTOOLS")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("runtime.ort_library_path", "ALEPHTOOLS_ORT_LIB", "ORT_LIBRARY_PATH"); err != nil {
		return Config{}, fmt.Errorf("bind ort env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("alephtools")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	// --ort-lib is a shorthand for --runtime-ort-library-path; it wins
	// when set explicitly.
	if opts.Cmd != nil {
		if f := opts.Cmd.Flags().Lookup("ort-lib"); f != nil && f.Changed {
			cfg.Runtime.ORTLibraryPath = f.Value.String()
		}
	}

	// A sequence length zeroed out by a sparse config file falls back to
	// the stock window. The segmenter and the predictor both read this
	// value and must agree on it.
	if cfg.Engine.SequenceLength <= 0 {
		cfg.Engine.SequenceLength = DefaultConfig().Engine.SequenceLength
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("paths.model_path", c.Paths.ModelPath)
	v.SetDefault("runtime.ort_library_path", c.Runtime.ORTLibraryPath)
	v.SetDefault("runtime.ort_api_version", c.Runtime.ORTAPIVersion)
	v.SetDefault("engine.sequence_length", c.Engine.SequenceLength)
	v.SetDefault("engine.debounce", c.Engine.Debounce)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.rate_per_second", c.Server.RatePerSecond)
	v.SetDefault("server.rate_burst", c.Server.RateBurst)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("log_level", "log-level")
	v.RegisterAlias("paths.model_path", "paths-model-path")
	v.RegisterAlias("runtime.ort_library_path", "runtime-ort-library-path")
	v.RegisterAlias("runtime.ort_api_version", "runtime-ort-api-version")
	v.RegisterAlias("engine.sequence_length", "engine-sequence-length")
	v.RegisterAlias("engine.debounce", "engine-debounce")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.max_text_bytes", "server-max-text-bytes")
	v.RegisterAlias("server.request_timeout", "server-request-timeout")
	v.RegisterAlias("server.rate_per_second", "server-rate-per-second")
	v.RegisterAlias("server.rate_burst", "server-rate-burst")
}
