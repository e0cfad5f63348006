package demohost

import (
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config describes the demo host's IRC session.
type Config struct {
	Server   string   `yaml:"server,omitempty"`
	Port     int      `yaml:"port,omitempty"` // 0 derives 6667/6697 from TLS
	TLS      bool     `yaml:"tls,omitempty"`
	Nick     string   `yaml:"nick,omitempty"`
	Password string   `yaml:"password,omitempty"` // supports ${ENV_VAR} references
	Channels []string `yaml:"channels,omitempty"`
	LogLevel string   `yaml:"logLevel,omitempty"`
}

// Defaults returns the baseline demo configuration.
func Defaults() Config {
	return Config{
		Server:   "irc.libera.chat",
		TLS:      true,
		Nick:     "plugdemo",
		LogLevel: "info",
	}
}

// envVarPattern matches ${VAR_NAME} references in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} references with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return val
		}
		return match
	})
}

// LoadConfig reads a YAML config file over the defaults. A missing file
// yields defaults only. The password field may reference an environment
// variable so credentials stay out of the file.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.Password = expandEnvVars(cfg.Password)
	return cfg, nil
}
