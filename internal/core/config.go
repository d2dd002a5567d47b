package core

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/kelseyhightower/envconfig"
)

const (
	BaseDirName    = ".config/minebridge"
	ConfigFileName = "config.hcl"
	EnvPrefix      = "minebridge"
)

// Config is the global configuration instance, populated once during command
// initialization before any command runs.
var Config *Configuration

// Configuration represents the complete minebridge configuration
type Configuration struct {
	ConfigPath  string // Directory containing the config file
	Verbose     int    // Verbosity level
	Listen      string // HTTP API listen address
	SecretToken string // Shared secret for the HTTP API
	RCON        RCONConfig
	Log         LogConfig
	Webhook     WebhookConfig
}

// RCONConfig represents the remote console connection settings
type RCONConfig struct {
	Host     string        // Game server host
	Port     int           // RCON port
	Password string        // RCON password (may come from env or keyring)
	Timeout  time.Duration // Dial and I/O deadline for RCON calls
}

// LogConfig represents the log file watching settings
type LogConfig struct {
	Path          string   // Path to the server log file
	ExtraPatterns []string // Additional noteworthy patterns beyond the built-ins
}

// WebhookConfig represents the outbound notification settings
type WebhookConfig struct {
	URL string // Webhook URL; empty disables notifications
}

// HCL parsing structs

type hclConfig struct {
	Verbose     int         `hcl:"verbose,optional"`
	Listen      string      `hcl:"listen,optional"`
	SecretToken string      `hcl:"secret_token,optional"`
	RCON        *hclRCON    `hcl:"rcon,block"`
	Log         *hclLog     `hcl:"log,block"`
	Webhook     *hclWebhook `hcl:"webhook,block"`
}

type hclRCON struct {
	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	Password string `hcl:"password,optional"`
	Timeout  string `hcl:"timeout,optional"`
}

type hclLog struct {
	Path          string   `hcl:"path,optional"`
	ExtraPatterns []string `hcl:"extra_patterns,optional"`
}

type hclWebhook struct {
	URL string `hcl:"url,optional"`
}

// envOverrides mirrors the settings that can be supplied through the
// environment. Any non-zero value wins over the config file.
type envOverrides struct {
	Listen       string `envconfig:"LISTEN"`
	SecretToken  string `envconfig:"SECRET_TOKEN"`
	RCONHost     string `envconfig:"RCON_HOST"`
	RCONPort     int    `envconfig:"RCON_PORT"`
	RCONPassword string `envconfig:"RCON_PASSWORD"`
	RCONTimeout  string `envconfig:"RCON_TIMEOUT"`
	LogFile      string `envconfig:"LOG_FILE"`
	WebhookURL   string `envconfig:"WEBHOOK_URL"`
}

// LoadConfig loads the HCL configuration file and returns a Configuration
// with defaults applied. Environment overrides are applied on top.
func LoadConfig(filename string) (*Configuration, error) {
	cfg := GetDefaultConfig()

	if _, err := os.Stat(filename); err == nil {
		var hclCfg hclConfig
		if err := hclsimple.DecodeFile(filename, nil, &hclCfg); err != nil {
			return nil, fmt.Errorf("failed to parse HCL config: %w", err)
		}

		if hclCfg.Verbose != 0 {
			cfg.Verbose = hclCfg.Verbose
		}
		if hclCfg.Listen != "" {
			cfg.Listen = hclCfg.Listen
		}
		cfg.SecretToken = hclCfg.SecretToken

		if hclCfg.RCON != nil {
			if hclCfg.RCON.Host != "" {
				cfg.RCON.Host = hclCfg.RCON.Host
			}
			if hclCfg.RCON.Port != 0 {
				cfg.RCON.Port = hclCfg.RCON.Port
			}
			cfg.RCON.Password = hclCfg.RCON.Password
			if hclCfg.RCON.Timeout != "" {
				timeout, err := time.ParseDuration(hclCfg.RCON.Timeout)
				if err != nil {
					return nil, fmt.Errorf("invalid rcon timeout %q: %w", hclCfg.RCON.Timeout, err)
				}
				cfg.RCON.Timeout = timeout
			}
		}

		if hclCfg.Log != nil {
			cfg.Log.Path = hclCfg.Log.Path
			cfg.Log.ExtraPatterns = hclCfg.Log.ExtraPatterns
		}

		if hclCfg.Webhook != nil {
			cfg.Webhook.URL = hclCfg.Webhook.URL
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.ConfigPath = filepath.Dir(filename)
	return cfg, nil
}

func applyEnvOverrides(cfg *Configuration) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if env.Listen != "" {
		cfg.Listen = env.Listen
	}
	if env.SecretToken != "" {
		cfg.SecretToken = env.SecretToken
	}
	if env.RCONHost != "" {
		cfg.RCON.Host = env.RCONHost
	}
	if env.RCONPort != 0 {
		cfg.RCON.Port = env.RCONPort
	}
	if env.RCONPassword != "" {
		cfg.RCON.Password = env.RCONPassword
	}
	if env.RCONTimeout != "" {
		timeout, err := time.ParseDuration(env.RCONTimeout)
		if err != nil {
			return fmt.Errorf("invalid MINEBRIDGE_RCON_TIMEOUT %q: %w", env.RCONTimeout, err)
		}
		cfg.RCON.Timeout = timeout
	}
	if env.LogFile != "" {
		cfg.Log.Path = env.LogFile
	}
	if env.WebhookURL != "" {
		cfg.Webhook.URL = env.WebhookURL
	}

	return nil
}

// GetDefaultConfig returns a Configuration with default values
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Listen: ":3000",
		RCON: RCONConfig{
			Host:    "localhost",
			Port:    25575,
			Timeout: 10 * time.Second,
		},
	}
}

// RCONAddress returns the host:port dial address for the RCON connection
func (c *Configuration) RCONAddress() string {
	return net.JoinHostPort(c.RCON.Host, strconv.Itoa(c.RCON.Port))
}

// Validate checks that everything the bridge daemon needs is present.
// Secrets may be filled from the keyring before this is called.
func (c *Configuration) Validate() error {
	if c.SecretToken == "" {
		return fmt.Errorf("secret_token is not set (config file, MINEBRIDGE_SECRET_TOKEN, or keyring)")
	}
	if c.RCON.Password == "" {
		return fmt.Errorf("rcon password is not set (config file, MINEBRIDGE_RCON_PASSWORD, or keyring)")
	}
	if c.Log.Path == "" {
		return fmt.Errorf("log path is not set (config file or MINEBRIDGE_LOG_FILE)")
	}
	if c.RCON.Timeout <= 0 {
		return fmt.Errorf("rcon timeout must be positive, got %s", c.RCON.Timeout)
	}
	return nil
}

// ConfigFilePath returns the path of the config file inside configPath
func ConfigFilePath(configPath string) string {
	return filepath.Join(configPath, ConfigFileName)
}
