// Package config holds the consumption engine's own configuration:
// servient scheme priority, per-binding endpoint defaults, and the
// credential store file path, loaded from YAML.
package config

import (
	"os"
	"path"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the configuration file name looked for in the
// current directory when no explicit path is given.
const DefaultConfigName = "wotconsume.yaml"

// MQTTConfig holds the defaults handed to bindings/mqtt.NewFactory.
type MQTTConfig struct {
	BrokerURL string `yaml:"brokerURL,omitempty"`
}

// HTTPConfig holds the defaults handed to bindings/http.NewFactory.
type HTTPConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty"`
}

// WSConfig holds the defaults handed to bindings/ws.NewFactory.
type WSConfig struct {
	HandshakeTimeoutSeconds int `yaml:"handshakeTimeoutSeconds,omitempty"`
}

// ConsumerConfig is the top-level YAML configuration for a wotconsume
// servient: which schemes it supports and in what preference order, the
// per-binding connection defaults, logging, and where its credential
// store file lives.
type ConsumerConfig struct {
	// SchemePriority orders the schemes dispatch.Dispatch prefers, lowest
	// index most preferred. Default when empty: ["http", "ws", "mqtt"].
	SchemePriority []string `yaml:"schemePriority,omitempty"`

	MQTT MQTTConfig `yaml:"mqtt,omitempty"`
	HTTP HTTPConfig `yaml:"http,omitempty"`
	WS   WSConfig   `yaml:"ws,omitempty"`

	// CredentialStoreFile is a YAML file of href-prefix -> credentials
	// entries, hot-reloaded by WatchCredentialStore.
	CredentialStoreFile string `yaml:"credentialStoreFile,omitempty"`

	LogLevel string `yaml:"logLevel,omitempty"`
	LogFile  string `yaml:"logFile,omitempty"`
}

// DefaultConfig returns a ConsumerConfig with the engine's baked-in
// defaults, before any file is loaded over it.
func DefaultConfig() *ConsumerConfig {
	return &ConsumerConfig{
		SchemePriority: []string{"http", "ws", "mqtt"},
		HTTP:           HTTPConfig{TimeoutSeconds: 30},
		WS:             WSConfig{HandshakeTimeoutSeconds: 10},
		LogLevel:       "info",
	}
}

// Load reads configFile (defaulting to DefaultConfigName in the current
// directory) as YAML over a copy of DefaultConfig(), so a partial file
// only overrides the fields it sets. A missing file is not an error: the
// defaults are returned as-is.
func Load(configFile string) (*ConsumerConfig, error) {
	if configFile == "" {
		configFile = DefaultConfigName
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Infof("config: %s not found, using defaults", configFile)
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}
	logrus.Infof("config: loaded %s", path.Clean(configFile))
	return cfg, nil
}
