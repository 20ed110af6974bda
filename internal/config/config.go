package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all bot configuration
type Config struct {
	Nick       string      `yaml:"nick"`
	Alternate  string      `yaml:"alternate"`
	Username   string      `yaml:"username"`
	IRCName    string      `yaml:"irc_name"`
	Server     string      `yaml:"server"`
	Port       int         `yaml:"port"`
	ServerPass string      `yaml:"server_pass"`
	Channel    string      `yaml:"channel"`
	DataDir    string      `yaml:"data_dir"`
	LogLevel   string      `yaml:"log_level"`
	Welcome    string      `yaml:"welcome"`
	Farewell   string      `yaml:"farewell"`
	Flood      Flood       `yaml:"flood"`
	Privileges []Privilege `yaml:"privileges"`
}

// Flood configures outbound chat throttling
type Flood struct {
	Burst int           `yaml:"burst"`
	Pause time.Duration `yaml:"pause"`
}

// Privilege is a static operator entry
type Privilege struct {
	Nick       string `yaml:"nick"`
	Ident      string `yaml:"ident"`
	Capability string `yaml:"capability"`
	Greeting   string `yaml:"greeting"`
	Farewell   string `yaml:"farewell"`
}

// Load reads and parses a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults
func Parse(data []byte) (*Config, error) {
	cfg := Config{
		Welcome:  "Welcome!",
		Farewell: "Goodbye!",
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults
	if cfg.Port == 0 {
		cfg.Port = 6667
	}
	if cfg.Username == "" {
		cfg.Username = cfg.Nick
	}
	if cfg.IRCName == "" {
		cfg.IRCName = cfg.Nick
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	for i := range cfg.Privileges {
		if cfg.Privileges[i].Capability == "" {
			cfg.Privileges[i].Capability = "+o"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the fields needed to connect are present
func (c *Config) Validate() error {
	var errs []error
	if c.Nick == "" {
		errs = append(errs, errors.New("nick is required"))
	}
	if c.Server == "" {
		errs = append(errs, errors.New("server is required"))
	}
	if c.Channel == "" {
		errs = append(errs, errors.New("channel is required"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	for i, p := range c.Privileges {
		if p.Nick == "" {
			errs = append(errs, fmt.Errorf("privileges[%d]: nick is required", i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Address returns the server's host:port
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server, strconv.Itoa(c.Port))
}
