package config

import (
	"encoding/json"
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Files are tried in order when no config path is given.
var Files = []string{
	".soap.json",
	".soap.yaml",
	"soap.json",
	"soap.yaml",
}

func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	var config Config

	if err := json.Unmarshal(data, &config); err == nil {
		return &config, nil
	}

	if err := yaml.Unmarshal(data, &config); err == nil {
		return &config, nil
	}

	return nil, errors.New("failed to parse config file")
}

// Discover parses the first config file found in the working directory. It
// returns nil without error when there is none.
func Discover() (*Config, error) {
	for _, name := range Files {
		if _, err := os.Stat(name); err != nil {
			continue
		}

		return Parse(name)
	}

	return nil, nil
}

type Config struct {
	Services map[string]Service `json:"services" yaml:"services"`
}

type Service struct {
	WSDL string `json:"wsdl" yaml:"wsdl"`
	URL  string `json:"url" yaml:"url"`

	Service string `json:"service" yaml:"service"`
	Port    string `json:"port" yaml:"port"`

	Auth    *Auth             `json:"auth" yaml:"auth"`
	Headers map[string]string `json:"headers" yaml:"headers"`

	Cache *Cache `json:"cache" yaml:"cache"`

	Options map[string]any `json:"options" yaml:"options"`
}

type Auth struct {
	Type string `json:"type" yaml:"type"`

	Token string `json:"token" yaml:"token"`

	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`

	Scopes []string `json:"scopes" yaml:"scopes"`
}

type Cache struct {
	Path     string `json:"path" yaml:"path"`
	Duration string `json:"duration" yaml:"duration"`
}
