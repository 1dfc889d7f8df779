package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		Enabled     bool    `yaml:"enabled"`
		Provider    string  `yaml:"provider"` // openai or ollama
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
		TimeoutSecs int     `yaml:"timeout_seconds"`
		RateLimit   float64 `yaml:"rate_limit"`
	} `yaml:"llm"`

	Report struct {
		OutDir string `yaml:"out_dir"`
	} `yaml:"report"`

	Visuals struct {
		Enabled  bool   `yaml:"enabled"`
		OutDir   string `yaml:"out_dir"`
		FontFile string `yaml:"font_file"`
	} `yaml:"visuals"`

	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"docalyze.yaml",
			"docalyze.yml",
			filepath.Join(os.Getenv("HOME"), ".config/docalyze/config.yaml"),
			"/etc/docalyze/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Provider == "" {
		config.LLM.Provider = "openai"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "gpt-4o-mini"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 1024
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.2
	}
	if config.LLM.TimeoutSecs == 0 {
		config.LLM.TimeoutSecs = 30
	}
	if config.LLM.RateLimit == 0 {
		config.LLM.RateLimit = 2.0
	}

	if config.Report.OutDir == "" {
		config.Report.OutDir = "reports/generated"
	}
	if config.Visuals.OutDir == "" {
		config.Visuals.OutDir = "reports/visuals"
	}

	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.Provider = "ollama"
		config.LLM.BaseURL = baseURL
	}
	if model := os.Getenv("DOCALYZE_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if font := os.Getenv("DOCALYZE_FONT"); font != "" {
		config.Visuals.FontFile = font
	}
}
