package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-core-fx/config"
)

type http struct {
	Address     string   `koanf:"address"`
	ProxyHeader string   `koanf:"proxy_header"`
	Proxies     []string `koanf:"proxies"`
}

type storageConfig struct {
	DataDir string `koanf:"data_dir"`
}

type gistConfig struct {
	Host     string `koanf:"host"`
	Username string `koanf:"username"`
	Token    string `koanf:"token"`
}

type gitConfig struct {
	SSHUser          string `koanf:"ssh_user"`
	SSHHost          string `koanf:"ssh_host"` // gist.<gist.host> when empty
	CommitMessage    string `koanf:"commit_message"`
	AllowEmptyCommit bool   `koanf:"allow_empty_commit"`

	// Identity used when the repository has no user configured
	AuthorName  string `koanf:"author_name"`
	AuthorEmail string `koanf:"author_email"`

	SSHKeyFingerprint string `koanf:"ssh_key_fingerprint"`
}

type workspaceConfig struct {
	BaseDir   string `koanf:"base_dir"`
	KeepClone bool   `koanf:"keep_clone"`
}

type Config struct {
	HTTP http `koanf:"http"`

	Storage   storageConfig   `koanf:"storage"`
	Gist      gistConfig      `koanf:"gist"`
	Git       gitConfig       `koanf:"git"`
	Workspace workspaceConfig `koanf:"workspace"`
}

func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	root := filepath.Join(home, ".gistit")

	//nolint:exhaustruct //default values
	return Config{
		HTTP: http{
			Address:     "127.0.0.1:3000",
			ProxyHeader: "X-Forwarded-For",
			Proxies:     []string{},
		},

		Storage: storageConfig{
			DataDir: filepath.Join(root, "data"),
		},

		Gist: gistConfig{
			Host: "github.com",
		},

		Git: gitConfig{
			SSHUser:          "git",
			AllowEmptyCommit: true,
			AuthorName:       "gistit",
			AuthorEmail:      "gistit@localhost",
		},

		Workspace: workspaceConfig{
			BaseDir: root,
		},
	}
}

func New() (Config, error) {
	cfg := Default()

	options := []config.Option{}
	if yamlPath := os.Getenv("CONFIG_PATH"); yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.applyGitHubEnv()

	if cfg.Git.SSHHost == "" {
		cfg.Git.SSHHost = "gist." + cfg.Gist.Host
	}

	return cfg, nil
}

// applyGitHubEnv lets the variables GitHub tooling already uses override
// the gist credentials.
func (c *Config) applyGitHubEnv() {
	if username := os.Getenv("GITHUB_USERNAME"); username != "" {
		c.Gist.Username = username
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.Gist.Token = token
	}
}
