package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the companion configuration document created on first run
const DefaultFileName = "config.yaml"

var defaultAllowedExtensions = []string{
	"txt", "pdf", "doc", "docx", "jpg", "jpeg", "png", "gif", "mp3", "mp4", "zip", "rar",
}

// ListenerConfig holds the bind address of one listener profile
type ListenerConfig struct {
	Host string
	Port int
}

// Addr returns host:port
func (l ListenerConfig) Addr() string {
	return net.JoinHostPort(l.Host, strconv.Itoa(l.Port))
}

// ServerConfig holds both listener profiles
type ServerConfig struct {
	Admin           ListenerConfig
	Public          ListenerConfig
	ShutdownTimeout time.Duration
}

// DataConfig locates the registry document
type DataConfig struct {
	Dir string
}

// RegistryFile returns the path of the shared entries document
func (d DataConfig) RegistryFile() string {
	return filepath.Join(d.Dir, "shared_files.json")
}

// UploadConfig is the ingress policy
type UploadConfig struct {
	Path              string
	MaxFileSize       uint64
	AllowedExtensions []string
}

// CronConfig holds the schedules of background jobs
type CronConfig struct {
	Refresh string
	Sweep   string
}

// Config is the full HomeFiles configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Upload UploadConfig
	Cron   CronConfig

	// File is the configuration document that was read, empty when none was found
	File string
}

// document is the on-disk layout written by EnsureFile
type document struct {
	UploadPath        string   `yaml:"upload_path"`
	MaxFileSize       string   `yaml:"max_file_size"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	Data              struct {
		Dir string `yaml:"dir"`
	} `yaml:"data"`
	Server struct {
		Admin struct {
			Host string `yaml:"host"`
			Port int    `yaml:"port"`
		} `yaml:"admin"`
		Public struct {
			Host string `yaml:"host"`
			Port int    `yaml:"port"`
		} `yaml:"public"`
	} `yaml:"server"`
}

func newViper() *viper.Viper {
	v := viper.New()

	// Set default values
	v.SetDefault("server.admin.host", "127.0.0.1")
	v.SetDefault("server.admin.port", 8110)
	v.SetDefault("server.public.host", "0.0.0.0")
	v.SetDefault("server.public.port", 8111)
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("data.dir", "data")
	v.SetDefault("upload_path", "uploads")
	v.SetDefault("max_file_size", "100MB")
	v.SetDefault("allowed_extensions", defaultAllowedExtensions)
	v.SetDefault("cron.refresh", "*/5 * * * *")
	v.SetDefault("cron.sweep", "0 * * * *")

	// Environment variables
	v.AutomaticEnv()
	v.BindEnv("server.admin.host", "HOMEFILES_ADMIN_HOST")
	v.BindEnv("server.admin.port", "HOMEFILES_ADMIN_PORT")
	v.BindEnv("server.public.host", "HOMEFILES_PUBLIC_HOST")
	v.BindEnv("server.public.port", "HOMEFILES_PUBLIC_PORT")
	v.BindEnv("server.shutdown_timeout", "HOMEFILES_SHUTDOWN_TIMEOUT")
	v.BindEnv("data.dir", "HOMEFILES_DATA_DIR")
	v.BindEnv("upload_path", "HOMEFILES_UPLOAD_PATH")
	v.BindEnv("max_file_size", "HOMEFILES_MAX_FILE_SIZE")
	v.BindEnv("cron.refresh", "HOMEFILES_CRON_REFRESH")
	v.BindEnv("cron.sweep", "HOMEFILES_CRON_SWEEP")

	return v
}

// Load reads the configuration. An empty path searches ".", "$HOME/.homefiles"
// and "/etc/homefiles" for config.yaml; a missing document yields defaults.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range []string{".", "$HOME/.homefiles", "/etc/homefiles"} {
			v.AddConfigPath(os.ExpandEnv(p))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, fs.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	maxSize, err := humanize.ParseBytes(v.GetString("max_file_size"))
	if err != nil {
		return nil, fmt.Errorf("invalid max_file_size %q: %w", v.GetString("max_file_size"), err)
	}

	timeout, err := time.ParseDuration(v.GetString("server.shutdown_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid server.shutdown_timeout: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Admin: ListenerConfig{
				Host: v.GetString("server.admin.host"),
				Port: v.GetInt("server.admin.port"),
			},
			Public: ListenerConfig{
				Host: v.GetString("server.public.host"),
				Port: v.GetInt("server.public.port"),
			},
			ShutdownTimeout: timeout,
		},
		Data: DataConfig{Dir: v.GetString("data.dir")},
		Upload: UploadConfig{
			Path:              v.GetString("upload_path"),
			MaxFileSize:       maxSize,
			AllowedExtensions: NormalizeExtensions(v.GetStringSlice("allowed_extensions")),
		},
		Cron: CronConfig{
			Refresh: v.GetString("cron.refresh"),
			Sweep:   v.GetString("cron.sweep"),
		},
		File: v.ConfigFileUsed(),
	}

	if cfg.Server.Admin.Port == cfg.Server.Public.Port && cfg.Server.Admin.Port != 0 {
		return nil, fmt.Errorf("admin and public listeners share port %d", cfg.Server.Admin.Port)
	}

	return cfg, nil
}

// NormalizeExtensions lower-cases extensions and strips any leading dot
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

// EnsureFile writes a configuration document with default values to path
// unless one already exists. It reports whether a file was created.
func EnsureFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	v := newViper()
	var doc document
	doc.UploadPath = v.GetString("upload_path")
	doc.MaxFileSize = v.GetString("max_file_size")
	doc.AllowedExtensions = defaultAllowedExtensions
	doc.Data.Dir = v.GetString("data.dir")
	doc.Server.Admin.Host = v.GetString("server.admin.host")
	doc.Server.Admin.Port = v.GetInt("server.admin.port")
	doc.Server.Public.Host = v.GetString("server.public.host")
	doc.Server.Public.Port = v.GetInt("server.public.port")

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return false, fmt.Errorf("failed to encode default config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
