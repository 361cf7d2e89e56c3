package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Account credentials
	Username    string
	PasswordMD5 string

	// API host and scheme
	// Default: "imgsrc.ru" over http
	RootHost string
	Scheme   string

	// HTTP timeout (in seconds)
	Timeout int

	// Response cache directory, and whether GETs are served from it
	CacheDir    string
	CacheReplay bool

	// Data directory for the upload journal
	DataDir string

	LogLevel string

	Upload UploadConfig
}

// UploadConfig holds upload specific configuration
type UploadConfig struct {
	MaxAttempts  int
	RetryDelay   int // seconds
	Base64       bool
	MaxDimension int // 0 disables resizing
}

// envReplacer maps nested keys to environment names (upload.base64 -> UPLOAD_BASE64)
var envReplacer = strings.NewReplacer(".", "_")

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables, e.g. IMGSRC_UPLOAD_MAX_ATTEMPTS
	v.SetEnvPrefix("IMGSRC")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("root_host", "imgsrc.ru")
	v.SetDefault("scheme", "http")
	v.SetDefault("timeout", 60)
	v.SetDefault("cache_dir", filepath.Join(home, ".cache", "imgsrc"))
	v.SetDefault("cache_replay", false)
	v.SetDefault("data_dir", filepath.Join(home, ".local", "share", "imgsrc"))
	v.SetDefault("log_level", "info")
	v.SetDefault("upload.max_attempts", 3)
	v.SetDefault("upload.retry_delay", 0)
	v.SetDefault("upload.base64", false)
	v.SetDefault("upload.max_dimension", 0)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Username:    v.GetString("username"),
		PasswordMD5: v.GetString("password_md5"),
		RootHost:    v.GetString("root_host"),
		Scheme:      v.GetString("scheme"),
		Timeout:     v.GetInt("timeout"),
		CacheDir:    v.GetString("cache_dir"),
		CacheReplay: v.GetBool("cache_replay"),
		DataDir:     v.GetString("data_dir"),
		LogLevel:    v.GetString("log_level"),
		Upload: UploadConfig{
			MaxAttempts:  v.GetInt("upload.max_attempts"),
			RetryDelay:   v.GetInt("upload.retry_delay"),
			Base64:       v.GetBool("upload.base64"),
			MaxDimension: v.GetInt("upload.max_dimension"),
		},
	}
}

// HasCredentials reports whether username and password digest are set
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.PasswordMD5 != ""
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "imgsrc")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	return c.SaveTo(filepath.Join(getConfigDir(), "config.yaml"))
}

// SaveTo writes configuration to the given file
func (c *Config) SaveTo(configFile string) error {
	v := viper.New()

	v.Set("username", c.Username)
	v.Set("password_md5", c.PasswordMD5)
	v.Set("root_host", c.RootHost)
	v.Set("scheme", c.Scheme)
	v.Set("timeout", c.Timeout)
	v.Set("cache_dir", c.CacheDir)
	v.Set("cache_replay", c.CacheReplay)
	v.Set("data_dir", c.DataDir)
	v.Set("log_level", c.LogLevel)
	v.Set("upload.max_attempts", c.Upload.MaxAttempts)
	v.Set("upload.retry_delay", c.Upload.RetryDelay)
	v.Set("upload.base64", c.Upload.Base64)
	v.Set("upload.max_dimension", c.Upload.MaxDimension)

	// Write to file
	return v.WriteConfigAs(configFile)
}

// LoadFrom reads configuration from a specific file, with defaults applied
func LoadFrom(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return fromViper(v), nil
}
