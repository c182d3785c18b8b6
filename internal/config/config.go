package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration. Values come from defaults, then an
// optional YAML file, then LEANFUEL_* environment variables.
type Config struct {
	Port   string `yaml:"port"`
	DBPath string `yaml:"db_path"`

	// Origins allowed to open the WebSocket. Empty allows any.
	AllowedOrigins []string `yaml:"allowed_origins"`

	Log       LogConfig      `yaml:"log"`
	Chat      ChatConfig     `yaml:"chat"`
	Reminders ReminderConfig `yaml:"reminders"`
	Push      PushConfig     `yaml:"push"`
	Backup    BackupConfig   `yaml:"backup"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

type ChatConfig struct {
	Delay time.Duration `yaml:"delay"`

	// Requests per minute per client IP.
	RateLimit int `yaml:"rate_limit"`
}

type ReminderConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timezone string        `yaml:"timezone"`
}

type PushConfig struct {
	VAPIDPublicKey  string `yaml:"vapid_public_key"`
	VAPIDPrivateKey string `yaml:"vapid_private_key"`
	Subscriber      string `yaml:"subscriber"`
}

type BackupConfig struct {
	LocalDir      string   `yaml:"local_dir"`
	Passphrase    string   `yaml:"passphrase"`
	RetentionDays int      `yaml:"retention_days"`
	S3            S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Port:   "8080",
		DBPath: "leanfuel.db",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Chat: ChatConfig{
			Delay:     time.Second,
			RateLimit: 20,
		},
		Reminders: ReminderConfig{
			Interval: time.Minute,
			Timezone: "Local",
		},
		Push: PushConfig{
			Subscriber: "mailto:noreply@leanfuel.app",
		},
		Backup: BackupConfig{
			RetentionDays: 30,
			S3: S3Config{
				Region: "us-east-1",
			},
		},
	}
}

// Load reads the YAML file at path (if path is non-empty) over the defaults and
// applies environment overrides. A missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	strs := map[string]*string{
		"LEANFUEL_PORT":              &c.Port,
		"LEANFUEL_DB_PATH":           &c.DBPath,
		"LEANFUEL_LOG_LEVEL":         &c.Log.Level,
		"LEANFUEL_LOG_FORMAT":        &c.Log.Format,
		"LEANFUEL_TIMEZONE":          &c.Reminders.Timezone,
		"LEANFUEL_VAPID_PUBLIC_KEY":  &c.Push.VAPIDPublicKey,
		"LEANFUEL_VAPID_PRIVATE_KEY": &c.Push.VAPIDPrivateKey,
		"LEANFUEL_PUSH_SUBSCRIBER":   &c.Push.Subscriber,
		"LEANFUEL_BACKUP_DIR":        &c.Backup.LocalDir,
		"LEANFUEL_BACKUP_PASSPHRASE": &c.Backup.Passphrase,
		"LEANFUEL_S3_ENDPOINT":       &c.Backup.S3.Endpoint,
		"LEANFUEL_S3_BUCKET":         &c.Backup.S3.Bucket,
		"LEANFUEL_S3_REGION":         &c.Backup.S3.Region,
		"LEANFUEL_S3_ACCESS_KEY":     &c.Backup.S3.AccessKey,
		"LEANFUEL_S3_SECRET_KEY":     &c.Backup.S3.SecretKey,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("LEANFUEL_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}

	durations := map[string]*time.Duration{
		"LEANFUEL_CHAT_DELAY":        &c.Chat.Delay,
		"LEANFUEL_REMINDER_INTERVAL": &c.Reminders.Interval,
	}
	for key, dst := range durations {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", key, err)
		}
		*dst = d
	}
	return nil
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("port is required")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.Chat.Delay < 0 {
		return fmt.Errorf("chat.delay must not be negative")
	}
	if c.Reminders.Interval <= 0 {
		return fmt.Errorf("reminders.interval must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the reminder timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Reminders.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Reminders.Timezone, err)
	}
	return loc, nil
}

// PushEnabled reports whether both VAPID keys are configured.
func (c *Config) PushEnabled() bool {
	return c.Push.VAPIDPublicKey != "" && c.Push.VAPIDPrivateKey != ""
}
