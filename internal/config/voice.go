package config

import (
	"fmt"
	"strings"
	"time"

	voiceService "BrailleVoice/internal/api/voice/service"
	"BrailleVoice/pkg/bcrypt"
	"BrailleVoice/pkg/command"
	"BrailleVoice/pkg/events"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type VoiceConfig struct {
	Profile         string        `mapstructure:"profile"`
	HomePath        string        `mapstructure:"home_path"`
	DefaultTheme    string        `mapstructure:"default_theme"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	PendingTTL      time.Duration `mapstructure:"pending_ttl"`
	AnalyticsWindow time.Duration `mapstructure:"analytics_window"`
	RateLimit       float64       `mapstructure:"rate_limit"`
	RateBurst       int           `mapstructure:"rate_burst"`
	BcryptCost      int           `mapstructure:"bcrypt_cost"`
	Kafka           KafkaConfig   `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// LoadVoiceConfig reads voice.yaml from the working directory or ./configs when
// configFile is empty. VOICE_* environment variables override the file, e.g.
// VOICE_PROFILE or VOICE_KAFKA_TOPIC. KAFKA_BROKERS is accepted as well.
func LoadVoiceConfig(configFile string, log *logrus.Logger) (*VoiceConfig, error) {
	v := viper.New()

	v.SetDefault("profile", string(command.ProfilePanel))
	v.SetDefault("home_path", "")
	v.SetDefault("default_theme", string(command.ThemeLight))
	v.SetDefault("session_ttl", "12h")
	v.SetDefault("pending_ttl", "30s")
	v.SetDefault("analytics_window", "168h")
	v.SetDefault("rate_limit", 5)
	v.SetDefault("rate_burst", 10)
	v.SetDefault("bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("kafka.enabled", true)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", events.DefaultTopic)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("voice")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("VOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("kafka.brokers", "VOICE_KAFKA_BROKERS", "KAFKA_BROKERS"); err != nil {
		return nil, fmt.Errorf("binding kafka brokers: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading voice config: %w", err)
		}
		log.Debug("No voice config file found, using defaults and environment variables")
	} else {
		log.WithField("path", v.ConfigFileUsed()).Info("Loaded voice config file")
	}

	var cfg VoiceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling voice config: %w", err)
	}

	cfg.Kafka.Brokers = splitBrokers(cfg.Kafka.Brokers)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *VoiceConfig) Validate() error {
	if _, err := command.Profile(c.Profile).Features(); err != nil {
		return err
	}

	switch command.ThemeMode(c.DefaultTheme) {
	case command.ThemeDark, command.ThemeLight:
	default:
		return fmt.Errorf("default theme must be dark or light, got %q", c.DefaultTheme)
	}

	if c.HomePath != "" && !strings.HasPrefix(c.HomePath, "/") {
		return fmt.Errorf("home path must start with /, got %q", c.HomePath)
	}

	if c.BcryptCost != 0 {
		if err := bcrypt.ValidateCost(c.BcryptCost); err != nil {
			return err
		}
	}

	return nil
}

func (c *VoiceConfig) ServiceConfig() *voiceService.Config {
	return &voiceService.Config{
		Profile:         command.Profile(c.Profile),
		HomePath:        c.HomePath,
		DefaultTheme:    command.ThemeMode(c.DefaultTheme),
		SessionTTL:      c.SessionTTL,
		PendingTTL:      c.PendingTTL,
		AnalyticsWindow: c.AnalyticsWindow,
	}
}

func (c *VoiceConfig) EventsConfig() *events.Config {
	return &events.Config{
		Enabled: c.Kafka.Enabled,
		Brokers: c.Kafka.Brokers,
		Topic:   c.Kafka.Topic,
	}
}

// splitBrokers flattens "a:9092,b:9092" entries coming from the environment.
func splitBrokers(in []string) []string {
	var brokers []string
	for _, entry := range in {
		for _, broker := range strings.Split(entry, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				brokers = append(brokers, broker)
			}
		}
	}
	return brokers
}
