package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — корневая структура конфигурации моста.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Discord  DiscordConfig  `mapstructure:"discord"`
	Airtable AirtableConfig `mapstructure:"airtable"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DiscordConfig описывает подключение бота и целевой канал для карточек.
type DiscordConfig struct {
	Token     string `mapstructure:"token"`
	ChannelID string `mapstructure:"channel_id"`
}

// AirtableConfig описывает доступ к record store (base/table + токен).
type AirtableConfig struct {
	Token  string `mapstructure:"token"`
	BaseID string `mapstructure:"base_id"`
	Table  string `mapstructure:"table"`
	APIURL string `mapstructure:"api_url"` // перекрывается в тестах
}

// WebhookConfig содержит общий секрет входящего вебхука и лимитер маршрута.
type WebhookConfig struct {
	Secret         string  `mapstructure:"secret"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. Настройка поиска файла
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// 2. Настройка переменных окружения (ENV)
	// Позволяет перекрывать конфиг: WEBHOOK_SECRET перекроет webhook.secret
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 3. Установка дефолтных значений
	// Обязательные ключи получают пустой дефолт, иначе ENV-биндинг не виден при Unmarshal
	setDefaults(v)

	// 4. Чтение файла
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет — работаем на ENV и дефолтах
	}

	// 5. Маппинг в структуру
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 10000)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("discord.token", "")
	v.SetDefault("discord.channel_id", "")

	v.SetDefault("airtable.token", "")
	v.SetDefault("airtable.base_id", "")
	v.SetDefault("airtable.table", "")
	v.SetDefault("airtable.api_url", "https://api.airtable.com/v0")

	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.rate_limit_rps", 5.0)
	v.SetDefault("webhook.rate_limit_burst", 10)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}

// Validate проверяет обязательные ключи и перечисляет все отсутствующие разом.
func (c *Config) Validate() error {
	var missing []string

	required := []struct {
		key   string
		value string
	}{
		{"discord.token", c.Discord.Token},
		{"discord.channel_id", c.Discord.ChannelID},
		{"airtable.token", c.Airtable.Token},
		{"airtable.base_id", c.Airtable.BaseID},
		{"airtable.table", c.Airtable.Table},
		{"webhook.secret", c.Webhook.Secret},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required config keys: %s", strings.Join(missing, ", "))
	}
	return nil
}
