package config

import (
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	CORSOrigins string `mapstructure:"corsOrigins"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type NotificationsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Recipients string `mapstructure:"recipients"` // comma separated
}

type FulfillmentConfig struct {
	LockWait  time.Duration `mapstructure:"lockWait"`
	TxTimeout time.Duration `mapstructure:"txTimeout"`
}

type LowStockConfig struct {
	Hour int `mapstructure:"hour"`
}

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	SMTP          SMTPConfig          `mapstructure:"smtp"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Fulfillment   FulfillmentConfig   `mapstructure:"fulfillment"`
	LowStock      LowStockConfig      `mapstructure:"lowStock"`
}

// LoadConfig reads configuration from environment variables. Every key is
// env-bound; no config file is required.
func LoadConfig() (config Config, err error) {
	viper.AutomaticEnv()

	viper.BindEnv("server.host", "APP_HOST")
	viper.BindEnv("server.corsOrigins", "CORS_ORIGINS")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("smtp.host", "SMTP_HOST")
	viper.BindEnv("smtp.port", "SMTP_PORT")
	viper.BindEnv("smtp.user", "SMTP_USER")
	viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	viper.BindEnv("smtp.from", "SMTP_FROM")
	viper.BindEnv("notifications.enabled", "EMAIL_ENABLED")
	viper.BindEnv("notifications.recipients", "NOTIFY_EMAILS")
	viper.BindEnv("fulfillment.lockWait", "FULFILL_LOCK_WAIT")
	viper.BindEnv("fulfillment.txTimeout", "FULFILL_TX_TIMEOUT")
	viper.BindEnv("lowStock.hour", "LOW_STOCK_HOUR")

	viper.SetDefault("server.host", ":8080")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("fulfillment.lockWait", "10s")
	viper.SetDefault("fulfillment.txTimeout", "15s")
	viper.SetDefault("lowStock.hour", 7)

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return
}
