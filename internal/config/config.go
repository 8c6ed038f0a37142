package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"60"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		MaxUploadSize   int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10 MB
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN            string `env:"DSN,required"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout   int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		MaxOpenConns   int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns   int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
		AutoMigrate    bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	} `envPrefix:"DATABASE_"`
	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"admin"`
		Password string `env:"PASSWORD,required"`
		Email    string `env:"EMAIL" envDefault:"admin@talentoplus.com"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Secret     string `env:"SECRET,required"`
		Issuer     string `env:"ISSUER" envDefault:"TalentoPlus"`
		Audience   string `env:"AUDIENCE" envDefault:"TalentoPlusClients"`
		Expiration int    `env:"EXPIRATION" envDefault:"3"` // 小时
	} `envPrefix:"JWT_"`
	Email struct {
		SMTP struct {
			Host        string `env:"HOST"` // 为空时只在日志中打印邮件
			Port        int    `env:"PORT" envDefault:"587"`
			Sender      string `env:"SENDER"`
			Password    string `env:"PASSWORD"`
			EnableSSL   bool   `env:"ENABLE_SSL" envDefault:"false"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		DB               int    `env:"DB" envDefault:"0"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
	} `envPrefix:"REDIS_"`
	OTP struct {
		Expiration int `env:"EXPIRATION" envDefault:"900"` // 15 分钟
	} `envPrefix:"OTP_"`
	Gemini struct {
		APIKey  string `env:"API_KEY"`
		Model   string `env:"MODEL" envDefault:"gemini-2.5-flash"`
		BaseURL string `env:"BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
		Timeout int    `env:"TIMEOUT" envDefault:"60"`
	} `envPrefix:"GEMINI_"`
	CORS struct {
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	} `envPrefix:"CORS_"`
}

func LoadConfig() (*Config, error) {
	// .env 文件是可选的，不存在时直接读取环境变量
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}

func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Database.QueryTimeout) * time.Second
}

func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.JWT.Expiration) * time.Hour
}
