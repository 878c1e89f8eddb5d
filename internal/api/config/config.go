package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultEnvFile 默认读取的 .env 文件
const DefaultEnvFile = ".env"

var (
	ErrMissingSecretKey = errors.New("secret_key is required")
	ErrInvalidAlgorithm = errors.New("algorithm must be one of HS256, HS384, HS512")
)

var defaults = map[string]any{
	"app_name":                    "KOL-BD-Tool",
	"debug":                       false,
	"database_url":                "sqlite:///./kol_bd_tool.db",
	"algorithm":                   "HS256",
	"access_token_expire_minutes": 10080,
	"allowed_origins":             "http://localhost:5173",
	"openai_api_key":              "",
	"anthropic_api_key":           "",

	"host":              "0.0.0.0",
	"port":              8000,
	"log_level":         "info",
	"db_max_open_conns": 20,
	"db_max_idle_conns": 5,

	"redis_addr":     "",
	"redis_password": "",
	"redis_db":       0,

	"minio_endpoint":   "",
	"minio_access_key": "",
	"minio_secret_key": "",
	"minio_bucket":     "kol-bd",
	"minio_use_ssl":    false,
	"minio_public_url": "",

	"glm_api_key":     "",
	"glm_base_url":    "https://open.bigmodel.cn/api/paas/v4",
	"glm_model":       "glm-4.5-airx",
	"openai_model":    "gpt-4o-mini",
	"anthropic_model": "claude-3-5-haiku-latest",

	"rate_limit_window_ms":    900000,
	"rate_limit_max_requests": 100,
}

// required 没有默认值但必须能从环境中解析到的 key
var required = []string{"secret_key"}

// Load 从进程环境变量和 envFile (不存在时忽略) 中解析配置
// 环境变量名大小写不敏感，进程环境优先于 .env 文件
func Load(envFile string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key := range defaults {
		if err := v.BindEnv(key, strings.ToUpper(key), key); err != nil {
			return nil, err
		}
	}
	for _, key := range required {
		if err := v.BindEnv(key, strings.ToUpper(key), key); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err = v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return ErrMissingSecretKey
	}
	switch strings.ToUpper(c.Algorithm) {
	case "HS256", "HS384", "HS512":
		c.Algorithm = strings.ToUpper(c.Algorithm)
	default:
		return ErrInvalidAlgorithm
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("access_token_expire_minutes must be positive, got %d", c.AccessTokenExpireMinutes)
	}
	return nil
}
