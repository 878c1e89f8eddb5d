package config

import (
	"fmt"
	"strings"
	"time"
)

// Config 进程级配置快照，加载后只读
type Config struct {
	AppName                  string `mapstructure:"app_name"`
	Debug                    bool   `mapstructure:"debug"`
	DatabaseURL              string `mapstructure:"database_url"`
	SecretKey                string `mapstructure:"secret_key"`
	Algorithm                string `mapstructure:"algorithm"`
	AccessTokenExpireMinutes int    `mapstructure:"access_token_expire_minutes"`
	AllowedOrigins           string `mapstructure:"allowed_origins"`
	OpenAIAPIKey             string `mapstructure:"openai_api_key"`
	AnthropicAPIKey          string `mapstructure:"anthropic_api_key"`

	Server ServerConfig `mapstructure:",squash"`
	DB     DBConfig     `mapstructure:",squash"`
	Redis  RedisConfig  `mapstructure:",squash"`
	MinIO  MinIOConfig  `mapstructure:",squash"`
	LLM    LLMConfig    `mapstructure:",squash"`
	Limit  LimitConfig  `mapstructure:",squash"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

// DBConfig 数据库连接池配置
type DBConfig struct {
	MaxOpen int `mapstructure:"db_max_open_conns"`
	MaxIdle int `mapstructure:"db_max_idle_conns"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

// MinIOConfig 头像存储
type MinIOConfig struct {
	Endpoint  string `mapstructure:"minio_endpoint"`
	AccessKey string `mapstructure:"minio_access_key"`
	SecretKey string `mapstructure:"minio_secret_key"`
	Bucket    string `mapstructure:"minio_bucket"`
	UseSSL    bool   `mapstructure:"minio_use_ssl"`
	PublicURL string `mapstructure:"minio_public_url"`
}

type LLMConfig struct {
	GLMAPIKey      string `mapstructure:"glm_api_key"`
	GLMBaseURL     string `mapstructure:"glm_base_url"`
	GLMModel       string `mapstructure:"glm_model"`
	OpenAIModel    string `mapstructure:"openai_model"`
	AnthropicModel string `mapstructure:"anthropic_model"`
}

// LimitConfig API 令牌桶限流，MaxRequests 为 0 时关闭
type LimitConfig struct {
	WindowMs    int `mapstructure:"rate_limit_window_ms"`
	MaxRequests int `mapstructure:"rate_limit_max_requests"`
}

// OriginsList 将逗号分隔的 allowed_origins 拆成有序列表
func (c *Config) OriginsList() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

func (c *Config) MinIOEnabled() bool {
	return c.MinIO.Endpoint != ""
}
