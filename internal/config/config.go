// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// 全局配置变量，在 Init 中赋值。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Versions  VersionsConfig  `mapstructure:"versions"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// BaseURL 作为 HTTP-Referer 发送给模型网关。
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	// URL 支持 mysql DSN、postgres:// 以及 sqlite:/file: 三种形式，为空时版本存储不可用。
	URL   string      `mapstructure:"url"`
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig 存储 Redis 的配置，Addr 为空表示不启用缓存。
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig 存储 Kafka 相关的配置，Brokers 为空表示不发布版本事件。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// LLMConfig 存储补全服务（OpenRouter 兼容网关）相关的配置。
type LLMConfig struct {
	APIKey     string              `mapstructure:"api_key"`
	BaseURL    string              `mapstructure:"base_url"`
	Model      string              `mapstructure:"model"`
	Title      string              `mapstructure:"title"`
	Timeout    time.Duration       `mapstructure:"timeout"`
	Generation LLMGenerationConfig `mapstructure:"generation"`
}

// LLMGenerationConfig 配置生成相关参数（可选，零值不发送）。
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// WorkspaceConfig 配置工作台沙箱需要的组件源码目录。
type WorkspaceConfig struct {
	ComponentDir string `mapstructure:"component_dir"`
}

// VersionsConfig 配置版本列表的默认条数与上限。
type VersionsConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// ErrMissingAPIKey 表示未配置补全服务的 API key，启动时视为致命错误。
var ErrMissingAPIKey = errors.New("OPENROUTER_API_KEY environment variable is not set")

// 环境变量与配置键的映射。
var envBindings = map[string][]string{
	"llm.api_key":             {"OPENROUTER_API_KEY"},
	"llm.base_url":            {"OPENROUTER_BASE_URL"},
	"llm.model":               {"OPENROUTER_MODEL"},
	"database.url":            {"DATABASE_URL"},
	"database.redis.addr":     {"REDIS_ADDR"},
	"database.redis.password": {"REDIS_PASSWORD"},
	"kafka.brokers":           {"KAFKA_BROKERS"},
	"server.port":             {"PORT"},
	"server.base_url":         {"APP_BASE_URL", "NEXT_PUBLIC_BASE_URL"},
	"workspace.component_dir": {"COMPONENT_DIR"},
	"log.level":               {"LOG_LEVEL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.model", "stepfun/step-3.5-flash:free")
	v.SetDefault("llm.title", "Ryze UI Generator")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("database.redis.ttl", 24*time.Hour)
	v.SetDefault("kafka.topic", "uigen.versions")
	v.SetDefault("workspace.component_dir", ".")
	v.SetDefault("versions.default_limit", 50)
	v.SetDefault("versions.max_limit", 60)
}

// Load 读取配置：默认值 < YAML 文件 < 环境变量。
// configPath 指向的文件不存在时只使用默认值和环境变量。
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return Config{}, fmt.Errorf("绑定环境变量失败 %s: %w", key, err)
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	return cfg, nil
}

// Validate 检查启动必需的配置。只有缺失 API key 是致命的。
func (c Config) Validate() error {
	if c.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Init 加载配置到全局 Conf，失败时 panic（与启动流程保持一致）。
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = cfg
}
