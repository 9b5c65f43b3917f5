package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 是配置的根结构体
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	WeChat  WeChatConfig  `yaml:"wechat"`
	RagFlow RagFlowConfig `yaml:"ragflow"`
	Cache   CacheConfig   `yaml:"cache"`
	Codec   CodecConfig   `yaml:"codec"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig 包含服务器相关配置
type ServerConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"` // 微信回调地址
}

// WeChatConfig 包含微信相关配置
type WeChatConfig struct {
	AppID         string        `yaml:"app_id"`
	Token         string        `yaml:"token"`
	SkipSignature bool          `yaml:"skip_signature"` // 仅用于本地调试
	ReplyTimeout  time.Duration `yaml:"reply_timeout"`  // 微信要求 5 秒内回复
	Welcome       string        `yaml:"welcome"`        // 关注后的欢迎语
}

// RagFlowConfig 包含RAGFlow服务相关配置
type RagFlowConfig struct {
	Enabled        bool          `yaml:"enabled"`
	BaseURL        string        `yaml:"base_url"`
	ApiKey         string        `yaml:"api_key"`
	ChatID         string        `yaml:"chat_id"`
	MaxRetries     int           `yaml:"max_retries"` // 0 使用默认值，负数表示不重试
	RetryInterval  time.Duration `yaml:"retry_interval"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// CacheConfig 回复缓存，用于处理微信的重试
type CacheConfig struct {
	Driver string        `yaml:"driver"` // memory 或 redis
	TTL    time.Duration `yaml:"ttl"`
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CodecConfig 编解码配置
type CodecConfig struct {
	// Timezone 解码后 CreateTime 所在时区：Local、UTC 或 IANA 名称
	Timezone string `yaml:"timezone"`
}

// Location 返回 Timezone 对应的时区
func (c CodecConfig) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Timezone)
	}
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string         `yaml:"level"`   // debug, info, warn, error
	Format      string         `yaml:"format"`  // console 或 json
	Outputs     []string       `yaml:"outputs"` // stdout、stderr 或文件路径
	Development bool           `yaml:"development"`
	Rotation    RotationConfig `yaml:"rotation"`
}

// RotationConfig 日志文件切割
type RotationConfig struct {
	Enable     bool   `yaml:"enable"`
	Filename   string `yaml:"filename"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// MetricsConfig Prometheus 指标
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

var (
	config     *Config
	configOnce sync.Once
)

// ErrNotFound 在所有位置都没有找到配置文件
var ErrNotFound = errors.New("config: no config file found")

// GetConfig 返回配置单例，找不到配置文件时使用默认值
func GetConfig() *Config {
	configOnce.Do(func() {
		cfg, err := Find()
		if err != nil {
			log.Printf("加载配置文件失败: %v，将使用默认值\n", err)
			cfg = Default()
		}
		config = cfg
	})

	return config
}

// Find 从多个位置查找配置文件并加载
func Find() (*Config, error) {
	configPaths := []string{
		"config.yml",    // 当前目录
		"../config.yml", // 上级目录
		filepath.Join(os.Getenv("HOME"), "config.yml"), // 用户主目录
	}

	for _, path := range configPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		log.Printf("从 %s 加载配置\n", path)
		return Load(path)
	}
	return nil, ErrNotFound
}

// Load 读取配置文件，支持 ${VAR} 形式的环境变量
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 配置并填充默认值
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("配置校验失败: %w", err)
	}
	return cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.Path == "" {
		c.Server.Path = "/wechat"
	}
	if c.WeChat.Token == "" {
		c.WeChat.Token = "wechat_rag_token"
	}
	if c.WeChat.ReplyTimeout == 0 {
		c.WeChat.ReplyTimeout = 4 * time.Second
	}
	if c.WeChat.Welcome == "" {
		c.WeChat.Welcome = "感谢关注！直接发送问题即可开始对话，发送 /help 查看帮助。"
	}
	if c.RagFlow.MaxRetries == 0 {
		c.RagFlow.MaxRetries = 2
	}
	if c.RagFlow.RetryInterval == 0 {
		c.RagFlow.RetryInterval = time.Second
	}
	if c.RagFlow.RequestTimeout == 0 {
		c.RagFlow.RequestTimeout = 120 * time.Second
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stdout"}
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

func (c *Config) validate() error {
	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address is required when cache.driver is 'redis'")
		}
	default:
		return fmt.Errorf("cache.driver must be 'memory' or 'redis', got '%s'", c.Cache.Driver)
	}

	if c.RagFlow.Enabled && (c.RagFlow.BaseURL == "" || c.RagFlow.ChatID == "") {
		return fmt.Errorf("ragflow.base_url and ragflow.chat_id are required when ragflow is enabled")
	}

	if _, err := c.Codec.Location(); err != nil {
		return fmt.Errorf("codec.timezone: %w", err)
	}
	return nil
}
