// Package config 提供基于环境变量的应用配置加载和校验。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 应用基本信息
type AppConfig struct {
	Name    string
	Env     string // dev | prod
	Version string
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string // debug | info | warn | error
	Encoding string // console | json
}

// CatalogConfig 商品目录服务配置
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig Redis连接配置
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StoreConfig 购物车持久化配置
type StoreConfig struct {
	Backend      string // redis | memory | none
	CartKey      string // 为空时使用默认键，购物车跨会话保留
	FreshSession bool   // 为true时每次启动生成新的会话键，放弃历史购物车
}

// Config 应用完整配置
type Config struct {
	App     AppConfig
	Log     LogConfig
	Catalog CatalogConfig
	Redis   RedisConfig
	Store   StoreConfig
}

// Load 加载配置：优先读取.env文件（本地开发），再读取环境变量，
// 缺失时使用默认值
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "storedemo"),
			Env:     getEnv("APP_ENV", "dev"),
			Version: getEnv("APP_VERSION", "0.1.0"),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
		Catalog: CatalogConfig{
			BaseURL: getEnv("CATALOG_BASE_URL", "https://fakestoreapi.com"),
			Timeout: getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Store: StoreConfig{
			Backend:      getEnv("CART_STORE_BACKEND", "redis"),
			CartKey:      getEnv("CART_STORE_KEY", ""),
			FreshSession: getEnvBool("CART_STORE_FRESH_SESSION", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate 校验配置合法性
func (c *Config) validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL must not be empty")
	}
	switch c.Store.Backend {
	case "redis", "memory", "none":
	default:
		return fmt.Errorf("unknown cart store backend: %s", c.Store.Backend)
	}
	return nil
}

// getEnv 读取字符串环境变量，未设置时返回默认值
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// getEnvInt 读取整型环境变量，未设置或非法时返回默认值
func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getEnvBool 读取布尔环境变量，未设置或非法时返回默认值
func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// getEnvDuration 读取时长环境变量（如"10s"），未设置或非法时返回默认值
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
