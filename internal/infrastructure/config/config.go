package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Config 应用配置
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Cache       CacheConfig       `mapstructure:"cache"`
	HealthCheck HealthCheckConfig `mapstructure:"health_check"`
	Dispatcher  DispatcherConfig  `mapstructure:"dispatcher"`
	Pipeline    PipelineConfig    `mapstructure:"pipeline"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limiting"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Admin       AdminConfig       `mapstructure:"admin"`
	Security    SecurityConfig    `mapstructure:"security"`
	Notify      NotifyConfig      `mapstructure:"notify"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// RedisConfig Redis连接配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// CacheConfig 请求缓存配置
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Backend string        `mapstructure:"backend"` // memory, redis
	TTL     time.Duration `mapstructure:"ttl"`
	KeyTag  string        `mapstructure:"key_tag"` // 缓存键前缀标签
}

// HealthCheckConfig 健康检查配置
type HealthCheckConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DispatcherConfig 调度器配置
type DispatcherConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// PipelineConfig 内容处理管道配置
type PipelineConfig struct {
	BatchEnabled   bool          `mapstructure:"batch_enabled"`
	PollingEnabled bool          `mapstructure:"polling_enabled"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	WorkerCount    int           `mapstructure:"worker_count"`
	ChannelSize    int           `mapstructure:"channel_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// JWTConfig JWT认证配置
type JWTConfig struct {
	Secret         string        `mapstructure:"secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	Issuer         string        `mapstructure:"issuer"`
	Audience       string        `mapstructure:"audience"`
}

// AdminConfig 管理员账号配置
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"` // bcrypt哈希，不存明文
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"` // API密钥加密用的32字节十六进制密钥
}

// NotifyConfig 通知推送配置
type NotifyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

// LoadConfig 加载配置
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
	}

	// 设置环境变量
	viper.AutomaticEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 解析配置
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 验证配置
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// WatchConfig 监听配置文件变更，实现运行时热加载。
// 可热加载的键（健康检查间隔、缓存开关/TTL、批处理与轮询开关）在使用点
// 通过viper读取，文件变更后下一个周期即生效，无需重启进程。
func WatchConfig(onChange func()) {
	viper.OnConfigChange(func(in fsnotify.Event) {
		if onChange != nil {
			onChange()
		}
	})
	viper.WatchConfig()
}

// setDefaults 设置默认值
func setDefaults() {
	// 服务器默认值
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")

	// 数据库默认值
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "300s")

	// 日志默认值
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")

	// Redis默认值
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)

	// 缓存默认值
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.ttl", "6h")
	viper.SetDefault("cache.key_tag", "analysis")

	// 健康检查默认值
	viper.SetDefault("health_check.enabled", true)
	viper.SetDefault("health_check.interval", "60s")
	viper.SetDefault("health_check.timeout", "10s")

	// 调度器默认值
	viper.SetDefault("dispatcher.max_attempts", 3)
	viper.SetDefault("dispatcher.attempt_timeout", "30s")
	viper.SetDefault("dispatcher.request_timeout", "90s")

	// 内容管道默认值
	viper.SetDefault("pipeline.batch_enabled", true)
	viper.SetDefault("pipeline.polling_enabled", false)
	viper.SetDefault("pipeline.poll_interval", "300s")
	viper.SetDefault("pipeline.worker_count", 3)
	viper.SetDefault("pipeline.channel_size", 1000)

	// 速率限制默认值
	viper.SetDefault("rate_limiting.requests_per_second", 10)
	viper.SetDefault("rate_limiting.burst", 20)

	// JWT默认值
	viper.SetDefault("jwt.secret", "your-super-secret-jwt-key-change-this-in-production")
	viper.SetDefault("jwt.access_token_ttl", "24h")
	viper.SetDefault("jwt.issuer", "ai-analysis-gateway")
	viper.SetDefault("jwt.audience", "ai-analysis-gateway-admin")

	// 管理员默认值
	viper.SetDefault("admin.username", "admin")
	viper.SetDefault("admin.password_hash", "")

	// 安全默认值
	viper.SetDefault("security.encryption_key", "")

	// 通知默认值
	viper.SetDefault("notify.enabled", false)
	viper.SetDefault("notify.base_url", "")
	viper.SetDefault("notify.token", "")
}

// validateConfig 验证配置
func validateConfig(config *Config) error {
	// 验证服务器配置
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// 验证数据库配置
	if config.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	// 验证日志配置
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
	}
	if !validLogLevels[config.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	// 验证缓存后端
	validBackends := map[string]bool{
		"memory": true, "redis": true,
	}
	if !validBackends[config.Cache.Backend] {
		return fmt.Errorf("invalid cache backend: %s", config.Cache.Backend)
	}

	// 验证调度器配置
	if config.Dispatcher.MaxAttempts <= 0 {
		return fmt.Errorf("dispatcher max_attempts must be positive: %d", config.Dispatcher.MaxAttempts)
	}

	return nil
}

// GetAddress 获取服务器地址
func (c *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ===== 热加载读取辅助 =====
// 以下键在运行期直接读取viper，配合WatchConfig实现热加载。

// CacheEnabled 缓存是否启用（热加载）
func CacheEnabled() bool {
	return viper.GetBool("cache.enabled")
}

// CacheTTL 缓存TTL（热加载）
func CacheTTL() time.Duration {
	return viper.GetDuration("cache.ttl")
}

// HealthCheckInterval 健康检查间隔（热加载）
func HealthCheckInterval() time.Duration {
	return viper.GetDuration("health_check.interval")
}

// BatchEnabled 批处理是否启用（热加载）
func BatchEnabled() bool {
	return viper.GetBool("pipeline.batch_enabled")
}

// PollingEnabled 轮询是否启用（热加载）
func PollingEnabled() bool {
	return viper.GetBool("pipeline.polling_enabled")
}
