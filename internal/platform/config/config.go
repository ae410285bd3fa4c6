package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，存储应用程序的所有配置
var Cfg *Config

// Config 结构体与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Stats    StatsConfig    `mapstructure:"stats"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

// ServerConfig 定义了HTTP服务器相关的配置
type ServerConfig struct {
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Sqlite SqliteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

// SqliteConfig 定义了SQLite数据库文件的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig 定义了Redis的连接配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StatsConfig 定义了统计模块的策略常量。
// 连击奖励和鼓励语的阈值是展示层策略，不是业务不变量，所以放进配置。
type StatsConfig struct {
	CacheTTLSeconds        int     `mapstructure:"cacheTTLSeconds"`
	ComboRewardThreshold   int     `mapstructure:"comboRewardThreshold"`
	EncouragementThreshold float64 `mapstructure:"encouragementThreshold"`
}

// ArchiveConfig 定义了月度归档触发策略
type ArchiveConfig struct {
	// DailyCheckTime 是每天触发一次归档检查的时刻 (HH:MM)。
	// 归档管理器本身是幂等的，触发时机只是策略选择。
	DailyCheckTime string `mapstructure:"dailyCheckTime"`
}

// SnapshotConfig 定义了全量数据快照备份的配置
type SnapshotConfig struct {
	Dir             string `mapstructure:"dir"`
	IntervalMinutes int    `mapstructure:"intervalMinutes"`
}

// CacheTTL 返回统计缓存的有效期
func (c StatsConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SnapshotInterval 返回快照备份的周期
func (c SnapshotConfig) SnapshotInterval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// LoadConfig 查找、加载并解析配置文件。
// 配置文件缺失时使用默认值，任何配置项都可以用环境变量覆盖。
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 默认值保证在没有config.yaml的环境下也能启动
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("database.sqlite.path", "data/tracker.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("stats.cacheTTLSeconds", 60)
	v.SetDefault("stats.comboRewardThreshold", 2)
	v.SetDefault("stats.encouragementThreshold", 50)
	v.SetDefault("archive.dailyCheckTime", "00:10")
	v.SetDefault("snapshot.dir", "data/snapshots")
	v.SetDefault("snapshot.intervalMinutes", 60)

	// 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:9000
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	Cfg = &cfg
	return Cfg, nil
}
