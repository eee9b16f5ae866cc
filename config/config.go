// Package config 提供应用程序配置加载功能
// 基于viper实现，支持配置文件和环境变量两种来源
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用程序总配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Port         int    `mapstructure:"port"`           // HTTP监听端口
	ReadTimeout  int    `mapstructure:"read_timeout"`   // 读超时（秒）
	WriteTimeout int    `mapstructure:"write_timeout"`  // 写超时（秒）
	EnableHTTPS  bool   `mapstructure:"enable_https"`   // 是否启用HTTPS
	EnableHTTP2  bool   `mapstructure:"enable_http2"`   // 是否启用HTTP/2（仅HTTPS下生效）
	HTTPSPort    int    `mapstructure:"https_port"`     // HTTPS监听端口
	TLSCertFile  string `mapstructure:"tls_cert_file"`  // TLS证书文件路径
	TLSKeyFile   string `mapstructure:"tls_key_file"`   // TLS私钥文件路径
	MaxBodySize  int64  `mapstructure:"max_body_size"`  // 请求体最大字节数
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // 数据库驱动，目前仅支持sqlite
	DSN             string `mapstructure:"dsn"`               // 数据源连接串
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // 最大打开连接数
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大存活时间（秒）
}

// UploadConfig 上传存储配置
type UploadConfig struct {
	StoragePath       string   `mapstructure:"storage_path"`       // 上传文件存储目录
	MaxFileSize       int64    `mapstructure:"max_file_size"`      // 单文件最大字节数
	AllowedExtensions []string `mapstructure:"allowed_extensions"` // 允许的文件扩展名
	RetentionDays     int      `mapstructure:"retention_days"`     // 文件保留天数
	CleanupToken      string   `mapstructure:"cleanup_token"`      // 清理接口管理令牌，为空则禁用清理接口
	CleanupInterval   int      `mapstructure:"cleanup_interval"`   // 定期清理间隔（小时），0表示不启动定期清理
}

// AnalysisConfig 分析记录存储配置
type AnalysisConfig struct {
	Enabled bool `mapstructure:"enabled"` // 是否启用分析结果持久化
}

// BackupConfig 上传文件异地备份配置
type BackupConfig struct {
	Enabled   bool   `mapstructure:"enabled"`    // 是否启用备份镜像
	Provider  string `mapstructure:"provider"`   // 备份提供商: aliyun/tencent/qiniu/minio
	Endpoint  string `mapstructure:"endpoint"`   // 服务端点
	Region    string `mapstructure:"region"`     // 区域
	Bucket    string `mapstructure:"bucket"`     // 存储桶名称
	AccessKey string `mapstructure:"access_key"` // 访问密钥
	SecretKey string `mapstructure:"secret_key"` // 私有密钥
	UseSSL    bool   `mapstructure:"use_ssl"`    // 是否使用SSL（minio）
	Prefix    string `mapstructure:"prefix"`     // 对象键前缀
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`     // 日志级别 (debug, info, warn, error)
	Format   string `mapstructure:"format"`    // 日志格式 (json, text)
	Output   string `mapstructure:"output"`    // 输出方式 (console, file, both)
	FilePath string `mapstructure:"file_path"` // 日志文件路径
}

// Load 加载应用程序配置
// 依次读取config.yaml和POSTLENS_前缀的环境变量，环境变量优先
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("POSTLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时使用默认值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Server.EnableHTTPS && (cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "") {
		return nil, fmt.Errorf("https enabled but tls_cert_file/tls_key_file not configured")
	}

	return &cfg, nil
}

// setDefaults 设置默认配置项
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.enable_https", false)
	v.SetDefault("server.enable_http2", false)
	v.SetDefault("server.https_port", 8443)
	v.SetDefault("server.max_body_size", 50*1024*1024)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/postlens.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("upload.storage_path", "static/uploads")
	v.SetDefault("upload.max_file_size", 50*1024*1024)
	v.SetDefault("upload.allowed_extensions", []string{
		"jpg", "jpeg", "png", "gif", "webp", "mp4", "avi", "mov", "webm",
	})
	v.SetDefault("upload.retention_days", 30)
	v.SetDefault("upload.cleanup_token", "")
	v.SetDefault("upload.cleanup_interval", 24)

	v.SetDefault("analysis.enabled", false)

	v.SetDefault("backup.enabled", false)
	v.SetDefault("backup.provider", "")
	v.SetDefault("backup.prefix", "uploads/")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.file_path", "logs/postlens.log")
}
