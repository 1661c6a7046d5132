// Package db opens the GORM connection used by the detection-run audit log.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"meal_backend/internal/feature/mealdetection/adapters/store"
)

// retryInterval は接続失敗時の再試行間隔です。
const retryInterval = 3 * time.Second

// Config はPostgreSQLへの接続設定です。
type Config struct {
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	InstanceName string `mapstructure:"instance_name"` // Cloud SQL の接続名（設定時はUnixソケット接続）
	SSLMode      string `mapstructure:"ssl_mode"`
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		SSLMode:      os.Getenv("DB_SSLMODE"),
	}
}

// BuildDSN は設定からPostgreSQLのDSN文字列を生成します。
// InstanceName が設定されている場合は Cloud SQL のUnixソケットを優先します。
func BuildDSN(cfg Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	if cfg.InstanceName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name, sslMode)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode)
}

// ConnectWithRetry は timeout までの間、retryInterval ごとに接続を再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying...", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenPostgres はPostgreSQLに接続します。
func OpenPostgres(cfg Config, timeout time.Duration) (*gorm.DB, error) {
	return ConnectWithRetry(BuildDSN(cfg), timeout, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	})
}

// OpenSQLite はローカル開発用のSQLiteファイルを開きます。
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// Migrate は監査ログのテーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&store.DetectionRunModel{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
