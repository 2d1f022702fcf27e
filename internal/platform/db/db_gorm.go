// Package db はGORMによるデータベース接続とマイグレーションを提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"signup_backend/internal/feature/account/domain/entity"
)

// サポートするドライバー名
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// sqliteParams はSQLiteの書き込みトランザクションをBEGIN IMMEDIATEで開始し、
// ロック取得を最大5秒待たせます。COUNT後のINSERTで"database is locked"になるのを防ぎます。
const sqliteParams = "_txlock=immediate&_busy_timeout=5000"

// sqliteMemory はSQLiteのインメモリデータベースを表すパスです。
const sqliteMemory = ":memory:"

// ErrUnsupportedDriver はDB_DRIVERが未対応の値の場合に返されます。
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Config はデータベース接続設定を保持します。
type Config struct {
	Driver        string // mysql | postgres | sqlite（空ならmysql）
	User          string
	Password      string
	Name          string
	Host          string
	Port          string
	InstanceName  string // Cloud SQLのインスタンス接続名（設定時はUnixソケット接続）
	SQLitePath    string
	RunMigrations bool
	ConnectWithin time.Duration
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "./signup.db"
	}
	return Config{
		Driver:        os.Getenv("DB_DRIVER"),
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          os.Getenv("DB_NAME"),
		Host:          os.Getenv("DB_HOST"),
		Port:          os.Getenv("DB_PORT"),
		InstanceName:  os.Getenv("INSTANCE_CONNECTION_NAME"),
		SQLitePath:    path,
		RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",
		ConnectWithin: 60 * time.Second,
	}
}

// BuildDSN はドライバーに応じたDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	switch cfg.Driver {
	case DriverPostgres:
		host := cfg.Host
		if cfg.InstanceName != "" {
			host = "/cloudsql/" + cfg.InstanceName
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
			host, cfg.User, cfg.Password, cfg.Name)
		if cfg.InstanceName == "" && cfg.Port != "" {
			dsn += " port=" + cfg.Port
		}
		return dsn
	case DriverSQLite:
		sep := "?"
		if strings.Contains(cfg.SQLitePath, "?") {
			sep = "&"
		}
		return cfg.SQLitePath + sep + sqliteParams
	default:
		if cfg.InstanceName != "" {
			return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
				cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	}
}

// NewOpener はドライバーに対応するOpenerを返します。
// ユニーク制約違反をgorm.ErrDuplicatedKeyに変換するためTranslateErrorを有効にします。
func NewOpener(driver string) (Opener, error) {
	var dialect func(string) gorm.Dialector
	switch driver {
	case "", DriverMySQL:
		dialect = gmysql.Open
	case DriverPostgres:
		dialect = postgres.Open
	case DriverSQLite:
		dialect = sqlite.Open
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(dialect(dsn), &gorm.Config{TranslateError: true})
	}, nil
}

// ConnectWithRetry はtimeoutに達するまでretryInterval間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// Migrate はaccountsテーブル（ユニークインデックス含む）を作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.Account{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// OpenDB は設定に従って接続し、必要ならマイグレーションを実行します。
func OpenDB(cfg Config) (*gorm.DB, error) {
	open, err := NewOpener(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectWithin, open)
	if err != nil {
		return nil, err
	}

	// インメモリDBは接続ごとに別のデータベースになるため、接続を1本に固定する
	if cfg.Driver == DriverSQLite && strings.HasPrefix(cfg.SQLitePath, sqliteMemory) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// SQLiteはローカル開発用なので常にスキーマを用意する
	if cfg.RunMigrations || cfg.Driver == DriverSQLite {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}
