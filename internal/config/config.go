package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`      // サーバーポート
	GoEnv    string `env:"GO_ENV" envDefault:"dev"`     // dev/prod
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"` // debug/info/warn/error

	Database Database
	Engine   Engine
	Analysis Analysis
	AMQP     AMQP
}

// DB接続。DATABASE_URLがあれば最優先
type Database struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Name     string `env:"POSTGRES_DB" envDefault:"restaurant"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	//コネクションプール
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// 外部の分析エンジン（python + mlxtend）。引数は | 区切り
type Engine struct {
	Command       string        `env:"ENGINE_COMMAND" envDefault:"python3"`
	Args          []string      `env:"ENGINE_ARGS" envSeparator:"|" envDefault:"scripts/run_apriori.py"`
	Timeout       time.Duration `env:"ENGINE_TIMEOUT" envDefault:"60s"`
	MaxConcurrent int64         `env:"ENGINE_MAX_CONCURRENT" envDefault:"4"`

	ProbeCommand string        `env:"ENGINE_PROBE_COMMAND" envDefault:"python3"`
	ProbeArgs    []string      `env:"ENGINE_PROBE_ARGS" envSeparator:"|" envDefault:"-c|import pandas; import mlxtend; print('Dependencies OK')"`
	ProbeTimeout time.Duration `env:"ENGINE_PROBE_TIMEOUT" envDefault:"10s"`
}

type Analysis struct {
	//メニューにも麺の組み合わせにも解決できない明細の表示名
	DefaultLabel string `env:"ANALYSIS_DEFAULT_LABEL" envDefault:"ก๋วยเตี๋ยว"`
}

// スタッフ呼び出し通知。URLが空なら通知しない
type AMQP struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE" envDefault:"staff_topic"`
}

// Loadは.envファイル（あれば）と環境変数から読む
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	//必須チェック
	if strings.TrimSpace(cfg.Port) == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if strings.TrimSpace(cfg.Engine.Command) == "" {
		return Config{}, fmt.Errorf("ENGINE_COMMAND is required")
	}
	if strings.TrimSpace(cfg.Engine.ProbeCommand) == "" {
		return Config{}, fmt.Errorf("ENGINE_PROBE_COMMAND is required")
	}
	if cfg.Engine.Timeout <= 0 {
		return Config{}, fmt.Errorf("ENGINE_TIMEOUT must be positive")
	}
	if cfg.Engine.ProbeTimeout <= 0 {
		return Config{}, fmt.Errorf("ENGINE_PROBE_TIMEOUT must be positive")
	}
	if cfg.Engine.MaxConcurrent < 1 {
		return Config{}, fmt.Errorf("ENGINE_MAX_CONCURRENT must be >= 1")
	}
	if cfg.Database.MaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if strings.TrimSpace(cfg.Analysis.DefaultLabel) == "" {
		return Config{}, fmt.Errorf("ANALYSIS_DEFAULT_LABEL is required")
	}

	return cfg, nil
}

// ":8080" 形式のlistenアドレス
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}
