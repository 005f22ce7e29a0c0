package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8000）

	DBDriver         string // postgres / sqlite
	DatabaseURL      string // あれば最優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string
	SQLitePath       string // sqlite時のファイル（POS.db）

	JWTSecret string // JWT署名シークレット

	LogLevel  string // debug/info/warn/error
	LogFormat string // console/json

	//購入1回あたりの上限時間
	PurchaseTimeout time.Duration

	//レジから未指定で来たときの既定値
	DefaultEmployeeCode string
	DefaultStoreCode    string
	DefaultTerminalCode string

	TaxRate     string // "0.1"
	TaxCategory string // "10"

	KafkaBrokers       []string // 空なら購入イベントは送らない
	KafkaPurchaseTopic string

	CORSAllowOrigins []string
	SeedDemoProducts bool
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	timeout, err := durationOr("PURCHASE_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8000"),

		DBDriver:         strings.ToLower(getenv("DB_DRIVER", DriverPostgres)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "pos"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       getenv("SQLITE_PATH", "POS.db"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "console"),

		PurchaseTimeout: timeout,

		DefaultEmployeeCode: getenv("DEFAULT_EMP_CODE", "9999999999"),
		DefaultStoreCode:    getenv("DEFAULT_STORE_CODE", "30"),
		DefaultTerminalCode: getenv("DEFAULT_POS_NO", "90"),

		TaxRate:     getenv("TAX_RATE", "0.1"),
		TaxCategory: getenv("TAX_CATEGORY", "10"),

		KafkaBrokers:       splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaPurchaseTopic: getenv("KAFKA_PURCHASE_TOPIC", "pos.purchases"),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
		SeedDemoProducts: isTrue(os.Getenv("SEED_DEMO_PRODUCTS")),
	}

	//必須チェック
	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return Config{}, fmt.Errorf("DB_DRIVER must be %s or %s", DriverPostgres, DriverSQLite)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PurchaseTimeout <= 0 {
		return Config{}, fmt.Errorf("PURCHASE_TIMEOUT must be positive")
	}

	//既定値もDBの桁数に収まること
	if utf8.RuneCountInString(cfg.DefaultEmployeeCode) > 10 {
		return Config{}, fmt.Errorf("DEFAULT_EMP_CODE must be at most 10 characters")
	}
	if utf8.RuneCountInString(cfg.DefaultStoreCode) > 5 {
		return Config{}, fmt.Errorf("DEFAULT_STORE_CODE must be at most 5 characters")
	}
	if utf8.RuneCountInString(cfg.DefaultTerminalCode) > 3 {
		return Config{}, fmt.Errorf("DEFAULT_POS_NO must be at most 3 characters")
	}

	return cfg, nil
}

// Addrはlisten用のアドレス（":8000"）
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// PostgresDSNはDATABASE_URLがなければPOSTGRES_*から組み立てる
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
