package constants

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/jsphweid/ornamentum/key"
)

const DefaultPort = 8080

// Name of the DynamoDB table realization records go to.
const DefaultTable = "ornamentum-realizations"

func GetPort() int {
	s := os.Getenv("ORNAMENTUM_PORT")
	if s != "" {
		port, err := strconv.Atoi(s)
		if err == nil && port > 0 {
			return port
		}
	}
	return DefaultPort
}

func GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("ORNAMENTUM_LOG_LEVEL"))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// GetDefaultKey is the key signature used by measures that don't name one.
func GetDefaultKey() (*key.Signature, error) {
	s := os.Getenv("ORNAMENTUM_DEFAULT_KEY")
	if s == "" {
		return key.New(0), nil
	}
	ks, err := key.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("ORNAMENTUM_DEFAULT_KEY: %w", err)
	}
	return ks, nil
}

func GetSentryDSN() string {
	return os.Getenv("SENTRY_DSN")
}

// GetDynamoEndpoint is empty when persistence is off.
func GetDynamoEndpoint() string {
	return os.Getenv("DYNAMODB_ENDPOINT")
}

func GetTable() string {
	table := os.Getenv("ORNAMENTUM_TABLE")
	if table != "" {
		return table
	}
	return DefaultTable
}

// Config is everything the commands read from the environment.
type Config struct {
	Port           int
	LogLevel       slog.Level
	DefaultKey     *key.Signature
	SentryDSN      string // optional
	DynamoEndpoint string // optional
	Table          string
}

func Load() (*Config, error) {
	ks, err := GetDefaultKey()
	if err != nil {
		return nil, err
	}
	return &Config{
		Port:           GetPort(),
		LogLevel:       GetLogLevel(),
		DefaultKey:     ks,
		SentryDSN:      GetSentryDSN(),
		DynamoEndpoint: GetDynamoEndpoint(),
		Table:          GetTable(),
	}, nil
}
