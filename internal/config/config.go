// Package config manages application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roboco-io/doc2md/internal/parser"
)

// Config represents the application configuration.
type Config struct {
	Password string       `yaml:"password"`
	Decode   DecodeConfig `yaml:"decode"`
	Output   OutputConfig `yaml:"output"`
	Log      LogConfig    `yaml:"log"`
}

// DecodeConfig controls how documents are decoded.
type DecodeConfig struct {
	Charset         string `yaml:"charset"`          // 모든 8비트 텍스트에 강제할 코드 페이지
	DefaultCodepage string `yaml:"default_codepage"` // 언어를 알 수 없을 때
	TempThreshold   int64  `yaml:"temp_threshold"`   // 바이트
	TempDir         string `yaml:"temp_dir,omitempty"`
	Headers         bool   `yaml:"headers"`
	TextBoxes       bool   `yaml:"textboxes"`
}

// OutputConfig contains output options.
type OutputConfig struct {
	Format        string `yaml:"format"` // json, text, markdown
	Pretty        bool   `yaml:"pretty"`
	IncludeHidden bool   `yaml:"include_hidden"`
}

// LogConfig contains logging options.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Formats lists the accepted output.format values.
var Formats = []string{"json", "markdown", "text"}

var logLevels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	po := parser.DefaultOptions()
	return &Config{
		Password: "${DOC2MD_PASSWORD}",
		Decode: DecodeConfig{
			DefaultCodepage: po.DefaultCodepage,
			TempThreshold:   po.TempThreshold,
			Headers:         po.Headers,
			TextBoxes:       po.TextBoxes,
		},
		Output: OutputConfig{
			Format: "markdown",
			Pretty: true,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Validate checks values that cannot be checked by the YAML decoder.
func (c *Config) Validate() error {
	if !contains(Formats, c.Output.Format) {
		return fmt.Errorf("유효하지 않은 출력 형식: %s (지원: %s)", c.Output.Format, strings.Join(Formats, ", "))
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Decode.TempThreshold < 0 {
		return fmt.Errorf("temp_threshold는 0 이상이어야 합니다: %d", c.Decode.TempThreshold)
	}
	return nil
}

// SlogLevel converts log.level to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn, fmt.Errorf("유효하지 않은 로그 수준: %s (지원: %s)", c.Log.Level, strings.Join(logLevels, ", "))
	}
	return lvl, nil
}

// ParserOptions returns the decode settings as parser options.
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		Password:        c.Password,
		Charset:         c.Decode.Charset,
		DefaultCodepage: c.Decode.DefaultCodepage,
		Headers:         c.Decode.Headers,
		TextBoxes:       c.Decode.TextBoxes,
		TempThreshold:   c.Decode.TempThreshold,
		TempDir:         c.Decode.TempDir,
	}
}

// Keys lists the keys accepted by Set.
var Keys = []string{
	"password",
	"decode.charset", "decode.default_codepage", "decode.temp_threshold",
	"decode.temp_dir", "decode.headers", "decode.textboxes",
	"output.format", "output.pretty", "output.include_hidden",
	"log.level",
}

// Set changes one value by its dotted key.
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "password":
		c.Password = value
	case "decode.charset":
		c.Decode.Charset = value
	case "decode.default_codepage":
		c.Decode.DefaultCodepage = value
	case "decode.temp_threshold":
		c.Decode.TempThreshold, err = strconv.ParseInt(value, 10, 64)
	case "decode.temp_dir":
		c.Decode.TempDir = value
	case "decode.headers":
		c.Decode.Headers, err = strconv.ParseBool(value)
	case "decode.textboxes":
		c.Decode.TextBoxes, err = strconv.ParseBool(value)
	case "output.format":
		c.Output.Format = value
	case "output.pretty":
		c.Output.Pretty, err = strconv.ParseBool(value)
	case "output.include_hidden":
		c.Output.IncludeHidden, err = strconv.ParseBool(value)
	case "log.level":
		c.Log.Level = value
	default:
		return fmt.Errorf("알 수 없는 설정 키: %s\n지원하는 키: %s", key, strings.Join(Keys, ", "))
	}
	if err != nil {
		return fmt.Errorf("유효하지 않은 값 %q (%s): %w", value, key, err)
	}
	return c.Validate()
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
