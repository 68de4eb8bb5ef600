// Package logging はzerologによる構造化ログの生成を担う
package logging

import (
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"

	"webwall/internal/config"
)

// New は設定に従ってロガーを作成する
// ファイル出力が有効な場合はローテーション付きファイルと標準エラーの両方に書く。
// 返すio.Closerはファイルを閉じるためのもので、ファイル出力なしの場合は何もしない
func New(cfg config.LogConfig, stderr io.Writer) (zerolog.Logger, io.Closer) {
	if stderr == nil {
		stderr = os.Stderr
	}

	if !cfg.LogToFile {
		return NewLogger(cfg.Debug, stderr), nopCloser{}
	}

	fileLogger := &lumberjack.Logger{
		Filename:   cfg.LogFilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	logger := NewLogger(cfg.Debug, io.MultiWriter(fileLogger, stderr))
	logger.Debug().Str("path", cfg.LogFilePath).Msg("ファイルへのログ出力を開始します")

	return logger, fileLogger
}

// NewLogger は指定レベルのzerologロガーを作成する
func NewLogger(debug bool, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stderr
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// WithComponent はcomponentフィールド付きのロガーを返す
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
