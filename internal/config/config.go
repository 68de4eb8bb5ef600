package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ポート探索範囲の既定値（両端を含む）
const (
	DefaultPortMin = 55000
	DefaultPortMax = 55999
)

// ポート候補の探索順
const (
	StrategySequential = "sequential" // 下端から順に試す
	StrategyRandom     = "random"     // 範囲のランダムな順列を試す
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server  ServerConfig
	Logging LogConfig
	Surface SurfaceConfig
}

// ServerConfig はローカルHTTPサーバーの設定
type ServerConfig struct {
	Host         string // リッスンするホスト
	PortMin      int    // 探索範囲の下端
	PortMax      int    // 探索範囲の上端
	Strategy     string // 探索順 (sequential / random)
	DocumentRoot string // 配信するディレクトリ（絶対パス）

	// 停止時にリクエスト完了を待つ最大時間。超えたら強制的に閉じる
	ShutdownTimeout time.Duration
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Debug       bool
	LogToFile   bool
	LogFilePath string
	MaxSize     int // メガバイト
	MaxBackups  int
	MaxAge      int // 日数
	Compress    bool
}

// SurfaceConfig は表示側（ブラウザ）の設定
type SurfaceConfig struct {
	Open    bool   // 起動後にブラウザを開くか
	Command string // ブラウザを開くコマンド。空なら xdg-open
}

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			PortMin:         DefaultPortMin,
			PortMax:         DefaultPortMax,
			Strategy:        StrategySequential,
			ShutdownTimeout: 2 * time.Second,
		},
		Logging: LogConfig{
			LogFilePath: "webwall.log",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
		},
		Surface: SurfaceConfig{
			Command: "xdg-open",
		},
	}
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}

	if c.Logging.LogToFile && c.Logging.LogFilePath == "" {
		return fmt.Errorf("ログファイルのパスが指定されていません")
	}

	return nil
}

// Validate はサーバー設定の妥当性を検証する
func (s *ServerConfig) Validate() error {
	if s.PortMin < 1 || s.PortMin > 65535 {
		return fmt.Errorf("無効なポート番号: %d", s.PortMin)
	}
	if s.PortMax < 1 || s.PortMax > 65535 {
		return fmt.Errorf("無効なポート番号: %d", s.PortMax)
	}
	if s.PortMin > s.PortMax {
		return fmt.Errorf("無効なポート範囲: %d-%d", s.PortMin, s.PortMax)
	}

	switch s.Strategy {
	case StrategySequential, StrategyRandom:
	default:
		return fmt.Errorf("不明な探索方式: %q", s.Strategy)
	}

	if s.ShutdownTimeout < 0 {
		return fmt.Errorf("停止タイムアウトが負の値です: %s", s.ShutdownTimeout)
	}

	if !filepath.IsAbs(s.DocumentRoot) {
		return fmt.Errorf("ドキュメントルートは絶対パスで指定してください: %q", s.DocumentRoot)
	}
	info, err := os.Stat(s.DocumentRoot)
	if err != nil {
		return fmt.Errorf("ドキュメントルートを確認できません: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("ドキュメントルートがディレクトリではありません: %s", s.DocumentRoot)
	}

	return nil
}

// Address は指定ポートでのリッスンアドレスを返す
func (s *ServerConfig) Address(port int) string {
	return net.JoinHostPort(s.Host, strconv.Itoa(port))
}

// URL はブラウザに渡すURLを返す
func URL(port int) string {
	return fmt.Sprintf("http://localhost:%d/", port)
}
