package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefault はデフォルト設定をテストする
func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.PortMin != 55000 || cfg.Server.PortMax != 55999 {
		t.Errorf("ポート範囲が一致しません: got %d-%d, want 55000-55999",
			cfg.Server.PortMin, cfg.Server.PortMax)
	}
	if cfg.Server.Strategy != StrategySequential {
		t.Errorf("探索方式が一致しません: got %s", cfg.Server.Strategy)
	}
	if cfg.Server.Host == "" {
		t.Error("サーバーホストが設定されていません")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		t.Error("停止タイムアウトが設定されていません")
	}

	// ドキュメントルートは呼び出し側が指定する
	if err := cfg.Validate(); err == nil {
		t.Error("ドキュメントルートなしで検証が通りました")
	}
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "index.html")
	if err := os.WriteFile(file, []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	valid := func() *Config {
		cfg := Default()
		cfg.Server.DocumentRoot = root
		return cfg
	}

	testCases := []struct {
		name      string
		modify    func(c *Config)
		expectErr bool
	}{
		{
			name:      "正常な設定",
			modify:    func(c *Config) {},
			expectErr: false,
		},
		{
			name:      "ランダム探索",
			modify:    func(c *Config) { c.Server.Strategy = StrategyRandom },
			expectErr: false,
		},
		{
			name:      "範囲が1ポートのみ",
			modify:    func(c *Config) { c.Server.PortMin, c.Server.PortMax = 55999, 55999 },
			expectErr: false,
		},
		{
			name:      "無効なポート番号",
			modify:    func(c *Config) { c.Server.PortMax = 99999 },
			expectErr: true,
		},
		{
			name:      "下端が0",
			modify:    func(c *Config) { c.Server.PortMin = 0 },
			expectErr: true,
		},
		{
			name:      "範囲が逆転",
			modify:    func(c *Config) { c.Server.PortMin, c.Server.PortMax = 56000, 55000 },
			expectErr: true,
		},
		{
			name:      "不明な探索方式",
			modify:    func(c *Config) { c.Server.Strategy = "spiral" },
			expectErr: true,
		},
		{
			name:      "負の停止タイムアウト",
			modify:    func(c *Config) { c.Server.ShutdownTimeout = -time.Second },
			expectErr: true,
		},
		{
			name:      "相対パスのドキュメントルート",
			modify:    func(c *Config) { c.Server.DocumentRoot = "website" },
			expectErr: true,
		},
		{
			name:      "存在しないドキュメントルート",
			modify:    func(c *Config) { c.Server.DocumentRoot = filepath.Join(root, "missing") },
			expectErr: true,
		},
		{
			name:      "ドキュメントルートがファイル",
			modify:    func(c *Config) { c.Server.DocumentRoot = file },
			expectErr: true,
		},
		{
			name: "ログファイルのパスなし",
			modify: func(c *Config) {
				c.Logging.LogToFile = true
				c.Logging.LogFilePath = ""
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.modify(cfg)
			err := cfg.Validate()
			if tc.expectErr && err == nil {
				t.Error("エラーが期待されましたが、エラーが発生しませんでした")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("予期しないエラーが発生しました: %v", err)
			}
		})
	}
}

// TestAddress はリッスンアドレスとURLの生成をテストする
func TestAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1"}

	if got, want := s.Address(55123), "127.0.0.1:55123"; got != want {
		t.Errorf("アドレスが一致しません: got %s, want %s", got, want)
	}
	v6 := ServerConfig{Host: "::1"}
	if got, want := v6.Address(55123), "[::1]:55123"; got != want {
		t.Errorf("IPv6アドレスが一致しません: got %s, want %s", got, want)
	}
	if got, want := URL(55123), "http://localhost:55123/"; got != want {
		t.Errorf("URLが一致しません: got %s, want %s", got, want)
	}
}
