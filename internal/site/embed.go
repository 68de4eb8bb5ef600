// Package site は組み込みのデモページ（マトリックス風の背景）を提供する
package site

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed all:dist
var embedFS embed.FS

// FS はデモページのファイルシステムを返す
func FS() fs.FS {
	// dist のサブディレクトリを取得
	sub, err := fs.Sub(embedFS, "dist")
	if err != nil {
		panic(fmt.Sprintf("埋め込み静的ファイルシステムの作成に失敗: %v", err))
	}
	return sub
}

// Extract はデモページを dir 以下に書き出す
func Extract(dir string) error {
	return fs.WalkDir(FS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		target := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := fs.ReadFile(FS(), path)
		if err != nil {
			return fmt.Errorf("埋め込みファイルの読み込みに失敗: %w", err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("ファイルの書き出しに失敗: %w", err)
		}
		return nil
	})
}

// ExtractTemp は一時ディレクトリにデモページを書き出し、そのパスと後片付け用の関数を返す
func ExtractTemp() (string, func() error, error) {
	dir, err := os.MkdirTemp("", "webwall-demo-")
	if err != nil {
		return "", nil, fmt.Errorf("一時ディレクトリの作成に失敗: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(dir) }

	if err := Extract(dir); err != nil {
		_ = cleanup()
		return "", nil, err
	}

	// ドキュメントルートは絶対パスで渡す
	abs, err := filepath.Abs(dir)
	if err != nil {
		_ = cleanup()
		return "", nil, err
	}
	return abs, cleanup, nil
}
