// Package host はサーバーと表示側の起動・停止の順序を管理する。
//
// サーバーの起動に成功してから表示側にURLを渡し、
// 表示側が閉じられたらサーバーを停止する。
// ポートを確保できなかった場合は表示側に何も渡さずにエラーを返す。
package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"webwall/internal/config"
	"webwall/internal/logging"
	"webwall/internal/portalloc"
	"webwall/internal/server"
)

// Host はサーバーと表示側を所有する
type Host struct {
	cfg     *config.Config
	surface Surface
	base    zerolog.Logger
	logger  zerolog.Logger

	// newServer はテストで差し替える
	newServer func(cfg config.ServerConfig, logger zerolog.Logger) (*server.Server, error)
}

// New は新しいHostを作成する
func New(cfg *config.Config, surface Surface, logger zerolog.Logger) *Host {
	return &Host{
		cfg:       cfg,
		surface:   surface,
		base:      logger,
		logger:    logging.WithComponent(logger, "host"),
		newServer: server.New,
	}
}

// Run はサーバーを起動して表示側にURLを渡し、表示側が閉じられるかctxが終わるまで待つ
func (h *Host) Run(ctx context.Context) error {
	srv, err := h.newServer(h.cfg.Server, h.base)
	if err != nil {
		return fmt.Errorf("サーバーの作成に失敗: %w", err)
	}

	if _, err := srv.Start(ctx); err != nil {
		if errors.Is(err, portalloc.ErrExhausted) {
			h.logger.Error().Err(err).
				Int("port_min", h.cfg.Server.PortMin).
				Int("port_max", h.cfg.Server.PortMax).
				Msg("空きポートがないため起動を中止します")
		}
		return err
	}

	url := srv.URL()
	if err := h.surface.Navigate(ctx, url); err != nil {
		_ = srv.Stop(context.Background())
		return fmt.Errorf("表示側への通知に失敗: %w", err)
	}
	h.logger.Info().Str("url", url).Msg("表示側にURLを渡しました")

	select {
	case <-h.surface.Closed():
		h.logger.Info().Msg("表示側が閉じられました")
	case <-ctx.Done():
		h.logger.Info().Msg("コンテキストがキャンセルされました")
	}

	// ctxは既に終わっている可能性があるので停止には使わない
	return srv.Stop(context.Background())
}
