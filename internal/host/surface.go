package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"webwall/internal/config"
	"webwall/internal/logging"
)

// Surface はページを表示する側（ウィンドウやブラウザ）とのやり取りを表す
type Surface interface {
	// Navigate はサーバーの準備ができた後に一度だけ呼ばれる
	Navigate(ctx context.Context, url string) error

	// Closed は表示側が閉じられたときにcloseされるチャンネルを返す
	Closed() <-chan struct{}
}

// SignalSurface はSIGINT/SIGTERMをウィンドウが閉じられた合図として扱うSurface
// 必要ならシステムのブラウザでURLを開く
type SignalSurface struct {
	cfg    config.SurfaceConfig
	out    io.Writer
	logger zerolog.Logger

	signals chan os.Signal
	closed  chan struct{}
	once    sync.Once
}

// NewSignalSurface は新しいSignalSurfaceを作成し、シグナルの待ち受けを開始する
func NewSignalSurface(cfg config.SurfaceConfig, out io.Writer, logger zerolog.Logger) *SignalSurface {
	if out == nil {
		out = os.Stdout
	}

	s := &SignalSurface{
		cfg:     cfg,
		out:     out,
		logger:  logging.WithComponent(logger, "surface"),
		signals: make(chan os.Signal, 1),
		closed:  make(chan struct{}),
	}

	signal.Notify(s.signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-s.signals:
			s.logger.Info().Str("signal", sig.String()).Msg("シグナルを受信しました")
			s.Close()
		case <-s.closed:
		}
	}()

	return s
}

// Navigate はURLを表示し、設定されていればブラウザで開く
func (s *SignalSurface) Navigate(ctx context.Context, url string) error {
	bold := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(s.out, "%s %s\n", bold("Serving at"), color.CyanString("%s", url))
	fmt.Fprintln(s.out, color.HiBlackString("Ctrl+C で停止します"))

	if !s.cfg.Open {
		return nil
	}

	command := s.cfg.Command
	if command == "" {
		command = "xdg-open"
	}

	// ブラウザはこのプロセスより長生きしてよいのでctxには紐付けない
	cmd := exec.Command(command, url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ブラウザの起動に失敗: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			s.logger.Warn().Err(err).Str("command", command).Msg("ブラウザ起動コマンドが失敗しました")
		}
	}()

	s.logger.Info().Str("command", command).Str("url", url).Msg("ブラウザでURLを開きました")
	return nil
}

// Closed は閉じられたときにcloseされるチャンネルを返す
func (s *SignalSurface) Closed() <-chan struct{} {
	return s.closed
}

// Close はシグナルの待ち受けを止めて閉じた状態にする。複数回呼んでもよい
func (s *SignalSurface) Close() {
	s.once.Do(func() {
		signal.Stop(s.signals)
		close(s.closed)
	})
}
