package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"webwall/internal/config"
	"webwall/internal/logging"
	"webwall/internal/portalloc"
)

// Server はローカルHTTPサーバーを管理する構造体
// リスナーとポートはこのインスタンスが所有し、Stopで解放する
type Server struct {
	config     config.ServerConfig
	logger     zerolog.Logger
	allocator  *portalloc.Allocator
	engine     *gin.Engine
	httpServer *http.Server

	mu       sync.Mutex
	listener net.Listener
	port     int
	done     chan struct{}
	stopped  bool
}

// New は新しいServerインスタンスを作成する
func New(cfg config.ServerConfig, logger zerolog.Logger) (*Server, error) {
	strategy, err := portalloc.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	logger = logging.WithComponent(logger, "server")
	allocator := portalloc.New(cfg.Host, cfg.PortMin, cfg.PortMax, strategy,
		logging.WithComponent(logger, "portalloc"))

	s := &Server{
		config:    cfg,
		logger:    logger,
		allocator: allocator,
	}
	s.engine = s.newEngine()
	s.httpServer = &http.Server{
		Handler:  s.engine,
		ErrorLog: newErrorLog(logger),
	}

	return s, nil
}

// Handler はリクエストを処理するhttp.Handlerを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start はポートを確保して配信を開始する
// 戻った時点でリスナーは接続を受け付けられる状態になっている
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return 0, fmt.Errorf("サーバーは既に起動しています: port %d", s.port)
	}
	if s.stopped {
		return 0, errors.New("停止したサーバーは再起動できません")
	}

	ln, port, err := s.allocator.Allocate(ctx)
	if err != nil {
		return 0, fmt.Errorf("ポートの確保に失敗: %w", err)
	}

	s.listener = ln
	s.port = port
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("配信中にエラーが発生しました")
		}
	}()

	s.logger.Info().
		Int("port", port).
		Str("addr", s.config.Address(port)).
		Str("root", s.config.DocumentRoot).
		Msg("HTTPサーバーを起動しました")

	return port, nil
}

// Port は確保したポート番号を返す。未起動なら0
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// URL はブラウザに渡すURLを返す
func (s *Server) URL() string {
	return config.URL(s.Port())
}

// Stop はサーバーを停止してリスナーを解放する
// ShutdownTimeout までは処理中のリクエストを待ち、過ぎたら接続を強制的に閉じる。
// ShutdownTimeout が0なら待たずに閉じる
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	s.stopped = true

	if s.listener == nil {
		return nil
	}

	s.logger.Info().Int("port", s.port).Msg("サーバーをシャットダウンしています...")

	var err error
	if s.config.ShutdownTimeout > 0 {
		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err = s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("待機中のリクエストを打ち切ります")
			err = s.httpServer.Close()
		}
	} else {
		err = s.httpServer.Close()
	}
	<-s.done

	if err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	s.logger.Info().Msg("サーバーが正常にシャットダウンされました")
	return nil
}
