package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"webwall/internal/responder"
)

// newEngine はルーティングを設定したginエンジンを作成する
// 全パス・全メソッドを同じハンドラで受け、パスの解釈はresponderに任せる。
// 標準外のメソッドはNoRouteで同じハンドラに流す
func (s *Server) newEngine() *gin.Engine {
	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.HandleMethodNotAllowed = false

	engine.Use(s.accessLog(), gin.CustomRecovery(s.recovered))
	engine.Any("/*filepath", s.serveFile)
	engine.NoRoute(s.serveFile)

	return engine
}

// serveFile はドキュメントルートからファイルを配信する
// メソッドは区別しない
func (s *Server) serveFile(c *gin.Context) {
	resp := responder.Respond(s.config.DocumentRoot, c.Request.URL.Path)
	if resp.Err != nil {
		c.Set(errorKey, resp.Err)
	}
	c.Set(kindKey, resp.Kind)

	c.Header("Server", ServerName)
	c.Header("Content-Length", strconv.Itoa(resp.ContentLength()))
	c.Data(resp.Status, resp.ContentType, resp.Body)
}

// recovered はハンドラ内のpanicを500として返す
func (s *Server) recovered(c *gin.Context, err any) {
	s.logger.Error().Interface("panic", err).Str("path", c.Request.URL.Path).Msg("ハンドラでpanicが発生しました")

	body := []byte(responder.BodyServerError)
	c.Header("Server", ServerName)
	c.Header("Content-Length", strconv.Itoa(len(body)))
	c.Data(http.StatusInternalServerError, responder.ContentTypeText, body)
	c.Abort()
}

// ServerName はレスポンスのServerヘッダーに入れる固定値
const ServerName = "webwall"

const (
	errorKey = "webwall.error"
	kindKey  = "webwall.kind"
)

// accessLog は1リクエストにつき1行のアクセスログを出力する
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()

		c.Next()

		status := c.Writer.Status()
		event := s.logger.Info()
		if status >= 500 {
			event = s.logger.Error()
		} else if status >= 400 {
			event = s.logger.Warn()
		}

		if v, ok := c.Get(errorKey); ok {
			if err, ok := v.(error); ok {
				event = event.Err(err)
			}
		}
		if v, ok := c.Get(kindKey); ok {
			if kind, ok := v.(responder.Kind); ok {
				event = event.Str("kind", kind.String())
			}
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// newErrorLog はnet/httpの内部エラーをzerologに流すlog.Loggerを作成する
func newErrorLog(logger zerolog.Logger) *log.Logger {
	return log.New(logger.With().Str("source", "net/http").Logger(), "", 0)
}
