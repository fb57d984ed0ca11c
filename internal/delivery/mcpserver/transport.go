package mcpserver

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/travel-discovery-mcp/internal/pkg/requestid"
)

// HeaderRequestID - заголовок, из которого берётся идентификатор запроса
const HeaderRequestID = "X-Request-ID"

// NewHTTPHandler - Streamable HTTP транспорт без сессий: каждое POST сообщение
// обрабатывается независимо, уведомления получают 202 без тела.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithStateLess(true),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if id := r.Header.Get(HeaderRequestID); id != "" {
				return requestid.With(ctx, id)
			}
			return ctx
		}),
	)
}

// ServeStdio обслуживает сообщения, по одному на строку, до EOF или отмены контекста.
// Ошибки транспорта пишутся через logger, stdout остаётся только для протокола.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, logger *zap.Logger) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(zap.NewStdLog(logger.Named("stdio")))

	logger.Info("Starting stdio server")
	err := stdio.Listen(ctx, in, out)
	if err == nil || errors.Is(err, context.Canceled) {
		logger.Info("Stdio server stopped")
		return nil
	}
	return err
}
