package middleware

import (
	"time"

	"pos/internal/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const HeaderRequestID = "X-Request-ID"

// リクエストごとにrequest_id付きのloggerをcontextへ入れ、終わったら1行出す
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := req.Header.Get(HeaderRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, rid)

			log := base.With().Str("request_id", rid).Logger()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), log)))

			err := next(c)
			if err != nil {
				//echoのエラーハンドラでレスポンスを確定させる
				c.Error(err)
			}

			status := c.Response().Status
			ev := log.Info()
			if status >= 500 {
				ev = log.Error().Err(err)
			}
			ev.Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
