package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pos/internal/config"
	"pos/internal/metrics"
	"pos/internal/middleware"
	"pos/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Echoの組み立てに必要なもの
type Deps struct {
	Config   config.Config
	Logger   zerolog.Logger
	Metrics  *metrics.ServerMetrics
	Handlers Handlers
}

// New はミドルウェアとルートを登録したEchoを返す
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.EchoValidator{}

	//外側から メトリクス → アクセスログ → recover → CORS
	e.Use(middleware.Metrics(d.Metrics))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.Config.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	RegisterRoutes(e, d.Config, d.Metrics, d.Handlers)
	return e
}

// Start はctxが終わるまで待ち受け、終わったらgracefulに止める
func Start(ctx context.Context, e *echo.Echo, addr string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
