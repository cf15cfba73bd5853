package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"restaurant/internal/handler"
	appmw "restaurant/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Newはミドルウェアとルートを登録したechoを返す
func New(h Handlers, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(appmw.RequestLogger(logger))

	RegisterRoutes(e, h)
	return e
}

// Runはctxが終わるまでサーバーを動かし、終わったらgraceful shutdownする
func Run(ctx context.Context, e *echo.Echo, addr string, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server started", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("server shutting down")
		return e.Shutdown(sctx)
	})

	return g.Wait()
}
