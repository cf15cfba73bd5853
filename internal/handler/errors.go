package handler

import (
	"log/slog"
	"net/http"

	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// /association のエラー形
type AnalysisErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func statusFor(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.KindValidation:
		return http.StatusBadRequest
	case usecase.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// 注文は作れたが明細で失敗したとき、orderIdも返す
type OrderErrorResponse struct {
	Error   string `json:"error"`
	OrderID int64  `json:"orderId"`
}

// 4xxはMessageをそのまま返す。5xxは詳細をログに出して中身は隠す
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	status, msg := resolveError(c, err)
	return c.JSON(status, ErrorResponse{Error: msg})
}

func resolveError(c echo.Context, err error) (int, string) {
	ue, ok := usecase.AsError(err)
	if ok && statusFor(ue.Kind) < http.StatusInternalServerError {
		return statusFor(ue.Kind), ue.Message
	}

	logServerError(c, err)
	//500
	return http.StatusInternalServerError, "internal error"
}

// 分析系は {success:false, error, message}
func writeAnalysisError(c echo.Context, err error) error {
	ue, ok := usecase.AsError(err)
	if !ok {
		logServerError(c, err)
		return c.JSON(http.StatusInternalServerError, AnalysisErrorResponse{
			Error:   "Internal Server Error",
			Message: "internal error",
		})
	}

	status := statusFor(ue.Kind)
	switch {
	case usecase.IsKind(err, usecase.KindDependencyUnavailable):
		//環境の問題なのでWarn
		slog.WarnContext(c.Request().Context(), "analysis engine unavailable", slog.Any("error", err))
	case status >= http.StatusInternalServerError:
		logServerError(c, err)
	}
	//エンジン側の詳細だけ返す。DBエラーの中身は出さない
	msg := ue.Message
	if ue.Err != nil && (ue.Kind == usecase.KindAnalysis || ue.Kind == usecase.KindDependencyUnavailable) {
		msg = ue.Err.Error()
	}
	return c.JSON(status, AnalysisErrorResponse{
		Error:   ue.Message,
		Message: msg,
	})
}

func logServerError(c echo.Context, err error) {
	req := c.Request()
	slog.ErrorContext(req.Context(), "request failed",
		slog.String("method", req.Method),
		slog.String("path", c.Path()),
		slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		slog.Any("error", err),
	)
}
