package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// しきい値のデフォルト
const (
	defaultMinSupport    = 0.2
	defaultMinConfidence = 0.5
	defaultMinLift       = 1.0
)

type AssociationHandler struct {
	uc *usecase.AssociationUsecase
}

func NewAssociationHandler(uc *usecase.AssociationUsecase) *AssociationHandler {
	return &AssociationHandler{uc: uc}
}

type AssociationResponse struct {
	Success bool `json:"success"`
	usecase.AnalyzeOutput
}

func (h *AssociationHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/association", h.analyze)
}

func (h *AssociationHandler) analyze(c echo.Context) error {
	in, err := parseAnalyzeQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, AnalysisErrorResponse{
			Error:   "invalid query",
			Message: err.Error(),
		})
	}

	out, err := h.uc.Analyze(c.Request().Context(), in)
	if err != nil {
		return writeAnalysisError(c, err)
	}
	return c.JSON(http.StatusOK, AssociationResponse{Success: true, AnalyzeOutput: out})
}

func parseAnalyzeQuery(c echo.Context) (usecase.AnalyzeInput, error) {
	in := usecase.AnalyzeInput{
		MinSupport:    defaultMinSupport,
		MinConfidence: defaultMinConfidence,
		MinLift:       defaultMinLift,
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"min_support", &in.MinSupport},
		{"min_confidence", &in.MinConfidence},
		{"min_lift", &in.MinLift},
	}
	for _, f := range floats {
		v := c.QueryParam(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, errors.New(f.name + " must be a number")
		}
		*f.dst = n
	}

	var err error
	if in.Start, err = parseDate(c.QueryParam("start_date")); err != nil {
		return in, errors.New("start_date must be YYYY-MM-DD")
	}
	if in.End, err = parseDate(c.QueryParam("end_date")); err != nil {
		return in, errors.New("end_date must be YYYY-MM-DD")
	}
	return in, nil
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
