package answer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ankieta/ankieta/internal/domain/participant"
	"github.com/ankieta/ankieta/internal/domain/survey"
	"github.com/ankieta/ankieta/internal/platform/auth"
)

// Handler serves the participant-facing answer endpoints plus the admin
// CSV export.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes mounts the capability surface. Knowing the
// participant id and password pair is the whole authorization.
func (h *Handler) RegisterPublicRoutes(e *echo.Echo) {
	g := e.Group("/surveys/:participant/:password")
	g.GET("", h.Dispatch)
	g.POST("", h.SubmitWhole)
	g.GET("/print", h.Print)
	g.GET("/hospitals", h.ListHospitals)
	g.GET("/hospitals/:hospital", h.GetHospitalForm)
	g.POST("/hospitals/:hospital", h.SubmitHospital)
	g.GET("/questions/:question", h.GetQuestionForm)
	g.POST("/questions/:question", h.SubmitQuestion)
}

// RegisterAdminRoutes mounts the staff-only export endpoint.
func (h *Handler) RegisterAdminRoutes(api *echo.Group) {
	api.GET("/surveys/:id/export.csv", h.ExportCSV)
}

func (h *Handler) resolve(c echo.Context) (*Session, error) {
	id, err := uuid.Parse(c.Param("participant"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "survey not found")
	}
	sess, err := h.svc.Resolve(c.Request().Context(), id, c.Param("password"))
	if err != nil {
		if errors.Is(err, participant.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "survey not found")
		}
		return nil, err
	}
	return sess, nil
}

type submitRequest struct {
	Values map[string]string `json:"values"`
}

type submitResponse struct {
	Saved   bool   `json:"saved"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	EndText string `json:"end_text"`
}

// submitError maps reconciler failures to responses: field errors reject
// the whole submission with 400, a notification failure reports the save
// with 502.
func submitError(c echo.Context, sess *Session, result *Result, err error) error {
	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": fieldErrs})
	}
	var notifyErr *NotifyError
	if errors.As(err, &notifyErr) {
		return c.JSON(http.StatusBadGateway, map[string]any{
			"saved":   true,
			"created": result.Created,
			"updated": result.Updated,
			"error":   "confirmation could not be sent",
		})
	}
	if errors.Is(err, ErrOutOfScope) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return err
}

func submitted(c echo.Context, sess *Session, result *Result) error {
	return c.JSON(http.StatusOK, submitResponse{
		Saved:   true,
		Created: result.Created,
		Updated: result.Updated,
		EndText: sess.Tree.Survey.EndText,
	})
}

// Dispatch serves the survey entry point according to its style: the whole
// form, the hospital list, or the question list.
func (h *Handler) Dispatch(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	switch sess.Tree.Survey.Style {
	case survey.StyleHospital:
		statuses, err := h.svc.HospitalList(ctx, sess)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]any{
			"survey":    sess.Tree.Survey,
			"style":     sess.Tree.Survey.Style,
			"hospitals": statuses,
		})
	case survey.StyleQuestion:
		return c.JSON(http.StatusOK, map[string]any{
			"survey":     sess.Tree.Survey,
			"style":      sess.Tree.Survey.Style,
			"categories": sess.Tree.Categories,
		})
	default:
		form, err := h.svc.ParticipantForm(ctx, sess)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]any{
			"survey": sess.Tree.Survey,
			"style":  sess.Tree.Survey.Style,
			"form":   form,
		})
	}
}

// ListHospitals returns the fund's hospitals with answer flags regardless
// of style, for navigation.
func (h *Handler) ListHospitals(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return err
	}
	statuses, err := h.svc.HospitalList(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"hospitals": statuses})
}

// Print returns one filled form per hospital for the print view.
func (h *Handler) Print(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return err
	}
	forms, err := h.svc.PrintForms(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"survey": sess.Tree.Survey,
		"forms":  forms,
	})
}

func (h *Handler) GetHospitalForm(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return err
	}
	hospitalID, err := uuid.Parse(c.Param("hospital"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
	}
	form, err := h.svc.HospitalForm(c.Request().Context(), sess, hospitalID)
	if err != nil {
		if errors.Is(err, ErrOutOfScope) {
			return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, form)
}

func (h *Handler) SubmitHospital(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return err
	}
	hospitalID, err := uuid.Parse(c.Param("hospital"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
	}
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := h.svc.SubmitHospital(c.Request().Context(), sess, hospitalID, req.Values, auth.IsStaff(c.Request().Context()))
	if err != nil {
		return submitError(c, sess, result, err)
	}
	return submitted(c, sess, result)
}

func (h *Handler) GetQuestionForm(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return err
	}
	questionID, err := uuid.Parse(c.Param("question"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "question not found")
	}
	form, err := h.svc.QuestionForm(c.Request().Context(), sess, questionID)
	if err != nil {
		if errors.Is(err, ErrOutOfScope) {
			return echo.NewHTTPError(http.StatusNotFound, "question not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, form)
}

func (h *Handler) SubmitQuestion(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return err
	}
	questionID, err := uuid.Parse(c.Param("question"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "question not found")
	}
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := h.svc.SubmitQuestion(c.Request().Context(), sess, questionID, req.Values, auth.IsStaff(c.Request().Context()))
	if err != nil {
		return submitError(c, sess, result, err)
	}
	return submitted(c, sess, result)
}

func (h *Handler) SubmitWhole(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return err
	}
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := h.svc.SubmitParticipant(c.Request().Context(), sess, req.Values, auth.IsStaff(c.Request().Context()))
	if err != nil {
		return submitError(c, sess, result, err)
	}
	return submitted(c, sess, result)
}

func (h *Handler) ExportCSV(c echo.Context) error {
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid survey id")
	}
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=survey-%s.csv", surveyID))
	c.Response().WriteHeader(http.StatusOK)
	return h.svc.ExportCSV(c.Request().Context(), surveyID, c.Response())
}
