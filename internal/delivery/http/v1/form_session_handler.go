package v1

import (
	"errors"
	"net/http"
	"strconv"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/auth"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type FormSessionHandler struct {
	sessionUC domain.FormSessionUsecase
}

// NewFormSessionHandler registers the server-hosted contact form routes.
// Opening a session is public; everything else needs the session token.
func NewFormSessionHandler(public *gin.RouterGroup, sessionUC domain.FormSessionUsecase, signer *auth.SessionSigner, limit gin.HandlerFunc) {
	handler := &FormSessionHandler{sessionUC: sessionUC}

	sessions := public.Group("/contact/sessions")
	sessions.POST("", handler.Open)

	owned := sessions.Group("/:id")
	owned.Use(middleware.SessionAuthMiddleware(signer))
	{
		owned.GET("", handler.State)
		owned.PUT("/fields/:field", handler.UpdateField)
		owned.POST("/submit", limit, handler.Submit)
		owned.DELETE("", handler.Close)
	}
}

type UpdateFieldRequest struct {
	Value *string `json:"value" binding:"required"`
}

// Open godoc
// @Summary      Open a contact form session
// @Description  Create a server-hosted contact form. The returned token must be sent as a Bearer token on every other session route.
// @Tags         contact
// @Produce      json
// @Success      201  {object}  response.Response{data=domain.FormSession}
// @Failure      429  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /contact/sessions [post]
func (h *FormSessionHandler) Open(c *gin.Context) {
	session, err := h.sessionUC.Open(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Form session opened", session)
}

// State godoc
// @Summary      Get contact form state
// @Description  Current field values, validation flags, submission status and notice.
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.FormState}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /contact/sessions/{id} [get]
func (h *FormSessionHandler) State(c *gin.Context) {
	state, err := h.sessionUC.State(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Form state retrieved", state)
}

// UpdateField godoc
// @Summary      Edit a contact form field
// @Description  Replace one field value. Validation flags are left untouched until the next submit.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string              true  "Session ID"
// @Param        field  path      string              true  "Field name"  Enums(name, email, message)
// @Param        body   body      UpdateFieldRequest  true  "New value"
// @Success      200    {object}  response.Response{data=domain.FormState}
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /contact/sessions/{id}/fields/{field} [put]
func (h *FormSessionHandler) UpdateField(c *gin.Context) {
	field, err := domain.ParseField(c.Param("field"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body").WithDetails(validation.FormatValidationErrors(err)))
		return
	}

	state, err := h.sessionUC.Edit(c.Request.Context(), c.Param("id"), field, *req.Value)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Field updated", state)
}

// Submit godoc
// @Summary      Submit a contact form session
// @Description  Validate and send the form. Without wait the call returns 202 as soon as the email request starts; with wait=true it blocks until the submission settles or the wait timeout elapses.
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "Session ID"
// @Param        wait  query     bool    false  "Wait for the submission to settle"
// @Success      200   {object}  response.Response{data=domain.SubmitResult}
// @Success      202   {object}  response.Response{data=domain.SubmitResult}
// @Failure      401   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response{error=domain.SubmitResult}
// @Failure      422   {object}  response.Response{error=domain.SubmitResult}
// @Failure      429   {object}  response.Response
// @Router       /contact/sessions/{id}/submit [post]
func (h *FormSessionHandler) Submit(c *gin.Context) {
	wait, _ := strconv.ParseBool(c.Query("wait"))

	result, err := h.sessionUC.Submit(c.Request.Context(), c.Param("id"), wait)
	if err != nil {
		h.handleError(c, err)
		return
	}

	switch result.Outcome {
	case domain.OutcomeInvalid:
		c.Error(apperror.Unprocessable("Please correct the highlighted fields", result))
	case domain.OutcomeInFlight:
		c.Error(apperror.Conflict(domain.ErrSubmissionInFlight.Error()).WithDetails(result))
	default:
		if result.State.Status == domain.StatusSubmitting {
			response.Success(c, http.StatusAccepted, "Submission started", result)
			return
		}
		response.Success(c, http.StatusOK, "Submission settled", result)
	}
}

// Close godoc
// @Summary      Close a contact form session
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /contact/sessions/{id} [delete]
func (h *FormSessionHandler) Close(c *gin.Context) {
	if err := h.sessionUC.Close(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Form session closed", nil)
}

func (h *FormSessionHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.Error(apperror.NotFound("Form session not found or expired"))
	case errors.Is(err, domain.ErrUnknownField):
		c.Error(apperror.BadRequest("Unknown field. Expected one of: name, email, message"))
	case errors.Is(err, domain.ErrSubmissionInFlight):
		c.Error(apperror.Conflict(err.Error()))
	case errors.Is(err, domain.ErrSessionLimit):
		c.Error(apperror.ServiceUnavailable("Too many open forms. Please try again later.", err))
	default:
		c.Error(apperror.Internal(err))
	}
}
