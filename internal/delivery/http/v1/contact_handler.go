package v1

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, limit gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	// Public Routes - NO authentication required
	public.POST("/contact", limit, handler.SubmitContact)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validate and send a message through the contact form in one request. Rejected forms return the per-field flags in the error field.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.FormData  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response{error=domain.ValidationErrors}
// @Failure      429      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.FormData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body").WithDetails(validation.FormatValidationErrors(err)))
		return
	}

	flags, err := h.contactUC.SendContactMessage(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidForm):
			c.Error(apperror.Unprocessable("Please correct the highlighted fields", flags))
		case errors.Is(err, domain.ErrGatewayNotConfigured):
			c.Error(apperror.ServiceUnavailable("Contact service temporarily unavailable", err))
		default:
			c.Error(apperror.BadGateway("Failed to send email. Please try again.", err))
		}
		return
	}

	response.Success(c, http.StatusOK, "Your message has been sent successfully!", nil)
}
