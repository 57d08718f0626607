package handlers

import (
	"errors"
	"net/http"

	request "cartcure_ops/internal/adapter/http/dto/request"
	response "cartcure_ops/internal/adapter/http/dto/response"
	"cartcure_ops/internal/domain/entities"
	"cartcure_ops/internal/domain/workflow"
	"cartcure_ops/internal/usecase"
	"cartcure_ops/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidInvoicePayload = pkg.NewDomainErrorSimple("INVALID_INVOICE_INPUT", "Invalid invoice payload", http.StatusBadRequest)
)

// InvoiceHandler handles invoicing, settlement and the overdue sweep.
type InvoiceHandler struct {
	usecase usecase.IInvoiceUseCase
}

func NewInvoiceHandler(uc usecase.IInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{usecase: uc}
}

// IssueInvoice godoc
// @Summary      Issue an invoice against a job
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Job number"
// @Param        invoice  body      request.IssueInvoiceRequest  true  "Invoice"
// @Success      201  {object}  response.InvoiceResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Router       /jobs/{id}/invoices [post]
func (h *InvoiceHandler) IssueInvoice(c *gin.Context) {
	var payload request.IssueInvoiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidInvoicePayload.HTTPStatus, errInvalidInvoicePayload.ToHTTPError())
		return
	}

	jobID := c.Param("id")
	invType := entities.InvoiceType(payload.ResolveType())

	var invoice entities.Invoice
	var err error
	if invType == entities.InvoiceTypeBalance {
		invoice, err = h.usecase.GenerateBalance(c.Request.Context(), jobID)
	} else {
		invoice, err = h.usecase.Issue(c.Request.Context(), jobID, invType, payload.Amount)
	}
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromInvoice(invoice))
}

// ListJobInvoices godoc
// @Summary      List a job's invoices
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Job number"
// @Success      200  {array}   response.InvoiceResponse
// @Router       /jobs/{id}/invoices [get]
func (h *InvoiceHandler) ListJobInvoices(c *gin.Context) {
	invoices, err := h.usecase.ListByJobID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromInvoices(invoices))
}

// GetInvoice godoc
// @Summary      Fetch an invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice number"
// @Success      200  {object}  response.InvoiceResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(invoice))
}

func (h *InvoiceHandler) SendInvoice(c *gin.Context) {
	invoice, err := h.usecase.Send(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(invoice))
}

// MarkPaid godoc
// @Summary      Record an invoice settlement
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Invoice number"
// @Param        payment  body      request.MarkPaidRequest true  "Settlement details"
// @Success      200  {object}  response.InvoiceResponse
// @Failure      402  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Router       /invoices/{id}/paid [patch]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	// The body is optional for manual settlements.
	var payload request.MarkPaidRequest
	_ = c.ShouldBindJSON(&payload)

	invoice, err := h.usecase.MarkPaid(c.Request.Context(), c.Param("id"), payload.Method, payload.Reference, payload.PaymentPayload)
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(invoice))
}

func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	invoice, err := h.usecase.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(invoice))
}

// SweepOverdue godoc
// @Summary      Reclassify sent invoices past their due date as overdue
// @Tags         invoices
// @Produce      json
// @Success      200  {array}  response.InvoiceResponse
// @Router       /invoices/sweep-overdue [post]
func (h *InvoiceHandler) SweepOverdue(c *gin.Context) {
	invoices, err := h.usecase.ReclassifyOverdue(c.Request.Context())
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromInvoices(invoices))
}

func mapInvoiceError(err error) *pkg.AppError {
	var transitionErr *workflow.InvalidTransitionError
	switch {
	case errors.Is(err, usecase.ErrInvalidInvoiceID), errors.Is(err, usecase.ErrInvalidInvoiceType),
		errors.Is(err, usecase.ErrInvalidJobID), errors.Is(err, usecase.ErrInvalidQuoteVal):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrJobNotFound):
		return pkg.NewDomainErrorSimple("JOB_NOT_FOUND", "Job not found", http.StatusNotFound)
	case errors.Is(err, workflow.ErrDuplicateInvoice):
		return pkg.NewDomainErrorSimple("DUPLICATE_INVOICE", "An invoice of this type already exists for the job", http.StatusConflict)
	case errors.Is(err, workflow.ErrNoDepositFound):
		return pkg.NewDomainErrorSimple("NO_DEPOSIT", "No deposit invoice exists to balance against", http.StatusConflict)
	case errors.As(err, &transitionErr):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", transitionErr.Error(), http.StatusConflict)
	case errors.Is(err, workflow.ErrInvalidStateTransition):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Invoice is not in a state that allows this action", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentFailed):
		return pkg.NewDomainErrorSimple("PAYMENT_FAILED", "Payment was not approved", http.StatusPaymentRequired)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
