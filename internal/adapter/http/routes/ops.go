package routes

import (
	"net/http"

	"cartcure_ops/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathSubmissions  = "/submissions"
	PathJobs         = "/jobs"
	PathInvoices     = "/invoices"
	PathTestimonials = "/testimonials"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func addSubmissionRoutes(rg *gin.RouterGroup, h *handlers.SubmissionHandler) {
	submissions := rg.Group(PathSubmissions)
	{
		submissions.POST("", h.Intake)
		submissions.GET("/:id", h.GetSubmission)
		submissions.PATCH("/:id/review", h.ReviewSubmission)
		submissions.PATCH("/:id/decline", h.DeclineSubmission)
		submissions.PATCH("/:id/spam", h.MarkSubmissionSpam)
		submissions.POST("/:id/jobs", h.CreateJob)
	}
}

func addJobRoutes(rg *gin.RouterGroup, h *handlers.JobHandler, invoiceHandler *handlers.InvoiceHandler) {
	jobs := rg.Group(PathJobs)
	{
		jobs.GET("/:id", h.GetJob)
		jobs.POST("/:id/quote", h.PrepareQuote)
		jobs.PATCH("/:id/accept", h.AcceptQuote)
		jobs.PATCH("/:id/decline", h.DeclineQuote)
		jobs.PATCH("/:id/start", h.StartJob)
		jobs.PATCH("/:id/hold", h.HoldJob)
		jobs.PATCH("/:id/resume", h.ResumeJob)
		jobs.PATCH("/:id/cancel", h.CancelJob)
		jobs.PATCH("/:id/complete", h.CompleteJob)

		jobs.POST("/:id/invoices", invoiceHandler.IssueInvoice)
		jobs.GET("/:id/invoices", invoiceHandler.ListJobInvoices)
	}
}

func addInvoiceRoutes(rg *gin.RouterGroup, h *handlers.InvoiceHandler) {
	invoices := rg.Group(PathInvoices)
	{
		invoices.POST("/sweep-overdue", h.SweepOverdue)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PATCH("/:id/send", h.SendInvoice)
		invoices.PATCH("/:id/paid", h.MarkPaid)
		invoices.PATCH("/:id/cancel", h.CancelInvoice)
	}
}

func addTestimonialRoutes(rg *gin.RouterGroup, h *handlers.TestimonialHandler) {
	testimonials := rg.Group(PathTestimonials)
	{
		testimonials.POST("", h.Submit)
		testimonials.GET("", h.ListApproved)
		testimonials.PATCH("/:id/approve", h.Approve)
	}
}
