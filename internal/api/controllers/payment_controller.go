package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alxtravel/internal/models/request_models"
	"alxtravel/internal/services"
	"alxtravel/pkg/middleware"
	"alxtravel/pkg/utils"
)

// webhook bodies are tiny; anything larger is not from the gateway
const maxCallbackBody = 64 << 10

type PaymentController struct {
	paymentService services.PaymentService
}

func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// InitiatePayment godoc
// @Summary Start a Chapa checkout for a booking
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.InitiatePaymentRequest true "Initiate Payment Request"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/initiate [post]
func (p *PaymentController) InitiatePayment(c *gin.Context) {
	var request request_models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := p.paymentService.InitiatePayment(c.Request.Context(), middleware.CurrentUserID(c), request, requestBaseURL(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Payment initiated successfully")
}

// VerifyPayment godoc
// @Summary Poll Chapa for the status of a transaction
// @Tags Payments
// @Produce json
// @Param transaction_id path string true "Transaction reference"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/verify/{transaction_id} [get]
func (p *PaymentController) VerifyPayment(c *gin.Context) {
	resp, err := p.paymentService.VerifyPayment(c.Request.Context(), middleware.CurrentUserID(c), c.Param("transaction_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "")
}

// PaymentCallback receives the gateway webhook. It is not behind JWT; the
// body must carry a valid Chapa-Signature instead.
func (p *PaymentController) PaymentCallback(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxCallbackBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		utils.RespondError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	err = p.paymentService.HandleCallback(c.Request.Context(), services.CallbackInput{
		Body:        body,
		ContentType: c.GetHeader("Content-Type"),
		Signatures: []string{
			c.GetHeader("Chapa-Signature"),
			c.GetHeader("X-Chapa-Signature"),
		},
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Payment status updated successfully")
}

// PaymentStatus godoc
// @Summary Read the locally stored state of a payment
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/status/{payment_id} [get]
func (p *PaymentController) PaymentStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("payment_id"), 10, 64)
	if err != nil || id == 0 {
		utils.HandleServiceError(c, utils.ErrPaymentNotFound)
		return
	}

	resp, err := p.paymentService.GetPaymentStatus(c.Request.Context(), middleware.CurrentUserID(c), uint(id))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "")
}

// requestBaseURL rebuilds scheme://host of the incoming request, honouring
// a TLS-terminating proxy.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
