package v1

import (
	"errors"
	"io"
	"net/http"

	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "Stripe-Signature"

type BillingHandler struct {
	billingUC    domain.BillingUsecase
	reconciler   domain.BillingReconciler
	maxBodyBytes int64
}

func NewBillingHandler(public, webhooks, company *gin.RouterGroup, billingUC domain.BillingUsecase, reconciler domain.BillingReconciler, maxBodyBytes int64) {
	handler := &BillingHandler{
		billingUC:    billingUC,
		reconciler:   reconciler,
		maxBodyBytes: maxBodyBytes,
	}

	public.GET("/plans", handler.ListPlans)
	webhooks.POST("/billing/webhook", handler.Webhook)

	billing := company.Group("/billing")
	{
		billing.POST("/checkout", handler.CreateCheckout)
		billing.POST("/verify", handler.VerifyPayment)
		billing.GET("/subscription", handler.CurrentSubscription)
	}
}

type CheckoutRequest struct {
	PriceID string `json:"price_id" binding:"required"`
}

type VerifyPaymentRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// ListPlans godoc
// @Summary      List plans
// @Tags         billing
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Plan}
// @Router       /plans [get]
func (h *BillingHandler) ListPlans(c *gin.Context) {
	response.Success(c, http.StatusOK, "Plans", h.billingUC.ListPlans(c))
}

// CreateCheckout godoc
// @Summary      Start a plan checkout
// @Description  Creates a hosted checkout session for a paid plan
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        body  body      CheckoutRequest  true  "Plan price"
// @Success      201   {object}  response.Response{data=domain.CheckoutSession}
// @Failure      404   {object}  response.Response
// @Failure      503   {object}  response.Response
// @Router       /billing/checkout [post]
// @Security     BearerAuth
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.billingUC.CreateCheckoutSession(c, currentUserID(c), req.PriceID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Checkout session created", session)
}

// VerifyPayment godoc
// @Summary      Verify a checkout
// @Description  Reports "success" with the purchased plan once paid, "processing" otherwise
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        body  body      VerifyPaymentRequest  true  "Checkout session"
// @Success      200   {object}  response.Response{data=domain.PaymentVerification}
// @Failure      403   {object}  response.Response
// @Router       /billing/verify [post]
// @Security     BearerAuth
func (h *BillingHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.billingUC.VerifyPayment(c, currentUserID(c), req.SessionID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Payment status", result)
}

// CurrentSubscription godoc
// @Summary      Current subscription
// @Description  Data is null when the company has no subscription
// @Tags         billing
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.SubscriptionView}
// @Router       /billing/subscription [get]
// @Security     BearerAuth
func (h *BillingHandler) CurrentSubscription(c *gin.Context) {
	view, err := h.billingUC.CurrentSubscription(c, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Current subscription", view)
}

// Webhook godoc
// @Summary      Billing provider webhook
// @Description  Verifies the signature and reconciles the company subscription. Any failure answers 400.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header    string  true  "Webhook signature"
// @Success      200               {object}  map[string]bool
// @Failure      400               {object}  response.Response
// @Router       /billing/webhook [post]
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxBodyBytes))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to read request body", apperror.KindValidation)
		return
	}

	result, err := h.reconciler.HandleEvent(c, payload, c.GetHeader(signatureHeader))
	if err != nil {
		kind, message := apperror.KindInternal, "Webhook could not be processed"
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			kind = appErr.Kind
			if kind != apperror.KindInternal {
				message = appErr.Message
			}
		}
		logger.Log.Warn("Billing webhook rejected",
			"kind", kind,
			"request_id", response.RequestID(c),
			"error", err,
		)
		response.Error(c, http.StatusBadRequest, message, kind)
		return
	}

	logger.Log.Debug("Billing webhook processed",
		"event_id", result.EventID,
		"event_type", result.EventType,
		"handled", result.Handled,
	)
	c.JSON(http.StatusOK, gin.H{"received": true})
}
