package services

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"alxtravel/internal/kafka"
	dbm "alxtravel/internal/models/db_models"
	"alxtravel/internal/models/request_models"
	"alxtravel/internal/models/response_models"
	"alxtravel/internal/repositories"
	"alxtravel/pkg/taskqueue"
	"alxtravel/pkg/utils"
)

type PaymentConfig struct {
	PublicBaseURL string // overrides the base derived from the incoming request
	AppName       string
	WebhookSecret string
	// VerifyCallbacks re-reads the status from the gateway instead of
	// trusting the webhook body.
	VerifyCallbacks bool
}

// CallbackInput is an unparsed webhook delivery.
type CallbackInput struct {
	Body        []byte
	ContentType string
	Signatures  []string
}

type PaymentService interface {
	InitiatePayment(ctx context.Context, accountID uint, req request_models.InitiatePaymentRequest, requestBaseURL string) (*response_models.InitiatePaymentResponse, error)
	VerifyPayment(ctx context.Context, accountID uint, transactionID string) (*response_models.VerifyPaymentResponse, error)
	HandleCallback(ctx context.Context, in CallbackInput) error
	GetPaymentStatus(ctx context.Context, accountID uint, paymentID uint) (*response_models.PaymentStatusResponse, error)
}

type paymentService struct {
	payments  repositories.PaymentRepository
	bookings  repositories.BookingRepository
	callbacks repositories.CallbackRepository
	gateway   ChapaClient
	queue     taskqueue.Queue
	events    kafka.EventPublisher
	cfg       PaymentConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewPaymentService(
	payments repositories.PaymentRepository,
	bookings repositories.BookingRepository,
	callbacks repositories.CallbackRepository,
	gateway ChapaClient,
	queue taskqueue.Queue,
	events kafka.EventPublisher,
	cfg PaymentConfig,
	logger *zap.Logger,
) PaymentService {
	if events == nil {
		events = kafka.NoopPublisher{}
	}
	if cfg.AppName == "" {
		cfg.AppName = "ALX Travel App"
	}
	return &paymentService{
		payments:  payments,
		bookings:  bookings,
		callbacks: callbacks,
		gateway:   gateway,
		queue:     queue,
		events:    events,
		cfg:       cfg,
		logger:    logger.Named("payments"),
		now:       time.Now,
	}
}

func (p *paymentService) InitiatePayment(ctx context.Context, accountID uint, req request_models.InitiatePaymentRequest, requestBaseURL string) (*response_models.InitiatePaymentResponse, error) {
	if req.BookingID == 0 || req.Amount == nil {
		return nil, utils.ErrMissingPaymentFields
	}
	// Validated at the precision charged and stored.
	chargeAmount := req.Amount.Round(2)
	if !chargeAmount.IsPositive() {
		return nil, utils.ErrInvalidAmount
	}

	booking, err := p.bookings.FindByIdForAccount(ctx, req.BookingID, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if booking == nil {
		return nil, utils.ErrBookingNotFound
	}

	exists, err := p.payments.ExistsForBooking(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if exists {
		return nil, utils.ErrPaymentExists
	}

	base := p.baseURL(requestBaseURL)
	returnURL := strings.TrimSpace(req.ReturnURL)
	if returnURL == "" {
		returnURL = base + "/payment-success/"
	}

	txRef := utils.NewTransactionRef()
	account := booking.Account

	result, err := p.gateway.InitializeTransaction(ctx, InitializeTransactionRequest{
		Amount:      chargeAmount,
		Currency:    dbm.CurrencyETB,
		Email:       account.Email,
		FirstName:   account.DisplayName(),
		LastName:    account.LastName,
		PhoneNumber: req.PhoneNumber,
		TxRef:       txRef,
		CallbackURL: base + "/api/payments/callback",
		ReturnURL:   returnURL,
		Customization: Customization{
			Title:       p.cfg.AppName,
			Description: fmt.Sprintf("Payment for booking %s", booking.Reference),
		},
	})
	if err != nil {
		p.logger.Warn("gateway initialize failed",
			zap.Uint("booking_id", booking.ID),
			zap.String("transaction_id", txRef),
			zap.Error(err))
		return nil, err
	}

	payment := &dbm.Payment{
		BookingID:     booking.ID,
		TransactionID: txRef,
		Amount:        chargeAmount,
		Currency:      dbm.CurrencyETB,
		Status:        dbm.PaymentStatusPending,
		CheckoutURL:   result.CheckoutURL,
	}
	if err := p.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	p.logger.Info("payment initiated",
		zap.Uint("payment_id", payment.ID),
		zap.Uint("booking_id", booking.ID),
		zap.String("transaction_id", txRef))

	return &response_models.InitiatePaymentResponse{
		CheckoutURL:   result.CheckoutURL,
		TransactionID: txRef,
		PaymentID:     payment.ID,
	}, nil
}

func (p *paymentService) VerifyPayment(ctx context.Context, accountID uint, transactionID string) (*response_models.VerifyPaymentResponse, error) {
	payment, err := p.payments.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if payment == nil {
		return nil, utils.ErrPaymentNotFound
	}
	if payment.Booking.AccountID != accountID {
		return nil, utils.ErrNotPaymentOwner
	}

	result, err := p.gateway.VerifyTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if _, err := p.reconcile(ctx, payment, result.Status, result.Reference, result.Method, "verify"); err != nil {
		return nil, err
	}

	return &response_models.VerifyPaymentResponse{
		TransactionID:  payment.TransactionID,
		PaymentStatus:  string(payment.Status),
		Amount:         payment.Amount.StringFixed(2),
		ChapaReference: payment.ChapaReference,
		PaymentMethod:  payment.PaymentMethod,
		CompletedAt:    payment.CompletedAt,
	}, nil
}

func (p *paymentService) HandleCallback(ctx context.Context, in CallbackInput) error {
	if !utils.VerifyWebhookSignature(p.cfg.WebhookSecret, in.Body, in.Signatures...) {
		p.logger.Warn("callback rejected: bad signature")
		return utils.ErrInvalidSignature
	}

	payload, raw, err := parseCallback(in.Body, in.ContentType)
	if err != nil {
		return err
	}
	if strings.TrimSpace(payload.TxRef) == "" {
		return utils.ErrMissingTxRef
	}

	record := &dbm.PaymentCallback{
		TransactionID:  payload.TxRef,
		ReportedStatus: payload.Status,
		ContentType:    in.ContentType,
		Payload:        raw,
	}
	if err := p.callbacks.Create(ctx, record); err != nil {
		p.logger.Warn("failed to record callback", zap.String("transaction_id", payload.TxRef), zap.Error(err))
		record.ID = 0
	}

	payment, err := p.payments.FindByTransactionID(ctx, payload.TxRef)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if payment == nil {
		return utils.ErrPaymentNotFound
	}

	status, reference, method := payload.Status, payload.Reference, payload.Method
	if p.cfg.VerifyCallbacks {
		result, err := p.gateway.VerifyTransaction(ctx, payload.TxRef)
		if err != nil {
			return err
		}
		status, reference, method = result.Status, result.Reference, result.Method
	}

	applied, err := p.reconcile(ctx, payment, status, reference, method, "callback")
	if err != nil {
		return err
	}

	if applied && record.ID != 0 {
		if err := p.callbacks.MarkApplied(ctx, record.ID); err != nil {
			p.logger.Warn("failed to mark callback applied", zap.Uint("callback_id", record.ID), zap.Error(err))
		}
	}
	return nil
}

func (p *paymentService) GetPaymentStatus(ctx context.Context, accountID uint, paymentID uint) (*response_models.PaymentStatusResponse, error) {
	payment, err := p.payments.FindById(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if payment == nil {
		return nil, utils.ErrPaymentNotFound
	}
	if payment.Booking.AccountID != accountID {
		return nil, utils.ErrNotPaymentOwner
	}

	resp := &response_models.PaymentStatusResponse{
		PaymentID:        payment.ID,
		TransactionID:    payment.TransactionID,
		BookingReference: payment.Booking.Reference,
		Amount:           payment.Amount.StringFixed(2),
		Currency:         payment.Currency,
		Status:           string(payment.Status),
		PaymentMethod:    payment.PaymentMethod,
		CreatedAt:        payment.CreatedAt,
		CompletedAt:      payment.CompletedAt,
	}
	if payment.Status == dbm.PaymentStatusPending {
		checkout := payment.CheckoutURL
		resp.CheckoutURL = &checkout
	}
	return resp, nil
}

// reconcile persists the decision for a gateway report. Only the caller that
// moves the row out of pending notifies; everyone else sees the winner's
// state in payment afterwards.
func (p *paymentService) reconcile(ctx context.Context, payment *dbm.Payment, gatewayStatus, reference, method, source string) (bool, error) {
	log := p.logger.With(
		zap.String("transaction_id", payment.TransactionID),
		zap.String("source", source),
		zap.String("gateway_status", gatewayStatus))

	d := Reconcile(*payment, gatewayStatus, reference, method, p.now())
	if d.Stale {
		log.Warn("ignoring status report for terminal payment", zap.String("current", string(payment.Status)))
	}
	if !d.Changed {
		return false, nil
	}
	if d.MissingDetails {
		log.Warn("gateway reported success without reference or method",
			zap.String("reference", reference),
			zap.String("method", method))
	}

	won, err := p.payments.TransitionFromPending(ctx, payment.ID, d.Updates)
	if err != nil {
		return false, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !won {
		log.Info("payment already left pending, reloading")
		fresh, err := p.payments.FindById(ctx, payment.ID)
		if err != nil {
			return false, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if fresh != nil {
			*payment = *fresh
		}
		return false, nil
	}

	d.Apply(payment)
	log.Info("payment status updated", zap.String("status", string(payment.Status)))

	if err := p.queue.Enqueue(ctx, taskqueue.Task{Kind: d.Notification, PaymentID: payment.ID}); err != nil {
		log.Error("failed to enqueue notification", zap.Error(err))
	}

	event := kafka.PaymentEvent{
		Type:             "payment_" + string(payment.Status),
		PaymentID:        payment.ID,
		TransactionID:    payment.TransactionID,
		BookingReference: payment.Booking.Reference,
		AccountID:        payment.Booking.AccountID,
		Amount:           payment.Amount.StringFixed(2),
		Currency:         payment.Currency,
		Status:           string(payment.Status),
		Source:           source,
		Timestamp:        p.now().UTC(),
	}
	if err := p.events.PublishPaymentEvent(ctx, event); err != nil {
		log.Warn("failed to publish payment event", zap.Error(err))
	}

	return true, nil
}

func (p *paymentService) baseURL(requestBaseURL string) string {
	if p.cfg.PublicBaseURL != "" {
		return strings.TrimRight(p.cfg.PublicBaseURL, "/")
	}
	return strings.TrimRight(requestBaseURL, "/")
}

// parseCallback decodes a JSON or form encoded webhook body and returns the
// payload with a JSON copy of the body for the audit record.
func parseCallback(body []byte, contentType string) (request_models.CallbackPayload, datatypes.JSON, error) {
	var payload request_models.CallbackPayload

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/json" {
		if err := json.Unmarshal(body, &payload); err != nil {
			return payload, nil, fmt.Errorf("%w: %v", utils.ErrInvalidCallbackBody, err)
		}
		return payload, datatypes.JSON(body), nil
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return payload, nil, fmt.Errorf("%w: %v", utils.ErrInvalidCallbackBody, err)
	}
	payload = request_models.CallbackPayload{
		TxRef:     values.Get("tx_ref"),
		Status:    values.Get("status"),
		Reference: values.Get("reference"),
		Method:    values.Get("method"),
	}

	flat := make(map[string]string, len(values))
	for k := range values {
		flat[k] = values.Get(k)
	}
	raw, _ := json.Marshal(flat)
	return payload, datatypes.JSON(raw), nil
}
