package main

import (
	"fmt"
	"net/http"
	"strings"

	"feepay/internal/ledger"
	"feepay/internal/notifications"
	"feepay/internal/orchestrator"
	"feepay/internal/params"
)

type verifyPaymentPayload struct {
	PaymentID         string `json:"payment_id"          validate:"required,max=64"`
	RazorpayOrderID   string `json:"razorpay_order_id"   validate:"max=128"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"max=128"`
	RazorpaySignature string `json:"razorpay_signature"  validate:"max=256"`
	TransactionID     string `json:"transaction_id"      validate:"omitempty,max=128,txnref"`
}

type completePaymentPayload struct {
	TransactionID string `json:"transaction_id" validate:"required,max=128,txnref"`
}

type confirmResponse struct {
	Payment          *ledger.Payment       `json:"payment"`
	ReceiptURL       string                `json:"receipt_url,omitempty"`
	ArchiveURL       string                `json:"archive_url,omitempty"`
	Notifications    *notifications.Report `json:"notifications,omitempty"`
	AlreadyCompleted bool                  `json:"already_completed"`
	Message          string                `json:"message"`
}

type payerPaymentsResponse struct {
	Payments []*ledger.Payment `json:"payments"`
	Count    int               `json:"count"`
}

type listPaymentsResponse struct {
	Payments   []*ledger.Payment `json:"payments"`
	Pagination params.Pagination `json:"pagination"`
}

// createPaymentHandler godoc
//
//	@Summary		Initiate a fee payment
//	@Description	Records a payment for a student and returns how to settle it: a gateway order, UPI details or manual instructions.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		orchestrator.InitiateRequest	true	"Payment details; amount may be a number or a string"
//	@Success		201		{object}	orchestrator.InitiateResult
//	@Failure		400		{object}	error	"Validation failed"
//	@Failure		404		{object}	error	"Student not found"
//	@Failure		500		{object}	error	"Internal server error"
//	@Router			/payments [post]
func (app *application) createPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload orchestrator.InitiateRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	res, err := app.payments.Initiate(r.Context(), payload)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, res); err != nil {
		app.internalServerError(w, r, err)
	}
}

// verifyPaymentHandler godoc
//
//	@Summary		Confirm a payment
//	@Description	Completes a payment from a signed Razorpay callback or from a transaction reference. A bad signature marks the payment failed.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		verifyPaymentPayload	true	"Gateway callback fields or transaction_id"
//	@Success		200		{object}	confirmResponse
//	@Failure		400		{object}	error	"Validation or verification failed"
//	@Failure		404		{object}	error	"Payment not found"
//	@Failure		409		{object}	error	"Payment cannot be completed from its current status"
//	@Failure		500		{object}	error	"Internal server error"
//	@Router			/payments/verify [post]
func (app *application) verifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload verifyPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	res, err := app.payments.Confirm(r.Context(), orchestrator.ConfirmRequest{
		PaymentID:        payload.PaymentID,
		GatewayOrderID:   payload.RazorpayOrderID,
		GatewayPaymentID: payload.RazorpayPaymentID,
		GatewaySignature: payload.RazorpaySignature,
		TransactionRef:   payload.TransactionID,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if res.VerificationFailed {
		app.logger.Warnw("payment verification failed", "payment_id", res.Payment.PaymentID, "status", res.Payment.Status)
		writeJSONError(w, http.StatusBadRequest, "payment verification failed")
		return
	}

	app.writeConfirmation(w, r, res, orchestrator.MessageVerified)
}

// completePaymentHandler godoc
//
//	@Summary		Mark a payment completed (admin)
//	@Description	Completes a manually verified payment with its bank or UPI reference. No gateway check is made.
//	@Tags			Payments-Admin
//	@Accept			json
//	@Produce		json
//	@Param			paymentID	path		string					true	"Payment ID"
//	@Param			payload		body		completePaymentPayload	true	"Transaction reference"
//	@Success		200			{object}	confirmResponse
//	@Failure		400			{object}	error	"Validation failed"
//	@Failure		401			{object}	error	"Unauthorized"
//	@Failure		404			{object}	error	"Payment not found"
//	@Failure		409			{object}	error	"Payment cannot be completed from its current status"
//	@Failure		500			{object}	error	"Internal server error"
//	@Security		BasicAuth
//	@Router			/payments/{paymentID}/complete [post]
func (app *application) completePaymentHandler(w http.ResponseWriter, r *http.Request) {
	paymentID := pathParam(r, "paymentID")

	var payload completePaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	res, err := app.payments.MarkComplete(r.Context(), paymentID, payload.TransactionID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	app.writeConfirmation(w, r, res, orchestrator.MessageMarked)
}

func (app *application) writeConfirmation(w http.ResponseWriter, r *http.Request, res *orchestrator.ConfirmResult, message string) {
	if res.AlreadyCompleted {
		message = orchestrator.MessageAlready
	}

	out := confirmResponse{
		Payment:          res.Payment,
		ReceiptURL:       app.receiptURL(res.Payment),
		ArchiveURL:       res.ArchiveURL,
		Notifications:    res.Notifications,
		AlreadyCompleted: res.AlreadyCompleted,
		Message:          message,
	}

	if err := app.jsonResponse(w, http.StatusOK, out); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getPaymentHandler godoc
//
//	@Summary		Get a payment
//	@Tags			Payments
//	@Produce		json
//	@Param			paymentID	path		string	true	"Payment ID"
//	@Success		200			{object}	ledger.Payment
//	@Failure		404			{object}	error	"Payment not found"
//	@Failure		500			{object}	error	"Internal server error"
//	@Router			/payments/{paymentID} [get]
func (app *application) getPaymentHandler(w http.ResponseWriter, r *http.Request) {
	p, err := app.payments.Payment(r.Context(), pathParam(r, "paymentID"))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listPayerPaymentsHandler godoc
//
//	@Summary		List a student's payments
//	@Description	Returns every payment of a student, newest first.
//	@Tags			Payments
//	@Produce		json
//	@Param			payerID	path		string	true	"Student ID"
//	@Success		200		{object}	payerPaymentsResponse
//	@Failure		500		{object}	error	"Internal server error"
//	@Router			/payments/payer/{payerID} [get]
func (app *application) listPayerPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.payments.PayerPayments(r.Context(), pathParam(r, "payerID"))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	if list == nil {
		list = []*ledger.Payment{}
	}

	if err := app.jsonResponse(w, http.StatusOK, payerPaymentsResponse{Payments: list, Count: len(list)}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listPaymentsHandler godoc
//
//	@Summary		List payments (admin)
//	@Description	Returns a paginated list of payments, newest first. Optional filters: status, payer_id.
//	@Tags			Payments-Admin
//	@Produce		json
//	@Param			status		query		string	false	"Pending|Verification Pending|Completed|Failed|Refunded"
//	@Param			payer_id	query		string	false	"Student ID"
//	@Param			page		query		int		false	"Page number (default: 1)"
//	@Param			limit		query		int		false	"Items per page (default 20, max 100)"
//	@Success		200			{object}	listPaymentsResponse
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		401			{object}	error	"Unauthorized"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Security		BasicAuth
//	@Router			/payments [get]
func (app *application) listPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pg, err := params.ParsePagination(q)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	filter := ledger.Filter{
		Status:  ledger.Status(strings.TrimSpace(q.Get("status"))),
		PayerID: strings.TrimSpace(q.Get("payer_id")),
		Limit:   pg.Limit,
		Offset:  pg.Offset,
	}

	list, total, err := app.payments.List(r.Context(), filter)
	if err != nil {
		app.serviceError(w, r, fmt.Errorf("list payments: %w", err))
		return
	}
	if list == nil {
		list = []*ledger.Payment{}
	}

	pg.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, listPaymentsResponse{Payments: list, Pagination: pg}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// paymentEventsHandler godoc
//
//	@Summary		Payment audit trail (admin)
//	@Description	Lists what happened to a payment, oldest first: initiation, gateway callbacks, status transitions, archiving and notifications.
//	@Tags			Payments-Admin
//	@Produce		json
//	@Param			paymentID	path		string	true	"Payment ID"
//	@Success		200			{array}		ledger.Event
//	@Failure		401			{object}	error	"Unauthorized"
//	@Failure		404			{object}	error	"Payment not found"
//	@Failure		500			{object}	error	"Internal server error"
//	@Security		BasicAuth
//	@Router			/payments/{paymentID}/events [get]
func (app *application) paymentEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := app.payments.Events(r.Context(), pathParam(r, "paymentID"))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, events); err != nil {
		app.internalServerError(w, r, err)
	}
}

// bankDetailsHandler godoc
//
//	@Summary		Institution bank details
//	@Description	Account, IFSC, bank and UPI details for manual transfers.
//	@Tags			Payments
//	@Produce		json
//	@Success		200	{object}	orchestrator.BankDetails
//	@Router			/payments/bank-details [get]
func (app *application) bankDetailsHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.payments.BankDetails()); err != nil {
		app.internalServerError(w, r, err)
	}
}
