package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"feepay/internal/auth"
	"feepay/internal/ledger"
	"feepay/internal/receipt"

	"go.uber.org/zap"
)

var errReceiptLink = errors.New("receipt link is invalid or has expired")

// receiptPDFHandler godoc
//
//	@Summary		Download a receipt
//	@Description	Renders the payment receipt as a PDF, shown inline.
//	@Tags			Receipts
//	@Produce		application/pdf
//	@Param			paymentID	path		string	true	"Payment ID"
//	@Success		200			{file}		binary
//	@Failure		404			{object}	error	"Payment not found"
//	@Failure		422			{object}	error	"Receipt text cannot be printed"
//	@Failure		500			{object}	error	"Internal server error"
//	@Router			/payments/{paymentID}/receipt [get]
func (app *application) receiptPDFHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := app.payments.Receipt(r.Context(), pathParam(r, "paymentID"))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	app.writeReceiptPDF(w, doc)
}

// receiptHTMLHandler godoc
//
//	@Summary		View a receipt
//	@Description	Renders the payment receipt as a printable HTML page.
//	@Tags			Receipts
//	@Produce		html
//	@Param			paymentID	path		string	true	"Payment ID"
//	@Success		200			{string}	string	"HTML receipt"
//	@Failure		404			{object}	error	"Payment not found"
//	@Failure		422			{object}	error	"Receipt text cannot be printed"
//	@Failure		500			{object}	error	"Internal server error"
//	@Router			/payments/{paymentID}/receipt/html [get]
func (app *application) receiptHTMLHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := app.payments.Receipt(r.Context(), pathParam(r, "paymentID"))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(doc.HTML)
}

// sharedReceiptHandler godoc
//
//	@Summary		Open a shared receipt link
//	@Description	Serves the PDF receipt behind a signed, expiring link sent in the receipt email.
//	@Tags			Receipts
//	@Produce		application/pdf
//	@Param			token	path		string	true	"Signed receipt token"
//	@Success		200		{file}		binary
//	@Failure		404		{object}	error	"Link invalid, expired or payment not found"
//	@Failure		422		{object}	error	"Receipt text cannot be printed"
//	@Failure		500		{object}	error	"Internal server error"
//	@Router			/receipts/shared/{token} [get]
func (app *application) sharedReceiptHandler(w http.ResponseWriter, r *http.Request) {
	if app.authenticator == nil {
		app.notFoundResponse(w, r, errReceiptLink)
		return
	}

	paymentID, err := app.authenticator.ValidateReceiptToken(pathParam(r, "token"))
	if err != nil {
		app.notFoundResponse(w, r, fmt.Errorf("%w: %w", errReceiptLink, err))
		return
	}

	doc, err := app.payments.Receipt(r.Context(), paymentID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	app.writeReceiptPDF(w, doc)
}

func (app *application) writeReceiptPDF(w http.ResponseWriter, doc *receipt.Document) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.PDF)
}

// receiptLink builds receipt URLs against the public API address. With an
// authenticator the link is signed and opens without knowing the payment id.
func receiptLink(apiURL string, a auth.Authenticator, logger *zap.SugaredLogger) func(p *ledger.Payment) string {
	base := baseURL(apiURL)

	return func(p *ledger.Payment) string {
		direct := fmt.Sprintf("%s/v1/payments/%s/receipt", base, url.PathEscape(p.PaymentID))
		if a == nil {
			return direct
		}

		token, err := a.GenerateReceiptToken(p.PaymentID)
		if err != nil {
			logger.Warnw("receipt token generation failed", "payment_id", p.PaymentID, "error", err.Error())
			return direct
		}
		return fmt.Sprintf("%s/v1/receipts/shared/%s", base, token)
	}
}

func baseURL(apiURL string) string {
	base := strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return base
}
