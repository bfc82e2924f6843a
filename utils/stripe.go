package utils

import (
	"fmt"
	"time"

	"agencydesk/config"
	"agencydesk/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentlink"
	"github.com/stripe/stripe-go/v76/price"
	"github.com/stripe/stripe-go/v76/webhook"
)

func InitStripe() {
	stripe.Key = config.AppConfig.StripeSecretKey
}

// CreateInvoicePaymentLink creates an ad-hoc Stripe price for the invoice
// amount and wraps it in a shareable payment link. The invoice number rides
// along as metadata so the webhook can find its way back.
func CreateInvoicePaymentLink(invoice models.Invoice, contract models.Contract) (string, string, error) {
	p, err := price.New(&stripe.PriceParams{
		Currency:   stripe.String(invoice.Currency),
		UnitAmount: stripe.Int64(int64(invoice.Amount * 100)), // cents
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(fmt.Sprintf("Invoice %s - %s", invoice.Number, contract.ClientCompany)),
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to create stripe price: %w", err)
	}

	link, err := paymentlink.New(&stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{Price: stripe.String(p.ID), Quantity: stripe.Int64(1)},
		},
		Metadata: map[string]string{
			"invoice_number":  invoice.Number,
			"contract_number": contract.Number,
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to create payment link: %w", err)
	}
	return link.ID, link.URL, nil
}

// ConstructStripeEvent securely constructs and verifies a Stripe webhook event
func ConstructStripeEvent(c *fiber.Ctx) (stripe.Event, error) {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return stripe.Event{}, fiber.NewError(fiber.StatusBadRequest, "Missing Stripe-Signature header")
	}

	// Verify the webhook signature with tolerance for clock drift
	event, err := webhook.ConstructEventWithTolerance(
		c.Body(),
		signature,
		config.AppConfig.StripeWebhookSecret,
		5*time.Minute,
	)
	if err != nil {
		LogError("stripe_webhook_verification", err, map[string]interface{}{
			"signature_prefix": signature[:min(10, len(signature))],
		})
		return stripe.Event{}, fiber.NewError(fiber.StatusBadRequest, "Invalid webhook signature")
	}

	return event, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
