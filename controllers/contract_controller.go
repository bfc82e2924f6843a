package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"agencydesk/models"
	"agencydesk/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"
)

type ContractController struct {
	DB     *gorm.DB
	Mailer *utils.ContractMailer
	Logger *log.Logger
}

func NewContractController(db *gorm.DB, mailer *utils.ContractMailer, logger *log.Logger) *ContractController {
	return &ContractController{
		DB:     db,
		Mailer: mailer,
		Logger: logger,
	}
}

// CreateContract drafts a contract from service line items. The total is
// always the sum of the lines, never caller-supplied.
func (cc *ContractController) CreateContract(c *fiber.Ctx) error {
	var input struct {
		ClientID      uint   `json:"client_id" validate:"required"`
		ClientCompany string `json:"client_company" validate:"omitempty,max=200"`
		Currency      string `json:"currency" validate:"omitempty,len=3"`
		Services      []struct {
			ServiceName string  `json:"service_name" validate:"required,max=200"`
			Price       float64 `json:"price" validate:"required,gt=0"`
		} `json:"services" validate:"required,min=1,dive"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var client models.Client
	if err := cc.DB.First(&client, input.ClientID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
	}

	company := input.ClientCompany
	if company == "" {
		company = client.CompanyName
	}
	if company == "" {
		company = client.Name
	}
	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = "USD"
	}

	contract := models.Contract{
		ClientID:      input.ClientID,
		Number:        contractNumber(),
		ClientCompany: company,
		Status:        "draft",
		Currency:      currency,
	}
	for _, s := range input.Services {
		contract.TotalValue += s.Price
		contract.Services = append(contract.Services, models.ContractService{
			ServiceName: s.ServiceName,
			Price:       s.Price,
		})
	}

	if err := cc.DB.Create(&contract).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create contract", err)
	}

	cc.Logger.Printf("Drafted contract %s for client %d (%s %.2f)",
		contract.Number, contract.ClientID, contract.Currency, contract.TotalValue)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(contract))
}

// GetContracts lists contracts, filterable by client and status
func (cc *ContractController) GetContracts(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.Contract{}).Preload("Services")
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", utils.ParseUint(clientID))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var contracts []models.Contract
	if err := query.Order("created_at DESC").Find(&contracts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch contracts", err)
	}
	return c.JSON(utils.SuccessResponse(contracts))
}

// GetContract returns one contract with services and invoices
func (cc *ContractController) GetContract(c *fiber.Ctx) error {
	var contract models.Contract
	if err := cc.DB.Preload("Services").Preload("Invoices").
		First(&contract, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Contract not found", nil)
	}
	return c.JSON(utils.SuccessResponse(contract))
}

// SendContract e-mails the contract to the recipient. An SMTP rejection
// classified as an unverified sending domain surfaces as a structured 422 so
// the UI can prompt for domain setup instead of showing a generic failure.
func (cc *ContractController) SendContract(c *fiber.Ctx) error {
	var contract models.Contract
	if err := cc.DB.Preload("Services").First(&contract, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Contract not found", nil)
	}

	var input struct {
		RecipientEmail string `json:"recipient_email" validate:"required,email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	details := utils.ContractDetails{
		ClientCompany: contract.ClientCompany,
		TotalValue:    contract.TotalValue,
		Currency:      contract.Currency,
		Number:        contract.Number,
	}
	for _, s := range contract.Services {
		details.Services = append(details.Services, utils.ServiceLine{
			ServiceName: s.ServiceName,
			Price:       s.Price,
		})
	}

	if err := cc.Mailer.SendContract(input.RecipientEmail, details); err != nil {
		if errors.Is(err, utils.ErrDomainNotVerified) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "Sending domain is not verified with the mail provider",
				"code":  "domain_not_verified",
			})
		}
		utils.LogError("contract_send", err, map[string]interface{}{
			"contract_number": contract.Number,
		})
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Failed to send contract", err)
	}

	now := time.Now().UTC()
	if err := cc.DB.Model(&contract).Updates(map[string]interface{}{
		"status":          "sent",
		"recipient_email": input.RecipientEmail,
		"sent_at":         now,
	}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record contract delivery", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"sent":    true,
		"sent_at": now,
	}))
}

// CreatePaymentLink issues an invoice for the contract total and wraps it in
// a Stripe payment link.
func (cc *ContractController) CreatePaymentLink(c *fiber.Ctx) error {
	var contract models.Contract
	if err := cc.DB.First(&contract, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Contract not found", nil)
	}

	var input struct {
		Amount  float64    `json:"amount" validate:"omitempty,gt=0"`
		DueDate *time.Time `json:"due_date"`
	}
	if err := c.BodyParser(&input); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	amount := input.Amount
	if amount == 0 {
		amount = contract.TotalValue
	}
	if amount <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Contract has no billable amount", nil)
	}

	invoice := models.Invoice{
		ContractID: contract.ID,
		Number:     invoiceNumber(),
		Amount:     amount,
		Currency:   contract.Currency,
		Status:     "pending",
		DueDate:    input.DueDate,
	}

	linkID, linkURL, err := utils.CreateInvoicePaymentLink(invoice, contract)
	if err != nil {
		utils.LogError("stripe_payment_link", err, map[string]interface{}{
			"contract_number": contract.Number,
		})
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Failed to create payment link", err)
	}
	invoice.StripePaymentLinkID = linkID
	invoice.StripePaymentLinkURL = linkURL

	if err := cc.DB.Create(&invoice).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store invoice", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(invoice))
}

// HandleStripeWebhook marks invoices paid when their checkout completes. The
// invoice number travels in the payment-link metadata set at creation time.
func (cc *ContractController) HandleStripeWebhook(c *fiber.Ctx) error {
	event, err := utils.ConstructStripeEvent(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid webhook payload", err)
	}

	if event.Type != "checkout.session.completed" {
		return c.JSON(fiber.Map{"received": true})
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Malformed checkout session", err)
	}
	if session.PaymentLink == nil {
		return c.JSON(fiber.Map{"received": true})
	}

	var invoice models.Invoice
	if err := cc.DB.Where("stripe_payment_link_id = ?", session.PaymentLink.ID).
		First(&invoice).Error; err != nil {
		utils.LogEvent("stripe_webhook_unknown_link", map[string]interface{}{
			"payment_link_id": session.PaymentLink.ID,
		})
		return c.JSON(fiber.Map{"received": true})
	}

	if invoice.Status != "paid" {
		now := time.Now().UTC()
		if err := cc.DB.Model(&invoice).Updates(map[string]interface{}{
			"status":  "paid",
			"paid_at": now,
		}).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to mark invoice paid", err)
		}
		cc.Logger.Printf("Invoice %s marked paid", invoice.Number)
	}

	return c.JSON(fiber.Map{"received": true})
}

func contractNumber() string {
	return fmt.Sprintf("CT-%s-%s",
		time.Now().UTC().Format("200601"),
		strings.ToUpper(uuid.NewString()[:8]))
}

func invoiceNumber() string {
	return fmt.Sprintf("INV-%s-%s",
		time.Now().UTC().Format("200601"),
		strings.ToUpper(uuid.NewString()[:8]))
}
