package webapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sunubank/ledger/pkg/domain/account"
	"github.com/sunubank/ledger/pkg/dto"
)

// CreateTransactionRequest is the request body for posting a money
// movement. Source and destination requirements depend on the type and are
// enforced by the ledger engine.
type CreateTransactionRequest struct {
	Type          string     `json:"type" validate:"required,oneof=deposit withdrawal transfer internal-transfer"`
	Amount        float64    `json:"amount" validate:"required,gt=0"`
	Currency      string     `json:"currency" validate:"omitempty,len=3,uppercase"`
	SourceID      *uuid.UUID `json:"source_id"`
	DestinationID *uuid.UUID `json:"destination_id"`
	Description   string     `json:"description" validate:"omitempty,max=255"`
	Date          time.Time  `json:"date"`
}

// TransactionDTO is the API representation of a transaction.
type TransactionDTO struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Description   string    `json:"description,omitempty"`
	SourceID      *string   `json:"source_id,omitempty"`
	DestinationID *string   `json:"destination_id,omitempty"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	Archived      bool      `json:"archived"`
}

// ToTransactionDTO maps a transaction entity to its API representation.
func ToTransactionDTO(t *account.Transaction) *TransactionDTO {
	if t == nil {
		return nil
	}
	d := &TransactionDTO{
		ID:          t.ID.String(),
		Number:      t.Number,
		Type:        string(t.Type),
		Amount:      t.Amount.InexactFloat64(),
		Currency:    string(t.Currency),
		Description: t.Description,
		Date:        t.Date,
		Status:      string(t.Status),
		Archived:    t.Archived,
	}
	if t.SourceID != nil {
		s := t.SourceID.String()
		d.SourceID = &s
	}
	if t.DestinationID != nil {
		s := t.DestinationID.String()
		d.DestinationID = &s
	}
	return d
}

// TransactionRoutes registers the transaction endpoints.
//
// Routes:
//   - POST /transactions                  : Post a deposit, withdrawal or transfer.
//   - GET  /transactions/:id              : Get a transaction.
//   - GET  /accounts/:id/transactions     : List an account's transactions.
func TransactionRoutes(app *fiber.App, svcs Services) {
	app.Post("/transactions", CreateTransaction(svcs))
	app.Get("/transactions/:id", GetTransaction(svcs))
	app.Get("/accounts/:id/transactions", ListAccountTransactions(svcs))
}

// CreateTransaction returns the handler posting a money movement through
// the ledger engine.
func CreateTransaction(svcs Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[CreateTransactionRequest](c)
		if err != nil {
			return nil
		}
		trx, err := svcs.Ledger.CreateTransaction(c.Context(), dto.CreateTransaction{
			Type:          input.Type,
			Amount:        decimal.NewFromFloat(input.Amount),
			Currency:      input.Currency,
			SourceID:      input.SourceID,
			DestinationID: input.DestinationID,
			Description:   input.Description,
			Date:          input.Date,
		})
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to create transaction", err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "Transaction created",
			Data:    ToTransactionDTO(trx),
		})
	}
}

// GetTransaction returns the handler for reading one transaction.
func GetTransaction(svcs Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		trx, err := svcs.Ledger.GetTransaction(c.Context(), id)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to get transaction", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Transaction", Data: ToTransactionDTO(trx)})
	}
}

// ListAccountTransactions returns the handler listing an account's
// transactions.
func ListAccountTransactions(svcs Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		list, err := svcs.Ledger.ListAccountTransactions(c.Context(), id)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to list transactions", err.Error())
		}
		out := make([]*TransactionDTO, 0, len(list))
		for _, trx := range list {
			out = append(out, ToTransactionDTO(trx))
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Transactions", Data: out})
	}
}
