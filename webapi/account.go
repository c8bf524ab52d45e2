package webapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sunubank/ledger/pkg/domain/account"
	"github.com/sunubank/ledger/pkg/dto"
)

// OpenAccountRequest is the request body for opening an account. The client
// block either names an existing client by id or carries the identity of a
// new one.
type OpenAccountRequest struct {
	Type           string        `json:"type" validate:"required,oneof=courant epargne entreprise joint"`
	Currency       string        `json:"currency" validate:"omitempty,len=3,uppercase"`
	InitialBalance float64       `json:"initial_balance" validate:"required,gt=0"`
	Label          string        `json:"label" validate:"omitempty,max=100"`
	Client         ClientRequest `json:"client"`
}

// ClientRequest identifies or describes the owning client.
type ClientRequest struct {
	ID        *uuid.UUID `json:"id"`
	FirstName string     `json:"first_name" validate:"required_without=ID,omitempty,max=100"`
	LastName  string     `json:"last_name" validate:"required_without=ID,omitempty,max=100"`
	NCI       string     `json:"nci" validate:"required_without=ID,omitempty,nci"`
	Email     string     `json:"email" validate:"required_without=ID,omitempty,email"`
	Phone     string     `json:"phone" validate:"required_without=ID,omitempty,snphone"`
	Address   string     `json:"address" validate:"omitempty,max=255"`
}

// BlockAccountRequest is the request body for blocking a savings account.
type BlockAccountRequest struct {
	Reason    string    `json:"reason" validate:"required,max=255"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// UnblockAccountRequest is the request body for lifting a block.
type UnblockAccountRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

// AccountDTO is the API representation of an account.
type AccountDTO struct {
	ID         string     `json:"id"`
	ClientID   string     `json:"client_id"`
	Number     string     `json:"number"`
	Label      string     `json:"label,omitempty"`
	Type       string     `json:"type"`
	Balance    float64    `json:"balance"`
	Currency   string     `json:"currency"`
	Status     string     `json:"status"`
	OpenedAt   time.Time  `json:"opened_at"`
	Block      *BlockDTO  `json:"block,omitempty"`
	Archived   bool       `json:"archived"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

// BlockDTO is the API representation of a blocking window.
type BlockDTO struct {
	Reason    string    `json:"reason"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// ToAccountDTO maps an account entity to its API representation.
func ToAccountDTO(a *account.Account) *AccountDTO {
	if a == nil {
		return nil
	}
	d := &AccountDTO{
		ID:         a.ID.String(),
		ClientID:   a.ClientID.String(),
		Number:     a.Number,
		Label:      a.Label,
		Type:       string(a.Type),
		Balance:    a.Balance.InexactFloat64(),
		Currency:   string(a.Currency),
		Status:     string(a.Status),
		OpenedAt:   a.OpenedAt,
		Archived:   a.Archived,
		ArchivedAt: a.ArchivedAt,
		ClosedAt:   a.DeletedAt,
	}
	if a.Block != nil {
		d.Block = &BlockDTO{
			Reason:    a.Block.Reason,
			StartDate: a.Block.StartDate,
			EndDate:   a.Block.EndDate,
		}
	}
	return d
}

// AccountRoutes registers the account endpoints.
//
// Routes:
//   - POST   /accounts               : Open an account (and maybe its client).
//   - GET    /accounts/:id           : Get an account.
//   - POST   /accounts/:id/block     : Block a savings account over a window.
//   - POST   /accounts/:id/unblock   : Lift a block.
//   - POST   /accounts/:id/close     : Close an empty account.
func AccountRoutes(app *fiber.App, svcs Services) {
	app.Post("/accounts", OpenAccount(svcs))
	app.Get("/accounts/:id", GetAccount(svcs))
	app.Post("/accounts/:id/block", BlockAccount(svcs))
	app.Post("/accounts/:id/unblock", UnblockAccount(svcs))
	app.Post("/accounts/:id/close", CloseAccount(svcs))
}

// OpenAccount returns the handler for account opening.
func OpenAccount(svcs Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[OpenAccountRequest](c)
		if err != nil {
			return nil
		}
		a, cl, err := svcs.Opening.OpenAccount(c.Context(), dto.OpenAccount{
			Type:           input.Type,
			Currency:       input.Currency,
			InitialBalance: decimal.NewFromFloat(input.InitialBalance),
			Label:          input.Label,
			Client: dto.ClientSpec{
				ID:        input.Client.ID,
				FirstName: input.Client.FirstName,
				LastName:  input.Client.LastName,
				NCI:       input.Client.NCI,
				Email:     input.Client.Email,
				Phone:     input.Client.Phone,
				Address:   input.Client.Address,
			},
		})
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to open account", err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "Account opened",
			Data: fiber.Map{
				"account": ToAccountDTO(a),
				"client":  ToClientDTO(cl),
			},
		})
	}
}

// GetAccount returns the handler for reading one account.
func GetAccount(svcs Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		a, err := svcs.Lifecycle.GetAccount(c.Context(), id)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to get account", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Account", Data: ToAccountDTO(a)})
	}
}

// BlockAccount returns the handler for the active to blocked transition.
func BlockAccount(svcs Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		input, err := BindAndValidate[BlockAccountRequest](c)
		if err != nil {
			return nil
		}
		a, err := svcs.Lifecycle.Block(c.Context(), id, dto.BlockAccount{
			Reason:    input.Reason,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		})
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to block account", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Account blocked", Data: ToAccountDTO(a)})
	}
}

// UnblockAccount returns the handler for the blocked to active transition.
func UnblockAccount(svcs Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		input, _ := BindAndValidate[UnblockAccountRequest](c) // body is optional
		reason := ""
		if input != nil {
			reason = input.Reason
		}
		a, err := svcs.Lifecycle.Unblock(c.Context(), id, dto.UnblockAccount{Reason: reason})
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to unblock account", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Account unblocked", Data: ToAccountDTO(a)})
	}
}

// CloseAccount returns the handler for account closure.
func CloseAccount(svcs Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		a, err := svcs.Lifecycle.Close(c.Context(), id)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to close account", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Account closed", Data: ToAccountDTO(a)})
	}
}
