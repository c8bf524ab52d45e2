package webapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/domain/client"
)

// ClientDTO is the API representation of a client. Credentials never leave
// the notification path, so the DTO carries identity fields only.
type ClientDTO struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	NCI       string    `json:"nci"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToClientDTO maps a client entity to its API representation.
func ToClientDTO(c *client.Client) *ClientDTO {
	if c == nil {
		return nil
	}
	return &ClientDTO{
		ID:        c.ID.String(),
		Number:    c.Number,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		NCI:       c.NCI,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

// ClientRoutes registers the client endpoints.
//
// Routes:
//   - GET    /clients/:id           : Get a client.
//   - GET    /clients/:id/accounts  : List a client's accounts.
//   - DELETE /clients/:id           : Soft-delete a client without active accounts.
func ClientRoutes(app *fiber.App, svcs Services) {
	app.Get("/clients/:id", GetClient(svcs))
	app.Get("/clients/:id/accounts", ListClientAccounts(svcs))
	app.Delete("/clients/:id", DeleteClient(svcs))
}

// GetClient returns the handler for reading one client.
func GetClient(svcs Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid client id", err.Error())
		}
		cl, err := svcs.Opening.GetClient(c.Context(), id)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to get client", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Client", Data: ToClientDTO(cl)})
	}
}

// ListClientAccounts returns the handler listing a client's accounts.
func ListClientAccounts(svcs Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid client id", err.Error())
		}
		list, err := svcs.Opening.ListClientAccounts(c.Context(), id)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to list accounts", err.Error())
		}
		out := make([]*AccountDTO, 0, len(list))
		for _, a := range list {
			out = append(out, ToAccountDTO(a))
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Accounts", Data: out})
	}
}

// DeleteClient returns the handler soft-deleting a client.
func DeleteClient(svcs Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid client id", err.Error())
		}
		if err := svcs.Opening.DeleteClient(c.Context(), id); err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to delete client", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Client deleted"})
	}
}
