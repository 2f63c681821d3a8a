package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/gerardoh13/jobly/internal/apperr"
	"github.com/gerardoh13/jobly/internal/audit"
	"github.com/gerardoh13/jobly/internal/auth"
)

// Store is what the handlers need from the data layer. The auth handlers
// share it for registration and credential checks.
type Store interface {
	Create(ctx context.Context, p CreateParams) (User, error)
	Authenticate(ctx context.Context, username, password string) (User, error)
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, username string) (UserDetail, error)
	Update(ctx context.Context, username string, p UpdateParams) (User, error)
	Delete(ctx context.Context, username string) error
	ApplyToJob(ctx context.Context, username string, jobID int64) error
}

var validate = validator.New()

type Handler struct {
	Store  Store
	Audit  *audit.Recorder
	Secret []byte
}

func NewHandler(store Store, rec *audit.Recorder, secret []byte) *Handler {
	return &Handler{Store: store, Audit: rec, Secret: secret}
}

// CreateUser is the admin route for provisioning accounts, including
// other admins. The response carries a token so the new user can start
// calling the API without a separate login.
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var p CreateParams
	if err := c.BodyParser(&p); err != nil {
		return fmt.Errorf("%w: invalid json body", apperr.ErrInvalidInput)
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err)
	}

	user, err := h.Store.Create(c.Context(), p)
	if err != nil {
		return err
	}

	token, err := auth.MakeToken(auth.Identity{Username: user.Username, IsAdmin: user.IsAdmin}, h.Secret)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}

	h.record(c, "user.create", user.Username, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "token": token})
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Store.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	user, err := h.Store.Get(c.Context(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	var p UpdateParams
	if err := decodeStrict(c.Body(), &p); err != nil {
		return err
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err)
	}

	username := c.Params("username")
	user, err := h.Store.Update(c.Context(), username, p)
	if err != nil {
		return err
	}

	// Bodies here can carry passwords; audit the action, not the payload.
	h.record(c, "user.update", username, nil)
	return c.JSON(fiber.Map{"user": user})
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	username := c.Params("username")
	if err := h.Store.Delete(c.Context(), username); err != nil {
		return err
	}

	h.record(c, "user.delete", username, nil)
	return c.JSON(fiber.Map{"deleted": username})
}

func (h *Handler) ApplyToJob(c *fiber.Ctx) error {
	jobID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: job id must be an integer", apperr.ErrInvalidInput)
	}

	username := c.Params("username")
	if err := h.Store.ApplyToJob(c.Context(), username, jobID); err != nil {
		return err
	}

	h.record(c, "user.apply", username, []byte(fmt.Sprintf(`{"jobId":%d}`, jobID)))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"applied": jobID})
}

// decodeStrict rejects unknown body keys, so immutable or misspelled
// fields fail loudly instead of being dropped.
func decodeStrict(body []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) record(c *fiber.Ctx, action, entityID string, metadata []byte) {
	id, _ := auth.IdentityFromCtx(c)
	_ = h.Audit.Record(c.Context(), audit.Entry{
		Actor:      id.Username,
		Action:     action,
		EntityType: "user",
		EntityID:   entityID,
		IP:         c.IP(),
		UserAgent:  c.Get("User-Agent"),
		Metadata:   metadata,
	})
}
