package companies

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
	"github.com/gerardoh13/jobly/internal/sqlutil"
)

// Store is what the handler needs from the data layer.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Company, error)
	List(ctx context.Context, f sqlutil.CompanyFilter) ([]Company, error)
	Get(ctx context.Context, handle string) (CompanyDetail, error)
	Update(ctx context.Context, handle string, p UpdateParams) (Company, error)
	Delete(ctx context.Context, handle string) error
}

var validate = validator.New()

type Handler struct {
	Store Store
	Audit *audit.Recorder
}

func NewHandler(store Store, rec *audit.Recorder) *Handler {
	return &Handler{Store: store, Audit: rec}
}

func (h *Handler) CreateCompany(c *fiber.Ctx) error {
	var p CreateParams
	if err := c.BodyParser(&p); err != nil {
		return fmt.Errorf("%w: invalid json body", apperr.ErrInvalidInput)
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err)
	}

	company, err := h.Store.Create(c.Context(), p)
	if err != nil {
		return err
	}

	h.record(c, "company.create", company.Handle, c.Body())
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"company": company})
}

func (h *Handler) ListCompanies(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}

	companies, err := h.Store.List(c.Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"companies": companies})
}

func (h *Handler) GetCompany(c *fiber.Ctx) error {
	company, err := h.Store.Get(c.Context(), c.Params("handle"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"company": company})
}

func (h *Handler) UpdateCompany(c *fiber.Ctx) error {
	var p UpdateParams
	if err := decodeStrict(c.Body(), &p); err != nil {
		return err
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err)
	}

	handle := c.Params("handle")
	company, err := h.Store.Update(c.Context(), handle, p)
	if err != nil {
		return err
	}

	h.record(c, "company.update", handle, c.Body())
	return c.JSON(fiber.Map{"company": company})
}

func (h *Handler) DeleteCompany(c *fiber.Ctx) error {
	handle := c.Params("handle")
	if err := h.Store.Delete(c.Context(), handle); err != nil {
		return err
	}

	h.record(c, "company.delete", handle, nil)
	return c.JSON(fiber.Map{"deleted": handle})
}

// parseFilter reads the recognized query criteria; anything else is a
// client error, not a silently ignored key. Empty values are skipped.
func parseFilter(c *fiber.Ctx) (sqlutil.CompanyFilter, error) {
	var f sqlutil.CompanyFilter
	for key, val := range c.Queries() {
		if val == "" {
			continue
		}
		switch key {
		case "name":
			v := val
			f.Name = &v
		case "minEmployees":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return f, fmt.Errorf("%w: minEmployees must be an integer", apperr.ErrInvalidInput)
			}
			f.MinEmployees = &n
		case "maxEmployees":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return f, fmt.Errorf("%w: maxEmployees must be an integer", apperr.ErrInvalidInput)
			}
			f.MaxEmployees = &n
		default:
			return f, fmt.Errorf("%w: unknown filter %q", apperr.ErrInvalidInput, key)
		}
	}
	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
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
		EntityType: "company",
		EntityID:   entityID,
		IP:         c.IP(),
		UserAgent:  c.Get("User-Agent"),
		Metadata:   metadata,
	})
}
