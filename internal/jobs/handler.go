package jobs

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
	Create(ctx context.Context, p CreateParams) (Job, error)
	List(ctx context.Context, f sqlutil.JobFilter) ([]Job, error)
	Get(ctx context.Context, id int64) (Job, error)
	Update(ctx context.Context, id int64, p UpdateParams) (Job, error)
	Delete(ctx context.Context, id int64) error
}

var validate = validator.New()

type Handler struct {
	Store Store
	Audit *audit.Recorder
}

func NewHandler(store Store, rec *audit.Recorder) *Handler {
	return &Handler{Store: store, Audit: rec}
}

func (h *Handler) CreateJob(c *fiber.Ctx) error {
	var p CreateParams
	if err := c.BodyParser(&p); err != nil {
		return fmt.Errorf("%w: invalid json body", apperr.ErrInvalidInput)
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err)
	}

	job, err := h.Store.Create(c.Context(), p)
	if err != nil {
		return err
	}

	h.record(c, "job.create", strconv.FormatInt(job.ID, 10), c.Body())
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"job": job})
}

func (h *Handler) ListJobs(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}

	jobs, err := h.Store.List(c.Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"jobs": jobs})
}

func (h *Handler) GetJob(c *fiber.Ctx) error {
	id, err := jobID(c)
	if err != nil {
		return err
	}

	job, err := h.Store.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"job": job})
}

func (h *Handler) UpdateJob(c *fiber.Ctx) error {
	id, err := jobID(c)
	if err != nil {
		return err
	}

	var p UpdateParams
	if err := decodeStrict(c.Body(), &p); err != nil {
		return err
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err)
	}

	job, err := h.Store.Update(c.Context(), id, p)
	if err != nil {
		return err
	}

	h.record(c, "job.update", strconv.FormatInt(id, 10), c.Body())
	return c.JSON(fiber.Map{"job": job})
}

func (h *Handler) DeleteJob(c *fiber.Ctx) error {
	id, err := jobID(c)
	if err != nil {
		return err
	}

	if err := h.Store.Delete(c.Context(), id); err != nil {
		return err
	}

	deleted := strconv.FormatInt(id, 10)
	h.record(c, "job.delete", deleted, nil)
	return c.JSON(fiber.Map{"deleted": deleted})
}

func jobID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: job id must be an integer", apperr.ErrInvalidInput)
	}
	return id, nil
}

// parseFilter reads the recognized query criteria; anything else is a
// client error, not a silently ignored key. Empty values are skipped.
func parseFilter(c *fiber.Ctx) (sqlutil.JobFilter, error) {
	var f sqlutil.JobFilter
	for key, val := range c.Queries() {
		if val == "" {
			continue
		}
		switch key {
		case "title":
			v := val
			f.Title = &v
		case "minSalary":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return f, fmt.Errorf("%w: minSalary must be an integer", apperr.ErrInvalidInput)
			}
			f.MinSalary = &n
		case "hasEquity":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return f, fmt.Errorf("%w: hasEquity must be a boolean", apperr.ErrInvalidInput)
			}
			f.HasEquity = &b
		default:
			return f, fmt.Errorf("%w: unknown filter %q", apperr.ErrInvalidInput, key)
		}
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
		EntityType: "job",
		EntityID:   entityID,
		IP:         c.IP(),
		UserAgent:  c.Get("User-Agent"),
		Metadata:   metadata,
	})
}
