package server

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/rsvp"
	"wedding-rsvp/internal/vocabulary"
)

// RSVPService is the behaviour the API needs from the RSVP handler.
type RSVPService interface {
	Create(ctx context.Context, sub rsvp.Submission) (models.GuestRecord, error)
	Fetch(ctx context.Context, id string) (models.GuestRecord, error)
	Update(ctx context.Context, id string, change rsvp.Change) (models.GuestRecord, error)
	List(ctx context.Context) ([]models.GuestRecord, error)
	ListByStatus(ctx context.Context, status models.RSVPStatus) ([]models.GuestRecord, error)
}

const notificationWarning = "Your RSVP was saved, but we couldn't send the confirmation email."

// Failure stages reported to clients.
const (
	stageStore        = "store"
	stageNotification = "notification"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// APIHandlers exposes the RSVP API over HTTP.
type APIHandlers struct {
	service RSVPService
	vocab   *vocabulary.Vocabulary
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(svc RSVPService, vocab *vocabulary.Vocabulary) *APIHandlers {
	return &APIHandlers{service: svc, vocab: vocab}
}

// --- Request & Response DTOs ---

type submitRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Email          string  `json:"email" validate:"required,max=320"`
	RSVP           *bool   `json:"rsvp" validate:"required"`
	DessertChoice  *string `json:"dessert_choice"`
	DessertTopping *string `json:"dessert_topping"`
	Allergies      *string `json:"allergies" validate:"omitempty,max=1000"`
}

func (r submitRequest) toSubmission() rsvp.Submission {
	return rsvp.Submission{
		Name:           r.Name,
		Email:          r.Email,
		Attending:      *r.RSVP,
		DessertChoice:  value(r.DessertChoice),
		DessertTopping: value(r.DessertTopping),
		Allergies:      value(r.Allergies),
	}
}

type updateRequest struct {
	UUID           string  `json:"uuid" validate:"required"`
	RSVP           *bool   `json:"rsvp" validate:"required"`
	DessertChoice  *string `json:"dessert_choice"`
	DessertTopping *string `json:"dessert_topping"`
	Allergies      *string `json:"allergies" validate:"omitempty,max=1000"`
}

func (r updateRequest) toChange() rsvp.Change {
	return rsvp.Change{
		Attending:      *r.RSVP,
		DessertChoice:  value(r.DessertChoice),
		DessertTopping: value(r.DessertTopping),
		Allergies:      value(r.Allergies),
	}
}

type errorResponse struct {
	Error  string              `json:"error"`
	Stage  string              `json:"stage,omitempty"`
	Fields []rsvp.FieldProblem `json:"fields,omitempty"`
}

type successResponse struct {
	Success bool   `json:"success"`
	UUID    string `json:"uuid,omitempty"`
	Warning string `json:"warning,omitempty"`
	Stage   string `json:"stage,omitempty"`
}

// rsvpView is what a guest sees on their update page.
type rsvpView struct {
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	RSVP           bool   `json:"rsvp"`
	DessertChoice  string `json:"dessert_choice"`
	DessertTopping string `json:"dessert_topping"`
	Allergies      string `json:"allergies"`
	DessertLabel   string `json:"dessert_label,omitempty"`
	ToppingLabel   string `json:"topping_label,omitempty"`
}

// adminView adds the fields only the couple sees.
type adminView struct {
	rsvpView
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func (h *APIHandlers) view(rec models.GuestRecord) rsvpView {
	v := rsvpView{
		UUID:           rec.ID,
		Name:           rec.Name,
		RSVP:           rec.Attending,
		DessertChoice:  rec.DessertChoice,
		DessertTopping: rec.DessertTopping,
		Allergies:      rec.Allergies,
	}
	if rec.Attending {
		v.DessertLabel = h.vocab.Desserts.Label(rec.DessertChoice)
		v.ToppingLabel = h.vocab.Toppings.Label(rec.DessertTopping)
	}
	return v
}

// --- Handlers ---

// POST /api/submit-rsvp
func (h *APIHandlers) submitRSVP(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return invalidRequest(c, err)
	}

	rec, err := h.service.Create(c.UserContext(), req.toSubmission())
	var nerr *rsvp.NotificationError
	if errors.As(err, &nerr) {
		return c.Status(fiber.StatusCreated).JSON(successResponse{
			Success: true, UUID: rec.ID, Warning: notificationWarning, Stage: stageNotification,
		})
	}
	if err != nil {
		return writeError(c, err, "Failed to save RSVP")
	}

	return c.Status(fiber.StatusCreated).JSON(successResponse{Success: true, UUID: rec.ID})
}

// GET /api/update-rsvp?uuid=
func (h *APIHandlers) fetchRSVP(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Query("uuid"))
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "UUID is required"})
	}

	rec, err := h.service.Fetch(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "Failed to retrieve RSVP")
	}
	return c.JSON(fiber.Map{"data": h.view(rec)})
}

// POST /api/update-rsvp
func (h *APIHandlers) updateRSVP(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return invalidRequest(c, err)
	}

	_, err := h.service.Update(c.UserContext(), req.UUID, req.toChange())
	var nerr *rsvp.NotificationError
	if errors.As(err, &nerr) {
		return c.JSON(successResponse{Success: true, Warning: notificationWarning, Stage: stageNotification})
	}
	if err != nil {
		return writeError(c, err, "Failed to update RSVP")
	}
	return c.JSON(successResponse{Success: true})
}

// GET /api/get-all-rsvp[?status=attending|declined]
func (h *APIHandlers) listRSVPs(c *fiber.Ctx) error {
	var (
		guests []models.GuestRecord
		err    error
	)
	if s := c.Query("status"); s != "" {
		status, ok := models.ParseRSVPStatus(s)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "status must be attending or declined"})
		}
		guests, err = h.service.ListByStatus(c.UserContext(), status)
	} else {
		guests, err = h.service.List(c.UserContext())
	}
	if err != nil {
		return writeError(c, err, "Failed to retrieve RSVP")
	}

	data := make([]adminView, 0, len(guests))
	for _, g := range guests {
		data = append(data, adminView{
			rsvpView:  h.view(g),
			Email:     g.Email,
			CreatedAt: g.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(fiber.Map{"data": data})
}

// GET /api/vocabulary
func (h *APIHandlers) vocabulary(c *fiber.Ctx) error {
	return c.JSON(h.vocab)
}

func invalidRequest(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}
	problems := make([]rsvp.FieldProblem, 0, len(verrs))
	for _, fe := range verrs {
		reason := fe.Tag()
		if reason == "required" {
			reason = rsvp.ReasonMissing
		}
		problems = append(problems, rsvp.FieldProblem{Field: fe.Field(), Reason: reason})
	}
	verr := &rsvp.ValidationError{Problems: problems}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse{Error: verr.Error(), Fields: problems})
}

func writeError(c *fiber.Ctx, err error, fallback string) error {
	var verr *rsvp.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse{Error: verr.Error(), Fields: verr.Problems})
	case errors.Is(err, rsvp.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: rsvp.NotFoundMessage})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: fallback, Stage: stageStore})
	}
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
