package http

import (
	"errors"
	"time"

	"github.com/cristianortiz/bidEngine/internal/bid/application"
	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/cristianortiz/bidEngine/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// BidHandler exposes the bid engine over REST
type BidHandler struct {
	service application.BidService
}

func NewBidHandler(service application.BidService) *BidHandler {
	return &BidHandler{service: service}
}

func (h *BidHandler) RegisterRoutes(app *fiber.App) {
	bids := app.Group("/api/v1/bids", identity)

	bids.Get("/", h.listBids)
	bids.Post("/", h.createBid)
	bids.Get("/:id", h.getBid)
	bids.Patch("/:id", h.updateBid)
	bids.Delete("/:id", h.deleteBid)
	bids.Patch("/:id/status", h.updateStatus)
	bids.Post("/:id/assign", h.assignBid)
	bids.Post("/:id/quotes", h.submitQuote)
	bids.Patch("/:id/quotes", h.editQuote)
}

// identity trusts the upstream auth layer's headers as authoritative for the
// request, per the identity collaborator contract
func identity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Get("X-User-Id"))
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "missing or malformed X-User-Id header")
	}
	role := domain.Role(c.Get("X-User-Role"))
	switch role {
	case domain.RoleRequester, domain.RoleVendor, domain.RoleAdmin:
	default:
		return fail(c, fiber.StatusUnauthorized, "missing or unknown X-User-Role header")
	}
	c.Locals("caller", application.Caller{ID: id, Role: role})
	return c.Next()
}

func caller(c *fiber.Ctx) application.Caller {
	return c.Locals("caller").(application.Caller)
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"status": "error", "message": message})
}

// respondError maps domain errors to HTTP statuses; anything unexpected is a
// generic 500, never dressed up as a domain error
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return fail(c, fiber.StatusBadRequest, validationErr.Error())
	}
	var eligibilityErr *domain.EligibilityError
	if errors.As(err, &eligibilityErr) {
		return fail(c, fiber.StatusForbidden, eligibilityErr.Error())
	}
	switch {
	case errors.Is(err, domain.ErrBidNotFound), errors.Is(err, domain.ErrProfileNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrBidNotPending), errors.Is(err, domain.ErrInvalidStatus):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateQuote):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		return fail(c, fiber.StatusForbidden, err.Error())
	default:
		log.Error("Unexpected error handling request",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return fail(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func parseBidID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "must be a valid bid ID")
	}
	return id, nil
}

type budgetRangeRequest struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type createBidRequest struct {
	RequestDetails     string                    `json:"requestDetails"`
	Timeline           string                    `json:"timeline"`
	PreferredStartDate time.Time                 `json:"preferredStartDate"`
	BudgetRange        *budgetRangeRequest       `json:"budgetRange"`
	Filters            domain.EligibilityFilters `json:"filters"`
}

func (h *BidHandler) createBid(c *fiber.Ctx) error {
	var req createBidRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.BudgetRange == nil || req.BudgetRange.Min == nil || req.BudgetRange.Max == nil {
		return respondError(c, domain.NewValidationError("budgetRange", "min and max are required"))
	}

	dto := application.CreateBidDTO{
		RequestDetails:     req.RequestDetails,
		Timeline:           req.Timeline,
		PreferredStartDate: req.PreferredStartDate,
		BudgetRange:        domain.BudgetRange{Min: *req.BudgetRange.Min, Max: *req.BudgetRange.Max},
		Filters:            req.Filters,
	}
	bid, err := h.service.Create(c.Context(), caller(c), dto)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": application.NewBidDTO(bid)})
}

func (h *BidHandler) getBid(c *fiber.Ctx) error {
	id, err := parseBidID(c)
	if err != nil {
		return respondError(c, err)
	}
	bid, err := h.service.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": application.NewBidDTO(bid)})
}

func (h *BidHandler) listBids(c *fiber.Ctx) error {
	list, err := h.service.List(c.Context(), caller(c), c.Queries())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"results": list.Results,
		"total":   list.Total,
		"page":    list.Page,
		"data":    fiber.Map{"bids": list.Bids},
	})
}

type updateBidRequest struct {
	RequestDetails     *string             `json:"requestDetails"`
	Timeline           *string             `json:"timeline"`
	PreferredStartDate *time.Time          `json:"preferredStartDate"`
	BudgetRange        *budgetRangeRequest `json:"budgetRange"`
}

func (h *BidHandler) updateBid(c *fiber.Ctx) error {
	id, err := parseBidID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req updateBidRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	patch := domain.BidPatch{
		RequestDetails:     req.RequestDetails,
		Timeline:           req.Timeline,
		PreferredStartDate: req.PreferredStartDate,
	}
	if req.BudgetRange != nil {
		patch.BudgetMin = req.BudgetRange.Min
		patch.BudgetMax = req.BudgetRange.Max
	}

	bid, err := h.service.Update(c.Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": application.NewBidDTO(bid)})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *BidHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseBidID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	bid, err := h.service.UpdateStatus(c.Context(), id, domain.BidStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": application.NewBidDTO(bid)})
}

func (h *BidHandler) deleteBid(c *fiber.Ctx) error {
	id, err := parseBidID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *BidHandler) assignBid(c *fiber.Ctx) error {
	id, err := parseBidID(c)
	if err != nil {
		return respondError(c, err)
	}
	bid, err := h.service.Assign(c.Context(), caller(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": application.NewBidDTO(bid)})
}

type quoteRequest struct {
	Amount float64 `json:"amount"`
}

func (h *BidHandler) submitQuote(c *fiber.Ctx) error {
	id, err := parseBidID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req quoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	bid, err := h.service.SubmitQuote(c.Context(), caller(c), id, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": application.NewBidDTO(bid)})
}

func (h *BidHandler) editQuote(c *fiber.Ctx) error {
	id, err := parseBidID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req quoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	bid, err := h.service.EditQuote(c.Context(), caller(c), id, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": application.NewBidDTO(bid)})
}
