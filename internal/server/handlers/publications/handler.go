package publications

import (
	"errors"
	"fmt"

	"github.com/gistit/gistit/internal/gist"
	"github.com/gistit/gistit/internal/git"
	"github.com/gistit/gistit/internal/publications"
	"github.com/gistit/gistit/internal/publisher"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const defaultListLimit = 50

type Handler struct {
	publisherSvc    *publisher.Service
	publicationsSvc *publications.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	publisherSvc *publisher.Service,
	publicationsSvc *publications.Service,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		publisherSvc:    publisherSvc,
		publicationsSvc: publicationsSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/publications")

	r.Use(h.errorsHandler)
	r.Post("/", h.post)
	r.Get("/", h.list)
	r.Get("/:id", h.get)
}

func (h *Handler) post(c *fiber.Ctx) error {
	req := new(POSTRequest)
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := h.validator.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	publication, err := h.publisherSvc.Publish(c.Context(), publisher.Request{
		BaseDir:     req.BaseDir,
		Files:       req.Files,
		Description: req.Description,
		Public:      req.Public,
	})
	if err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	return c.Status(fiber.StatusCreated).JSON(h.toResponse(publication))
}

func (h *Handler) list(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must not be negative")
	}

	items, err := h.publicationsSvc.List(c.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list publications: %w", err)
	}

	return c.JSON(lo.Map(items, func(p publications.Publication, _ int) PublicationResponse {
		return h.toResponse(&p)
	}))
}

func (h *Handler) get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	publication, err := h.publicationsSvc.Get(c.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get publication: %w", err)
	}

	return c.JSON(h.toResponse(publication))
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, publications.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, publisher.ErrInvalidRequest):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, gist.ErrUnauthorized),
		errors.Is(err, git.ErrAuthenticationFailed),
		errors.Is(err, git.ErrNoAuthAvailable):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}

func (h *Handler) toResponse(p *publications.Publication) PublicationResponse {
	return PublicationResponse{
		ID:          p.ID,
		GistID:      p.GistID,
		HTMLURL:     p.HTMLURL,
		Commit:      p.Commit,
		Files:       p.Files,
		Description: p.Description,
		Public:      p.Public,
		Status:      string(p.Status),
		Error:       p.Error,
		CreatedAt:   p.CreatedAt,
	}
}
