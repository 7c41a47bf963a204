package server

import (
	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateMessage handles POST /messages/new
// @Summary Post a message
// @Description Create a new message owned by the logged-in user
// @Tags messages
// @Accept json
// @Produce json
// @Param request body object{text=string} true "Message text (1-140 characters)"
// @Success 201 {object} object{message=object}
// @Failure 400 {object} models.ErrorResponse
// @Router /messages/new [post]
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.Compose(c.Context(), currentUserID(c), req.Text)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": messageView(message),
	})
}

// GetMessage handles GET /messages/:id
// @Summary View a message
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} object{message=object}
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id} [get]
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	message, err := s.messageService.Get(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	resp := fiber.Map{"message": messageView(message)}

	likes, err := s.likeRepo.CountByMessage(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	resp["like_count"] = likes

	if viewerID, ok := s.optionalUserID(c); ok {
		liked, err := s.relationshipService.HasLiked(c.Context(), viewerID, id)
		if err != nil {
			return respondAppError(c, err)
		}
		resp["liked"] = liked
	}

	return c.JSON(resp)
}

// DeleteMessage handles POST /messages/:id/delete
// @Summary Delete a message
// @Description Delete a message; only its author may do so
// @Tags messages
// @Param id path int true "Message ID"
// @Success 302
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id}/delete [post]
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.messageService.Delete(c.Context(), id, userID); err != nil {
		return respondAppError(c, err)
	}

	return c.Redirect("/", fiber.StatusFound)
}
