package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /users/follow/:id
// @Summary Follow a user
// @Description Add a follow edge from the logged-in user and redirect to their following page
// @Tags relationships
// @Param id path int true "User ID to follow"
// @Success 302
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/follow/{id} [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.relationshipService.Follow(c.Context(), userID, id); err != nil {
		return respondAppError(c, err)
	}
	return c.Redirect(fmt.Sprintf("/users/%d/following", userID), fiber.StatusFound)
}

// StopFollowing handles POST /users/stop-following/:id
// @Summary Unfollow a user
// @Description Remove the follow edge; unfollowing someone not followed is a no-op
// @Tags relationships
// @Param id path int true "User ID to unfollow"
// @Success 302
// @Router /users/stop-following/{id} [post]
func (s *Server) StopFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.relationshipService.Unfollow(c.Context(), userID, id); err != nil {
		return respondAppError(c, err)
	}
	return c.Redirect(fmt.Sprintf("/users/%d/following", userID), fiber.StatusFound)
}

// AddLike handles POST /users/add_like/:id
// @Summary Like a message
// @Description Add a like edge from the logged-in user to the message and redirect home
// @Tags relationships
// @Param id path int true "Message ID to like"
// @Success 302
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/add_like/{id} [post]
func (s *Server) AddLike(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.relationshipService.Like(c.Context(), currentUserID(c), id); err != nil {
		return respondAppError(c, err)
	}
	return c.Redirect("/", fiber.StatusFound)
}

// RemoveLike handles POST /users/remove_like/:id
// @Summary Unlike a message
// @Description Remove the like edge; unliking a message not liked is a no-op
// @Tags relationships
// @Param id path int true "Message ID to unlike"
// @Success 302
// @Failure 404 {object} models.ErrorResponse
// @Router /users/remove_like/{id} [post]
func (s *Server) RemoveLike(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.relationshipService.Unlike(c.Context(), currentUserID(c), id); err != nil {
		return respondAppError(c, err)
	}
	return c.Redirect("/", fiber.StatusFound)
}
