package server

import (
	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListUsers handles GET /users
// @Summary List users
// @Description List all users, optionally filtered by a username substring
// @Tags users
// @Produce json
// @Param q query string false "Username filter"
// @Success 200 {object} object{users=[]object}
// @Router /users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 100)

	users, err := s.userService.ListUsers(c.Context(), c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": userViews(users)})
}

// GetUserProfile handles GET /users/:id
// @Summary User profile
// @Description A user's profile with their recent messages and stats
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{user=object,messages=[]object,stats=object}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserWithMessages(c.Context(), id, 100)
	if err != nil {
		return respondAppError(c, err)
	}
	stats, err := s.userService.ProfileStats(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	resp := fiber.Map{
		"user":     userView(user),
		"messages": messageViews(user.Messages),
		"stats":    stats,
	}

	// Viewer-specific edge state, when logged in.
	if viewerID, ok := s.optionalUserID(c); ok && viewerID != id {
		following, err := s.relationshipService.IsFollowing(c.Context(), viewerID, id)
		if err != nil {
			return respondAppError(c, err)
		}
		followedBy, err := s.relationshipService.IsFollowedBy(c.Context(), viewerID, id)
		if err != nil {
			return respondAppError(c, err)
		}
		resp["is_following"] = following
		resp["is_followed_by"] = followedBy
	}

	return c.JSON(resp)
}

// UpdateProfile handles PATCH /users/profile
// @Summary Update profile
// @Description Edit the logged-in user's profile; requires the current password
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{password=string,username=string,email=string,image_url=string,header_image_url=string,bio=string,location=string} true "Profile edit"
// @Success 200 {object} object{user=object}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/profile [patch]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Password       string `json:"password"`
		Username       string `json:"username"`
		Email          string `json:"email"`
		ImageURL       string `json:"image_url"`
		HeaderImageURL string `json:"header_image_url"`
		Bio            string `json:"bio"`
		Location       string `json:"location"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:         currentUserID(c),
		Password:       req.Password,
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"user": userView(user)})
}

// DeleteAccount handles POST /users/delete
// @Summary Delete account
// @Description Delete the logged-in user with all messages, likes, and follow edges, then redirect to signup
// @Tags users
// @Success 302
// @Router /users/delete [post]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	userID := currentUserID(c)

	if token := sessionToken(c); token != "" {
		if err := s.sessions.Logout(c.Context(), token); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}
	if err := s.userService.DeleteAccount(c.Context(), userID); err != nil {
		return respondAppError(c, err)
	}

	clearSessionCookie(c)
	return c.Redirect("/", fiber.StatusFound)
}

// GetFollowing handles GET /users/:id/following
// @Summary Users a user follows
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{following=[]object}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	following, err := s.relationshipService.Following(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"following": userViews(following)})
}

// GetFollowers handles GET /users/:id/followers
// @Summary Users following a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{followers=[]object}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	followers, err := s.relationshipService.Followers(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"followers": userViews(followers)})
}

// GetLikedMessages handles GET /users/:id/likes
// @Summary Messages a user has liked
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{messages=[]object}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/likes [get]
func (s *Server) GetLikedMessages(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	liked, err := s.relationshipService.LikedMessages(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messageViews(liked)})
}
