package server

import (
	"time"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Landing handles GET /
// @Summary Landing page
// @Description Recent messages (or the caller's timeline when logged in) plus any pending notice
// @Tags home
// @Produce json
// @Success 200 {object} object{messages=[]object,notice=string}
// @Router / [get]
func (s *Server) Landing(c *fiber.Ctx) error {
	resp := fiber.Map{}
	if notice := popFlash(c); notice != "" {
		resp["notice"] = notice
	}

	if userID, ok := s.optionalUserID(c); ok {
		timeline, err := s.messageService.Timeline(c.Context(), userID, 100)
		if err != nil {
			return respondAppError(c, err)
		}
		resp["messages"] = messageViews(timeline)
		return c.JSON(resp)
	}

	recent, err := s.messageService.ListRecent(c.Context(), 100)
	if err != nil {
		return respondAppError(c, err)
	}
	resp["messages"] = messageViews(recent)
	return c.JSON(resp)
}

// Signup handles POST /signup
// @Summary User signup
// @Description Register a new account and establish a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string,image_url=string} true "Signup request"
// @Success 201 {object} object{token=string,user=object}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}

	user, err := s.authService.Signup(c.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		// A duplicate username/email maps to 409; no session is established.
		return respondAppError(c, err)
	}

	token, err := s.sessions.Login(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	setSessionCookie(c, token, time.Duration(s.config.SessionTTLHours)*time.Hour)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  userView(user),
	})
}

// Login handles POST /login
// @Summary User login
// @Description Authenticate with username and password and establish a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,user=object}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondAppError(c, err)
	}
	if user == nil {
		middleware.AuthResults.WithLabelValues("failure").Inc()
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.sessions.Login(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	setSessionCookie(c, token, time.Duration(s.config.SessionTTLHours)*time.Hour)

	middleware.AuthResults.WithLabelValues("success").Inc()
	return c.JSON(fiber.Map{
		"token": token,
		"user":  userView(user),
	})
}

// Logout handles POST /logout
// @Summary User logout
// @Description Invalidate the current session and redirect to the landing page
// @Tags auth
// @Success 302
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	// Logging out without a session just redirects home.
	if token := sessionToken(c); token != "" {
		if err := s.sessions.Logout(c.Context(), token); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}
	clearSessionCookie(c)
	setFlash(c, "You have been logged out.")
	return c.Redirect("/", fiber.StatusFound)
}
