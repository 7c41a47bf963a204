package server

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	sessionCookieName = "warbler_session"
	flashCookieName   = "warbler_flash"

	// accessUnauthorized is the notice shown on the landing page after an
	// anonymous caller is turned away from a protected route.
	accessUnauthorized = "Access unauthorized."
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts the :id route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondAppError writes err with the status its code maps to.
func respondAppError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithError(c, appErr.HTTPStatus(), appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// currentUserID returns the user established by the session gate. Only valid
// behind SessionRequired.
func currentUserID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

// sessionToken extracts the session token from the Authorization header or
// the session cookie.
func sessionToken(c *fiber.Ctx) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Cookies(sessionCookieName)
}

// setSessionCookie hands the session token to browser clients. API clients
// may ignore the cookie and send the token as a Bearer header instead.
func setSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// setFlash stores a one-shot notice for the landing page.
func setFlash(c *fiber.Ctx, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		Expires:  time.Now().Add(5 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// popFlash consumes and returns the pending flash notice, if any.
func popFlash(c *fiber.Ctx) string {
	raw := c.Cookies(flashCookieName)
	if raw == "" {
		return ""
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}

// userView is the public JSON shape of a user.
func userView(u *models.User) fiber.Map {
	return fiber.Map{
		"id":               u.ID,
		"username":         u.Username,
		"handle":           u.Handle(),
		"email":            u.Email,
		"image_url":        u.ImageURL,
		"header_image_url": u.HeaderImageURL,
		"bio":              u.Bio,
		"location":         u.Location,
		"created_at":       u.CreatedAt,
	}
}

func userViews(users []models.User) []fiber.Map {
	out := make([]fiber.Map, 0, len(users))
	for i := range users {
		out = append(out, userView(&users[i]))
	}
	return out
}

// messageView is the public JSON shape of a message. The author is included
// when preloaded.
func messageView(m *models.Message) fiber.Map {
	view := fiber.Map{
		"id":         m.ID,
		"text":       m.Text,
		"user_id":    m.UserID,
		"created_at": m.CreatedAt,
	}
	if m.User.ID != 0 {
		view["user"] = fiber.Map{
			"id":        m.User.ID,
			"username":  m.User.Username,
			"handle":    m.User.Handle(),
			"image_url": m.User.ImageURL,
		}
	}
	return view
}

func messageViews(messages []models.Message) []fiber.Map {
	out := make([]fiber.Map, 0, len(messages))
	for i := range messages {
		out = append(out, messageView(&messages[i]))
	}
	return out
}

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}
