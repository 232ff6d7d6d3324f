package httpapi

import (
	"net/mail"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskdeck/internal/server/store"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type tokenPayload struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func (s *Server) signUp(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid email format")
	}
	if len(req.Password) < 8 {
		return detail(c, fiber.StatusUnprocessableEntity, "Password must be at least 8 characters")
	}
	// bcrypt input limit
	if len(req.Password) > 72 {
		return detail(c, fiber.StatusUnprocessableEntity, "Password must be at most 72 characters")
	}

	exists, err := s.store.EmailExists(req.Email)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}
	if exists {
		return detail(c, fiber.StatusConflict, "Email already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	now := time.Now().UTC()
	user := &store.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(user); err != nil {
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return s.issueToken(c, fiber.StatusCreated, user)
}

func (s *Server) signIn(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := s.store.FindUserByEmail(req.Email)
	if err != nil || !s.hasher.Verify(req.Password, user.PasswordHash) {
		return detail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	return s.issueToken(c, fiber.StatusOK, user)
}

func (s *Server) issueToken(c *fiber.Ctx, status int, user *store.User) error {
	token, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return c.Status(status).JSON(tokenPayload{
		Token: token,
		User:  userPayload{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}
