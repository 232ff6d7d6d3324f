// Package httpapi exposes the auth and task REST surface over Fiber.
package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"taskdeck/internal/server/auth"
	"taskdeck/internal/server/store"
)

// Server wires the HTTP routes to the store and token manager.
type Server struct {
	app    *fiber.App
	store  *store.Store
	hasher *auth.PasswordHasher
	jwt    *auth.JWTManager
}

// New builds the Fiber application with all routes registered.
func New(st *store.Store, jwtMgr *auth.JWTManager) *Server {
	s := &Server{
		app:    fiber.New(fiber.Config{DisableStartupMessage: true}),
		store:  st,
		hasher: auth.NewPasswordHasher(),
		jwt:    jwtMgr,
	}

	s.app.Use(fiberlogger.New())

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app.Post("/api/auth/sign-up", s.signUp)
	s.app.Post("/api/auth/sign-in", s.signIn)

	tasks := s.app.Group("/api/:userID/tasks", s.requireAuth, s.enforceOwner)
	tasks.Get("", s.listTasks)
	tasks.Post("", s.createTask)
	tasks.Get("/:taskID", s.getTask)
	tasks.Put("/:taskID", s.updateTask)
	tasks.Delete("/:taskID", s.deleteTask)
	tasks.Patch("/:taskID/complete", s.toggleTask)

	return s
}

// App returns the underlying Fiber app (for tests).
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the given address until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// detail renders the error body shape the client expects.
func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}
