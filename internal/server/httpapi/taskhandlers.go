package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"taskdeck/internal/server/store"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

type taskCreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type taskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	status := c.Query("status", "all")
	sort := c.Query("sort", "created")

	switch status {
	case "all", "pending", "completed":
	default:
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid status filter")
	}
	switch sort {
	case "created", "title":
	default:
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid sort option")
	}

	tasks, err := s.store.ListTasks(principal(c), status, sort)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(tasks)
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var req taskCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return detail(c, fiber.StatusUnprocessableEntity, "Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return detail(c, fiber.StatusUnprocessableEntity, "Title must be 200 characters or less")
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > maxDescriptionLen {
		return detail(c, fiber.StatusUnprocessableEntity, "Description must be 1000 characters or less")
	}

	now := time.Now().UTC()
	task := &store.Task{
		UserID:      principal(c),
		Title:       title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTask(task); err != nil {
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (s *Server) getTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid task id")
	}

	task, err := s.store.GetTask(principal(c), id)
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(task)
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid task id")
	}

	var req taskUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Title == nil && req.Description == nil {
		return detail(c, fiber.StatusUnprocessableEntity, "At least one field must be provided")
	}

	changes := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return detail(c, fiber.StatusUnprocessableEntity, "Title is required")
		}
		if utf8.RuneCountInString(title) > maxTitleLen {
			return detail(c, fiber.StatusUnprocessableEntity, "Title must be 200 characters or less")
		}
		changes["title"] = title
	}
	if req.Description != nil {
		if utf8.RuneCountInString(*req.Description) > maxDescriptionLen {
			return detail(c, fiber.StatusUnprocessableEntity, "Description must be 1000 characters or less")
		}
		changes["description"] = *req.Description
	}

	task, err := s.store.UpdateTask(principal(c), id, changes)
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(task)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid task id")
	}

	if err := s.store.DeleteTask(principal(c), id); err != nil {
		return taskError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) toggleTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid task id")
	}

	task, err := s.store.ToggleTask(principal(c), id)
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(task)
}

func taskID(c *fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("taskID"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func taskError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return detail(c, fiber.StatusNotFound, "Task not found")
	}
	return detail(c, fiber.StatusInternalServerError, "Internal server error")
}
