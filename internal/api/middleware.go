// ABOUTME: HTTP middleware for the phr API.
// ABOUTME: Validates the user path parameter and records request metrics.
package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/harperreed/phr/internal/storage"
	"go.uber.org/zap"
)

// requireUser validates the :user parameter and stores it in request locals.
func (s *Server) requireUser(c *fiber.Ctx) error {
	user := c.Params("user")
	if err := storage.ValidateUser(user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	c.Locals(localsUser, user)
	return c.Next()
}

func userFrom(c *fiber.Ctx) string {
	user, _ := c.Locals(localsUser).(string)
	return user
}

// observe logs each request and records it in metrics.
func (s *Server) observe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		route := c.Route().Path
		elapsed := time.Since(start)

		s.metrics.ObserveRequest(route, c.Method(), status, elapsed)
		s.logger.Debug("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", elapsed))
		return err
	}
}
