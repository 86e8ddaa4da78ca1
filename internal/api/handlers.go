// ABOUTME: HTTP handlers for records, recommendations, analytics and reports.
// ABOUTME: Maps service errors to JSON error responses.
package api

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/harperreed/phr/internal/dashboard"
	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/report"
	"github.com/harperreed/phr/internal/storage"
	"github.com/harperreed/phr/internal/vitals"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   Version,
		"timestamp": time.Now().Unix(),
	})
}

type recordRequest struct {
	Date          string   `json:"date"`
	BloodPressure string   `json:"blood_pressure"`
	SugarLevel    *float64 `json:"sugar_level"`
	PulseRate     *float64 `json:"pulse_rate"`
	Notes         string   `json:"notes"`
}

func (s *Server) handleAddRecord(c *fiber.Ctx) error {
	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	ts := time.Now()
	if req.Date != "" {
		t, err := storage.ParseTimestamp(req.Date)
		if err != nil {
			return s.fail(c, err)
		}
		ts = t
	}

	r := models.NewRecord(ts).WithRawBloodPressure(req.BloodPressure).WithNotes(req.Notes)
	r.SugarLevel = req.SugarLevel
	r.PulseRate = req.PulseRate

	user := userFrom(c)
	if err := s.svc.AddRecord(user, r); err != nil {
		return s.fail(c, err)
	}
	daily, err := s.svc.Daily(user, r)
	if err != nil {
		return s.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"record":         r,
		"recommendation": daily,
	})
}

func (s *Server) handleListRecords(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return s.fail(c, err)
	}
	records, err := s.svc.Records(userFrom(c), from, to)
	if err != nil {
		return s.fail(c, err)
	}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit < len(records) {
		records = records[len(records)-limit:]
	}
	if records == nil {
		records = []*models.HealthRecord{}
	}
	return c.JSON(fiber.Map{
		"user":    userFrom(c),
		"count":   len(records),
		"records": records,
	})
}

func (s *Server) handleRecommendations(c *fiber.Ctx) error {
	rec, err := s.svc.Recommendations(userFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(rec)
}

func (s *Server) handleAnalytics(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return s.fail(c, err)
	}
	a, err := s.svc.Analytics(userFrom(c), from, to)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(a)
}

func (s *Server) handleThresholds(c *fiber.Ctx) error {
	t, err := s.svc.Thresholds(userFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(t)
}

func (s *Server) handleReport(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return s.fail(c, err)
	}
	renderer, err := report.ForFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rep, err := s.svc.Report(userFrom(c), from, to)
	if err != nil {
		return s.fail(c, err)
	}

	var buf bytes.Buffer
	if err := s.svc.RenderReport(&buf, rep, renderer.Extension()); err != nil {
		return s.fail(c, err)
	}

	c.Attachment(rep.FileName(renderer.Extension()))
	c.Set(fiber.HeaderContentType, renderer.ContentType())
	return c.Send(buf.Bytes())
}

func dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = storage.ParseTimestamp(v); err != nil {
			return from, to, err
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = storage.ParseTimestamp(v); err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}

// fail maps domain errors to status codes.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, dashboard.ErrNoRecords), errors.Is(err, report.ErrEmptyRange):
		status = fiber.StatusNotFound
	case errors.Is(err, storage.ErrInvalidUser),
		errors.Is(err, storage.ErrUnparsableDate),
		errors.Is(err, storage.ErrInvalidNumber),
		errors.Is(err, vitals.ErrMalformedBloodPressure),
		errors.Is(err, vitals.ErrMissingMetric):
		status = fiber.StatusBadRequest
	}
	if status == fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
