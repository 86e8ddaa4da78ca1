// ABOUTME: MCP tool implementations for health records.
// ABOUTME: Adds and lists records and exposes recommendations, analytics and thresholds.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/phr/internal/dashboard"
	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_record",
		Description: "Log a health reading: blood pressure, blood sugar and/or pulse rate",
	}, s.handleAddRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List recent health records, optionally within a date range",
	}, s.handleListRecords)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_recommendations",
		Description: "Summarize the last 30 days of readings and give daily highlights for the latest records",
	}, s.handleGetRecommendations)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_analytics",
		Description: "Mean, median, min and max per metric plus out-of-range readings",
	}, s.handleGetAnalytics)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_thresholds",
		Description: "Show the healthy ranges used to classify readings",
	}, s.handleGetThresholds)
}

// Tool input/output types

type addRecordInput struct {
	User          string   `json:"user,omitempty" jsonschema:"User whose records to change (defaults to the configured user)"`
	BloodPressure string   `json:"blood_pressure,omitempty" jsonschema:"Blood pressure as systolic/diastolic, e.g. 120/80"`
	SugarLevel    *float64 `json:"sugar_level,omitempty" jsonschema:"Blood sugar in mg/dL"`
	PulseRate     *float64 `json:"pulse_rate,omitempty" jsonschema:"Pulse rate in bpm"`
	Notes         string   `json:"notes,omitempty" jsonschema:"Optional notes"`
	RecordedAt    string   `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type addRecordOutput struct {
	User           string `json:"user"`
	Date           string `json:"date"`
	Recommendation string `json:"recommendation"`
	Message        string `json:"message"`
}

type listRecordsInput struct {
	User  string `json:"user,omitempty" jsonschema:"User whose records to read (defaults to the configured user)"`
	From  string `json:"from,omitempty" jsonschema:"Earliest day to include (YYYY-MM-DD)"`
	To    string `json:"to,omitempty" jsonschema:"Latest day to include (YYYY-MM-DD)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results, most recent first (default 20)"`
}

type userInput struct {
	User string `json:"user,omitempty" jsonschema:"User to report on (defaults to the configured user)"`
}

type rangeInput struct {
	User string `json:"user,omitempty" jsonschema:"User to report on (defaults to the configured user)"`
	From string `json:"from,omitempty" jsonschema:"Earliest day to include (YYYY-MM-DD)"`
	To   string `json:"to,omitempty" jsonschema:"Latest day to include (YYYY-MM-DD)"`
}

// recordView is a record as returned to MCP clients.
type recordView struct {
	Date          string   `json:"date"`
	BloodPressure string   `json:"blood_pressure,omitempty"`
	SugarLevel    *float64 `json:"sugar_level,omitempty"`
	PulseRate     *float64 `json:"pulse_rate,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

func newRecordView(r *models.HealthRecord) recordView {
	return recordView{
		Date:          storage.FormatTimestamp(r.Timestamp),
		BloodPressure: r.BloodPressure,
		SugarLevel:    r.SugarLevel,
		PulseRate:     r.PulseRate,
		Notes:         r.Notes,
	}
}

var noRecords = map[string]any{"message": "No health records yet. Add a reading first."}

// Tool handlers

func (s *Server) handleAddRecord(ctx context.Context, req *mcp.CallToolRequest, input addRecordInput) (*mcp.CallToolResult, addRecordOutput, error) {
	user := s.user(input.User)

	ts := time.Now()
	if input.RecordedAt != "" {
		t, err := parseTime(input.RecordedAt)
		if err != nil {
			return nil, addRecordOutput{}, err
		}
		ts = t
	}

	r := models.NewRecord(ts).WithRawBloodPressure(input.BloodPressure).WithNotes(input.Notes)
	r.SugarLevel = input.SugarLevel
	r.PulseRate = input.PulseRate

	if err := s.svc.AddRecord(user, r); err != nil {
		return nil, addRecordOutput{}, fmt.Errorf("failed to add record: %w", err)
	}

	daily, err := s.svc.Daily(user, r)
	if err != nil {
		return nil, addRecordOutput{}, err
	}

	date := storage.FormatTimestamp(r.Timestamp)
	return nil, addRecordOutput{
		User:           user,
		Date:           date,
		Recommendation: daily.Text,
		Message:        fmt.Sprintf("Added record for %s at %s", user, date),
	}, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	from, to, err := parseRange(input.From, input.To)
	if err != nil {
		return nil, nil, err
	}

	records, err := s.svc.Records(s.user(input.User), from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list records: %w", err)
	}
	if len(records) == 0 {
		return nil, noRecords, nil
	}

	views := make([]recordView, 0, input.Limit)
	for i := len(records) - 1; i >= 0 && len(views) < input.Limit; i-- {
		views = append(views, newRecordView(records[i]))
	}

	return nil, map[string]any{
		"user":    s.user(input.User),
		"count":   len(views),
		"records": views,
	}, nil
}

func (s *Server) handleGetRecommendations(ctx context.Context, req *mcp.CallToolRequest, input userInput) (*mcp.CallToolResult, any, error) {
	rec, err := s.svc.Recommendations(s.user(input.User))
	if errors.Is(err, dashboard.ErrNoRecords) {
		return nil, noRecords, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build recommendations: %w", err)
	}
	return nil, rec, nil
}

func (s *Server) handleGetAnalytics(ctx context.Context, req *mcp.CallToolRequest, input rangeInput) (*mcp.CallToolResult, any, error) {
	from, to, err := parseRange(input.From, input.To)
	if err != nil {
		return nil, nil, err
	}

	a, err := s.svc.Analytics(s.user(input.User), from, to)
	if errors.Is(err, dashboard.ErrNoRecords) {
		return nil, noRecords, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute analytics: %w", err)
	}
	return nil, a, nil
}

func (s *Server) handleGetThresholds(ctx context.Context, req *mcp.CallToolRequest, input userInput) (*mcp.CallToolResult, any, error) {
	t, err := s.svc.Thresholds(s.user(input.User))
	if err != nil {
		return nil, nil, err
	}
	return nil, t, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return storage.ParseTimestamp(s)
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	var f, t time.Time
	var err error
	if from != "" {
		if f, err = storage.ParseTimestamp(from); err != nil {
			return f, t, fmt.Errorf("from: %w", err)
		}
	}
	if to != "" {
		if t, err = storage.ParseTimestamp(to); err != nil {
			return f, t, fmt.Errorf("to: %w", err)
		}
	}
	return f, t, nil
}
