// ABOUTME: MCP resource implementations for health records.
// ABOUTME: Provides phr://records/recent and phr://recommendations for the default user.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/phr/internal/dashboard"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recentURI          = "phr://records/recent"
	recommendationsURI = "phr://recommendations"
	recentLimit        = 10
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Health Records",
		Description: "Last 10 health records of the default user",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recommendationsURI,
		Name:        "Health Recommendations",
		Description: "Window summary and daily highlights for the default user",
		MIMEType:    "application/json",
	}, s.handleRecommendationsResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, err := s.svc.Records(s.defaultUser, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	start := len(records) - recentLimit
	if start < 0 {
		start = 0
	}
	views := make([]recordView, 0, len(records)-start)
	for _, r := range records[start:] {
		views = append(views, newRecordView(r))
	}

	return jsonResource(recentURI, map[string]any{
		"user":    s.defaultUser,
		"records": views,
	})
}

func (s *Server) handleRecommendationsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	rec, err := s.svc.Recommendations(s.defaultUser)
	if errors.Is(err, dashboard.ErrNoRecords) {
		return jsonResource(recommendationsURI, noRecords)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendations: %w", err)
	}
	return jsonResource(recommendationsURI, rec)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
