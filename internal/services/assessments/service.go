// Package assessments implements the assessment lifecycle: creation,
// status tracking and background processing of snapshot and four-phase
// analyses.
package assessments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"envrisk/internal/domain"
	"envrisk/internal/ports"
)

// inputPayload is the persisted input of an assessment, replayed by the
// processor.
type inputPayload struct {
	Measurements domain.Measurements `json:"measurements,omitempty"`
	Records      []domain.Record     `json:"records,omitempty"`
}

// CreateRequest describes a new assessment.
type CreateRequest struct {
	SiteID       *string             `json:"site_id,omitempty"`
	Country      string              `json:"country"`
	Kind         string              `json:"kind"`
	ProjectType  string              `json:"project_type,omitempty"`
	Collect      bool                `json:"collect,omitempty"`
	Measurements domain.Measurements `json:"measurements,omitempty"`
	Records      []domain.Record     `json:"records,omitempty"`
}

// Service creates assessments and answers status queries.
type Service struct {
	sites          ports.SiteRepository
	assessments    ports.AssessmentRepository
	defaultCountry string
	logger         *slog.Logger
}

// NewService creates the assessment service.
func NewService(sites ports.SiteRepository, assessments ports.AssessmentRepository, defaultCountry string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sites:          sites,
		assessments:    assessments,
		defaultCountry: defaultCountry,
		logger:         logger,
	}
}

// Create validates the request and enqueues a new assessment. The returned id
// can be polled through Status.
func (s *Service) Create(ctx context.Context, req CreateRequest) (string, error) {
	kind := domain.AssessmentKind(req.Kind)
	switch kind {
	case domain.AssessmentSnapshot, domain.AssessmentPhases:
	default:
		return "", fmt.Errorf("unknown assessment kind %q", req.Kind)
	}

	if req.Country == "" {
		req.Country = s.defaultCountry
	}
	if req.Collect && req.SiteID == nil {
		return "", fmt.Errorf("collection requires a site")
	}
	if req.SiteID != nil {
		if _, err := s.sites.GetSite(ctx, *req.SiteID); err != nil {
			return "", fmt.Errorf("site %s: %w", *req.SiteID, err)
		}
	}
	if !req.Collect && len(req.Measurements) == 0 && len(req.Records) == 0 {
		return "", fmt.Errorf("no measurements given and collection disabled")
	}

	input, err := json.Marshal(inputPayload{
		Measurements: req.Measurements,
		Records:      req.Records,
	})
	if err != nil {
		return "", fmt.Errorf("encode input: %w", err)
	}

	id, err := s.assessments.CreateAssessment(ctx, domain.Assessment{
		SiteID:      req.SiteID,
		Country:     req.Country,
		Kind:        kind,
		ProjectType: req.ProjectType,
		Collect:     req.Collect,
		Status:      domain.StatusQueued,
		Input:       input,
	})
	if err != nil {
		return "", fmt.Errorf("create assessment: %w", err)
	}

	s.logger.Info("assessment created",
		slog.String("assessment_id", id),
		slog.String("kind", string(kind)),
		slog.String("country", req.Country))
	return id, nil
}

// Status returns the processing status and progress of an assessment.
func (s *Service) Status(ctx context.Context, id string) (string, float64, error) {
	return s.assessments.AssessmentStatus(ctx, id)
}

// Get returns a full assessment, including the stored result when completed.
func (s *Service) Get(ctx context.Context, id string) (domain.Assessment, error) {
	return s.assessments.GetAssessment(ctx, id)
}

// CreateSite registers a monitored site.
func (s *Service) CreateSite(ctx context.Context, site domain.Site) (string, error) {
	if site.Name == "" {
		return "", fmt.Errorf("site name is required")
	}
	if site.Latitude < -90 || site.Latitude > 90 || site.Longitude < -180 || site.Longitude > 180 {
		return "", fmt.Errorf("coordinates out of range")
	}
	return s.sites.CreateSite(ctx, site)
}

// GetSite returns a site by id.
func (s *Service) GetSite(ctx context.Context, id string) (domain.Site, error) {
	return s.sites.GetSite(ctx, id)
}
