package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/SorryIWinxX/webmanager/internal/models"
	"github.com/SorryIWinxX/webmanager/internal/sap"
)

// ReporterClient is the external registry of field-reporting identities.
type ReporterClient interface {
	ListReporters(ctx context.Context) ([]models.Reporter, error)
	CreateReporter(ctx context.Context, cedula string, workstationID int) (*models.Reporter, error)
	DeleteReporter(ctx context.Context, id int) error
}

// ReporterService proxies reporter management to the external system. There
// is no local reporter state; a missing SAP base URL is a configuration error
// surfaced to the caller, never a silent fallback.
type ReporterService struct {
	sap    ReporterClient
	logger *zap.Logger
}

// NewReporterService builds a service with dependencies.
func NewReporterService(client ReporterClient, logger *zap.Logger) *ReporterService {
	return &ReporterService{sap: client, logger: logger}
}

// List returns the reporter registry.
func (s *ReporterService) List(ctx context.Context) ([]models.Reporter, error) {
	if s.sap == nil {
		return nil, sap.ErrNotConfigured
	}
	return s.sap.ListReporters(ctx)
}

// Create registers a new reporter identity.
func (s *ReporterService) Create(ctx context.Context, cedula string, workstationID int) (*models.Reporter, error) {
	fields := map[string]string{}
	if strings.TrimSpace(cedula) == "" {
		fields["cedula"] = "cedula is required"
	}
	if workstationID <= 0 {
		fields["workstationId"] = "workstationId must be a positive id"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if s.sap == nil {
		return nil, sap.ErrNotConfigured
	}
	return s.sap.CreateReporter(ctx, strings.TrimSpace(cedula), workstationID)
}

// Delete removes a reporter identity.
func (s *ReporterService) Delete(ctx context.Context, id int) error {
	if s.sap == nil {
		return sap.ErrNotConfigured
	}
	return s.sap.DeleteReporter(ctx, id)
}
