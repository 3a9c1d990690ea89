package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/SorryIWinxX/webmanager/internal/mq"
)

// SyncClient triggers a synchronization run on the external system. A nil
// client puts the service in self-contained mode where the run is synthesized.
type SyncClient interface {
	Sync(ctx context.Context) ([]string, error)
}

// selfContainedTables is the table list reported when no external system is
// configured.
var selfContainedTables = []string{
	"Customer_Data_Table",
	"Product_Inventory_Table",
	"Maintenance_Schedules_Table",
}

// SyncService triggers SAP synchronization and records the outcome to the
// audit exchange. Sync success and audit success are independent outcomes;
// an audit failure never rolls back the sync.
type SyncService struct {
	sap    SyncClient
	audit  mq.Publisher
	logger *zap.Logger
}

// NewSyncService builds a service with dependencies.
func NewSyncService(sap SyncClient, audit mq.Publisher, logger *zap.Logger) *SyncService {
	return &SyncService{sap: sap, audit: audit, logger: logger}
}

// SyncResult reports a synchronization run.
type SyncResult struct {
	Success            bool     `json:"success"`
	Message            string   `json:"message"`
	SynchronizedTables []string `json:"synchronizedTables,omitempty"`
	AuditLogged        bool     `json:"auditLogged"`
}

// SyncFromSAP runs a synchronization and publishes an audit record on success.
func (s *SyncService) SyncFromSAP(ctx context.Context) SyncResult {
	var (
		tables []string
		err    error
	)
	if s.sap != nil {
		tables, err = s.sap.Sync(ctx)
		if err != nil {
			s.logger.Warn("SAP synchronization failed", zap.Error(err))
			return SyncResult{Success: false, Message: "synchronization failed: " + err.Error()}
		}
	} else {
		tables = selfContainedTables
	}

	result := SyncResult{
		Success:            true,
		Message:            "data successfully synchronized from SAP",
		SynchronizedTables: tables,
	}
	result.AuditLogged = s.publishAudit(ctx, tables)
	return result
}

func (s *SyncService) publishAudit(ctx context.Context, tables []string) bool {
	if s.audit == nil {
		return false
	}
	payload := map[string]any{
		"event":      "sync.completed",
		"tables":     tables,
		"source":     "webmanager",
		"occurredAt": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.audit.Publish(ctx, "audit.sync.completed", payload); err != nil {
		s.logger.Warn("publish audit.sync.completed failed", zap.Error(err))
		return false
	}
	return true
}
