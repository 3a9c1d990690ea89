package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SorryIWinxX/webmanager/internal/models"
	"github.com/SorryIWinxX/webmanager/internal/mq"
	"github.com/SorryIWinxX/webmanager/internal/repository"
)

// NoticeSubmitter posts a single notice to the external system. A nil
// submitter puts the service in self-contained mode where submission is
// synthesized, which backs the memory store driver and tests.
type NoticeSubmitter interface {
	SubmitNotice(ctx context.Context, notice *models.MaintenanceNotice) error
}

// NoticeService owns the notice lifecycle: creation, patch updates, the
// pending/processed buckets, the submission selection, and batch submission
// to the external system.
type NoticeService struct {
	notices repository.NoticeRepository
	sap     NoticeSubmitter
	audit   mq.Publisher
	logger  *zap.Logger

	mu        sync.Mutex
	selection *Selection
}

// NewNoticeService builds a service with dependencies.
func NewNoticeService(notices repository.NoticeRepository, sap NoticeSubmitter, audit mq.Publisher, logger *zap.Logger) *NoticeService {
	return &NoticeService{
		notices:   notices,
		sap:       sap,
		audit:     audit,
		logger:    logger,
		selection: NewSelection(),
	}
}

// NoticeInput carries the fields accepted at notice creation.
type NoticeInput struct {
	ShortText            string     `json:"shortText"`
	Cause                string     `json:"cause"`
	NoticeTypeID         *int       `json:"noticeTypeId"`
	EquipmentID          *int       `json:"equipmentId"`
	FunctionalLocationID *int       `json:"functionalLocationId"`
	WorkCenterID         *int       `json:"workCenterId"`
	ObjectPartID         *int       `json:"objectPartId"`
	Priority             string     `json:"priority"`
	StartDate            *time.Time `json:"startDate"`
	EndDate              *time.Time `json:"endDate"`
	StartTime            *time.Time `json:"startTime"`
	EndTime              *time.Time `json:"endTime"`
	ReporterID           *int       `json:"reporterId"`
	ReporterName         string     `json:"reporterName"`
	ImageURL             string     `json:"imageUrl"`
}

// Create validates the input and stores a new Pending notice with matching
// creation and update timestamps.
func (s *NoticeService) Create(ctx context.Context, input NoticeInput) (*models.MaintenanceNotice, error) {
	if strings.TrimSpace(input.ShortText) == "" {
		return nil, NewValidationError("shortText", "shortText is required")
	}

	now := time.Now().UTC()
	notice := &models.MaintenanceNotice{
		ShortText:            strings.TrimSpace(input.ShortText),
		Cause:                input.Cause,
		NoticeTypeID:         input.NoticeTypeID,
		EquipmentID:          input.EquipmentID,
		FunctionalLocationID: input.FunctionalLocationID,
		WorkCenterID:         input.WorkCenterID,
		ObjectPartID:         input.ObjectPartID,
		Priority:             input.Priority,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		StartTime:            input.StartTime,
		EndTime:              input.EndTime,
		ReporterID:           input.ReporterID,
		ReporterName:         input.ReporterName,
		ImageURL:             input.ImageURL,
		Status:               models.NoticeStatusPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// NoticePatch carries the optional fields of a partial update. Nil fields are
// left untouched.
type NoticePatch struct {
	ShortText            *string    `json:"shortText"`
	Cause                *string    `json:"cause"`
	NoticeTypeID         *int       `json:"noticeTypeId"`
	EquipmentID          *int       `json:"equipmentId"`
	FunctionalLocationID *int       `json:"functionalLocationId"`
	WorkCenterID         *int       `json:"workCenterId"`
	ObjectPartID         *int       `json:"objectPartId"`
	Priority             *string    `json:"priority"`
	StartDate            *time.Time `json:"startDate"`
	EndDate              *time.Time `json:"endDate"`
	StartTime            *time.Time `json:"startTime"`
	EndTime              *time.Time `json:"endTime"`
	ReporterID           *int       `json:"reporterId"`
	ReporterName         *string    `json:"reporterName"`
	ImageURL             *string    `json:"imageUrl"`
}

// Update merges the patch onto the stored notice and bumps UpdatedAt
// regardless of which fields changed.
func (s *NoticeService) Update(ctx context.Context, id uuid.UUID, patch NoticePatch) (*models.MaintenanceNotice, error) {
	notice, err := s.notices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.ShortText != nil {
		if strings.TrimSpace(*patch.ShortText) == "" {
			return nil, NewValidationError("shortText", "shortText must not be empty")
		}
		notice.ShortText = strings.TrimSpace(*patch.ShortText)
	}
	if patch.Cause != nil {
		notice.Cause = *patch.Cause
	}
	if patch.NoticeTypeID != nil {
		notice.NoticeTypeID = patch.NoticeTypeID
	}
	if patch.EquipmentID != nil {
		notice.EquipmentID = patch.EquipmentID
	}
	if patch.FunctionalLocationID != nil {
		notice.FunctionalLocationID = patch.FunctionalLocationID
	}
	if patch.WorkCenterID != nil {
		notice.WorkCenterID = patch.WorkCenterID
	}
	if patch.ObjectPartID != nil {
		notice.ObjectPartID = patch.ObjectPartID
	}
	if patch.Priority != nil {
		notice.Priority = *patch.Priority
	}
	if patch.StartDate != nil {
		notice.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		notice.EndDate = patch.EndDate
	}
	if patch.StartTime != nil {
		notice.StartTime = patch.StartTime
	}
	if patch.EndTime != nil {
		notice.EndTime = patch.EndTime
	}
	if patch.ReporterID != nil {
		notice.ReporterID = patch.ReporterID
	}
	if patch.ReporterName != nil {
		notice.ReporterName = *patch.ReporterName
	}
	if patch.ImageURL != nil {
		notice.ImageURL = *patch.ImageURL
	}

	notice.UpdatedAt = time.Now().UTC()
	if err := s.notices.Update(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// List returns all notices, newest first.
func (s *NoticeService) List(ctx context.Context) ([]models.MaintenanceNotice, error) {
	return s.notices.List(ctx)
}

// Get returns the notice by id.
func (s *NoticeService) Get(ctx context.Context, id uuid.UUID) (*models.MaintenanceNotice, error) {
	return s.notices.FindByID(ctx, id)
}

// Pending returns the bucket of notices still awaiting submission. The bucket
// is a pure filter over the full list, recomputed on every read.
func (s *NoticeService) Pending(ctx context.Context) ([]models.MaintenanceNotice, error) {
	return s.bucket(ctx, true)
}

// Processed returns every notice that is no longer Pending.
func (s *NoticeService) Processed(ctx context.Context) ([]models.MaintenanceNotice, error) {
	return s.bucket(ctx, false)
}

func (s *NoticeService) bucket(ctx context.Context, pending bool) ([]models.MaintenanceNotice, error) {
	all, err := s.notices.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.MaintenanceNotice, 0, len(all))
	for _, n := range all {
		if n.Pending() == pending {
			out = append(out, n)
		}
	}
	return out, nil
}

// Selected returns the current selection snapshot.
func (s *NoticeService) Selected() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IDs()
}

// Select adds ids to the submission selection.
func (s *NoticeService) Select(ids ...uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Select(ids...)
}

// Deselect removes ids from the submission selection.
func (s *NoticeService) Deselect(ids ...uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Deselect(ids...)
}

// ClearSelection empties the submission selection.
func (s *NoticeService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

// SelectAllPending selects every Pending notice regardless of page.
func (s *NoticeService) SelectAllPending(ctx context.Context) error {
	pending, err := s.Pending(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range pending {
		s.selection.Select(n.ID)
	}
	return nil
}

// DeselectAllPending removes every Pending notice from the selection.
func (s *NoticeService) DeselectAllPending(ctx context.Context) error {
	pending, err := s.Pending(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range pending {
		s.selection.Deselect(n.ID)
	}
	return nil
}

// SelectPendingPage selects only the notices visible on the given page of the
// pending bucket. The page number clamps into range.
func (s *NoticeService) SelectPendingPage(ctx context.Context, page int) error {
	return s.adjustPendingPage(ctx, page, true)
}

// DeselectPendingPage deselects the notices visible on the given page.
func (s *NoticeService) DeselectPendingPage(ctx context.Context, page int) error {
	return s.adjustPendingPage(ctx, page, false)
}

func (s *NoticeService) adjustPendingPage(ctx context.Context, page int, add bool) error {
	pending, err := s.Pending(ctx)
	if err != nil {
		return err
	}
	visible, _ := Paginate(pending, page)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range visible {
		if add {
			s.selection.Select(n.ID)
		} else {
			s.selection.Deselect(n.ID)
		}
	}
	return nil
}

// OutcomeStatus classifies what happened to one id inside a batch.
type OutcomeStatus string

const (
	OutcomeSent    OutcomeStatus = "sent"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// ItemOutcome reports the result for a single notice in a batch submission.
type ItemOutcome struct {
	NoticeID uuid.UUID     `json:"noticeId"`
	Status   OutcomeStatus `json:"status"`
	Detail   string        `json:"detail,omitempty"`
}

// SendResult is the aggregate contract of a batch submission. Success is true
// when at least one notice transitioned; the outcome list makes partial
// failure distinguishable from staleness.
type SendResult struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Sent     int           `json:"sent"`
	Outcomes []ItemOutcome `json:"outcomes"`
}

// SendToSAP submits the given notices to the external system. Ids that are
// absent or no longer Pending are excluded from the batch and reported as
// skipped; they never fail the batch. Each included notice is submitted
// individually: on success it transitions to Sent with a fresh UpdatedAt, on
// failure it stays Pending.
func (s *NoticeService) SendToSAP(ctx context.Context, ids []uuid.UUID) SendResult {
	if len(ids) == 0 {
		return SendResult{Success: false, Message: "no notices selected for submission"}
	}

	result := SendResult{Outcomes: make([]ItemOutcome, 0, len(ids))}
	for _, id := range ids {
		result.Outcomes = append(result.Outcomes, s.sendOne(ctx, id))
	}
	for _, o := range result.Outcomes {
		if o.Status == OutcomeSent {
			result.Sent++
		}
	}

	if result.Sent > 0 {
		result.Success = true
		result.Message = fmt.Sprintf("%d notice(s) sent to SAP successfully", result.Sent)
		s.publishSentAudit(ctx, result)
	} else {
		result.Message = "no pending notices were submitted"
	}
	return result
}

func (s *NoticeService) sendOne(ctx context.Context, id uuid.UUID) ItemOutcome {
	notice, err := s.notices.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return ItemOutcome{NoticeID: id, Status: OutcomeSkipped, Detail: "notice not found"}
		}
		return ItemOutcome{NoticeID: id, Status: OutcomeFailed, Detail: err.Error()}
	}
	if !notice.Pending() {
		return ItemOutcome{NoticeID: id, Status: OutcomeSkipped, Detail: "notice already processed"}
	}

	if s.sap != nil {
		if err := s.sap.SubmitNotice(ctx, notice); err != nil {
			s.logger.Warn("notice submission failed",
				zap.String("notice_id", id.String()),
				zap.Error(err),
			)
			return ItemOutcome{NoticeID: id, Status: OutcomeFailed, Detail: err.Error()}
		}
	}

	sent, err := s.notices.MarkSentIfPending(ctx, id)
	if err != nil {
		return ItemOutcome{NoticeID: id, Status: OutcomeFailed, Detail: err.Error()}
	}
	if !sent {
		// A concurrent batch claimed it between the read and the transition.
		return ItemOutcome{NoticeID: id, Status: OutcomeSkipped, Detail: "notice already processed"}
	}
	return ItemOutcome{NoticeID: id, Status: OutcomeSent}
}

// SendSelected submits the current selection and clears it when at least one
// notice was sent.
func (s *NoticeService) SendSelected(ctx context.Context) SendResult {
	result := s.SendToSAP(ctx, s.Selected())
	if result.Success {
		s.ClearSelection()
	}
	return result
}

func (s *NoticeService) publishSentAudit(ctx context.Context, result SendResult) {
	if s.audit == nil {
		return
	}
	sentIDs := make([]string, 0, result.Sent)
	for _, o := range result.Outcomes {
		if o.Status == OutcomeSent {
			sentIDs = append(sentIDs, o.NoticeID.String())
		}
	}
	payload := map[string]any{
		"event":      "notices.sent",
		"noticeIds":  sentIDs,
		"count":      result.Sent,
		"source":     "webmanager",
		"occurredAt": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.audit.Publish(ctx, "audit.notices.sent", payload); err != nil {
		s.logger.Warn("publish audit.notices.sent failed", zap.Error(err))
	}
}
