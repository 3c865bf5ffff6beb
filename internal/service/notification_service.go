package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
	"github.com/parsamooz/school-api/pkg/jobs"
	"github.com/parsamooz/school-api/pkg/push"
)

type tokenStore interface {
	ActiveTokens(ctx context.Context, schoolCode, classCode string, studentCodes []string) ([]string, error)
	CreateDispatch(ctx context.Context, dispatch *models.Dispatch) error
	UpdateDispatchProgress(ctx context.Context, id string, sent, failed int, status models.DispatchStatus, finishedAt *time.Time) error
	GetDispatch(ctx context.Context, id string) (*models.Dispatch, error)
}

type pushSender interface {
	Send(ctx context.Context, msg push.Message) (push.Result, error)
}

type batchDispatcher interface {
	Enqueue(job jobs.Job) error
}

// PushBatch is the queue payload for one token batch of a dispatch.
type PushBatch struct {
	DispatchID string
	Message    push.Message
}

// NotificationService fans bulk push requests out into token batches and
// tracks per-dispatch progress.
type NotificationService struct {
	tokens     tokenStore
	client     pushSender
	queue      batchDispatcher
	logger     *zap.Logger
	batchSize  int
	maxRetries int

	mu        sync.Mutex
	remaining map[string]int
}

// NewNotificationService constructs the service. maxRetries must match the
// push queue's retry budget so the last delivered attempt settles the batch.
func NewNotificationService(tokens tokenStore, client pushSender, queue batchDispatcher, batchSize, maxRetries int, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &NotificationService{
		tokens:     tokens,
		client:     client,
		queue:      queue,
		logger:     logger,
		batchSize:  batchSize,
		maxRetries: maxRetries,
		remaining:  make(map[string]int),
	}
}

// Dispatch resolves the recipient tokens, records the dispatch and enqueues
// one job per token batch.
func (s *NotificationService) Dispatch(ctx context.Context, req dto.PushRequest, actorID string) (*dto.DispatchResponse, error) {
	tokens, err := s.tokens.ActiveTokens(ctx, req.SchoolCode, req.ClassCode, req.StudentCodes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve device tokens")
	}
	if len(tokens) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no active device tokens match the recipients")
	}

	dispatch := &models.Dispatch{
		SchoolCode: req.SchoolCode,
		Title:      req.Title,
		Body:       req.Body,
		TokenCount: len(tokens),
		CreatedBy:  actorID,
	}
	if req.ClassCode != "" {
		classCode := req.ClassCode
		dispatch.ClassCode = &classCode
	}
	if err := s.tokens.CreateDispatch(ctx, dispatch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record dispatch")
	}

	batches := chunkTokens(tokens, s.batchSize)
	s.mu.Lock()
	s.remaining[dispatch.ID] = len(batches)
	s.mu.Unlock()

	for i, batch := range batches {
		job := jobs.Job{
			ID:   fmt.Sprintf("%s-%d", dispatch.ID, i+1),
			Type: "push_batch",
			Payload: PushBatch{
				DispatchID: dispatch.ID,
				Message: push.Message{
					Tokens: batch,
					Title:  req.Title,
					Body:   req.Body,
					Data:   req.Data,
				},
			},
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Sugar().Errorw("failed to enqueue push batch", "dispatch_id", dispatch.ID, "batch", i+1, "error", err)
			s.batchDone(ctx, dispatch.ID, 0, len(batch))
		}
	}

	return &dto.DispatchResponse{
		ID:         dispatch.ID,
		Status:     dispatch.Status,
		TokenCount: len(tokens),
		Batches:    len(batches),
	}, nil
}

// HandleBatch is the queue handler: it delivers one batch and records the
// outcome. Returning an error lets the queue retry the batch.
func (s *NotificationService) HandleBatch(ctx context.Context, job jobs.Job) error {
	batch, ok := job.Payload.(PushBatch)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	result, err := s.client.Send(ctx, batch.Message)
	if err != nil {
		// The queue stops redelivering once Attempt reaches its budget, so
		// this is the last attempt we will see: settle the batch as failed.
		if job.Attempt >= s.maxRetries {
			s.batchDone(ctx, batch.DispatchID, 0, len(batch.Message.Tokens))
			return nil
		}
		return err
	}
	s.batchDone(ctx, batch.DispatchID, result.Sent, result.Failed)
	return nil
}

// batchDone records one finished batch and closes the dispatch when it was
// the last one.
func (s *NotificationService) batchDone(ctx context.Context, dispatchID string, sent, failed int) {
	s.mu.Lock()
	s.remaining[dispatchID]--
	last := s.remaining[dispatchID] <= 0
	if last {
		delete(s.remaining, dispatchID)
	}
	s.mu.Unlock()

	status := models.DispatchStatusSending
	var finishedAt *time.Time
	if last {
		status = models.DispatchStatusFinished
		now := time.Now().UTC()
		finishedAt = &now
	}
	if err := s.tokens.UpdateDispatchProgress(ctx, dispatchID, sent, failed, status, finishedAt); err != nil {
		s.logger.Sugar().Warnw("failed to update dispatch progress", "dispatch_id", dispatchID, "error", err)
	}
}

// Status returns the dispatch summary.
func (s *NotificationService) Status(ctx context.Context, id string) (*models.Dispatch, error) {
	dispatch, err := s.tokens.GetDispatch(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "dispatch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dispatch")
	}
	return dispatch, nil
}

func chunkTokens(tokens []string, size int) [][]string {
	if size <= 0 {
		return [][]string{tokens}
	}
	var batches [][]string
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		batches = append(batches, tokens[start:end])
	}
	return batches
}
