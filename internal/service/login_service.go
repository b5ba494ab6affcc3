package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmissionRecorder persists accepted submissions.
type SubmissionRecorder interface {
	RecordLoginSubmission(ctx context.Context, submission *models.LoginSubmission) error
}

// LoginPublisher announces accepted submissions.
type LoginPublisher interface {
	PublishLoginSubmitted(ctx context.Context, event *models.LoginSubmittedEvent) error
}

// LoginService is the side effect run when the login form validates. Both
// collaborators are optional.
type LoginService struct {
	recorder  SubmissionRecorder
	publisher LoginPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewLoginService creates a login service; nil collaborators are skipped.
func NewLoginService(recorder SubmissionRecorder, publisher LoginPublisher) *LoginService {
	return &LoginService{
		recorder:  recorder,
		publisher: publisher,
		logger:    util.GetLogger(),
		now:       time.Now,
	}
}

// SubmitLogin records and announces an accepted login. The password never
// leaves the form.
func (s *LoginService) SubmitLogin(ctx context.Context, email string) (*models.LoginSubmission, error) {
	ctx, span := util.StartSpan(ctx, "LoginService.SubmitLogin")
	defer span.End()

	submission := &models.LoginSubmission{
		ID:          uuid.New().String(),
		Email:       strings.TrimSpace(email),
		SubmittedAt: s.now().UTC(),
	}

	if s.recorder != nil {
		if err := s.recorder.RecordLoginSubmission(ctx, submission); err != nil {
			util.LoginSubmissionsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("failed to record login submission: %w", err)
		}
	}

	if s.publisher != nil {
		event := &models.LoginSubmittedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeLoginSubmitted,
				Timestamp: submission.SubmittedAt,
			},
			SubmissionID: submission.ID,
			Email:        submission.Email,
		}
		if err := s.publisher.PublishLoginSubmitted(ctx, event); err != nil {
			s.logger.Error("Failed to publish LoginSubmitted event", zap.Error(err))
		}
	}

	util.LoginSubmissionsTotal.WithLabelValues("accepted").Inc()
	s.logger.Info("Login submission accepted", zap.String("submission_id", submission.ID))
	return submission, nil
}
