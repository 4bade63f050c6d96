// Package jobs holds background jobs and the scheduler that triggers them.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/pkg/email"
	"github.com/yigit/scholarpath/internal/pkg/helpers"
	"github.com/yigit/scholarpath/internal/pkg/lock"
)

const (
	deadlineNotificationTitle = "Scholarship Deadline Approaching"
	sweepLeaseKey             = "deadline-sweep"
)

// DeadlineCandidateSource lists saved scholarships that carry a personal deadline
type DeadlineCandidateSource interface {
	ListDeadlineCandidates(ctx context.Context) ([]*models.DeadlineCandidate, error)
}

// DeadlineNotificationStore reads and writes deadline notifications
type DeadlineNotificationStore interface {
	ExistsDeadlineNotification(ctx context.Context, userID, savedScholarshipID int64, deadline time.Time) (bool, error)
	// CreateDeadlineNotification inserts unless an identical deadline notification exists.
	// created is false when the insert lost to an existing row.
	CreateDeadlineNotification(ctx context.Context, n *models.Notification) (created bool, err error)
}

// NotificationPublisher pushes a stored notification to connected clients
type NotificationPublisher interface {
	Publish(n *models.Notification)
}

// SweepResult counts what a sweep did
type SweepResult struct {
	Scanned     int `json:"scanned"`
	Notified    int `json:"notified"`
	AlreadySent int `json:"alreadySent"`
	OutOfWindow int `json:"outOfWindow"`
	Failed      int `json:"failed"`
	EmailFailed int `json:"emailFailed"`
	// LeaseHeld is true when another process was already sweeping and this run did nothing
	LeaseHeld bool `json:"leaseHeld"`
}

// DeadlineReminder notifies students about approaching personal deadlines of saved scholarships
type DeadlineReminder struct {
	candidates    DeadlineCandidateSource
	notifications DeadlineNotificationStore
	mailer        email.Sender
	locker        lock.Locker
	publisher     NotificationPublisher
	leaseTTL      time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

// DeadlineReminderOption customises a DeadlineReminder
type DeadlineReminderOption func(*DeadlineReminder)

// WithLocker guards each sweep with a lease so concurrent processes do not overlap
func WithLocker(l lock.Locker, ttl time.Duration) DeadlineReminderOption {
	return func(r *DeadlineReminder) {
		r.locker = l
		r.leaseTTL = ttl
	}
}

// WithPublisher pushes every created notification through p
func WithPublisher(p NotificationPublisher) DeadlineReminderOption {
	return func(r *DeadlineReminder) { r.publisher = p }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) DeadlineReminderOption {
	return func(r *DeadlineReminder) { r.now = now }
}

// NewDeadlineReminder creates a DeadlineReminder
func NewDeadlineReminder(
	candidates DeadlineCandidateSource,
	notifications DeadlineNotificationStore,
	mailer email.Sender,
	logger zerolog.Logger,
	opts ...DeadlineReminderOption,
) *DeadlineReminder {
	r := &DeadlineReminder{
		candidates:    candidates,
		notifications: notifications,
		mailer:        mailer,
		leaseTTL:      10 * time.Minute,
		logger:        logger.With().Str("job", "deadline-reminder").Logger(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunSweep checks every saved scholarship with a personal deadline and sends at most one reminder
// per saved scholarship and deadline value. Failures of single records are logged and skipped;
// the returned error is only set when the sweep could not start.
func (r *DeadlineReminder) RunSweep(ctx context.Context) (result SweepResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("deadline sweep panicked: %v", rec)
			r.logger.Error().Err(err).Msg("Error in deadline check")
		}
	}()

	if r.locker != nil {
		release, lockErr := r.locker.Acquire(ctx, sweepLeaseKey, r.leaseTTL)
		if errors.Is(lockErr, lock.ErrNotAcquired) {
			r.logger.Info().Msg("Deadline sweep already running elsewhere, skipping")
			result.LeaseHeld = true
			return result, nil
		}
		if lockErr != nil {
			r.logger.Error().Err(lockErr).Msg("Failed to acquire deadline sweep lease")
			return result, lockErr
		}
		defer func() {
			if relErr := release(context.WithoutCancel(ctx)); relErr != nil {
				r.logger.Warn().Err(relErr).Msg("Failed to release deadline sweep lease")
			}
		}()
	}

	r.logger.Info().Msg("Checking for approaching scholarship deadlines")
	candidates, err := r.candidates.ListDeadlineCandidates(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Error in deadline check")
		return result, fmt.Errorf("list deadline candidates: %w", err)
	}

	now := r.now()
	for _, c := range candidates {
		if ctx.Err() != nil {
			r.logger.Warn().Int("remaining", len(candidates)-result.Scanned).Msg("Deadline sweep interrupted")
			break
		}
		result.Scanned++

		outcome, procErr := r.processCandidate(ctx, c, now)
		if procErr != nil {
			result.Failed++
			r.logger.Error().Err(procErr).
				Int64("savedScholarshipId", c.SavedScholarshipID).
				Msg("Failed to process saved scholarship deadline")
			continue
		}
		switch outcome {
		case outcomeNotified:
			result.Notified++
		case outcomeNotifiedEmailFailed:
			result.Notified++
			result.EmailFailed++
		case outcomeAlreadySent:
			result.AlreadySent++
		case outcomeOutOfWindow:
			result.OutOfWindow++
		}
	}

	r.logger.Info().
		Int("scanned", result.Scanned).
		Int("notified", result.Notified).
		Int("alreadySent", result.AlreadySent).
		Int("failed", result.Failed).
		Int("emailFailed", result.EmailFailed).
		Msg("Deadline sweep finished")
	return result, nil
}

type outcome int

const (
	outcomeOutOfWindow outcome = iota
	outcomeAlreadySent
	outcomeNotified
	outcomeNotifiedEmailFailed
)

func (r *DeadlineReminder) processCandidate(ctx context.Context, c *models.DeadlineCandidate, now time.Time) (out outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	daysLeft := helpers.DaysUntil(now, c.Deadline)
	if daysLeft <= 0 || daysLeft > c.EffectiveLeadTime() {
		return outcomeOutOfWindow, nil
	}

	exists, err := r.notifications.ExistsDeadlineNotification(ctx, c.StudentID, c.SavedScholarshipID, c.Deadline)
	if err != nil {
		return 0, fmt.Errorf("check existing notification: %w", err)
	}
	if exists {
		return outcomeAlreadySent, nil
	}

	// The existence check alone is a read-then-write race between concurrent sweeps;
	// the conditional insert below is what makes the reminder at-most-once.
	refID := c.SavedScholarshipID
	notification := &models.Notification{
		UserID:      c.StudentID,
		Category:    models.NotificationDeadline,
		Title:       deadlineNotificationTitle,
		Message:     fmt.Sprintf(`Your saved scholarship "%s" deadline is in %d day(s).`, c.ScholarshipTitle, daysLeft),
		ReferenceID: &refID,
		Metadata: map[string]interface{}{
			"scholarshipId": c.ScholarshipID,
			"deadline":      models.DeadlineKey(c.Deadline),
			"daysLeft":      daysLeft,
		},
	}
	created, err := r.notifications.CreateDeadlineNotification(ctx, notification)
	if err != nil {
		return 0, fmt.Errorf("create notification: %w", err)
	}
	if !created {
		return outcomeAlreadySent, nil
	}
	if r.publisher != nil {
		r.publisher.Publish(notification)
	}

	log := r.logger.With().
		Int64("savedScholarshipId", c.SavedScholarshipID).
		Int64("scholarshipId", c.ScholarshipID).
		Int("daysLeft", daysLeft).
		Logger()

	if c.Email == "" {
		log.Info().Msg("Deadline notification created, student has no email address")
		return outcomeNotified, nil
	}
	body := email.DeadlineReminderBody(c.FirstName, c.ScholarshipTitle, c.Deadline, daysLeft)
	if err := r.mailer.Send(c.Email, email.DeadlineReminderSubject, body); err != nil {
		log.Error().Err(err).Msg("Email send failed")
		return outcomeNotifiedEmailFailed, nil
	}

	log.Info().Msg("Deadline notification sent")
	return outcomeNotified, nil
}
