package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/pkg/lock"
)

type fakeCandidates struct {
	items []*models.DeadlineCandidate
	err   error
}

func (f *fakeCandidates) ListDeadlineCandidates(context.Context) ([]*models.DeadlineCandidate, error) {
	return f.items, f.err
}

// memNotifications emulates the unique deadline index of the notifications table
type memNotifications struct {
	mu        sync.Mutex
	rows      []*models.Notification
	existsErr map[int64]error
	panicOn   map[int64]bool
	skipCheck bool
}

func newMemNotifications() *memNotifications {
	return &memNotifications{existsErr: map[int64]error{}, panicOn: map[int64]bool{}}
}

func dedupKey(userID, refID int64, deadline string) string {
	return fmt.Sprintf("%d/%d/%s", userID, refID, deadline)
}

func (m *memNotifications) ExistsDeadlineNotification(_ context.Context, userID, savedID int64, deadline time.Time) (bool, error) {
	if m.panicOn[savedID] {
		panic("corrupt record")
	}
	if err := m.existsErr[savedID]; err != nil {
		return false, err
	}
	if m.skipCheck {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	want := dedupKey(userID, savedID, models.DeadlineKey(deadline))
	for _, n := range m.rows {
		if dedupKey(n.UserID, *n.ReferenceID, n.Metadata["deadline"].(string)) == want {
			return true, nil
		}
	}
	return false, nil
}

func (m *memNotifications) CreateDeadlineNotification(_ context.Context, n *models.Notification) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dedupKey(n.UserID, *n.ReferenceID, n.Metadata["deadline"].(string))
	for _, existing := range m.rows {
		if dedupKey(existing.UserID, *existing.ReferenceID, existing.Metadata["deadline"].(string)) == key {
			return false, nil
		}
	}
	n.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, n)
	return true, nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

type fakeLocker struct {
	held     bool
	released int
}

func (f *fakeLocker) Acquire(context.Context, string, time.Duration) (func(context.Context) error, error) {
	if f.held {
		return nil, lock.ErrNotAcquired
	}
	f.held = true
	return func(context.Context) error {
		f.held = false
		f.released++
		return nil
	}, nil
}

var sweepNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func candidate(id int64, deadline time.Time, leadTime *int) *models.DeadlineCandidate {
	return &models.DeadlineCandidate{
		SavedScholarshipID: id,
		StudentID:          100 + id,
		ScholarshipID:      200 + id,
		ScholarshipTitle:   fmt.Sprintf("Scholarship %d", id),
		Deadline:           deadline,
		ReminderLeadTime:   leadTime,
		Email:              fmt.Sprintf("student%d@example.com", id),
		FirstName:          "Abebe",
	}
}

func intPtr(v int) *int { return &v }

func newReminder(c *fakeCandidates, n *memNotifications, m *fakeMailer, opts ...DeadlineReminderOption) *DeadlineReminder {
	opts = append([]DeadlineReminderOption{WithClock(func() time.Time { return sweepNow })}, opts...)
	return NewDeadlineReminder(c, n, m, zerolog.Nop(), opts...)
}

func TestRunSweep_NotifiesOnceWithinLeadTime(t *testing.T) {
	c := &fakeCandidates{items: []*models.DeadlineCandidate{candidate(1, sweepNow.Add(72*time.Hour), intPtr(7))}}
	store := newMemNotifications()
	mailer := &fakeMailer{}
	r := newReminder(c, store, mailer)

	first, err := r.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Notified)
	require.Len(t, store.rows, 1)

	n := store.rows[0]
	assert.Equal(t, int64(101), n.UserID)
	assert.Equal(t, models.NotificationDeadline, n.Category)
	assert.Equal(t, "Scholarship Deadline Approaching", n.Title)
	assert.Equal(t, `Your saved scholarship "Scholarship 1" deadline is in 3 day(s).`, n.Message)
	assert.Equal(t, int64(1), *n.ReferenceID)
	assert.Equal(t, int64(201), n.Metadata["scholarshipId"])
	assert.Equal(t, 3, n.Metadata["daysLeft"])
	assert.Equal(t, models.DeadlineKey(sweepNow.Add(72*time.Hour)), n.Metadata["deadline"])

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "student1@example.com", mailer.sent[0].to)
	assert.Equal(t, "Scholarship Deadline Reminder", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "(in 3 days)")

	second, err := r.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Notified)
	assert.Equal(t, 1, second.AlreadySent)
	assert.Len(t, store.rows, 1)
	assert.Len(t, mailer.sent, 1)
}

func TestRunSweep_OutsideWindow(t *testing.T) {
	c := &fakeCandidates{items: []*models.DeadlineCandidate{
		candidate(1, sweepNow.Add(10*24*time.Hour), intPtr(7)),
		candidate(2, sweepNow.Add(-2*time.Hour), intPtr(7)),
		candidate(3, sweepNow.Add(-3*24*time.Hour), nil),
		candidate(4, sweepNow, intPtr(7)),
	}}
	store := newMemNotifications()
	mailer := &fakeMailer{}

	result, err := newReminder(c, store, mailer).RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.OutOfWindow)
	assert.Empty(t, store.rows)
	assert.Empty(t, mailer.sent)
}

func TestRunSweep_PartialDayCountsAsOneDay(t *testing.T) {
	c := &fakeCandidates{items: []*models.DeadlineCandidate{
		candidate(1, sweepNow.Add(23*time.Hour+59*time.Minute), intPtr(1)),
	}}
	store := newMemNotifications()

	result, err := newReminder(c, store, &fakeMailer{}).RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Notified)
	assert.Equal(t, 1, store.rows[0].Metadata["daysLeft"])
}

func TestRunSweep_LeadTimeDefaults(t *testing.T) {
	tests := []struct {
		name     string
		leadTime *int
		days     int
		notified int
	}{
		{"unset uses seven", nil, 7, 1},
		{"zero uses seven", intPtr(0), 7, 1},
		{"unset beyond seven", nil, 8, 0},
		{"explicit three", intPtr(3), 4, 0},
		{"explicit fourteen", intPtr(14), 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeCandidates{items: []*models.DeadlineCandidate{
				candidate(1, sweepNow.Add(time.Duration(tt.days)*24*time.Hour), tt.leadTime),
			}}
			result, err := newReminder(c, newMemNotifications(), &fakeMailer{}).RunSweep(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.notified, result.Notified)
		})
	}
}

func TestRunSweep_NewDeadlineValueNotifiesAgain(t *testing.T) {
	item := candidate(1, sweepNow.Add(48*time.Hour), nil)
	c := &fakeCandidates{items: []*models.DeadlineCandidate{item}}
	store := newMemNotifications()
	r := newReminder(c, store, &fakeMailer{})

	_, err := r.RunSweep(context.Background())
	require.NoError(t, err)

	item.Deadline = sweepNow.Add(96 * time.Hour)
	result, err := r.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Notified)
	assert.Len(t, store.rows, 2)
}

func TestRunSweep_EmailFailureKeepsNotification(t *testing.T) {
	c := &fakeCandidates{items: []*models.DeadlineCandidate{
		candidate(1, sweepNow.Add(24*time.Hour), nil),
		candidate(2, sweepNow.Add(48*time.Hour), nil),
	}}
	store := newMemNotifications()
	mailer := &fakeMailer{err: errors.New("smtp down")}

	result, err := newReminder(c, store, mailer).RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Notified)
	assert.Equal(t, 2, result.EmailFailed)
	assert.Len(t, store.rows, 2)

	// no retry on the next run
	mailer.err = nil
	result, err = newReminder(c, store, mailer).RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.AlreadySent)
	assert.Empty(t, mailer.sent)
}

func TestRunSweep_RecordFailuresAreIsolated(t *testing.T) {
	c := &fakeCandidates{items: []*models.DeadlineCandidate{
		candidate(1, sweepNow.Add(24*time.Hour), nil),
		candidate(2, sweepNow.Add(24*time.Hour), nil),
		candidate(3, sweepNow.Add(24*time.Hour), nil),
	}}
	store := newMemNotifications()
	store.existsErr[1] = errors.New("connection reset")
	store.panicOn[2] = true
	mailer := &fakeMailer{}

	result, err := newReminder(c, store, mailer).RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 1, result.Notified)
	require.Len(t, store.rows, 1)
	assert.Equal(t, int64(3), *store.rows[0].ReferenceID)
	assert.Len(t, mailer.sent, 1)
}

func TestRunSweep_ListFailure(t *testing.T) {
	c := &fakeCandidates{err: errors.New("db unavailable")}
	_, err := newReminder(c, newMemNotifications(), &fakeMailer{}).RunSweep(context.Background())
	assert.Error(t, err)
}

func TestRunSweep_ConditionalInsertStopsDuplicateEmail(t *testing.T) {
	// Both sweeps pass the existence check before either writes.
	c := &fakeCandidates{items: []*models.DeadlineCandidate{candidate(1, sweepNow.Add(24*time.Hour), nil)}}
	store := newMemNotifications()
	store.skipCheck = true
	mailer := &fakeMailer{}

	r := newReminder(c, store, mailer)
	_, err := r.RunSweep(context.Background())
	require.NoError(t, err)
	result, err := r.RunSweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.AlreadySent)
	assert.Len(t, store.rows, 1)
	assert.Len(t, mailer.sent, 1)
}

func TestRunSweep_LeaseHeldSkips(t *testing.T) {
	c := &fakeCandidates{items: []*models.DeadlineCandidate{candidate(1, sweepNow.Add(24*time.Hour), nil)}}
	store := newMemNotifications()
	locker := &fakeLocker{held: true}

	result, err := newReminder(c, store, &fakeMailer{}, WithLocker(locker, time.Minute)).RunSweep(context.Background())
	require.NoError(t, err)
	assert.True(t, result.LeaseHeld)
	assert.Empty(t, store.rows)

	locker.held = false
	result, err = newReminder(c, store, &fakeMailer{}, WithLocker(locker, time.Minute)).RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Notified)
	assert.Equal(t, 1, locker.released)
	assert.False(t, locker.held)
}

func TestRunSweep_StopsOnCancelledContext(t *testing.T) {
	c := &fakeCandidates{items: []*models.DeadlineCandidate{candidate(1, sweepNow.Add(24*time.Hour), nil)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newReminder(c, newMemNotifications(), &fakeMailer{}).RunSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
}

type recordingPublisher struct {
	published []*models.Notification
}

func (p *recordingPublisher) Publish(n *models.Notification) {
	p.published = append(p.published, n)
}

func TestRunSweep_PublishesCreatedNotifications(t *testing.T) {
	c := &fakeCandidates{items: []*models.DeadlineCandidate{
		candidate(1, sweepNow.Add(24*time.Hour), nil),
		candidate(2, sweepNow.Add(30*24*time.Hour), nil),
	}}
	store := newMemNotifications()
	pub := &recordingPublisher{}
	r := newReminder(c, store, &fakeMailer{}, WithPublisher(pub))

	_, err := r.RunSweep(context.Background())
	require.NoError(t, err)
	require.Len(t, pub.published, 1)
	assert.Equal(t, int64(1), pub.published[0].ID)
	assert.Equal(t, int64(101), pub.published[0].UserID)

	// already sent, nothing new to push
	_, err = r.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Len(t, pub.published, 1)
}
