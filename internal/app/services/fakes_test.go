package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/app/repositories"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
)

func ptr[T any](v T) *T { return &v }

var nopLogger = zerolog.Nop()

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]*models.User{}}
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) with(id int64, fn func(u *models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	fn(u)
	return nil
}

func (m *memUsers) UpdateLastLogin(_ context.Context, id int64) error {
	return m.with(id, func(u *models.User) { now := time.Now(); u.LastLoginAt = &now })
}

func (m *memUsers) UpdateNames(_ context.Context, id int64, first, last string) error {
	return m.with(id, func(u *models.User) { u.FirstName, u.LastName = first, last })
}

func (m *memUsers) SetEmailVerified(_ context.Context, id int64) error {
	return m.with(id, func(u *models.User) { u.EmailVerified = true })
}

func (m *memUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	return m.with(id, func(u *models.User) { u.Password = hash })
}

type memProfiles struct {
	mu       sync.Mutex
	byUserID map[int64]*models.StudentProfile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{byUserID: map[int64]*models.StudentProfile{}}
}

func (m *memProfiles) GetByUserID(_ context.Context, userID int64) (*models.StudentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byUserID[userID]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) CreateEmpty(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUserID[userID]; !ok {
		m.byUserID[userID] = &models.StudentProfile{ID: userID, UserID: userID}
	}
	return nil
}

func (m *memProfiles) Upsert(_ context.Context, p *models.StudentProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	cp.User = nil
	m.byUserID[p.UserID] = &cp
	return nil
}

type memScholarships struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Scholarship
}

func newMemScholarships(list ...*models.Scholarship) *memScholarships {
	m := &memScholarships{byID: map[int64]*models.Scholarship{}}
	for _, s := range list {
		m.nextID++
		if s.ID == 0 {
			s.ID = m.nextID
		}
		m.byID[s.ID] = s
	}
	return m
}

func (m *memScholarships) sorted() []*models.Scholarship {
	out := make([]*models.Scholarship, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	return out
}

func (m *memScholarships) matching(f models.ScholarshipFilter) []*models.Scholarship {
	var out []*models.Scholarship
	for _, s := range m.sorted() {
		if f.Country != "" && s.Country != f.Country {
			continue
		}
		if f.FundingType != "" && s.FundingType != f.FundingType {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (m *memScholarships) List(_ context.Context, f models.ScholarshipFilter, offset, limit uint64) ([]*models.Scholarship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.matching(f)
	if offset >= uint64(len(all)) {
		return []*models.Scholarship{}, nil
	}
	end := offset + limit
	if end > uint64(len(all)) {
		end = uint64(len(all))
	}
	return all[offset:end], nil
}

func (m *memScholarships) ListAll(_ context.Context) ([]*models.Scholarship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

func (m *memScholarships) Count(_ context.Context, f models.ScholarshipFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.matching(f))), nil
}

func (m *memScholarships) GetByID(_ context.Context, id int64) (*models.Scholarship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrScholarshipNotFound
	}
	return s, nil
}

func (m *memScholarships) IncrementViews(_ context.Context, id int64) (*models.Scholarship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrScholarshipNotFound
	}
	s.Views++
	return s, nil
}

func (m *memScholarships) Create(_ context.Context, s *models.Scholarship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	m.byID[s.ID] = s
	return nil
}

func (m *memScholarships) Update(_ context.Context, s *models.Scholarship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[s.ID]; !ok {
		return apperrors.ErrScholarshipNotFound
	}
	m.byID[s.ID] = s
	return nil
}

func (m *memScholarships) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return apperrors.ErrScholarshipNotFound
	}
	delete(m.byID, id)
	return nil
}

type memSaved struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.SavedScholarship
}

func newMemSaved() *memSaved {
	return &memSaved{byID: map[int64]*models.SavedScholarship{}}
}

func (m *memSaved) Create(_ context.Context, s *models.SavedScholarship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.StudentID == s.StudentID && existing.ScholarshipID == s.ScholarshipID {
			return apperrors.ErrAlreadySaved
		}
	}
	m.nextID++
	s.ID = m.nextID
	s.SavedAt = time.Now().Add(time.Duration(m.nextID) * time.Millisecond)
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memSaved) DeleteByScholarship(_ context.Context, studentID, scholarshipID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.byID {
		if s.StudentID == studentID && s.ScholarshipID == scholarshipID {
			delete(m.byID, id)
			return nil
		}
	}
	return apperrors.ErrSavedScholarshipNotFound
}

func (m *memSaved) ListByStudent(_ context.Context, studentID int64) ([]*models.SavedScholarship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.SavedScholarship
	for _, s := range m.byID {
		if s.StudentID == studentID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

func (m *memSaved) GetForStudent(_ context.Context, id, studentID int64) (*models.SavedScholarship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || s.StudentID != studentID {
		return nil, apperrors.ErrSavedScholarshipNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSaved) UpdateTracking(_ context.Context, s *models.SavedScholarship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[s.ID]
	if !ok || stored.StudentID != s.StudentID {
		return apperrors.ErrSavedScholarshipNotFound
	}
	stored.TrackingStatus = s.TrackingStatus
	stored.UserSetDeadline = s.UserSetDeadline
	stored.ReminderLeadTime = s.ReminderLeadTime
	stored.AppliedDate = s.AppliedDate
	return nil
}

func (m *memSaved) MutateMilestones(_ context.Context, id, studentID int64, fn repositories.MilestoneMutation) ([]models.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || s.StudentID != studentID {
		return nil, apperrors.ErrSavedScholarshipNotFound
	}
	working := append([]models.Milestone(nil), s.Milestones...)
	updated, err := fn(working)
	if err != nil {
		return nil, err
	}
	s.Milestones = updated
	return updated, nil
}

type memNotifications struct {
	list []*models.Notification
}

func (m *memNotifications) ListLatest(_ context.Context, userID int64, limit uint64) ([]*models.Notification, error) {
	var out []*models.Notification
	for i := len(m.list) - 1; i >= 0 && uint64(len(out)) < limit; i-- {
		if m.list[i].UserID == userID {
			out = append(out, m.list[i])
		}
	}
	return out, nil
}

func (m *memNotifications) CountUnread(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, x := range m.list {
		if x.UserID == userID && !x.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id, userID int64) error {
	for _, x := range m.list {
		if x.ID == id && x.UserID == userID {
			x.IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotificationNotFound
}

func (m *memNotifications) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, x := range m.list {
		if x.UserID == userID && !x.IsRead {
			x.IsRead = true
			n++
		}
	}
	return n, nil
}

type sentMail struct {
	kind, to, token string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.sent = append(f.sent, sentMail{kind: "raw", to: to})
	return f.err
}

func (f *fakeMailer) SendVerificationEmail(to, name, token string) error {
	f.sent = append(f.sent, sentMail{kind: "verify", to: to, token: token})
	return f.err
}

func (f *fakeMailer) SendPasswordResetEmail(to, name, token string) error {
	f.sent = append(f.sent, sentMail{kind: "reset", to: to, token: token})
	return f.err
}
