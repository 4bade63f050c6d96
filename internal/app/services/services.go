package services

import (
	"context"

	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/app/repositories"
)

// Services defined in this package:
// - AuthService: registration, login, email verification and password reset
// - StudentService: student profile and OCR field extraction
// - ScholarshipService: public browsing with ranking, admin CRUD
// - SavedScholarshipService: tracking, milestones and checklists
// - NotificationService: in-app notification inbox
// - DocumentService: student document uploads

// UserStore is the user persistence used by the services
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	UpdateNames(ctx context.Context, userID int64, firstName, lastName string) error
	SetEmailVerified(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// ProfileStore is the student profile persistence used by the services
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error)
	CreateEmpty(ctx context.Context, userID int64) error
	Upsert(ctx context.Context, profile *models.StudentProfile) error
}

// ScholarshipStore is the scholarship persistence used by the services
type ScholarshipStore interface {
	List(ctx context.Context, filter models.ScholarshipFilter, offset, limit uint64) ([]*models.Scholarship, error)
	ListAll(ctx context.Context) ([]*models.Scholarship, error)
	Count(ctx context.Context, filter models.ScholarshipFilter) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Scholarship, error)
	IncrementViews(ctx context.Context, id int64) (*models.Scholarship, error)
	Create(ctx context.Context, s *models.Scholarship) error
	Update(ctx context.Context, s *models.Scholarship) error
	Delete(ctx context.Context, id int64) error
}

// SavedScholarshipStore is the tracked scholarship persistence used by the services
type SavedScholarshipStore interface {
	Create(ctx context.Context, s *models.SavedScholarship) error
	DeleteByScholarship(ctx context.Context, studentID, scholarshipID int64) error
	ListByStudent(ctx context.Context, studentID int64) ([]*models.SavedScholarship, error)
	GetForStudent(ctx context.Context, id, studentID int64) (*models.SavedScholarship, error)
	UpdateTracking(ctx context.Context, s *models.SavedScholarship) error
	MutateMilestones(ctx context.Context, id, studentID int64, fn repositories.MilestoneMutation) ([]models.Milestone, error)
}

// NotificationStore is the notification persistence used by the services
type NotificationStore interface {
	ListLatest(ctx context.Context, userID int64, limit uint64) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// DocumentStore is the document metadata persistence used by the services
type DocumentStore interface {
	Create(ctx context.Context, d *models.Document) error
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Document, error)
	GetForStudent(ctx context.Context, id, studentID int64) (*models.Document, error)
	DeleteForStudent(ctx context.Context, id, studentID int64) (*models.Document, error)
}

// Services bundles every service built by bootstrap
type Services struct {
	Auth             *AuthService
	Student          *StudentService
	Scholarship      *ScholarshipService
	SavedScholarship *SavedScholarshipService
	Notification     *NotificationService
	Document         *DocumentService
}
