package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository             *UserRepository
	StudentProfileRepository   *StudentProfileRepository
	ScholarshipRepository      *ScholarshipRepository
	SavedScholarshipRepository *SavedScholarshipRepository
	NotificationRepository     *NotificationRepository
	DocumentRepository         *DocumentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:             NewUserRepository(db),
		StudentProfileRepository:   NewStudentProfileRepository(db),
		ScholarshipRepository:      NewScholarshipRepository(db),
		SavedScholarshipRepository: NewSavedScholarshipRepository(db),
		NotificationRepository:     NewNotificationRepository(db),
		DocumentRepository:         NewDocumentRepository(db),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// toJSONB marshals v for a JSONB column; nil slices become empty arrays
func toJSONB(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode jsonb value: %w", err)
	}
	if string(b) == "null" {
		return []byte("[]"), nil
	}
	return b, nil
}
