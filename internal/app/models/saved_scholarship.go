package models

import (
	"time"
)

// DefaultReminderLeadTime is the number of days before a deadline at which reminders start
const DefaultReminderLeadTime = 7

// Milestone is a student-defined task on the way to an application
type Milestone struct {
	Title       string     `json:"title" example:"Request recommendation letters"`
	TargetDate  time.Time  `json:"targetDate"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ChecklistTask is an auto-generated document preparation step
type ChecklistTask struct {
	Name      string     `json:"name" example:"Prepare Transcript"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	Completed bool       `json:"completed"`
}

// SavedScholarship defines a student's tracked scholarship based on the 'saved_scholarships' table
type SavedScholarship struct {
	ID               int64           `json:"id" db:"id" example:"1"`
	StudentID        int64           `json:"studentId" db:"student_id" example:"5"`
	ScholarshipID    int64           `json:"scholarshipId" db:"scholarship_id" example:"3"`
	MatchScore       int             `json:"matchScore" db:"match_score" example:"85"` // Recorded at save time
	TrackingStatus   TrackingStatus  `json:"trackingStatus" db:"tracking_status" example:"saved"`
	SavedAt          time.Time       `json:"savedAt" db:"saved_at"`
	AppliedDate      *time.Time      `json:"appliedDate,omitempty" db:"applied_date"`
	UserSetDeadline  *time.Time      `json:"userSetDeadline,omitempty" db:"user_set_deadline"`
	ReminderLeadTime *int            `json:"reminderLeadTime,omitempty" db:"reminder_lead_time" example:"7"`
	Milestones       []Milestone     `json:"milestones" db:"milestones"`
	Checklist        []ChecklistTask `json:"checklist" db:"checklist"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Scholarship *Scholarship `json:"scholarship,omitempty"`
}

// EffectiveLeadTime returns the reminder lead time in days, falling back to the default when unset or zero.
func (s *SavedScholarship) EffectiveLeadTime() int {
	if s.ReminderLeadTime == nil || *s.ReminderLeadTime == 0 {
		return DefaultReminderLeadTime
	}
	return *s.ReminderLeadTime
}

// BuildChecklist derives the document checklist for a newly saved scholarship.
func BuildChecklist(requiredDocuments []string) []ChecklistTask {
	tasks := make([]ChecklistTask, 0, len(requiredDocuments)+1)
	for _, doc := range requiredDocuments {
		tasks = append(tasks, ChecklistTask{Name: "Prepare " + doc})
	}
	return append(tasks, ChecklistTask{Name: "Submit application"})
}

// DeadlineCandidate is a saved scholarship with a personal deadline, joined with what a reminder needs
type DeadlineCandidate struct {
	SavedScholarshipID int64
	StudentID          int64
	ScholarshipID      int64
	ScholarshipTitle   string
	Deadline           time.Time
	ReminderLeadTime   *int
	Email              string
	FirstName          string
}

// EffectiveLeadTime mirrors SavedScholarship.EffectiveLeadTime for sweep candidates.
func (c *DeadlineCandidate) EffectiveLeadTime() int {
	if c.ReminderLeadTime == nil || *c.ReminderLeadTime == 0 {
		return DefaultReminderLeadTime
	}
	return *c.ReminderLeadTime
}
