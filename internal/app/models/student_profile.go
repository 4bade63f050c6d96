package models

import (
	"math"
	"strings"
	"time"
)

// AcademicRecord is one entry of a student's academic history
type AcademicRecord struct {
	Level          string   `json:"level" example:"bachelor"` // highschool, bachelor, master or phd
	Institution    string   `json:"institution" example:"Addis Ababa University"`
	Degree         *string  `json:"degree,omitempty"`
	FieldOfStudy   *string  `json:"fieldOfStudy,omitempty"`
	GPA            *float64 `json:"gpa,omitempty" example:"3.6"`
	RawGrade       *string  `json:"rawGrade,omitempty"`
	GraduationYear *int     `json:"graduationYear,omitempty"`
}

// StudyPreference is a country, field and degree level a student wants to study
type StudyPreference struct {
	Country      string      `json:"country" example:"Germany"`
	FieldOfStudy string      `json:"fieldOfStudy" example:"Computer Science"`
	DegreeLevel  DegreeLevel `json:"degreeLevel" example:"master"`
}

// IELTSScore holds IELTS bands
type IELTSScore struct {
	Overall   *float64   `json:"overall,omitempty" example:"7"`
	Listening *float64   `json:"listening,omitempty"`
	Reading   *float64   `json:"reading,omitempty"`
	Writing   *float64   `json:"writing,omitempty"`
	Speaking  *float64   `json:"speaking,omitempty"`
	TestDate  *time.Time `json:"testDate,omitempty"`
}

// TOEFLScore holds TOEFL section scores
type TOEFLScore struct {
	Total     *float64   `json:"total,omitempty" example:"100"`
	Reading   *float64   `json:"reading,omitempty"`
	Listening *float64   `json:"listening,omitempty"`
	Speaking  *float64   `json:"speaking,omitempty"`
	Writing   *float64   `json:"writing,omitempty"`
	TestDate  *time.Time `json:"testDate,omitempty"`
}

// GREScore holds GRE section scores
type GREScore struct {
	Verbal   *float64   `json:"verbal,omitempty"`
	Quant    *float64   `json:"quant,omitempty"`
	AWA      *float64   `json:"awa,omitempty"`
	TestDate *time.Time `json:"testDate,omitempty"`
}

// StandardizedTests groups the optional test results of a student
type StandardizedTests struct {
	IELTS *IELTSScore `json:"ielts,omitempty"`
	TOEFL *TOEFLScore `json:"toefl,omitempty"`
	GRE   *GREScore   `json:"gre,omitempty"`
}

// StudentProfile defines the student profile model based on the 'student_profiles' table
type StudentProfile struct {
	ID                      int64             `json:"id" db:"id" example:"1"`
	UserID                  int64             `json:"userId" db:"user_id" example:"5"`
	Nationality             *string           `json:"nationality,omitempty" db:"nationality" example:"Ethiopian"`
	CurrentLocation         *string           `json:"currentLocation,omitempty" db:"current_location"`
	DateOfBirth             *time.Time        `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Phone                   *string           `json:"phone,omitempty" db:"phone"`
	AcademicHistory         []AcademicRecord  `json:"academicHistory" db:"academic_history"`
	StudyPreferences        []StudyPreference `json:"studyPreferences" db:"study_preferences"`
	FundingNeed             bool              `json:"fundingNeed" db:"funding_need"`
	EnglishProficiencyLevel *string           `json:"englishProficiencyLevel,omitempty" db:"english_proficiency_level" example:"C1"`
	StandardizedTests       StandardizedTests `json:"standardizedTests" db:"standardized_tests"`
	ProfileCompletion       int               `json:"profileCompletionPercentage" db:"profile_completion" example:"64"`
	CreatedAt               time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt               time.Time         `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	User *User `json:"user,omitempty"`
}

// FirstGPA returns the GPA of the first academic history entry that carries one.
func (p *StudentProfile) FirstGPA() *float64 {
	for _, rec := range p.AcademicHistory {
		if rec.GPA != nil {
			return rec.GPA
		}
	}
	return nil
}

// IELTSOverall returns the overall IELTS band, if recorded.
func (p *StudentProfile) IELTSOverall() *float64 {
	if p.StandardizedTests.IELTS == nil {
		return nil
	}
	return p.StandardizedTests.IELTS.Overall
}

// TOEFLTotal returns the total TOEFL score, if recorded.
func (p *StudentProfile) TOEFLTotal() *float64 {
	if p.StandardizedTests.TOEFL == nil {
		return nil
	}
	return p.StandardizedTests.TOEFL.Total
}

const trackedProfileFields = 11

// CompletionPercentage computes how much of the profile is filled in, rounded to a whole percent.
func (p *StudentProfile) CompletionPercentage() int {
	filled := 0
	for _, ok := range []bool{
		nonEmpty(p.Nationality),
		nonEmpty(p.CurrentLocation),
		p.DateOfBirth != nil,
		nonEmpty(p.Phone),
		len(p.AcademicHistory) > 0,
		len(p.StudyPreferences) > 0,
		p.FundingNeed,
		nonEmpty(p.EnglishProficiencyLevel),
		p.StandardizedTests.IELTS != nil,
		p.StandardizedTests.TOEFL != nil,
		p.StandardizedTests.GRE != nil,
	} {
		if ok {
			filled++
		}
	}
	return int(math.Round(float64(filled) / trackedProfileFields * 100))
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
