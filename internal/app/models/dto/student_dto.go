package dto

import (
	"time"

	"github.com/yigit/scholarpath/internal/app/models"
)

// AcademicRecordRequest is one academic history entry
type AcademicRecordRequest struct {
	Level          string   `json:"level" binding:"required,oneof=highschool bachelor master phd"`
	Institution    string   `json:"institution" binding:"required"`
	Degree         *string  `json:"degree"`
	FieldOfStudy   *string  `json:"fieldOfStudy"`
	GPA            *float64 `json:"gpa" binding:"omitempty,gte=0,lte=4"`
	RawGrade       *string  `json:"rawGrade"`
	GraduationYear *int     `json:"graduationYear" binding:"omitempty,gte=1950,lte=2100"`
}

// StudyPreferenceRequest is one study preference
type StudyPreferenceRequest struct {
	Country      string             `json:"country" binding:"required"`
	FieldOfStudy string             `json:"fieldOfStudy" binding:"required"`
	DegreeLevel  models.DegreeLevel `json:"degreeLevel" binding:"required,degreelevel"`
}

// UpdateProfileRequest upserts the student profile
type UpdateProfileRequest struct {
	FirstName               *string                   `json:"firstName" binding:"omitempty,min=1"`
	LastName                *string                   `json:"lastName" binding:"omitempty,min=1"`
	Nationality             *string                   `json:"nationality"`
	CurrentLocation         *string                   `json:"currentLocation"`
	DateOfBirth             *time.Time                `json:"dateOfBirth"`
	Phone                   *string                   `json:"phone"`
	AcademicHistory         []AcademicRecordRequest   `json:"academicHistory" binding:"omitempty,dive"`
	StudyPreferences        []StudyPreferenceRequest  `json:"studyPreferences" binding:"omitempty,dive"`
	FundingNeed             *bool                     `json:"fundingNeed"`
	EnglishProficiencyLevel *string                   `json:"englishProficiencyLevel" binding:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	StandardizedTests       *models.StandardizedTests `json:"standardizedTests"`
}

// OCRExtractRequest carries raw text recognised from a document
type OCRExtractRequest struct {
	Text string `json:"text" binding:"required"`
}

// OCRExtractResponse holds the fields found in the text
type OCRExtractResponse struct {
	Fields map[string]string `json:"fields"`
}
