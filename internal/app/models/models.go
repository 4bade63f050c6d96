package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "student"
	RoleCounselor RoleType = "counselor"
	RoleAdmin     RoleType = "admin"
)

// DegreeLevel is the level of study a scholarship targets or a student prefers
type DegreeLevel string

const (
	DegreeUndergraduate DegreeLevel = "undergraduate"
	DegreeMaster        DegreeLevel = "master"
	DegreePhD           DegreeLevel = "phd"
	DegreePostdoc       DegreeLevel = "postdoc"
)

// Valid reports whether the degree level is one of the known values.
func (d DegreeLevel) Valid() bool {
	switch d {
	case DegreeUndergraduate, DegreeMaster, DegreePhD, DegreePostdoc:
		return true
	}
	return false
}

// FundingType describes how much of the study cost a scholarship covers
type FundingType string

const (
	FundingFull    FundingType = "full"
	FundingPartial FundingType = "partial"
	FundingOther   FundingType = "other"
)

// TrackingStatus is the progress state of a saved scholarship
type TrackingStatus string

const (
	TrackingSaved     TrackingStatus = "saved"
	TrackingPreparing TrackingStatus = "preparing"
	TrackingApplied   TrackingStatus = "applied"
	TrackingAwarded   TrackingStatus = "awarded"
	TrackingRejected  TrackingStatus = "rejected"
)

// NotificationCategory groups notifications by origin
type NotificationCategory string

const (
	NotificationScholarship NotificationCategory = "scholarship"
	NotificationDeadline    NotificationCategory = "deadline"
	NotificationSystem      NotificationCategory = "system"
)
