package model

import "time"

type AssignmentStatus string

const (
	AssignmentNotStarted AssignmentStatus = "not_started"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
)

// CourseAssignment 员工的一次课程报名
// swagger:model CourseAssignment
type CourseAssignment struct {
	UUIDBase
	EmployeeID         string           `gorm:"type:varchar(64);index;not null" json:"employeeId"`
	CourseID           string           `gorm:"type:varchar(36);index;not null" json:"courseId"`
	CourseTitle        string           `gorm:"size:255" json:"courseTitle"`
	AssignedBy         string           `gorm:"size:255" json:"assignedBy"`
	Status             AssignmentStatus `gorm:"size:20;default:'not_started'" json:"status"`
	ProgressPercentage int              `gorm:"default:0" json:"progressPercentage"`
	CurrentModuleID    *string          `gorm:"size:64" json:"currentModuleId,omitempty"`
	CertificateURL     *string          `gorm:"size:512" json:"certificateUrl,omitempty"`
	AssignedDate       time.Time        `json:"assignedDate"`
	CompletedDate      *time.Time       `json:"completedDate,omitempty"`
	DueDate            *time.Time       `json:"dueDate,omitempty"`
}

func (CourseAssignment) TableName() string {
	return "course_assignments"
}
