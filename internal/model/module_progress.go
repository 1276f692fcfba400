package model

import (
	"time"

	"gorm.io/datatypes"
)

// ModuleProgress 记录某次报名下单个模块的完成状态，(assignment_id, module_id) 唯一
// swagger:model ModuleProgress
type ModuleProgress struct {
	UUIDBase
	AssignmentID       string     `gorm:"type:varchar(36);uniqueIndex:idx_assignment_module;not null" json:"assignmentId"`
	ModuleID           string     `gorm:"type:varchar(64);uniqueIndex:idx_assignment_module;not null" json:"moduleId"`
	EmployeeID         string     `gorm:"type:varchar(64);index" json:"employeeId"`
	CourseID           string     `gorm:"type:varchar(36);index" json:"courseId"`
	ModuleType         ModuleType `gorm:"size:16" json:"moduleType"`
	Completed          bool       `gorm:"default:false" json:"completed"`
	ProgressPercentage int        `gorm:"default:0" json:"progressPercentage"`
	CompletedDate      *time.Time `json:"completedDate,omitempty"`
	QuizScore          *float64   `json:"quizScore,omitempty"`
	QuizPassed         *bool      `json:"quizPassed,omitempty"`
	QuizAttempts       int        `gorm:"default:0" json:"quizAttempts"`
}

func (ModuleProgress) TableName() string {
	return "module_progresses"
}

type QuizAnswers map[int]int

// QuizAttempt 每次测验提交的审计记录，只追加
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	AssignmentID  string                          `gorm:"type:varchar(36);index:idx_attempt_module;not null" json:"assignmentId"`
	ModuleID      string                          `gorm:"type:varchar(64);index:idx_attempt_module;not null" json:"moduleId"`
	AttemptNumber int                             `json:"attemptNumber"`
	Score         float64                         `json:"score"`
	CorrectCount  int                             `json:"correctCount"`
	QuestionCount int                             `json:"questionCount"`
	Passed        bool                            `json:"passed"`
	Answers       datatypes.JSONType[QuizAnswers] `json:"answers"`
	SubmittedAt   time.Time                       `json:"submittedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
