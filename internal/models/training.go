package models

// Workflow states shared by TrainingResult and UserTraining.
const (
	TrainingStatusNotStarted = "Not Started"
	TrainingStatusInProgress = "In Progress"
	TrainingStatusCompleted  = "Completed"
)

// Reliability ratings derived from a completed attempt cycle.
const (
	RatingReliable   = "Reliable"
	RatingUnreliable = "Unreliable"
)

// ReliabilityThreshold is the mean mark at or above which a completed
// cycle is rated Reliable.
const ReliabilityThreshold = 80.0

// TasksPerCycle is the number of training tasks assigned per attempt.
const TasksPerCycle = 3

// TrainingTask is a certification training unit built on a curriculum task.
type TrainingTask struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:255" json:"name"`
	TaskID    uint   `gorm:"index;not null" json:"task_id"`
	Task      Task   `json:"task,omitempty"`
	Video     string `gorm:"size:512" json:"video"`
	Status    string `gorm:"size:16" json:"status"`
	IsDeleted bool   `gorm:"not null;default:false" json:"is_deleted"`
	Audit
}

// TrainingTaskQuestion is a quiz question for a training task. Answer is
// the index of the correct option. Every training task has at least one
// question, enforced at creation.
type TrainingTaskQuestion struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	TrainingTaskID uint   `gorm:"index;not null" json:"training_task_id"`
	Question       string `gorm:"type:text;not null" json:"question"`
	Answer         int    `gorm:"not null" json:"answer"`
	IsDeleted      bool   `gorm:"not null;default:false" json:"is_deleted"`
	Audit
}

// UserTraining is one assigned training task within an attempt cycle.
type UserTraining struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	UserID           uint    `gorm:"index;not null" json:"user_id"`
	TrainingTaskID   uint    `gorm:"index;not null" json:"training_task_id"`
	TrainingTask     TrainingTask `json:"training_task,omitempty"`
	TrainingResultID uint    `gorm:"index;not null" json:"training_result_id"`
	Attempt          int     `gorm:"not null;default:1" json:"attempt"`
	Status           string  `gorm:"size:16;not null" json:"status"`
	Marks            float64 `json:"marks"`
	Date             int64   `json:"date"`
	Audit
}

// TrainingResult is one attempt cycle: exactly three UserTraining rows,
// a derived rating and the date the practitioner next becomes eligible
// for training. TestID groups attempt 1 and a follow-up attempt 2.
type TrainingResult struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"index;not null" json:"user_id"`
	Attempt          int            `gorm:"not null;default:1" json:"attempt"`
	Rating           string         `gorm:"size:16" json:"rating"`
	Status           string         `gorm:"size:16;not null" json:"status"`
	NextTrainingDate int64          `json:"next_training_date"`
	Marks            float64        `json:"marks"`
	TestID           string         `gorm:"size:64;index" json:"test_id"`
	Trainings        []UserTraining `gorm:"foreignKey:TrainingResultID" json:"trainings,omitempty"`
	Audit
}

// TrainingQuestionResult snapshots a submitted answer together with the
// question's correct answer at submission time, so later edits to the
// question bank do not alter historical grading.
type TrainingQuestionResult struct {
	ID                     uint `gorm:"primaryKey" json:"id"`
	TrainingResultID       uint `gorm:"index;not null" json:"training_result_id"`
	TrainingTaskQuestionID uint `gorm:"index;not null" json:"training_task_question_id"`
	Answer                 int  `json:"answer"`
	CorrectAnswer          int  `json:"correct_answer"`
	Audit
}
