package dto

// AnswerSubmission is one answered question within a training quiz.
type AnswerSubmission struct {
	QuestionID uint `json:"question_id" validate:"required"`
	Answer     int  `json:"answer"`
}

// SubmitAnswersRequest carries the full quiz submission for one
// assigned training task.
type SubmitAnswersRequest struct {
	TrainingID uint               `json:"training_id" validate:"required"`
	Questions  []AnswerSubmission `json:"questions" validate:"required,min=1,dive"`
}

// QuestionView is a quiz question stripped of its correct answer.
type QuestionView struct {
	ID       uint   `json:"id"`
	Question string `json:"question"`
}

// AssignedTask is the training task a practitioner should work on next.
type AssignedTask struct {
	TrainingID   uint           `json:"training_id"`
	TrainingTask uint           `json:"training_task_id"`
	TaskName     string         `json:"task_name"`
	Video        string         `json:"video"`
	Questions    []QuestionView `json:"questions"`
}

// CycleAssignment is the response to a training cycle request: the next
// task to complete and its 1-based position within the 3-task cycle.
type CycleAssignment struct {
	Task      AssignedTask `json:"task"`
	TaskCount int          `json:"task_count"`
	Resumed   bool         `json:"resumed"`
}

// ResultSummary reflects the cycle state after a quiz submission.
type ResultSummary struct {
	ResultID         uint    `json:"result_id"`
	Status           string  `json:"status"`
	Attempt          int     `json:"attempt"`
	Rating           string  `json:"rating,omitempty"`
	Marks            float64 `json:"marks"`
	NextTrainingDate string  `json:"next_training_date,omitempty"`
}

// TrainingStatusResponse is the practitioner's current training state.
// Status is a display status: a completed but unreliable first attempt
// reports as "Not Started" to signal the mandatory second attempt.
type TrainingStatusResponse struct {
	Date             int64   `json:"date"`
	Attempt          int     `json:"attempt"`
	Rating           string  `json:"rating,omitempty"`
	Status           string  `json:"status"`
	NextTrainingDate string  `json:"next_training_date,omitempty"`
	Marks            float64 `json:"marks"`
}

// TrainingDetail is one task's outcome within a result detail view.
type TrainingDetail struct {
	TrainingID      uint   `json:"training_id"`
	TaskName        string `json:"task_name"`
	Marks           float64 `json:"marks"`
	Date            string `json:"date,omitempty"`
	QuestionCount   int    `json:"question_count"`
	CorrectAnswers  int    `json:"correct_answers"`
}

// ResultDetail is the audit view of one attempt cycle.
type ResultDetail struct {
	ResultID         uint             `json:"result_id"`
	Attempt          int              `json:"attempt"`
	Rating           string           `json:"rating,omitempty"`
	Marks            float64          `json:"marks"`
	NextTrainingDate string           `json:"next_training_date,omitempty"`
	Trainings        []TrainingDetail `json:"trainings"`
}

// TrainingResultItem is one row of the training result listing.
type TrainingResultItem struct {
	ResultID         uint    `json:"result_id"`
	UserID           uint    `json:"user_id"`
	Attempt          int     `json:"attempt"`
	Rating           string  `json:"rating,omitempty"`
	Status           string  `json:"status"`
	Marks            float64 `json:"marks"`
	TestID           string  `json:"test_id"`
	NextTrainingDate string  `json:"next_training_date,omitempty"`
}
