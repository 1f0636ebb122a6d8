package dto

// CreateAssessmentRequest records one observation of a student on a task.
type CreateAssessmentRequest struct {
	ClassID        uint    `json:"class_id" validate:"required"`
	TaskID         uint    `json:"task_id" validate:"required"`
	PractitionerID uint    `json:"practitioner_id" validate:"required"`
	StudentID      uint    `json:"student_id" validate:"required"`
	Head           float64 `json:"head" validate:"min=0"`
	Arms           float64 `json:"arms" validate:"min=0"`
	Legs           float64 `json:"legs" validate:"min=0"`
	Body           float64 `json:"body" validate:"min=0"`
	Date           int64   `json:"date"`
}

// UpdateAssessmentRequest applies a generic field correction.
type UpdateAssessmentRequest struct {
	Fields map[string]interface{} `json:"fields" validate:"required"`
}

// ClassAverages holds per-limb score means for one class and task,
// rounded to two decimals.
type ClassAverages struct {
	ClassID uint    `json:"class_id"`
	TaskID  uint    `json:"task_id"`
	Head    float64 `json:"head"`
	Arms    float64 `json:"arms"`
	Legs    float64 `json:"legs"`
	Body    float64 `json:"body"`
	Count   int     `json:"count"`
}

// TaskView is the outward representation of an assessment task.
type TaskView struct {
	ID             uint   `json:"id"`
	Number         int    `json:"number"`
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	Phase          string `json:"phase"`
	MovementType   string `json:"movement_type"`
	PhaseID        uint   `json:"phase_id"`
	MovementTypeID uint   `json:"movement_type_id"`
}
