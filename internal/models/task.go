package models

import "fmt"

// Phase groups tasks by development phase of the curriculum.
type Phase struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Color string `gorm:"size:16" json:"color"`
}

// MovementType categorises the movement a task assesses.
type MovementType struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Color string `gorm:"size:16" json:"color"`
}

// Task is a curriculum movement task that students are assessed against.
type Task struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"size:255;not null" json:"name"`
	Number         int          `gorm:"index:idx_tasks_number_phase,unique" json:"number"`
	PhaseID        uint         `gorm:"index:idx_tasks_number_phase,unique;not null" json:"phase_id"`
	Phase          Phase        `json:"phase,omitempty"`
	MovementTypeID uint         `gorm:"index;not null" json:"movement_type_id"`
	MovementType   MovementType `json:"movement_type,omitempty"`
	AssessIt       string       `gorm:"type:text" json:"assess_it"`
	AssessItVideo  string       `gorm:"size:512" json:"assess_it_video"`
	Stages         string       `gorm:"type:text" json:"stages"`
	IsDeleted      bool         `gorm:"not null;default:false" json:"is_deleted"`
	Audit
}

// DisplayName composes the task label shown everywhere in the program.
// The format is fixed; clients match on it.
func (t Task) DisplayName() string {
	return fmt.Sprintf("%s - %s - %s", t.Name, t.Phase.Name, t.MovementType.Name)
}
