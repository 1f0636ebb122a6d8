package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

// StudentService manages student enrollment records. Deleting a student
// also retires the student's assessments.
type StudentService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateStudentRequest) (models.Student, error)
	Get(ctx context.Context, id uint) (models.Student, error)
	ListByClass(ctx context.Context, classID uint) ([]models.Student, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.UpdateStudentRequest) (models.Student, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type studentService struct {
	students    repository.StudentRepository
	classes     repository.ClassRepository
	assessments repository.AssessmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewStudentService builds the student service.
func NewStudentService(
	students repository.StudentRepository,
	classes repository.ClassRepository,
	assessments repository.AssessmentRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		students:    students,
		classes:     classes,
		assessments: assessments,
		validator:   validate,
		logger:      logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Create(ctx context.Context, actor Actor, req dto.CreateStudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, err
	}

	class, err := s.classes.GetByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrNotFound
		}
		return models.Student{}, err
	}
	if class.IsDeleted {
		return models.Student{}, ErrNotFound
	}

	student := models.Student{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		DOB:       req.DOB,
		Email:     req.Email,
		ClassID:   class.ID,
		Audit: models.Audit{
			CreatedBy: actor.ID,
			UpdatedBy: actor.ID,
			CreatedIP: actor.IP,
			UpdatedIP: actor.IP,
		},
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return models.Student{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Uint("class_id", student.ClassID).Msg("student enrolled")
	return student, nil
}

func (s *studentService) Get(ctx context.Context, id uint) (models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrNotFound
		}
		return models.Student{}, err
	}
	if student.IsDeleted {
		return models.Student{}, ErrNotFound
	}
	return student, nil
}

func (s *studentService) ListByClass(ctx context.Context, classID uint) ([]models.Student, error) {
	return s.students.ListByClasses(ctx, []uint{classID})
}

func (s *studentService) Update(ctx context.Context, actor Actor, id uint, req dto.UpdateStudentRequest) (models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return models.Student{}, err
	}

	updates := map[string]interface{}{
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.Gender != "" {
		updates["gender"] = req.Gender
	}
	if req.DOB != 0 {
		updates["dob"] = req.DOB
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.ClassID != 0 {
		class, err := s.classes.GetByID(ctx, req.ClassID)
		if err != nil || class.IsDeleted {
			return models.Student{}, ErrNotFound
		}
		updates["class_id"] = req.ClassID
	}
	if err := s.students.UpdateFields(ctx, []uint{student.ID}, updates); err != nil {
		return models.Student{}, err
	}

	return s.students.GetByID(ctx, student.ID)
}

func (s *studentService) Delete(ctx context.Context, id uint, actor Actor) error {
	student, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	retire := map[string]interface{}{
		"is_deleted": true,
		"updated_by": actor.ID,
		"updated_ip": actor.IP,
	}

	assessments, err := s.assessments.List(ctx, repository.AssessmentFilter{StudentIDs: []uint{student.ID}})
	if err != nil {
		return err
	}
	if len(assessments) > 0 {
		ids := make([]uint, 0, len(assessments))
		for _, assessment := range assessments {
			ids = append(ids, assessment.ID)
		}
		if err := s.assessments.UpdateFields(ctx, ids, retire); err != nil {
			return err
		}
	}

	if err := s.students.UpdateFields(ctx, []uint{student.ID}, retire); err != nil {
		return err
	}

	s.logger.Info().Uint("student_id", student.ID).Int("assessments", len(assessments)).Msg("student deleted")
	return nil
}
