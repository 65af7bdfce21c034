package repository

import (
	"github.com/alexandre-rezende616/spacelearn/internal/model"

	"gorm.io/gorm"
)

type ClassRepository struct {
	DB *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{DB: db}
}

func (r *ClassRepository) Create(class *model.Class) error {
	return r.DB.Create(class).Error
}

func (r *ClassRepository) FindByID(id string) (*model.Class, error) {
	var class model.Class
	if err := r.DB.First(&class, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepository) FindByCode(code string) (*model.Class, error) {
	var class model.Class
	if err := r.DB.Where("code = ?", code).First(&class).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepository) ListByTeacher(teacherID string) ([]model.Class, error) {
	var classes []model.Class
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&classes).Error
	return classes, err
}

func (r *ClassRepository) ListByIDs(ids []string) ([]model.Class, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var classes []model.Class
	err := r.DB.Where("id IN ?", ids).Find(&classes).Error
	return classes, err
}

// Enrollments

func (r *ClassRepository) Enroll(e *model.Enrollment) error {
	return r.DB.Create(e).Error
}

func (r *ClassRepository) IsEnrolled(classID, studentID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *ClassRepository) ClassIDsByStudent(studentID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.Enrollment{}).
		Where("student_id = ?", studentID).
		Pluck("class_id", &ids).Error
	return ids, err
}

func (r *ClassRepository) StudentIDsByClass(classID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.Enrollment{}).
		Where("class_id = ?", classID).
		Pluck("student_id", &ids).Error
	return ids, err
}

// AnyEnrollmentInClasses reports whether the student belongs to at least one
// of the given classes. Used by the availability diagnosis.
func (r *ClassRepository) AnyEnrollmentInClasses(classIDs []string, studentID string) (bool, error) {
	if len(classIDs) == 0 {
		return false, nil
	}
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("class_id IN ? AND student_id = ?", classIDs, studentID).
		Count(&count).Error
	return count > 0, err
}
