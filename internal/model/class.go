package model

import "time"

// Class is a teacher-owned group students join with a short code.
type Class struct {
	UUIDBase
	Name      string `gorm:"size:100;not null" json:"name"`
	Code      string `gorm:"size:10;unique;not null" json:"code"`
	TeacherID string `gorm:"index;type:varchar(36);not null" json:"teacherId"`
}

func (Class) TableName() string {
	return "classes"
}

// Enrollment links a student to a class. One row per (class, student).
type Enrollment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClassID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_class_student" json:"classId"`
	StudentID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_class_student;index" json:"studentId"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joinedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// ClassMessage is a class-wide announcement.
type ClassMessage struct {
	UUIDBase
	ClassID  string `gorm:"index;type:varchar(36);not null" json:"classId"`
	AuthorID string `gorm:"type:varchar(36);not null" json:"authorId"`
	Body     string `gorm:"type:text;not null" json:"body"`
}

func (ClassMessage) TableName() string {
	return "class_messages"
}
