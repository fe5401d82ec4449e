package models

import "time"

// TeacherAuthStatus captures workflow states for teacher identity requests.
type TeacherAuthStatus string

const (
	TeacherAuthStatusPending  TeacherAuthStatus = "PENDING"
	TeacherAuthStatusApproved TeacherAuthStatus = "APPROVED"
	TeacherAuthStatusRejected TeacherAuthStatus = "REJECTED"
)

// TeacherAuthRequest is a teacher identity submission awaiting review.
// It leaves PENDING exactly once; both terminal states are final.
type TeacherAuthRequest struct {
	ID         string            `db:"id" json:"id"`
	TeacherID  string            `db:"teacher_id" json:"teacherId"`
	Name       string            `db:"name" json:"name"`
	ImgURL     string            `db:"img_url" json:"imgUrl"`
	Status     TeacherAuthStatus `db:"status" json:"status"`
	CreatedAt  time.Time         `db:"created_at" json:"createdAt"`
	ReviewedAt *time.Time        `db:"reviewed_at" json:"reviewedAt,omitempty"`
}
