package models

import (
	"time"

	"github.com/lib/pq"
)

// UnitExam binds a redeemable code to a set of curriculum units and the
// questions generated for them. Read-only after creation; the UNIQUE
// constraint on code is the sole collision signal during generation.
type UnitExam struct {
	ID            string        `db:"id" json:"id"`
	Code          string        `db:"code" json:"code"`
	SelectedUnits pq.Int64Array `db:"selected_units" json:"selectedUnits"`
	QuestionCount int           `db:"question_count" json:"questionCount"`
	TeacherID     string        `db:"teacher_id" json:"teacherId"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
}

// UnitQuestion is one generated question under an exam.
type UnitQuestion struct {
	ID      string `db:"id" json:"id"`
	ExamID  string `db:"exam_id" json:"examId"`
	UnitID  int    `db:"unit_id" json:"unitId"`
	Content string `db:"content" json:"content"`
	Answer  string `db:"answer" json:"answer"`
}
