package model

import "time"

// Submission statuses. pending, in_progress, approved and rejected follow the
// participant-facing lifecycle; second_instance_pending marks an advertiser
// rejection awaiting final adjudication by an admin.
const (
	StatusPending               = "pending"
	StatusInProgress            = "in_progress"
	StatusApproved              = "approved"
	StatusRejected              = "rejected"
	StatusSecondInstancePending = "second_instance_pending"
)

// Review stages.
const (
	StageFirstReview    = "first_review"
	StageSecondInstance = "second_instance"
)

// Submission is a participant's claim of having completed a mission. It is
// created by the intake flow and mutated exclusively by the moderation
// decision engine; rows are retained for audit and never deleted.
type Submission struct {
	SubmissionID         string                 `json:"submission_id"`
	MissionID            string                 `json:"mission_id"`
	UserID               string                 `json:"user_id"`
	SubmissionData       map[string]interface{} `json:"submission_data"`
	Status               string                 `json:"status"`
	ReviewStage          string                 `json:"review_stage"`
	Feedback             string                 `json:"feedback,omitempty"`
	ValidatedBy          string                 `json:"validated_by,omitempty"`
	AdminValidated       bool                   `json:"admin_validated"`
	SecondInstanceStatus string                 `json:"second_instance_status,omitempty"`
	SubmittedAt          time.Time              `json:"submitted_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}
