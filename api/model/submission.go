package model

// CreateSubmission is the request body for submitting mission work. The
// participant identity comes from the request headers, not the body.
type CreateSubmission struct {
	MissionID string                 `json:"mission_id"`
	Data      map[string]interface{} `json:"data"`
}

// SubmissionDecision is the request body for a reviewer verdict on a
// submission.
type SubmissionDecision struct {
	Decision string `json:"decision"`
	Stage    string `json:"stage"`
	Feedback string `json:"feedback,omitempty"`
}
