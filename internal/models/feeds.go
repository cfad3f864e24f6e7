package models

import "time"

type SignalType string

const (
	SignalInterview   SignalType = "interview"
	SignalDeadline    SignalType = "deadline"
	SignalApplication SignalType = "application"
	SignalOffer       SignalType = "offer"
	SignalRSVP        SignalType = "rsvp"
	SignalInvite      SignalType = "invite"
	SignalInternship  SignalType = "internship"
	SignalHackathon   SignalType = "hackathon"
	SignalSubmission  SignalType = "submission"
)

// Signal is an external message flagged as relevant to the user's goals.
type Signal struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	Snippet     string       `json:"snippet"`
	Sender      string       `json:"sender"`
	Date        time.Time    `json:"date"`
	SignalTypes []SignalType `json:"signal_types"`
}

// Task is an externally tracked assignment. DueAt is nil when the task has
// no deadline.
type Task struct {
	ID             string     `json:"id"`
	CourseName     string     `json:"course_name"`
	AssignmentName string     `json:"assignment_name"`
	DueAt          *time.Time `json:"due_at,omitempty"`
	PointsPossible *float64   `json:"points_possible,omitempty"`
	HTMLURL        string     `json:"html_url,omitempty"`
}

// Insights is the planning service's narrative summary of the plan.
type Insights struct {
	Summary        string `json:"summary"`
	TimeBreakdown  string `json:"time_breakdown"`
	WhereToAddMore string `json:"where_to_add_more"`
	Available      bool   `json:"available"`
}
