package models

import "time"

// CheckIn is a stored report for a concluded block together with the
// planning service's assessment. Records are never modified after creation.
type CheckIn struct {
	ID                  string    `json:"id"`
	BlockID             string    `json:"block_id"`
	PlannedGoalID       string    `json:"planned_goal_id"`
	PlannedGoalName     string    `json:"planned_goal_name"`
	Start               time.Time `json:"start"`
	End                 time.Time `json:"end"`
	WhatIDid            string    `json:"what_i_did"`
	Assessment          string    `json:"assessment"`
	MotivationalMessage string    `json:"motivational_message"`
	CreatedAt           time.Time `json:"created_at"`
}

// CheckInCreate is the submission body for a new check-in.
type CheckInCreate struct {
	BlockID         string    `json:"block_id"`
	PlannedGoalID   string    `json:"planned_goal_id"`
	PlannedGoalName string    `json:"planned_goal_name"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	WhatIDid        string    `json:"what_i_did"`
}

// NewCheckInCreate builds the submission body for block.
func NewCheckInCreate(block ScheduledBlock, whatIDid string) CheckInCreate {
	return CheckInCreate{
		BlockID:         block.ID(),
		PlannedGoalID:   block.GoalID,
		PlannedGoalName: block.GoalName,
		Start:           block.Start,
		End:             block.End,
		WhatIDid:        whatIDid,
	}
}

type CheckInResult struct {
	Assessment          string `json:"assessment"`
	MotivationalMessage string `json:"motivational_message"`
	CheckInID           string `json:"check_in_id"`
}
