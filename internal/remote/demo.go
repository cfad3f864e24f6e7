package remote

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/chronoforge/internal/models"
)

// Demo is an in-process Source that serves a generated plan for the current
// day. It lets the client run without a planning service.
type Demo struct {
	mu       sync.Mutex
	now      func() time.Time
	loc      *time.Location
	checkIns []models.CheckIn
}

func NewDemo(now func() time.Time, loc *time.Location) *Demo {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Demo{now: now, loc: loc}
}

func (d *Demo) today() time.Time {
	y, m, day := d.now().In(d.loc).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.loc)
}

func (d *Demo) CurrentSchedule(ctx context.Context) (models.ScheduleDocument, error) {
	if err := ctx.Err(); err != nil {
		return models.ScheduleDocument{}, err
	}

	today := d.today()
	at := func(dayOffset int, hours float64) time.Time {
		return today.AddDate(0, 0, dayOffset).Add(time.Duration(hours * float64(time.Hour)))
	}

	var blocks []models.ScheduledBlock
	var capacity []models.DayCapacity
	for day := 0; day < 2; day++ {
		blocks = append(blocks,
			models.ScheduledBlock{GoalID: "ev-standup", GoalName: "Team Standup", Category: models.CategoryCareer, Start: at(day, 9), End: at(day, 9.5), IsFixed: true},
			models.ScheduledBlock{GoalID: "goal-study", GoalName: "Data Structures", Category: models.CategoryStudy, Start: at(day, 10), End: at(day, 12)},
			models.ScheduledBlock{GoalID: "goal-interview", GoalName: "Interview Prep", Category: models.CategoryCareer, Start: at(day, 14), End: at(day, 15.5)},
			models.ScheduledBlock{GoalID: "goal-fitness", GoalName: "Gym", Category: models.CategoryFitness, Start: at(day, 18), End: at(day, 19)},
		)
		capacity = append(capacity, models.DayCapacity{
			Date:           today.AddDate(0, 0, day).Format("2006-01-02"),
			TotalHours:     15,
			AllocatedHours: 5,
			SpareHours:     9.5,
		})
	}

	return models.ScheduleDocument{
		Blocks: blocks,
		Unmet: []models.UnmetGoal{
			{GoalID: "goal-interview", GoalName: "Interview Prep", TargetHours: 10, AllocatedHours: 8, DeficitHours: 2},
		},
		CapacityByDay: capacity,
		CoachingMessages: []string{
			"Interview Prep is 2h short this week. Afternoons have room.",
		},
	}, nil
}

func (d *Demo) Signals(ctx context.Context) ([]models.Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.Signal{
		{
			ID:          "sig-1",
			Subject:     "Interview invitation: Software Engineer Intern",
			Snippet:     "We'd like to schedule a 45 minute call next week.",
			Sender:      "recruiting@example.com",
			Date:        d.now().Add(-3 * time.Hour),
			SignalTypes: []models.SignalType{models.SignalInterview, models.SignalInternship},
		},
	}, nil
}

func (d *Demo) Tasks(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	due := d.today().AddDate(0, 0, 2).Add(23*time.Hour + 59*time.Minute)
	points := 100.0
	return []models.Task{
		{ID: "task-hw4", CourseName: "CS 261", AssignmentName: "Homework 4", DueAt: &due, PointsPossible: &points},
		{ID: "task-reading", CourseName: "HIST 110", AssignmentName: "Weekly reading"},
	}, nil
}

func (d *Demo) Insights(ctx context.Context) (models.Insights, error) {
	if err := ctx.Err(); err != nil {
		return models.Insights{}, err
	}
	return models.Insights{
		Summary:        "Your time is split across Study, Interview Prep, and Fitness.",
		TimeBreakdown:  "Fixed ~0.5h/day, Study ~2h/day, Interview Prep ~1.5h/day, Fitness ~1h/day",
		WhereToAddMore: "Use spare afternoon slots for Interview Prep to close the deficit.",
		Available:      true,
	}, nil
}

func (d *Demo) SubmitCheckIn(ctx context.Context, body models.CheckInCreate) (models.CheckInResult, error) {
	if err := ctx.Err(); err != nil {
		return models.CheckInResult{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	record := models.CheckIn{
		ID:                  uuid.NewString(),
		BlockID:             body.BlockID,
		PlannedGoalID:       body.PlannedGoalID,
		PlannedGoalName:     body.PlannedGoalName,
		Start:               body.Start,
		End:                 body.End,
		WhatIDid:            body.WhatIDid,
		Assessment:          "That lines up with your plan. You stayed on goal.",
		MotivationalMessage: "Keep this up and the deficit closes this week.",
		CreatedAt:           d.now(),
	}
	d.checkIns = append(d.checkIns, record)

	return models.CheckInResult{
		Assessment:          record.Assessment,
		MotivationalMessage: record.MotivationalMessage,
		CheckInID:           record.ID,
	}, nil
}

func (d *Demo) ListCheckIns(ctx context.Context) ([]models.CheckIn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]models.CheckIn, len(d.checkIns))
	copy(out, d.checkIns)
	return out, nil
}
