// Package timer implements the state machine governing a task's work timer
// and its session log. It is the single writer of the timer sub-record and
// the sessions slice, which keeps the cached TotalSeconds consistent with
// the closed sessions.
package timer

import (
	"time"

	"github.com/amanmukri03/trello-backend/internal/models"
)

// Start opens a new work session at now. Starting an already running timer
// is a no-op, so a duplicate request cannot open a second session. It
// reports whether the task transitioned.
func Start(task *models.Task, now time.Time) bool {
	if task.Timer.IsRunning {
		return false
	}

	startedAt := now
	task.Timer.IsRunning = true
	task.Timer.StartedAt = &startedAt
	task.Sessions = append(task.Sessions, models.TimerSession{
		TaskID:    task.ID,
		StartTime: now,
	})

	return true
}

// Stop closes the open session at now and folds its duration into the
// accumulated total. Stopping a stopped timer is a no-op. It reports
// whether the task transitioned.
func Stop(task *models.Task, now time.Time) bool {
	if !task.Timer.IsRunning || task.Timer.StartedAt == nil {
		return false
	}

	endedAt := now
	elapsed := elapsedSeconds(*task.Timer.StartedAt, now)

	if n := len(task.Sessions); n > 0 {
		last := &task.Sessions[n-1]
		last.EndTime = &endedAt
		last.DurationSeconds = elapsed
	}

	task.Timer.TotalSeconds += elapsed
	task.Timer.IsRunning = false
	task.Timer.StartedAt = nil

	return true
}

// CurrentDuration returns the accumulated seconds including the live
// increment of a running session. It never mutates the task.
func CurrentDuration(task *models.Task, now time.Time) int64 {
	total := task.Timer.TotalSeconds
	if task.Timer.IsRunning && task.Timer.StartedAt != nil {
		total += elapsedSeconds(*task.Timer.StartedAt, now)
	}
	return total
}

// elapsedSeconds floors the wall-clock delta to whole seconds. Clock skew
// yielding a negative delta is clamped at zero, never subtracted.
func elapsedSeconds(from, to time.Time) int64 {
	secs := int64(to.Sub(from) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}
