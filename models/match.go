package models

import (
	"time"

	"github.com/google/uuid"
)

// Match is owned by the scheduling service. The summary read exposes
// id, court, schedule time and status; the deep read adds actual
// times, scores, phase and round number.
type Match struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TournamentID uuid.UUID  `json:"-" db:"tournament_id"`
	CourtNumber  *int       `json:"court_number,omitempty" db:"court_number"`
	ScheduleTime *time.Time `json:"schedule_time,omitempty" db:"schedule_time"`
	Status       string     `json:"status" db:"status"`

	ActualStartTime *time.Time `json:"actual_start_time,omitempty" db:"actual_start_time"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty" db:"actual_end_time"`
	TeamAScore      *int       `json:"team_a_score,omitempty" db:"team_a_score"`
	TeamBScore      *int       `json:"team_b_score,omitempty" db:"team_b_score"`
	Phase           *string    `json:"phase,omitempty" db:"phase"`
	RoundNumber     *int       `json:"round_number,omitempty" db:"round_number"`
}
