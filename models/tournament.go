package models

import (
	"time"

	"github.com/google/uuid"
)

// TournamentStatus mirrors the status ENUM constraint in the database.
type TournamentStatus string

const (
	StatusDraft      TournamentStatus = "draft"
	StatusReady      TournamentStatus = "ready"
	StatusInProgress TournamentStatus = "in_progress"
	StatusCompleted  TournamentStatus = "completed"
	StatusCancelled  TournamentStatus = "cancelled"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusReady, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// StatusAction is one of the named lifecycle transitions.
type StatusAction string

const (
	ActionDraft   StatusAction = "draft"
	ActionPublish StatusAction = "publish"
	ActionStart   StatusAction = "start"
	ActionFinish  StatusAction = "finish"
	ActionCancel  StatusAction = "cancel"
)

// actionTargets is the full transition table. The product allows every
// action from every current status, including completed and cancelled;
// the only precondition is the team-count guard on ActionStart, which
// lives in the service layer. Hardening the machine means editing this
// table, in one place.
var actionTargets = map[StatusAction]TournamentStatus{
	ActionDraft:   StatusDraft,
	ActionPublish: StatusReady,
	ActionStart:   StatusInProgress,
	ActionFinish:  StatusCompleted,
	ActionCancel:  StatusCancelled,
}

// Target returns the status an action moves the tournament into.
func (a StatusAction) Target() (TournamentStatus, bool) {
	target, ok := actionTargets[a]
	return target, ok
}

// Tournament is the aggregate root owned by this service. Related
// entities (teams, matches, rankings, organizer profile) belong to
// other services and are only read here.
type Tournament struct {
	ID                   uuid.UUID        `json:"id" db:"id"`
	Name                 string           `json:"name" db:"name"`
	Description          *string          `json:"description,omitempty" db:"description"`
	TournamentType       string           `json:"tournament_type" db:"tournament_type"`
	MaxTeams             int              `json:"max_teams" db:"max_teams"`
	RegisteredTeams      int              `json:"registered_teams" db:"registered_teams"`
	StartDate            *time.Time       `json:"start_date,omitempty" db:"start_date"`
	StartTime            *time.Time       `json:"start_time,omitempty" db:"start_time"`
	MatchDurationMinutes *int             `json:"match_duration_minutes,omitempty" db:"match_duration_minutes"`
	BreakDurationMinutes *int             `json:"break_duration_minutes,omitempty" db:"break_duration_minutes"`
	CourtsAvailable      *int             `json:"courts_available,omitempty" db:"courts_available"`
	Status               TournamentStatus `json:"status" db:"status"`
	OrganizerID          uuid.UUID        `json:"organizer_id" db:"organizer_id"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at" db:"updated_at"`
	LogoKey              *string          `json:"-" db:"logo_key"`
	LogoURL              *string          `json:"logo_url,omitempty" db:"-"`

	// Related entities, populated only by the aggregate reads.
	Organizer *Profile      `json:"profile,omitempty" db:"-"`
	Teams     []Team        `json:"team,omitempty" db:"-"`
	Matches   []Match       `json:"match,omitempty" db:"-"`
	Rankings  []TeamRanking `json:"team_ranking,omitempty" db:"-"`
}

// TournamentStats is the reporting projection returned by the stats
// endpoint: a fixed field subset plus counts of related rows.
type TournamentStats struct {
	ID                   uuid.UUID        `json:"id"`
	Name                 string           `json:"name"`
	Status               TournamentStatus `json:"status"`
	RegisteredTeams      int              `json:"registered_teams"`
	MaxTeams             int              `json:"max_teams"`
	StartDate            *time.Time       `json:"start_date,omitempty"`
	StartTime            *time.Time       `json:"start_time,omitempty"`
	MatchDurationMinutes *int             `json:"match_duration_minutes,omitempty"`
	BreakDurationMinutes *int             `json:"break_duration_minutes,omitempty"`
	CourtsAvailable      *int             `json:"courts_available,omitempty"`
	Counts               RelatedCounts    `json:"_count"`
}

type RelatedCounts struct {
	Teams    int `json:"team"`
	Matches  int `json:"match"`
	Rankings int `json:"team_ranking"`
}
