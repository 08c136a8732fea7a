package models

import "github.com/google/uuid"

// TeamStatus values owned by the team service. Only registered and
// confirmed count toward a tournament's registered_teams.
type TeamStatus string

const (
	TeamStatusRegistered TeamStatus = "registered"
	TeamStatusConfirmed  TeamStatus = "confirmed"
)

// Team is owned by the team service; this service only reads it for
// counting and for the aggregate views.
type Team struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TournamentID uuid.UUID  `json:"-" db:"tournament_id"`
	Name         string     `json:"name" db:"name"`
	Status       TeamStatus `json:"status" db:"status"`
	SkillLevel   *string    `json:"skill_level,omitempty" db:"skill_level"`

	// Populated only by the deep read.
	Members []TeamMember `json:"team_member,omitempty" db:"-"`
	Ranking *TeamRanking `json:"team_ranking,omitempty" db:"-"`
}

type TeamMember struct {
	ID      uuid.UUID `json:"id" db:"id"`
	TeamID  uuid.UUID `json:"-" db:"team_id"`
	Profile *Profile  `json:"profile,omitempty" db:"-"`
}
