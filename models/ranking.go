package models

import "github.com/google/uuid"

// TeamRanking is owned by the ranking service, read-only here.
type TeamRanking struct {
	ID              uuid.UUID `json:"id,omitempty" db:"id"`
	TournamentID    uuid.UUID `json:"-" db:"tournament_id"`
	TeamID          uuid.UUID `json:"-" db:"team_id"`
	Point           int       `json:"point" db:"point"`
	MatchesPlayed   int       `json:"matches_played" db:"matches_played"`
	MatchesWon      int       `json:"matches_won" db:"matches_won"`
	MatchesLost     int       `json:"matches_lost" db:"matches_lost"`
	RankingPosition int       `json:"ranking_position" db:"ranking_position"`

	// Populated by the deep read, where rankings are joined back to
	// the team name.
	Team *TeamRef `json:"team,omitempty" db:"-"`
}

type TeamRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
