package repositories

import (
	"context"

	"github.com/courtside/tournament-service/models"
	"github.com/google/uuid"
)

// MatchRepository reads match rows owned by the scheduling service.
type MatchRepository interface {
	ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.Match, error)
	ListDetailedByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.Match, error)
}

type postgresMatchRepository struct {
	db SQLExecutor
}

func NewPostgresMatchRepository(db SQLExecutor) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.Match, error) {
	query := `
		SELECT id, tournament_id, court_number, schedule_time, status
		FROM matches
		WHERE tournament_id = $1
		ORDER BY schedule_time`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(&m.ID, &m.TournamentID, &m.CourtNumber, &m.ScheduleTime, &m.Status); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListDetailedByTournament adds actual start/end times, scores, phase
// and round number for the deep read.
func (r *postgresMatchRepository) ListDetailedByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.Match, error) {
	query := `
		SELECT
			id, tournament_id, court_number, schedule_time, status,
			actual_start_time, actual_end_time, team_a_score, team_b_score,
			phase, round_number
		FROM matches
		WHERE tournament_id = $1
		ORDER BY schedule_time`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(
			&m.ID, &m.TournamentID, &m.CourtNumber, &m.ScheduleTime, &m.Status,
			&m.ActualStartTime, &m.ActualEndTime, &m.TeamAScore, &m.TeamBScore,
			&m.Phase, &m.RoundNumber,
		); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
