package repositories

import (
	"context"

	"github.com/courtside/tournament-service/models"
	"github.com/google/uuid"
)

// RankingRepository reads team_ranking rows owned by the ranking
// service.
type RankingRepository interface {
	ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.TeamRanking, error)
	ListByTournamentWithTeams(ctx context.Context, tournamentID uuid.UUID) ([]models.TeamRanking, error)
}

type postgresRankingRepository struct {
	db SQLExecutor
}

func NewPostgresRankingRepository(db SQLExecutor) RankingRepository {
	return &postgresRankingRepository{db: db}
}

func (r *postgresRankingRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.TeamRanking, error) {
	query := `
		SELECT id, tournament_id, team_id, point, matches_played, matches_won,
			matches_lost, ranking_position
		FROM team_rankings
		WHERE tournament_id = $1
		ORDER BY ranking_position`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rankings := make([]models.TeamRanking, 0)
	for rows.Next() {
		var rk models.TeamRanking
		if scanErr := rows.Scan(
			&rk.ID, &rk.TournamentID, &rk.TeamID, &rk.Point, &rk.MatchesPlayed,
			&rk.MatchesWon, &rk.MatchesLost, &rk.RankingPosition,
		); scanErr != nil {
			return nil, scanErr
		}
		rankings = append(rankings, rk)
	}
	return rankings, rows.Err()
}

// ListByTournamentWithTeams joins each ranking back to its team name,
// ascending by ranking_position.
func (r *postgresRankingRepository) ListByTournamentWithTeams(ctx context.Context, tournamentID uuid.UUID) ([]models.TeamRanking, error) {
	query := `
		SELECT tr.id, tr.tournament_id, tr.team_id, tr.point, tr.matches_played,
			tr.matches_won, tr.matches_lost, tr.ranking_position, t.id, t.name
		FROM team_rankings tr
		JOIN teams t ON t.id = tr.team_id
		WHERE tr.tournament_id = $1
		ORDER BY tr.ranking_position ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rankings := make([]models.TeamRanking, 0)
	for rows.Next() {
		var rk models.TeamRanking
		var ref models.TeamRef
		if scanErr := rows.Scan(
			&rk.ID, &rk.TournamentID, &rk.TeamID, &rk.Point, &rk.MatchesPlayed,
			&rk.MatchesWon, &rk.MatchesLost, &rk.RankingPosition, &ref.ID, &ref.Name,
		); scanErr != nil {
			return nil, scanErr
		}
		rk.Team = &ref
		rankings = append(rankings, rk)
	}
	return rankings, rows.Err()
}
