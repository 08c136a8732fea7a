package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/tournament-service/models"
	"github.com/google/uuid"
)

// TeamRepository reads team rows owned by the team service. Nothing
// here mutates them.
type TeamRepository interface {
	ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.Team, error)
	ListByTournamentWithMembers(ctx context.Context, tournamentID uuid.UUID) ([]models.Team, error)
	CountRegistered(ctx context.Context, tournamentID uuid.UUID) (int, error)
}

type postgresTeamRepository struct {
	db SQLExecutor
}

func NewPostgresTeamRepository(db SQLExecutor) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]models.Team, error) {
	query := `
		SELECT id, tournament_id, name, status, skill_level
		FROM teams
		WHERE tournament_id = $1
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := rows.Scan(&t.ID, &t.TournamentID, &t.Name, &t.Status, &t.SkillLevel); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// ListByTournamentWithMembers returns each team with its members'
// profiles and its ranking row, for the deep tournament read.
func (r *postgresTeamRepository) ListByTournamentWithMembers(ctx context.Context, tournamentID uuid.UUID) ([]models.Team, error) {
	teams, err := r.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	for i := range teams {
		members, err := r.listMembers(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		teams[i].Members = members

		ranking, err := r.getRanking(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		teams[i].Ranking = ranking
	}
	return teams, nil
}

func (r *postgresTeamRepository) listMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	query := `
		SELECT tm.id, tm.team_id, p.id, p.email, p.display_name
		FROM team_members tm
		JOIN profiles p ON p.id = tm.profile_id
		WHERE tm.team_id = $1`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var m models.TeamMember
		var p models.Profile
		if scanErr := rows.Scan(&m.ID, &m.TeamID, &p.ID, &p.Email, &p.DisplayName); scanErr != nil {
			return nil, scanErr
		}
		m.Profile = &p
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresTeamRepository) getRanking(ctx context.Context, teamID uuid.UUID) (*models.TeamRanking, error) {
	query := `
		SELECT point, matches_played, matches_won, matches_lost, ranking_position
		FROM team_rankings
		WHERE team_id = $1`

	var rk models.TeamRanking
	err := r.db.QueryRowContext(ctx, query, teamID).Scan(
		&rk.Point, &rk.MatchesPlayed, &rk.MatchesWon, &rk.MatchesLost, &rk.RankingPosition,
	)
	if err != nil {
		// A team without a ranking row is normal before the tournament
		// starts.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rk, nil
}

// CountRegistered counts the teams that occupy a slot in the
// tournament: status registered or confirmed.
func (r *postgresTeamRepository) CountRegistered(ctx context.Context, tournamentID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM teams
		WHERE tournament_id = $1 AND status IN ($2, $3)`

	var count int
	err := r.db.QueryRowContext(ctx, query, tournamentID,
		models.TeamStatusRegistered, models.TeamStatusConfirmed).Scan(&count)
	return count, err
}
