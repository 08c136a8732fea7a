package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/courtside/tournament-service/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertTeam(t *testing.T, db *sql.DB, tournamentID uuid.UUID, name string, status models.TeamStatus) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(
		`INSERT INTO teams (id, tournament_id, name, status) VALUES ($1, $2, $3, $4)`,
		id, tournamentID, name, status,
	)
	require.NoError(t, err)
	return id
}

func insertTeamMember(t *testing.T, db *sql.DB, teamID, profileID uuid.UUID) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO team_members (id, team_id, profile_id) VALUES ($1, $2, $3)`,
		uuid.New(), teamID, profileID,
	)
	require.NoError(t, err)
}

func insertMatch(t *testing.T, db *sql.DB, tournamentID uuid.UUID, status string, scheduleTime *time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(
		`INSERT INTO matches (id, tournament_id, status, schedule_time) VALUES ($1, $2, $3, $4)`,
		id, tournamentID, status, scheduleTime,
	)
	require.NoError(t, err)
	return id
}

func insertRanking(t *testing.T, db *sql.DB, tournamentID, teamID uuid.UUID, position int) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO team_rankings (id, tournament_id, team_id, point, matches_played, matches_won, matches_lost, ranking_position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), tournamentID, teamID, 10-position, 3, 2, 1, position,
	)
	require.NoError(t, err)
}

func TestTeamRepositoryListByTournament(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresTeamRepository(db)
	ctx := context.Background()

	tournamentID := uuid.New()
	insertTeam(t, db, tournamentID, "Les Requins", models.TeamStatusConfirmed)
	insertTeam(t, db, tournamentID, "Les Aigles", models.TeamStatusRegistered)
	insertTeam(t, db, uuid.New(), "Autre Tournoi", models.TeamStatusRegistered)

	teams, err := repo.ListByTournament(ctx, tournamentID)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	// Ordered by name.
	assert.Equal(t, "Les Aigles", teams[0].Name)
	assert.Equal(t, "Les Requins", teams[1].Name)
}

func TestTeamRepositoryListByTournamentWithMembers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresTeamRepository(db)
	ctx := context.Background()

	tournamentID := uuid.New()
	playerID := uuid.New()
	insertProfile(t, db, playerID, "joueur1")

	ranked := insertTeam(t, db, tournamentID, "Les Aigles", models.TeamStatusConfirmed)
	insertTeamMember(t, db, ranked, playerID)
	insertRanking(t, db, tournamentID, ranked, 1)
	insertTeam(t, db, tournamentID, "Les Requins", models.TeamStatusRegistered)

	teams, err := repo.ListByTournamentWithMembers(ctx, tournamentID)
	require.NoError(t, err)
	require.Len(t, teams, 2)

	require.Len(t, teams[0].Members, 1)
	require.NotNil(t, teams[0].Members[0].Profile)
	assert.Equal(t, "joueur1", teams[0].Members[0].Profile.DisplayName)
	require.NotNil(t, teams[0].Ranking)
	assert.Equal(t, 1, teams[0].Ranking.RankingPosition)

	// No ranking row yet is not an error.
	assert.Empty(t, teams[1].Members)
	assert.Nil(t, teams[1].Ranking)
}

func TestTeamRepositoryCountRegistered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresTeamRepository(db)
	ctx := context.Background()

	tournamentID := uuid.New()
	insertTeam(t, db, tournamentID, "A", models.TeamStatusRegistered)
	insertTeam(t, db, tournamentID, "B", models.TeamStatusConfirmed)
	insertTeam(t, db, tournamentID, "C", models.TeamStatus("withdrawn"))
	insertTeam(t, db, uuid.New(), "D", models.TeamStatusRegistered)

	count, err := repo.CountRegistered(ctx, tournamentID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMatchRepositoryListByTournament(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresMatchRepository(db)
	ctx := context.Background()

	tournamentID := uuid.New()
	early := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2026, 7, 1, 11, 0, 0, 0, time.UTC)
	insertMatch(t, db, tournamentID, "completed", &late)
	insertMatch(t, db, tournamentID, "scheduled", &early)

	matches, err := repo.ListByTournament(ctx, tournamentID)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	// Ordered by schedule_time ascending.
	assert.Equal(t, "scheduled", matches[0].Status)
	assert.Equal(t, "completed", matches[1].Status)

	detailed, err := repo.ListDetailedByTournament(ctx, tournamentID)
	require.NoError(t, err)
	require.Len(t, detailed, 2)
	assert.Nil(t, detailed[0].TeamAScore)
	assert.Nil(t, detailed[0].Phase)
}

func TestRankingRepositoryListByTournamentWithTeams(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresRankingRepository(db)
	ctx := context.Background()

	tournamentID := uuid.New()
	second := insertTeam(t, db, tournamentID, "Les Requins", models.TeamStatusConfirmed)
	first := insertTeam(t, db, tournamentID, "Les Aigles", models.TeamStatusConfirmed)
	insertRanking(t, db, tournamentID, second, 2)
	insertRanking(t, db, tournamentID, first, 1)

	rankings, err := repo.ListByTournamentWithTeams(ctx, tournamentID)
	require.NoError(t, err)
	require.Len(t, rankings, 2)
	// Ascending by ranking_position, joined to the team name.
	assert.Equal(t, 1, rankings[0].RankingPosition)
	require.NotNil(t, rankings[0].Team)
	assert.Equal(t, "Les Aigles", rankings[0].Team.Name)
	assert.Equal(t, "Les Requins", rankings[1].Team.Name)
}

func TestProfileRepositoryGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresProfileRepository(db)
	ctx := context.Background()

	id := uuid.New()
	insertProfile(t, db, id, "orga")

	profile, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "orga", profile.DisplayName)
	assert.Equal(t, models.RoleOrganisateur, profile.Role)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
