package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/tournament-service/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound         = errors.New("tournament not found")
	ErrTournamentNameConflict     = errors.New("tournament name conflict for this organizer")
	ErrTournamentInvalidOrganizer = errors.New("invalid organizer reference")
	ErrTournamentInUse            = errors.New("tournament is referenced by other records")
)

// ListTournamentsFilter is a sparse predicate: nil fields apply no
// constraint, non-nil fields are combined with AND.
type ListTournamentsFilter struct {
	Status         *models.TournamentStatus
	TournamentType *string
	OrganizerID    *uuid.UUID
	Limit          int
	Offset         int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Count(ctx context.Context, filter ListTournamentsFilter) (int, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.TournamentStatus, updatedAt time.Time) error
	UpdateRegisteredTeams(ctx context.Context, id uuid.UUID, count int, updatedAt time.Time) error
	UpdateLogoKey(ctx context.Context, id uuid.UUID, logoKey *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetStats(ctx context.Context, id uuid.UUID) (*models.TournamentStats, error)
}

type postgresTournamentRepository struct {
	db SQLExecutor
}

func NewPostgresTournamentRepository(db SQLExecutor) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `
	id, name, description, tournament_type, max_teams, registered_teams,
	start_date, start_time, match_duration_minutes, break_duration_minutes,
	courts_available, status, organizer_id, created_at, updated_at, logo_key`

func scanTournament(row interface{ Scan(...interface{}) error }, t *models.Tournament) error {
	return row.Scan(
		&t.ID, &t.Name, &t.Description, &t.TournamentType, &t.MaxTeams, &t.RegisteredTeams,
		&t.StartDate, &t.StartTime, &t.MatchDurationMinutes, &t.BreakDurationMinutes,
		&t.CourtsAvailable, &t.Status, &t.OrganizerID, &t.CreatedAt, &t.UpdatedAt, &t.LogoKey,
	)
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			id, name, description, tournament_type, max_teams, registered_teams,
			start_date, start_time, match_duration_minutes, break_duration_minutes,
			courts_available, status, organizer_id, created_at, updated_at, logo_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Description, t.TournamentType, t.MaxTeams, t.RegisteredTeams,
		t.StartDate, t.StartTime, t.MatchDurationMinutes, t.BreakDurationMinutes,
		t.CourtsAvailable, t.Status, t.OrganizerID, t.CreatedAt, t.UpdatedAt, t.LogoKey,
	)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := scanTournament(r.db.QueryRowContext(ctx, query, id), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func buildFilterClause(filter ListTournamentsFilter) (string, []interface{}) {
	clause := " WHERE 1=1"
	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		clause += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.TournamentType != nil {
		clause += fmt.Sprintf(" AND tournament_type = $%d", argID)
		args = append(args, *filter.TournamentType)
		argID++
	}
	if filter.OrganizerID != nil {
		clause += fmt.Sprintf(" AND organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
	}
	return clause, args
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	clause, args := buildFilterClause(filter)
	query := `SELECT` + tournamentColumns + ` FROM tournaments` + clause +
		` ORDER BY created_at DESC`

	argID := len(args) + 1
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := scanTournament(rows, &t); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

// Count runs the same filter predicate as List, without pagination.
func (r *postgresTournamentRepository) Count(ctx context.Context, filter ListTournamentsFilter) (int, error) {
	clause, args := buildFilterClause(filter)
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournaments`+clause, args...).Scan(&total)
	return total, err
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	// id, organizer_id and created_at are deliberately absent from the
	// SET list: they are immutable after creation.
	query := `
		UPDATE tournaments SET
			name = $1,
			description = $2,
			tournament_type = $3,
			max_teams = $4,
			start_date = $5,
			start_time = $6,
			match_duration_minutes = $7,
			break_duration_minutes = $8,
			courts_available = $9,
			status = $10,
			updated_at = $11
		WHERE id = $12`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.TournamentType, t.MaxTeams,
		t.StartDate, t.StartTime, t.MatchDurationMinutes, t.BreakDurationMinutes,
		t.CourtsAvailable, t.Status, t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TournamentStatus, updatedAt time.Time) error {
	query := `UPDATE tournaments SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, updatedAt, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateRegisteredTeams(ctx context.Context, id uuid.UUID, count int, updatedAt time.Time) error {
	query := `UPDATE tournaments SET registered_teams = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, count, updatedAt, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, id uuid.UUID, logoKey *string) error {
	query := `UPDATE tournaments SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament logo key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) GetStats(ctx context.Context, id uuid.UUID) (*models.TournamentStats, error) {
	query := `
		SELECT
			t.id, t.name, t.status, t.registered_teams, t.max_teams,
			t.start_date, t.start_time, t.match_duration_minutes,
			t.break_duration_minutes, t.courts_available,
			(SELECT COUNT(*) FROM teams te WHERE te.tournament_id = t.id),
			(SELECT COUNT(*) FROM matches m WHERE m.tournament_id = t.id),
			(SELECT COUNT(*) FROM team_rankings tr WHERE tr.tournament_id = t.id)
		FROM tournaments t
		WHERE t.id = $1`

	s := &models.TournamentStats{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Status, &s.RegisteredTeams, &s.MaxTeams,
		&s.StartDate, &s.StartTime, &s.MatchDurationMinutes,
		&s.BreakDurationMinutes, &s.CourtsAvailable,
		&s.Counts.Teams, &s.Counts.Matches, &s.Counts.Rankings,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrTournamentNameConflict
		case "23503":
			if pqErr.Constraint == "tournaments_organizer_id_fkey" {
				return ErrTournamentInvalidOrganizer
			}
			// FK violations from teams/matches/rankings pointing at the
			// tournament surface on delete.
			return ErrTournamentInUse
		}
	}
	return err
}
