package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/tournament-service/models"
	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository reads profile rows owned by the auth service.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type postgresProfileRepository struct {
	db SQLExecutor
}

func NewPostgresProfileRepository(db SQLExecutor) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT id, email, display_name, role FROM profiles WHERE id = $1`

	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Email, &p.DisplayName, &p.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}
