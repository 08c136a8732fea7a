package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/courtside/tournament-service/models"
	"github.com/courtside/tournament-service/repositories"
	"github.com/courtside/tournament-service/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// StatusNotifier receives lifecycle events for live subscribers. The
// websocket hub satisfies it.
type StatusNotifier interface {
	BroadcastToRoom(roomID string, message interface{})
}

const (
	EventStatusChanged     = "TOURNAMENT_STATUS_CHANGED"
	EventTeamsCountUpdated = "REGISTERED_TEAMS_UPDATED"
)

type statusEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

const defaultTournamentType = "poules_elimination"

type TournamentService struct {
	tournaments repositories.TournamentRepository
	teams       repositories.TeamRepository
	matches     repositories.MatchRepository
	rankings    repositories.RankingRepository
	profiles    repositories.ProfileRepository
	uploader    storage.FileUploader
	notifier    StatusNotifier
	logger      *slog.Logger
	now         func() time.Time
}

func NewTournamentService(
	tournaments repositories.TournamentRepository,
	teams repositories.TeamRepository,
	matches repositories.MatchRepository,
	rankings repositories.RankingRepository,
	profiles repositories.ProfileRepository,
	uploader storage.FileUploader,
	notifier StatusNotifier,
	logger *slog.Logger,
) *TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentService{
		tournaments: tournaments,
		teams:       teams,
		matches:     matches,
		rankings:    rankings,
		profiles:    profiles,
		uploader:    uploader,
		notifier:    notifier,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type CreateTournamentInput struct {
	Name                 string     `json:"name" validate:"required,min=3,max=100"`
	Description          *string    `json:"description" validate:"omitempty,max=1000"`
	TournamentType       string     `json:"tournament_type" validate:"omitempty,oneof=poules_elimination"`
	MaxTeams             int        `json:"max_teams" validate:"required,min=2,max=128"`
	StartDate            *time.Time `json:"start_date"`
	StartTime            *time.Time `json:"start_time"`
	MatchDurationMinutes *int       `json:"match_duration_minutes" validate:"omitempty,min=5"`
	BreakDurationMinutes *int       `json:"break_duration_minutes" validate:"omitempty,min=0"`
	CourtsAvailable      *int       `json:"courts_available" validate:"omitempty,min=1"`

	// Accepted but ignored: a new tournament always starts in draft
	// with zero registered teams.
	Status          string `json:"status"`
	RegisteredTeams *int   `json:"registered_teams"`
}

// CreateTournament persists a new tournament for the organizer. The
// record always starts in draft with registered_teams = 0, whatever
// the caller supplied.
func (s *TournamentService) CreateTournament(ctx context.Context, organizerID uuid.UUID, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" || input.MaxTeams == 0 {
		return nil, ErrNameAndMaxTeamsRequired
	}

	tournamentType := input.TournamentType
	if tournamentType == "" {
		tournamentType = defaultTournamentType
	}

	now := s.now()
	t := &models.Tournament{
		ID:                   uuid.New(),
		Name:                 input.Name,
		Description:          input.Description,
		TournamentType:       tournamentType,
		MaxTeams:             input.MaxTeams,
		RegisteredTeams:      0,
		StartDate:            input.StartDate,
		StartTime:            input.StartTime,
		MatchDurationMinutes: input.MatchDurationMinutes,
		BreakDurationMinutes: input.BreakDurationMinutes,
		CourtsAvailable:      input.CourtsAvailable,
		Status:               models.StatusDraft,
		OrganizerID:          organizerID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.tournaments.Create(ctx, t); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", t.ID.String()),
		slog.String("organizer_id", organizerID.String()))
	return t, nil
}

type UpdateTournamentInput struct {
	Name                 *string                  `json:"name" validate:"omitempty,min=3,max=100"`
	Description          *string                  `json:"description" validate:"omitempty,max=1000"`
	TournamentType       *string                  `json:"tournament_type" validate:"omitempty,oneof=poules_elimination"`
	MaxTeams             *int                     `json:"max_teams" validate:"omitempty,min=2,max=128"`
	StartDate            *time.Time               `json:"start_date"`
	StartTime            *time.Time               `json:"start_time"`
	MatchDurationMinutes *int                     `json:"match_duration_minutes" validate:"omitempty,min=5"`
	BreakDurationMinutes *int                     `json:"break_duration_minutes" validate:"omitempty,min=0"`
	CourtsAvailable      *int                     `json:"courts_available" validate:"omitempty,min=1"`
	Status               *models.TournamentStatus `json:"status"`

	// Stripped unconditionally: identity, ownership and creation time
	// are never client-writable. registered_teams has a single writer,
	// UpdateRegisteredTeamsCount.
	ID              interface{} `json:"id"`
	OrganizerID     interface{} `json:"organizer_id"`
	CreatedAt       interface{} `json:"created_at"`
	RegisteredTeams interface{} `json:"registered_teams"`
}

// UpdateTournament merges the patch into the stored record and
// refreshes updated_at. Protected fields in the patch are ignored.
func (s *TournamentService) UpdateTournament(ctx context.Context, id uuid.UUID, patch UpdateTournamentInput) (*models.Tournament, error) {
	t, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.TournamentType != nil {
		t.TournamentType = *patch.TournamentType
	}
	if patch.MaxTeams != nil {
		t.MaxTeams = *patch.MaxTeams
	}
	if patch.StartDate != nil {
		t.StartDate = patch.StartDate
	}
	if patch.StartTime != nil {
		t.StartTime = patch.StartTime
	}
	if patch.MatchDurationMinutes != nil {
		t.MatchDurationMinutes = patch.MatchDurationMinutes
	}
	if patch.BreakDurationMinutes != nil {
		t.BreakDurationMinutes = patch.BreakDurationMinutes
	}
	if patch.CourtsAvailable != nil {
		t.CourtsAvailable = patch.CourtsAvailable
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		t.Status = *patch.Status
	}
	t.UpdatedAt = s.now()

	if err := s.tournaments.Update(ctx, t); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.populateLogoURL(t)
	s.logger.Info("tournament updated", slog.String("tournament_id", id.String()))
	return t, nil
}

// DeleteTournament hard-deletes the record. Related rows are cleaned
// up by database cascades or by their owning services.
func (s *TournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	if err := s.tournaments.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.logger.Info("tournament deleted", slog.String("tournament_id", id.String()))
	return nil
}

func (s *TournamentService) DraftTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	return s.transition(ctx, id, models.ActionDraft)
}

func (s *TournamentService) PublishTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	return s.transition(ctx, id, models.ActionPublish)
}

func (s *TournamentService) StartTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	return s.transition(ctx, id, models.ActionStart)
}

func (s *TournamentService) FinishTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	return s.transition(ctx, id, models.ActionFinish)
}

func (s *TournamentService) CancelTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	return s.transition(ctx, id, models.ActionCancel)
}

// transition applies one lifecycle action. The transition table in
// models allows every action from every state; only start carries a
// guard. The read-check-write on start is not wrapped in a
// transaction: two concurrent starts can both pass the guard. Known
// race, kept as-is.
func (s *TournamentService) transition(ctx context.Context, id uuid.UUID, action models.StatusAction) (*models.Tournament, error) {
	target, ok := action.Target()
	if !ok {
		return nil, fmt.Errorf("unknown status action %q", action)
	}

	t, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if action == models.ActionStart && t.RegisteredTeams < 2 {
		return nil, ErrNotEnoughTeams
	}

	now := s.now()
	if err := s.tournaments.UpdateStatus(ctx, id, target, now); err != nil {
		return nil, mapRepositoryError(err)
	}
	t.Status = target
	t.UpdatedAt = now

	s.populateLogoURL(t)
	s.broadcast(t.ID, EventStatusChanged, t)
	s.logger.Info("tournament status changed",
		slog.String("tournament_id", id.String()),
		slog.String("action", string(action)),
		slog.String("status", string(target)))
	return t, nil
}

// UpdateRegisteredTeamsCount recounts the teams in registered or
// confirmed state and writes the result into registered_teams. It is
// the only writer of that column and is invoked by team-roster flows,
// not automatically. Count and write are separate statements, so a
// concurrent team change can leave the counter one refresh behind.
func (s *TournamentService) UpdateRegisteredTeamsCount(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	count, err := s.teams.CountRegistered(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.tournaments.UpdateRegisteredTeams(ctx, id, count, s.now()); err != nil {
		return nil, mapRepositoryError(err)
	}

	t, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.populateLogoURL(t)
	s.broadcast(t.ID, EventTeamsCountUpdated, t)
	s.logger.Info("registered teams count refreshed",
		slog.String("tournament_id", id.String()),
		slog.Int("registered_teams", count))
	return t, nil
}

// GetTournament returns the tournament joined with its organizer
// profile, teams, matches and rankings. The related reads fan out
// concurrently; they touch disjoint fields of the record.
func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	t, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		organizer, err := s.profiles.GetByID(gCtx, t.OrganizerID)
		if err != nil {
			if errors.Is(err, repositories.ErrProfileNotFound) {
				return nil
			}
			return err
		}
		t.Organizer = organizer
		return nil
	})
	g.Go(func() error {
		teams, err := s.teams.ListByTournament(gCtx, id)
		if err != nil {
			return err
		}
		t.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := s.matches.ListByTournament(gCtx, id)
		if err != nil {
			return err
		}
		t.Matches = matches
		return nil
	})
	g.Go(func() error {
		rankings, err := s.rankings.ListByTournament(gCtx, id)
		if err != nil {
			return err
		}
		t.Rankings = rankings
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.populateLogoURL(t)
	return t, nil
}

// GetTournamentWithTeams is the deep read: teams carry members with
// their profiles plus their ranking row, matches carry scores and
// phases, rankings are joined to team names and ordered by position.
func (s *TournamentService) GetTournamentWithTeams(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	t, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		organizer, err := s.profiles.GetByID(gCtx, t.OrganizerID)
		if err != nil {
			if errors.Is(err, repositories.ErrProfileNotFound) {
				return nil
			}
			return err
		}
		t.Organizer = organizer
		return nil
	})
	g.Go(func() error {
		teams, err := s.teams.ListByTournamentWithMembers(gCtx, id)
		if err != nil {
			return err
		}
		t.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := s.matches.ListDetailedByTournament(gCtx, id)
		if err != nil {
			return err
		}
		t.Matches = matches
		return nil
	})
	g.Go(func() error {
		rankings, err := s.rankings.ListByTournamentWithTeams(gCtx, id)
		if err != nil {
			return err
		}
		t.Rankings = rankings
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.populateLogoURL(t)
	return t, nil
}

type ListFilters struct {
	Status         string
	TournamentType string
	OrganizerID    string
}

type PageRequest struct {
	Page  int
	Limit int
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type TournamentList struct {
	Tournaments []models.Tournament `json:"tournaments"`
	Pagination  Pagination          `json:"pagination"`
}

// ListTournaments applies the sparse filters (empty values impose no
// constraint), paginates ordered by created_at descending, and runs a
// separate count over the same predicate.
func (s *TournamentService) ListTournaments(ctx context.Context, filters ListFilters, page PageRequest) (*TournamentList, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = 10
	}

	filter := repositories.ListTournamentsFilter{
		Limit:  page.Limit,
		Offset: (page.Page - 1) * page.Limit,
	}
	if filters.Status != "" {
		status := models.TournamentStatus(filters.Status)
		filter.Status = &status
	}
	if filters.TournamentType != "" {
		filter.TournamentType = &filters.TournamentType
	}
	if filters.OrganizerID != "" {
		organizerID, err := uuid.Parse(filters.OrganizerID)
		if err != nil {
			return nil, ErrInvalidOrganizerFilter
		}
		filter.OrganizerID = &organizerID
	}

	tournaments, err := s.tournaments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tournaments.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range tournaments {
		t := &tournaments[i]
		organizer, err := s.profiles.GetByID(ctx, t.OrganizerID)
		if err != nil && !errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, err
		}
		if organizer != nil {
			// The list projection exposes id, display_name and email.
			organizer.Role = ""
			t.Organizer = organizer
		}

		teams, err := s.teams.ListByTournament(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		for j := range teams {
			teams[j].SkillLevel = nil
		}
		t.Teams = teams
		s.populateLogoURL(t)
	}

	return &TournamentList{
		Tournaments: tournaments,
		Pagination: Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(page.Limit))),
		},
	}, nil
}

// GetTournamentStats returns the reporting projection with counts of
// related teams, matches and rankings.
func (s *TournamentService) GetTournamentStats(ctx context.Context, id uuid.UUID) (*models.TournamentStats, error) {
	stats, err := s.tournaments.GetStats(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return stats, nil
}

var allowedLogoContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadLogo stores the image in object storage, records its key on
// the tournament and removes the previous object if there was one.
func (s *TournamentService) UploadLogo(ctx context.Context, id uuid.UUID, contentType string, body io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrLogoStorageUnavailable
	}
	ext, ok := allowedLogoContentTypes[contentType]
	if !ok {
		return nil, ErrLogoInvalidContentType
	}

	t, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	key := fmt.Sprintf("tournaments/%s/logo-%d%s", id, s.now().UnixNano(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}

	oldKey := t.LogoKey
	if err := s.tournaments.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, mapRepositoryError(err)
	}
	t.LogoKey = &key

	if oldKey != nil && *oldKey != "" {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous logo",
				slog.String("tournament_id", id.String()),
				slog.String("key", *oldKey),
				slog.Any("error", err))
		}
	}

	s.populateLogoURL(t)
	s.logger.Info("tournament logo updated",
		slog.String("tournament_id", id.String()),
		slog.String("key", key))
	return t, nil
}

func (s *TournamentService) populateLogoURL(t *models.Tournament) {
	if t == nil || t.LogoKey == nil || *t.LogoKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*t.LogoKey); url != "" {
		t.LogoURL = &url
	}
}

func (s *TournamentService) broadcast(id uuid.UUID, eventType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	roomID := "tournament_" + id.String()
	s.notifier.BroadcastToRoom(roomID, statusEvent{
		Type:    eventType,
		Payload: payload,
		RoomID:  roomID,
	})
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, repositories.ErrTournamentInvalidOrganizer):
		return ErrInvalidOrganizerRef
	case errors.Is(err, repositories.ErrTournamentInUse):
		return ErrTournamentInUse
	default:
		return err
	}
}
