package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/courtside/tournament-service/middleware"
	"github.com/courtside/tournament-service/models"
	"github.com/courtside/tournament-service/services"
	"github.com/google/uuid"
)

type TournamentHandler struct {
	tournamentService *services.TournamentService
}

func NewTournamentHandler(ts *services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// CreateHandler handles POST /api/tournaments/organizer/{organizerID}.
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	organizerID, err := getUUIDFromURL(r, "organizerID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	// Organizers may only create tournaments under their own ID;
	// admins are unrestricted.
	if !middleware.CallerOwnsResource(r.Context(), organizerID) {
		errorResponse(w, http.StatusForbidden, "Accès refusé - Propriétaire du tournoi requis")
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := validateInput(input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), organizerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, http.StatusCreated, "Tournoi créé avec succès", tournament)
}

// GetByIDHandler handles GET /api/tournaments/{tournamentID}.
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Tournoi récupéré avec succès", tournament)
}

// GetWithTeamsHandler handles GET /api/tournaments/{tournamentID}/teams.
func (h *TournamentHandler) GetWithTeamsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.GetTournamentWithTeams(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Tournoi avec équipes récupéré avec succès", tournament)
}

// ListHandler handles GET /api/tournaments. Filters and pagination
// come from the query string; unparseable page/limit fall back to the
// defaults.
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filters := services.ListFilters{
		Status:         query.Get("status"),
		TournamentType: query.Get("tournament_type"),
		OrganizerID:    query.Get("organizer_id"),
	}
	page := services.PageRequest{
		Page:  parseIntOrDefault(query.Get("page"), 1),
		Limit: parseIntOrDefault(query.Get("limit"), 10),
	}

	result, err := h.tournamentService.ListTournaments(r.Context(), filters, page)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Tournois récupérés avec succès", result)
}

// UpdateHandler handles PATCH /api/tournaments/{tournamentID}.
func (h *TournamentHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var patch services.UpdateTournamentInput
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := validateInput(patch); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.UpdateTournament(r.Context(), id, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Tournoi mis à jour avec succès", tournament)
}

// DeleteHandler handles DELETE /api/tournaments/{tournamentID}.
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Tournoi supprimé avec succès", nil)
}

// Lifecycle transitions, PATCH /api/tournaments/{tournamentID}/{action}.

func (h *TournamentHandler) DraftHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tournamentService.DraftTournament, "Tournoi mis en brouillon avec succès")
}

func (h *TournamentHandler) PublishHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tournamentService.PublishTournament, "Tournoi publié avec succès")
}

func (h *TournamentHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tournamentService.StartTournament, "Tournoi démarré avec succès")
}

func (h *TournamentHandler) FinishHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tournamentService.FinishTournament, "Tournoi terminé avec succès")
}

func (h *TournamentHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tournamentService.CancelTournament, "Tournoi annulé avec succès")
}

func (h *TournamentHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id uuid.UUID) (*models.Tournament, error),
	message string,
) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := op(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, message, tournament)
}

// RefreshTeamCountHandler handles
// POST /api/tournaments/{tournamentID}/refresh-team-count. Called by
// team-roster flows after a roster change.
func (h *TournamentHandler) RefreshTeamCountHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.UpdateRegisteredTeamsCount(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Compteur d'équipes mis à jour avec succès", tournament)
}

// StatsHandler handles GET /api/tournaments/{tournamentID}/stats.
func (h *TournamentHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	stats, err := h.tournamentService.GetTournamentStats(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Statistiques récupérées avec succès", stats)
}

// UploadLogoHandler handles POST /api/tournaments/{tournamentID}/logo
// with a multipart form field named "logo".
func (h *TournamentHandler) UploadLogoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		errorResponse(w, http.StatusBadRequest, "Fichier logo invalide")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Le champ logo est requis")
		return
	}
	defer file.Close()

	tournament, err := h.tournamentService.UploadLogo(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, http.StatusOK, "Logo du tournoi mis à jour avec succès", tournament)
}

func parseIntOrDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
