package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/courtside/tournament-service/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// envelope is the uniform response shape of the API. data is null on
// failure.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data interface{}) {
	env := envelope{Success: success, Message: message, Data: data}
	js, err := json.Marshal(env)
	if err != nil {
		slog.Error("failed to marshal response envelope", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		slog.Error("failed to write response", slog.Any("error", err))
	}
}

func successResponse(w http.ResponseWriter, status int, message string, data interface{}) {
	writeEnvelope(w, status, true, message, data)
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, false, message, nil)
}

func badRequestResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusNotFound, "Tournoi non trouvé")
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	errorResponse(w, http.StatusInternalServerError, "Erreur interne du serveur")
}

// mapServiceErrorToHTTP classifies service-layer errors. Anything
// unrecognized is an internal fault.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrTournamentNotFound):
		notFoundResponse(w)

	case errors.Is(err, services.ErrNameAndMaxTeamsRequired),
		errors.Is(err, services.ErrNotEnoughTeams),
		errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidOrganizerFilter),
		errors.Is(err, services.ErrInvalidOrganizerRef),
		errors.Is(err, services.ErrLogoInvalidContentType):
		badRequestResponse(w, err)

	case errors.Is(err, services.ErrTournamentNameConflict),
		errors.Is(err, services.ErrTournamentInUse):
		errorResponse(w, http.StatusConflict, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

func getUUIDFromURL(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("L'ID doit être un UUID valide.")
	}
	return id, nil
}

// validateInput runs the struct tags and folds field failures into a
// single message.
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return err
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, fmt.Sprintf("%s: failed on %q", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", services.ErrValidationFailed, strings.Join(messages, "; "))
	}
	return err
}
