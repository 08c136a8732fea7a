package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

type HealthHandler struct {
	db             *sql.DB
	authServiceURL string
	teamServiceURL string
	client         *http.Client
}

func NewHealthHandler(db *sql.DB, authServiceURL, teamServiceURL string) *HealthHandler {
	return &HealthHandler{
		db:             db,
		authServiceURL: authServiceURL,
		teamServiceURL: teamServiceURL,
		client:         &http.Client{Timeout: 3 * time.Second},
	}
}

// SimpleHandler is the cheap probe for load balancers: one DB ping.
func (h *HealthHandler) SimpleHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := h.db.PingContext(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "error"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type dependencyCheck struct {
	Status         string `json:"status"`
	ResponseTimeMS int64  `json:"responseTime"`
	Error          string `json:"error,omitempty"`
}

// DetailedHandler checks every dependency concurrently and reports
// per-dependency status. 503 when any of them is down.
func (h *HealthHandler) DetailedHandler(w http.ResponseWriter, r *http.Request) {
	checks := map[string]*dependencyCheck{
		"database": h.runCheck(r.Context(), func(ctx context.Context) error {
			return h.db.PingContext(ctx)
		}),
	}

	g, gCtx := errgroup.WithContext(r.Context())
	results := make([]*dependencyCheck, 2)
	targets := []struct {
		name string
		url  string
	}{
		{"authService", h.authServiceURL},
		{"teamService", h.teamServiceURL},
	}
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			if target.url == "" {
				results[i] = &dependencyCheck{Status: "skipped"}
				return nil
			}
			results[i] = h.runCheck(gCtx, func(ctx context.Context) error {
				return h.pingService(ctx, target.url+"/health")
			})
			return nil
		})
	}
	_ = g.Wait()
	for i, target := range targets {
		checks[target.name] = results[i]
	}

	healthy := true
	for _, check := range checks {
		if check.Status == "down" {
			healthy = false
		}
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    overall,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  checks,
	})
}

func (h *HealthHandler) runCheck(ctx context.Context, probe func(context.Context) error) *dependencyCheck {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	check := &dependencyCheck{Status: "up"}
	if err := probe(checkCtx); err != nil {
		check.Status = "down"
		check.Error = err.Error()
	}
	check.ResponseTimeMS = time.Since(start).Milliseconds()
	return check
}

func (h *HealthHandler) pingService(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service responded with status %d", resp.StatusCode)
	}
	return nil
}
