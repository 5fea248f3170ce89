package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gdp-dashboard/internal/dashboard"
	"github.com/sells-group/gdp-dashboard/internal/filter"
	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error":      msg,
		"request_id": RequestID(r.Context()),
	})
}

// table fetches the fact table, answering 503 when it cannot be loaded.
func (s *Server) table(w http.ResponseWriter, r *http.Request) (*model.Table, bool) {
	t, err := s.tables.Table(r.Context())
	if err != nil {
		zap.L().Error("api: fact table unavailable",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, r, http.StatusServiceUnavailable, "fact table unavailable")
		return nil, false
	}
	return t, true
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) years(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	cal := filter.CalendarOf(t)
	writeJSON(w, http.StatusOK, map[string]any{
		"first":         cal.First,
		"last":          cal.Last,
		"sector_cutoff": t.SectorCutoff(),
	})
}

func (s *Server) regions(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, scope.ListRegions(t))
}

func (s *Server) states(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	region := r.URL.Query().Get("region")
	if !s.catalog.HasRegion(region) {
		writeError(w, r, http.StatusBadRequest, "unknown region "+strconv.Quote(region))
		return
	}
	writeJSON(w, http.StatusOK, scope.ListStates(t, region))
}

func (s *Server) municipalities(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, scope.ListMunicipalities(t, r.URL.Query().Get("state")))
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	t, ok := s.table(w, r)
	if !ok {
		return
	}

	fc, err := filter.Build(sel, s.catalog, filter.CalendarOf(t))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	view, err := dashboard.Build(r.Context(), t, fc, s.opts)
	if err != nil {
		zap.L().Error("api: build dashboard",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "dashboard build failed")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// parseSelection reads a filter.Selection from query parameters. List
// parameters accept repetition and comma separation.
func parseSelection(q url.Values) (filter.Selection, error) {
	sel := filter.Selection{
		Region:         q.Get("region"),
		State:          q.Get("state"),
		View:           q.Get("view"),
		Municipalities: list(q, "municipality"),
		States:         list(q, "states"),
		Regions:        list(q, "regions"),
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"year", &sel.Year},
		{"start", &sel.Start},
		{"end", &sel.End},
	} {
		raw := strings.TrimSpace(q.Get(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter.Selection{}, eris.Errorf("api: invalid %s %q", f.name, raw)
		}
		*f.dst = v
	}
	return sel, nil
}

func list(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
