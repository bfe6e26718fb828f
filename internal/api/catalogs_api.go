package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"velamar/internal/metrics"
	"velamar/internal/models"
)

// CatalogAdmin is the catalog write surface, served for back-office
// maintenance of the resource registers.
type CatalogAdmin interface {
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
	SaveEquipment(ctx context.Context, eq models.Equipment) error
	ListProfessionals(ctx context.Context) ([]models.Professional, error)
	SaveProfessional(ctx context.Context, p models.Professional) error
	ListSkills(ctx context.Context) ([]models.Skill, error)
	SaveSkill(ctx context.Context, sk models.Skill) error
	ListDocks(ctx context.Context) ([]models.Dock, error)
	SaveDock(ctx context.Context, d models.Dock) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	SaveProduct(ctx context.Context, p models.Product) error
}

// handleCatalog lists or saves entries of one catalog.
// GET /api/catalog/{name}
// POST /api/catalog/{name}
func (s *HTTPServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("catalog")

	name := strings.TrimPrefix(r.URL.Path, "/api/catalog/")
	if s.admin == nil {
		writeError(w, http.StatusNotFound, "catalog administration is not enabled")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.listCatalog(w, r, name)
	case http.MethodPost:
		s.saveCatalogEntry(w, r, name)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listCatalog(w http.ResponseWriter, r *http.Request, name string) {
	ctx := r.Context()
	var (
		payload any
		err     error
	)
	switch name {
	case "equipment":
		payload, err = s.admin.ListEquipment(ctx)
	case "professionals":
		payload, err = s.admin.ListProfessionals(ctx)
	case "skills":
		payload, err = s.admin.ListSkills(ctx)
	case "docks":
		payload, err = s.admin.ListDocks(ctx)
	case "products":
		payload, err = s.admin.ListProducts(ctx)
	default:
		writeError(w, http.StatusNotFound, "unknown catalog")
		return
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{name: payload})
}

func (s *HTTPServer) saveCatalogEntry(w http.ResponseWriter, r *http.Request, name string) {
	ctx := r.Context()
	decode := func(v any) bool {
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return false
		}
		return true
	}

	var err error
	switch name {
	case "equipment":
		var eq models.Equipment
		if !decode(&eq) {
			return
		}
		err = s.admin.SaveEquipment(ctx, eq)
	case "professionals":
		var p models.Professional
		if !decode(&p) {
			return
		}
		err = s.admin.SaveProfessional(ctx, p)
	case "skills":
		var sk models.Skill
		if !decode(&sk) {
			return
		}
		err = s.admin.SaveSkill(ctx, sk)
	case "docks":
		var d models.Dock
		if !decode(&d) {
			return
		}
		err = s.admin.SaveDock(ctx, d)
	case "products":
		var p models.Product
		if !decode(&p) {
			return
		}
		err = s.admin.SaveProduct(ctx, p)
	default:
		writeError(w, http.StatusNotFound, "unknown catalog")
		return
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
