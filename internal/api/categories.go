package api

import (
	"net/http"

	"github.com/SigNoz/ecommerce-rest-api/internal/models"
)

func (a *App) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categoryService.FindAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (a *App) GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	category, err := a.categoryService.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// CreateCategoryHandler handles POST /categories
func (a *App) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := a.categoryService.Insert(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	loc, err := a.location(r, routeCategory, category.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", loc)
	writeJSON(w, http.StatusCreated, category)
}

// DeleteCategoryHandler handles DELETE /categories/{id}; categories still
// linked to a product are rejected
func (a *App) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.categoryService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
