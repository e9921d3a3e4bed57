package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
)

// stubFacultyService is an in-memory FacultyService honoring the
// directory contracts, used to exercise the HTTP layer without a store.
type stubFacultyService struct {
	rows   map[int64]*models.Faculty
	nextID int64
}

func newStubFacultyService() *stubFacultyService {
	return &stubFacultyService{rows: map[int64]*models.Faculty{}, nextID: 1}
}

func (s *stubFacultyService) Create(_ context.Context, f *models.Faculty) (*models.Faculty, error) {
	id := f.ID
	if id <= 0 {
		id = s.nextID
	} else if _, exists := s.rows[id]; exists {
		return nil, apperrors.NewConflictError("duplicate id")
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}
	created := &models.Faculty{ID: id, Name: f.Name, Color: f.Color}
	s.rows[id] = created
	return created, nil
}

func (s *stubFacultyService) GetByID(_ context.Context, id int64) (*models.Faculty, error) {
	f, ok := s.rows[id]
	if !ok {
		return nil, apperrors.NewFacultyNotFound(id)
	}
	return f, nil
}

func (s *stubFacultyService) Update(_ context.Context, id int64, f *models.Faculty) (*models.Faculty, error) {
	existing, ok := s.rows[id]
	if !ok {
		return nil, apperrors.NewFacultyNotFound(id)
	}
	existing.Name = f.Name
	existing.Color = f.Color
	return existing, nil
}

func (s *stubFacultyService) Delete(_ context.Context, id int64) (*models.Faculty, error) {
	f, ok := s.rows[id]
	if !ok {
		return nil, apperrors.NewFacultyNotFound(id)
	}
	delete(s.rows, id)
	return f, nil
}

func (s *stubFacultyService) FindByColor(_ context.Context, color *string) ([]*models.Faculty, error) {
	out := []*models.Faculty{}
	for _, f := range s.rows {
		if color == nil || f.Color == *color {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *stubFacultyService) FindByColorOrName(_ context.Context, _ string) ([]*models.Faculty, error) {
	out := []*models.Faculty{}
	for _, f := range s.rows {
		out = append(out, f)
	}
	return out, nil
}

func newFacultyRouter(svc *stubFacultyService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewFacultyController(svc)
	router.POST("/faculties", ctrl.Create)
	router.GET("/faculties", ctrl.FindByColor)
	router.GET("/faculties/filter", ctrl.FindByColorOrName)
	router.GET("/faculties/:id", ctrl.GetByID)
	router.PUT("/faculties/:id", ctrl.Update)
	router.DELETE("/faculties/:id", ctrl.Delete)
	return router
}

func TestFacultyLifecycle(t *testing.T) {
	svc := newStubFacultyService()
	router := newFacultyRouter(svc)

	// Create
	body := bytes.NewBufferString(`{"name":"Gryffindor","color":"red"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/faculties", body))
	require.Equal(t, http.StatusOK, w.Code)

	var created models.Faculty
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Gryffindor", created.Name)
	assert.Equal(t, "red", created.Color)

	// Get reflects the created row
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/faculties/1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// Update replaces name, keeps id
	body = bytes.NewBufferString(`{"name":"Slytherin","color":"red"}`)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/faculties/1", body))
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Faculty
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, int64(1), updated.ID)
	assert.Equal(t, "Slytherin", updated.Name)

	// Delete returns the prior content
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/faculties/1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var deleted models.Faculty
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	assert.Equal(t, "Slytherin", deleted.Name)

	// Subsequent get is a localized 404
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/faculties/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Факультет с id = 1 не найден!", w.Body.String())
}

func TestFacultyCreateRoundTripsCallerID(t *testing.T) {
	router := newFacultyRouter(newStubFacultyService())

	body := bytes.NewBufferString(`{"id":55,"name":"Ravenclaw","color":"blue"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/faculties", body))
	require.Equal(t, http.StatusOK, w.Code)

	var created models.Faculty
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(55), created.ID)

	// The same id again is a conflict
	body = bytes.NewBufferString(`{"id":55,"name":"Other","color":"grey"}`)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/faculties", body))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFacultyCreateAssignsFreshIDAfterExplicitID(t *testing.T) {
	router := newFacultyRouter(newStubFacultyService())

	body := bytes.NewBufferString(`{"id":5,"name":"Ravenclaw","color":"blue"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/faculties", body))
	require.Equal(t, http.StatusOK, w.Code)

	// The store keeps assigning identities past explicitly supplied ids,
	// so an id-less create after an explicit one still succeeds with a
	// fresh identity instead of colliding.
	body = bytes.NewBufferString(`{"name":"Hufflepuff","color":"yellow"}`)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/faculties", body))
	require.Equal(t, http.StatusOK, w.Code)

	var created models.Faculty
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(6), created.ID)
}

func TestFacultyUpdateMissingIs404(t *testing.T) {
	router := newFacultyRouter(newStubFacultyService())

	body := bytes.NewBufferString(`{"name":"Hufflepuff","color":"yellow"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/faculties/99", body))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Факультет с id = 99 не найден!", w.Body.String())
}

func TestFacultyListAndColorFilter(t *testing.T) {
	svc := newStubFacultyService()
	_, err := svc.Create(context.Background(), &models.Faculty{Name: "Gryffindor", Color: "red"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &models.Faculty{Name: "Ravenclaw", Color: "blue"})
	require.NoError(t, err)
	router := newFacultyRouter(svc)

	// No parameter: everything
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/faculties", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Faculty
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	// Exact match only
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/faculties?color=red", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var red []models.Faculty
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &red))
	require.Len(t, red, 1)
	assert.Equal(t, "Gryffindor", red[0].Name)
}

func TestFacultyFilterRequiresTerm(t *testing.T) {
	router := newFacultyRouter(newStubFacultyService())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/faculties/filter", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFacultyBadIDIs400(t *testing.T) {
	router := newFacultyRouter(newStubFacultyService())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/faculties/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
