package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
)

// stubStudentService is an in-memory StudentService honoring the
// directory contracts.
type stubStudentService struct {
	rows      map[int64]*models.Student
	faculties map[int64]*models.Faculty
	nextID    int64
}

func newStubStudentService() *stubStudentService {
	return &stubStudentService{
		rows:      map[int64]*models.Student{},
		faculties: map[int64]*models.Faculty{},
		nextID:    1,
	}
}

func (s *stubStudentService) Create(_ context.Context, st *models.Student) (*models.Student, error) {
	id := st.ID
	if id <= 0 {
		id = s.nextID
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}
	created := &models.Student{ID: id, Name: st.Name, Age: st.Age, FacultyID: st.FacultyID}
	s.rows[id] = created
	return created, nil
}

func (s *stubStudentService) GetByID(_ context.Context, id int64) (*models.Student, error) {
	st, ok := s.rows[id]
	if !ok {
		return nil, apperrors.NewStudentNotFound(id)
	}
	return st, nil
}

func (s *stubStudentService) Update(_ context.Context, id int64, st *models.Student) (*models.Student, error) {
	existing, ok := s.rows[id]
	if !ok {
		return nil, apperrors.NewStudentNotFound(id)
	}
	existing.Name = st.Name
	existing.Age = st.Age
	if st.FacultyID != nil {
		existing.FacultyID = st.FacultyID
	}
	return existing, nil
}

func (s *stubStudentService) Delete(_ context.Context, id int64) (*models.Student, error) {
	st, ok := s.rows[id]
	if !ok {
		return nil, apperrors.NewStudentNotFound(id)
	}
	delete(s.rows, id)
	return st, nil
}

func (s *stubStudentService) FindByAge(_ context.Context, age *int) ([]*models.Student, error) {
	out := []*models.Student{}
	for _, st := range s.rows {
		if age == nil || st.Age == *age {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *stubStudentService) FindByAgeBetween(_ context.Context, ageFrom, ageTo int) ([]*models.Student, error) {
	out := []*models.Student{}
	for _, st := range s.rows {
		if st.Age >= ageFrom && st.Age <= ageTo {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *stubStudentService) FacultyOf(_ context.Context, id int64) (*models.Faculty, error) {
	st, ok := s.rows[id]
	if !ok {
		return nil, apperrors.NewStudentNotFound(id)
	}
	if st.FacultyID == nil {
		return nil, nil
	}
	return s.faculties[*st.FacultyID], nil
}

func (s *stubStudentService) UploadAvatar(_ context.Context, id int64, fileHeader *multipart.FileHeader) (*models.Student, error) {
	st, ok := s.rows[id]
	if !ok {
		return nil, apperrors.NewStudentNotFound(id)
	}
	if fileHeader == nil || fileHeader.Size == 0 {
		return nil, fmt.Errorf("%w: upload is empty", apperrors.ErrInvalidUpload)
	}
	url := fmt.Sprintf("http://localhost:8088/avatars/%d/from-db", id)
	st.AvatarURL = &url
	return st, nil
}

func newStudentRouter(svc *stubStudentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewStudentController(svc)
	router.POST("/students", ctrl.Create)
	router.GET("/students", ctrl.FindByAge)
	router.GET("/students/filter", ctrl.FindByAgeBetween)
	router.GET("/students/:id", ctrl.GetByID)
	router.PUT("/students/:id", ctrl.Update)
	router.DELETE("/students/:id", ctrl.Delete)
	router.GET("/students/:id/faculty", ctrl.FacultyOf)
	router.PATCH("/students/:id/avatar", ctrl.UploadAvatar)
	return router
}

func avatarUploadRequest(t *testing.T, url string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("avatar", "harry.png")
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPatch, url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStudentLifecycle(t *testing.T) {
	router := newStudentRouter(newStubStudentService())

	body := bytes.NewBufferString(`{"name":"Harry","age":11}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/students", body))
	require.Equal(t, http.StatusOK, w.Code)

	var created models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Harry", created.Name)
	assert.Equal(t, 11, created.Age)
	assert.Nil(t, created.AvatarURL)

	// Unset references serialize as explicit nulls, not omitted keys
	assert.Contains(t, w.Body.String(), `"facultyId":null`)
	assert.Contains(t, w.Body.String(), `"avatarUrl":null`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/students/1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Студент с id = 1 не найден!", w.Body.String())
}

func TestStudentAgeFilters(t *testing.T) {
	svc := newStubStudentService()
	for _, st := range []models.Student{
		{Name: "Harry", Age: 11},
		{Name: "Hermione", Age: 12},
		{Name: "Cedric", Age: 17},
	} {
		_, err := svc.Create(context.Background(), &st)
		require.NoError(t, err)
	}
	router := newStudentRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students?age=11", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var exact []models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exact))
	require.Len(t, exact, 1)
	assert.Equal(t, "Harry", exact[0].Name)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/filter?ageFrom=11&ageTo=12", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var ranged []models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ranged))
	assert.Len(t, ranged, 2)

	// Bad parameters are rejected before reaching the service
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students?age=young", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/filter?ageFrom=11", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentFacultyAccessor(t *testing.T) {
	svc := newStubStudentService()
	facultyID := int64(3)
	svc.faculties[facultyID] = &models.Faculty{ID: facultyID, Name: "Gryffindor", Color: "red"}
	_, err := svc.Create(context.Background(), &models.Student{Name: "Harry", Age: 11, FacultyID: &facultyID})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &models.Student{Name: "Nobody", Age: 12})
	require.NoError(t, err)
	router := newStudentRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/1/faculty", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var faculty models.Faculty
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &faculty))
	assert.Equal(t, "Gryffindor", faculty.Name)

	// A student without a faculty yields null, not an error
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/2/faculty", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "null", w.Body.String())

	// A missing student is still a 404
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/9/faculty", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Студент с id = 9 не найден!", w.Body.String())
}

func TestStudentAvatarUpload(t *testing.T) {
	svc := newStubStudentService()
	_, err := svc.Create(context.Background(), &models.Student{Name: "Harry", Age: 11})
	require.NoError(t, err)
	router := newStudentRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, avatarUploadRequest(t, "/students/1/avatar", smallPNG(t)))
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.AvatarURL)
	assert.Contains(t, *updated.AvatarURL, "/avatars/")
	assert.Contains(t, *updated.AvatarURL, "/from-db")
}

func TestStudentAvatarUploadMissingStudent(t *testing.T) {
	router := newStudentRouter(newStubStudentService())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, avatarUploadRequest(t, "/students/77/avatar", smallPNG(t)))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Студент с id = 77 не найден!", w.Body.String())
}

func TestStudentAvatarUploadRequiresPart(t *testing.T) {
	svc := newStubStudentService()
	_, err := svc.Create(context.Background(), &models.Student{Name: "Harry", Age: 11})
	require.NoError(t, err)
	router := newStudentRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/students/1/avatar", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
