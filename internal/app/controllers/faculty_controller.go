package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/app/services"
	"github.com/yigit/hogwarts/internal/middleware"
)

// FacultyController handles faculty directory requests
type FacultyController struct {
	facultyService services.FacultyService
}

// NewFacultyController creates a new FacultyController
func NewFacultyController(facultyService services.FacultyService) *FacultyController {
	return &FacultyController{
		facultyService: facultyService,
	}
}

func parseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.String(http.StatusBadRequest, "invalid id: %s", ctx.Param("id"))
		return 0, false
	}
	return id, true
}

// Create handles POST /faculties
func (c *FacultyController) Create(ctx *gin.Context) {
	var faculty models.Faculty
	if err := ctx.ShouldBindJSON(&faculty); err != nil {
		ctx.String(http.StatusBadRequest, "invalid faculty data: %s", err.Error())
		return
	}

	created, err := c.facultyService.Create(ctx, &faculty)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, created)
}

// GetByID handles GET /faculties/:id
func (c *FacultyController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	faculty, err := c.facultyService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, faculty)
}

// Update handles PUT /faculties/:id
func (c *FacultyController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var faculty models.Faculty
	if err := ctx.ShouldBindJSON(&faculty); err != nil {
		ctx.String(http.StatusBadRequest, "invalid faculty data: %s", err.Error())
		return
	}

	updated, err := c.facultyService.Update(ctx, id, &faculty)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /faculties/:id and returns the removed record.
func (c *FacultyController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	deleted, err := c.facultyService.Delete(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, deleted)
}

// FindByColor handles GET /faculties with an optional exact-match
// color query parameter.
func (c *FacultyController) FindByColor(ctx *gin.Context) {
	var color *string
	if value, present := ctx.GetQuery("color"); present {
		color = &value
	}

	faculties, err := c.facultyService.FindByColor(ctx, color)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, faculties)
}

// FindByColorOrName handles GET /faculties/filter?colorOrName=
func (c *FacultyController) FindByColorOrName(ctx *gin.Context) {
	term, present := ctx.GetQuery("colorOrName")
	if !present {
		ctx.String(http.StatusBadRequest, "query parameter colorOrName is required")
		return
	}

	faculties, err := c.facultyService.FindByColorOrName(ctx, term)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, faculties)
}
