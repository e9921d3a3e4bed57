package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/app/services"
	"github.com/yigit/hogwarts/internal/middleware"
)

// StudentController handles student directory requests
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// Create handles POST /students
func (c *StudentController) Create(ctx *gin.Context) {
	var student models.Student
	if err := ctx.ShouldBindJSON(&student); err != nil {
		ctx.String(http.StatusBadRequest, "invalid student data: %s", err.Error())
		return
	}

	created, err := c.studentService.Create(ctx, &student)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, created)
}

// GetByID handles GET /students/:id
func (c *StudentController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// Update handles PUT /students/:id
func (c *StudentController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var student models.Student
	if err := ctx.ShouldBindJSON(&student); err != nil {
		ctx.String(http.StatusBadRequest, "invalid student data: %s", err.Error())
		return
	}

	updated, err := c.studentService.Update(ctx, id, &student)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /students/:id and returns the removed record.
func (c *StudentController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	deleted, err := c.studentService.Delete(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, deleted)
}

// FindByAge handles GET /students with an optional exact-match age
// query parameter.
func (c *StudentController) FindByAge(ctx *gin.Context) {
	var age *int
	if value, present := ctx.GetQuery("age"); present {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			ctx.String(http.StatusBadRequest, "invalid age: %s", value)
			return
		}
		age = &parsed
	}

	students, err := c.studentService.FindByAge(ctx, age)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// FindByAgeBetween handles GET /students/filter?ageFrom=&ageTo=
func (c *StudentController) FindByAgeBetween(ctx *gin.Context) {
	ageFrom, err := strconv.Atoi(ctx.Query("ageFrom"))
	if err != nil {
		ctx.String(http.StatusBadRequest, "invalid ageFrom: %s", ctx.Query("ageFrom"))
		return
	}

	ageTo, err := strconv.Atoi(ctx.Query("ageTo"))
	if err != nil {
		ctx.String(http.StatusBadRequest, "invalid ageTo: %s", ctx.Query("ageTo"))
		return
	}

	students, err := c.studentService.FindByAgeBetween(ctx, ageFrom, ageTo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// FacultyOf handles GET /students/:id/faculty. A student without a
// faculty yields a JSON null body, not an error.
func (c *StudentController) FacultyOf(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	faculty, err := c.studentService.FacultyOf(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, faculty)
}

// UploadAvatar handles PATCH /students/:id/avatar with a multipart
// form whose file part is named "avatar".
func (c *StudentController) UploadAvatar(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		ctx.String(http.StatusBadRequest, "multipart field 'avatar' is required")
		return
	}

	student, err := c.studentService.UploadAvatar(ctx, id, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}
