package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	facultyController *controllers.FacultyController,
	studentController *controllers.StudentController,
	avatarController *controllers.AvatarController,
) {
	faculties := router.Group("/faculties")
	{
		faculties.POST("", facultyController.Create)
		faculties.GET("", facultyController.FindByColor)
		faculties.GET("/filter", facultyController.FindByColorOrName)
		faculties.GET("/:id", facultyController.GetByID)
		faculties.PUT("/:id", facultyController.Update)
		faculties.DELETE("/:id", facultyController.Delete)
	}

	students := router.Group("/students")
	{
		students.POST("", studentController.Create)
		students.GET("", studentController.FindByAge)
		students.GET("/filter", studentController.FindByAgeBetween)
		students.GET("/:id", studentController.GetByID)
		students.PUT("/:id", studentController.Update)
		students.DELETE("/:id", studentController.Delete)
		students.GET("/:id/faculty", studentController.FacultyOf)
		students.PATCH("/:id/avatar", studentController.UploadAvatar)
	}

	avatars := router.Group("/avatars")
	{
		avatars.GET("/:id/from-db", avatarController.FromDB)
		avatars.GET("/:id/from-file", avatarController.FromFile)
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
}
