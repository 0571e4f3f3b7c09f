package routes

import (
	"appreciatemate/controllers"

	"github.com/gin-gonic/gin"
)

func CreateActivityRouteHandler(c *gin.Context) {
	controllers.CreateActivity(c)
}

func GetActivitiesRouteHandler(c *gin.Context) {
	controllers.GetActivities(c)
}

func GetCategoriesRouteHandler(c *gin.Context) {
	controllers.GetCategories(c)
}
