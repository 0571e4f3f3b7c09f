package routes

import (
	"appreciatemate/controllers"

	"github.com/gin-gonic/gin"
)

func GetSuggestionsRouteHandler(c *gin.Context) {
	controllers.GetSuggestions(c)
}

func GetInsightsRouteHandler(c *gin.Context) {
	controllers.GetInsights(c)
}
