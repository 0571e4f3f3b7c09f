package routes

import (
	"appreciatemate/controllers"

	"github.com/gin-gonic/gin"
)

func SendAppreciationRouteHandler(c *gin.Context) {
	controllers.SendAppreciation(c)
}

func GetReceivedAppreciationsRouteHandler(c *gin.Context) {
	controllers.GetReceivedAppreciations(c)
}
