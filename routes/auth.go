package routes

import (
	"appreciatemate/controllers"

	"github.com/gin-gonic/gin"
)

func SignupRouteHandler(c *gin.Context) {
	controllers.Signup(c)
}

func LoginRouteHandler(c *gin.Context) {
	controllers.Login(c)
}
