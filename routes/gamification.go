package routes

import (
	"appreciatemate/controllers"

	"github.com/gin-gonic/gin"
)

func GetStatsRouteHandler(c *gin.Context) {
	controllers.GetStats(c)
}

func GetAchievementsRouteHandler(c *gin.Context) {
	controllers.GetAchievements(c)
}

func AcknowledgeAchievementsRouteHandler(c *gin.Context) {
	controllers.AcknowledgeAchievements(c)
}

func GetMilestonesRouteHandler(c *gin.Context) {
	controllers.GetMilestones(c)
}

func GetLeaderboardRouteHandler(c *gin.Context) {
	controllers.GetLeaderboard(c)
}
