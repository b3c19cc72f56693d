package controllers

import (
	"github.com/gin-gonic/gin"
)

type Router struct {
	HealthController  *HealthController
	ESGController     *ESGController
	SearchController  *SearchController
	AuthController    *AuthController
	TickersController *TickersController

	QuestionnaireController *QuestionnaireController
}

func (r Router) RegisterRoutes(router gin.IRouter) {
	//
	// Anonymous requests
	//
	router.GET("/health", r.HealthController.Status)
	router.GET("/health/ready", r.HealthController.Ready)

	router.GET("/esg/all", r.ESGController.GetAll)
	router.GET("/esg/recent/:ticker", r.ESGController.GetRecent)
	router.GET("/esg/:ticker", r.ESGController.GetHistory)

	router.GET("/search/level/:category/:value", r.SearchController.ByLevel)
	router.GET("/search/score/greater/:scoreType/:score", r.SearchController.ByScoreGreater)
	router.GET("/search/score/lesser/:scoreType/:score", r.SearchController.ByScoreLesser)
	router.GET("/search/score/:scoreType/:low/:high", r.SearchController.ByScoreRange)
	router.GET("/search/company/:name", r.SearchController.ByCompany)

	r.RegisterAuthRoutes(router)
}

// RegisterAuthRoutes mounts registration, login, saved tickers and the
// investor questionnaire. They are also served on their own under /auth.
func (r Router) RegisterAuthRoutes(router gin.IRouter) {
	router.POST("/register", r.AuthController.Register)
	router.POST("/login", r.AuthController.Login)
	router.GET("/questionnaire/questions", r.QuestionnaireController.Questions)

	//
	// Authorized Requests
	//
	authorized := router.Group("/", RequireAuth)
	authorized.POST("/tickers", r.TickersController.Save)
	authorized.GET("/tickers", r.TickersController.List)
	authorized.PUT("/questionnaire/:questionId/submitAnswer", r.QuestionnaireController.SubmitAnswer)
	authorized.GET("/questionnaire/completed", r.QuestionnaireController.Completed)
}
