package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupBookRoutes injects the books, statistics and data endpoints.
func (api *APIHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))

	router.POST("/v1/books", m.public(api.CreateBook))
	router.GET("/v1/books", m.public(api.GetAllBooks))
	router.DELETE("/v1/books", m.public(api.DeleteAllBooks))
	router.GET("/v1/books/:id", m.public(api.GetOneBook))
	router.PUT("/v1/books/:id", m.public(api.UpdateBook))
	router.DELETE("/v1/books/:id", m.public(api.DeleteOneBook))
	router.GET("/v1/search", m.public(api.SearchBooks))
	router.GET("/v1/genres", m.public(api.GetGenres))
	router.GET("/v1/genres/:name/books", m.public(api.GetBooksByGenre))
	router.GET("/v1/statuses/:status/books", m.public(api.GetBooksByStatus))

	router.GET("/v1/stats", m.public(api.GetCollectionStats))
	router.GET("/v1/stats/summary", m.public(api.GetStatsSummary))
	router.GET("/v1/stats/report", m.public(api.GetReadingReport))

	router.GET("/v1/settings", m.public(api.GetSettings))
	router.PATCH("/v1/settings", m.public(api.PatchSettings))
	router.GET("/v1/export", m.public(api.ExportData))
	router.POST("/v1/import", m.public(api.ImportData))
	router.DELETE("/v1/data", m.public(api.ResetData))
	return router
}
