package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// GetCollectionStats godoc
// @Summary      Collection statistics
// @Tags         stats
// @Produce      json
// @Success      200  {object}  APIResponse{data=CollectionStats}
// @Router       /v1/stats [get]
func (api *APIHandler) GetCollectionStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats := ComputeStatistics(api.bookService.GetAllBooks())
	api.send(w, r, http.StatusOK, "Statistics computed successfully.", nil, stats)
}

// GetStatsSummary godoc
// @Summary      Compact collection summary
// @Tags         stats
// @Produce      json
// @Success      200  {object}  APIResponse{data=BookStats}
// @Router       /v1/stats/summary [get]
func (api *APIHandler) GetStatsSummary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	api.send(w, r, http.StatusOK, "Summary computed successfully.", nil, api.bookService.GetStats())
}

// GetReadingReport godoc
// @Summary      Reading report
// @Description  Top rated and recent books, reading goal progress.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  APIResponse{data=ReadingReport}
// @Router       /v1/stats/report [get]
func (api *APIHandler) GetReadingReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	report := BuildReadingReport(api.bookService.GetAllBooks(), api.storage.LoadUserSettings(r.Context()))
	api.send(w, r, http.StatusOK, "Report built successfully.", nil, report)
}
