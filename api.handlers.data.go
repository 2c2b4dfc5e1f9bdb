package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// GetSettings godoc
// @Summary      Get user settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  APIResponse{data=UserSettings}
// @Router       /v1/settings [get]
func (api *APIHandler) GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	api.send(w, r, http.StatusOK, "Settings fetched successfully.", nil, api.storage.LoadUserSettings(r.Context()))
}

// PatchSettings godoc
// @Summary      Update user settings
// @Description  Only the provided top-level keys are changed.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        settings  body      SettingsPatch  true  "settings to change"
// @Success      200       {object}  APIResponse{data=UserSettings}
// @Failure      400       {object}  APIError
// @Router       /v1/settings [patch]
func (api *APIHandler) PatchSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var patch SettingsPatch
	logger := api.GetLoggerFromContext(r.Context())
	if err := DecodeJSONBody(r, api.config.Server.MaxBodySize, &patch); err != nil {
		logger.Error("failed to update settings", zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to update the settings", err.Error())
		return
	}
	if err := patch.Validate(); err != nil {
		logger.Error("failed to update settings", zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, err.Error(), EmptyData)
		return
	}
	if !api.storage.SaveUserSettings(r.Context(), patch) {
		api.sendError(w, r, http.StatusInternalServerError, "failed to save the settings", EmptyData)
		return
	}
	logger.Info("success to update settings")
	api.send(w, r, http.StatusOK, "Settings updated successfully.", nil, api.storage.LoadUserSettings(r.Context()))
}

// ExportData godoc
// @Summary      Export all data
// @Description  Downloads books and settings as a JSON document.
// @Tags         data
// @Produce      json
// @Success      200  {object}  DataEnvelope
// @Router       /v1/export [get]
//
//nolint:bodyclose
func (api *APIHandler) ExportData(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	if api.config.Server.WriteTimeout > 0 {
		rc := http.NewResponseController(w)
		if err := rc.SetWriteDeadline(api.clock.Now().Add(2 * api.config.Server.WriteTimeout)); err != nil {
			logger.Debug("http: failed to update the write deadline", zap.Error(err))
		}
	}

	data, ok := api.storage.ExportData(r.Context())
	if !ok {
		api.sendError(w, r, http.StatusInternalServerError, "failed to export the data", EmptyData)
		return
	}

	filename := fmt.Sprintf("bookshelf-export-%s.json", api.clock.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("failed to send export data", zap.Error(err))
		return
	}
	logger.Info("success to export data", zap.Int("export.size", len(data)))
}

// ImportData godoc
// @Summary      Import data
// @Description  Accepts an export document or a bare array of books.
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        data  body      DataEnvelope  true  "data to import"
// @Success      200   {object}  APIResponse{data=ImportResult}
// @Failure      400   {object}  APIError{data=ImportResult}
// @Router       /v1/import [post]
func (api *APIHandler) ImportData(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	data, err := ReadBody(r, api.config.Server.MaxBodySize)
	if err != nil {
		logger.Error("failed to import data", zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to read the data", ImportResult{Message: err.Error()})
		return
	}

	result := ImportDocument(r.Context(), api.bookService, data)
	if !result.Success {
		logger.Error("failed to import data", zap.String("import.message", result.Message))
		api.sendError(w, r, http.StatusBadRequest, "failed to import the data", result)
		return
	}
	logger.Info("success to import data", zap.String("import.message", result.Message))
	api.send(w, r, http.StatusOK, "Data imported successfully.", nil, result)
}

// ImportDocument replaces the collection with a bare array of books or
// applies an export document.
func ImportDocument(ctx context.Context, bs BookServiceProvider, data []byte) ImportResult {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		books, err := DecodeBooksJSON(data)
		if err != nil {
			return ImportResult{Success: false, Message: MsgImportInvalidFormat}
		}
		n, err := bs.ReplaceAll(ctx, books)
		if errors.Is(err, ErrStorageFailure) {
			return ImportResult{Success: false, Message: "failed to save imported books"}
		}
		if err != nil {
			return ImportResult{Success: false, Message: fmt.Sprintf("%s: %v", MsgImportInvalidFormat, err)}
		}
		return ImportResult{Success: true, Message: fmt.Sprintf("%d books imported", n)}
	}

	return bs.Import(ctx, data)
}

// ResetData godoc
// @Summary      Remove all data
// @Description  Deletes the books and the user settings.
// @Tags         data
// @Produce      json
// @Success      200  {object}  APIResponse
// @Router       /v1/data [delete]
func (api *APIHandler) ResetData(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	if err := api.bookService.Reset(r.Context()); err != nil {
		logger.Error("failed to remove all data", zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "failed to remove all data", EmptyData)
		return
	}
	logger.Info("success to remove all data")
	api.send(w, r, http.StatusOK, "All data removed successfully.", nil, EmptyData)
}
