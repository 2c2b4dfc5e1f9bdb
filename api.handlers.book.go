package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// CreateBook godoc
// @Summary      Add a book
// @Description  Validates the book then adds it to the collection.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        book  body      BookInput  true  "book to add"
// @Success      201   {object}  APIResponse{data=Book}
// @Failure      400   {object}  APIError{data=[]string}
// @Router       /v1/books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in BookInput
	logger := api.GetLoggerFromContext(r.Context())
	if err := DecodeJSONBody(r, api.config.Server.MaxBodySize, &in); err != nil {
		logger.Error("failed to create book", zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to create the book", err.Error())
		return
	}

	if res := NewBook("", in, api.clock.Now().UTC()).Validate(); !res.IsValid {
		logger.Error("failed to create book", zap.Strings("book.errors", res.Errors))
		api.sendError(w, r, http.StatusBadRequest, "invalid book", res.Errors)
		return
	}

	book, err := api.bookService.AddBook(r.Context(), in)
	if err != nil {
		logger.Error("failed to create book", zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "failed to create the book", EmptyData)
		return
	}
	logger.Info("success to create book", zap.String("book.id", book.ID))
	api.send(w, r, http.StatusCreated, "Book created successfully.", nil, book)
}

// GetAllBooks godoc
// @Summary      List books
// @Description  Filters and sorts the collection.
// @Tags         books
// @Produce      json
// @Param        status  query     string  false  "toread, reading, read or all"
// @Param        genre   query     string  false  "genre or all"
// @Param        year    query     string  false  "publication year or all"
// @Param        search  query     string  false  "search term"
// @Param        sort    query     string  false  "date, title, year or rating"
// @Success      200     {object}  APIResponse{data=[]Book}
// @Failure      400     {object}  APIError
// @Router       /v1/books [get]
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	spec, err := ParseFilterSpec(r.URL.Query())
	if err != nil {
		logger.Error("failed to parse books filter", zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, err.Error(), EmptyData)
		return
	}

	books := FilterBooks(api.bookService.GetAllBooks(), spec)
	logger.Info("success to get all books", zap.Any("books.filter", spec))
	total := len(books)
	api.send(w, r, http.StatusOK, "All books fetched successfully.", &total, books)
}

// GetOneBook godoc
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "book id"
// @Success      200  {object}  APIResponse{data=Book}
// @Failure      404  {object}  APIError
// @Router       /v1/books/{id} [get]
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	logger := api.GetLoggerFromContext(r.Context()).With(zap.String("book.id", id))
	book, found := api.bookService.GetBookByID(id)
	if !found {
		logger.Error("book does not exist")
		api.sendError(w, r, http.StatusNotFound, "book does not exist", EmptyData)
		return
	}
	logger.Info("success to get book")
	api.send(w, r, http.StatusOK, "Book fetched successfully.", nil, book)
}

// UpdateBook godoc
// @Summary      Update a book
// @Description  Writes the provided fields over the stored book.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id    path      string     true  "book id"
// @Param        book  body      BookInput  true  "fields to update"
// @Success      200   {object}  APIResponse{data=Book}
// @Failure      400   {object}  APIError{data=[]string}
// @Failure      404   {object}  APIError
// @Router       /v1/books/{id} [put]
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in BookInput
	id := ps.ByName("id")
	logger := api.GetLoggerFromContext(r.Context()).With(zap.String("book.id", id))
	if err := DecodeJSONBody(r, api.config.Server.MaxBodySize, &in); err != nil {
		logger.Error("failed to update book", zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to update the book", err.Error())
		return
	}

	current, found := api.bookService.GetBookByID(id)
	if !found {
		logger.Error("book does not exist")
		api.sendError(w, r, http.StatusNotFound, "book does not exist", EmptyData)
		return
	}

	if res := current.Merge(in).Validate(); !res.IsValid {
		logger.Error("failed to update book", zap.Strings("book.errors", res.Errors))
		api.sendError(w, r, http.StatusBadRequest, "invalid book", res.Errors)
		return
	}

	book, err := api.bookService.UpdateBook(r.Context(), id, in)
	if errors.Is(err, ErrBookNotFound) {
		logger.Error("book does not exist")
		api.sendError(w, r, http.StatusNotFound, "book does not exist", EmptyData)
		return
	}
	if err != nil {
		logger.Error("failed to update book", zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "failed to update the book", EmptyData)
		return
	}
	logger.Info("success to update book")
	api.send(w, r, http.StatusOK, "Book updated successfully.", nil, book)
}

// DeleteOneBook godoc
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "book id"
// @Success      200  {object}  APIResponse{data=Book}
// @Failure      404  {object}  APIError
// @Router       /v1/books/{id} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	logger := api.GetLoggerFromContext(r.Context()).With(zap.String("book.id", id))
	book, err := api.bookService.DeleteBook(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		logger.Error("book does not exist")
		api.sendError(w, r, http.StatusNotFound, "book does not exist", EmptyData)
		return
	}
	if err != nil {
		logger.Error("failed to delete book", zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "failed to delete the book", EmptyData)
		return
	}
	logger.Info("success to delete book")
	api.send(w, r, http.StatusOK, "Book deleted successfully.", nil, book)
}

// DeleteAllBooks godoc
// @Summary      Empty the collection
// @Tags         books
// @Produce      json
// @Success      200  {object}  APIResponse
// @Router       /v1/books [delete]
func (api *APIHandler) DeleteAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	if err := api.bookService.ClearAll(r.Context()); err != nil {
		logger.Error("failed to delete all books", zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "failed to delete all books", EmptyData)
		return
	}
	logger.Info("success to delete all books")
	api.send(w, r, http.StatusOK, "All books deleted successfully.", nil, EmptyData)
}

// SearchBooks godoc
// @Summary      Search books
// @Description  Case-insensitive match on title, author and genre.
// @Tags         books
// @Produce      json
// @Param        q    query     string  true  "search term"
// @Success      200  {object}  APIResponse{data=[]Book}
// @Router       /v1/search [get]
func (api *APIHandler) SearchBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("q")
	books := api.bookService.SearchBooks(query)
	api.GetLoggerFromContext(r.Context()).Info("success to search books", zap.String("books.query", query))
	total := len(books)
	api.send(w, r, http.StatusOK, "Books searched successfully.", &total, books)
}

// GetGenres godoc
// @Summary      List default genres
// @Tags         books
// @Produce      json
// @Success      200  {object}  APIResponse{data=[]string}
// @Router       /v1/genres [get]
func (api *APIHandler) GetGenres(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	genres := Genres()
	total := len(genres)
	api.send(w, r, http.StatusOK, "Genres fetched successfully.", &total, genres)
}

// GetBooksByGenre godoc
// @Summary      List books of a genre
// @Tags         books
// @Produce      json
// @Param        name  path      string  true  "genre"
// @Success      200   {object}  APIResponse{data=[]Book}
// @Router       /v1/genres/{name}/books [get]
func (api *APIHandler) GetBooksByGenre(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	books := api.bookService.GetBooksByGenre(ps.ByName("name"))
	total := len(books)
	api.send(w, r, http.StatusOK, "Books fetched successfully.", &total, books)
}

// GetBooksByStatus godoc
// @Summary      List books with a reading status
// @Tags         books
// @Produce      json
// @Param        status  path      string  true  "toread, reading or read"
// @Success      200     {object}  APIResponse{data=[]Book}
// @Router       /v1/statuses/{status}/books [get]
func (api *APIHandler) GetBooksByStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	books := api.bookService.GetBooksByStatus(ps.ByName("status"))
	total := len(books)
	api.send(w, r, http.StatusOK, "Books fetched successfully.", &total, books)
}
