package main

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/julienschmidt/httprouter"
)

// noDeadline clears a connection deadline.
var noDeadline time.Time

// OpsHandlerWrapper adapts a standard handler to the router.
func (api *APIHandler) OpsHandlerWrapper(h http.Handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h.ServeHTTP(w, r)
	}
}

// GetCPUProfile extends the write deadline since the profile
// duration may exceed the server write timeout.
//
//nolint:bodyclose
func (api *APIHandler) GetCPUProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(noDeadline)
	pprof.Profile(w, r)
}

//nolint:bodyclose
func (api *APIHandler) GetTraceProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(noDeadline)
	pprof.Trace(w, r)
}

func (api *APIHandler) GetSymbol(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pprof.Symbol(w, r)
}

func (api *APIHandler) GetCmdLine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pprof.Cmdline(w, r)
}
