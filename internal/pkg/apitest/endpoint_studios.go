package apitest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

type studiosEndpoint struct {
	state *State
}

func (s studiosEndpoint) routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", s.list)
	router.Get("/{sessionId}", s.get)
	router.Put("/{sessionId}/start", s.start)
	router.Put("/{sessionId}/stop", s.stop)
	return router
}

func (s studiosEndpoint) list(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	resp := api.StudioListResp{Studios: s.state.listStudios(workspaceID, r.URL.Query().Get("search"))}
	if resp.Studios == nil {
		resp.Studios = []*api.Studio{}
	}
	resp.TotalSize = len(resp.Studios)

	httpWriteResponse(w, http.StatusOK, &resp)
}

func (s studiosEndpoint) get(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	studio, err := s.state.readStudio(workspaceID, chi.URLParam(r, "sessionId"))
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	httpWriteResponse(w, http.StatusOK, studio)
}

func (s studiosEndpoint) start(w http.ResponseWriter, r *http.Request) {
	s.change(w, r, api.StudioStatusStarting)
}

func (s studiosEndpoint) stop(w http.ResponseWriter, r *http.Request) {
	s.change(w, r, api.StudioStatusStopping)
}

func (s studiosEndpoint) change(w http.ResponseWriter, r *http.Request, status string) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	resp, err := s.state.changeStudio(workspaceID, chi.URLParam(r, "sessionId"), status)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	httpWriteResponse(w, http.StatusOK, resp)
}
