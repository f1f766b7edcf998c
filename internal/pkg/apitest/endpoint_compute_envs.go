package apitest

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

type computeEnvsEndpoint struct {
	state *State
}

func (c computeEnvsEndpoint) routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", c.list)
	router.Get("/primary", c.primary)
	router.Get("/{computeEnvId}", c.get)
	return router
}

func (c computeEnvsEndpoint) list(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	status := r.URL.Query().Get("status")

	c.state.computeEnvsLock.RLock()
	defer c.state.computeEnvsLock.RUnlock()

	resp := api.ComputeEnvListResp{ComputeEnvs: []*api.ComputeEnv{}}

	for _, ce := range c.state.computeEnvs[workspaceID] {
		if status != "" && ce.Status != status {
			continue
		}
		resp.ComputeEnvs = append(resp.ComputeEnvs, ce)
	}

	httpWriteResponse(w, http.StatusOK, &resp)
}

func (c computeEnvsEndpoint) primary(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	c.state.computeEnvsLock.RLock()
	defer c.state.computeEnvsLock.RUnlock()

	resp := api.ComputeEnvGetResp{}

	for _, ce := range c.state.computeEnvs[workspaceID] {
		if ce.Primary {
			resp.ComputeEnv = ce
			break
		}
	}

	httpWriteResponse(w, http.StatusOK, &resp)
}

func (c computeEnvsEndpoint) get(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	id := chi.URLParam(r, "computeEnvId")

	c.state.computeEnvsLock.RLock()
	defer c.state.computeEnvsLock.RUnlock()

	for _, ce := range c.state.computeEnvs[workspaceID] {
		if ce.ID == id {
			httpWriteResponse(w, http.StatusOK, &api.ComputeEnvGetResp{ComputeEnv: ce})
			return
		}
	}

	httpWriteResponseError(w, NewResponseError(errors.New("compute environment not found"), http.StatusNotFound))
}
