package apitest

import (
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

type orgsEndpoint struct {
	state *State
}

func (o orgsEndpoint) routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", o.list)
	router.Get("/{orgId}", o.get)
	router.Get("/{orgId}/workspaces", o.workspaces)
	router.Get("/{orgId}/workspaces/{workspaceId}", o.workspace)
	return router
}

func (o orgsEndpoint) list(w http.ResponseWriter, _ *http.Request) {
	o.state.lock.RLock()
	defer o.state.lock.RUnlock()

	resp := api.OrgListResp{}

	for _, org := range o.state.orgs {
		resp.Organizations = append(resp.Organizations, org)
	}
	slices.SortFunc(resp.Organizations, func(a, b *api.Organization) int { return int(a.OrgID - b.OrgID) })
	resp.TotalSize = len(resp.Organizations)

	httpWriteResponse(w, http.StatusOK, &resp)
}

func (o orgsEndpoint) get(w http.ResponseWriter, r *http.Request) {

	orgID, err := int64Param(r, "orgId")
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	o.state.lock.RLock()
	defer o.state.lock.RUnlock()

	org, ok := o.state.orgs[orgID]
	if !ok {
		httpWriteResponseError(w, NewResponseError(errors.New("organization not found"), http.StatusNotFound))
		return
	}

	httpWriteResponse(w, http.StatusOK, &api.OrgGetResp{Organization: org})
}

func (o orgsEndpoint) workspaces(w http.ResponseWriter, r *http.Request) {

	orgID, err := int64Param(r, "orgId")
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	o.state.lock.RLock()
	defer o.state.lock.RUnlock()

	if _, ok := o.state.orgs[orgID]; !ok {
		httpWriteResponseError(w, NewResponseError(errors.New("organization not found"), http.StatusNotFound))
		return
	}

	httpWriteResponse(w, http.StatusOK, &api.OrgWorkspacesResp{Workspaces: o.state.workspaces[orgID]})
}

func (o orgsEndpoint) workspace(w http.ResponseWriter, r *http.Request) {

	orgID, err := int64Param(r, "orgId")
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}
	workspaceID, err := int64Param(r, "workspaceId")
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	o.state.lock.RLock()
	defer o.state.lock.RUnlock()

	idx := slices.IndexFunc(o.state.workspaces[orgID], func(ws *api.Workspace) bool { return ws.ID == workspaceID })
	if idx < 0 {
		httpWriteResponseError(w, NewResponseError(errors.New("workspace not found"), http.StatusNotFound))
		return
	}

	httpWriteResponse(w, http.StatusOK, &api.WorkspaceGetResp{Workspace: o.state.workspaces[orgID][idx]})
}
