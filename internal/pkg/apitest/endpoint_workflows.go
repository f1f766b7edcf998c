package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

type workflowsEndpoint struct {
	state *State
}

func (e workflowsEndpoint) routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", e.list)
	router.Post("/launch", e.launch)
	router.Get("/{workflowId}", e.get)
	router.Delete("/{workflowId}", e.delete)
	router.Get("/{workflowId}/progress", e.progress)
	router.Post("/{workflowId}/cancel", e.cancel)
	return router
}

func (e workflowsEndpoint) launch(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	var req api.WorkflowLaunchReq

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpWriteResponseError(w, NewResponseError(fmt.Errorf("failed to decode object: %w", err), http.StatusBadRequest))
		return
	}

	id, err := e.state.launchWorkflow(workspaceID, req.Launch)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	httpWriteResponse(w, http.StatusOK, &api.WorkflowLaunchResp{WorkflowID: id})
}

func (e workflowsEndpoint) list(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	resp := api.WorkflowListResp{Workflows: []*api.WorkflowListElement{}}

	for _, wf := range e.state.listWorkflows(workspaceID, r.URL.Query().Get("search")) {
		resp.Workflows = append(resp.Workflows, &api.WorkflowListElement{Workflow: wf})
	}
	resp.TotalSize = len(resp.Workflows)

	httpWriteResponse(w, http.StatusOK, &resp)
}

func (e workflowsEndpoint) get(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	wf, err := e.state.readWorkflow(workspaceID, chi.URLParam(r, "workflowId"))
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	httpWriteResponse(w, http.StatusOK, &api.WorkflowGetResp{Workflow: wf})
}

func (e workflowsEndpoint) progress(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	progress, err := e.state.readProgress(workspaceID, chi.URLParam(r, "workflowId"))
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	httpWriteResponse(w, http.StatusOK, &api.WorkflowProgressResp{Progress: progress})
}

func (e workflowsEndpoint) cancel(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	if err := e.state.cancelWorkflow(workspaceID, chi.URLParam(r, "workflowId")); err != nil {
		httpWriteResponseError(w, err)
		return
	}

	httpWriteResponse(w, http.StatusNoContent, nil)
}

func (e workflowsEndpoint) delete(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	if err := e.state.deleteWorkflow(workspaceID, chi.URLParam(r, "workflowId")); err != nil {
		httpWriteResponseError(w, err)
		return
	}

	httpWriteResponse(w, http.StatusNoContent, nil)
}
