package apitest

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

type pipelinesEndpoint struct {
	state *State
}

func (p pipelinesEndpoint) routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", p.list)
	router.Get("/{pipelineId}", p.get)
	router.Get("/{pipelineId}/launch", p.launch)
	return router
}

func (p pipelinesEndpoint) list(w http.ResponseWriter, r *http.Request) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	search := r.URL.Query().Get("search")

	p.state.pipelinesLock.RLock()
	defer p.state.pipelinesLock.RUnlock()

	resp := api.PipelineListResp{}

	for _, pipeline := range p.state.pipelines {
		if pipeline.WorkspaceID != workspaceID {
			continue
		}
		if search != "" && !strings.Contains(pipeline.Name, search) {
			continue
		}
		resp.Pipelines = append(resp.Pipelines, pipeline)
	}
	slices.SortFunc(resp.Pipelines, func(a, b *api.Pipeline) int { return strings.Compare(a.Name, b.Name) })
	resp.TotalSize = len(resp.Pipelines)

	httpWriteResponse(w, http.StatusOK, &resp)
}

func (p pipelinesEndpoint) lookup(r *http.Request) (*api.Pipeline, error) {

	workspaceID, err := workspaceParam(r)
	if err != nil {
		return nil, err
	}
	id, err := int64Param(r, "pipelineId")
	if err != nil {
		return nil, err
	}

	pipeline, ok := p.state.pipelines[id]
	if !ok || pipeline.WorkspaceID != workspaceID {
		return nil, NewResponseError(errors.New("pipeline not found"), http.StatusNotFound)
	}
	return pipeline, nil
}

func (p pipelinesEndpoint) get(w http.ResponseWriter, r *http.Request) {

	p.state.pipelinesLock.RLock()
	defer p.state.pipelinesLock.RUnlock()

	pipeline, err := p.lookup(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	httpWriteResponse(w, http.StatusOK, &api.PipelineGetResp{Pipeline: pipeline})
}

func (p pipelinesEndpoint) launch(w http.ResponseWriter, r *http.Request) {

	p.state.pipelinesLock.RLock()
	defer p.state.pipelinesLock.RUnlock()

	pipeline, err := p.lookup(r)
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	launch, ok := p.state.launches[pipeline.PipelineID]
	if !ok {
		httpWriteResponseError(w, NewResponseError(errors.New("launch not found"), http.StatusNotFound))
		return
	}

	httpWriteResponse(w, http.StatusOK, &api.PipelineLaunchResp{Launch: launch})
}
