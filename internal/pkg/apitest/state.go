package apitest

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

// Unavailable can be used in a scripted status sequence to make the status
// endpoint fail with a 503 for that read.
const Unavailable = "<unavailable>"

// Identifiers of the default fixture.
const (
	UserID = int64(1)

	OrgAcme  = int64(10)
	OrgOther = int64(11)

	WorkspaceResearch      = int64(100)
	WorkspaceProd          = int64(101)
	WorkspaceOtherResearch = int64(102)

	PipelineRNASeq = int64(1)
	PipelineHello  = int64(2)
)

// LaunchRecord captures a workflow launch submitted to the fake API.
type LaunchRecord struct {
	WorkspaceID int64
	WorkflowID  string
	Request     *api.WorkflowLaunchRequest
}

// StudioStep is one scripted read of a studio status.
type StudioStep struct {
	Status  string
	Message string
}

type workspaceKey struct {
	workspaceID int64
	id          string
}

// State is the in-memory store behind the fake API. All accessors are safe
// for concurrent use.
type State struct {
	user       *api.User
	membership []*api.OrgAndWorkspace
	orgs       map[int64]*api.Organization
	workspaces map[int64][]*api.Workspace
	service    *api.ServiceInfo
	lock       sync.RWMutex

	pipelines     map[int64]*api.Pipeline
	launches      map[int64]*api.Launch
	pipelinesLock sync.RWMutex

	computeEnvs     map[int64][]*api.ComputeEnv
	computeEnvsLock sync.RWMutex

	workflows       map[workspaceKey]*api.Workflow
	workflowScripts map[string][]string
	progress        map[string][]*api.WorkflowProgress
	launched        []*LaunchRecord
	workflowsLock   sync.Mutex

	studios       map[workspaceKey]*api.Studio
	studioScripts map[string][]StudioStep
	rejectStart   map[string]bool
	studiosLock   sync.Mutex
}

func NewState() *State {
	return &State{
		orgs:            make(map[int64]*api.Organization),
		workspaces:      make(map[int64][]*api.Workspace),
		pipelines:       make(map[int64]*api.Pipeline),
		launches:        make(map[int64]*api.Launch),
		computeEnvs:     make(map[int64][]*api.ComputeEnv),
		workflows:       make(map[workspaceKey]*api.Workflow),
		workflowScripts: make(map[string][]string),
		progress:        make(map[string][]*api.WorkflowProgress),
		studios:         make(map[workspaceKey]*api.Studio),
		studioScripts:   make(map[string][]StudioStep),
		rejectStart:     make(map[string]bool),
		service:         &api.ServiceInfo{Version: "24.1.0", APIVersion: "1.9.0", CommitID: "abc1234"},
	}
}

// NewFixtureState returns a store populated with a user that belongs to two
// organizations, a handful of workspaces, pipelines, compute environments
// and a studio.
func NewFixtureState() *State {

	s := NewState()

	s.user = &api.User{ID: UserID, UserName: "jdoe", Email: "jdoe@example.com", FirstName: "Jane", LastName: "Doe"}

	s.orgs[OrgAcme] = &api.Organization{OrgID: OrgAcme, Name: "acme", FullName: "Acme Corp"}
	s.orgs[OrgOther] = &api.Organization{OrgID: OrgOther, Name: "other", FullName: "Other Lab"}

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	s.workspaces[OrgAcme] = []*api.Workspace{
		{ID: WorkspaceResearch, Name: "research", FullName: "Acme Research", Visibility: "PRIVATE", DateCreated: created},
		{ID: WorkspaceProd, Name: "prod", FullName: "Acme Production", Visibility: "SHARED", DateCreated: created},
	}
	s.workspaces[OrgOther] = []*api.Workspace{
		{ID: WorkspaceOtherResearch, Name: "research", FullName: "Other Research", Visibility: "PRIVATE", DateCreated: created},
	}

	s.membership = []*api.OrgAndWorkspace{
		{OrgID: OrgAcme, OrgName: "acme"},
		{OrgID: OrgAcme, OrgName: "acme", WorkspaceID: WorkspaceResearch, WorkspaceName: "research", WorkspaceFullName: "Acme Research"},
		{OrgID: OrgAcme, OrgName: "acme", WorkspaceID: WorkspaceProd, WorkspaceName: "prod", WorkspaceFullName: "Acme Production"},
		{OrgID: OrgOther, OrgName: "other", WorkspaceID: WorkspaceOtherResearch, WorkspaceName: "research", WorkspaceFullName: "Other Research"},
	}

	batch := &api.ComputeEnv{
		ID: "ce-batch", Name: "aws-batch", Platform: "aws-batch", Status: api.ComputeEnvStatusAvailable,
		Primary: true, Config: &api.ComputeEnvConfig{WorkDir: "s3://acme-work/scratch"},
	}
	slurm := &api.ComputeEnv{
		ID: "ce-slurm", Name: "slurm", Platform: "slurm-platform", Status: api.ComputeEnvStatusAvailable,
		Config: &api.ComputeEnvConfig{WorkDir: "/scratch/nf"},
	}
	local := &api.ComputeEnv{
		ID: "ce-local", Name: "local", Platform: "local-platform", Status: api.ComputeEnvStatusAvailable,
		Primary: true, Config: &api.ComputeEnvConfig{WorkDir: "/tmp/work"},
	}
	s.computeEnvs[WorkspaceResearch] = []*api.ComputeEnv{batch, slurm}
	s.computeEnvs[0] = []*api.ComputeEnv{local}

	s.pipelines[PipelineRNASeq] = &api.Pipeline{
		PipelineID: PipelineRNASeq, Name: "rnaseq", Repository: "https://github.com/nf-core/rnaseq",
		OrgName: "acme", WorkspaceID: WorkspaceResearch, WorkspaceName: "research", LastUpdated: created,
	}
	s.launches[PipelineRNASeq] = &api.Launch{
		ID:             "launch-rnaseq",
		ComputeEnv:     batch,
		Pipeline:       "https://github.com/nf-core/rnaseq",
		WorkDir:        "s3://acme-work/rnaseq",
		Revision:       "3.14.0",
		ConfigProfiles: []string{"docker"},
		ParamsText:     `{"input":"s3://acme-data/samples.csv","genome":"GRCh38","aligner":{"name":"star","threads":8}}`,
		PreRunScript:   "module load java",
		PullLatest:     boolPtr(false),
		DateCreated:    created,
	}

	s.pipelines[PipelineHello] = &api.Pipeline{
		PipelineID: PipelineHello, Name: "hello", Repository: "https://github.com/nextflow-io/hello",
		WorkspaceID: 0, LastUpdated: created,
	}
	s.launches[PipelineHello] = &api.Launch{
		ID:         "launch-hello",
		ComputeEnv: local,
		Pipeline:   "https://github.com/nextflow-io/hello",
		WorkDir:    "/tmp/work/hello",
	}

	s.studios[workspaceKey{WorkspaceResearch, "st-1"}] = &api.Studio{
		SessionID: "st-1", WorkspaceID: WorkspaceResearch, Name: "notebook",
		StudioURL:  "https://st-1.studio.example.com",
		ComputeEnv: &api.StudioComputeEnv{ID: batch.ID, Name: batch.Name, Platform: batch.Platform},
		StatusInfo: &api.StudioStatusInfo{Status: api.StudioStatusStopped, LastUpdate: created},
	}

	return s
}

func boolPtr(b bool) *bool { return &b }

func (s *State) User() *api.User {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.user
}

// AddWorkflow stores the workflow under the workspace, replacing any
// workflow with the same ID.
func (s *State) AddWorkflow(workspaceID int64, wf *api.Workflow) {
	s.workflowsLock.Lock()
	defer s.workflowsLock.Unlock()
	cp := *wf
	s.workflows[workspaceKey{workspaceID, wf.ID}] = &cp
}

// Workflow returns a copy of the stored workflow.
func (s *State) Workflow(workspaceID int64, id string) (*api.Workflow, bool) {
	s.workflowsLock.Lock()
	defer s.workflowsLock.Unlock()
	wf, ok := s.workflows[workspaceKey{workspaceID, id}]
	if !ok {
		return nil, false
	}
	cp := *wf
	return &cp, true
}

// ScriptWorkflowStatus makes successive reads of the workflow return the
// given statuses in order. The final status is sticky.
func (s *State) ScriptWorkflowStatus(id string, statuses ...string) {
	s.workflowsLock.Lock()
	defer s.workflowsLock.Unlock()
	s.workflowScripts[id] = statuses
}

// ScriptWorkflowProgress has the same semantics as ScriptWorkflowStatus for
// the progress endpoint.
func (s *State) ScriptWorkflowProgress(id string, progress ...*api.WorkflowProgress) {
	s.workflowsLock.Lock()
	defer s.workflowsLock.Unlock()
	s.progress[id] = progress
}

// Launches returns every launch submitted so far, oldest first.
func (s *State) Launches() []*LaunchRecord {
	s.workflowsLock.Lock()
	defer s.workflowsLock.Unlock()
	return slices.Clone(s.launched)
}

func (s *State) launchWorkflow(workspaceID int64, req *api.WorkflowLaunchRequest) (string, error) {

	if req == nil || req.Pipeline == "" {
		return "", NewResponseError(errors.New("missing pipeline"), http.StatusBadRequest)
	}
	if req.ComputeEnvID == "" {
		return "", NewResponseError(errors.New("missing compute environment"), http.StatusBadRequest)
	}
	if !s.hasComputeEnv(workspaceID, req.ComputeEnvID) {
		return "", NewResponseError(errors.New("compute environment not found"), http.StatusBadRequest)
	}

	s.workflowsLock.Lock()
	defer s.workflowsLock.Unlock()

	id := strings.ToLower(ulid.Make().String())

	runName := req.RunName
	if runName == "" {
		runName = "happy_turing"
	}

	s.workflows[workspaceKey{workspaceID, id}] = &api.Workflow{
		ID:          id,
		RunName:     runName,
		Status:      api.WorkflowStatusSubmitted,
		Repository:  req.Pipeline,
		Revision:    req.Revision,
		WorkDir:     req.WorkDir,
		Resume:      req.Resume,
		UserName:    s.User().UserName,
		Submit:      time.Now().UTC(),
		ProjectName: strings.TrimPrefix(req.Pipeline, "https://github.com/"),
	}
	s.launched = append(s.launched, &LaunchRecord{WorkspaceID: workspaceID, WorkflowID: id, Request: req})

	return id, nil
}

// readWorkflow returns the workflow, advancing its status script by one
// step.
func (s *State) readWorkflow(workspaceID int64, id string) (*api.Workflow, error) {
	s.workflowsLock.Lock()
	defer s.workflowsLock.Unlock()

	wf, ok := s.workflows[workspaceKey{workspaceID, id}]
	if !ok {
		return nil, NewResponseError(errors.New("workflow not found"), http.StatusNotFound)
	}

	if script := s.workflowScripts[id]; len(script) > 0 {
		next := script[0]
		if len(script) > 1 {
			s.workflowScripts[id] = script[1:]
		}
		if next == Unavailable {
			return nil, NewResponseError(errors.New("service unavailable"), http.StatusServiceUnavailable)
		}
		wf.Status = next
	}

	cp := *wf
	return &cp, nil
}

func (s *State) readProgress(workspaceID int64, id string) (*api.Progress, error) {
	s.workflowsLock.Lock()
	defer s.workflowsLock.Unlock()

	if _, ok := s.workflows[workspaceKey{workspaceID, id}]; !ok {
		return nil, NewResponseError(errors.New("workflow not found"), http.StatusNotFound)
	}

	progress := &api.Progress{WorkflowProgress: &api.WorkflowProgress{}}

	if script := s.progress[id]; len(script) > 0 {
		next := script[0]
		if len(script) > 1 {
			s.progress[id] = script[1:]
		}
		if next == nil {
			return nil, NewResponseError(errors.New("service unavailable"), http.StatusServiceUnavailable)
		}
		cp := *next
		progress.WorkflowProgress = &cp
	}

	return progress, nil
}

func (s *State) listWorkflows(workspaceID int64, search string) []*api.Workflow {
	s.workflowsLock.Lock()
	defer s.workflowsLock.Unlock()

	var out []*api.Workflow

	for key, wf := range s.workflows {
		if key.workspaceID != workspaceID {
			continue
		}
		if search != "" && !strings.Contains(wf.RunName, search) && !strings.Contains(wf.ProjectName, search) {
			continue
		}
		cp := *wf
		out = append(out, &cp)
	}

	slices.SortFunc(out, func(a, b *api.Workflow) int { return b.Submit.Compare(a.Submit) })
	return out
}

func (s *State) cancelWorkflow(workspaceID int64, id string) error {
	s.workflowsLock.Lock()
	defer s.workflowsLock.Unlock()

	wf, ok := s.workflows[workspaceKey{workspaceID, id}]
	if !ok {
		return NewResponseError(errors.New("workflow not found"), http.StatusNotFound)
	}
	switch wf.Status {
	case api.WorkflowStatusSucceeded, api.WorkflowStatusFailed, api.WorkflowStatusCancelled:
		return NewResponseError(errors.New("workflow is not active"), http.StatusBadRequest)
	}

	wf.Status = api.WorkflowStatusCancelled
	return nil
}

func (s *State) deleteWorkflow(workspaceID int64, id string) error {
	s.workflowsLock.Lock()
	defer s.workflowsLock.Unlock()

	key := workspaceKey{workspaceID, id}
	if _, ok := s.workflows[key]; !ok {
		return NewResponseError(errors.New("workflow not found"), http.StatusNotFound)
	}
	delete(s.workflows, key)
	return nil
}

// AddStudio stores the studio under its workspace.
func (s *State) AddStudio(st *api.Studio) {
	s.studiosLock.Lock()
	defer s.studiosLock.Unlock()
	cp := *st
	s.studios[workspaceKey{st.WorkspaceID, st.SessionID}] = &cp
}

// ScriptStudioStatus makes successive reads of the studio return the given
// steps in order. The final step is sticky.
func (s *State) ScriptStudioStatus(sessionID string, steps ...StudioStep) {
	s.studiosLock.Lock()
	defer s.studiosLock.Unlock()
	s.studioScripts[sessionID] = steps
}

// RejectStudioStart makes start requests for the studio report that no job
// was submitted.
func (s *State) RejectStudioStart(sessionID string) {
	s.studiosLock.Lock()
	defer s.studiosLock.Unlock()
	s.rejectStart[sessionID] = true
}

func (s *State) readStudio(workspaceID int64, sessionID string) (*api.Studio, error) {
	s.studiosLock.Lock()
	defer s.studiosLock.Unlock()

	st, ok := s.studios[workspaceKey{workspaceID, sessionID}]
	if !ok {
		return nil, NewResponseError(errors.New("studio not found"), http.StatusNotFound)
	}

	if script := s.studioScripts[sessionID]; len(script) > 0 {
		next := script[0]
		if len(script) > 1 {
			s.studioScripts[sessionID] = script[1:]
		}
		if next.Status == Unavailable {
			return nil, NewResponseError(errors.New("service unavailable"), http.StatusServiceUnavailable)
		}
		st.StatusInfo = &api.StudioStatusInfo{Status: next.Status, Message: next.Message, LastUpdate: time.Now().UTC()}
	}

	cp := *st
	return &cp, nil
}

func (s *State) listStudios(workspaceID int64, search string) []*api.Studio {
	s.studiosLock.Lock()
	defer s.studiosLock.Unlock()

	var out []*api.Studio

	for key, st := range s.studios {
		if key.workspaceID != workspaceID {
			continue
		}
		if search != "" && !strings.Contains(st.Name, search) {
			continue
		}
		cp := *st
		out = append(out, &cp)
	}

	slices.SortFunc(out, func(a, b *api.Studio) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (s *State) changeStudio(workspaceID int64, sessionID, status string) (*api.StudioStateChangeResp, error) {
	s.studiosLock.Lock()
	defer s.studiosLock.Unlock()

	st, ok := s.studios[workspaceKey{workspaceID, sessionID}]
	if !ok {
		return nil, NewResponseError(errors.New("studio not found"), http.StatusNotFound)
	}

	if status == api.StudioStatusStarting && s.rejectStart[sessionID] {
		return &api.StudioStateChangeResp{JobSubmitted: false, SessionID: sessionID, StatusInfo: st.StatusInfo}, nil
	}

	st.StatusInfo = &api.StudioStatusInfo{Status: status, LastUpdate: time.Now().UTC()}
	if status == api.StudioStatusStarting {
		st.LastStarted = time.Now().UTC()
	}

	return &api.StudioStateChangeResp{JobSubmitted: true, SessionID: sessionID, StatusInfo: st.StatusInfo}, nil
}

func (s *State) hasComputeEnv(workspaceID int64, id string) bool {
	s.computeEnvsLock.RLock()
	defer s.computeEnvsLock.RUnlock()
	return slices.ContainsFunc(s.computeEnvs[workspaceID], func(ce *api.ComputeEnv) bool { return ce.ID == id })
}
