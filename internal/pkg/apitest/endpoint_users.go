package apitest

import (
	"errors"
	"net/http"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

type usersEndpoint struct {
	state *State
}

func (u usersEndpoint) info(w http.ResponseWriter, _ *http.Request) {

	user := u.state.User()
	if user == nil {
		httpWriteResponseError(w, NewResponseError(errors.New("user not found"), http.StatusNotFound))
		return
	}

	httpWriteResponse(w, http.StatusOK, &api.UserInfoResp{User: user})
}

func (u usersEndpoint) workspaces(w http.ResponseWriter, r *http.Request) {

	userID, err := int64Param(r, "userId")
	if err != nil {
		httpWriteResponseError(w, err)
		return
	}

	u.state.lock.RLock()
	defer u.state.lock.RUnlock()

	if u.state.user == nil || u.state.user.ID != userID {
		httpWriteResponseError(w, NewResponseError(errors.New("forbidden"), http.StatusForbidden))
		return
	}

	httpWriteResponse(w, http.StatusOK, &api.UserWorkspacesResp{OrgsAndWorkspaces: u.state.membership})
}

type serviceEndpoint struct {
	state *State
}

func (s serviceEndpoint) info(w http.ResponseWriter, _ *http.Request) {
	s.state.lock.RLock()
	defer s.state.lock.RUnlock()
	httpWriteResponse(w, http.StatusOK, &api.ServiceInfoResp{ServiceInfo: s.state.service})
}
