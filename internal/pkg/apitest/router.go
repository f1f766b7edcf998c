package apitest

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newRouter(state *State, token string, logger *zap.Logger, calls *callCounter) *chi.Mux {

	r := chi.NewRouter()
	r.Use(loggerMiddleware(logger, calls))
	r.Use(authMiddleware(token))

	r.Get("/service-info", serviceEndpoint{state: state}.info)
	r.Get("/user-info", usersEndpoint{state: state}.info)
	r.Get("/user/{userId}/workspaces", usersEndpoint{state: state}.workspaces)

	r.Mount("/orgs", orgsEndpoint{state: state}.routes())
	r.Mount("/pipelines", pipelinesEndpoint{state: state}.routes())
	r.Mount("/compute-envs", computeEnvsEndpoint{state: state}.routes())
	r.Mount("/workflow", workflowsEndpoint{state: state}.routes())
	r.Mount("/studios", studiosEndpoint{state: state}.routes())

	return r
}
