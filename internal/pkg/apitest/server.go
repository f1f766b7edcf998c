// Package apitest serves an in-memory fake of the platform REST API for use
// in tests.
package apitest

import (
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

// Token is the bearer token the fake API accepts.
const Token = "test-token"

type Server struct {
	*httptest.Server

	State *State
	calls *callCounter
}

// NewServer starts a fake API backed by state, or by the default fixture
// when state is nil. The server is closed when the test finishes.
func NewServer(t testing.TB, state *State) *Server {
	t.Helper()

	if state == nil {
		state = NewFixtureState()
	}

	calls := &callCounter{counts: make(map[string]int)}
	logger := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)).Named("fake_api")

	srv := &Server{
		Server: httptest.NewServer(newRouter(state, Token, logger, calls)),
		State:  state,
		calls:  calls,
	}
	t.Cleanup(srv.Close)

	return srv
}

// Client returns an API client pointed at the fake server.
func (s *Server) Client() *api.Client {
	cfg := api.DefaultConfig()
	cfg.Address = s.URL
	cfg.Token = Token
	cfg.RateLimit = 0
	return api.NewClient(cfg)
}

// Calls returns how many requests matched the route. Routes are keyed by
// method and pattern, for example "GET /workflow/{workflowId}".
func (s *Server) Calls(route string) int { return s.calls.get(route) }

type callCounter struct {
	counts map[string]int
	lock   sync.Mutex
}

func (c *callCounter) inc(route string) {
	c.lock.Lock()
	c.counts[route]++
	c.lock.Unlock()
}

func (c *callCounter) get(route string) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.counts[route]
}
