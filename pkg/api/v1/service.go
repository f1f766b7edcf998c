package api

import (
	"context"
	"net/http"
)

type ServiceInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"apiVersion"`
	CommitID   string `json:"commitId"`
}

type Service struct {
	client *Client
}

func (c *Client) Service() *Service {
	return &Service{client: c}
}

type ServiceInfoResp struct {
	ServiceInfo *ServiceInfo `json:"serviceInfo"`
}

func (s *Service) Info(ctx context.Context) (*ServiceInfoResp, *Response, error) {

	var resp ServiceInfoResp

	httpReq, err := s.client.NewRequest(http.MethodGet, "/service-info", nil)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}
