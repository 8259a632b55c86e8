// Package user 远端版 CRUD：每个操作一次 HTTP 调用，把上游嵌套的
// {success, data:{users|user, pagination}} 压平成 {success, data, pagination?}。
// 任何传输或服务端错误只记日志，对调用方一律塌缩成 success=false。
package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hospitalink-admin/internal/domain"
	"hospitalink-admin/internal/upstream"
)

// ListResult 压平后的列表结果；Pagination 仅在上游给出时透传
type ListResult struct {
	Success    bool               `json:"success"`
	Data       []domain.User      `json:"data,omitempty"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

type ItemResult struct {
	Success bool         `json:"success"`
	Data    *domain.User `json:"data,omitempty"`
}

// 上游 body 的原始形状
type apiListResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		Users      []domain.User      `json:"users"`
		Pagination *domain.Pagination `json:"pagination"`
	} `json:"data"`
}

type apiItemResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		User domain.User `json:"user"`
	} `json:"data"`
}

type Service struct {
	api *upstream.Client
	log *zap.Logger
}

func NewService(api *upstream.Client, log *zap.Logger) *Service {
	return &Service{api: api, log: log}
}

func (s *Service) List(ctx context.Context, page, limit int) ListResult {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	var res apiListResponse
	err := s.api.Get(ctx, fmt.Sprintf("/admin/users?page=%d&limit=%d", page, limit), &res)
	if err != nil {
		s.log.Error("user list", zap.Error(err))
		return ListResult{}
	}
	if !res.Success {
		return ListResult{}
	}
	out := ListResult{Success: true, Data: []domain.User{}}
	if res.Data != nil {
		if res.Data.Users != nil {
			out.Data = res.Data.Users
		}
		out.Pagination = res.Data.Pagination
	}
	return out
}

func (s *Service) GetByID(ctx context.Context, id string) ItemResult {
	var res apiItemResponse
	if err := s.api.Get(ctx, "/admin/users/"+id, &res); err != nil {
		s.log.Error("user get", zap.String("id", id), zap.Error(err))
		return ItemResult{}
	}
	return itemResult(res)
}

func (s *Service) Create(ctx context.Context, payload domain.UserCreate) ItemResult {
	var res apiItemResponse
	if err := s.api.Post(ctx, "/admin/users", payload, &res); err != nil {
		s.log.Error("user create", zap.Error(err))
		return ItemResult{}
	}
	return itemResult(res)
}

func (s *Service) Update(ctx context.Context, id string, payload domain.UserUpdate) ItemResult {
	var res apiItemResponse
	if err := s.api.Put(ctx, "/admin/users/"+id, payload, &res); err != nil {
		s.log.Error("user update", zap.String("id", id), zap.Error(err))
		return ItemResult{}
	}
	return itemResult(res)
}

func (s *Service) Delete(ctx context.Context, id string) bool {
	var res apiItemResponse
	if err := s.api.Delete(ctx, "/admin/users/"+id, &res); err != nil {
		s.log.Error("user delete", zap.String("id", id), zap.Error(err))
		return false
	}
	return res.Success
}

func itemResult(res apiItemResponse) ItemResult {
	if !res.Success || res.Data == nil {
		return ItemResult{}
	}
	u := res.Data.User
	return ItemResult{Success: true, Data: &u}
}
