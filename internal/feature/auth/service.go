// Package auth 登录/登出。remote 模式把凭证交给上游 /auth/web/login，
// 成功后把 token 与 user 写进会话；local 模式用本地账号槽位 + bcrypt + JWT，
// 供没有上游 API 的开发部署使用（查无此人时自动注册）。
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	coreauth "hospitalink-admin/internal/core/auth"
	"hospitalink-admin/internal/core/session"
	"hospitalink-admin/internal/kvstore"
	"hospitalink-admin/internal/upstream"
	"hospitalink-admin/pkg/utils"
)

const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Success bool            `json:"success"`
	Token   string          `json:"token,omitempty"`
	User    json.RawMessage `json:"user,omitempty"`
	Message string          `json:"message,omitempty"`
}

// 上游 /auth/web/login 的 body 形状
type webLoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		Token       string          `json:"token"`
		User        json.RawMessage `json:"user"`
		LoginMethod string          `json:"loginMethod"`
		Platform    string          `json:"platform"`
	} `json:"data"`
}

// localAccount 仅 local 模式使用，整表存在一个槽位里
type localAccount struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Service struct {
	mode  string
	api   *upstream.Client
	sess  *session.Session
	users kvstore.Slot
	jwter *coreauth.JWTer
	log   *zap.Logger
}

func NewService(mode string, api *upstream.Client, sess *session.Session, users kvstore.Slot, jwter *coreauth.JWTer, log *zap.Logger) *Service {
	if mode == "" {
		mode = ModeRemote
	}
	return &Service{mode: mode, api: api, sess: sess, users: users, jwter: jwter, log: log}
}

func (s *Service) LoginWeb(ctx context.Context, in LoginInput) LoginResult {
	if s.mode == ModeLocal {
		return s.loginLocal(ctx, in)
	}
	return s.loginRemote(ctx, in)
}

func (s *Service) loginRemote(ctx context.Context, in LoginInput) LoginResult {
	var res webLoginResponse
	err := s.api.Post(ctx, "/auth/web/login", in, &res)
	if err != nil {
		s.log.Warn("web login", zap.Error(err))
		return LoginResult{Success: false, Message: "login failed"}
	}
	if !res.Success || res.Data == nil || res.Data.Token == "" {
		msg := res.Message
		if msg == "" {
			msg = "login failed"
		}
		return LoginResult{Success: false, Message: msg}
	}
	if err := s.sess.Set(ctx, res.Data.Token, res.Data.User); err != nil {
		s.log.Error("persist session", zap.Error(err))
		return LoginResult{Success: false, Message: "login failed"}
	}
	return LoginResult{Success: true, Token: res.Data.Token, User: res.Data.User}
}

// loginLocal 已注册则校验密码，未注册则自动建号（与上游首登语义一致）
func (s *Service) loginLocal(ctx context.Context, in LoginInput) LoginResult {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var accounts []localAccount
	if _, err := kvstore.LoadJSON(ctx, s.users, &accounts); err != nil {
		s.log.Error("load local accounts", zap.Error(err))
		return LoginResult{Success: false, Message: "login failed"}
	}

	var acct *localAccount
	for i := range accounts {
		if accounts[i].Email == email {
			acct = &accounts[i]
			break
		}
	}

	if acct == nil {
		name := email
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
		accounts = append(accounts, localAccount{
			ID:           utils.NewID(),
			Email:        email,
			Name:         name,
			PasswordHash: utils.HashPassword(in.Password),
			Role:         "user",
			CreatedAt:    time.Now(),
		})
		acct = &accounts[len(accounts)-1]
		if err := kvstore.SaveJSON(ctx, s.users, accounts); err != nil {
			s.log.Error("save local accounts", zap.Error(err))
			return LoginResult{Success: false, Message: "login failed"}
		}
	} else if !utils.CheckPassword(in.Password, acct.PasswordHash) {
		return LoginResult{Success: false, Message: "invalid credentials"}
	}

	tok, err := s.jwter.Issue(acct.ID, acct.Email, acct.Role)
	if err != nil || tok == "" {
		s.log.Error("issue token", zap.Error(err))
		return LoginResult{Success: false, Message: "login failed"}
	}

	pub, _ := json.Marshal(map[string]string{
		"id": acct.ID, "email": acct.Email, "fullName": acct.Name, "role": acct.Role,
	})
	if err := s.sess.Set(ctx, tok, pub); err != nil {
		s.log.Error("persist session", zap.Error(err))
		return LoginResult{Success: false, Message: "login failed"}
	}
	return LoginResult{Success: true, Token: tok, User: pub}
}

func (s *Service) Logout(ctx context.Context) error {
	return s.sess.Clear(ctx)
}
