package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/MikeMC777/cod-delivery/internal/apperr"
	"github.com/MikeMC777/cod-delivery/internal/auth"
	"github.com/MikeMC777/cod-delivery/internal/user"
)

type stubUsers struct {
	tokens *auth.TokenService
	users  map[string]user.User // by email
	pass   map[string]string
}

func (s *stubUsers) Login(ctx context.Context, req user.LoginRequest) (*user.TokenResponse, error) {
	u, ok := s.users[req.Email]
	if !ok || s.pass[req.Email] != req.Password {
		return nil, apperr.New(apperr.KindUnauthorized, apperr.CodeInvalidCredentials, nil)
	}
	tok, exp, err := s.tokens.Issue(u.Principal())
	if err != nil {
		return nil, err
	}
	return &user.TokenResponse{AccessToken: tok, TokenType: "Bearer", ExpiresAt: exp, User: u}, nil
}

func (s *stubUsers) Register(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	if _, ok := s.users[req.Email]; ok {
		return nil, apperr.BusinessRule(apperr.CodeEmailTaken, nil)
	}
	u := user.User{ID: uuid.NewString(), Name: req.Name, Email: req.Email, Role: auth.RoleCustomer}
	s.users[req.Email], s.pass[req.Email] = u, req.Password
	return &u, nil
}

func (s *stubUsers) Me(ctx context.Context, p auth.Principal) (*user.User, error) {
	for _, u := range s.users {
		if u.ID == p.UserID {
			return &u, nil
		}
	}
	return nil, apperr.NotFound(apperr.CodeUserNotFound, nil)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	tokens, err := auth.NewTokenService("user-service-test", time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	svc := &stubUsers{tokens: tokens, users: map[string]user.User{}, pass: map[string]string{}}
	return newRouter(nil, tokens, svc)
}

func send(r *gin.Engine, method, target, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginMe(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodPost, "/auth/register", `{"name":"Salma","email":"salma@example.ma","password":"s3cret-pass"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Fatalf("password leaked: %s", w.Body.String())
	}

	w = send(r, http.MethodPost, "/auth/login", `{"email":"salma@example.ma","password":"s3cret-pass"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	var tok user.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &tok); err != nil || tok.AccessToken == "" {
		t.Fatalf("bad token response: %v %s", err, w.Body.String())
	}

	w = send(r, http.MethodGet, "/auth/me", "", tok.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("me status=%d body=%s", w.Code, w.Body.String())
	}
	var me user.User
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if me.Email != "salma@example.ma" || me.Role != auth.RoleCustomer {
		t.Fatalf("unexpected me: %+v", me)
	}
}

func TestLogin_Failures(t *testing.T) {
	r := newTestRouter(t)

	if w := send(r, http.MethodPost, "/auth/login", `{"email":"nobody@example.ma","password":"x"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d (expected 401)", w.Code)
	}
	if w := send(r, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d (expected 400)", w.Code)
	}
	if w := send(r, http.MethodPost, "/auth/login", `{"email":"a@b.ma","password":"x","role":"admin"}`, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status=%d (expected 400)", w.Code)
	}
}

func TestRegister_DuplicateAndWeakPassword(t *testing.T) {
	r := newTestRouter(t)
	body := `{"name":"Omar","email":"omar@example.ma","password":"s3cret-pass"}`

	if w := send(r, http.MethodPost, "/auth/register", body, ""); w.Code != http.StatusCreated {
		t.Fatalf("status=%d", w.Code)
	}
	w := send(r, http.MethodPost, "/auth/register", body, "")
	if w.Code != http.StatusBadRequest || !bytes.Contains(w.Body.Bytes(), []byte("email_already_registered")) {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := send(r, http.MethodPost, "/auth/register", `{"name":"A","email":"a@example.ma","password":"short"}`, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("weak password status=%d (expected 400)", w.Code)
	}
}

func TestMe_RequiresToken(t *testing.T) {
	r := newTestRouter(t)
	if w := send(r, http.MethodGet, "/auth/me", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d (expected 401)", w.Code)
	}
	if w := send(r, http.MethodGet, "/auth/me", "", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d (expected 401)", w.Code)
	}
}

func TestGRPCHealth(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	gs, _ := newGRPCServer()
	go func() { _ = gs.Serve(lis) }()
	defer gs.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: grpcServiceName})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status=%s", res.GetStatus())
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
