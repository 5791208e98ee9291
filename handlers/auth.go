package handlers

import (
	"context"
	"net/http"
	"strings"

	"task-management-app/backend/domain"
	"task-management-app/backend/services"
)

// KeyActor keys the authenticated actor in the request context.
type KeyActor struct{}

// KeyUser keys the full user record the auth middleware loaded.
type KeyUser struct{}

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	err := readReq(req, r, w)
	if err != nil {
		return
	}

	token, user, err := h.auth.LogIn(req.Email, req.Password)
	if err != nil {
		writeErrorResp(err, w)
		return
	}

	resp := struct {
		Token string `json:"token"`
		User  struct {
			Id   string `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"user"`
	}{Token: token}
	resp.User.Id = user.Id
	resp.User.Name = user.Name
	resp.User.Role = user.Role.String()

	writeResp(resp, http.StatusOK, w)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}{}
	err := readReq(req, r, w)
	if err != nil {
		return
	}

	user, err := h.auth.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeErrorResp(err, w)
		return
	}

	writeResp(&user, http.StatusCreated, w)
}

// Verify echoes the user the auth middleware resolved, so clients can check a
// stored token on startup.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(KeyUser{}).(*domain.User)
	if !ok {
		writeErrorResp(domain.AuthenticationError{Message: "Not authorized"}, w)
		return
	}
	writeResp(user, http.StatusOK, w)
}

type AuthMiddleware struct {
	auth  *services.AuthService
	users domain.UserRepository
}

func NewAuthMiddleware(auth *services.AuthService, users domain.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, users: users}
}

// Handle verifies the bearer token, loads the user behind it and puts both
// the actor claim and the record on the request context.
func (m *AuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeErrorResp(domain.AuthenticationError{Message: "No token, authorization denied"}, w)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		actor, err := m.auth.VerifyToken(token)
		if err != nil {
			writeErrorResp(err, w)
			return
		}

		user, err := m.users.GetById(actor.Id)
		if err != nil {
			writeErrorResp(domain.AuthenticationError{Message: "User not found. Please log in again."}, w)
			return
		}

		ctx := context.WithValue(r.Context(), KeyActor{}, domain.Actor{Id: user.Id, Role: user.Role})
		ctx = context.WithValue(ctx, KeyUser{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly gates a route on the admin role. It assumes Handle ran first.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := r.Context().Value(KeyActor{}).(domain.Actor)
		if !ok || !actor.IsAdmin() {
			writeErrorResp(domain.ErrUnauthorized(), w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func actorFromContext(r *http.Request) (domain.Actor, bool) {
	actor, ok := r.Context().Value(KeyActor{}).(domain.Actor)
	return actor, ok
}
