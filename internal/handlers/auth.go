package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wecare-app/apiserver/internal/services"
	"github.com/wecare-app/apiserver/internal/store"
	"github.com/wecare-app/apiserver/types"
)

const tokenCookieName = "token"

// AuthHandler provides the registration, login, and account endpoints.
type AuthHandler struct {
	userService  *services.UserService
	secret       []byte
	tokenTTL     time.Duration
	secureCookie bool
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
// secureCookie should be true only in production, where the site is
// served over TLS.
func NewAuthHandler(userService *services.UserService, jwtSecret string, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		secret:       []byte(jwtSecret),
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
	}
}

// AuthRouter registers the account routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Get("/user/{email}", handler.GetUser)
	r.Put("/userInfo/{email}", handler.UpdateProfile)
	r.Put("/userRole/{id}", handler.UpdateRole)
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type UpdateProfileRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Photo       string `json:"photo"`
	Password    string `json:"password"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// IdentityClaims is the claim set embedded in issued tokens.
type IdentityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Photo string `json:"photo,omitempty"`
	jwt.RegisteredClaims
}

// Register creates a new account. No token is issued; the caller logs in
// separately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	if _, err := h.userService.Register(r.Context(), req.Name, req.Email, req.Password, req.Role); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		writeInternalError(w, err, "failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: "User registered successfully"})
}

// Login verifies credentials and issues a signed token, delivered both in
// the response body and as an httpOnly cookie. Existing clients read the
// token from the body, so the dual delivery stays.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeInternalError(w, err, "failed to authenticate")
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		writeInternalError(w, err, "failed to create token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
	})

	writeJSON(w, http.StatusOK, LoginResponse{Success: true, Message: "Login successful", Token: token})
}

// GetUser returns the account document for the given email. The password
// hash is never serialized.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	user, err := h.userService.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "user not found")
			return
		}
		writeInternalError(w, err, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile overwrites the profile fields of the account keyed by the
// email path parameter. All fields except password are required; a missing
// field fails before any store write happens.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.Name == "" || req.PhoneNumber == "" || req.Address == "" || req.Photo == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	result, err := h.userService.UpdateProfile(r.Context(), email, types.ProfileUpdate{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Photo:       req.Photo,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeInternalError(w, err, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// UpdateRole overwrites the role of the account identified by the id path
// parameter. Access control is the caller's responsibility; nothing here
// checks who is asking.
func (h *AuthHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(req.Role) == "" {
		writeError(w, http.StatusBadRequest, "missing role")
		return
	}

	result, err := h.userService.UpdateRole(r.Context(), id, req.Role)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeInternalError(w, err, "failed to update role")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) issueToken(user types.User) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		Photo: user.Photo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}
