package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wecare-app/apiserver/internal/services"
	"github.com/wecare-app/apiserver/internal/store"
	"github.com/wecare-app/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret"
	testTokenTTL = 2 * time.Hour
)

type fakeUserRepo struct {
	byEmail map[string]types.User
	nextID  int

	updateProfileCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]types.User), nextID: 1}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return types.User{}, store.ErrDuplicateEmail
	}
	user.ID = f.nextID
	f.nextID++
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, email string, update types.ProfileUpdate, passwordHash string) (types.UpdateResult, error) {
	f.updateProfileCalls++
	user, ok := f.byEmail[email]
	if !ok {
		return types.UpdateResult{}, store.ErrNotFound
	}
	user.Name = update.Name
	user.PhoneNumber = update.PhoneNumber
	user.Address = update.Address
	user.Photo = update.Photo
	if passwordHash != "" {
		user.PasswordHash = passwordHash
	}
	f.byEmail[email] = user
	return types.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id int, role string) (types.UpdateResult, error) {
	for email, user := range f.byEmail {
		if user.ID == id {
			user.Role = role
			f.byEmail[email] = user
			return types.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return types.UpdateResult{}, store.ErrNotFound
}

func newAuthTestRouter(repo *fakeUserRepo, protected []string) *chi.Mux {
	userService := services.NewUserService(repo, protected)
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		AuthRouter(r, NewAuthHandler(userService, testSecret, testTokenTTL, false))
	})
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func registerTestUser(t *testing.T, router http.Handler, name, email, password, role string) {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/register", map[string]string{
		"name": name, "email": email, "password": password, "role": role,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRegisterEndpoint(t *testing.T) {
	repo := newFakeUserRepo()
	router := newAuthTestRouter(repo, nil)

	t.Run("created", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodPost, "/api/v1/register", map[string]string{
			"name": "A", "email": "a@x.com", "password": "p1",
		})
		if resp.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
		}

		var body APIResponse
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !body.Success || body.Message != "User registered successfully" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodPost, "/api/v1/register", map[string]string{
			"name": "B", "email": "a@x.com", "password": "p2",
		})
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
		if len(repo.byEmail) != 1 {
			t.Fatalf("expected one stored record, got %d", len(repo.byEmail))
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodPost, "/api/v1/register", map[string]string{
			"email": "c@x.com", "password": "p1",
		})
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	})
}

func TestLoginEndpoint(t *testing.T) {
	repo := newFakeUserRepo()
	router := newAuthTestRouter(repo, nil)
	registerTestUser(t, router, "A", "a@x.com", "p1", "admin")

	t.Run("success returns token and cookie", func(t *testing.T) {
		issuedAfter := time.Now()
		resp := doJSON(t, router, http.MethodPost, "/api/v1/login", map[string]string{
			"email": "a@x.com", "password": "p1",
		})
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
		}

		var body LoginResponse
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !body.Success || body.Token == "" {
			t.Fatalf("unexpected body: %+v", body)
		}

		var cookie *http.Cookie
		for _, c := range resp.Result().Cookies() {
			if c.Name == tokenCookieName {
				cookie = c
			}
		}
		if cookie == nil {
			t.Fatal("token cookie not set")
		}
		if !cookie.HttpOnly {
			t.Fatal("token cookie must be httpOnly")
		}
		if cookie.Secure {
			t.Fatal("cookie must not be secure outside production")
		}
		if cookie.Value != body.Token {
			t.Fatal("cookie token differs from body token")
		}

		claims := IdentityClaims{}
		parsed, err := jwt.ParseWithClaims(body.Token, &claims, func(token *jwt.Token) (any, error) {
			return []byte(testSecret), nil
		})
		if err != nil || !parsed.Valid {
			t.Fatalf("token does not parse: %v", err)
		}
		if claims.Email != "a@x.com" || claims.Name != "A" || claims.Role != "admin" {
			t.Fatalf("unexpected claims: %+v", claims)
		}

		wantExpiry := issuedAfter.Add(testTokenTTL)
		gotExpiry := claims.ExpiresAt.Time
		if gotExpiry.Before(wantExpiry.Add(-5*time.Second)) || gotExpiry.After(wantExpiry.Add(5*time.Second)) {
			t.Fatalf("expiry %v not within tolerance of %v", gotExpiry, wantExpiry)
		}
	})

	t.Run("wrong password and unknown email answer identically", func(t *testing.T) {
		wrongPass := doJSON(t, router, http.MethodPost, "/api/v1/login", map[string]string{
			"email": "a@x.com", "password": "wrong",
		})
		unknown := doJSON(t, router, http.MethodPost, "/api/v1/login", map[string]string{
			"email": "nobody@x.com", "password": "p1",
		})

		if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401/401, got %d/%d", wrongPass.Code, unknown.Code)
		}
		if wrongPass.Body.String() != unknown.Body.String() {
			t.Fatalf("failure bodies differ: %q vs %q", wrongPass.Body.String(), unknown.Body.String())
		}
	})
}

func TestGetUserEndpoint(t *testing.T) {
	repo := newFakeUserRepo()
	router := newAuthTestRouter(repo, nil)
	registerTestUser(t, router, "A", "a@x.com", "p1", "")

	t.Run("found", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodGet, "/api/v1/user/a@x.com", nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}

		var body map[string]any
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["email"] != "a@x.com" {
			t.Fatalf("unexpected body: %v", body)
		}
		if _, leaked := body["password_hash"]; leaked {
			t.Fatal("password hash leaked in response")
		}
	})

	t.Run("not found", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodGet, "/api/v1/user/nobody@x.com", nil)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.Code)
		}
	})
}

func TestUpdateProfileEndpoint(t *testing.T) {
	fullProfile := map[string]string{
		"name": "New Name", "phoneNumber": "555-0100", "address": "12 Main St", "photo": "p.png",
	}

	t.Run("missing required field mutates nothing", func(t *testing.T) {
		repo := newFakeUserRepo()
		router := newAuthTestRouter(repo, nil)
		registerTestUser(t, router, "A", "a@x.com", "p1", "")

		resp := doJSON(t, router, http.MethodPut, "/api/v1/userInfo/a@x.com", map[string]string{
			"name": "New Name", "phoneNumber": "555-0100", "address": "12 Main St",
		})
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
		if repo.updateProfileCalls != 0 {
			t.Fatal("store was mutated despite validation failure")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		router := newAuthTestRouter(newFakeUserRepo(), nil)
		resp := doJSON(t, router, http.MethodPut, "/api/v1/userInfo/nobody@x.com", fullProfile)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.Code)
		}
	})

	t.Run("password change for regular account", func(t *testing.T) {
		repo := newFakeUserRepo()
		router := newAuthTestRouter(repo, nil)
		registerTestUser(t, router, "A", "a@x.com", "old-pass", "")
		oldHash := repo.byEmail["a@x.com"].PasswordHash

		withPassword := map[string]string{}
		for k, v := range fullProfile {
			withPassword[k] = v
		}
		withPassword["password"] = "new-pass"

		resp := doJSON(t, router, http.MethodPut, "/api/v1/userInfo/a@x.com", withPassword)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
		}

		newHash := repo.byEmail["a@x.com"].PasswordHash
		if newHash == oldHash {
			t.Fatal("password hash unchanged")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-pass")); err != nil {
			t.Fatalf("new password does not verify: %v", err)
		}
	})

	t.Run("protected account password untouched", func(t *testing.T) {
		repo := newFakeUserRepo()
		router := newAuthTestRouter(repo, []string{"admin@wecare.app"})
		registerTestUser(t, router, "Admin", "admin@wecare.app", "seed-pass", "admin")
		oldHash := repo.byEmail["admin@wecare.app"].PasswordHash

		withPassword := map[string]string{}
		for k, v := range fullProfile {
			withPassword[k] = v
		}
		withPassword["password"] = "attacker-pass"

		resp := doJSON(t, router, http.MethodPut, "/api/v1/userInfo/admin@wecare.app", withPassword)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		if repo.byEmail["admin@wecare.app"].PasswordHash != oldHash {
			t.Fatal("protected account password hash was modified")
		}
	})
}

func TestUpdateRoleEndpoint(t *testing.T) {
	repo := newFakeUserRepo()
	router := newAuthTestRouter(repo, nil)
	registerTestUser(t, router, "A", "a@x.com", "p1", "user")

	t.Run("success", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodPut, "/api/v1/userRole/1", map[string]string{"role": "admin"})
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
		}

		var result types.UpdateResult
		if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if result.MatchedCount != 1 {
			t.Fatalf("expected matched count 1, got %d", result.MatchedCount)
		}
		if repo.byEmail["a@x.com"].Role != "admin" {
			t.Fatal("role not updated")
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodPut, "/api/v1/userRole/abc", map[string]string{"role": "admin"})
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodPut, "/api/v1/userRole/999", map[string]string{"role": "admin"})
		if resp.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.Code)
		}
	})
}

func TestTimeoutMapsToGatewayTimeout(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		writeInternalError(w, context.DeadlineExceeded, "failed")
	})

	resp := doJSON(t, router, http.MethodGet, "/slow", nil)
	if resp.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", resp.Code)
	}
}
