package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sharehub/internal/database"
	"sharehub/internal/domain"
	"sharehub/internal/middleware"
	"sharehub/internal/modules/admin"
	"sharehub/internal/modules/auth"
	"sharehub/internal/modules/booking"
	"sharehub/internal/modules/catalog"
	"sharehub/internal/modules/exchange"
	jwtsvc "sharehub/internal/pkg/jwt"
	"sharehub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Suite struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwtsvc.Service
}

func setupSuite(t *testing.T) *Suite {
	t.Helper()

	db, err := database.Connect("file::memory:?cache=shared")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	userRepo := repository.NewUserRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	bookRepo := repository.NewBookRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService))
	catalogHandler := catalog.NewHandler(catalog.NewService(placeRepo, bookRepo))
	bookingHandler := booking.NewHandler(booking.NewService(reservationRepo, placeRepo, nil))
	exchangeHandler := exchange.NewHandler(exchange.NewService(bookRepo, nil))
	adminHandler := admin.NewHandler(admin.NewService(userRepo, placeRepo, bookRepo, reservationRepo))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)
	catalogHandler.RegisterPublicRoutes(v1)
	bookingHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		catalogHandler.RegisterProtectedRoutes(protected)
		bookingHandler.RegisterRoutes(protected)
		exchangeHandler.RegisterRoutes(protected)

		adminGroup := protected.Group("")
		adminGroup.Use(middleware.AdminOnly())
		adminHandler.RegisterRoutes(adminGroup)
	}

	return &Suite{router: r, db: db, jwt: jwtService}
}

func (s *Suite) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, TestResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed TestResponse
	_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	return w, parsed
}

func (s *Suite) registerAndLogin(t *testing.T, email, name string) string {
	t.Helper()

	w, _ := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": "secret-password", "name": name,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": email, "password": "secret-password",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := resp.Data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *Suite) adminToken(t *testing.T) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	u := domain.User{
		Email:        fmt.Sprintf("admin-%d@test.local", time.Now().UnixNano()),
		PasswordHash: string(hash),
		Name:         "Admin",
		Role:         domain.RoleAdmin,
	}
	require.NoError(t, s.db.Create(&u).Error)

	token, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)
	return token
}

func TestAuthFlow(t *testing.T) {
	s := setupSuite(t)

	email := fmt.Sprintf("flow-%d@test.local", time.Now().UnixNano())
	token := s.registerAndLogin(t, email, "Flow User")

	// duplicate registration is rejected
	w, resp := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": "secret-password", "name": "Dup",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMAIL_TAKEN", resp.Error.Code)

	w, resp = s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	user := resp.Data["user"].(map[string]interface{})
	assert.Equal(t, email, user["email"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingConflictOverHTTP(t *testing.T) {
	s := setupSuite(t)

	alice := s.registerAndLogin(t, fmt.Sprintf("alice-%d@test.local", time.Now().UnixNano()), "Alice")
	bob := s.registerAndLogin(t, fmt.Sprintf("bob-%d@test.local", time.Now().UnixNano()), "Bob")

	w, resp := s.do(t, http.MethodPost, "/api/v1/places", alice, gin.H{"name": "Desk 1"})
	require.Equal(t, http.StatusCreated, w.Code)
	placeID := resp.Data["place"].(map[string]interface{})["id"].(float64)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	book := func(token string, startH, endH int) (*httptest.ResponseRecorder, TestResponse) {
		return s.do(t, http.MethodPost, "/api/v1/bookings", token, gin.H{
			"place_id":   placeID,
			"start_time": day.Add(time.Duration(startH) * time.Hour).Format(time.RFC3339),
			"end_time":   day.Add(time.Duration(endH) * time.Hour).Format(time.RFC3339),
		})
	}

	w, _ = book(alice, 10, 11)
	assert.Equal(t, http.StatusCreated, w.Code)

	// boundary-touching booking succeeds
	w, _ = book(bob, 11, 12)
	assert.Equal(t, http.StatusCreated, w.Code)

	// overlapping booking is a structured 409
	w, resp = book(bob, 10, 12)
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SCHEDULE_CONFLICT", resp.Error.Code)

	// inverted range is a 400 before any conflict checking
	w, resp = book(bob, 15, 14)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_RANGE", resp.Error.Code)

	// the place schedule is public
	w, resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/places/%.0f/reservations", placeID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data["reservations"], 2)
}

func TestCancelAndRebookOverHTTP(t *testing.T) {
	s := setupSuite(t)

	alice := s.registerAndLogin(t, fmt.Sprintf("a2-%d@test.local", time.Now().UnixNano()), "Alice")
	bob := s.registerAndLogin(t, fmt.Sprintf("b2-%d@test.local", time.Now().UnixNano()), "Bob")

	w, resp := s.do(t, http.MethodPost, "/api/v1/places", alice, gin.H{"name": "Desk 2"})
	require.Equal(t, http.StatusCreated, w.Code)
	placeID := resp.Data["place"].(map[string]interface{})["id"].(float64)

	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	payload := gin.H{
		"place_id":   placeID,
		"start_time": day.Add(10 * time.Hour).Format(time.RFC3339),
		"end_time":   day.Add(11 * time.Hour).Format(time.RFC3339),
	}

	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings", alice, payload)
	require.Equal(t, http.StatusCreated, w.Code)
	resID := resp.Data["reservation"].(map[string]interface{})["id"].(float64)
	cancelPath := fmt.Sprintf("/api/v1/bookings/%.0f/cancel", resID)

	// bob does not own the reservation
	w, _ = s.do(t, http.MethodPost, cancelPath, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPost, cancelPath, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// second cancel fails with INVALID_STATE
	w, resp = s.do(t, http.MethodPost, cancelPath, alice, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)

	// the freed interval can be booked again
	w, _ = s.do(t, http.MethodPost, "/api/v1/bookings", bob, payload)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestTakeFlowOverHTTP(t *testing.T) {
	s := setupSuite(t)

	owner := s.registerAndLogin(t, fmt.Sprintf("own-%d@test.local", time.Now().UnixNano()), "Owner")
	taker := s.registerAndLogin(t, fmt.Sprintf("tak-%d@test.local", time.Now().UnixNano()), "Taker")

	w, resp := s.do(t, http.MethodPost, "/api/v1/books", owner, gin.H{
		"title": "Roadside Picnic", "author": "Strugatsky", "genre": "sci-fi",
		"publish_year": 1972, "meeting_address": "Zone entrance",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	bookID := resp.Data["book"].(map[string]interface{})["id"].(float64)
	takePath := fmt.Sprintf("/api/v1/books/%.0f/take", bookID)

	// the owner cannot take their own book
	w, resp = s.do(t, http.MethodPost, takePath, owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SELF_TAKE", resp.Error.Code)

	w, _ = s.do(t, http.MethodPost, takePath, taker, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// the take is terminal
	w, resp = s.do(t, http.MethodPost, takePath, taker, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_TAKEN", resp.Error.Code)

	// the owner still sees the book among their offers
	w, resp = s.do(t, http.MethodGet, "/api/v1/books/my", owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data["books"], 1)

	// and the taker finds it under taken
	w, resp = s.do(t, http.MethodGet, "/api/v1/books/taken", taker, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data["books"], 1)

	w, resp = s.do(t, http.MethodGet, "/api/v1/books/taken", owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Data["books"])
}

func TestAdminRoutesAreGated(t *testing.T) {
	s := setupSuite(t)

	user := s.registerAndLogin(t, fmt.Sprintf("plain-%d@test.local", time.Now().UnixNano()), "Plain")
	adminTok := s.adminToken(t)

	w, _ := s.do(t, http.MethodGet, "/api/v1/admin/users", user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := s.do(t, http.MethodGet, "/api/v1/admin/users", adminTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, resp.Data["users"])

	w, resp = s.do(t, http.MethodGet, "/api/v1/admin/statistics", adminTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, resp.Data["statistics"])
}
