package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restora/configs"
	"restora/entity"
	"restora/repository"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repository.Repositories) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repository.NewMemory()
	cfg := &configs.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}

	r := gin.New()
	RegisterRoutes(r, repos, cfg)
	return r, repos
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMenuEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/menu", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/menu", map[string]any{"name": "Quiche"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "price is required")

	w = doJSON(t, r, http.MethodPost, "/menu", map[string]any{"name": "Quiche", "price": 520})
	require.Equal(t, http.StatusCreated, w.Code)

	var created entity.MenuItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Specials", created.Category, "category defaults when omitted")
	assert.NotEmpty(t, created.Image, "image defaults when omitted")

	w = doJSON(t, r, http.MethodPost, "/menu", map[string]any{"id": "client-id-1", "name": "Tarte", "price": 300})
	require.Equal(t, http.StatusCreated, w.Code)
	var withID entity.MenuItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &withID))
	assert.Equal(t, "client-id-1", withID.ID, "client-supplied id is honored")

	w = doJSON(t, r, http.MethodPut, "/menu", map[string]any{"price": 540})
	assert.Equal(t, http.StatusBadRequest, w.Code, "id query parameter is required")

	w = doJSON(t, r, http.MethodPut, "/menu?id="+created.ID, map[string]any{"price": 540})
	require.Equal(t, http.StatusOK, w.Code)
	var updated entity.MenuItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 540.0, updated.Price)
	assert.Equal(t, "Quiche", updated.Name)

	w = doJSON(t, r, http.MethodPut, "/menu?id=missing", map[string]any{"price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/menu?id="+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/menu?id="+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPatch, "/menu", map[string]any{"price": 1})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET,POST,PUT,DELETE", w.Header().Get("Allow"))

	w = doJSON(t, r, http.MethodPut, "/reviews", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET,POST,DELETE", w.Header().Get("Allow"))

	w = doJSON(t, r, http.MethodDelete, "/sales", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET,POST", w.Header().Get("Allow"))
}

func TestReviewEndpoints(t *testing.T) {
	r, repos := newTestRouter(t)
	require.NoError(t, repos.Menu.Create(&entity.MenuItem{ID: "dish-1", Name: "Bouillabaisse", Price: 1200}))

	w := doJSON(t, r, http.MethodPost, "/reviews", map[string]any{"itemId": "dish-1", "rating": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code, "reviewerName and text are required")

	w = doJSON(t, r, http.MethodPost, "/reviews", map[string]any{
		"itemId": "dish-1", "rating": 5, "reviewerName": "Ada", "text": "Superb",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var review entity.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
	assert.Equal(t, "Bouillabaisse", review.ItemName)
	assert.NotZero(t, review.Timestamp)

	w = doJSON(t, r, http.MethodPost, "/reviews", map[string]any{
		"itemId": "gone", "rating": 3, "reviewerName": "Bob", "text": "ok",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var dangling entity.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dangling))
	assert.Equal(t, "Unknown", dangling.ItemName, "dangling itemId is tolerated")

	w = doJSON(t, r, http.MethodDelete, "/reviews?id="+review.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/reviews", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "review delete requires an id")
}

func TestReservationStatusRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/reservations", map[string]any{
		"name": "Ada", "phone": "555-0100", "guests": 2, "date": "2026-09-10", "time": "19:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var reservation entity.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reservation))
	assert.Equal(t, entity.ReservationPending, reservation.Status)

	w = doJSON(t, r, http.MethodPatch, "/reservations?id="+reservation.ID, map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/reservations?id="+reservation.ID, map[string]any{"status": "seated"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown status is rejected")

	// Any client reading afterwards sees the new status.
	w = doJSON(t, r, http.MethodGet, "/reservations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []entity.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, entity.ReservationApproved, all[0].Status)

	// DELETE without id clears the whole book.
	w = doJSON(t, r, http.MethodDelete, "/reservations", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, r, http.MethodGet, "/reservations", nil)
	assert.Equal(t, "[]", w.Body.String())
}

func TestSalesEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/sales", map[string]any{"items": "not-an-array", "total": 12})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/sales", map[string]any{
		"items": []map[string]any{{"id": "dish-1", "name": "Crêpes", "price": 450, "qty": 2}},
		"total": 900,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var sale entity.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, 900.0, sale.Total)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 2, sale.Items[0].Qty)
}

func TestUserEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/users", map[string]any{"email": "ada@example.com", "name": "Ada"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "password is required")

	w = doJSON(t, r, http.MethodPost, "/users", map[string]any{
		"email": "ada@example.com", "password": "lovelace", "name": "Ada",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "lovelace", "password never leaves the server")

	w = doJSON(t, r, http.MethodPost, "/users", map[string]any{
		"email": "ada@example.com", "password": "again", "name": "Ada II",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "lovelace")
}

func TestLoginAndAdminDashboard(t *testing.T) {
	r, repos := newTestRouter(t)
	require.NoError(t, configs.SeedUsers(repos.Users))

	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{
		"email": "admin@gmail.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{
		"email": "admin@gmail.com", "password": "12345678",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string      `json:"token"`
		User  entity.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, entity.RoleAdmin, login.User.Role)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusUnauthorized, w2.Code, "dashboard requires a token")

	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w2 = httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "pendingReservations")
}
