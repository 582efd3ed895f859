package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/crateyy/internal/application"
	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/internal/infrastructure/imagestore"
	"github.com/oksasatya/crateyy/internal/infrastructure/jsonfile"
	"github.com/oksasatya/crateyy/internal/interface/middleware"
	"github.com/oksasatya/crateyy/pkg/helpers"
	"github.com/oksasatya/crateyy/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

type envelope struct {
	Status  int               `json:"status"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Meta    map[string]any    `json:"meta"`
	Error   map[string]string `json:"error"`
}

type testServer struct {
	engine   *gin.Engine
	identity *application.IdentityService
	catalog  *application.CatalogService
	uploads  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	uploads := filepath.Join(dir, "uploads")

	catalogSvc := application.NewCatalogService(
		jsonfile.NewProductRepository(filepath.Join(dir, "products.json")),
		application.NewIDGenerator(0),
		imagestore.NewLocal(uploads, "public/uploads"),
		nil, nil,
	)
	identitySvc := application.NewIdentityService(
		jsonfile.NewUserRepository(filepath.Join(dir, "users.json")),
		application.NewCredentialVerifier(application.StrategyBcrypt),
		jwt, nil, nil, nil,
	)

	products := NewProductHandler(catalogSvc, nil)
	auth := NewAuthHandler(identitySvc, nil, "", false)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/products", products.List)
	api.GET("/products/search", products.Search)
	admin := api.Group("/products", middleware.Auth(nil, jwt), middleware.RequireRole("admin"))
	admin.POST("", products.Create)
	admin.PUT("/:id", products.Update)
	admin.DELETE("/:id", products.Delete)

	api.POST("/login", auth.Login)
	api.POST("/register", auth.Register)
	api.GET("/logout", middleware.OptionalAuth(nil, jwt), auth.Logout)
	api.GET("/current_user", middleware.Auth(nil, jwt), auth.CurrentUser)

	return &testServer{engine: r, identity: identitySvc, catalog: catalogSvc, uploads: uploads}
}

func (s *testServer) do(t *testing.T, req *http.Request, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func jsonRequest(method, path string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, file string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != "" {
		fw, err := mw.CreateFormFile("image", file)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookie {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", helpers.SessionCookie)
	return nil
}

func (s *testServer) loginAs(t *testing.T, role entity.Role) *http.Cookie {
	t.Helper()
	email := string(role) + "@crateyy.test"
	s.identity.AllowAdminSignup = true
	_, err := s.identity.Register(context.Background(), application.RegisterInput{
		Name: string(role), Email: email, Password: "pw123456", Role: string(role),
	})
	s.identity.AllowAdminSignup = false
	require.NoError(t, err)

	w, env := s.do(t, jsonRequest(http.MethodPost, "/api/login", gin.H{"email": email, "password": "pw123456"}))
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	return sessionCookie(t, w)
}

func TestProducts_ListEmptyCatalog(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	require.EqualValues(t, 0, env.Meta["count"])
	require.JSONEq(t, `[]`, string(env.Data))
}

func TestProducts_AdminCreateUpdateDelete(t *testing.T) {
	s := newTestServer(t)
	admin := s.loginAs(t, entity.RoleAdmin)

	w, env := s.do(t, multipartRequest(t, http.MethodPost, "/api/products", map[string]string{
		"name": "Black Hoodie", "price": "100", "discount": "20", "category": "new-drops", "type": "hoodies",
	}, "front.png"), admin)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)

	var created entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.ID)
	require.True(t, strings.HasPrefix(created.Image, "public/uploads/"))
	entries, err := os.ReadDir(s.uploads)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	path := "/api/products/" + jsonNumber(created.ID)
	w, env = s.do(t, multipartRequest(t, http.MethodPut, path, map[string]string{"discount": "0"}, ""), admin)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var updated entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, entity.Percent(0), updated.Discount)
	require.Equal(t, "Black Hoodie", updated.Name)
	require.Equal(t, created.Image, updated.Image)

	w, env = s.do(t, httptest.NewRequest(http.MethodDelete, path, nil), admin)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "deleted successfully", env.Message)

	w, _ = s.do(t, httptest.NewRequest(http.MethodDelete, path, nil), admin)
	require.Equal(t, http.StatusOK, w.Code, "deleting twice is not an error")

	w, env = s.do(t, multipartRequest(t, http.MethodPut, path, map[string]string{"name": "x"}, ""), admin)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, env.Success)
}

func TestProducts_CreateAcceptsJSON(t *testing.T) {
	s := newTestServer(t)
	admin := s.loginAs(t, entity.RoleAdmin)

	w, env := s.do(t, jsonRequest(http.MethodPost, "/api/products", gin.H{
		"name": "Cap", "price": "49.50", "existingImage": "https://cdn.example.com/cap.png",
	}), admin)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	var p entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Equal(t, "https://cdn.example.com/cap.png", p.Image)
	require.Equal(t, entity.Percent(0), p.Discount)
}

func TestProducts_JSONAcceptsNumericPriceAndDiscount(t *testing.T) {
	s := newTestServer(t)
	admin := s.loginAs(t, entity.RoleAdmin)

	w, env := s.do(t, jsonRequest(http.MethodPost, "/api/products", map[string]any{
		"name": "Tote", "price": 49.5, "discount": 10, "category": "best-sellers", "type": "bags",
	}), admin)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	var p entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Equal(t, "49.5", p.Price.String())
	require.Equal(t, entity.Percent(10), p.Discount)

	w, env = s.do(t, jsonRequest(http.MethodPut, "/api/products/"+jsonNumber(p.ID), map[string]any{"price": 60, "discount": 0}), admin)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Equal(t, "60", p.Price.String())
	require.Equal(t, entity.Percent(0), p.Discount)
}

func TestProducts_RejectsNegativeAndMalformedPrices(t *testing.T) {
	s := newTestServer(t)
	admin := s.loginAs(t, entity.RoleAdmin)

	w, env := s.do(t, jsonRequest(http.MethodPost, "/api/products", map[string]any{"name": "Cap", "price": -5}), admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, env.Error, "price")

	w, env = s.do(t, multipartRequest(t, http.MethodPost, "/api/products", map[string]string{"name": "Cap", "price": "12abc34"}, ""), admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "must be a number", env.Error["price"])
}

func TestProducts_CreateValidation(t *testing.T) {
	s := newTestServer(t)
	admin := s.loginAs(t, entity.RoleAdmin)

	w, env := s.do(t, multipartRequest(t, http.MethodPost, "/api/products", map[string]string{
		"name": "Hoodie", "discount": "lots",
	}, ""), admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "is required", env.Error["price"])
	require.Contains(t, env.Error, "discount")

	w, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/products/abc", nil), admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProducts_MutationsNeedAdmin(t *testing.T) {
	s := newTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/api/products", map[string]string{"name": "x", "price": "1"}, "")
	w, _ := s.do(t, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	customer := s.loginAs(t, entity.RoleCustomer)
	req = multipartRequest(t, http.MethodPost, "/api/products", map[string]string{"name": "x", "price": "1"}, "")
	w, _ = s.do(t, req, customer)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Empty(t, s.catalog.List(context.Background()))
}

func TestProducts_Search(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	for _, in := range []application.NewProduct{
		{Name: "Black Hoodie", Price: entity.NewPrice(120), Type: "hoodies"},
		{Name: "White Tee", Price: entity.NewPrice(40), Type: "t-shirts"},
	} {
		_, err := s.catalog.Create(ctx, in, nil)
		require.NoError(t, err)
	}

	w, env := s.do(t, httptest.NewRequest(http.MethodGet, "/api/products/search?q=tee&price=0-50", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got []entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	require.Equal(t, "White Tee", got[0].Name)

	w, env = s.do(t, httptest.NewRequest(http.MethodGet, "/api/products/search?price=cheap", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, env.Error, "price")
}

func TestAuth_RegisterLoginCurrentUserLogout(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, jsonRequest(http.MethodPost, "/api/register", gin.H{
		"name": "Asha", "email": "asha@x.io", "password": "pw123456",
	}))
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	require.NotContains(t, string(env.Data), "password")

	w, env = s.do(t, jsonRequest(http.MethodPost, "/api/register", gin.H{
		"name": "Asha", "email": "ASHA@x.io", "password": "pw123456",
	}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "email already exists", env.Message)

	w, _ = s.do(t, jsonRequest(http.MethodPost, "/api/login", gin.H{"email": "asha@x.io", "password": "wrong1"}))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, jsonRequest(http.MethodPost, "/api/login", gin.H{"email": "asha@x.io", "password": "pw123456", "role": "admin"}))
	require.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, jsonRequest(http.MethodPost, "/api/login", gin.H{"email": "asha@x.io", "password": "pw123456"}))
	require.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(t, w)
	require.True(t, ck.HttpOnly)

	w, env = s.do(t, httptest.NewRequest(http.MethodGet, "/api/current_user", nil), ck)
	require.Equal(t, http.StatusOK, w.Code)
	var u entity.PublicUser
	require.NoError(t, json.Unmarshal(env.Data, &u))
	require.Equal(t, "asha@x.io", u.Email)
	require.Equal(t, entity.RoleCustomer, u.Role)

	w, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/logout", nil), ck)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookie(t, w)
	require.Empty(t, cleared.Value)
}

func TestAuth_RegisterRejectsAdminAndBadInput(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, jsonRequest(http.MethodPost, "/api/register", gin.H{
		"name": "Eve", "email": "eve@x.io", "password": "pw123456", "role": "admin",
	}))
	require.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, jsonRequest(http.MethodPost, "/api/register", gin.H{
		"email": "not-an-email", "password": "123",
	}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "is required", env.Error["name"])
	require.Equal(t, "must be a valid email", env.Error["email"])
	require.Equal(t, "min length 6", env.Error["password"])
}

func TestAuth_CurrentUserWithoutSession(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, httptest.NewRequest(http.MethodGet, "/api/current_user", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, env.Success)

	bogus := &http.Cookie{Name: helpers.SessionCookie, Value: "not-a-jwt"}
	w, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/current_user", nil), bogus)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_CurrentUserForDeletedAccount(t *testing.T) {
	s := newTestServer(t)
	sess, err := s.identity.StartSession(context.Background(), &entity.User{ID: "ghost", Role: entity.RoleCustomer})
	require.NoError(t, err)

	ck := &http.Cookie{Name: helpers.SessionCookie, Value: sess.Token}
	w, _ := s.do(t, httptest.NewRequest(http.MethodGet, "/api/current_user", nil), ck)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, sessionCookie(t, w).Value)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
