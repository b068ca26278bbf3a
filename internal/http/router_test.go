package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	"github.com/yungbote/coincollector-backend/internal/data/repos"
	repotest "github.com/yungbote/coincollector-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/coincollector-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coincollector-backend/internal/http/middleware"
	"github.com/yungbote/coincollector-backend/internal/observability"
	"github.com/yungbote/coincollector-backend/internal/services"
)

const cookieName = "sessionId"

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestAPI(t *testing.T, loginRate string) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := repotest.DB(t)
	log := repotest.Logger(t)
	deps := aggregates.BaseDeps{DB: db, Log: log}

	coins := aggregates.NewCoinStorage(deps, repos.NewCoinRepo(db, log))
	collections := aggregates.NewCollectionStorage(deps, repos.NewCollectionRepo(db, log), coins)
	groups := aggregates.NewGroupStorage(deps, repos.NewGroupRepo(db, log), collections)
	users := aggregates.NewUserStorage(deps, repos.NewUserRepo(db, log))

	auth := services.NewAuthService(log, users, services.NewMemorySessionStore(time.Hour), "test-secret", time.Hour)
	authz := services.NewAuthorizer(log, groups, collections, coins)
	lib := services.NewLibraryService(log, aggregates.NewGormTxRunner(db), authz, groups, collections, coins)

	lim, err := httpMW.NewMemoryLimiter(loginRate)
	require.NoError(t, err)

	engine := NewRouter(RouterConfig{
		Log:               log,
		Metrics:           observability.NewMetrics(),
		LoginLimiter:      lim,
		SessionAuth:       httpMW.NewSessionAuth(log, auth, cookieName),
		HealthHandler:     httpH.NewHealthHandler(nil),
		AuthHandler:       httpH.NewAuthHandler(log, auth, httpH.CookieConfig{Name: cookieName}),
		GroupHandler:      httpH.NewGroupHandler(log, lib),
		CollectionHandler: httpH.NewCollectionHandler(log, lib),
		CoinHandler:       httpH.NewCoinHandler(log, lib),
	})
	return &testAPI{t: t, engine: engine}
}

func (a *testAPI) do(method, path string, body any, session *nethttp.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) register(username string) *nethttp.Cookie {
	a.t.Helper()
	rec := a.do(nethttp.MethodPost, "/api/register", map[string]string{"username": username, "password": "correct-horse"}, nil)
	require.Equal(a.t, nethttp.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	a.t.Fatalf("no session cookie in register response")
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t, "5-M")

	rec := api.do(nethttp.MethodGet, "/healthcheck", nil, nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = api.do(nethttp.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	api := newTestAPI(t, "5-M")

	rec := api.do(nethttp.MethodGet, "/api/groups", nil, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	env := decode[map[string]map[string]string](t, rec)
	assert.Equal(t, "unauthorized", env["error"]["code"])

	rec = api.do(nethttp.MethodGet, "/api/groups", nil, &nethttp.Cookie{Name: cookieName, Value: "forged"})
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func TestRegisterLoginLogout(t *testing.T) {
	api := newTestAPI(t, "5-M")
	session := api.register("alice")

	rec := api.do(nethttp.MethodPost, "/api/register", map[string]string{"username": "alice", "password": "correct-horse"}, nil)
	assert.Equal(t, nethttp.StatusConflict, rec.Code)
	rec = api.do(nethttp.MethodPost, "/api/register", map[string]string{"username": "al", "password": "correct-horse"}, nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = api.do(nethttp.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "wrong-horse"}, nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	rec = api.do(nethttp.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "correct-horse"}, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[map[string]string](t, rec)["userId"])

	rec = api.do(nethttp.MethodPost, "/api/logout", nil, session)
	assert.Equal(t, nethttp.StatusNoContent, rec.Code)
	rec = api.do(nethttp.MethodGet, "/api/groups", nil, session)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	api := newTestAPI(t, "2-M")
	body := map[string]string{"username": "nobody", "password": "whatever-pass"}

	assert.Equal(t, nethttp.StatusBadRequest, api.do(nethttp.MethodPost, "/api/login", body, nil).Code)
	assert.Equal(t, nethttp.StatusBadRequest, api.do(nethttp.MethodPost, "/api/login", body, nil).Code)
	assert.Equal(t, nethttp.StatusTooManyRequests, api.do(nethttp.MethodPost, "/api/login", body, nil).Code)
}

func TestLibraryEndpoints(t *testing.T) {
	api := newTestAPI(t, "5-M")
	alice := api.register("alice")
	bob := api.register("bobby")

	rec := api.do(nethttp.MethodPost, "/api/groups", map[string]string{"name": "Sammlung"}, alice)
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	group := decode[httpH.GroupResponse](t, rec)

	rec = api.do(nethttp.MethodPost, "/api/collections", map[string]any{
		"name":    "Deutschland",
		"groupId": group.ID,
		"coins": []map[string]any{
			{"year": 2002, "value": 100, "country": "DE", "mint": "A"},
			{"year": 2002, "value": 200, "country": "DE", "mint": "J"},
		},
	}, alice)
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	collection := decode[httpH.CollectionResponse](t, rec)
	require.Len(t, collection.Coins, 2)

	rec = api.do(nethttp.MethodPost, "/api/coins", map[string]any{
		"year": 2004, "value": 50, "country": "FI", "collectionId": collection.ID,
	}, alice)
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	coin := decode[httpH.CoinResponse](t, rec)
	assert.Nil(t, coin.Mint)
	assert.Equal(t, collection.ID+":FINLAND_FIFTY_CENTS_2004_NONE", coin.ID)

	rec = api.do(nethttp.MethodGet, "/api/groups", nil, alice)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	groups := decode[[]httpH.GroupResponse](t, rec)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Collections, 1)
	assert.Len(t, groups[0].Collections[0].Coins, 3)

	rec = api.do(nethttp.MethodPatch, "/api/coins/"+coin.ID, map[string]any{"year": 2005}, alice)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	patched := decode[httpH.CoinResponse](t, rec)
	assert.Equal(t, collection.ID+":FINLAND_FIFTY_CENTS_2005_NONE", patched.ID)
	assert.Equal(t, nethttp.StatusNotFound, api.do(nethttp.MethodGet, "/api/coins/"+coin.ID, nil, alice).Code)

	// Foreign resources look absent.
	assert.Equal(t, nethttp.StatusNotFound, api.do(nethttp.MethodGet, "/api/groups/"+group.ID, nil, bob).Code)
	assert.Equal(t, nethttp.StatusNotFound, api.do(nethttp.MethodGet, "/api/collections/"+collection.ID, nil, bob).Code)
	assert.Equal(t, nethttp.StatusNotFound, api.do(nethttp.MethodDelete, "/api/coins/"+patched.ID, nil, bob).Code)

	rec = api.do(nethttp.MethodPatch, "/api/collections/"+collection.ID, map[string]any{"name": "BRD"}, alice)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "BRD", decode[httpH.CollectionResponse](t, rec).Name)

	rec = api.do(nethttp.MethodPatch, "/api/groups/"+group.ID, map[string]any{"name": "Euro"}, alice)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "Euro", decode[httpH.GroupResponse](t, rec).Name)

	assert.Equal(t, nethttp.StatusNoContent, api.do(nethttp.MethodDelete, "/api/groups/"+group.ID, nil, alice).Code)
	assert.Equal(t, nethttp.StatusNotFound, api.do(nethttp.MethodGet, "/api/collections/"+collection.ID, nil, alice).Code)
	assert.Equal(t, nethttp.StatusNotFound, api.do(nethttp.MethodGet, "/api/coins/"+patched.ID, nil, alice).Code)
}

func TestCoinRequestValidation(t *testing.T) {
	api := newTestAPI(t, "5-M")
	alice := api.register("alice")

	cases := map[string]map[string]any{
		"unknown value":   {"year": 2002, "value": 3, "country": "DE", "mint": "A", "collectionId": "c1"},
		"unknown country": {"year": 2002, "value": 100, "country": "US", "collectionId": "c1"},
		"too old":         {"year": 1998, "value": 100, "country": "FR", "collectionId": "c1"},
		"no collection":   {"year": 2002, "value": 100, "country": "FR"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := api.do(nethttp.MethodPost, "/api/coins", body, alice)
			assert.Equal(t, nethttp.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	rec := api.do(nethttp.MethodPost, "/api/coins", map[string]any{"year": 2002, "value": 100, "country": "FR", "collectionId": "missing"}, alice)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}
