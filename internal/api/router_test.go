package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apimiddleware "github.com/Conceptual-Machines/groove-api/internal/api/middleware"
	"github.com/Conceptual-Machines/groove-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	router := SetupRouter(Deps{}, &config.Config{AuthMode: config.AuthModeNone}, "test")

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/v1/patterns", "", http.StatusOK},
		{http.MethodGet, "/api/v1/patterns/categories", "", http.StatusOK},
		{http.MethodGet, "/api/v1/patterns/trap-beat", "", http.StatusOK},
		{http.MethodPost, "/api/v1/patterns/trap-beat/convert", `{"swingPercent":50}`, http.StatusOK},
		{http.MethodPost, "/api/v1/patterns/parse", `{"notation":"kick: X...|....|X...|...."}`, http.StatusOK},
		{http.MethodPost, "/api/v1/recommendations", `{"progression":{"chords":["C"]}}`, http.StatusOK},
		{http.MethodGet, "/api/v1/recommendations/genres", "", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/v1/progressions/validate", `{"chords":["C"],"genre":"house"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/progressions/humanize", `{"drums":{"kicks":[0]},"seed":1}`, http.StatusOK},
		{http.MethodPost, "/api/v1/melody", `{"chords":["C","G"]}`, http.StatusOK},
		{http.MethodGet, "/api/v1/genres/detect?text=lofi", "", http.StatusOK},
		{http.MethodGet, "/api/v1/packs", "", http.StatusOK},
		{http.MethodPost, "/api/v1/export/midi/chords", `{"chords":["C","G"]}`, http.StatusOK},
		{http.MethodGet, "/api/v1/nothing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(router, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestRoutesRequireJWT(t *testing.T) {
	const secret = "router-secret"
	router := SetupRouter(Deps{}, &config.Config{AuthMode: config.AuthModeJWT, JWTSecret: secret}, "test")

	w := serve(router, http.MethodGet, "/api/v1/patterns", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// health stays public
	w = serve(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	token, err := apimiddleware.SignToken(apimiddleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, secret)
	require.NoError(t, err)

	w = serve(router, http.MethodGet, "/api/v1/patterns", "", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutesBehindGateway(t *testing.T) {
	router := SetupRouter(Deps{}, &config.Config{AuthMode: config.AuthModeGateway}, "test")

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/packs", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/packs", "", map[string]string{"X-User-ID": "u1"}).Code)
}

func TestCORSPreflight(t *testing.T) {
	router := SetupRouter(Deps{}, &config.Config{}, "test")
	w := serve(router, http.MethodOptions, "/api/v1/render", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
