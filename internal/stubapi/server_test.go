package stubapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/stubapi"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*stubapi.Server, *httptest.Server) {
	t.Helper()
	s := stubapi.New([]byte("test-secret"),
		domain.Product{ID: "a", Name: "Ant farm", Price: 12.5, Stock: 4},
	)
	require.NoError(t, s.AddUser("admin@example.com", "password"))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestListProducts(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/products")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []domain.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, "Ant farm", products[0].Name)
}

func TestCreateAndUpdateProduct(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/products", domain.Product{Name: "Bonsai", Price: 30, Stock: 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID, "server assigns an ID when absent")

	// full-record update via PUT
	created.Stock = 1
	raw, _ := json.Marshal(created)
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/products/"+created.ID, bytes.NewReader(raw))
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = putResp.Body.Close() }()
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	var updated domain.Product
	require.NoError(t, json.NewDecoder(putResp.Body).Decode(&updated))
	assert.Equal(t, 1, updated.Stock)
}

func TestUpdateUnknownProduct(t *testing.T) {
	_, ts := newTestServer(t)

	raw, _ := json.Marshal(domain.Product{Name: "Ghost"})
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/products/nope", bytes.NewReader(raw))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateRejectsMissingName(t *testing.T) {
	_, ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/products", domain.Product{Price: 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	_, ts := newTestServer(t)

	t.Run("bad credentials", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/login", map[string]string{
			"email": "admin@example.com", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("good credentials yield a decodable token", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/login", map[string]string{
			"email": "admin@example.com", "password": "password",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			AccessToken string `json:"accessToken"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NotEmpty(t, body.AccessToken)

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(body.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", claims["email"])
	})
}
