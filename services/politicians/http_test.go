package politicians

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func apiServer(t *testing.T, accessToken string) (Service, *httptest.Server) {
	t.Helper()
	service := setup(t)
	mux := http.NewServeMux()
	service.Register(mux, accessToken)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return service, server
}

func do(t *testing.T, server *httptest.Server, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, payload
}

func TestAdminCRUDOverHTTP(t *testing.T) {
	_, server := apiServer(t, "token")

	res, body := do(t, server, http.MethodPost, "/api/admin/politicians", "token",
		`{"name":"Jane Doe","state":"CA","office":"SENATOR","status":"INCUMBENT","grade":"PROGRESSIVE"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created Politician
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)

	res, body = do(t, server, http.MethodGet, "/api/admin/politicians/"+created.ID, "token", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body = do(t, server, http.MethodPut, "/api/admin/politicians/"+created.ID, "token",
		`{"healthCare":["For universal coverage"],"published":true}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var updated Politician
	require.NoError(t, json.Unmarshal(body, &updated))
	require.True(t, updated.Published)
	require.NotNil(t, updated.HealthCare)
	require.Equal(t, `["For universal coverage"]`, *updated.HealthCare)

	res, body = do(t, server, http.MethodGet, "/api/admin/politicians?name=jane", "token", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var listed []Politician
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)

	res, _ = do(t, server, http.MethodDelete, "/api/admin/politicians/"+created.ID, "token", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = do(t, server, http.MethodGet, "/api/admin/politicians/"+created.ID, "token", "")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	_, server := apiServer(t, "token")

	res, _ := do(t, server, http.MethodGet, "/api/admin/politicians", "", "")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = do(t, server, http.MethodGet, "/api/admin/politicians", "wrong", "")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// the public surface stays open
	res, _ = do(t, server, http.MethodGet, "/api/politicians", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestPublicEndpoints(t *testing.T) {
	service, server := apiServer(t, "token")
	ctx := context.Background()

	created := create(t, service, validForm())

	// unpublished records never surface publicly
	res, body := do(t, server, http.MethodGet, "/api/politicians/jane-doe", "", "")
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	_, err := service.Update(ctx, created.ID, map[string]json.RawMessage{
		"published": json.RawMessage(`true`),
	})
	require.NoError(t, err)

	res, body = do(t, server, http.MethodGet, "/api/politicians/jane-doe", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var profile Politician
	require.NoError(t, json.Unmarshal(body, &profile))
	require.Equal(t, created.ID, profile.ID)

	res, body = do(t, server, http.MethodGet, "/api/politicians?grade=progressive", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var summaries []PublicSummary
	require.NoError(t, json.Unmarshal(body, &summaries))
	require.Len(t, summaries, 1)
	require.Equal(t, "Senator", summaries[0].Office)

	res, body = do(t, server, http.MethodGet, "/api/politicians?grade=centrist", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `[]`, string(body))
}

func TestCreateRejectsBadBody(t *testing.T) {
	_, server := apiServer(t, "")

	res, _ := do(t, server, http.MethodPost, "/api/admin/politicians", "", `not json`)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = do(t, server, http.MethodPost, "/api/admin/politicians", "",
		`{"name":"X","state":"CA","office":"EMPEROR","status":"INCUMBENT","grade":"PENDING"}`)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}
