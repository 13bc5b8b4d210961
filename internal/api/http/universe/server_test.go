package universe

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	router := NewServer().NewRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	return rec
}

// TestRoutes checks status codes and exact bodies of every route.
func TestRoutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		method string
		target string
		status int
		body   string
	}{
		{
			name:   "root",
			method: http.MethodGet,
			target: "/",
			status: http.StatusOK,
			body:   `{"message":"Hello World from My Universe Server!"}`,
		},
		{
			name:   "health",
			method: http.MethodGet,
			target: "/health",
			status: http.StatusOK,
			body:   `{"status":"healthy","message":"Server is running"}`,
		},
		{
			name:   "hello",
			method: http.MethodGet,
			target: "/hello/Ada",
			status: http.StatusOK,
			body:   `{"message":"Hello Ada!"}`,
		},
		{
			name:   "hello with escaped name",
			method: http.MethodGet,
			target: "/hello/Ada%20Lovelace",
			status: http.StatusOK,
			body:   `{"message":"Hello Ada Lovelace!"}`,
		},
		{
			name:   "universe",
			method: http.MethodGet,
			target: "/api/universe",
			status: http.StatusOK,
			body:   `{"stars":200,"planets":8,"galaxies":1,"status":"exploring"}`,
		},
		{
			name:   "unknown route",
			method: http.MethodGet,
			target: "/api/galaxies",
			status: http.StatusNotFound,
			body:   `{"detail":"Not Found"}`,
		},
		{
			name:   "wrong method",
			method: http.MethodPost,
			target: "/health",
			status: http.StatusMethodNotAllowed,
			body:   `{"detail":"Method Not Allowed"}`,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(t, tc.method, tc.target)

			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			require.Equal(t, tc.body, rec.Body.String())
		})
	}
}

// TestHealth_MatchesDocumentedBody compares semantically with the spaced form used in docs.
func TestHealth_MatchesDocumentedBody(t *testing.T) {
	t.Parallel()

	rec := serve(t, http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status": "healthy", "message": "Server is running"}`, rec.Body.String())
}
