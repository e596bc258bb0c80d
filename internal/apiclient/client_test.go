package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Kyle6012/plagiarism-detection/api/schemas"
	"github.com/Kyle6012/plagiarism-detection/internal/network"
	"github.com/Kyle6012/plagiarism-detection/internal/session"
)

// staticToken is a fixed TokenSource for tests.
type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, srv *httptest.Server, token string) *Client {
	t.Helper()
	client, err := New(srv.URL, network.NewClient(nil), staticToken(token), zaptest.NewLogger(t))
	require.NoError(t, err)
	return client
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New("not-a-url", network.NewClient(nil), staticToken(""), zaptest.NewLogger(t))
	assert.Error(t, err)

	_, err = New("/relative/only", network.NewClient(nil), staticToken(""), zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	t.Run("success returns access token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/auth/jwt/login", r.URL.Path)
			assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "user@example.test", r.PostForm.Get("username"))
			assert.Equal(t, "hunter2", r.PostForm.Get("password"))
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"tok-abc"}`))
		}))
		defer srv.Close()

		token, err := newTestClient(t, srv, "").Login(context.Background(), "user@example.test", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "tok-abc", token)
	})

	// Scenario: wrong credentials surface the server's own message.
	t.Run("401 detail is surfaced verbatim", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv, "").Login(context.Background(), "user@example.test", "wrong")
		require.Error(t, err)
		assert.Equal(t, "Invalid credentials", err.Error())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.True(t, apiErr.Unauthorized())
	})

	t.Run("error without detail falls back to generic message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`upstream exploded`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv, "").Login(context.Background(), "u", "p")
		require.Error(t, err)
		assert.Equal(t, "Login failed", err.Error())
	})

	t.Run("malformed success body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{]`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv, "").Login(context.Background(), "u", "p")
		assert.Error(t, err)
	})

	t.Run("missing access token is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv, "").Login(context.Background(), "u", "p")
		assert.Error(t, err)
	})
}

func TestRegister(t *testing.T) {
	t.Run("posts json body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/auth/register", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"email":"new@example.test","password":"pw"}`, string(body))
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		err := newTestClient(t, srv, "").Register(context.Background(), "new@example.test", "pw")
		assert.NoError(t, err)
	})

	t.Run("conflict detail is surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"detail":"REGISTER_USER_ALREADY_EXISTS"}`))
		}))
		defer srv.Close()

		err := newTestClient(t, srv, "").Register(context.Background(), "dup@example.test", "pw")
		require.Error(t, err)
		assert.Equal(t, "REGISTER_USER_ALREADY_EXISTS", err.Error())
	})
}

func TestUploadBatch(t *testing.T) {
	files := []schemas.BatchFile{
		{Name: "a.txt", Size: 5, Content: []byte("alpha")},
		{Name: "b.txt", Size: 4, Content: []byte("beta")},
		{Name: "c.txt", Size: 5, Content: []byte("gamma")},
	}

	t.Run("sends one multipart batch with bearer and mode", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/documents/upload", r.URL.Path)
			assert.Equal(t, "both", r.URL.Query().Get("analysis_type"))
			assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))

			require.NoError(t, r.ParseMultipartForm(1<<20))
			parts := r.MultipartForm.File["files"]
			require.Len(t, parts, 3)
			assert.Equal(t, "a.txt", parts[0].Filename)
			assert.Equal(t, "c.txt", parts[2].Filename)

			first, err := parts[0].Open()
			require.NoError(t, err)
			defer first.Close()
			content, err := io.ReadAll(first)
			require.NoError(t, err)
			assert.Equal(t, "alpha", string(content))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok","data":{"batch_id":"abc123"}}`))
		}))
		defer srv.Close()

		batchID, err := newTestClient(t, srv, "tok-abc").UploadBatch(context.Background(), files, schemas.ModeBoth)
		require.NoError(t, err)
		assert.Equal(t, "abc123", batchID)
	})

	t.Run("requires a session token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should reach the server without a token")
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv, "").UploadBatch(context.Background(), files, schemas.ModePlagiarism)
		assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	})

	t.Run("empty batch id in acknowledgement is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ok","data":{"batch_id":""}}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv, "tok").UploadBatch(context.Background(), files, schemas.ModePlagiarism)
		assert.Error(t, err)
	})
}

func TestBatchResults(t *testing.T) {
	t.Run("decodes ordered results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/batch/abc123/results", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"status":"ok","data":[
				{"document_name":"a.txt","similarity":0.15,"similar_document_name":"src1.txt"},
				{"document_name":"b.txt","similarity":0.85,"similar_document_name":"src2.txt"}
			]}`))
		}))
		defer srv.Close()

		results, err := newTestClient(t, srv, "tok").BatchResults(context.Background(), "abc123")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "a.txt", results[0].DocumentName)
		assert.InDelta(t, 0.85, results[1].Similarity, 1e-9)
	})

	t.Run("empty result set is not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ok","data":[]}`))
		}))
		defer srv.Close()

		results, err := newTestClient(t, srv, "tok").BatchResults(context.Background(), "empty-batch")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("out of range similarity is rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ok","data":[{"document_name":"a","similarity":1.5,"similar_document_name":"b"}]}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv, "tok").BatchResults(context.Background(), "bad")
		assert.Error(t, err)
	})

	t.Run("empty batch id fails before any network call", func(t *testing.T) {
		client, err := New("http://localhost:1", network.NewClient(nil), staticToken("tok"), zaptest.NewLogger(t))
		require.NoError(t, err)
		_, err = client.BatchResults(context.Background(), "")
		assert.Error(t, err)
	})
}

func TestDashboard(t *testing.T) {
	t.Run("decodes metrics", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/users/me/dashboard", r.URL.Path)
			_, _ = w.Write([]byte(`{"status":"ok","data":{"num_batches":3,"num_documents":12}}`))
		}))
		defer srv.Close()

		data, err := newTestClient(t, srv, "tok").Dashboard(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, data.NumBatches)
		assert.Equal(t, 12, data.NumDocuments)
	})

	t.Run("transport failure is wrapped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // deliberately unreachable

		_, err := newTestClient(t, srv, "tok").Dashboard(context.Background())
		require.Error(t, err)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr), "transport failures are not API errors")
	})
}
