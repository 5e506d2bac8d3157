package groupkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddlewareService() *Service {
	identity := NewStaticIdentityProvider(
		Actor{ID: "basic1", Tier: TierBasic},
		Actor{ID: "premium1", Tier: TierPremium},
		Actor{ID: "admin1", Tier: TierNone, Administrator: true},
	)
	return NewService(DefaultPolicy(), identity, nil)
}

// TestMiddlewareNewMiddleware tests the middleware constructor
func TestMiddlewareNewMiddleware(t *testing.T) {
	service := newTestMiddlewareService()

	// Test with default options
	mw := NewMiddleware(service)
	require.NotNil(t, mw)
	assert.Equal(t, service, mw.service)
	assert.NotNil(t, mw.getUserID)
	assert.NotNil(t, mw.errorHandler)

	// Test with custom options
	customUserID := func(r *http.Request) string { return "custom-user" }
	customErrorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		w.WriteHeader(http.StatusTeapot)
	}

	mw2 := NewMiddleware(service,
		WithUserIDExtractor(customUserID),
		WithErrorHandler(customErrorHandler),
	)
	req := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "custom-user", mw2.getUserID(req))

	w := httptest.NewRecorder()
	mw2.errorHandler(w, req, nil)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

// TestMiddlewareDefaultGetUserID tests the default user ID extractor
func TestMiddlewareDefaultGetUserID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithUserID(req.Context(), "test-user"))

	assert.Equal(t, "test-user", defaultGetUserID(req))

	req = httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, defaultGetUserID(req))
}

// TestMiddlewareDefaultErrorHandler tests status code mapping
func TestMiddlewareDefaultErrorHandler(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Unauthorized error",
			err:            NewError(ErrUnauthorized, "access denied"),
			expectedStatus: http.StatusForbidden,
			expectedBody:   "Forbidden\n",
		},
		{
			name:           "Group not found",
			err:            NewError(ErrGroupNotFound, "gone"),
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Not Found\n",
		},
		{
			name:           "Post not found",
			err:            NewError(ErrPostNotFound, "gone"),
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Not Found\n",
		},
		{
			name:           "Invalid resource",
			err:            NewError(ErrInvalidResource, "mismatch"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Bad Request\n",
		},
		{
			name:           "Missing user ID",
			err:            ErrNoUserID,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Bad Request\n",
		},
		{
			name:           "Generic error",
			err:            NewError(ErrDatabaseError, "database error"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Internal Server Error\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/", nil)

			defaultErrorHandler(w, req, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestMiddlewareResourceExtractors tests all resource extractor functions
func TestMiddlewareResourceExtractors(t *testing.T) {
	t.Run("StaticResource", func(t *testing.T) {
		extractor := StaticResource(ResourceGroup, "group123")

		req := httptest.NewRequest("GET", "/", nil)
		ref, err := extractor(req)

		assert.NoError(t, err)
		assert.Equal(t, ResourceGroup, ref.Type)
		assert.Equal(t, "group123", ref.ID)
	})

	t.Run("TypeOnly", func(t *testing.T) {
		extractor := TypeOnly(ResourcePost)

		req := httptest.NewRequest("GET", "/", nil)
		ref, err := extractor(req)

		assert.NoError(t, err)
		assert.Equal(t, ResourcePost, ref.Type)
		assert.Empty(t, ref.ID)
	})

	t.Run("ResourceFromQuery", func(t *testing.T) {
		extractor := ResourceFromQuery(ResourceGroup, "group_id")

		req := httptest.NewRequest("GET", "/?group_id=group123", nil)
		ref, err := extractor(req)
		assert.NoError(t, err)
		assert.Equal(t, "group123", ref.ID)

		req = httptest.NewRequest("GET", "/", nil)
		_, err = extractor(req)
		assert.Error(t, err)
	})

	t.Run("ResourceFromHeader", func(t *testing.T) {
		extractor := ResourceFromHeader(ResourceGroup, "X-Group-ID")

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Group-ID", "group123")
		ref, err := extractor(req)
		assert.NoError(t, err)
		assert.Equal(t, "group123", ref.ID)

		req = httptest.NewRequest("GET", "/", nil)
		_, err = extractor(req)
		assert.Error(t, err)
	})

	t.Run("ResourceFromParam", func(t *testing.T) {
		extractor := ResourceFromParam(ResourceGroup, "groupID")

		req := httptest.NewRequest("GET", "/groups/group123", nil)
		req.SetPathValue("groupID", "group123")
		ref, err := extractor(req)
		assert.NoError(t, err)
		assert.Equal(t, "group123", ref.ID)

		req = httptest.NewRequest("GET", "/groups", nil)
		_, err = extractor(req)
		assert.Error(t, err)
	})
}

// TestMiddlewareRequireAction tests the main authorization middleware with
// type-only checks (no resource loading involved)
func TestMiddlewareRequireAction(t *testing.T) {
	service := newTestMiddlewareService()
	mw := NewMiddleware(service)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The checker must be available downstream
		checker := GetChecker(r.Context())
		require.NotNil(t, checker)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	handler := mw.RequireAction(ActionCreate, TypeOnly(ResourceGroup))(nextHandler)

	t.Run("premium user allowed", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/groups", nil)
		req = req.WithContext(WithUserID(req.Context(), "premium1"))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "success", w.Body.String())
	})

	t.Run("basic user forbidden", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/groups", nil)
		req = req.WithContext(WithUserID(req.Context(), "basic1"))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("administrator allowed", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/groups", nil)
		req = req.WithContext(WithUserID(req.Context(), "admin1"))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing user ID", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/groups", nil)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestMiddlewareRequireActionExtractorError tests extractor failure handling
func TestMiddlewareRequireActionExtractorError(t *testing.T) {
	service := newTestMiddlewareService()
	mw := NewMiddleware(service)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw.RequireAction(ActionUpdate, ResourceFromQuery(ResourceGroup, "group_id"))(nextHandler)

	req := httptest.NewRequest("POST", "/", nil) // no group_id param
	req = req.WithContext(WithUserID(req.Context(), "premium1"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestMiddlewareRequireAnyAction tests the any-of variant
func TestMiddlewareRequireAnyAction(t *testing.T) {
	service := newTestMiddlewareService()
	mw := NewMiddleware(service)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw.RequireAnyAction([]Action{ActionCreate, ActionUpdate}, TypeOnly(ResourceGroup))(nextHandler)

	// Basic may update groups even though create is denied
	req := httptest.NewRequest("POST", "/", nil)
	req = req.WithContext(WithUserID(req.Context(), "basic1"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// An unknown user falls to the none tier; neither action is granted
	req = httptest.NewRequest("POST", "/", nil)
	req = req.WithContext(WithUserID(req.Context(), "stranger"))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
