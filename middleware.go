package groupkit

import (
	"net/http"
)

// Middleware provides HTTP middleware for capability checking.
type Middleware struct {
	service      *Service
	getUserID    func(*http.Request) string
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := groupkit.NewMiddleware(service,
//	    groupkit.WithUserIDExtractor(func(r *http.Request) string {
//	        return r.Context().Value("user_id").(string)
//	    }),
//	)
func NewMiddleware(service *Service, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		service:      service,
		getUserID:    defaultGetUserID,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithUserIDExtractor sets a custom function to extract user ID from request.
func WithUserIDExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getUserID = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetUserID(r *http.Request) string {
	return GetUserID(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if IsUnauthorized(err) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if IsNotFound(err) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if IsInvalidResource(err) || err == ErrNoUserID {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// ResourceRef names the resource an HTTP request targets. An empty ID means a
// type-only check (e.g. "may this user create groups at all").
type ResourceRef struct {
	Type ResourceType
	ID   string
}

// ResourceExtractor resolves the target resource from an HTTP request.
type ResourceExtractor func(*http.Request) (ResourceRef, error)

// ResourceFromParam creates a ResourceExtractor that reads the resource ID
// from URL parameters. Compatible with chi, gorilla/mux, and standard library
// patterns.
//
// Example:
//
//	// For route /groups/{groupID}
//	mw.RequireAction(groupkit.ActionUpdate, groupkit.ResourceFromParam(groupkit.ResourceGroup, "groupID"))
func ResourceFromParam(resource ResourceType, paramName string) ResourceExtractor {
	return func(r *http.Request) (ResourceRef, error) {
		id := r.PathValue(paramName)
		if id == "" {
			// Router middleware may have stashed it in context instead
			if v := r.Context().Value(paramName); v != nil {
				if s, ok := v.(string); ok {
					id = s
				}
			}
		}
		if id == "" {
			return ResourceRef{}, NewError(ErrInvalidResource, "resource ID not found in request").
				WithAction("", resource)
		}
		return ResourceRef{Type: resource, ID: id}, nil
	}
}

// ResourceFromQuery creates a ResourceExtractor that reads the resource ID
// from query parameters.
//
// Example:
//
//	// For route /api/posts?post_id=...
//	mw.RequireAction(groupkit.ActionDelete, groupkit.ResourceFromQuery(groupkit.ResourcePost, "post_id"))
func ResourceFromQuery(resource ResourceType, queryParam string) ResourceExtractor {
	return func(r *http.Request) (ResourceRef, error) {
		id := r.URL.Query().Get(queryParam)
		if id == "" {
			return ResourceRef{}, NewError(ErrInvalidResource, "resource ID not found in query").
				WithAction("", resource)
		}
		return ResourceRef{Type: resource, ID: id}, nil
	}
}

// ResourceFromHeader creates a ResourceExtractor that reads the resource ID
// from a header.
//
// Example:
//
//	// For header X-Group-ID: ...
//	mw.RequireAction(groupkit.ActionManage, groupkit.ResourceFromHeader(groupkit.ResourceGroup, "X-Group-ID"))
func ResourceFromHeader(resource ResourceType, headerName string) ResourceExtractor {
	return func(r *http.Request) (ResourceRef, error) {
		id := r.Header.Get(headerName)
		if id == "" {
			return ResourceRef{}, NewError(ErrInvalidResource, "resource ID not found in header").
				WithAction("", resource)
		}
		return ResourceRef{Type: resource, ID: id}, nil
	}
}

// StaticResource creates a ResourceExtractor that always returns the same
// resource.
func StaticResource(resource ResourceType, id string) ResourceExtractor {
	return func(r *http.Request) (ResourceRef, error) {
		return ResourceRef{Type: resource, ID: id}, nil
	}
}

// TypeOnly creates a ResourceExtractor for checks that do not target an
// existing instance, such as group creation.
func TypeOnly(resource ResourceType) ResourceExtractor {
	return func(r *http.Request) (ResourceRef, error) {
		return ResourceRef{Type: resource}, nil
	}
}

// RequireAction creates middleware that requires a capability for the
// resource named by the extractor. When the extractor yields a concrete ID
// the instance is loaded so ownership-scoped rules apply; a missing instance
// is a 404 before any decision is made.
//
// Example:
//
//	router.Handle("/groups/{groupID}",
//	    mw.RequireAction(groupkit.ActionDelete, groupkit.ResourceFromParam(groupkit.ResourceGroup, "groupID"))(deleteGroupHandler))
func (m *Middleware) RequireAction(action Action, extractor ResourceExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := m.getUserID(r)
			if userID == "" {
				m.errorHandler(w, r, ErrNoUserID)
				return
			}

			ref, err := extractor(r)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			instance, err := m.loadResource(r, ref)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			ok, err := m.service.CanPerform(ctx, userID, action, ref.Type, instance)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}
			if !ok {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "missing required capability").
					WithActor(userID).
					WithAction(action, ref.Type))
				return
			}

			// Add checker to context for use in handlers
			checker, err := m.service.GetChecker(ctx, userID)
			if err == nil {
				ctx = WithChecker(ctx, checker)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyAction creates middleware that passes when any of the listed
// actions is permitted on the extracted resource.
func (m *Middleware) RequireAnyAction(actions []Action, extractor ResourceExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := m.getUserID(r)
			if userID == "" {
				m.errorHandler(w, r, ErrNoUserID)
				return
			}

			ref, err := extractor(r)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			instance, err := m.loadResource(r, ref)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			checker, err := m.service.GetChecker(ctx, userID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			if !checker.CanAny(actions, ref.Type, instance) {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "missing required capability").
					WithActor(userID))
				return
			}

			ctx = WithChecker(ctx, checker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *Middleware) loadResource(r *http.Request, ref ResourceRef) (Resource, error) {
	if ref.ID == "" {
		return nil, nil
	}
	switch ref.Type {
	case ResourceGroup:
		return m.service.GetGroup(r.Context(), ref.ID)
	case ResourcePost:
		return m.service.GetPost(r.Context(), ref.ID)
	default:
		return nil, NewError(ErrInvalidResourceType, string(ref.Type))
	}
}
