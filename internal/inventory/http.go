package inventory

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"Inventory/pkg/kit"
)

type Server struct {
	Store  Store
	Assets *Assets
	Log    *zap.Logger
}

type deleteResp struct {
	Deleted bool `json:"deleted"`
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if products == nil {
		products = []Product{}
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

// mutate dispatches a POST on the _method override carried in the form body.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(w, r)
	if err != nil {
		kit.WriteError(w, http.StatusBadRequest, "bad body")
		return
	}

	switch f.method() {
	case http.MethodPost:
		s.create(w, r, f)
	case http.MethodPut:
		s.update(w, r, f)
	case http.MethodDelete:
		s.delete(w, r, f)
	default:
		s.writeError(w, r, ErrInvalidMethod)
	}
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, f form) {
	p, err := s.Store.Create(r.Context(), f[fieldName], f.intValue(fieldQuantity), f.floatValue(fieldPrice))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger().Debug("product created", zap.Int("id", p.ID))
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, f form) {
	id := f.intValue(fieldID)
	if id == 0 {
		s.writeError(w, r, ErrIDRequired)
		return
	}

	p, err := s.Store.Update(r.Context(), id, f.patch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger().Debug("product updated", zap.Int("id", p.ID))
	kit.WriteJSON(w, http.StatusOK, p)
}

// delete does not require an id: a missing or zero id simply matches nothing.
func (s *Server) delete(w http.ResponseWriter, r *http.Request, f form) {
	id := f.intValue(fieldID)

	deleted, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !deleted {
		s.writeError(w, r, ErrNotFound)
		return
	}

	s.logger().Debug("product deleted", zap.Int("id", id))
	kit.WriteJSON(w, http.StatusOK, deleteResp{Deleted: true})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNameRequired):
		kit.WriteError(w, http.StatusBadRequest, "Name required")
	case errors.Is(err, ErrIDRequired):
		kit.WriteError(w, http.StatusBadRequest, "id required")
	case errors.Is(err, ErrInvalidMethod):
		kit.WriteError(w, http.StatusBadRequest, "Invalid _method")
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, http.StatusNotFound, "Not found")
	default:
		s.logger().Error("store operation failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		kit.WriteError(w, http.StatusInternalServerError, "server error")
	}
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	kit.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
