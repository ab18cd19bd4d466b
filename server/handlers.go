package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gear6io/lakecat/catalog/rest"
	"github.com/gear6io/lakecat/catalog/shared"
	"github.com/gear6io/lakecat/pkg/errors"
)

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc(rest.PathNamespaceCreate, s.requireMethod(http.MethodPost, s.handleNamespaceCreate))
	mux.HandleFunc(rest.PathNamespaceList, s.requireMethod(http.MethodGet, s.handleNamespaceList))
	mux.HandleFunc(rest.PathNamespaceDescribe, s.requireMethod(http.MethodGet, s.handleNamespaceDescribe))
	mux.HandleFunc(rest.PathNamespaceDrop, s.requireMethod(http.MethodPost, s.handleNamespaceDrop))
	mux.HandleFunc(rest.PathNamespaceExists, s.requireMethod(http.MethodGet, s.handleNamespaceExists))

	mux.HandleFunc(rest.PathTableCreate, s.requireMethod(http.MethodPost, s.handleTableCreate))
	mux.HandleFunc(rest.PathTableList, s.requireMethod(http.MethodGet, s.handleTableList))
	mux.HandleFunc(rest.PathTableDescribe, s.requireMethod(http.MethodGet, s.handleTableDescribe))
	mux.HandleFunc(rest.PathTableDrop, s.requireMethod(http.MethodPost, s.handleTableDrop))
	mux.HandleFunc(rest.PathTableExists, s.requireMethod(http.MethodGet, s.handleTableExists))

	mux.HandleFunc("/health", s.handleHealth)
}

func (s *Server) requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			s.writeError(w, shared.NewInvalidInput("method %s is not allowed", r.Method))
			return
		}
		next(w, r)
	}
}

// statusFor maps a taxonomy kind onto an HTTP status
func statusFor(code errors.Code) int {
	switch code {
	case shared.NotFound:
		return http.StatusNotFound
	case shared.AlreadyExists, shared.NotEmpty:
		return http.StatusConflict
	case shared.InvalidInput:
		return http.StatusBadRequest
	case shared.ServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	e := shared.AsTaxonomy(err)
	status := statusFor(e.Code)
	if status >= 500 {
		s.logger.Error().Err(err).Msg("Catalog request failed")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rest.ErrorWire{Code: e.Code.String(), Message: e.Message})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return shared.NewInvalidInput("malformed request body").WithCause(err)
	}
	return nil
}

func identifierFromQuery(r *http.Request) shared.Identifier {
	return shared.FromList(r.URL.Query()[rest.ParamLevel])
}

func pageFromQuery(r *http.Request) (string, int, error) {
	q := r.URL.Query()
	token := q.Get(rest.ParamPageToken)
	sizeRaw := q.Get(rest.ParamPageSize)
	if sizeRaw == "" {
		return token, 0, nil
	}
	size, err := strconv.Atoi(sizeRaw)
	if err != nil {
		return "", 0, shared.NewInvalidInput("page_size must be an integer, got %q", sizeRaw)
	}
	return token, size, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"catalog": s.cat.Name(),
		"type":    s.cat.Type(),
		"uptime":  s.Uptime().String(),
	})
}

func (s *Server) handleNamespaceCreate(w http.ResponseWriter, r *http.Request) {
	var req rest.CreateNamespaceWire
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	mode, err := shared.ParseCreateMode(req.Mode)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.cat.CreateNamespace(r.Context(), &shared.CreateNamespaceRequest{
		ID:         shared.FromList(req.ID),
		Mode:       mode,
		Properties: req.Properties,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rest.NamespacePropertiesWire{Properties: resp.Properties})
}

func (s *Server) handleNamespaceList(w http.ResponseWriter, r *http.Request) {
	token, size, err := pageFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.cat.ListNamespaces(r.Context(), &shared.ListNamespacesRequest{
		Parent:    identifierFromQuery(r),
		PageToken: token,
		PageSize:  size,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rest.ListNamespacesWire{Namespaces: resp.Namespaces, NextPageToken: resp.NextPageToken})
}

func (s *Server) handleNamespaceDescribe(w http.ResponseWriter, r *http.Request) {
	resp, err := s.cat.DescribeNamespace(r.Context(), &shared.DescribeNamespaceRequest{ID: identifierFromQuery(r)})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rest.NamespacePropertiesWire{Properties: resp.Properties})
}

func (s *Server) handleNamespaceDrop(w http.ResponseWriter, r *http.Request) {
	var req rest.DropNamespaceWire
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	mode, err := shared.ParseDropMode(req.Mode)
	if err != nil {
		s.writeError(w, err)
		return
	}
	behavior, err := shared.ParseDropBehavior(req.Behavior)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if behavior == shared.DropBehaviorCascade && !s.cat.SupportsCascade() {
		s.writeError(w, shared.NewInvalidInput("cascade drop is not supported by the %s catalog", s.cat.Type()))
		return
	}
	resp, err := s.cat.DropNamespace(r.Context(), &shared.DropNamespaceRequest{
		ID:       shared.FromList(req.ID),
		Mode:     mode,
		Behavior: behavior,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rest.DroppedWire{Dropped: resp.Dropped})
}

func (s *Server) handleNamespaceExists(w http.ResponseWriter, r *http.Request) {
	exists, err := s.cat.NamespaceExists(r.Context(), identifierFromQuery(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rest.ExistsWire{Exists: exists})
}

func (s *Server) handleTableCreate(w http.ResponseWriter, r *http.Request) {
	var req rest.CreateTableWire
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	mode, err := shared.ParseCreateMode(req.Mode)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.cat.DeclareTable(r.Context(), &shared.DeclareTableRequest{
		ID:         shared.FromList(req.ID),
		Location:   req.Location,
		Mode:       mode,
		Properties: req.Properties,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rest.TableWire{Location: resp.Location, Properties: resp.Properties})
}

func (s *Server) handleTableList(w http.ResponseWriter, r *http.Request) {
	token, size, err := pageFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.cat.ListTables(r.Context(), &shared.ListTablesRequest{
		Namespace: identifierFromQuery(r),
		PageToken: token,
		PageSize:  size,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rest.ListTablesWire{Tables: resp.Tables, NextPageToken: resp.NextPageToken})
}

func (s *Server) handleTableDescribe(w http.ResponseWriter, r *http.Request) {
	resp, err := s.cat.DescribeTable(r.Context(), &shared.DescribeTableRequest{ID: identifierFromQuery(r)})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rest.TableWire{Location: resp.Location, Properties: resp.Properties})
}

func (s *Server) handleTableDrop(w http.ResponseWriter, r *http.Request) {
	var req rest.DropTableWire
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	mode, err := shared.ParseDropMode(req.Mode)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.cat.DeregisterTable(r.Context(), &shared.DeregisterTableRequest{
		ID:   shared.FromList(req.ID),
		Mode: mode,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rest.DroppedWire{Dropped: resp.Dropped, Location: resp.Location})
}

func (s *Server) handleTableExists(w http.ResponseWriter, r *http.Request) {
	exists, err := s.cat.TableExists(r.Context(), identifierFromQuery(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rest.ExistsWire{Exists: exists})
}
