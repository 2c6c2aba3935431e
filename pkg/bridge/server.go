package bridge

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/akeil/onetool"
	"github.com/akeil/onetool/internal/logging"
)

// Server exposes a Collaborator to bridge clients.
//
// It is used to serve a local store to remote clients and as the other end
// in tests. Each connection is handled one request at a time.
type Server struct {
	c        onetool.Collaborator
	token    string
	upgrader websocket.Upgrader
}

// NewServer creates a server for c.
// If token is not empty, clients must send it as a bearer token.
func NewServer(c onetool.Collaborator, token string) *Server {
	return &Server{
		c:     c,
		token: token,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
		logging.Warning("Rejected bridge connection from %v", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	logging.Info("Bridge client connected from %v", r.RemoteAddr)

	for {
		var req request
		err = conn.ReadJSON(&req)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warning("Bridge read: %v", err)
			}
			return
		}

		res := s.dispatch(&req)
		err = conn.WriteJSON(res)
		if err != nil {
			logging.Warning("Bridge write: %v", err)
			return
		}
	}
}

func (s *Server) dispatch(req *request) *response {
	logging.Debug("Bridge serve %v %v", req.ID, req.Method)
	result, err := s.handle(req)

	res := &response{ID: req.ID}
	if err == nil && result != nil {
		res.Result, err = json.Marshal(result)
	}
	if err != nil {
		res.Error = &Error{
			Code:    errorCode(err),
			Message: err.Error(),
		}
	}
	return res
}

func (s *Server) handle(req *request) (interface{}, error) {
	switch req.Method {
	case methodNamespace:
		return s.c.Namespace(), nil

	case methodGetHierarchy:
		var p hierarchyParams
		err := decodeParams(req, &p)
		if err != nil {
			return nil, err
		}
		data, err := s.c.GetHierarchy(p.StartNodeID, p.Scope)
		if err != nil {
			return nil, err
		}
		return string(data), nil

	case methodGetPageContent:
		var p pageParams
		err := decodeParams(req, &p)
		if err != nil {
			return nil, err
		}
		data, err := s.c.GetPageContent(p.PageID, p.PageInfo)
		if err != nil {
			return nil, err
		}
		return string(data), nil

	case methodCreateNewPage:
		var p sectionParams
		err := decodeParams(req, &p)
		if err != nil {
			return nil, err
		}
		return nil, s.c.CreateNewPage(p.SectionID)

	case methodUpdatePageContent:
		var p updateParams
		err := decodeParams(req, &p)
		if err != nil {
			return nil, err
		}
		return nil, s.c.UpdatePageContent([]byte(p.XML))
	}

	return nil, fmt.Errorf("unknown method %q", req.Method)
}

func decodeParams(req *request, v interface{}) error {
	if len(req.Params) == 0 {
		return fmt.Errorf("missing params for %v", req.Method)
	}
	err := json.Unmarshal(req.Params, v)
	if err != nil {
		return fmt.Errorf("invalid params for %v: %w", req.Method, err)
	}
	return nil
}
