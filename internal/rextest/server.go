// Package rextest runs an in-process fake of the Rex API for tests.
//
// The fake speaks the Rex conventions: every call is POST /<Service>/<method>
// with a JSON body, and every response is an envelope {"result", "error"}.
// Login, search, read, create, update and delete need a valid bearer token;
// describe does not.
package rextest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Credentials accepted by the fake login endpoint.
const (
	Email    = "agent@example.com"
	Password = "correct-horse"
)

// Request is one call received by the fake.
type Request struct {
	Service       string
	Method        string
	Authorization string
	RequestID     string
	Body          map[string]interface{}
}

// Server is a fake Rex API.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	tokens     map[string]bool
	issued     int
	records    map[string]map[int64]map[string]interface{}
	nextID     int64
	requests   []Request
	failLogout bool
}

// NewServer starts a fake seeded with a few listings, properties and contacts.
// It is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{
		tokens:  make(map[string]bool),
		records: seed(),
		nextID:  1000,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func seed() map[string]map[int64]map[string]interface{} {
	return map[string]map[int64]map[string]interface{}{
		"Listings": {
			68: {
				"_id":                  68,
				"system_listing_state": "current",
				"property": map[string]interface{}{
					"_id":           12,
					"adr_suburb":    "Apollo Bay",
					"geo_point":     "POINT(-38.294285 143.175875)",
					"adr_street_no": "4",
				},
			},
			69: {
				"_id":                  69,
				"system_listing_state": "sold",
				"property":             map[string]interface{}{"_id": 13},
			},
		},
		"Properties": {
			12: {"_id": 12, "adr_suburb": "Apollo Bay"},
			13: {"_id": 13, "adr_suburb": "Lorne"},
			14: {"_id": 14, "adr_suburb": "Torquay"},
		},
		"Contacts": {
			1: {"_id": 1, "name": "Jane Citizen"},
		},
	}
}

// Requests returns a copy of every call received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent call.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// SetFailLogout makes the logout endpoint answer 500.
func (s *Server) SetFailLogout(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLogout = fail
}

// ActiveTokens counts tokens that are still valid server-side.
func (s *Server) ActiveTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// IsValidToken reports whether token is currently accepted.
func (s *Server) IsValidToken(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[token]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if r.Method != http.MethodPost || len(parts) != 2 {
		writeError(w, http.StatusNotFound, "NotFoundException", "unknown endpoint "+r.URL.Path)
		return
	}
	service, method := parts[0], parts[1]

	body := map[string]interface{}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "ValidationException", "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.requests = append(s.requests, Request{
		Service:       service,
		Method:        method,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-Id"),
		Body:          body,
	})

	if service == "Authentication" {
		s.handleAuthentication(w, method, body, token)
		return
	}

	if method == "describe" {
		writeResult(w, describe(service))
		return
	}

	if !s.tokens[token] {
		writeError(w, http.StatusUnauthorized, "AuthenticationException", "missing or expired token")
		return
	}

	switch method {
	case "search":
		s.search(w, service, body)
	case "read":
		s.read(w, service, body)
	case "create":
		s.create(w, service, body)
	case "update":
		s.update(w, service, body)
	case "delete":
		s.remove(w, service, body)
	default:
		writeError(w, http.StatusNotFound, "MethodNotFoundException", fmt.Sprintf("%s has no method %s", service, method))
	}
}

func (s *Server) handleAuthentication(w http.ResponseWriter, method string, body map[string]interface{}, token string) {
	switch method {
	case "login":
		if body["email"] != Email || body["password"] != Password {
			writeError(w, http.StatusOK, "AuthenticationException", "Invalid login details")
			return
		}
		s.issued++
		issued := "token-" + strconv.Itoa(s.issued)
		s.tokens[issued] = true
		writeResult(w, issued)
	case "logout":
		if s.failLogout {
			writeError(w, http.StatusInternalServerError, "InternalException", "logout unavailable")
			return
		}
		delete(s.tokens, token)
		writeResult(w, true)
	default:
		writeError(w, http.StatusNotFound, "MethodNotFoundException", "Authentication has no method "+method)
	}
}

func describe(service string) map[string]interface{} {
	return map[string]interface{}{
		"name":        service,
		"description": "Manage " + service,
		"methods": map[string]interface{}{
			"describe":  map[string]interface{}{"args": []string{}},
			"read":      map[string]interface{}{"args": []string{"id", "fields"}},
			"search":    map[string]interface{}{"args": []string{"criteria", "limit", "offset"}},
			"create":    map[string]interface{}{"args": []string{"data"}},
			"update":    map[string]interface{}{"args": []string{"data"}},
			"delete":    map[string]interface{}{"args": []string{"id"}},
			"getFields": map[string]interface{}{"args": []string{}},
		},
	}
}

func (s *Server) search(w http.ResponseWriter, service string, body map[string]interface{}) {
	ids := make([]int64, 0, len(s.records[service]))
	for id := range s.records[service] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	offset := intArg(body["offset"], 0)
	limit := intArg(body["limit"], 100)
	rows := []map[string]interface{}{}
	for i := offset; i < len(ids) && len(rows) < limit; i++ {
		rows = append(rows, s.records[service][ids[i]])
	}
	writeResult(w, map[string]interface{}{"rows": rows, "total": len(ids)})
}

func (s *Server) read(w http.ResponseWriter, service string, body map[string]interface{}) {
	id, ok := idArg(body["id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "ValidationException", "id is required")
		return
	}
	rec, ok := s.records[service][id]
	if !ok {
		writeError(w, http.StatusNotFound, "RecordNotFoundException", fmt.Sprintf("%s %d not found", service, id))
		return
	}
	writeResult(w, rec)
}

func (s *Server) create(w http.ResponseWriter, service string, body map[string]interface{}) {
	data, _ := body["data"].(map[string]interface{})
	if data == nil {
		writeError(w, http.StatusBadRequest, "ValidationException", "data is required")
		return
	}
	s.nextID++
	rec := map[string]interface{}{"_id": s.nextID}
	for k, v := range data {
		rec[k] = v
	}
	if s.records[service] == nil {
		s.records[service] = map[int64]map[string]interface{}{}
	}
	s.records[service][s.nextID] = rec
	writeResult(w, rec)
}

func (s *Server) update(w http.ResponseWriter, service string, body map[string]interface{}) {
	data, _ := body["data"].(map[string]interface{})
	id, ok := idArg(data["_id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "ValidationException", "data._id is required")
		return
	}
	rec, ok := s.records[service][id]
	if !ok {
		writeError(w, http.StatusNotFound, "RecordNotFoundException", fmt.Sprintf("%s %d not found", service, id))
		return
	}
	for k, v := range data {
		if k != "_id" {
			rec[k] = v
		}
	}
	writeResult(w, rec)
}

func (s *Server) remove(w http.ResponseWriter, service string, body map[string]interface{}) {
	id, ok := idArg(body["id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "ValidationException", "id is required")
		return
	}
	if _, ok := s.records[service][id]; !ok {
		writeError(w, http.StatusNotFound, "RecordNotFoundException", fmt.Sprintf("%s %d not found", service, id))
		return
	}
	delete(s.records[service], id)
	writeResult(w, true)
}

func idArg(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

func intArg(v interface{}, fallback int) int {
	if n, ok := v.(float64); ok && n >= 0 {
		return int(n)
	}
	return fallback
}

func writeResult(w http.ResponseWriter, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"result": result, "error": nil})
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"result": nil,
		"error":  map[string]interface{}{"type": errType, "message": message},
	})
}
