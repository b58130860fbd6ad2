package rex

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Method names shared by the generated services.
const (
	MethodDescribe = "describe"
	MethodRead     = "read"
	MethodSearch   = "search"
	MethodCreate   = "create"
	MethodUpdate   = "update"
	MethodDelete   = "delete"
)

var (
	readWriteMethods = []string{MethodDescribe, MethodRead, MethodSearch, MethodCreate, MethodUpdate, MethodDelete}
	readOnlyMethods  = []string{MethodDescribe, MethodRead, MethodSearch}
)

// MethodFunc is one invocable entry of a service's method table.
type MethodFunc func(ctx context.Context, params Params, out interface{}) error

// Service is the descriptor of one remote resource collection: a name and a fixed
// table of methods delegating to the dispatcher.
type Service struct {
	name       string
	dispatcher *Dispatcher
	methods    map[string]MethodFunc
}

func newService(name string, methods []string, dispatcher *Dispatcher) *Service {
	s := &Service{
		name:       name,
		dispatcher: dispatcher,
		methods:    make(map[string]MethodFunc, len(methods)),
	}
	for _, m := range methods {
		method := m
		s.methods[method] = func(ctx context.Context, params Params, out interface{}) error {
			return s.dispatcher.Send(ctx, s.name, method, params, out)
		}
	}
	return s
}

// Name returns the remote service name.
func (s *Service) Name() string {
	return s.name
}

// Methods returns the statically known method names, sorted.
func (s *Service) Methods() []string {
	names := make([]string, 0, len(s.methods))
	for name := range s.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether method is part of the service's static table.
func (s *Service) Has(method string) bool {
	_, ok := s.methods[method]
	return ok
}

// Method returns the callable for a statically known method.
func (s *Service) Method(method string) (MethodFunc, bool) {
	fn, ok := s.methods[method]
	return fn, ok
}

// Call invokes a statically known method.
func (s *Service) Call(ctx context.Context, method string, params Params, out interface{}) error {
	fn, ok := s.methods[method]
	if !ok {
		return newRequestError(s.name+"/"+method, 0, "", fmt.Sprintf("service %s has no method %q", s.name, method), nil)
	}
	return fn(ctx, params, out)
}

// CallRemote invokes any method name, including ones only reported by describe.
func (s *Service) CallRemote(ctx context.Context, method string, params Params, out interface{}) error {
	if fn, ok := s.methods[method]; ok {
		return fn(ctx, params, out)
	}
	return s.dispatcher.Send(ctx, s.name, method, params, out)
}

// Describe fetches the service description from the server.
func (s *Service) Describe(ctx context.Context) (*Description, error) {
	var d Description
	if err := s.Call(ctx, MethodDescribe, nil, &d); err != nil {
		return nil, err
	}
	if len(d.Methods) == 0 {
		return nil, newRequestError(s.name+"/"+MethodDescribe, 0, "", "description lists no methods", nil)
	}
	if d.Name == "" {
		d.Name = s.name
	}
	return &d, nil
}

// Read fetches a single record. idOrQuery is either an id (integer, integral
// float, numeric string, json.Number) or Params carrying "id"; opts are merged in,
// so Read(ctx, 68, opts) is the same call as Read(ctx, Params{"id": 68, ...opts}).
func (s *Service) Read(ctx context.Context, idOrQuery interface{}, opts ...Params) (Record, error) {
	params, err := normalizeRead(idOrQuery, opts)
	if err != nil {
		return nil, newRequestError(s.name+"/"+MethodRead, 0, "", err.Error(), nil)
	}
	var rec Record
	if err := s.Call(ctx, MethodRead, params, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Search lists records. A nil query searches with the server defaults.
func (s *Service) Search(ctx context.Context, query Params) (*SearchResult, error) {
	var res SearchResult
	if err := s.Call(ctx, MethodSearch, query, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Create stores a new record and returns it as echoed by the server.
func (s *Service) Create(ctx context.Context, data Params) (Record, error) {
	var rec Record
	if err := s.Call(ctx, MethodCreate, Params{"data": data}, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update modifies the record with the given id.
func (s *Service) Update(ctx context.Context, id interface{}, data Params) (Record, error) {
	payload := Params{}.Merge(data)
	payload["_id"] = id
	var rec Record
	if err := s.Call(ctx, MethodUpdate, Params{"data": payload}, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the record with the given id.
func (s *Service) Delete(ctx context.Context, id interface{}) error {
	return s.Call(ctx, MethodDelete, Params{"id": id}, nil)
}

func normalizeRead(idOrQuery interface{}, opts []Params) (Params, error) {
	var params Params
	switch v := idOrQuery.(type) {
	case Params:
		params = v.Merge()
	case map[string]interface{}:
		params = Params(v).Merge()
	case nil:
		return nil, fmt.Errorf("read requires an id")
	default:
		id, ok := toInt64(v)
		if !ok {
			return nil, fmt.Errorf("unsupported id %v (%T)", v, v)
		}
		params = Params{"id": id}
	}

	params = params.Merge(opts...)

	id, present := params["id"]
	if !present || id == nil {
		return nil, fmt.Errorf("read requires an id")
	}
	if _, isNumber := id.(json.Number); isNumber {
		if n, ok := toInt64(id); ok {
			params["id"] = n
		}
	}
	return params, nil
}
