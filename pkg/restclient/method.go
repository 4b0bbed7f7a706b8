package restclient

import "net/http"

// Method is the closed set of verbs the client issues.
type Method int

const (
	MethodGet Method = iota + 1
	MethodPost
	MethodPut
	MethodPatch
	MethodDelete
)

var methodNames = map[Method]string{
	MethodGet:    http.MethodGet,
	MethodPost:   http.MethodPost,
	MethodPut:    http.MethodPut,
	MethodPatch:  http.MethodPatch,
	MethodDelete: http.MethodDelete,
}

// String returns the wire name of the method, or "" when m is not supported.
func (m Method) String() string {
	return methodNames[m]
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	_, ok := methodNames[m]
	return ok
}
