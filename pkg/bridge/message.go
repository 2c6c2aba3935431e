package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/akeil/onetool"
)

// Methods
const (
	methodGetHierarchy      = "getHierarchy"
	methodGetPageContent    = "getPageContent"
	methodCreateNewPage     = "createNewPage"
	methodUpdatePageContent = "updatePageContent"
	methodNamespace         = "namespace"
)

// Error codes
const (
	codeNotFound   = "notFound"
	codeParseError = "parseError"
	codeError      = "error"
)

type request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// Error is an error reported by the bridge.
type Error struct {
	Method  string `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("bridge error in %v (%v): %v", e.Method, e.Code, e.Message)
}

// err converts the wire error into the error type callers check for.
func (e *Error) err(method string) error {
	e.Method = method
	switch e.Code {
	case codeNotFound:
		return onetool.NewNotFound("%v: %v", method, e.Message)
	case codeParseError:
		return &onetool.ParseError{Err: e}
	default:
		return e
	}
}

func errorCode(err error) string {
	switch {
	case onetool.IsNotFound(err):
		return codeNotFound
	case onetool.IsParseError(err):
		return codeParseError
	default:
		return codeError
	}
}

type hierarchyParams struct {
	StartNodeID string                 `json:"startNodeID"`
	Scope       onetool.HierarchyScope `json:"scope"`
}

type pageParams struct {
	PageID   string           `json:"pageID"`
	PageInfo onetool.PageInfo `json:"pageInfo"`
}

type sectionParams struct {
	SectionID string `json:"sectionID"`
}

type updateParams struct {
	XML string `json:"xml"`
}

type namespaceParams struct {
	Version onetool.Version `json:"version"`
}
