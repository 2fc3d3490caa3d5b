package llm

import (
	"errors"
	"fmt"
)

// TemplateError reports a template variable problem: a `{name}` placeholder
// with no bound value, or (under strict policy) a supplied variable the
// template never references. Variable carries the offending name.
type TemplateError struct {
	Variable string
	Unused   bool
}

func (e *TemplateError) Error() string {
	if e.Unused {
		return fmt.Sprintf("template error: variable %q supplied but never referenced", e.Variable)
	}
	return fmt.Sprintf("template error: variable %q referenced but not bound", e.Variable)
}

// RetrievalError reports a failed context retriever. Tag identifies the
// content-type stream the retriever serves.
type RetrievalError struct {
	Tag string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for %q: %v", e.Tag, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// FormatMismatchError reports completion text that does not parse into the
// shape requested from an output converter. Text carries the offending
// completion verbatim.
type FormatMismatchError struct {
	Shape string
	Text  string
	Err   error
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("completion does not match %s format: %v (text: %q)", e.Shape, e.Err, e.Text)
}

func (e *FormatMismatchError) Unwrap() error {
	return e.Err
}

// FunctionLoopError reports a function-calling exchange that did not reach a
// final answer within the configured round bound.
type FunctionLoopError struct {
	Rounds   int
	LastCall string
}

func (e *FunctionLoopError) Error() string {
	return fmt.Sprintf("function call loop exceeded %d rounds (last call %q)", e.Rounds, e.LastCall)
}

// ListenerError reports a failed post-response listener. It is logged, never
// returned on the primary response path.
type ListenerError struct {
	Listener string
	Err      error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %s failed: %v", e.Listener, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

// IsRetrievalError reports whether err wraps a RetrievalError.
func IsRetrievalError(err error) bool {
	var re *RetrievalError
	return errors.As(err, &re)
}
