// Package errors classifies the failures a site build can produce.
//
// A build distinguishes three kinds of failure: configuration errors abort the
// run, asset copy errors and page errors are recorded and the run continues.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is the broad category of a build error.
type Kind string

const (
	KindConfig      Kind = "config"
	KindAssetCopy   Kind = "asset_copy"
	KindPageProcess Kind = "page_process"
)

// Stage names the step of the page pipeline or asset copy that failed.
type Stage string

const (
	StageReadConfig   Stage = "read-config"
	StageParseConfig  Stage = "parse-config"
	StageMissingDir   Stage = "missing-source"
	StageCopy         Stage = "copy"
	StageMkdir        Stage = "mkdir"
	StageReadSource   Stage = "read-source"
	StageRender       Stage = "render"
	StageReadTemplate Stage = "read-template"
	StageBasePath     Stage = "base-path"
	StageWrite        Stage = "write"
)

// Sentinels for errors.Is matching on kind alone.
var (
	ErrConfig      = &Error{Kind: KindConfig}
	ErrAssetCopy   = &Error{Kind: KindAssetCopy}
	ErrPageProcess = &Error{Kind: KindPageProcess}
	// ErrSourceRead matches page errors caused by an unreadable markdown source.
	ErrSourceRead  = &Error{Kind: KindPageProcess, Stage: StageReadSource}
)

// Error is a classified build error.
type Error struct {
	Kind  Kind
	Stage Stage
	Path  string
	Err   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s:%s]", e.Kind, e.Stage)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel (or error) of the same kind. A
// target with an empty stage matches any stage.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Stage == "" || t.Stage == e.Stage
}

// Config builds a fatal configuration error.
func Config(stage Stage, path string, err error) *Error {
	return &Error{Kind: KindConfig, Stage: stage, Path: path, Err: err}
}

// AssetCopy builds a non-fatal asset copy error.
func AssetCopy(stage Stage, path string, err error) *Error {
	return &Error{Kind: KindAssetCopy, Stage: stage, Path: path, Err: err}
}

// PageProcess builds a non-fatal page error.
func PageProcess(stage Stage, path string, err error) *Error {
	return &Error{Kind: KindPageProcess, Stage: stage, Path: path, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain, or ""
// when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StageOf returns the stage of the first classified error in err's chain.
func StageOf(err error) Stage {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Stage
	}
	return ""
}
