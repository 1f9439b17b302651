// Copyright 2026 The in-toto Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package runner executes the wrapped step command and captures its
// outcome for link metadata.
//
// A non-zero exit code is data, not an error: it is recorded in the
// Result so policy verification can observe genuine failures. Only a
// command that cannot be started at all aborts the step.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ErrCommandExecution reports that the step command could not be spawned
// or was aborted before completing. No link is produced in that case.
var ErrCommandExecution = errors.New("command execution failed")

// Result captures the outcome of one step command.
//
// ReturnValue is nil when the step declared no command; otherwise it
// holds the verbatim exit code, negative for signal deaths where the
// platform distinguishes them.
type Result struct {
	Command     []string
	ReturnValue *int
	Stdout      string
	Stderr      string
}

// NoCommand reports whether the result is the sentinel for a step that
// ran no command.
func (r Result) NoCommand() bool {
	return r.ReturnValue == nil
}

// Options configures command execution.
type Options struct {
	// RecordStreams tees child stdout/stderr into capped buffers while
	// still forwarding them live.
	RecordStreams bool

	// Dir is the working directory for the child. Empty inherits the
	// caller's.
	Dir string

	// MaxCaptureBytes bounds each captured stream. Values below one
	// select DefaultMaxCaptureBytes.
	MaxCaptureBytes int

	// Stdout and Stderr are the live sinks. They default to the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Execute spawns argv as a child process and blocks until it exits.
//
// An empty argv is the no-command sentinel: nothing is spawned and the
// Result carries a nil return value. Failure to spawn, or cancellation of
// ctx (which kills the child), yields ErrCommandExecution.
func Execute(ctx context.Context, argv []string, opts Options) (Result, error) {
	if len(argv) == 0 {
		return Result{Command: []string{}}, nil
	}

	liveOut := opts.Stdout
	if liveOut == nil {
		liveOut = os.Stdout
	}
	liveErr := opts.Stderr
	if liveErr == nil {
		liveErr = os.Stderr
	}

	//nolint:gosec // G204: executing the caller-supplied step command is the point
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Stdin = os.Stdin

	var outCapture, errCapture *CappedBuffer
	if opts.RecordStreams {
		outCapture = NewCappedBuffer(opts.MaxCaptureBytes)
		errCapture = NewCappedBuffer(opts.MaxCaptureBytes)
		cmd.Stdout = NewTee(liveOut, outCapture)
		cmd.Stderr = NewTee(liveErr, errCapture)
	} else {
		cmd.Stdout = liveOut
		cmd.Stderr = liveErr
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("%w: cannot start %q: %v", ErrCommandExecution, argv[0], err)
	}

	// Wait also drains both stream copies before returning.
	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, fmt.Errorf("%w: command aborted: %v", ErrCommandExecution, ctxErr)
	}

	code := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return Result{}, fmt.Errorf("%w: %v", ErrCommandExecution, waitErr)
		}
		code = exitErr.ExitCode()
		if signalCode, ok := signalExitCode(exitErr); ok {
			code = signalCode
		}
	}

	result := Result{Command: argv, ReturnValue: &code}
	if opts.RecordStreams {
		result.Stdout = outCapture.String()
		result.Stderr = errCapture.String()
	}
	return result, nil
}
