/*
   Copyright The containerd Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package errdefs defines the error kinds returned when reading extended
// attributes and the mapping from native error codes onto them.
package errdefs

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/pkg/xattr"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrNotSupported    = errors.New("not supported")
	ErrAttributeAbsent = errors.New("attribute absent")
)

// ENOATTR is the platform's "attribute not present" code. On Linux this is
// ENODATA, which is also used as a generic "no data" code.
const ENOATTR = xattr.ENOATTR

// Kind classifies a failed native call.
type Kind int

const (
	// OSFailure is any native failure without a more specific kind. The
	// native code is preserved on the Error.
	OSFailure Kind = iota
	// NotFound means the path does not exist or cannot be traversed.
	NotFound
	// AttributeAbsent means the entry exists but the named attribute does
	// not. It is never surfaced from a value fetch.
	AttributeAbsent
	// Unsupported means no driver is usable on this host.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case OSFailure:
		return "os failure"
	case NotFound:
		return "not found"
	case AttributeAbsent:
		return "attribute absent"
	case Unsupported:
		return "unsupported"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Map classifies the native code errno. It must be given the code of the
// call that just failed; the code cannot be recovered later. EACCES is an
// OSFailure, not NotFound.
func Map(errno syscall.Errno) Kind {
	switch errno {
	case ENOATTR:
		return AttributeAbsent
	case syscall.ENOENT, syscall.ENOTDIR:
		return NotFound
	}
	return OSFailure
}

// Error is returned for every failed native call. It matches ErrNotFound,
// ErrAttributeAbsent and ErrNotSupported through errors.Is according to its
// Kind, and unwraps to the native code.
type Error struct {
	Kind  Kind
	Op    string
	Path  string
	Name  string
	Errno syscall.Errno
}

// New maps errno and returns the resulting error for op on path. Name may be
// empty for list operations.
func New(op, path, name string, errno syscall.Errno) *Error {
	return &Error{
		Kind:  Map(errno),
		Op:    op,
		Path:  path,
		Name:  name,
		Errno: errno,
	}
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Errno)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Path, e.Name, e.Errno)
}

func (e *Error) Unwrap() error {
	return e.Errno
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == NotFound
	case ErrAttributeAbsent:
		return e.Kind == AttributeAbsent
	case ErrNotSupported:
		return e.Kind == Unsupported
	}
	return false
}

// IsNotFound returns true if err reports a missing path.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotSupported returns true if err reports that attribute access is not
// available.
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}
