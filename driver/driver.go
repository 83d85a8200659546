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

// Package driver provides the interchangeable strategies used to reach the
// native extended attribute calls, and the probing that picks one of them.
package driver

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/containerd/xattr/errdefs"
	"github.com/containerd/xattr/sysx"
	"github.com/pkg/errors"
)

// Query identifies one attribute of one filesystem entry. If FollowSymlinks
// is false and Path is a symbolic link, the link itself is read.
type Query struct {
	Path           string
	Name           string
	FollowSymlinks bool
}

// Driver reads extended attributes. All implementations return identical
// results for the same filesystem state and are safe for concurrent use.
type Driver interface {
	// Get returns the value of the attribute named by q. If the entry exists
	// but has no such attribute, ok is false and err is nil.
	Get(q Query) (value []byte, ok bool, err error)

	// List returns the attribute names of the entry at path in the order the
	// system reports them. An entry without attributes yields an empty slice.
	List(path string, followSymlinks bool) ([]string, error)
}

// Type names a driver implementation.
type Type int

const (
	// Syscall invokes the kernel entry points directly.
	Syscall Type = iota
	// Cgo calls the libc wrappers through cgo.
	Cgo
	// Library calls the wrappers packaged in golang.org/x/sys/unix. It is
	// tried last because it asks for the size before every fetch.
	Library
)

// DefaultOrder is the order in which Select probes drivers.
var DefaultOrder = []Type{Syscall, Cgo, Library}

func (t Type) String() string {
	switch t {
	case Syscall:
		return "syscall"
	case Cgo:
		return "cgo"
	case Library:
		return "library"
	}
	return fmt.Sprintf("driver(%d)", int(t))
}

// ParseType returns the Type named s.
func ParseType(s string) (Type, error) {
	for _, t := range DefaultOrder {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, errors.Errorf("unknown driver %q", s)
}

// New returns the driver of type t if it is usable on this host. Otherwise
// the error matches errdefs.ErrNotSupported.
func New(t Type) (Driver, error) {
	if err := probe(t); err != nil {
		return nil, err
	}
	return newDriver(t)
}

// newDriver constructs a driver that has already been probed.
func newDriver(t Type) (Driver, error) {
	switch t {
	case Syscall:
		return newSyscallDriver(), nil
	case Cgo:
		return newCgoDriver(), nil
	case Library:
		return newLibraryDriver(), nil
	}
	return nil, errors.Wrapf(errdefs.ErrNotSupported, "driver %v", t)
}

var probes = map[Type]func() error{
	Syscall: probeSyscall,
	Cgo:     probeCgo,
	Library: probeLibrary,
}

func probe(t Type) error {
	if errdefs.ENOATTR == 0 {
		return errors.Wrap(errdefs.ErrNotSupported, "platform has no attribute absent code")
	}

	fn, ok := probes[t]
	if !ok {
		return errors.Wrapf(errdefs.ErrNotSupported, "driver %v", t)
	}
	if err := fn(); err != nil {
		return errors.Wrapf(err, "driver %v", t)
	}
	return nil
}

// probeNative checks that a listing entry point exists in the running
// kernel. Filesystem level errors such as ENOTSUP still prove the call is
// present.
func probeNative(list func(path string, dest []byte) (int, syscall.Errno)) error {
	if _, errno := list("/", nil); errno == syscall.ENOSYS {
		return errors.Wrap(errdefs.ErrNotSupported, "llistxattr not implemented")
	}
	return nil
}

// valueResult converts the outcome of a value fetch. An absent attribute is
// reported through ok rather than as an error.
func valueResult(op string, q Query, p []byte, errno syscall.Errno) ([]byte, bool, error) {
	if errno == 0 {
		return p, true, nil
	}

	err := errdefs.New(op, q.Path, q.Name, errno)
	if err.Kind == errdefs.AttributeAbsent {
		return nil, false, nil
	}
	return nil, false, err
}

// listResult converts the outcome of a name listing. Listing has no absent
// state, so every failure is an error.
func listResult(op, path string, p []byte, errno syscall.Errno) ([]string, error) {
	if errno != 0 {
		err := errdefs.New(op, path, "", errno)
		if err.Kind == errdefs.AttributeAbsent {
			err.Kind = errdefs.OSFailure
		}
		return nil, err
	}
	return sysx.ParseNames(p), nil
}

func getOp(follow bool) string {
	if follow {
		return "getxattr"
	}
	return "lgetxattr"
}

func listOp(follow bool) string {
	if follow {
		return "listxattr"
	}
	return "llistxattr"
}
