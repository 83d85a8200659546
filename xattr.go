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

// Package xattr reads extended attributes of files and directories through
// whichever native access path works on the running host. Callers cannot
// observe which one was chosen.
//
// The zero-configuration entry points are Get and List:
//
//	value, ok, err := xattr.Get("hi.txt", "user.tags", false)
//
// An attribute that does not exist on an existing entry is reported with ok
// set to false and a nil error. A missing path yields an error matching
// errdefs.ErrNotFound.
package xattr

import (
	"sync"

	"github.com/containerd/xattr/driver"
)

// Query identifies one attribute of one filesystem entry.
type Query = driver.Query

// Reader is the read surface shared by Service and every driver.
type Reader interface {
	Get(q Query) (value []byte, ok bool, err error)
	List(path string, followSymlinks bool) ([]string, error)
}

// Service forwards attribute reads to a single driver.
type Service struct {
	driver driver.Driver
}

var _ Reader = &Service{}

// NewService returns a Service bound to d.
func NewService(d driver.Driver) *Service {
	return &Service{driver: d}
}

var (
	defaultOnce    sync.Once
	defaultService *Service
	defaultErr     error
)

// Default returns the process wide Service. The driver is selected on the
// first call and kept for the lifetime of the process; if no driver is
// usable, every call returns the same error matching
// errdefs.ErrNotSupported.
func Default() (*Service, error) {
	defaultOnce.Do(func() {
		d, err := driver.Select()
		if err != nil {
			defaultErr = err
			return
		}
		defaultService = NewService(d)
	})
	return defaultService, defaultErr
}

// Get returns the value of the attribute named by q.
func (s *Service) Get(q Query) ([]byte, bool, error) {
	return s.driver.Get(q)
}

// List returns the attribute names of the entry at path.
func (s *Service) List(path string, followSymlinks bool) ([]string, error) {
	return s.driver.List(path, followSymlinks)
}

// Get returns the value of attribute name on path using the default
// Service. If followSymlinks is false and path is a symbolic link, the
// link's own attributes are read.
func Get(path, name string, followSymlinks bool) ([]byte, bool, error) {
	s, err := Default()
	if err != nil {
		return nil, false, err
	}
	return s.Get(Query{Path: path, Name: name, FollowSymlinks: followSymlinks})
}

// List returns the attribute names of path using the default Service.
func List(path string, followSymlinks bool) ([]string, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}
	return s.List(path, followSymlinks)
}
