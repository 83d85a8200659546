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

package driver

import (
	"runtime"
	"syscall"

	"github.com/containerd/xattr/errdefs"
	"github.com/containerd/xattr/sysx"
	"github.com/pkg/errors"
	"github.com/pkg/xattr"
)

// libraryDriver calls the buffer-taking wrappers packaged in
// golang.org/x/sys/unix. Every query asks for the size before its first
// fetch and then follows sysx.Query with a buffer of exactly that size.
type libraryDriver struct {
	getxattr, lgetxattr   func(path, attr string, dest []byte) (int, error)
	listxattr, llistxattr func(path string, dest []byte) (int, error)
}

var _ Driver = &libraryDriver{}

func probeLibrary() error {
	if !xattr.XATTR_SUPPORTED {
		return errors.Wrapf(errdefs.ErrNotSupported, "github.com/pkg/xattr does not support %s", runtime.GOOS)
	}
	d, ok := newLibraryDriver().(*libraryDriver)
	if !ok {
		return errors.Wrapf(errdefs.ErrNotSupported, "no xattr wrappers for %s", runtime.GOOS)
	}
	return probeNative(func(path string, dest []byte) (int, syscall.Errno) {
		return libraryOp(func(dest []byte) (int, error) {
			return d.llistxattr(path, dest)
		})(dest)
	})
}

func (d *libraryDriver) Get(q Query) ([]byte, bool, error) {
	op, get := getOp(q.FollowSymlinks), d.lgetxattr
	if q.FollowSymlinks {
		get = d.getxattr
	}

	p, errno := libraryQuery(libraryOp(func(dest []byte) (int, error) {
		return get(q.Path, q.Name, dest)
	}))
	return valueResult(op, q, p, errno)
}

func (d *libraryDriver) List(path string, followSymlinks bool) ([]string, error) {
	op, list := listOp(followSymlinks), d.llistxattr
	if followSymlinks {
		list = d.listxattr
	}

	p, errno := libraryQuery(libraryOp(func(dest []byte) (int, error) {
		return list(path, dest)
	}))
	return listResult(op, path, p, errno)
}

// libraryQuery sizes the buffer before the first fetch. A result that grows
// after that is regrown once by sysx.Query, like for every other driver.
func libraryQuery(op sysx.Op) ([]byte, syscall.Errno) {
	n, errno := op(nil)
	if errno != 0 {
		return nil, errno
	}
	if n == 0 {
		return []byte{}, 0
	}
	return sysx.Query(op, n)
}

func libraryOp(call func(dest []byte) (int, error)) sysx.Op {
	return func(dest []byte) (int, syscall.Errno) {
		n, err := call(dest)
		if err != nil {
			return -1, libraryErrno(err)
		}
		return n, 0
	}
}

// libraryErrno recovers the native code of a failed wrapper call.
func libraryErrno(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return errno
	}
	return syscall.EIO
}
