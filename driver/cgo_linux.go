//go:build linux && cgo

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

/*
#include <stdlib.h>
#include <sys/types.h>
#include <sys/xattr.h>
*/
import "C"

import (
	"strings"
	"syscall"
	"unsafe"

	"github.com/containerd/xattr/sysx"
)

// cgoDriver calls the libc wrappers. cgo captures errno right after each
// call, which is thread local in glibc and musl.
type cgoDriver struct{}

var _ Driver = &cgoDriver{}

func newCgoDriver() Driver {
	return &cgoDriver{}
}

func probeCgo() error {
	return probeNative(func(path string, dest []byte) (int, syscall.Errno) {
		cpath := C.CString(path)
		defer C.free(unsafe.Pointer(cpath))
		return cListxattr(false, cpath, dest)
	})
}

func (d *cgoDriver) Get(q Query) ([]byte, bool, error) {
	op := getOp(q.FollowSymlinks)
	if hasNUL(q.Path) || hasNUL(q.Name) {
		return valueResult(op, q, nil, syscall.EINVAL)
	}

	cpath := C.CString(q.Path)
	defer C.free(unsafe.Pointer(cpath))
	cname := C.CString(q.Name)
	defer C.free(unsafe.Pointer(cname))

	p, errno := sysx.Query(func(dest []byte) (int, syscall.Errno) {
		return cGetxattr(q.FollowSymlinks, cpath, cname, dest)
	}, sysx.DefaultBufferSize)
	return valueResult(op, q, p, errno)
}

func (d *cgoDriver) List(path string, followSymlinks bool) ([]string, error) {
	op := listOp(followSymlinks)
	if hasNUL(path) {
		return listResult(op, path, nil, syscall.EINVAL)
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	p, errno := sysx.Query(func(dest []byte) (int, syscall.Errno) {
		return cListxattr(followSymlinks, cpath, dest)
	}, sysx.DefaultBufferSize)
	return listResult(op, path, p, errno)
}

func cGetxattr(follow bool, path, name *C.char, dest []byte) (int, syscall.Errno) {
	var p unsafe.Pointer
	if len(dest) > 0 {
		p = unsafe.Pointer(&dest[0])
	}

	var (
		n   C.ssize_t
		err error
	)
	if follow {
		n, err = C.getxattr(path, name, p, C.size_t(len(dest)))
	} else {
		n, err = C.lgetxattr(path, name, p, C.size_t(len(dest)))
	}
	if n < 0 {
		return -1, cErrno(err)
	}
	return int(n), 0
}

func cListxattr(follow bool, path *C.char, dest []byte) (int, syscall.Errno) {
	var p *C.char
	if len(dest) > 0 {
		p = (*C.char)(unsafe.Pointer(&dest[0]))
	}

	var (
		n   C.ssize_t
		err error
	)
	if follow {
		n, err = C.listxattr(path, p, C.size_t(len(dest)))
	} else {
		n, err = C.llistxattr(path, p, C.size_t(len(dest)))
	}
	if n < 0 {
		return -1, cErrno(err)
	}
	return int(n), 0
}

// cErrno returns the errno cgo collected for a failed call. A failure with
// errno left at zero is reported as EIO.
func cErrno(err error) syscall.Errno {
	if errno, ok := err.(syscall.Errno); ok && errno != 0 {
		return errno
	}
	return syscall.EIO
}

func hasNUL(s string) bool {
	return strings.IndexByte(s, 0) >= 0
}
