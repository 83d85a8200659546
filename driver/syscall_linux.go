//go:build linux

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
	"syscall"
	"unsafe"

	"github.com/containerd/xattr/sysx"
	"golang.org/x/sys/unix"
)

// syscallDriver enters the kernel directly. The errno of every call is taken
// from the raw return and converted before any other call is made.
type syscallDriver struct {
	getxattr, lgetxattr   uintptr
	listxattr, llistxattr uintptr
}

var _ Driver = &syscallDriver{}

func newSyscallDriver() Driver {
	return &syscallDriver{
		getxattr:   unix.SYS_GETXATTR,
		lgetxattr:  unix.SYS_LGETXATTR,
		listxattr:  unix.SYS_LISTXATTR,
		llistxattr: unix.SYS_LLISTXATTR,
	}
}

func probeSyscall() error {
	d := newSyscallDriver().(*syscallDriver)
	return probeNative(func(path string, dest []byte) (int, syscall.Errno) {
		p, err := unix.BytePtrFromString(path)
		if err != nil {
			return -1, unix.EINVAL
		}
		return rawListxattr(d.llistxattr, p, dest)
	})
}

func (d *syscallDriver) Get(q Query) ([]byte, bool, error) {
	op, trap := getOp(q.FollowSymlinks), d.lgetxattr
	if q.FollowSymlinks {
		trap = d.getxattr
	}

	path, err := unix.BytePtrFromString(q.Path)
	if err != nil {
		return valueResult(op, q, nil, unix.EINVAL)
	}
	name, err := unix.BytePtrFromString(q.Name)
	if err != nil {
		return valueResult(op, q, nil, unix.EINVAL)
	}

	p, errno := sysx.Query(func(dest []byte) (int, syscall.Errno) {
		return rawGetxattr(trap, path, name, dest)
	}, sysx.DefaultBufferSize)
	return valueResult(op, q, p, errno)
}

func (d *syscallDriver) List(path string, followSymlinks bool) ([]string, error) {
	op, trap := listOp(followSymlinks), d.llistxattr
	if followSymlinks {
		trap = d.listxattr
	}

	p0, err := unix.BytePtrFromString(path)
	if err != nil {
		return listResult(op, path, nil, unix.EINVAL)
	}

	p, errno := sysx.Query(func(dest []byte) (int, syscall.Errno) {
		return rawListxattr(trap, p0, dest)
	}, sysx.DefaultBufferSize)
	return listResult(op, path, p, errno)
}

func rawGetxattr(trap uintptr, path, attr *byte, dest []byte) (int, syscall.Errno) {
	var p unsafe.Pointer
	if len(dest) > 0 {
		p = unsafe.Pointer(&dest[0])
	}
	r0, _, e1 := unix.Syscall6(trap, uintptr(unsafe.Pointer(path)), uintptr(unsafe.Pointer(attr)), uintptr(p), uintptr(len(dest)), 0, 0)
	if e1 != 0 {
		return -1, e1
	}
	return int(r0), 0
}

func rawListxattr(trap uintptr, path *byte, dest []byte) (int, syscall.Errno) {
	var p unsafe.Pointer
	if len(dest) > 0 {
		p = unsafe.Pointer(&dest[0])
	}
	r0, _, e1 := unix.Syscall(trap, uintptr(unsafe.Pointer(path)), uintptr(p), uintptr(len(dest)))
	if e1 != 0 {
		return -1, e1
	}
	return int(r0), 0
}
