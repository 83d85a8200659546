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

// Package sysx implements the size negotiation shared by every extended
// attribute driver: call with a guessed buffer, and if the kernel reports it
// too small, ask for the exact size and call once more.
package sysx

import (
	"bytes"
	"syscall"
)

// DefaultBufferSize is the capacity of the first buffer handed to an Op.
const DefaultBufferSize = 256

// Op performs one native call writing into dest. A nil dest asks only for the
// size of the result. Op returns the number of bytes written (or required,
// for a nil dest) and the errno of that exact call, or 0 on success.
type Op func(dest []byte) (int, syscall.Errno)

// Query runs op with a buffer of size bytes and regrows it at most once.
//
// If the first call reports ERANGE, op is called with a nil buffer to obtain
// the current size and then once more with a buffer of that size. A value
// that grew again between those two calls is reported as ERANGE to the
// caller instead of being retried.
func Query(op Op, size int) ([]byte, syscall.Errno) {
	if size <= 0 {
		size = DefaultBufferSize
	}
	p := make([]byte, size)
	n, errno := op(p)
	if errno == 0 && n <= len(p) {
		return p[:n], 0
	}
	if errno != 0 && errno != syscall.ERANGE {
		return nil, errno
	}

	n, errno = op(nil) // first call gets buffer size.
	if errno != 0 {
		return nil, errno
	}

	p = make([]byte, n)
	n, errno = op(p)
	if errno != 0 {
		return nil, errno
	}
	if n > len(p) {
		// a zero length buffer is treated as a size probe; the value
		// appeared or grew since the last call.
		return nil, syscall.ERANGE
	}

	return p[:n], 0
}

// ParseNames splits the NUL separated name list returned by listxattr. The
// trailing NUL terminates the last name and does not start an empty one;
// names are never empty. An empty list yields an empty, non-nil slice.
func ParseNames(p []byte) []string {
	names := []string{}
	if len(p) == 0 {
		return names
	}

	for _, name := range bytes.Split(bytes.TrimSuffix(p, []byte{0}), []byte{0}) {
		if len(name) == 0 {
			continue
		}
		names = append(names, string(name))
	}

	return names
}
