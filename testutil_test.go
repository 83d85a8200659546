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

package xattr

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"

	"github.com/containerd/xattr/errdefs"
	"github.com/pkg/errors"
	pxattr "github.com/pkg/xattr"
)

// fakeReader serves attributes from memory, keyed by full path. Paths not
// present are reported missing.
type fakeReader struct {
	mu    sync.Mutex
	attrs map[string]map[string][]byte
	order map[string][]string
	errs  map[string]error
}

var _ Reader = &fakeReader{}

func (f *fakeReader) Get(q Query) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	attrs, ok := f.attrs[q.Path]
	if !ok {
		return nil, false, errdefs.New("lgetxattr", q.Path, q.Name, syscall.ENOENT)
	}
	v, ok := attrs[q.Name]
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

func (f *fakeReader) List(path string, followSymlinks bool) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	if _, ok := f.attrs[path]; !ok {
		return nil, errdefs.New("llistxattr", path, "", syscall.ENOENT)
	}
	return append([]string{}, f.order[path]...), nil
}

// add registers path as an existing entry without attributes.
func (f *fakeReader) add(path string) {
	if f.attrs == nil {
		f.attrs = map[string]map[string][]byte{}
		f.order = map[string][]string{}
	}
	if f.attrs[path] == nil {
		f.attrs[path] = map[string][]byte{}
	}
}

func (f *fakeReader) set(path, name string, value []byte) {
	f.add(path)
	if _, ok := f.attrs[path][name]; !ok {
		f.order[path] = append(f.order[path], name)
	}
	f.attrs[path][name] = value
}

// tree writes an indented listing of dir, used to describe fixtures in
// failure output.
func tree(w io.Writer, dir string) error {
	fmt.Fprintf(w, "%s\n", dir)
	return _tree(w, dir, "")
}

func _tree(w io.Writer, dir string, indent string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for i, entry := range entries {
		fPath := filepath.Join(dir, entry.Name())
		fIndent := indent
		if i < len(entries)-1 {
			fIndent += "|-- "
		} else {
			fIndent += "`-- "
		}
		names, _ := List(fPath, false)
		fmt.Fprintf(w, "%s%s %q\n", fIndent, entry.Name(), names)
		if entry.IsDir() {
			dIndent := indent
			if i < len(entries)-1 {
				dIndent += "|   "
			} else {
				dIndent += "    "
			}
			if err := _tree(w, fPath, dIndent); err != nil {
				return err
			}
		}
	}
	return nil
}

func setXattr(t *testing.T, path, name string, value []byte) {
	t.Helper()
	if _, err := Default(); err != nil {
		t.Skipf("no xattr driver: %v", err)
	}
	if err := pxattr.Set(path, name, value); err != nil {
		var xerr *pxattr.Error
		if errors.As(err, &xerr) && (xerr.Err == syscall.ENOTSUP || xerr.Err == syscall.EPERM) {
			t.Skipf("user xattrs not supported on %s: %v", filepath.Dir(path), err)
		}
		t.Fatal(err)
	}
}
