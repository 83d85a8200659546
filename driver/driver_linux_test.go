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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/containerd/xattr/errdefs"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/pkg/xattr"
)

// drivers returns every driver usable on this host.
func drivers(t *testing.T) map[Type]Driver {
	t.Helper()
	ds := map[Type]Driver{}
	for _, typ := range DefaultOrder {
		if !Probe(typ).Available {
			t.Logf("driver %v unavailable", typ)
			continue
		}
		d, err := New(typ)
		if err != nil {
			t.Fatalf("New(%v): %+v", typ, err)
		}
		ds[typ] = d
	}
	if len(ds) == 0 {
		t.Skip("no xattr driver available")
	}
	return ds
}

// setXattr sets a user attribute, skipping the test if the filesystem
// backing the temporary directory cannot store it.
func setXattr(t *testing.T, path, name string, value []byte) {
	t.Helper()
	if err := xattr.Set(path, name, value); err != nil {
		if errno := libraryErrno(err); errno == syscall.ENOTSUP || errno == syscall.EPERM {
			t.Skipf("user xattrs not supported on %s: %v", filepath.Dir(path), err)
		}
		t.Fatal(err)
	}
}

func createFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func userNames(names []string) []string {
	out := []string{}
	for _, name := range names {
		if strings.HasPrefix(name, "user.") {
			out = append(out, name)
		}
	}
	return out
}

func TestGetAndList(t *testing.T) {
	hi := createFile(t, t.TempDir(), "hi.txt")
	setXattr(t, hi, "user.tags", []byte("archive"))

	for typ, d := range drivers(t) {
		t.Run(typ.String(), func(t *testing.T) {
			value, ok, err := d.Get(Query{Path: hi, Name: "user.tags"})
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if !ok || string(value) != "archive" {
				t.Fatalf("unexpected value %q (ok=%v)", value, ok)
			}

			value, ok, err = d.Get(Query{Path: hi, Name: "user.missing"})
			if err != nil {
				t.Fatalf("absent attribute must not fail: %+v", err)
			}
			if ok || value != nil {
				t.Fatalf("expected absence, got %q (ok=%v)", value, ok)
			}

			names, err := d.List(hi, false)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if diff := cmp.Diff([]string{"user.tags"}, userNames(names)); diff != "" {
				t.Fatalf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	for typ, d := range drivers(t) {
		t.Run(typ.String(), func(t *testing.T) {
			_, _, err := d.Get(Query{Path: "/nonexistent/path", Name: "user.tags"})
			if !errdefs.IsNotFound(err) {
				t.Fatalf("expected not found, got %v", err)
			}

			var xerr *errdefs.Error
			if !errors.As(err, &xerr) || xerr.Errno != syscall.ENOENT {
				t.Fatalf("expected ENOENT to be preserved, got %#v", err)
			}

			_, err = d.List("/nonexistent/path", true)
			if !errdefs.IsNotFound(err) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}
}

func TestListWithoutAttributes(t *testing.T) {
	p := createFile(t, t.TempDir(), "bare")

	for typ, d := range drivers(t) {
		t.Run(typ.String(), func(t *testing.T) {
			names, err := d.List(p, false)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if names == nil {
				t.Fatal("expected empty slice, got nil")
			}
			for _, name := range names {
				if name == "" {
					t.Fatalf("empty name in %q", names)
				}
			}
			if user := userNames(names); len(user) != 0 {
				t.Fatalf("unexpected user attributes %q", user)
			}
		})
	}
}

func TestLargeValue(t *testing.T) {
	p := createFile(t, t.TempDir(), "large")
	large := bytes.Repeat([]byte("0123456789"), 100)
	setXattr(t, p, "user.large", large)

	for typ, d := range drivers(t) {
		t.Run(typ.String(), func(t *testing.T) {
			value, ok, err := d.Get(Query{Path: p, Name: "user.large"})
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if !ok {
				t.Fatal("expected value")
			}
			if !bytes.Equal(value, large) {
				t.Fatalf("value truncated: got %d bytes, expected %d", len(value), len(large))
			}
		})
	}
}

func TestSymlink(t *testing.T) {
	dir := t.TempDir()
	target := createFile(t, dir, "target")
	setXattr(t, target, "user.tags", []byte("target"))
	link := filepath.Join(dir, "link")
	if err := os.Symlink("target", link); err != nil {
		t.Fatal(err)
	}

	for typ, d := range drivers(t) {
		t.Run(typ.String(), func(t *testing.T) {
			_, ok, err := d.Get(Query{Path: link, Name: "user.tags"})
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if ok {
				t.Fatal("expected the link itself to have no user.tags")
			}

			value, ok, err := d.Get(Query{Path: link, Name: "user.tags", FollowSymlinks: true})
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if !ok || string(value) != "target" {
				t.Fatalf("unexpected value %q (ok=%v)", value, ok)
			}

			names, err := d.List(link, false)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if user := userNames(names); len(user) != 0 {
				t.Fatalf("unexpected user attributes on link: %q", user)
			}

			names, err = d.List(link, true)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if diff := cmp.Diff([]string{"user.tags"}, userNames(names)); diff != "" {
				t.Fatalf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDriversAgree(t *testing.T) {
	dir := t.TempDir()
	p := createFile(t, dir, "fixture")
	attrs := map[string][]byte{
		"user.empty":  {},
		"user.binary": {0x00, 0xff, 0x00, 0x7f},
		"user.text":   []byte("archive"),
		"user.big":    bytes.Repeat([]byte{0xa5}, 1500),
	}
	for name, value := range attrs {
		setXattr(t, p, name, value)
	}
	// enough names to overflow the first list buffer while staying inside a
	// single ext4 block.
	for i := 0; i < 16; i++ {
		setXattr(t, p, "user.filler."+strings.Repeat("n", 8)+string(rune('a'+i%26))+string(rune('a'+i/26)), nil)
	}

	type result struct {
		Names  []string
		Values map[string][]byte
		Absent bool
	}

	results := map[Type]result{}
	for typ, d := range drivers(t) {
		names, err := d.List(p, false)
		if err != nil {
			t.Fatalf("%v: %+v", typ, err)
		}
		r := result{Names: names, Values: map[string][]byte{}}
		for _, name := range names {
			value, ok, err := d.Get(Query{Path: p, Name: name})
			if err != nil {
				t.Fatalf("%v: %+v", typ, err)
			}
			if !ok {
				t.Fatalf("%v: listed attribute %s is absent", typ, name)
			}
			r.Values[name] = value
		}
		_, ok, err := d.Get(Query{Path: p, Name: "user.missing"})
		if err != nil {
			t.Fatalf("%v: %+v", typ, err)
		}
		r.Absent = !ok
		results[typ] = r
	}

	if len(results) < 2 {
		t.Logf("only %d driver available, comparing against fixture only", len(results))
	}
	for typ, r := range results {
		for name, value := range attrs {
			if !bytes.Equal(r.Values[name], value) {
				t.Errorf("%v: %s = %x, expected %x", typ, name, r.Values[name], value)
			}
		}
		for _, other := range results {
			if diff := cmp.Diff(other, r); diff != "" {
				t.Errorf("%v disagrees (-other +%v):\n%s", typ, typ, diff)
			}
		}
	}
}

func TestInvalidPath(t *testing.T) {
	for typ, d := range drivers(t) {
		t.Run(typ.String(), func(t *testing.T) {
			_, _, err := d.Get(Query{Path: "bad\x00path", Name: "user.tags"})
			var xerr *errdefs.Error
			if !errors.As(err, &xerr) {
				t.Fatalf("expected *errdefs.Error, got %#v", err)
			}
			if xerr.Kind != errdefs.OSFailure || xerr.Errno != syscall.EINVAL {
				t.Fatalf("unexpected error %#v", xerr)
			}
		})
	}
}

func TestConcurrentWriter(t *testing.T) {
	p := createFile(t, t.TempDir(), "fixture")
	values := [][]byte{
		bytes.Repeat([]byte("a"), 300),
		bytes.Repeat([]byte("b"), 1500),
		bytes.Repeat([]byte("c"), 2700),
	}
	setXattr(t, p, "user.v", values[0])
	ds := drivers(t)

	done := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for i := 1; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if err := xattr.Set(p, "user.v", values[i%len(values)]); err != nil {
				errCh <- err
				return
			}
		}
	}()
	t.Cleanup(func() {
		close(done)
		if err := <-errCh; err != nil {
			t.Error(err)
		}
	})

	for typ, d := range ds {
		var overflows int
		for i := 0; i < 2000; i++ {
			value, ok, err := d.Get(Query{Path: p, Name: "user.v"})
			if err != nil {
				var xerr *errdefs.Error
				if !errors.As(err, &xerr) || xerr.Errno != syscall.ERANGE {
					t.Fatalf("%v: unexpected error %+v", typ, err)
				}
				overflows++
				continue
			}
			if !ok {
				t.Fatalf("%v: value disappeared", typ)
			}
			if !bytes.Equal(value, values[0]) && !bytes.Equal(value, values[1]) && !bytes.Equal(value, values[2]) {
				t.Fatalf("%v: read a torn value of %d bytes", typ, len(value))
			}
		}
		t.Logf("%v: %d reads reported ERANGE", typ, overflows)
	}
}
