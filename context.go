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
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Context reads the extended attributes of entries below a root directory.
// Paths handled by a Context are absolute with respect to its root.
type Context struct {
	root   string
	reader Reader
}

// NewContext returns a Context for root that reads attributes through r.
func NewContext(root string, r Reader) (*Context, error) {
	// normalize to absolute path
	root, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, err
	}

	// Allowing a link for the root itself is fine as long as every entry is
	// reached through the link path.
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !fi.IsDir() {
		return nil, &os.PathError{Op: "NewContext", Path: root, Err: os.ErrInvalid}
	}

	return &Context{root: root, reader: r}, nil
}

// Resource returns the entry at path p, populating its attributes. The path
// p should be a path in the context, typically obtained through Walk. If fi
// is nil, it will be resolved.
func (c *Context) Resource(p string, fi os.FileInfo) (Entry, error) {
	fp, err := c.fullpath(p)
	if err != nil {
		return Entry{}, err
	}

	if fi == nil {
		fi, err = os.Lstat(fp)
		if err != nil {
			return Entry{}, err
		}
	}

	attrs, err := c.resolveXAttrs(fp)
	if err != nil {
		return Entry{}, err
	}

	return Entry{Path: p, Mode: fi.Mode(), Attrs: attrs}, nil
}

// Walk calls filepath.Walk on the context root, with the path argument
// contained within the context. Entries removed during the walk are skipped.
func (c *Context) Walk(fn filepath.WalkFunc) error {
	return filepath.Walk(c.root, func(p string, fi os.FileInfo, err error) error {
		if err != nil && os.IsNotExist(err) && p != c.root {
			return nil
		}
		contained, cerr := c.contain(p)
		if cerr != nil {
			return cerr
		}
		return fn(contained, fi, err)
	})
}

// fullpath returns the system path for the resource, joined with the context
// root. The path p must be a part of the context.
func (c *Context) fullpath(p string) (string, error) {
	p = filepath.Join(c.root, p)
	rel, err := filepath.Rel(c.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("invalid context path %q", p)
	}

	return p, nil
}

// contain cleans and sanitizes the filesystem path p to be an absolute path,
// effectively relative to the context root.
func (c *Context) contain(p string) (string, error) {
	sanitized, err := filepath.Rel(c.root, p)
	if err != nil {
		return "", err
	}

	return filepath.Join("/", filepath.Clean(sanitized)), nil
}

// resolveXAttrs reads every attribute of the entry at the full path fp
// without following symbolic links, so links are described by their own
// attributes and never lead outside the root. A filesystem without xattr
// support yields no attributes.
func (c *Context) resolveXAttrs(fp string) ([]Attr, error) {
	names, err := c.reader.List(fp, false)
	if err != nil {
		if errors.Is(err, syscall.ENOTSUP) {
			logrus.WithField("path", fp).Debug("xattrs not supported")
			return nil, nil
		}
		return nil, errors.Wrapf(err, "listing %s xattrs", fp)
	}

	sort.Strings(names)
	attrs := make([]Attr, 0, len(names))
	for _, name := range names {
		value, ok, err := c.reader.Get(Query{Path: fp, Name: name})
		if err != nil {
			return nil, errors.Wrapf(err, "getting %q xattr on %s", name, fp)
		}
		if !ok {
			// removed since it was listed
			continue
		}

		attrs = append(attrs, Attr{Name: name, Value: value, Digest: digestValue(value)})
	}

	return attrs, nil
}
