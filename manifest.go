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
	"context"
	"os"

	"github.com/containerd/xattr/errdefs"
	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Attr is one extended attribute of an entry.
type Attr struct {
	Name   string
	Value  []byte
	Digest digest.Digest
}

// Entry describes a filesystem entry and its extended attributes, sorted by
// name.
type Entry struct {
	Path  string
	Mode  os.FileMode
	Attrs []Attr
}

// Manifest lists the entries below a context root in walk order.
type Manifest struct {
	Entries []Entry
}

// BuildManifest walks the context and resolves the attributes of every entry,
// at most jobs at a time. A jobs value below 1 means no limit. Entries that
// disappear before their attributes are read are left out.
func BuildManifest(ctx context.Context, c *Context, jobs int) (*Manifest, error) {
	type walked struct {
		p  string
		fi os.FileInfo
	}

	var paths []walked
	if err := c.Walk(func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		paths = append(paths, walked{p: p, fi: fi})
		return nil
	}); err != nil {
		return nil, err
	}

	entries := make([]*Entry, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, w := range paths {
		i, w := i, w
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entry, err := c.Resource(w.p, w.fi)
			if err != nil {
				if errdefs.IsNotFound(err) {
					logrus.WithField("path", w.p).Debug("entry removed during walk")
					return nil
				}
				return err
			}
			entries[i] = &entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Manifest{Entries: make([]Entry, 0, len(entries))}
	for _, entry := range entries {
		if entry != nil {
			m.Entries = append(m.Entries, *entry)
		}
	}

	return m, nil
}
