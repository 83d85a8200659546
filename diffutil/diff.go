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

// Package diffutil compares the extended attributes recorded in two
// manifests.
package diffutil

import (
	"sort"

	"github.com/containerd/xattr"
	"github.com/sirupsen/logrus"
)

type EntryUpdate struct {
	Original xattr.Entry
	Updated  xattr.Entry
}

type ManifestDifference struct {
	Additions []xattr.Entry
	Deletions []xattr.Entry
	Updates   []EntryUpdate
}

// Empty reports whether the manifests had no differences.
func (d ManifestDifference) Empty() bool {
	return len(d.Additions) == 0 && len(d.Deletions) == 0 && len(d.Updates) == 0
}

// DiffManifest compares two manifests and returns the list
// of adds updates and deletes
func DiffManifest(m1, m2 *xattr.Manifest) ManifestDifference {
	e1, e2 := sortedEntries(m1), sortedEntries(m2)
	i1 := 0
	i2 := 0
	var d ManifestDifference

	for i1 < len(e1) && i2 < len(e2) {
		p1 := e1[i1].Path
		p2 := e2[i2].Path
		switch {
		case p1 < p2:
			logrus.Debugf("Deletion %s", p1)
			d.Deletions = append(d.Deletions, e1[i1])
			i1++
		case p1 == p2:
			logrus.Debugf("Comparing %s to %s", p1, p2)
			if !Compare(e1[i1], e2[i2]) {
				d.Updates = append(d.Updates, EntryUpdate{
					Original: e1[i1],
					Updated:  e2[i2],
				})
			}
			i1++
			i2++
		case p1 > p2:
			logrus.Debugf("Addition %s", p2)
			d.Additions = append(d.Additions, e2[i2])
			i2++
		}
	}

	d.Deletions = append(d.Deletions, e1[i1:]...)
	d.Additions = append(d.Additions, e2[i2:]...)

	return d
}

// Compare reports whether two entries carry the same attributes. Values are
// compared by digest.
func Compare(e1, e2 xattr.Entry) bool {
	if e1.Path != e2.Path {
		return false
	}
	if e1.Mode.Type() != e2.Mode.Type() {
		return false
	}
	if len(e1.Attrs) != len(e2.Attrs) {
		return false
	}

	for i := range e1.Attrs {
		if e1.Attrs[i].Name != e2.Attrs[i].Name {
			return false
		}
		if e1.Attrs[i].Digest != e2.Attrs[i].Digest {
			return false
		}
	}

	return true
}

func sortedEntries(m *xattr.Manifest) []xattr.Entry {
	if m == nil {
		return nil
	}
	entries := append([]xattr.Entry(nil), m.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries
}
