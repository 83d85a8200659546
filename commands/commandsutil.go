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

package commands

import (
	"io"
	"strconv"
	"text/tabwriter"
	"unicode/utf8"
)

// newTabwriter provides a common tabwriter with defaults.
func newTabwriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
}

// formatValue renders an attribute value for display. Printable UTF-8 is
// shown as is, anything else quoted.
func formatValue(p []byte) string {
	if utf8.Valid(p) {
		s := string(p)
		if q := strconv.Quote(s); q[1:len(q)-1] == s {
			return s
		}
	}
	return strconv.Quote(string(p))
}
