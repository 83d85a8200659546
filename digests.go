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
	_ "crypto/sha256"

	"github.com/opencontainers/go-digest"
)

// digestValue returns the digest of an attribute value. Currently, this only
// uses digest.Canonical.
func digestValue(p []byte) digest.Digest {
	return digest.Canonical.FromBytes(p)
}

// Verify reports whether the value of a still matches its digest.
func (a Attr) Verify() bool {
	if err := a.Digest.Validate(); err != nil {
		return false
	}

	verifier := a.Digest.Verifier()
	if _, err := verifier.Write(a.Value); err != nil {
		return false
	}
	return verifier.Verified()
}
