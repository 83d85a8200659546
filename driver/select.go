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
	"strings"

	"github.com/containerd/xattr/errdefs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ProbeResult reports whether a driver can be used on this host. Reason
// explains why an unavailable driver cannot be used.
type ProbeResult struct {
	Type      Type
	Available bool
	Reason    string
}

// Probe checks whether the driver of type t is usable. Probing has no side
// effects beyond a single listing call on "/".
func Probe(t Type) ProbeResult {
	if err := probe(t); err != nil {
		return ProbeResult{Type: t, Reason: err.Error()}
	}
	return ProbeResult{Type: t, Available: true}
}

// Select probes drivers in order, DefaultOrder if none is given, and returns
// the first one available. If none is, the error matches
// errdefs.ErrNotSupported.
func Select(order ...Type) (Driver, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}

	var tried []string
	for _, t := range order {
		r := Probe(t)
		if !r.Available {
			logrus.WithField("driver", t).Debugf("xattr driver unavailable: %s", r.Reason)
			tried = append(tried, t.String())
			continue
		}

		d, err := newDriver(t)
		if err != nil {
			return nil, err
		}
		logrus.WithField("driver", t).Debug("selected xattr driver")
		return d, nil
	}

	return nil, errors.Wrapf(errdefs.ErrNotSupported, "no xattr driver available (tried %s)", strings.Join(tried, ", "))
}
