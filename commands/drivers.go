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
	"fmt"

	"github.com/containerd/xattr/driver"
	"github.com/spf13/cobra"
)

var DriversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "Show which drivers are usable on this host, in probe order",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := newTabwriter(cmd.OutOrStdout())
		for _, t := range driver.DefaultOrder {
			r := driver.Probe(t)
			status := "available"
			if !r.Available {
				status = r.Reason
			}
			fmt.Fprintf(w, "%v\t%v\n", t, status)
		}
		w.Flush()
	},
}
