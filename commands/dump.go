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
	"context"
	"fmt"
	"runtime"

	"github.com/containerd/xattr"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dumpCmdConfig struct {
		jobs   int
		values bool
	}

	DumpCmd = &cobra.Command{
		Use:   "dump <root>",
		Short: "Dump the extended attributes of every entry below root",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s, err := reader()
			if err != nil {
				logrus.Fatal(err)
			}

			c, err := xattr.NewContext(args[0], s)
			if err != nil {
				logrus.Fatalf("error getting context: %v", err)
			}

			m, err := xattr.BuildManifest(context.Background(), c, dumpCmdConfig.jobs)
			if err != nil {
				logrus.Fatalf("error building manifest: %v", err)
			}

			w := newTabwriter(cmd.OutOrStdout())
			for _, entry := range m.Entries {
				for _, attr := range entry.Attrs {
					name := attr.Name
					if dumpCmdConfig.values {
						name += "=" + formatValue(attr.Value)
					}
					fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", entry.Mode, humanize.Bytes(uint64(len(attr.Value))), attr.Digest, entry.Path, name)
				}
			}

			w.Flush()
		},
	}
)

func init() {
	DumpCmd.Flags().IntVarP(&dumpCmdConfig.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of entries read concurrently")
	DumpCmd.Flags().BoolVar(&dumpCmdConfig.values, "values", false, "include attribute values")
}
