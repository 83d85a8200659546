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
	"os"
	"runtime"

	"github.com/containerd/xattr"
	"github.com/containerd/xattr/diffutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	diffCmdConfig struct {
		jobs int
	}

	DiffCmd = &cobra.Command{
		Use:   "diff <root> <root>",
		Short: "Compare the extended attributes of two directory trees",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			s, err := reader()
			if err != nil {
				logrus.Fatal(err)
			}

			var manifests [2]*xattr.Manifest
			for i, root := range args {
				c, err := xattr.NewContext(root, s)
				if err != nil {
					logrus.Fatalf("error getting context: %v", err)
				}
				manifests[i], err = xattr.BuildManifest(context.Background(), c, diffCmdConfig.jobs)
				if err != nil {
					logrus.Fatalf("error building manifest for %s: %v", root, err)
				}
			}

			d := diffutil.DiffManifest(manifests[0], manifests[1])
			out := cmd.OutOrStdout()
			for _, e := range d.Deletions {
				fmt.Fprintf(out, "- %s\n", e.Path)
			}
			for _, e := range d.Additions {
				fmt.Fprintf(out, "+ %s\n", e.Path)
			}
			for _, u := range d.Updates {
				fmt.Fprintf(out, "~ %s\n", u.Updated.Path)
			}
			if !d.Empty() {
				os.Exit(1)
			}
		},
	}
)

func init() {
	DiffCmd.Flags().IntVarP(&diffCmdConfig.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of entries read concurrently")
}
