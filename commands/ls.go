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

	"github.com/containerd/xattr"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var LSCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List the extended attributes of a path",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		s, err := reader()
		if err != nil {
			logrus.Fatal(err)
		}

		names, err := s.List(path, mainCmdConfig.follow)
		if err != nil {
			logrus.Fatalf("error listing %s: %v", path, err)
		}

		w := newTabwriter(cmd.OutOrStdout())
		for _, name := range names {
			value, ok, err := s.Get(xattr.Query{Path: path, Name: name, FollowSymlinks: mainCmdConfig.follow})
			if err != nil {
				logrus.Fatalf("error getting %s on %s: %v", name, path, err)
			}
			if !ok {
				logrus.WithField("path", path).Debugf("%s removed while listing", name)
				continue
			}
			fmt.Fprintf(w, "%v\t%v\n", name, humanize.Bytes(uint64(len(value))))
		}

		w.Flush()
	},
}
