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
	"os"

	"github.com/containerd/xattr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	getCmdConfig struct {
		raw bool
	}

	GetCmd = &cobra.Command{
		Use:   "get <path> <name>",
		Short: "Print the value of an extended attribute",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			path, name := args[0], args[1]

			s, err := reader()
			if err != nil {
				logrus.Fatal(err)
			}

			value, ok, err := s.Get(xattr.Query{Path: path, Name: name, FollowSymlinks: mainCmdConfig.follow})
			if err != nil {
				logrus.Fatalf("error getting %s on %s: %v", name, path, err)
			}
			if !ok {
				logrus.WithField("path", path).Errorf("attribute %s not present", name)
				os.Exit(1)
			}

			if getCmdConfig.raw {
				cmd.OutOrStdout().Write(value)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
		},
	}
)

func init() {
	GetCmd.Flags().BoolVar(&getCmdConfig.raw, "raw", false, "write the value unmodified")
}
