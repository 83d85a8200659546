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
	"os"

	"github.com/containerd/xattr"
	"github.com/containerd/xattr/driver"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	mainCmdConfig struct {
		debug  bool
		driver string
		follow bool
	}

	MainCmd = &cobra.Command{
		Use:   "xattr <command>",
		Short: "Read extended attributes of files and directories.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetFormatter(&logrus.TextFormatter{})
			logrus.SetOutput(os.Stderr)
			if mainCmdConfig.debug {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}
)

func init() {
	MainCmd.PersistentFlags().BoolVar(&mainCmdConfig.debug, "debug", false, "enable debug logging")
	MainCmd.PersistentFlags().StringVar(&mainCmdConfig.driver, "driver", "", "force a driver (syscall, cgo or library) instead of probing")
	MainCmd.PersistentFlags().BoolVarP(&mainCmdConfig.follow, "follow", "L", false, "follow symbolic links")

	MainCmd.AddCommand(GetCmd)
	MainCmd.AddCommand(LSCmd)
	MainCmd.AddCommand(DumpCmd)
	MainCmd.AddCommand(DriversCmd)
	MainCmd.AddCommand(DiffCmd)
}

// reader returns the Service used by commands: the process default, or the
// driver named by --driver.
func reader() (*xattr.Service, error) {
	if mainCmdConfig.driver == "" {
		return xattr.Default()
	}

	t, err := driver.ParseType(mainCmdConfig.driver)
	if err != nil {
		return nil, err
	}
	d, err := driver.New(t)
	if err != nil {
		return nil, err
	}
	return xattr.NewService(d), nil
}
