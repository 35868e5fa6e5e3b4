// Copyright © 2017 Will Rowe <will.rowe@stfc.ac.uk>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/will-rowe/smash/src/misc"
	"github.com/will-rowe/smash/src/signature"
)

// the info command (used by cobra)
var infoCmd = &cobra.Command{
	Use:   "info <signature file(s)>",
	Short: "Print the contents of signature files",
	Long:  `Print the contents of signature files`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runInfo(args)
	},
}

func init() {
	RootCmd.AddCommand(infoCmd)
}

/*
  The main function for the info sub-command
*/
func runInfo(files []string) {
	for _, file := range files {
		sigs, err := signature.FromPath(file)
		misc.ErrorCheck(err)
		fmt.Printf("%v:\n", file)
		for _, sig := range sigs {
			fmt.Printf("  signature: %v\n", sig.Name())
			for _, mh := range sig.Sketches() {
				fmt.Printf("    k=%d\tmolecule=%v\tnum=%d\tscaled=%d\tmins=%d\tabund=%v\tmd5=%v\n",
					mh.Ksize(), mh.HashFunction(), mh.Num(), mh.Scaled(), mh.Size(), mh.TrackAbundance(), mh.MD5Sum())
			}
		}
	}
}
