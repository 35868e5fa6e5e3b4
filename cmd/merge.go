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
	"log"

	"github.com/spf13/cobra"

	"github.com/will-rowe/smash/src/misc"
	"github.com/will-rowe/smash/src/signature"
	"github.com/will-rowe/smash/src/version"
)

// the command line arguments
var (
	mergeName *string // name for the merged signature
	mergeOut  *string // file to write the merged signature to
)

// the merge command (used by cobra)
var mergeCmd = &cobra.Command{
	Use:   "merge <signature file(s)>",
	Short: "Merge compatible signatures into a single signature",
	Long:  `Merge compatible signatures into a single signature`,
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runMerge(args)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	mergeName = mergeCmd.Flags().StringP("name", "n", "merged", "name for the merged signature")
	mergeOut = mergeCmd.Flags().StringP("output", "o", "merged.sig", "file to write the merged signature to")
	RootCmd.AddCommand(mergeCmd)
}

// mergeSignatures folds every signature into the first one, sketch by sketch
func mergeSignatures(files []string) (*signature.Signature, error) {
	var combined *signature.Signature
	for _, file := range files {
		sigs, err := signature.FromPath(file)
		if err != nil {
			return nil, err
		}
		for _, sig := range sigs {
			if combined == nil {
				combined = sig
				continue
			}
			if combined.Size() != sig.Size() {
				return nil, fmt.Errorf("signature %v holds %d sketches, expected %d", sig.Name(), sig.Size(), combined.Size())
			}
			for i, mh := range combined.Sketches() {
				if err := mh.Merge(sig.Sketches()[i]); err != nil {
					return nil, err
				}
			}
		}
	}
	combined.SetName(*mergeName)
	combined.SetFilename("")
	return combined, nil
}

/*
  The main function for the merge sub-command
*/
func runMerge(files []string) {

	// start logging
	log.Printf("this is smash (version %v)", version.GetVersion())
	log.Printf("starting the merge subcommand")

	// merge and write
	log.Printf("merging %d signature file(s)...", len(files))
	combined, err := mergeSignatures(files)
	misc.ErrorCheck(err)
	misc.ErrorCheck(signature.WriteFile(*mergeOut, combined))
	log.Printf("written merged signature to %v (md5: %v)", *mergeOut, combined.MD5Sum())
}
