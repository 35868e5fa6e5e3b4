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
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/will-rowe/smash/src/misc"
	"github.com/will-rowe/smash/src/signature"
	"github.com/will-rowe/smash/src/sketch"
	"github.com/will-rowe/smash/src/version"
)

// the command line arguments
var (
	compareKsize    *uint   // the k-mer size to select from each signature
	ignoreAbundance *bool   // use plain Jaccard even for weighted sketches
	downsample      *bool   // reconcile mismatched sampling parameters
	csvOut          *string // path for the comparison matrix CSV
	plotOut         *string // path for an optional heatmap of the matrix
)

// the compare command (used by cobra)
var compareCmd = &cobra.Command{
	Use:   "compare <signature file(s)>",
	Short: "Compute a pairwise similarity matrix for a set of signatures",
	Long:  `Compute a pairwise similarity matrix for a set of signatures`,
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runCompare(args)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	compareKsize = compareCmd.Flags().UintP("kmerSize", "k", 31, "k-mer size to select from each signature")
	ignoreAbundance = compareCmd.Flags().Bool("ignoreAbundance", false, "use Jaccard similarity even when abundances were tracked")
	downsample = compareCmd.Flags().BoolP("downsample", "d", false, "downsample mismatched sketches before comparing them")
	csvOut = compareCmd.Flags().StringP("csv", "c", "smash-compare.csv", "file to write the comparison matrix to")
	plotOut = compareCmd.Flags().String("plot", "", "also draw the matrix as a heatmap (PNG)")
	RootCmd.AddCommand(compareCmd)
}

// loadSketches collects one sketch per signature in the files, selected by k-mer size
func loadSketches(files []string) ([]string, []*sketch.KmerMinHash, error) {
	labels := []string{}
	sketches := []*sketch.KmerMinHash{}
	for _, file := range files {
		sigs, err := signature.FromPath(file)
		if err != nil {
			return nil, nil, err
		}
		for _, sig := range sigs {
			mh := sig.SelectSketch(uint32(*compareKsize))
			if mh == nil {
				return nil, nil, fmt.Errorf("no k=%d sketch in signature %v", *compareKsize, sig.Name())
			}
			labels = append(labels, sig.Name())
			sketches = append(sketches, mh)
		}
	}
	return labels, sketches, nil
}

// similarityMatrix runs the pairwise comparisons
func similarityMatrix(sketches []*sketch.KmerMinHash) ([][]float64, error) {
	matrix := make([][]float64, len(sketches))
	for i := range matrix {
		matrix[i] = make([]float64, len(sketches))
		matrix[i][i] = 1.0
	}
	for i := 0; i < len(sketches); i++ {
		for j := i + 1; j < len(sketches); j++ {
			similarity, err := sketches[i].Similarity(sketches[j], *ignoreAbundance, *downsample)
			if err != nil {
				return nil, err
			}
			matrix[i][j] = similarity
			matrix[j][i] = similarity
		}
	}
	return matrix, nil
}

// writeMatrix renders the matrix as CSV with a label header
func writeMatrix(path string, labels []string, matrix [][]float64) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	w := csv.NewWriter(fh)
	if err := w.Write(labels); err != nil {
		return err
	}
	for _, row := range matrix {
		fields := make([]string, len(row))
		for i, value := range row {
			fields[i] = strconv.FormatFloat(value, 'f', 6, 64)
		}
		if err := w.Write(fields); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// matrixGrid adapts a similarity matrix to the gonum plotter grid interface
type matrixGrid struct {
	matrix [][]float64
}

func (g matrixGrid) Dims() (int, int)   { return len(g.matrix), len(g.matrix) }
func (g matrixGrid) Z(c, r int) float64 { return g.matrix[r][c] }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// plotMatrix draws the matrix as a heatmap
func plotMatrix(path string, matrix [][]float64) error {
	heatPlot, err := plot.New()
	if err != nil {
		return err
	}
	heatPlot.Title.Text = "pairwise similarity"
	heatPlot.X.Label.Text = "signature"
	heatPlot.Y.Label.Text = "signature"
	heatMap := plotter.NewHeatMap(matrixGrid{matrix}, palette.Heat(12, 1))
	heatPlot.Add(heatMap)
	return heatPlot.Save(8*vg.Inch, 8*vg.Inch, path)
}

/*
  The main function for the compare sub-command
*/
func runCompare(files []string) {

	// set up profiling
	if *profiling == true {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}

	// start logging
	log.Printf("this is smash (version %v)", version.GetVersion())
	log.Printf("starting the compare subcommand")

	// load the sketches
	log.Printf("loading %d signature file(s)...", len(files))
	labels, sketches, err := loadSketches(files)
	misc.ErrorCheck(err)
	log.Printf("\tloaded %d sketches at k=%d", len(sketches), *compareKsize)

	// run the comparisons
	matrix, err := similarityMatrix(sketches)
	misc.ErrorCheck(err)
	misc.ErrorCheck(writeMatrix(*csvOut, labels, matrix))
	log.Printf("written comparison matrix to %v", *csvOut)

	// draw the heatmap if requested
	if *plotOut != "" {
		misc.ErrorCheck(plotMatrix(*plotOut, matrix))
		log.Printf("written heatmap to %v", *plotOut)
	}
	log.Printf("finished (%v)", misc.PrintMemUsage())
}
