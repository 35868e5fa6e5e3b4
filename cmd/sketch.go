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
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/will-rowe/smash/src/misc"
	"github.com/will-rowe/smash/src/seqio"
	"github.com/will-rowe/smash/src/signature"
	"github.com/will-rowe/smash/src/sketch"
	"github.com/will-rowe/smash/src/version"
)

// the command line arguments
var (
	kSizes         *[]int  // the k-mer sizes to sketch at
	sketchSize     *uint   // bottom-k cap on the sketch size (0 = uncapped)
	scaled         *uint64 // scaled sampling rate (0 = no modulus sampling)
	molecule       *string // the molecule type (dna/protein/dayhoff/hp)
	seed           *uint32 // the hash seed
	trackAbundance *bool   // keep per-hash multiplicities
	proteinInput   *bool   // the input files hold pre-translated amino acids
	force          *bool   // skip invalid DNA k-mers rather than failing
	minQual        *int    // quality trim FASTQ reads below this score (0 = no trimming)
	sketchOutDir   *string // directory to write the signature files to
	logFile        *string // log file (defaults to stderr)
)

// the sketch command (used by cobra)
var sketchCmd = &cobra.Command{
	Use:   "sketch <sequence file(s)>",
	Short: "Sketch FASTA/FASTQ files and write a signature per input file",
	Long:  `Sketch FASTA/FASTQ files and write a signature per input file`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSketch(args)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	kSizes = sketchCmd.Flags().IntSliceP("kmerSize", "k", []int{31}, "k-mer size(s) to sketch at")
	sketchSize = sketchCmd.Flags().UintP("sketchSize", "s", 0, "bottom-k sketch size cap (0 = uncapped)")
	scaled = sketchCmd.Flags().Uint64P("scaled", "x", 1000, "scaled sampling rate (0 = keep a fixed-size sketch instead)")
	molecule = sketchCmd.Flags().StringP("molecule", "m", "dna", "molecule type to sketch (dna/protein/dayhoff/hp)")
	seed = sketchCmd.Flags().Uint32P("seed", "e", 42, "seed for the MurmurHash3 function")
	trackAbundance = sketchCmd.Flags().BoolP("trackAbundance", "a", false, "keep k-mer multiplicities in the sketch")
	proteinInput = sketchCmd.Flags().Bool("proteinInput", false, "input files contain pre-translated amino acid sequences")
	force = sketchCmd.Flags().BoolP("force", "f", false, "skip k-mers holding non-ACGT characters rather than failing")
	minQual = sketchCmd.Flags().IntP("minQual", "q", 0, "quality trim FASTQ reads using this cutoff (0 = no trimming)")
	sketchOutDir = sketchCmd.PersistentFlags().StringP("outDir", "o", ".", "directory to save the signature files to")
	logFile = sketchCmd.Flags().String("log", "", "file to write the log to (default: stderr)")
	RootCmd.AddCommand(sketchCmd)
}

/*
  A function to check user supplied parameters
*/
func sketchParamCheck(files []string) error {
	for _, file := range files {
		if err := misc.CheckFile(file); err != nil {
			return err
		}
	}
	if _, err := sketch.HashFunctionFromString(*molecule); err != nil {
		return err
	}
	if *sketchSize == 0 && *scaled == 0 {
		return fmt.Errorf("one of --sketchSize or --scaled must be set")
	}
	if _, err := os.Stat(*sketchOutDir); os.IsNotExist(err) {
		if err := os.MkdirAll(*sketchOutDir, 0700); err != nil {
			return fmt.Errorf("directory creation failed: %v", *sketchOutDir)
		}
	}
	return nil
}

// buildSignature sketches a single sequence file
func buildSignature(file string) (*signature.Signature, error) {
	hashFunction, err := sketch.HashFunctionFromString(*molecule)
	if err != nil {
		return nil, err
	}

	params := signature.DefaultComputeParameters()
	params.Ksizes = make([]uint32, len(*kSizes))
	for i, k := range *kSizes {
		params.Ksizes[i] = uint32(k)
	}
	params.MolType = hashFunction
	params.Num = uint32(*sketchSize)
	params.Scaled = *scaled
	params.Seed = *seed
	params.TrackAbundance = *trackAbundance

	sig, err := params.BuildSignature(filepath.Base(file), file)
	if err != nil {
		return nil, err
	}

	sequences, err := seqio.ReadSequenceFile(file, *proteinInput, *minQual)
	if err != nil {
		return nil, err
	}
	for _, sequence := range sequences {
		if *proteinInput {
			err = sig.AddProtein(sequence.Seq)
		} else {
			err = sig.AddSequence(sequence.Seq, *force)
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", file, err)
		}
	}
	return sig, nil
}

/*
  The main function for the sketch sub-command
*/
func runSketch(files []string) {

	// set up profiling
	if *profiling == true {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}

	// start logging
	if *logFile != "" {
		logFH := misc.StartLogging(*logFile)
		defer logFH.Close()
		log.SetOutput(logFH)
	}
	log.Printf("this is smash (version %v)", version.GetVersion())
	log.Printf("starting the sketch subcommand")

	// check the supplied files and then log some stuff
	log.Printf("checking parameters...")
	misc.ErrorCheck(sketchParamCheck(files))
	log.Printf("\tmolecule: %v", *molecule)
	log.Printf("\tk-mer sizes: %v", *kSizes)
	if *scaled != 0 {
		log.Printf("\tscaled: %d", *scaled)
	} else {
		log.Printf("\tsketch size: %d", *sketchSize)
	}
	log.Printf("\ttrack abundance: %v", *trackAbundance)
	log.Printf("\tprocessors: %d", *proc)
	runtime.GOMAXPROCS(*proc)

	// sketch the files, a few at a time
	log.Printf("sketching %d file(s)...", len(files))
	var wg sync.WaitGroup
	tokens := make(chan struct{}, *proc)
	for _, file := range files {
		wg.Add(1)
		go func(file string) {
			defer wg.Done()
			tokens <- struct{}{}
			defer func() { <-tokens }()

			sig, err := buildSignature(file)
			misc.ErrorCheck(err)
			outFile := filepath.Join(*sketchOutDir, filepath.Base(file)+".sig")
			misc.ErrorCheck(signature.WriteFile(outFile, sig))
			log.Printf("\twritten %v (md5: %v)", outFile, sig.MD5Sum())
		}(file)
	}
	wg.Wait()
	log.Printf("finished (%v)", misc.PrintMemUsage())
}
