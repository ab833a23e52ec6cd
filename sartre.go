/*
SARTRE (Splits from Alignment-free Raw-sequence Tree REconstruction) infers
phylogenetic splits directly from raw sequence data, without alignment or
assembly, by comparing k-mer content across the input genomes. It outputs
either a weighted split table or a greedily filtered tree in newick format.

usage: sartre [ -k <len> | -t <num> | -m <mean> | -f <filter> | -h | -v ] <command> <genome> <genome> ...

commands:

	splits		computes and writes the weighted split table (tsv)
	tree		computes splits and writes the filtered tree(s) (newick)

positional arguments:

	<genome>	sequence file (fasta/fastq, optionally gzipped); one genome per file

flags:

	-k int
	  	k-mer length (default 31)
	-t int
	  	number of top splits kept; 0 keeps all (default 10 per genome)
	-m mean
	  	weight mean function [ geom2 | geom | arith ] (default "geom2")
	-f filter
	  	split filter [ none | strict | weakly | <n>-tree ]
	  	(default "none" for splits, "strict" for tree)
	-x int
	  	max k-mers expanded per ambiguous window; 0 skips them (default 0)
	-s	single-strand mode: do not merge reverse complements
	-n int
	  	number of parallel processes
	-l file
	  	read input file paths from file instead of arguments
	-o file
	  	output file (default stdout)
	-p prefix
	  	also write a split-weight decay plot to <prefix>.png
	-V	verbose progress logging
	-h	prints this message and exits
	-v	prints version number and exits

examples:

	  splits command example:
		sartre -t 100 splits genomes/*.fa > splits.tsv 2> log.txt

	  tree command example:
		sartre -k 21 -f 2-tree tree a.fa b.fa c.fa.gz > trees.nwk 2> log.txt
*/
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jsdoublel/sartre/internal/filter"
	"github.com/jsdoublel/sartre/internal/index"
	"github.com/jsdoublel/sartre/internal/kmer"
	"github.com/jsdoublel/sartre/internal/seqio"
	"github.com/jsdoublel/sartre/internal/splitio"
	sp "github.com/jsdoublel/sartre/internal/splits"
	"github.com/jsdoublel/sartre/internal/taxa"
)

const (
	Version    = "v0.1.0"
	ErrMessage = "SARTRE incountered an error ::"

	Splits Command = iota
	Tree
)

type Command int

var parseCommand = map[string]Command{
	"splits": Splits,
	"tree":   Tree,
}

type FilterKind int

const (
	NoFilter FilterKind = iota
	StrictFilter
	WeaklyFilter
	NTreeFilter
)

// Filter is the -f flag: which compatibility filter to run, and for the
// n-tree filter how many trees to fill.
type Filter struct {
	kind    FilterKind
	trees   int
	defined bool // whether the flag was given, so commands can default differently
}

func (f *Filter) Set(s string) error {
	f.defined = true
	switch s {
	case "none":
		f.kind = NoFilter
	case "strict":
		f.kind = StrictFilter
	case "weakly":
		f.kind = WeaklyFilter
	default:
		n, err := strconv.Atoi(strings.TrimSuffix(s, "-tree"))
		if !strings.HasSuffix(s, "-tree") || err != nil || n < 1 {
			return fmt.Errorf("\"%s\" is not a valid filter", s)
		}
		f.kind = NTreeFilter
		f.trees = n
	}
	return nil
}

func (f Filter) String() string {
	switch f.kind {
	case NoFilter:
		return "none"
	case StrictFilter:
		return "strict"
	case WeaklyFilter:
		return "weakly"
	case NTreeFilter:
		return fmt.Sprintf("%d-tree", f.trees)
	default:
		panic(fmt.Sprintf("filter (%d) does not exist", f.kind))
	}
}

type args struct {
	command      Command  // splits or tree
	k            int      // k-mer length
	top          int      // split list bound (-1 = default 10 per genome, 0 = unbounded)
	mean         sp.Mean  // weight mean function
	filter       Filter   // compatibility filter
	maxIupac     uint64   // max k-mers expanded per ambiguous window
	singleStrand bool     // do not merge reverse complements
	nprocs       int      // number of parallel processes
	listFile     string   // input file list path
	outFile      string   // output path ("" = stdout)
	plotPrefix   string   // weight plot prefix ("" = no plot)
	verbose      bool     // verbose progress logging
	inputs       []string // positional input files
}

func setNProcs(nprocs int) int {
	maxProcs := runtime.GOMAXPROCS(0)
	switch {
	case nprocs > maxProcs:
		log.Printf("%d is greater than available processes (%d); limit set to %d\n", nprocs, maxProcs, maxProcs)
		return maxProcs
	case nprocs <= 0:
		return maxProcs
	default:
		return nprocs
	}
}

func parseArgs() args {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr,
			"usage: sartre [ -k <len> | -t <num> | -m <mean> | -f <filter> | -h | -v ] <command> <genome> <genome> ...\n",
			"\n",
			"commands:\n\n",
			"  splits\tcomputes and writes the weighted split table (tsv)\n",
			"  tree\t\tcomputes splits and writes the filtered tree(s) (newick)\n",
			"\n",
			"positional arguments:\n\n",
			"  <genome>\tsequence file (fasta/fastq, optionally gzipped); one genome per file\n",
			"\n",
			"flags:\n\n",
		)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr,
			"\n",
			"examples:\n\n",
			"  splits command example:\n",
			"\tsartre -t 100 splits genomes/*.fa > splits.tsv 2> log.txt\n\n",
			"  tree command example:\n",
			"\tsartre -k 21 -f 2-tree tree a.fa b.fa c.fa.gz > trees.nwk 2> log.txt\n",
		)
	}
	k := flag.Int("k", 31, "k-mer `length`")
	top := flag.Int("t", -1, "number of top splits kept; 0 keeps all (default 10 per genome)")
	mean := sp.Geom2
	flag.Var(&mean, "m", "weight `mean` function [ geom2 | geom | arith ] (default \"geom2\")")
	var filt Filter
	flag.Var(&filt, "f", "split `filter` [ none | strict | weakly | <n>-tree ] (default \"none\" for splits, \"strict\" for tree)")
	maxIupac := flag.Uint64("x", 0, "max k-mers expanded per ambiguous window; 0 skips them")
	singleStrand := flag.Bool("s", false, "single-strand mode: do not merge reverse complements")
	nprocs := flag.Int("n", 0, "number of parallel processes")
	listFile := flag.String("l", "", "read input file paths from `file` instead of arguments")
	outFile := flag.String("o", "", "output `file` (default stdout)")
	plotPrefix := flag.String("p", "", "also write a split-weight decay plot to `prefix`.png")
	verbose := flag.Bool("V", false, "verbose progress logging")
	help := flag.Bool("h", false, "prints this message and exits")
	ver := flag.Bool("v", false, "prints version number and exits")
	flag.Parse()
	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if *ver {
		fmt.Printf("SARTRE version %s\n", Version)
		os.Exit(0)
	}
	if flag.NArg() < 1 {
		parserError("positional arguments required: <command> <genome> ...")
	}
	cmd, ok := parseCommand[flag.Arg(0)]
	if !ok {
		parserError(fmt.Sprintf("\"%s\" is not a valid command: either \"splits\" or \"tree\" required", flag.Arg(0)))
	}
	if *k < 1 {
		parserError(fmt.Sprintf("k-mer length must be positive (got %d)", *k))
	}
	if *top < -1 {
		parserError(fmt.Sprintf("number of top splits must not be negative (got %d)", *top))
	}
	if !filt.defined {
		if cmd == Tree {
			filt.kind = StrictFilter
		} else {
			filt.kind = NoFilter
		}
	}
	if cmd == Tree && filt.kind != StrictFilter && filt.kind != NTreeFilter {
		parserError(fmt.Sprintf("filter \"%s\" does not yield trees; use \"strict\" or \"<n>-tree\" with the tree command", filt))
	}
	if flag.NArg() > 1 && *listFile != "" {
		parserError("input genomes given both as arguments and with -l")
	}
	if flag.NArg() < 2 && *listFile == "" {
		parserError("no input genomes given")
	}
	return args{
		command:      cmd,
		k:            *k,
		top:          *top,
		mean:         mean,
		filter:       filt,
		maxIupac:     *maxIupac,
		singleStrand: *singleStrand,
		nprocs:       setNProcs(*nprocs),
		listFile:     *listFile,
		outFile:      *outFile,
		plotPrefix:   *plotPrefix,
		verbose:      *verbose,
		inputs:       flag.Args()[1:],
	}
}

// prints message, usage, and exits (status code 1)
func parserError(message string) {
	fmt.Fprintln(os.Stderr, message)
	flag.Usage()
	os.Exit(1)
}

// taxon name shown in output: file base name without compression or format
// extensions
func taxonName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".gz")
	if trimmed := strings.TrimSuffix(name, filepath.Ext(name)); trimmed != "" {
		return trimmed
	}
	return name
}

// picks the k-mer and color-set backings from k and the genome count, then
// runs the pipeline with that instantiation
func runSized(args args, files, names []string) error {
	n := len(files)
	switch {
	case args.k <= kmer.MaxWordK && n <= taxa.MaxWordN:
		kc, err := kmer.NewWord(args.k)
		if err != nil {
			return err
		}
		tc, err := taxa.NewWord(n)
		if err != nil {
			return err
		}
		return run[uint64, uint64](kc, tc, args, files, names)
	case args.k <= kmer.MaxWordK:
		kc, err := kmer.NewWord(args.k)
		if err != nil {
			return err
		}
		tc, err := taxa.NewWide(n)
		if err != nil {
			return err
		}
		return run[uint64, string](kc, tc, args, files, names)
	case n <= taxa.MaxWordN:
		kc, err := kmer.NewWide(args.k)
		if err != nil {
			return err
		}
		tc, err := taxa.NewWord(n)
		if err != nil {
			return err
		}
		return run[string, uint64](kc, tc, args, files, names)
	default:
		kc, err := kmer.NewWide(args.k)
		if err != nil {
			return err
		}
		tc, err := taxa.NewWide(n)
		if err != nil {
			return err
		}
		return run[string, string](kc, tc, args, files, names)
	}
}

func run[K, C comparable](kc kmer.Coder[K], tc taxa.Coder[C], args args, files, names []string) error {
	log.Printf("indexing %d input genomes (k = %d)\n", len(files), args.k)
	ix := index.New(kc, tc)
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(args.nprocs)
	for color, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			local := index.New(kc, tc)
			r, err := seqio.Open(path)
			if err != nil {
				return err
			}
			defer func() {
				if err := r.Close(); err != nil {
					log.Printf("could not close file %s, %s", path, err)
				}
			}()
			nseq := 0
			err = seqio.Records(r, func(name string, seq []byte) error {
				nseq++
				if args.maxIupac > 0 {
					return local.AddKmersIUPAC(seq, color, !args.singleStrand, args.maxIupac)
				}
				return local.AddKmers(seq, color, !args.singleStrand)
			})
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if args.verbose {
				log.Printf("%s: %d sequences, %d distinct k-mers\n", names[color], nseq, local.Len())
				if local.Skipped() > 0 {
					log.Printf("%s: %d ambiguous windows skipped, %d k-mers expanded\n", names[color], local.Skipped(), local.Expanded())
				}
			}
			mu.Lock()
			ix.Merge(local)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Printf("%d distinct k-mers indexed\n", ix.Len())
	top := args.top
	if top < 0 {
		top = 10 * tc.N()
	}
	list := sp.NewList(tc, top)
	log.Println("accumulating split weights")
	sp.Accumulate(ix, tc, args.mean.Func(), list, args.verbose)
	log.Printf("%d candidate splits collected\n", list.Len())
	out := os.Stdout
	if args.outFile != "" {
		f, err := os.Create(args.outFile)
		if err != nil {
			return fmt.Errorf("error creating %s, %w", args.outFile, err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Printf("could not close file %s, %s", args.outFile, err)
			}
		}()
		out = f
	}
	labels := func(i int) string { return names[i] }
	switch args.command {
	case Splits:
		var result []sp.Split[C]
		switch args.filter.kind {
		case NoFilter:
			result = list.Entries()
		case StrictFilter:
			result = filter.Strict(tc, list, args.verbose)
		case WeaklyFilter:
			result = filter.Weakly(tc, list, args.verbose)
		case NTreeFilter:
			for _, accepted := range filter.NTree(args.filter.trees, tc, list, args.verbose) {
				result = append(result, accepted...)
			}
			slices.SortFunc(result, func(a, b sp.Split[C]) int {
				if r := cmp.Compare(b.Weight, a.Weight); r != 0 {
					return r
				}
				return tc.Cmp(a.Set, b.Set)
			})
		}
		if err := splitio.WriteSplits(out, tc, result, names); err != nil {
			return err
		}
	case Tree:
		var nwk string
		switch args.filter.kind {
		case StrictFilter:
			nwk, _ = filter.StrictNewick(tc, list, labels, args.verbose)
		case NTreeFilter:
			nwk, _ = filter.NTreeNewick(args.filter.trees, tc, list, labels, args.verbose)
		default:
			panic(fmt.Sprintf("invalid filter (%d) for tree command", args.filter.kind))
		}
		if err := splitio.WriteNewick(out, nwk); err != nil {
			return err
		}
	default:
		panic(fmt.Sprintf("invalid command (%d)", args.command))
	}
	if args.plotPrefix != "" {
		if err := splitio.WriteWeightLineplot(list.Weights(), args.plotPrefix); err != nil {
			return fmt.Errorf("error writing weight plot, %w", err)
		}
	}
	return nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("SARTRE version %s", Version)
	args := parseArgs()
	files := args.inputs
	if args.listFile != "" {
		var err error
		if files, err = seqio.ReadFileList(args.listFile); err != nil {
			log.Fatalf("%s %s\n", ErrMessage, err)
		}
	}
	if len(files) < 2 {
		parserError("at least two input genomes required")
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = taxonName(f)
	}
	if err := runSized(args, files, names); err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	log.Println("done.")
}
