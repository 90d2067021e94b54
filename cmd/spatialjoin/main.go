// Command spatialjoin runs one epsilon spatial join between two binary
// dataset files and appends the run metrics to the CSV performance log.
//
// The flag grammar is positional-argument based (several flags take two
// operands, e.g. -i PA PB), so the arguments are parsed by hand.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/katalvlaran/epsjoin/join"
)

const logFileName = "SJ.csv"

func usage(program string) {
	fmt.Printf("   Usage: %s\n", program)
	fmt.Printf("   -h               Print this help menu.\n")
	fmt.Printf("   -a               Algorithms\n")
	fmt.Printf("      0:Nested Loop\n")
	fmt.Printf("      1:Plane-Sweeping\n")
	fmt.Printf("      2:Spatial Grid Hash\n")
	fmt.Printf("      3:Size Separation Spatial\n")
	fmt.Printf("      4:Partition Based Spatial-Merge Join\n")
	fmt.Printf("      5:TOUCH:Spatial Hierarchical Hash\n")
	fmt.Printf("   -J               Algorithm for joining the buckets\n")
	fmt.Printf("   -l               leaf size\n")
	fmt.Printf("   -b               fanout\n")
	fmt.Printf("   -g               number of grid cells per dimension\n")
	fmt.Printf("   -t               type of sorting (0 - No Sort, 1 - Hilbert, 2 - X axis, 3 - STR)\n")
	fmt.Printf("   -e               Epsilon of the similarity join\n")
	fmt.Printf("   -i               <path> <path>  Dataset A followed by B\n")
	fmt.Printf("   -n               #A #B  number of elements to be read\n")
	fmt.Printf("   -y               type of tree traversal (0 - BU; 1 - TD; 2 - TDD; 3 - TDF)\n")
	fmt.Printf("   -s               type of grid resolution (0 - Static; 1 - Dynamic Square; 2 - Dynamic Mean-Length)\n")
	fmt.Printf("   -v               verbose\n")
}

// cliConfig collects the parsed arguments before they are translated
// into engine options.
type cliConfig struct {
	algorithm  int
	localJoin  int
	sortKind   int
	traversal  int
	resolution int
	leafSize   int
	fanout     int
	gridCells  int
	epsilon    float64
	numA, numB uint64
	fileA      string
	fileB      string
	verbose    bool
}

func defaults() cliConfig {
	return cliConfig{
		algorithm:  int(join.NL),
		localJoin:  int(join.NL),
		sortKind:   int(join.SortHilbert),
		traversal:  int(join.TD),
		resolution: int(join.ResolutionDynamicFlex),
		leafSize:   join.DefaultLeafSize,
		fanout:     join.DefaultFanout,
		gridCells:  join.DefaultGridCells,
		epsilon:    join.DefaultEpsilon,
	}
}

// parseArgs walks argv by hand; flags taking operands consume the
// following argument(s). Returns an error on malformed input.
func parseArgs(args []string, cfg *cliConfig) error {
	next := func(x *int, flag string) (string, error) {
		*x++
		if *x >= len(args) {
			return "", fmt.Errorf("missing operand for %s", flag)
		}
		return args[*x], nil
	}
	nextInt := func(x *int, flag string) (int, error) {
		s, err := next(x, flag)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid operand %q for %s", s, flag)
		}
		return v, nil
	}

	for x := 0; x < len(args); x++ {
		arg := args[x]
		if len(arg) < 2 || arg[0] != '-' {
			return fmt.Errorf("invalid argument %q", arg)
		}
		var err error
		switch arg[1] {
		case 'h':
			usage(os.Args[0])
			os.Exit(1)
		case 'i':
			if cfg.fileA, err = next(&x, "-i"); err != nil {
				return err
			}
			if cfg.fileB, err = next(&x, "-i"); err != nil {
				return err
			}
		case 'a':
			cfg.algorithm, err = nextInt(&x, "-a")
		case 'J':
			cfg.localJoin, err = nextInt(&x, "-J")
		case 'n':
			var na, nb int
			if na, err = nextInt(&x, "-n"); err != nil {
				return err
			}
			if nb, err = nextInt(&x, "-n"); err != nil {
				return err
			}
			cfg.numA, cfg.numB = uint64(na), uint64(nb)
		case 't':
			cfg.sortKind, err = nextInt(&x, "-t")
		case 'e':
			var s string
			if s, err = next(&x, "-e"); err != nil {
				return err
			}
			if cfg.epsilon, err = strconv.ParseFloat(s, 64); err != nil {
				err = fmt.Errorf("invalid operand %q for -e", s)
			}
		case 'l':
			cfg.leafSize, err = nextInt(&x, "-l")
		case 'b':
			cfg.fanout, err = nextInt(&x, "-b")
		case 'y':
			cfg.traversal, err = nextInt(&x, "-y")
		case 'g':
			cfg.gridCells, err = nextInt(&x, "-g")
		case 's':
			cfg.resolution, err = nextInt(&x, "-s")
		case 'v':
			var v int
			if v, err = nextInt(&x, "-v"); err != nil {
				return err
			}
			cfg.verbose = v == 1
		default:
			return fmt.Errorf("invalid command line parameter %q", arg)
		}
		if err != nil {
			return err
		}
	}
	if cfg.fileA == "" || cfg.fileB == "" {
		return fmt.Errorf("both dataset paths are required (-i PA PB)")
	}
	return nil
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Args[0])
		os.Exit(1)
	}
	cfg := defaults()
	if err := parseArgs(os.Args[1:], &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		usage(os.Args[0])
		os.Exit(1)
	}

	// For the grid join -l is the grid resolution, not a leaf size.
	if cfg.algorithm == int(join.SGrid) {
		cfg.gridCells = cfg.leafSize
	}

	opts := []join.Option{
		join.WithAlgorithm(join.Algorithm(cfg.algorithm)),
		join.WithLocalJoin(join.Algorithm(cfg.localJoin)),
		join.WithEpsilon(cfg.epsilon),
		join.WithSort(join.SortKind(cfg.sortKind)),
		join.WithTraversal(join.Traversal(cfg.traversal)),
		join.WithResolution(join.ResolutionPolicy(cfg.resolution)),
		join.WithLeafSize(cfg.leafSize),
		join.WithFanout(cfg.fanout),
		join.WithGridCells(cfg.gridCells),
		join.WithLimits(cfg.numA, cfg.numB),
	}
	if cfg.verbose {
		opts = append(opts, join.WithVerbose(log.New(os.Stdout, "", log.Ltime)))
	}

	res, err := join.Run(cfg.fileA, cfg.fileB, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		usage(os.Args[0])
		os.Exit(1)
	}
	if err := res.Stats.WriteCSV(logFileName); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	res.Report(os.Stdout)
	fmt.Println("Terminated.")
}
