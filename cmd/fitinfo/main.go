// Command fitinfo prints the posterior summary of a completed sampling
// run from its output artifacts.
//
// Usage:
//
//	fitinfo [flags] output-prefix
//
// The prefix is the same one the fit was run with, e.g. "chains/spectrumFit_".
// Parameter names are read from <prefix>params.json.
//
// Examples:
//
//	fitinfo chains/spectrumFit_
//	fitinfo -modes chains/spectrumFit_
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-nest/nest"
)

func main() {
	modes := flag.Bool("modes", false, "show every posterior mode, not just the first")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fitinfo [flags] output-prefix\n\n")
		fmt.Fprintf(os.Stderr, "Prints the posterior summary of a completed sampling run.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	prefix := flag.Arg(0)

	names, err := nest.LoadParameterNames(prefix)
	if err != nil {
		fatalf("%v", err)
	}

	a := nest.NewAnalyzer(prefix, len(names))

	if !a.StatsAvailable() {
		fmt.Printf("no statistics file at %s (run incomplete or prefix truncated)\n", a.StatsFile())
		return
	}

	stats, err := a.Stats()
	if err != nil {
		fatalf("%v", err)
	}

	marginals, err := a.Marginals()
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("global evidence: %.6g +/- %.3g\n", stats.GlobalEvidence, stats.GlobalEvidenceErr)
	fmt.Printf("modes: %d\n\n", len(stats.Modes))

	shown := stats.Modes[:1]
	if *modes {
		shown = stats.Modes
	}

	for i, mode := range shown {
		if *modes {
			fmt.Printf("mode %d (local log-evidence %.6g +/- %.3g)\n",
				i+1, mode.LocalLogEvidence, mode.LocalLogEvidenceErr)
		}

		printMode(names, mode, marginals, i == 0)
		fmt.Println()
	}
}

// printMode writes one parameter table. Marginal intervals are quantiles
// over the full posterior, so they only accompany the first mode.
func printMode(names []string, mode nest.Mode, marginals []nest.Marginal, withMarginals bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	if withMarginals {
		fmt.Fprintln(w, "parameter\tmean\tsigma\t1-sigma interval\t3-sigma interval")
		for i, name := range names {
			fmt.Fprintf(w, "%s\t%.6g\t%.6g\t[%.6g, %.6g]\t[%.6g, %.6g]\n",
				name, mode.Mean[i], mode.Sigma[i],
				marginals[i].Sigma1.Low, marginals[i].Sigma1.High,
				marginals[i].Sigma3.Low, marginals[i].Sigma3.High)
		}
	} else {
		fmt.Fprintln(w, "parameter\tmean\tsigma")
		for i, name := range names {
			fmt.Fprintf(w, "%s\t%.6g\t%.6g\n", name, mode.Mean[i], mode.Sigma[i])
		}
	}

	w.Flush()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fitinfo: "+format+"\n", args...)
	os.Exit(1)
}
