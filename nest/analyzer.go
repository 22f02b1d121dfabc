package nest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Errors returned by artifact parsing.
var (
	ErrMalformedStats     = errors.New("nest: malformed statistics file")
	ErrMalformedPosterior = errors.New("nest: malformed posterior sample file")
	ErrEmptyPosterior     = errors.New("nest: posterior sample file has no rows")
)

// Interval is one credible interval, Low <= High.
type Interval struct {
	Low  float64
	High float64
}

// Mode is one posterior mode reported by the engine.
type Mode struct {
	StrictlyLocalLogEvidence    float64
	StrictlyLocalLogEvidenceErr float64
	LocalLogEvidence            float64
	LocalLogEvidenceErr         float64
	Mean                        []float64
	Sigma                       []float64
	MaximumLikelihood           []float64
	MAP                         []float64
}

// Stats holds the parsed contents of the engine's statistics file.
type Stats struct {
	GlobalEvidence    float64
	GlobalEvidenceErr float64
	Modes             []Mode
}

// Marginal summarizes one parameter's marginal posterior: the median and
// the central credible intervals at 1, 2, 3 and 5 sigma mass.
type Marginal struct {
	Median float64
	Sigma1 Interval
	Sigma2 Interval
	Sigma3 Interval
	Sigma5 Interval
}

// Analyzer reads the artifacts a sampling run left under an output prefix.
// It is a thin handle: every method re-reads the files, so an Analyzer
// built while a run is still writing simply reflects whatever exists.
type Analyzer struct {
	prefix  string
	nParams int
}

// NewAnalyzer returns an Analyzer for the given output prefix and
// parameter count.
func NewAnalyzer(prefix string, nParams int) *Analyzer {
	return &Analyzer{prefix: prefix, nParams: nParams}
}

// NParams returns the parameter count the analyzer expects.
func (a *Analyzer) NParams() int {
	return a.nParams
}

// StatsFile returns the path of the statistics artifact.
func (a *Analyzer) StatsFile() string {
	return a.prefix + "stats.dat"
}

// PosteriorFile returns the path of the equal-weighted posterior samples.
func (a *Analyzer) PosteriorFile() string {
	return a.prefix + "post_equal_weights.dat"
}

// ParamsFile returns the path of the persisted parameter-name list.
func (a *Analyzer) ParamsFile() string {
	return a.prefix + "params.json"
}

// StatsAvailable reports whether the statistics artifact exists. Engines
// in the MultiNest family truncate over-long file prefixes and then write
// nothing under the expected name, so absence is a normal outcome.
func (a *Analyzer) StatsAvailable() bool {
	_, err := os.Stat(a.StatsFile())
	return err == nil
}

// LoadParameterNames reads the ordered parameter-name list persisted next
// to the sampling output.
func LoadParameterNames(prefix string) ([]string, error) {
	data, err := os.ReadFile(prefix + "params.json")
	if err != nil {
		return nil, fmt.Errorf("nest: read parameter names: %w", err)
	}

	var names []string

	err = json.Unmarshal(data, &names)
	if err != nil {
		return nil, fmt.Errorf("nest: parse parameter names: %w", err)
	}

	return names, nil
}

// Stats parses the statistics artifact: global evidence with uncertainty
// and one block per posterior mode (local evidences, mean/sigma vectors,
// maximum-likelihood and MAP parameter vectors).
func (a *Analyzer) Stats() (*Stats, error) {
	data, err := os.ReadFile(a.StatsFile())
	if err != nil {
		return nil, fmt.Errorf("nest: read statistics file: %w", err)
	}

	lines := strings.Split(string(data), "\n")

	s := &Stats{}

	found := false
	i := 0
	for ; i < len(lines); i++ {
		if strings.Contains(lines[i], "Global Evidence") ||
			strings.Contains(lines[i], "Global Log-Evidence") {
			s.GlobalEvidence, s.GlobalEvidenceErr, err = valueWithError(lines[i])
			if err != nil {
				return nil, err
			}

			found = true
			i++

			break
		}
	}

	if !found {
		return nil, fmt.Errorf("%w: no global evidence line", ErrMalformedStats)
	}

	for i < len(lines) {
		if !isModeHeader(lines[i]) {
			i++
			continue
		}

		mode, next, err := a.parseMode(lines, i+1)
		if err != nil {
			return nil, err
		}

		s.Modes = append(s.Modes, mode)
		i = next
	}

	if len(s.Modes) == 0 {
		return nil, fmt.Errorf("%w: no modes", ErrMalformedStats)
	}

	return s, nil
}

// parseMode reads one mode block starting at lines[start] and returns the
// index of the line that terminated it (the next mode header or EOF).
func (a *Analyzer) parseMode(lines []string, start int) (Mode, int, error) {
	var mode Mode

	i := start
	for i < len(lines) {
		line := lines[i]

		switch {
		case isModeHeader(line):
			return mode, i, nil

		case strings.Contains(line, "Strictly Local Log-Evidence"):
			v, e, err := valueWithError(line)
			if err != nil {
				return mode, i, err
			}

			mode.StrictlyLocalLogEvidence, mode.StrictlyLocalLogEvidenceErr = v, e
			i++

		case strings.Contains(line, "Local Log-Evidence"):
			v, e, err := valueWithError(line)
			if err != nil {
				return mode, i, err
			}

			mode.LocalLogEvidence, mode.LocalLogEvidenceErr = v, e
			i++

		case strings.Contains(line, "Mean") && strings.Contains(line, "Sigma"):
			means, sigmas, next, err := a.parseMeanSigmaTable(lines, i+1)
			if err != nil {
				return mode, i, err
			}

			mode.Mean, mode.Sigma = means, sigmas
			i = next

		case strings.Contains(line, "Maximum Likelihood Parameters"):
			values, next, err := a.parseParamTable(lines, i+1)
			if err != nil {
				return mode, i, err
			}

			mode.MaximumLikelihood = values
			i = next

		case strings.Contains(line, "MAP Parameters"):
			values, next, err := a.parseParamTable(lines, i+1)
			if err != nil {
				return mode, i, err
			}

			mode.MAP = values
			i = next

		default:
			i++
		}
	}

	return mode, i, nil
}

// parseMeanSigmaTable reads nParams rows of "dim mean sigma".
func (a *Analyzer) parseMeanSigmaTable(lines []string, start int) (means, sigmas []float64, next int, err error) {
	means = make([]float64, 0, a.nParams)
	sigmas = make([]float64, 0, a.nParams)

	i := start
	for i < len(lines) && len(means) < a.nParams {
		floats := floatTokens(lines[i])
		if len(floats) == 0 {
			i++
			continue
		}

		if len(floats) < 3 {
			return nil, nil, i, fmt.Errorf("%w: mean/sigma row %q", ErrMalformedStats, lines[i])
		}

		means = append(means, floats[1])
		sigmas = append(sigmas, floats[2])
		i++
	}

	if len(means) < a.nParams {
		return nil, nil, i, fmt.Errorf("%w: mean/sigma table has %d of %d rows",
			ErrMalformedStats, len(means), a.nParams)
	}

	return means, sigmas, i, nil
}

// parseParamTable reads nParams rows of "dim value", skipping the column
// header line.
func (a *Analyzer) parseParamTable(lines []string, start int) (values []float64, next int, err error) {
	values = make([]float64, 0, a.nParams)

	i := start
	for i < len(lines) && len(values) < a.nParams {
		if strings.Contains(lines[i], "Dim") {
			i++
			continue
		}

		floats := floatTokens(lines[i])
		if len(floats) == 0 {
			i++
			continue
		}

		if len(floats) < 2 {
			return nil, i, fmt.Errorf("%w: parameter row %q", ErrMalformedStats, lines[i])
		}

		values = append(values, floats[len(floats)-1])
		i++
	}

	if len(values) < a.nParams {
		return nil, i, fmt.Errorf("%w: parameter table has %d of %d rows",
			ErrMalformedStats, len(values), a.nParams)
	}

	return values, i, nil
}

// EqualWeightedPosterior reads the raw posterior samples: one row per
// accepted sample with nParams values plus the log-likelihood in the last
// column.
func (a *Analyzer) EqualWeightedPosterior() ([][]float64, error) {
	data, err := os.ReadFile(a.PosteriorFile())
	if err != nil {
		return nil, fmt.Errorf("nest: read posterior samples: %w", err)
	}

	var rows [][]float64

	for _, line := range strings.Split(string(data), "\n") {
		floats := floatTokens(line)
		if len(floats) == 0 {
			continue
		}

		if len(floats) != a.nParams+1 {
			return nil, fmt.Errorf("%w: row has %d columns, want %d",
				ErrMalformedPosterior, len(floats), a.nParams+1)
		}

		rows = append(rows, floats)
	}

	return rows, nil
}

// Marginals computes per-parameter marginal summaries (median, central
// credible intervals) as quantiles of the equal-weighted posterior.
func (a *Analyzer) Marginals() ([]Marginal, error) {
	rows, err := a.EqualWeightedPosterior()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrEmptyPosterior
	}

	out := make([]Marginal, a.nParams)
	column := make([]float64, len(rows))

	for p := range out {
		for r, row := range rows {
			column[r] = row[p]
		}

		sort.Float64s(column)

		out[p] = Marginal{
			Median: quantile(column, 0.5),
			Sigma1: sigmaInterval(column, 1),
			Sigma2: sigmaInterval(column, 2),
			Sigma3: sigmaInterval(column, 3),
			Sigma5: sigmaInterval(column, 5),
		}
	}

	return out, nil
}

// sigmaInterval returns the central interval containing the probability
// mass of +-k sigma of a normal distribution, erf(k/sqrt(2)).
func sigmaInterval(sorted []float64, k float64) Interval {
	mass := math.Erf(k / math.Sqrt2)

	return Interval{
		Low:  quantile(sorted, (1-mass)/2),
		High: quantile(sorted, (1+mass)/2),
	}
}

// quantile returns the p-quantile of sorted values with linear
// interpolation between order statistics.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	pos := p * float64(n-1)
	i := int(pos)

	if i >= n-1 {
		return sorted[n-1]
	}

	frac := pos - float64(i)

	return sorted[i]*(1-frac) + sorted[i+1]*frac
}

// floatTokens returns every whitespace-separated token of the line that
// parses as a float, in order. Fortran D-exponents are accepted.
func floatTokens(line string) []float64 {
	var out []float64

	for _, tok := range strings.Fields(line) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil && strings.ContainsAny(tok, "Dd") {
			v, err = strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(tok), 64)
		}

		if err == nil {
			out = append(out, v)
		}
	}

	return out
}

// valueWithError extracts "value +/- error" from a labeled line. The
// error term may be absent.
func valueWithError(line string) (value, errValue float64, err error) {
	floats := floatTokens(line)
	if len(floats) == 0 {
		return 0, 0, fmt.Errorf("%w: no value in %q", ErrMalformedStats, line)
	}

	value = floats[0]
	if len(floats) > 1 {
		errValue = floats[1]
	}

	return value, errValue, nil
}

// isModeHeader reports whether the line starts a mode block ("Mode  1").
func isModeHeader(line string) bool {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != "Mode" {
		return false
	}

	_, err := strconv.Atoi(fields[1])

	return err == nil
}
