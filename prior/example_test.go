package prior_test

import (
	"fmt"

	"github.com/cwbudde/algo-nest/prior"
)

func ExampleSet_Transform() {
	priors := map[string]prior.Prior{
		"teff": prior.Uniform{LBound: 4000, UBound: 7000},
		"logg": prior.Gaussian{Mean: 4.4, Sigma: 0.3},
		"feh":  prior.Fixed{Value: -0.2},
	}

	// Cube order follows the model's parameter list, not the map.
	set, err := prior.NewSet(priors, []string{"teff", "logg", "feh"})
	if err != nil {
		panic(err)
	}

	values, err := set.Transform([]float64{0.5, 0.5, 0.5})
	if err != nil {
		panic(err)
	}

	for i, name := range set.Names() {
		fmt.Printf("%s = %.1f\n", name, values[i])
	}

	// Output:
	// teff = 5500.0
	// logg = 4.4
	// feh = -0.2
}
