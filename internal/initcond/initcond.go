// Package initcond reads initial conditions from a CSV file whose first
// line names the columns and whose second line holds the values, as
// exported alongside event logs. Angles are in degrees.
package initcond

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/magphyx/internal/config"
	"github.com/san-kum/magphyx/internal/dynamo"
)

// Required are the columns that must be present, in any order.
var Required = []string{"r", "theta", "phi", "pr", "ptheta", "pphi"}

func Load(path string) (config.InitialConditions, error) {
	f, err := os.Open(path)
	if err != nil {
		return config.InitialConditions{}, fmt.Errorf("%w: %v", dynamo.ErrMalformedInput, err)
	}
	defer f.Close()

	ic, err := Read(f)
	if err != nil {
		return config.InitialConditions{}, fmt.Errorf("%s: %w", path, err)
	}
	return ic, nil
}

func Read(r io.Reader) (config.InitialConditions, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return config.InitialConditions{}, fmt.Errorf("%w: missing header", dynamo.ErrMalformedInput)
	}
	if err != nil {
		return config.InitialConditions{}, fmt.Errorf("%w: header: %v", dynamo.ErrMalformedInput, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range Required {
		if _, ok := index[name]; !ok {
			return config.InitialConditions{}, fmt.Errorf("%w: missing column %q", dynamo.ErrMalformedInput, name)
		}
	}

	values, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return config.InitialConditions{}, fmt.Errorf("%w: missing values line", dynamo.ErrMalformedInput)
	}
	if err != nil {
		return config.InitialConditions{}, fmt.Errorf("%w: values: %v", dynamo.ErrMalformedInput, err)
	}

	field := func(name string) (float64, error) {
		i := index[name]
		if i >= len(values) {
			return 0, fmt.Errorf("%w: no value for %q", dynamo.ErrMalformedInput, name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(values[i]), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", dynamo.ErrMalformedInput, name, err)
		}
		return v, nil
	}

	var ic config.InitialConditions
	dst := []*float64{&ic.R, &ic.Theta, &ic.Phi, &ic.Pr, &ic.Ptheta, &ic.Pphi}
	for i, name := range Required {
		v, err := field(name)
		if err != nil {
			return config.InitialConditions{}, err
		}
		*dst[i] = v
	}
	return ic, nil
}
