/*
 * calculator.go, part of godesc.
 *
 * Copyright 2023 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * godesc is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

package desc

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

//A Computer is the feature routine a Calculator drives: it declares the
//layout of the descriptor it produces, and fills the rows belonging to one
//system at a time. Implementations are registered with RegisterCalculator
//and instantiated by name through NewCalculator.
type Computer interface {
	//Cutoff returns the neighbor-list cutoff the routine needs, or 0 if it
	//doesn't consume neighbor data.
	Cutoff() float64
	//Environments returns the natural environment layout for the given
	//systems: the union across systems, in system order then in-system
	//order. The first variable must be "structure", holding the position
	//of the system in the slice.
	Environments(systems []System) (*Indexes, error)
	//Features returns the natural feature layout for the given systems.
	Features(systems []System) (*Indexes, error)
	//GradientSamples returns the gradient-sample layout for the (possibly
	//selection-restricted) environments, or nil if the routine does not
	//implement gradients.
	GradientSamples(systems []System, environments *Indexes) (*Indexes, error)
	//ComputeSystem fills the rows of D whose "structure" variable equals i.
	//Writes must be index-addressed through the Descriptor row lookups;
	//rows or columns absent from D's layout are simply skipped.
	ComputeSystem(i int, system System, D *Descriptor) error
}

var calculators = make(map[string]func(parameters string) (Computer, error))

//RegisterCalculator makes a feature routine available to NewCalculator under
//the given name. It is meant to be called from init functions; it is not
//safe for concurrent use.
func RegisterCalculator(name string, maker func(parameters string) (Computer, error)) {
	if _, dup := calculators[name]; dup {
		panic("RegisterCalculator: duplicated calculator name " + name)
	}
	calculators[name] = maker
}

//A Calculator computes one kind of descriptor over sequences of systems.
//It is created from a registered name and a JSON parameter string, which it
//keeps around verbatim.
type Calculator struct {
	name       string
	parameters string
	impl       Computer
}

//NewCalculator instantiates the calculator registered under name with the
//given JSON parameters.
func NewCalculator(name, parameters string) (*Calculator, error) {
	if !utf8.ValidString(name) || !utf8.ValidString(parameters) {
		return nil, newError(StatusUTF8, "calculator name or parameters are not valid UTF8")
	}
	maker, ok := calculators[name]
	if !ok {
		return nil, newError(StatusInvalidParameter, "unknown calculator %q", name)
	}
	impl, err := maker(parameters)
	if err != nil {
		return nil, errDecorate(err, "NewCalculator")
	}
	return &Calculator{name: name, parameters: parameters, impl: impl}, nil
}

//Name returns the registered name of the calculator.
func (C *Calculator) Name() string { return C.name }

//Parameters returns the JSON text the calculator was created with,
//verbatim.
func (C *Calculator) Parameters() string { return C.parameters }

//Cutoff returns the neighbor-list cutoff used by this calculator, or 0.
func (C *Calculator) Cutoff() float64 { return C.impl.Cutoff() }

//Options modify one Compute call.
type Options struct {
	//UseNativeSystem copies every system into a SimpleSystem before
	//computing. With implementations that cross a language boundary on
	//every query this is usually faster. It never changes the results.
	UseNativeSystem bool
	//Gradients requests gradients of the features with respect to atomic
	//positions.
	Gradients bool
	//SelectedSamples restricts the output to the listed environment
	//tuples. Its variables must all be environment variables; with the
	//full set of variables, the output rows follow the selection order,
	//with a subset of them, matching rows keep their natural order.
	//Tuples matching no system are simply absent from the result.
	SelectedSamples *Indexes
	//SelectedFeatures restricts the output feature columns, with the same
	//matching rules as SelectedSamples.
	SelectedFeatures *Indexes
}

//applySelection restricts a natural axis layout to a selection, per the
//rules documented on Options.
func applySelection(natural, selection *Indexes) (*Indexes, error) {
	if selection == nil {
		return natural, nil
	}
	positions := make([]int, selection.Arity())
	for i, name := range selection.Names() {
		j := natural.NameIndex(name)
		if j < 0 {
			return nil, newError(StatusInvalidParameter,
				"selection variable %q is not among %v", name, natural.Names())
		}
		positions[i] = j
	}
	b, err := NewIndexesBuilder(natural.Names()...)
	if err != nil {
		return nil, errDecorate(err, "applySelection")
	}
	if selection.Arity() == natural.Arity() {
		//full selection: selection order wins
		v := make(IndexValue, natural.Arity())
		for i := 0; i < selection.Count(); i++ {
			s := selection.Value(i)
			for j, p := range positions {
				v[p] = s[j]
			}
			if !natural.Contains(v) {
				continue
			}
			if _, err := b.Add(v); err != nil {
				return nil, errDecorate(err, "applySelection")
			}
		}
		return b.Finish(), nil
	}
	//partial selection: keep natural entries matching any selected tuple
	//on the selected variables, in natural order
	wanted := make(map[string]bool, selection.Count())
	for i := 0; i < selection.Count(); i++ {
		wanted[selection.Value(i).key()] = true
	}
	for i := 0; i < natural.Count(); i++ {
		v := natural.Value(i)
		if wanted[pick(v, positions).key()] {
			if _, err := b.Add(v); err != nil {
				return nil, errDecorate(err, "applySelection")
			}
		}
	}
	return b.Finish(), nil
}

//Compute runs the calculator over the given systems and returns the
//accumulated Descriptor. Systems are processed concurrently, one worker per
//system, each writing into pre-assigned rows, so the output is deterministic:
//rows follow system input order, then the natural (or selection-driven)
//in-system order. A failure on any system fails the whole call; partial
//results are never returned. Panics inside feature routines are recovered
//and reported as StatusInternal errors.
func (C *Calculator) Compute(systems []System, opts *Options) (*Descriptor, error) {
	if opts == nil {
		opts = &Options{}
	}
	if len(systems) == 0 {
		log.Warn().Str("calculator", C.name).Msg("no systems given to Compute, nothing to do")
	}
	if opts.UseNativeSystem {
		native := make([]System, len(systems))
		for i, sys := range systems {
			s, err := CopySystem(sys)
			if err != nil {
				return nil, errDecorate(err, fmt.Sprintf("Compute: copying system %d", i))
			}
			native[i] = s
		}
		systems = native
	}
	environments, err := C.impl.Environments(systems)
	if err != nil {
		return nil, errDecorate(err, "Compute")
	}
	environments, err = applySelection(environments, opts.SelectedSamples)
	if err != nil {
		return nil, errDecorate(err, "Compute")
	}
	features, err := C.impl.Features(systems)
	if err != nil {
		return nil, errDecorate(err, "Compute")
	}
	features, err = applySelection(features, opts.SelectedFeatures)
	if err != nil {
		return nil, errDecorate(err, "Compute")
	}
	D := newDescriptor(environments, features)
	if opts.Gradients {
		samples, err := C.impl.GradientSamples(systems, environments)
		if err != nil {
			return nil, errDecorate(err, "Compute")
		}
		if samples == nil {
			return nil, newError(StatusInvalidParameter,
				"calculator %q does not implement gradients", C.name)
		}
		if err := D.prepareGradients(samples); err != nil {
			return nil, errDecorate(err, "Compute")
		}
	}

	errs := make([]error, len(systems))
	var wg sync.WaitGroup
	for i, sys := range systems {
		wg.Add(1)
		go func(i int, sys System) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = newError(StatusInternal, "system %d: %v", i, r)
				}
			}()
			log.Debug().Str("calculator", C.name).Int("system", i).Int("atoms", sys.Len()).
				Msg("computing descriptor rows")
			if cutoff := C.impl.Cutoff(); cutoff > 0 {
				if err := sys.ComputeNeighbors(cutoff); err != nil {
					errs[i] = err
					return
				}
				if err := checkPairs(sys, cutoff); err != nil {
					errs[i] = err
					return
				}
			}
			errs[i] = C.impl.ComputeSystem(i, sys, D)
		}(i, sys)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, errDecorate(err, fmt.Sprintf("Compute: system %d", i))
		}
	}
	return D, nil
}
