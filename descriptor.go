/*
 * descriptor.go, part of godesc.
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

import "gonum.org/v1/gonum/mat"

//Axis selects one of the index sets of a Descriptor.
type Axis int

const (
	//AxisFeatures selects the feature (column) labels.
	AxisFeatures Axis = 0
	//AxisEnvironments selects the environment (row) labels.
	AxisEnvironments Axis = 1
	//AxisGradients selects the gradient-sample labels.
	AxisGradients Axis = 2
)

//A Descriptor is the numeric representation of one or more atomic structures:
//a dense matrix of float64 with one row per environment and one column per
//feature, both axes labeled by Indexes. If gradients were requested, it also
//holds a gradients matrix sharing the feature axis with the values, with its
//rows labeled by gradient-sample Indexes.
//
//The layout of a Descriptor is fixed at creation: accumulation during a
//computation is index-addressed, never appended. Descriptors are created by
//Calculator.Compute (or, for I/O, by NewDescriptor) and owned by the caller
//afterwards.
type Descriptor struct {
	environments *Indexes
	features     *Indexes
	values       *mat.Dense
	gradSamples  *Indexes
	gradients    *mat.Dense
}

//zerosOrNil works around gonum refusing matrices with a zero dimension:
//an empty axis is represented by a nil matrix, which accessors report as
//zero rows/columns.
func zerosOrNil(r, c int) *mat.Dense {
	if r == 0 || c == 0 {
		return nil
	}
	return mat.NewDense(r, c, nil)
}

//newDescriptor prepares a zero-filled Descriptor over the given axes.
func newDescriptor(environments, features *Indexes) *Descriptor {
	return &Descriptor{
		environments: environments,
		features:     features,
		values:       zerosOrNil(environments.Count(), features.Count()),
	}
}

//NewDescriptor builds a Descriptor from its axes and a row-major flat slice
//of values, which must hold exactly environments.Count()*features.Count()
//numbers. It is meant for deserialization and tests; computed descriptors
//come from Calculator.Compute.
func NewDescriptor(environments, features *Indexes, data []float64) (*Descriptor, error) {
	r := environments.Count()
	c := features.Count()
	if len(data) != r*c {
		return nil, newError(StatusInvalidParameter,
			"need %d*%d=%d values for this Descriptor, got %d", r, c, r*c, len(data))
	}
	D := newDescriptor(environments, features)
	if D.values != nil {
		copy(D.values.RawMatrix().Data, data)
	}
	return D, nil
}

//SetGradients attaches gradient data to the Descriptor. Each gradient-sample
//tuple must start with the components of an existing environment row (its
//"owning" environment); the remaining components identify what the derivative
//is taken against, the last one being the spatial (x/y/z) direction. The data
//slice must hold samples.Count()*features.Count() numbers, row-major.
func (D *Descriptor) SetGradients(samples *Indexes, data []float64) error {
	if err := D.checkGradientSamples(samples); err != nil {
		return errDecorate(err, "SetGradients")
	}
	r := samples.Count()
	c := D.features.Count()
	if len(data) != r*c {
		return newError(StatusInvalidParameter,
			"need %d*%d=%d gradient values, got %d", r, c, r*c, len(data))
	}
	D.gradSamples = samples
	D.gradients = zerosOrNil(r, c)
	if D.gradients != nil {
		copy(D.gradients.RawMatrix().Data, data)
	}
	return nil
}

//prepareGradients attaches a zero-filled gradients matrix, for accumulation.
func (D *Descriptor) prepareGradients(samples *Indexes) error {
	if err := D.checkGradientSamples(samples); err != nil {
		return errDecorate(err, "prepareGradients")
	}
	D.gradSamples = samples
	D.gradients = zerosOrNil(samples.Count(), D.features.Count())
	return nil
}

//checkGradientSamples verifies the gradient-sample invariants: the variable
//names must extend the environment names, and every tuple's environment
//prefix must match an existing environment row.
func (D *Descriptor) checkGradientSamples(samples *Indexes) error {
	envNames := D.environments.Names()
	if samples.Arity() <= len(envNames) {
		return newError(StatusInvalidParameter,
			"gradient samples must have more variables than the environments (%v)", envNames)
	}
	for i, n := range envNames {
		if samples.Names()[i] != n {
			return newError(StatusInvalidParameter,
				"gradient sample variables %v do not extend the environment variables %v",
				samples.Names(), envNames)
		}
	}
	for i := 0; i < samples.Count(); i++ {
		owner := samples.Value(i)[:len(envNames)]
		if !D.environments.Contains(owner) {
			return newError(StatusInvalidParameter,
				"gradient sample %v references environment %v, which is not in this Descriptor",
				samples.Value(i), owner)
		}
	}
	return nil
}

//Environments returns the labels of the rows of the values matrix.
func (D *Descriptor) Environments() *Indexes { return D.environments }

//Features returns the labels of the columns of the values matrix
//(and of the gradients matrix, when present).
func (D *Descriptor) Features() *Indexes { return D.features }

//GradientSamples returns the labels of the rows of the gradients matrix,
//or nil if no gradients were computed.
func (D *Descriptor) GradientSamples() *Indexes { return D.gradSamples }

//HasGradients returns whether gradient data is present.
func (D *Descriptor) HasGradients() bool { return D.gradSamples != nil }

//AxisIndexes returns the Indexes labeling the requested axis. For
//AxisGradients it returns nil when no gradients are present.
func (D *Descriptor) AxisIndexes(axis Axis) *Indexes {
	switch axis {
	case AxisFeatures:
		return D.features
	case AxisEnvironments:
		return D.environments
	case AxisGradients:
		return D.gradSamples
	}
	panic("Descriptor: unknown axis")
}

//CopyNames copies the variable names of an axis into dst. It returns an
//error if dst is shorter than the axis arity.
func (D *Descriptor) CopyNames(axis Axis, dst []string) error {
	in := D.AxisIndexes(axis)
	if len(dst) < in.Arity() {
		return newError(StatusInvalidParameter,
			"buffer of %d strings is too small for %d variable names", len(dst), in.Arity())
	}
	copy(dst, in.Names())
	return nil
}

//Values returns the dimensions of the values matrix, together with a
//read-only view of it. The view is nil when either dimension is zero.
func (D *Descriptor) Values() (rows, cols int, view mat.Matrix) {
	rows = D.environments.Count()
	cols = D.features.Count()
	if D.values != nil {
		view = D.values
	}
	return rows, cols, view
}

//Gradients returns the dimensions of the gradients matrix, together with a
//read-only view of it. Without gradients it returns 0, 0, nil.
func (D *Descriptor) Gradients() (rows, cols int, view mat.Matrix) {
	if D.gradSamples == nil {
		return 0, 0, nil
	}
	rows = D.gradSamples.Count()
	cols = D.features.Count()
	if D.gradients != nil {
		view = D.gradients
	}
	return rows, cols, view
}

//Copy returns a deep copy of the Descriptor. The Indexes are shared, as
//they are immutable once built.
func (D *Descriptor) Copy() *Descriptor {
	N := newDescriptor(D.environments, D.features)
	if D.values != nil {
		N.values.Copy(D.values)
	}
	if D.gradSamples != nil {
		N.gradSamples = D.gradSamples
		N.gradients = zerosOrNil(D.gradSamples.Count(), D.features.Count())
		if D.gradients != nil {
			N.gradients.Copy(D.gradients)
		}
	}
	return N
}

//valuesRow returns the backing slice of one row of the values matrix,
//for index-addressed accumulation.
func (D *Descriptor) valuesRow(i int) []float64 {
	return D.values.RawRowView(i)
}

//gradientsRow returns the backing slice of one row of the gradients matrix.
func (D *Descriptor) gradientsRow(i int) []float64 {
	return D.gradients.RawRowView(i)
}

//The following index-addressed writers are the accumulation surface used by
//feature routines during Compute. Rows belong to exactly one system, so
//concurrent workers writing different systems never touch the same row.

//Row returns the row of the given environment tuple, or -1 if the tuple is
//not part of this Descriptor's layout (e.g. filtered out by a selection).
func (D *Descriptor) Row(env IndexValue) int {
	i, ok := D.environments.Position(env)
	if !ok {
		return -1
	}
	return i
}

//Column returns the column of the given feature tuple, or -1 if absent.
func (D *Descriptor) Column(feature IndexValue) int {
	i, ok := D.features.Position(feature)
	if !ok {
		return -1
	}
	return i
}

//SetValue writes one cell of the values matrix. Panics if out of range.
func (D *Descriptor) SetValue(row, col int, v float64) {
	D.values.Set(row, col, v)
}

//GradientRow returns the row of the given gradient-sample tuple, or -1 if
//absent or if no gradients were requested.
func (D *Descriptor) GradientRow(sample IndexValue) int {
	if D.gradSamples == nil {
		return -1
	}
	i, ok := D.gradSamples.Position(sample)
	if !ok {
		return -1
	}
	return i
}

//SetGradientValue writes one cell of the gradients matrix. Panics if out of
//range or if no gradients were requested.
func (D *Descriptor) SetGradientValue(row, col int, v float64) {
	D.gradients.Set(row, col, v)
}
