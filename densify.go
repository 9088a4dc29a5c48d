/*
 * densify.go, part of godesc.
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

//Densify moves the given variables from the environment axis of the
//Descriptor into its feature axis, in place.
//
//Descriptors usually come out of a computation "tall and sparse": one row per
//environment, with the environment tuples carrying per-row metadata such as
//the species of the central atom. Models want a fixed-width matrix instead.
//After Densify, the environments keep only the variables not pivoted out, one
//row per distinct combination of them, and the features are the cartesian
//product (pivoted-variable combinations actually observed) x (original
//features). Combinations never observed for a given row are exactly 0.0.
//
//Both the new environment order and the pivoted-combination order are the
//first-seen order in the original environments, so the operation is
//reproducible given the same input order. Gradients, when present, are
//repivoted the same way, keyed by each gradient sample's owning environment.
//
//Densifying on zero variables is a no-op. Requesting a variable that is not
//among the environment variables, or requesting the same variable twice, is
//an error, and so is any pair of rows that would land on the same slot of the
//new layout: Densify never sums nor overwrites data. On error the Descriptor
//is left unchanged.
func (D *Descriptor) Densify(variables ...string) error {
	if len(variables) == 0 {
		return nil
	}
	envNames := D.environments.Names()
	pivotPos := make([]int, len(variables))
	taken := make(map[string]bool, len(variables))
	for i, name := range variables {
		j := D.environments.NameIndex(name)
		if j < 0 {
			return newError(StatusInvalidParameter,
				"can not densify on %q: environment variables are %v", name, envNames)
		}
		if taken[name] {
			return newError(StatusInvalidParameter, "variable %q requested twice in Densify", name)
		}
		taken[name] = true
		pivotPos[i] = j
	}
	keptPos := make([]int, 0, len(envNames)-len(variables))
	keptNames := make([]string, 0, len(envNames)-len(variables))
	for j, name := range envNames {
		if !taken[name] {
			keptPos = append(keptPos, j)
			keptNames = append(keptNames, name)
		}
	}

	//First pass: the new environments and the observed pivot combinations,
	//both in first-seen order.
	keptB, err := NewIndexesBuilder(keptNames...)
	if err != nil {
		return errDecorate(err, "Densify")
	}
	pivotB, err := NewIndexesBuilder(variables...)
	if err != nil {
		return errDecorate(err, "Densify")
	}
	for r := 0; r < D.environments.Count(); r++ {
		v := D.environments.Value(r)
		if _, err := keptB.Add(pick(v, keptPos)); err != nil {
			return errDecorate(err, "Densify")
		}
		if _, err := pivotB.Add(pick(v, pivotPos)); err != nil {
			return errDecorate(err, "Densify")
		}
	}
	newEnvs := keptB.Finish()
	pivotDomain := pivotB.Finish()

	//New features: (pivot combination) x (original feature), in that order.
	oldFeats := D.features
	featNames := append(append([]string{}, variables...), oldFeats.Names()...)
	featB, err := NewIndexesBuilder(featNames...)
	if err != nil {
		return errDecorate(err, "Densify")
	}
	for p := 0; p < pivotDomain.Count(); p++ {
		for f := 0; f < oldFeats.Count(); f++ {
			col := append(pivotDomain.Value(p).Copy(), oldFeats.Value(f)...)
			if _, err := featB.Add(col); err != nil {
				return errDecorate(err, "Densify")
			}
		}
	}
	newFeats := featB.Finish()

	//Second pass: relocate every value row into its (kept row, pivot block)
	//slot. Slots must be hit at most once.
	F := oldFeats.Count()
	values := zerosOrNil(newEnvs.Count(), newFeats.Count())
	filled := make(map[[2]int]bool, D.environments.Count())
	for r := 0; r < D.environments.Count(); r++ {
		v := D.environments.Value(r)
		newRow, _ := newEnvs.Position(pick(v, keptPos))
		pIdx, _ := pivotDomain.Position(pick(v, pivotPos))
		slot := [2]int{newRow, pIdx}
		if filled[slot] {
			return newError(StatusInvalidParameter,
				"two environment rows map to the same densified slot (row %v)", v)
		}
		filled[slot] = true
		if values != nil && F > 0 {
			copy(values.RawRowView(newRow)[pIdx*F:(pIdx+1)*F], D.valuesRow(r))
		}
	}

	var newGradSamples *Indexes
	var gradients = D.gradients
	if D.gradSamples != nil {
		E := D.environments.Arity()
		extras := D.gradSamples.Names()[E:]
		//The owning environment components of each gradient sample get the
		//same kept/pivot split as the environments themselves.
		gKept := make([]int, len(keptPos))
		copy(gKept, keptPos)
		gNames := append(append([]string{}, keptNames...), extras...)
		gradB, err := NewIndexesBuilder(gNames...)
		if err != nil {
			return errDecorate(err, "Densify")
		}
		for r := 0; r < D.gradSamples.Count(); r++ {
			v := D.gradSamples.Value(r)
			sample := append(pick(v, gKept), v[E:]...)
			if _, err := gradB.Add(sample); err != nil {
				return errDecorate(err, "Densify")
			}
		}
		newGradSamples = gradB.Finish()
		gradients = zerosOrNil(newGradSamples.Count(), newFeats.Count())
		gFilled := make(map[[2]int]bool, D.gradSamples.Count())
		for r := 0; r < D.gradSamples.Count(); r++ {
			v := D.gradSamples.Value(r)
			newRow, _ := newGradSamples.Position(append(pick(v, gKept), v[E:]...))
			pIdx, _ := pivotDomain.Position(pick(v, pivotPos))
			slot := [2]int{newRow, pIdx}
			if gFilled[slot] {
				return newError(StatusInvalidParameter,
					"two gradient rows map to the same densified slot (sample %v)", v)
			}
			gFilled[slot] = true
			if gradients != nil && F > 0 {
				copy(gradients.RawRowView(newRow)[pIdx*F:(pIdx+1)*F], D.gradientsRow(r))
			}
		}
	}

	D.environments = newEnvs
	D.features = newFeats
	D.values = values
	D.gradSamples = newGradSamples
	D.gradients = gradients
	return nil
}

//pick extracts the components of v at the given positions, in that order.
func pick(v IndexValue, positions []int) IndexValue {
	w := make(IndexValue, len(positions))
	for i, p := range positions {
		w[i] = v[p]
	}
	return w
}
