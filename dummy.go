/*
 * dummy.go, part of godesc.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
	"encoding/json"
	"math"
	"strings"
)

//dummyCalculator produces two features with trivially checkable values:
//"index_delta" is delta + structure + center, and "x_y_z" is the sum of the
//center's coordinates. Its only purpose is testing the orchestration,
//selection and densification machinery with known numbers; it also
//implements gradients (d index_delta/dr = 0, d x_y_z/dr = 1 for every
//spatial direction of every neighbor).
type dummyCalculator struct {
	CutoffRadius float64 `json:"cutoff"`
	Delta        int32   `json:"delta"`
}

func init() {
	RegisterCalculator("dummy_calculator", newDummyCalculator)
}

func newDummyCalculator(parameters string) (Computer, error) {
	d := new(dummyCalculator)
	dec := json.NewDecoder(strings.NewReader(parameters))
	dec.DisallowUnknownFields()
	if err := dec.Decode(d); err != nil {
		return nil, newError(StatusJSON, "dummy_calculator parameters: %s", err.Error())
	}
	if d.CutoffRadius <= 0 || math.IsInf(d.CutoffRadius, 0) || math.IsNaN(d.CutoffRadius) {
		return nil, newError(StatusInvalidParameter,
			"dummy_calculator cutoff must be positive and finite, got %f", d.CutoffRadius)
	}
	return d, nil
}

func (d *dummyCalculator) Cutoff() float64 { return d.CutoffRadius }

func (d *dummyCalculator) Environments(systems []System) (*Indexes, error) {
	b, err := NewIndexesBuilder("structure", "center")
	if err != nil {
		return nil, errDecorate(err, "Environments")
	}
	for i, sys := range systems {
		for c := 0; c < sys.Len(); c++ {
			if _, err := b.Add(IndexValue{int32(i), int32(c)}); err != nil {
				return nil, errDecorate(err, "Environments")
			}
		}
	}
	return b.Finish(), nil
}

func (d *dummyCalculator) Features(systems []System) (*Indexes, error) {
	b, err := NewIndexesBuilder("index_delta", "x_y_z")
	if err != nil {
		return nil, errDecorate(err, "Features")
	}
	b.Add(IndexValue{1, 0})
	b.Add(IndexValue{0, 1})
	return b.Finish(), nil
}

//GradientSamples has one entry per (environment, neighbor within the cutoff,
//spatial direction), in the order of the given environments.
func (d *dummyCalculator) GradientSamples(systems []System, environments *Indexes) (*Indexes, error) {
	b, err := NewIndexesBuilder("structure", "center", "neighbor", "spatial")
	if err != nil {
		return nil, errDecorate(err, "GradientSamples")
	}
	computed := make(map[int]bool, len(systems))
	for e := 0; e < environments.Count(); e++ {
		v := environments.Value(e)
		i, center := int(v[0]), int(v[1])
		if i < 0 || i >= len(systems) {
			continue
		}
		sys := systems[i]
		//one neighbor list per system, not one per environment
		if !computed[i] {
			if err := sys.ComputeNeighbors(d.CutoffRadius); err != nil {
				return nil, errDecorate(err, "GradientSamples")
			}
			computed[i] = true
		}
		for _, p := range sys.PairsContaining(center) {
			neighbor := p.Second
			if p.Second == center {
				neighbor = p.First
			}
			for spatial := int32(0); spatial < 3; spatial++ {
				if _, err := b.Add(IndexValue{v[0], v[1], int32(neighbor), spatial}); err != nil {
					return nil, errDecorate(err, "GradientSamples")
				}
			}
		}
	}
	return b.Finish(), nil
}

func (d *dummyCalculator) ComputeSystem(i int, sys System, D *Descriptor) error {
	positions := sys.Positions()
	deltaCol := D.Column(IndexValue{1, 0})
	xyzCol := D.Column(IndexValue{0, 1})
	for c := 0; c < sys.Len(); c++ {
		row := D.Row(IndexValue{int32(i), int32(c)})
		if row < 0 {
			continue
		}
		if deltaCol >= 0 {
			D.SetValue(row, deltaCol, float64(d.Delta)+float64(i)+float64(c))
		}
		if xyzCol >= 0 {
			D.SetValue(row, xyzCol, positions.At(c, 0)+positions.At(c, 1)+positions.At(c, 2))
		}
	}
	if !D.HasGradients() {
		return nil
	}
	samples := D.GradientSamples()
	for g := 0; g < samples.Count(); g++ {
		v := samples.Value(g)
		if int(v[0]) != i {
			continue
		}
		if deltaCol >= 0 {
			D.SetGradientValue(g, deltaCol, 0)
		}
		if xyzCol >= 0 {
			D.SetGradientValue(g, xyzCol, 1)
		}
	}
	return nil
}
