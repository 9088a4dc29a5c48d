/*
 * sorteddistances.go, part of godesc.
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
	"sort"
	"strings"
)

//sortedDistances is the simplest real representation: each atom-centered
//environment is described by the sorted distances to its neighbors within
//the cutoff. Centers with fewer than MaxNeighbors neighbors are padded with
//the cutoff value, so all rows have the same width.
type sortedDistances struct {
	CutoffRadius float64 `json:"cutoff"`
	MaxNeighbors int     `json:"max_neighbors"`
}

func init() {
	RegisterCalculator("sorted_distances", newSortedDistances)
}

func newSortedDistances(parameters string) (Computer, error) {
	s := new(sortedDistances)
	dec := json.NewDecoder(strings.NewReader(parameters))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return nil, newError(StatusJSON, "sorted_distances parameters: %s", err.Error())
	}
	if s.CutoffRadius <= 0 || math.IsInf(s.CutoffRadius, 0) || math.IsNaN(s.CutoffRadius) {
		return nil, newError(StatusInvalidParameter,
			"sorted_distances cutoff must be positive and finite, got %f", s.CutoffRadius)
	}
	if s.MaxNeighbors <= 0 {
		return nil, newError(StatusInvalidParameter,
			"sorted_distances max_neighbors must be positive, got %d", s.MaxNeighbors)
	}
	return s, nil
}

func (s *sortedDistances) Cutoff() float64 { return s.CutoffRadius }

//Environments are atom-centered, tagged with the species of the center so
//descriptors can later be densified per species.
func (s *sortedDistances) Environments(systems []System) (*Indexes, error) {
	b, err := NewIndexesBuilder("structure", "center", "species_center")
	if err != nil {
		return nil, errDecorate(err, "Environments")
	}
	for i, sys := range systems {
		species := sys.Species()
		for c := 0; c < sys.Len(); c++ {
			if _, err := b.Add(IndexValue{int32(i), int32(c), species[c]}); err != nil {
				return nil, errDecorate(err, "Environments")
			}
		}
	}
	return b.Finish(), nil
}

func (s *sortedDistances) Features(systems []System) (*Indexes, error) {
	b, err := NewIndexesBuilder("neighbor")
	if err != nil {
		return nil, errDecorate(err, "Features")
	}
	for n := 0; n < s.MaxNeighbors; n++ {
		if _, err := b.Add(IndexValue{int32(n)}); err != nil {
			return nil, errDecorate(err, "Features")
		}
	}
	return b.Finish(), nil
}

//GradientSamples returns nil: gradients of sorted distances are not
//implemented.
func (s *sortedDistances) GradientSamples(systems []System, environments *Indexes) (*Indexes, error) {
	return nil, nil
}

func (s *sortedDistances) ComputeSystem(i int, sys System, D *Descriptor) error {
	species := sys.Species()
	distances := make([]float64, 0, s.MaxNeighbors)
	for c := 0; c < sys.Len(); c++ {
		row := D.Row(IndexValue{int32(i), int32(c), species[c]})
		if row < 0 {
			continue
		}
		distances = distances[:0]
		for _, p := range sys.PairsContaining(c) {
			v := p.Vector
			distances = append(distances, math.Sqrt(v[0]*v[0]+v[1]*v[1]+v[2]*v[2]))
		}
		sort.Float64s(distances)
		for n := 0; n < s.MaxNeighbors; n++ {
			col := D.Column(IndexValue{int32(n)})
			if col < 0 {
				continue
			}
			if n < len(distances) {
				D.SetValue(row, col, distances[n])
			} else {
				D.SetValue(row, col, s.CutoffRadius)
			}
		}
	}
	return nil
}
