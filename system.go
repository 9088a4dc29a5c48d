/*
 * system.go, part of godesc.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//A Pair is one entry of a neighbor list: an unordered pair of atom indexes,
//plus the minimum-image displacement vector from the first atom to the
//second. A Pair is only meaningful for distances below the cutoff of the last
//ComputeNeighbors call that produced it.
type Pair struct {
	First  int
	Second int
	Vector [3]float64
}

//A System gives the library access to one atomic structure owned by the
//caller: the library holds the reference only for the duration of one
//Compute call, and never calls into the same System from two goroutines at
//once. Implementations must uphold the neighbor-list contract documented on
//each method; violations abort the computation with an error.
//
//Slices returned by Species, Pairs and PairsContaining, and the matrices
//returned by Positions and Cell, are borrowed: they stay valid only until
//the next ComputeNeighbors call on the same System.
type System interface {
	//Len returns the number of atoms in the system.
	Len() int
	//Species returns the species code of each atom. Codes only need to
	//distinguish species; they are often atomic numbers, but don't have
	//to be.
	Species() []int32
	//Positions returns the cartesian coordinates of the atoms as an
	//Nx3 matrix, one row per atom.
	Positions() *mat.Dense
	//Cell returns the unit cell as a 3x3 matrix with the cell vectors as
	//rows. An all-zero matrix means the system is not periodic.
	Cell() *mat.Dense
	//ComputeNeighbors computes the neighbor list for the given cutoff and
	//stores it for the pair queries below. A later call with a different
	//cutoff replaces the previous list.
	ComputeNeighbors(cutoff float64) error
	//Pairs returns all pairs with minimum-image distance strictly below
	//the last-requested cutoff. Each unordered pair appears at most once
	//(never both i-j and j-i), and never as a self pair. Only valid after
	//ComputeNeighbors.
	Pairs() []Pair
	//PairsContaining returns exactly the subset of Pairs() in which center
	//is either endpoint.
	PairsContaining(center int) []Pair
}

//SimpleSystem is the native in-memory System: species, positions and cell
//held directly, with an all-pairs minimum-image neighbor list. It is both
//the reference implementation of the System contract and the target of the
//native-copy performance hint of Calculator.Compute.
type SimpleSystem struct {
	species   []int32
	positions *mat.Dense
	cell      *mat.Dense
	periodic  bool
	computed  bool
	cutoff    float64
	pairs     []Pair
	byCenter  [][]Pair
}

//NewSimpleSystem builds a SimpleSystem over the given data. positions must
//be an Nx3 matrix with N == len(species); cell must be 3x3, or nil for a
//non-periodic system. The species slice and the matrices are borrowed, not
//copied.
func NewSimpleSystem(species []int32, positions *mat.Dense, cell *mat.Dense) (*SimpleSystem, error) {
	r, c := positions.Dims()
	if c != 3 {
		return nil, newError(StatusInvalidParameter, "positions must be an Nx3 matrix, got %dx%d", r, c)
	}
	if r != len(species) {
		return nil, newError(StatusInvalidParameter,
			"%d species given for %d positions", len(species), r)
	}
	periodic := false
	if cell != nil {
		cr, cc := cell.Dims()
		if cr != 3 || cc != 3 {
			return nil, newError(StatusInvalidParameter, "cell must be a 3x3 matrix, got %dx%d", cr, cc)
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if cell.At(i, j) != 0 {
					periodic = true
				}
			}
		}
	}
	if cell == nil {
		cell = mat.NewDense(3, 3, nil)
	}
	return &SimpleSystem{species: species, positions: positions, cell: cell, periodic: periodic}, nil
}

//CopySystem deep-copies any System into a SimpleSystem. Calculators use it
//when the caller asks for a native copy, so later queries don't go through
//the caller's implementation over and over.
func CopySystem(sys System) (*SimpleSystem, error) {
	n := sys.Len()
	species := make([]int32, n)
	copy(species, sys.Species())
	positions := mat.NewDense(n, 3, nil)
	positions.Copy(sys.Positions())
	cell := mat.NewDense(3, 3, nil)
	cell.Copy(sys.Cell())
	return NewSimpleSystem(species, positions, cell)
}

//Len returns the number of atoms.
func (S *SimpleSystem) Len() int { return len(S.species) }

//Species returns the species codes, borrowed.
func (S *SimpleSystem) Species() []int32 { return S.species }

//Positions returns the Nx3 coordinates, borrowed.
func (S *SimpleSystem) Positions() *mat.Dense { return S.positions }

//Cell returns the 3x3 cell matrix, borrowed. All-zero means non-periodic.
func (S *SimpleSystem) Cell() *mat.Dense { return S.cell }

//vector returns the minimum-image displacement from atom i to atom j.
func (S *SimpleSystem) vector(inv *mat.Dense, i, j int) [3]float64 {
	var d [3]float64
	for k := 0; k < 3; k++ {
		d[k] = S.positions.At(j, k) - S.positions.At(i, k)
	}
	if !S.periodic {
		return d
	}
	//fractional coordinates, wrapped to the closest image
	var f [3]float64
	for k := 0; k < 3; k++ {
		f[k] = d[0]*inv.At(0, k) + d[1]*inv.At(1, k) + d[2]*inv.At(2, k)
		f[k] -= math.Round(f[k])
	}
	for k := 0; k < 3; k++ {
		d[k] = f[0]*S.cell.At(0, k) + f[1]*S.cell.At(1, k) + f[2]*S.cell.At(2, k)
	}
	return d
}

//ComputeNeighbors builds the all-pairs neighbor list for the given cutoff,
//replacing any previously computed list.
func (S *SimpleSystem) ComputeNeighbors(cutoff float64) error {
	if cutoff <= 0 || math.IsInf(cutoff, 0) || math.IsNaN(cutoff) {
		return newError(StatusInvalidParameter, "cutoff must be positive and finite, got %f", cutoff)
	}
	var inv *mat.Dense
	if S.periodic {
		inv = mat.NewDense(3, 3, nil)
		if err := inv.Inverse(S.cell); err != nil {
			return newError(StatusInvalidParameter, "singular unit cell: %s", err.Error())
		}
	}
	n := S.Len()
	S.pairs = nil
	S.byCenter = make([][]Pair, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := S.vector(inv, i, j)
			if math.Sqrt(d[0]*d[0]+d[1]*d[1]+d[2]*d[2]) < cutoff {
				p := Pair{First: i, Second: j, Vector: d}
				S.pairs = append(S.pairs, p)
				S.byCenter[i] = append(S.byCenter[i], p)
				S.byCenter[j] = append(S.byCenter[j], p)
			}
		}
	}
	S.cutoff = cutoff
	S.computed = true
	return nil
}

//Pairs returns the last computed neighbor list, borrowed. Panics if
//ComputeNeighbors was never called, as that is a programming error.
func (S *SimpleSystem) Pairs() []Pair {
	if !S.computed {
		panic("SimpleSystem: Pairs called before ComputeNeighbors")
	}
	return S.pairs
}

//PairsContaining returns the pairs in which center is either endpoint,
//borrowed. Panics if ComputeNeighbors was never called or center is out
//of range.
func (S *SimpleSystem) PairsContaining(center int) []Pair {
	if !S.computed {
		panic("SimpleSystem: PairsContaining called before ComputeNeighbors")
	}
	if center < 0 || center >= S.Len() {
		panic("SimpleSystem: center out of range")
	}
	return S.byCenter[center]
}

//checkPairs validates the System neighbor-list contract on the full pair
//list: indexes in range, no self pairs, each unordered pair at most once,
//and every stored displacement strictly below the cutoff. Calculators run it
//after ComputeNeighbors so that a misbehaving caller implementation aborts
//the computation instead of producing a partially-correct descriptor.
func checkPairs(sys System, cutoff float64) error {
	n := sys.Len()
	seen := make(map[[2]int]bool)
	for _, p := range sys.Pairs() {
		if p.First < 0 || p.First >= n || p.Second < 0 || p.Second >= n {
			return newError(StatusInvalidParameter,
				"pair %d-%d out of range for a system of %d atoms", p.First, p.Second, n)
		}
		if p.First == p.Second {
			return newError(StatusInvalidParameter, "self pair %d-%d in neighbor list", p.First, p.Second)
		}
		k := [2]int{p.First, p.Second}
		if p.Second < p.First {
			k = [2]int{p.Second, p.First}
		}
		if seen[k] {
			return newError(StatusInvalidParameter,
				"pair %d-%d appears more than once in neighbor list", p.First, p.Second)
		}
		seen[k] = true
		v := p.Vector
		if math.Sqrt(v[0]*v[0]+v[1]*v[1]+v[2]*v[2]) >= cutoff {
			return newError(StatusInvalidParameter,
				"pair %d-%d is beyond the requested cutoff %f", p.First, p.Second, cutoff)
		}
	}
	return nil
}
