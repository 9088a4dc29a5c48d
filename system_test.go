/*
 * system_test.go, part of godesc.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

//chainSystem returns a non-periodic linear chain of n atoms, 1.0 apart
//along x.
func chainSystem(Te *testing.T, n int) *SimpleSystem {
	species := make([]int32, n)
	coords := make([]float64, n*3)
	for i := 0; i < n; i++ {
		species[i] = 1
		coords[i*3] = float64(i)
	}
	sys, err := NewSimpleSystem(species, mat.NewDense(n, 3, coords), nil)
	require.NoError(Te, err)
	return sys
}

func pairKey(p Pair) [2]int {
	if p.Second < p.First {
		return [2]int{p.Second, p.First}
	}
	return [2]int{p.First, p.Second}
}

func TestPairSymmetry(Te *testing.T) {
	sys := chainSystem(Te, 4)
	require.NoError(Te, sys.ComputeNeighbors(1.5))
	pairs := sys.Pairs()
	require.NotEmpty(Te, pairs)

	containing := make(map[int]map[[2]int]bool)
	for c := 0; c < sys.Len(); c++ {
		containing[c] = make(map[[2]int]bool)
		for _, p := range sys.PairsContaining(c) {
			containing[c][pairKey(p)] = true
		}
	}
	for _, p := range pairs {
		k := pairKey(p)
		for c := 0; c < sys.Len(); c++ {
			if c == p.First || c == p.Second {
				assert.True(Te, containing[c][k], "pair %v missing from PairsContaining(%d)", p, c)
			} else {
				assert.False(Te, containing[c][k], "pair %v wrongly in PairsContaining(%d)", p, c)
			}
		}
	}
}

func TestNoDuplicateOrSelfPairs(Te *testing.T) {
	sys := chainSystem(Te, 5)
	require.NoError(Te, sys.ComputeNeighbors(2.5))
	seen := make(map[[2]int]bool)
	for _, p := range sys.Pairs() {
		assert.NotEqual(Te, p.First, p.Second)
		k := pairKey(p)
		assert.False(Te, seen[k], "pair %v appears twice", p)
		seen[k] = true
	}
	//chain of 5 with cutoff 2.5: 4 nearest + 3 next-nearest neighbors
	assert.Equal(Te, 7, len(sys.Pairs()))
}

func TestPeriodicMinimumImage(Te *testing.T) {
	species := []int32{1, 1}
	coords := mat.NewDense(2, 3, []float64{
		0.5, 0, 0,
		3.5, 0, 0,
	})
	cell := mat.NewDense(3, 3, []float64{
		4, 0, 0,
		0, 4, 0,
		0, 0, 4,
	})
	sys, err := NewSimpleSystem(species, coords, cell)
	require.NoError(Te, err)
	require.NoError(Te, sys.ComputeNeighbors(1.5))

	pairs := sys.Pairs()
	require.Len(Te, pairs, 1)
	//across the boundary: the image of atom 1 at x=-0.5 is the closest
	assert.InDelta(Te, -1.0, pairs[0].Vector[0], 1e-12)
	assert.InDelta(Te, 0.0, pairs[0].Vector[1], 1e-12)
	assert.InDelta(Te, 0.0, pairs[0].Vector[2], 1e-12)

	//the same positions without a cell are 3.0 apart
	free, err := NewSimpleSystem(species, coords, nil)
	require.NoError(Te, err)
	require.NoError(Te, free.ComputeNeighbors(1.5))
	assert.Empty(Te, free.Pairs())
}

func TestLastCutoffWins(Te *testing.T) {
	sys := chainSystem(Te, 4)
	require.NoError(Te, sys.ComputeNeighbors(2.5))
	assert.Equal(Te, 5, len(sys.Pairs()))
	require.NoError(Te, sys.ComputeNeighbors(1.5))
	assert.Equal(Te, 3, len(sys.Pairs()))

	require.Error(Te, sys.ComputeNeighbors(0))
	require.Error(Te, sys.ComputeNeighbors(math.Inf(1)))
}

func TestNewSimpleSystemValidation(Te *testing.T) {
	_, err := NewSimpleSystem([]int32{1}, mat.NewDense(1, 2, nil), nil)
	require.Error(Te, err)
	assert.Equal(Te, StatusInvalidParameter, StatusOf(err))

	_, err = NewSimpleSystem([]int32{1, 1}, mat.NewDense(1, 3, nil), nil)
	require.Error(Te, err)

	_, err = NewSimpleSystem([]int32{1}, mat.NewDense(1, 3, nil), mat.NewDense(2, 2, nil))
	require.Error(Te, err)
}

func TestCopySystem(Te *testing.T) {
	sys := chainSystem(Te, 3)
	cp, err := CopySystem(sys)
	require.NoError(Te, err)
	assert.Equal(Te, sys.Len(), cp.Len())
	assert.Equal(Te, sys.Species(), cp.Species())
	assert.True(Te, mat.Equal(sys.Positions(), cp.Positions()))
	//the copy is independent
	cp.Positions().Set(0, 0, 42)
	assert.Equal(Te, 0.0, sys.Positions().At(0, 0))
}

//misbehavingSystem violates the neighbor-list contract by reporting each
//pair twice.
type misbehavingSystem struct {
	*SimpleSystem
}

func (m *misbehavingSystem) Pairs() []Pair {
	good := m.SimpleSystem.Pairs()
	return append(append([]Pair{}, good...), good...)
}

func TestCheckPairs(Te *testing.T) {
	sys := chainSystem(Te, 3)
	require.NoError(Te, sys.ComputeNeighbors(1.5))
	require.NoError(Te, checkPairs(sys, 1.5))

	bad := &misbehavingSystem{sys}
	err := checkPairs(bad, 1.5)
	require.Error(Te, err)
	assert.Equal(Te, StatusInvalidParameter, StatusOf(err))

	//a stored displacement at or beyond the cutoff is also a violation
	require.NoError(Te, sys.ComputeNeighbors(1.5))
	err = checkPairs(sys, 0.5)
	require.Error(Te, err)
}
