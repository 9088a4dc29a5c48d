/*
 * xyz_test.go, part of godesc.
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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waterXYZ = `3
water
O 0.000 0.000 0.117
H 0.000 0.757 -0.471
H 0.000 -0.757 -0.471

2
second frame, literal species codes
1 0.0 0.0 0.0
8 1.0 0.0 0.0
`

func TestReadXYZ(Te *testing.T) {
	systems, err := ReadXYZ(strings.NewReader(waterXYZ))
	require.NoError(Te, err)
	require.Len(Te, systems, 2)

	water := systems[0]
	assert.Equal(Te, 3, water.Len())
	assert.Equal(Te, []int32{8, 1, 1}, water.Species())
	assert.Equal(Te, 0.757, water.Positions().At(1, 1))
	assert.Equal(Te, -0.471, water.Positions().At(2, 2))

	second := systems[1]
	assert.Equal(Te, []int32{1, 8}, second.Species())
	assert.Equal(Te, 1.0, second.Positions().At(1, 0))
}

func TestReadXYZErrors(Te *testing.T) {
	_, err := ReadXYZ(strings.NewReader(""))
	require.Error(Te, err)

	_, err = ReadXYZ(strings.NewReader("not a number\ncomment\n"))
	require.Error(Te, err)
	assert.Equal(Te, StatusInvalidParameter, StatusOf(err))

	//truncated frame
	_, err = ReadXYZ(strings.NewReader("3\ncomment\nH 0 0 0\n"))
	require.Error(Te, err)

	//negative and zero atom counts are rejected, never allocated
	_, err = ReadXYZ(strings.NewReader("-3\ncomment\n"))
	require.Error(Te, err)
	assert.Equal(Te, StatusInvalidParameter, StatusOf(err))
	_, err = ReadXYZ(strings.NewReader("0\ncomment\n"))
	require.Error(Te, err)
	assert.Equal(Te, StatusInvalidParameter, StatusOf(err))

	//an absurd count just runs out of atom lines
	_, err = ReadXYZ(strings.NewReader("999999999999\ncomment\nH 0 0 0\n"))
	require.Error(Te, err)
	assert.Equal(Te, StatusInvalidParameter, StatusOf(err))

	//unknown symbol that is not an integer either
	_, err = ReadXYZ(strings.NewReader("1\ncomment\nXx 0 0 0\n"))
	require.Error(Te, err)
	assert.Equal(Te, StatusInvalidParameter, StatusOf(err))

	//bad coordinate
	_, err = ReadXYZ(strings.NewReader("1\ncomment\nH 0 zero 0\n"))
	require.Error(Te, err)
	assert.Equal(Te, StatusInvalidParameter, StatusOf(err))
}

func TestReadXYZComputes(Te *testing.T) {
	//XYZ frames feed straight into a calculator
	systems, err := ReadXYZ(strings.NewReader(waterXYZ))
	require.NoError(Te, err)
	c, err := NewCalculator("sorted_distances", `{"cutoff":2.0,"max_neighbors":2}`)
	require.NoError(Te, err)
	D, err := c.Compute([]System{systems[0], systems[1]}, nil)
	require.NoError(Te, err)
	assert.Equal(Te, 5, D.Environments().Count())
}
