/*
 * dsf_test.go, part of godesc.
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

package dsf

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	desc "github.com/rmera/godesc"
)

func testIndexes(Te *testing.T, names []string, tuples ...desc.IndexValue) *desc.Indexes {
	b, err := desc.NewIndexesBuilder(names...)
	require.NoError(Te, err)
	for _, v := range tuples {
		_, err := b.Add(v)
		require.NoError(Te, err)
	}
	return b.Finish()
}

//testDescriptor builds a small descriptor with awkward values that only
//survive a round trip if the full float64 precision is kept.
func testDescriptor(Te *testing.T, gradients bool) *desc.Descriptor {
	envs := testIndexes(Te, []string{"structure", "center"},
		desc.IndexValue{0, 0}, desc.IndexValue{0, 1}, desc.IndexValue{1, 0})
	feats := testIndexes(Te, []string{"neighbor"},
		desc.IndexValue{0}, desc.IndexValue{1})
	D, err := desc.NewDescriptor(envs, feats, []float64{
		1.0 / 3.0, math.Pi,
		-2.5e-17, 0,
		6.02214076e23, 1e-300,
	})
	require.NoError(Te, err)
	if gradients {
		samples := testIndexes(Te, []string{"structure", "center", "spatial"},
			desc.IndexValue{0, 0, 0}, desc.IndexValue{0, 0, 1})
		require.NoError(Te, D.SetGradients(samples, []float64{
			math.Sqrt2, -1.0 / 7.0,
			0, 42,
		}))
	}
	return D
}

func assertEqualDescriptors(Te *testing.T, want, got *desc.Descriptor) {
	require.True(Te, want.Environments().Equal(got.Environments()))
	require.True(Te, want.Features().Equal(got.Features()))
	wr, wc, wview := want.Values()
	gr, gc, gview := got.Values()
	require.Equal(Te, wr, gr)
	require.Equal(Te, wc, gc)
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			assert.Equal(Te, wview.At(i, j), gview.At(i, j)) //bit-exact
		}
	}
	require.Equal(Te, want.HasGradients(), got.HasGradients())
	if !want.HasGradients() {
		return
	}
	require.True(Te, want.GradientSamples().Equal(got.GradientSamples()))
	wr, wc, wview = want.Gradients()
	_, _, gview = got.Gradients()
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			assert.Equal(Te, wview.At(i, j), gview.At(i, j))
		}
	}
}

func TestRoundTrip(Te *testing.T) {
	D := testDescriptor(Te, false)
	var buf bytes.Buffer
	require.NoError(Te, Write(&buf, D))
	got, err := Read(&buf)
	require.NoError(Te, err)
	assertEqualDescriptors(Te, D, got)
}

func TestRoundTripGradients(Te *testing.T) {
	D := testDescriptor(Te, true)
	var buf bytes.Buffer
	require.NoError(Te, Write(&buf, D))
	got, err := Read(&buf)
	require.NoError(Te, err)
	assertEqualDescriptors(Te, D, got)
}

func TestFileRoundTrip(Te *testing.T) {
	D := testDescriptor(Te, true)
	dir := Te.TempDir()
	//default zstd, gzip and lzw, chosen from the last character of the name
	for _, name := range []string{"test.dsf", "test.dsf.z", "test.dsf.l"} {
		path := filepath.Join(dir, name)
		require.NoError(Te, WriteFile(path, D))
		got, err := ReadFile(path)
		require.NoError(Te, err, "file %s", name)
		assertEqualDescriptors(Te, D, got)
	}
}

func TestReadErrors(Te *testing.T) {
	_, err := Read(strings.NewReader("not a dsf file\n"))
	require.Error(Te, err)
	assert.Equal(Te, desc.StatusJSON, desc.StatusOf(err))

	//truncated after the header
	_, err = Read(strings.NewReader("godesc dsf 1\n"))
	require.Error(Te, err)

	//dimensions disagree with the index counts
	bad := "godesc dsf 1\n" +
		"environments 1 1\ns\n0\n" +
		"features 1 1\nn\n0\n" +
		"values 2 1\n1\n2\nend\n"
	_, err = Read(strings.NewReader(bad))
	require.Error(Te, err)

	//a duplicated tuple in a section is a format error
	dup := "godesc dsf 1\n" +
		"environments 1 2\ns\n0\n0\n" +
		"features 1 1\nn\n0\n" +
		"values 2 1\n1\n2\nend\n"
	_, err = Read(strings.NewReader(dup))
	require.Error(Te, err)
}

func TestReadFileMissing(Te *testing.T) {
	_, err := ReadFile(filepath.Join(Te.TempDir(), "nope.dsf"))
	require.Error(Te, err)
	var dsfErr Error
	require.ErrorAs(Te, err, &dsfErr)
	assert.True(Te, dsfErr.Critical())
	assert.Contains(Te, dsfErr.Error(), UnableToOpen)
}
