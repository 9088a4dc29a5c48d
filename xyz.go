/*
 * xyz.go, part of godesc.
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
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//A map for assigning species codes (atomic numbers) to element symbols.
//Note that just common "bio-elements" are present.
var symbolCode = map[string]int32{
	"H":  1,
	"C":  6,
	"N":  7,
	"O":  8,
	"F":  9,
	"Na": 11,
	"Mg": 12,
	"Si": 14,
	"P":  15,
	"S":  16,
	"Cl": 17,
	"K":  19,
	"Ca": 20,
	"Cr": 24,
	"Mn": 25,
	"Fe": 26,
	"Co": 27,
	"Cu": 29,
	"Zn": 30,
	"Se": 34,
	"Br": 35,
	"I":  53,
}

//speciesCode resolves the first field of an XYZ atom line into a species
//code: either a known element symbol, or a literal integer code.
func speciesCode(field string) (int32, error) {
	if code, ok := symbolCode[field]; ok {
		return code, nil
	}
	code, err := strconv.Atoi(field)
	if err != nil {
		return 0, newError(StatusInvalidParameter, "unknown element symbol %q", field)
	}
	return int32(code), nil
}

//ReadXYZ reads every frame of an XYZ-formatted stream, returning one
//(non-periodic) SimpleSystem per frame. The comment line of each frame is
//ignored.
func ReadXYZ(r io.Reader) ([]*SimpleSystem, error) {
	xyz := bufio.NewReader(r)
	var systems []*SimpleSystem
	for {
		line, err := xyz.ReadString('\n')
		if strings.TrimSpace(line) == "" {
			if err != nil {
				break
			}
			continue //blank line between frames
		}
		if err != nil && err != io.EOF {
			return nil, newError(StatusUnknown, "reading XYZ: %s", err.Error())
		}
		natoms, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || natoms <= 0 {
			return nil, newError(StatusInvalidParameter, "ill formatted XYZ: bad atom count %q", strings.TrimSpace(line))
		}
		if _, err := xyz.ReadString('\n'); err != nil { //the comment line
			return nil, newError(StatusInvalidParameter, "ill formatted XYZ: truncated frame")
		}
		//the atom count is untrusted input, so the slices grow with the
		//lines actually read instead of being sized from it
		var species []int32
		var coords []float64
		for i := 0; i < natoms; i++ {
			line, err := xyz.ReadString('\n')
			if err != nil && err != io.EOF {
				return nil, newError(StatusUnknown, "reading XYZ: %s", err.Error())
			}
			fields := strings.Fields(line)
			if len(fields) < 4 {
				return nil, newError(StatusInvalidParameter, "ill formatted XYZ: atom line %d of frame %d", i, len(systems))
			}
			code, err := speciesCode(fields[0])
			if err != nil {
				return nil, errDecorate(err, "ReadXYZ")
			}
			species = append(species, code)
			for k := 0; k < 3; k++ {
				x, err := strconv.ParseFloat(fields[k+1], 64)
				if err != nil {
					return nil, newError(StatusInvalidParameter,
						"ill formatted XYZ: bad coordinate %q on atom line %d", fields[k+1], i)
				}
				coords = append(coords, x)
			}
		}
		sys, err := NewSimpleSystem(species, mat.NewDense(natoms, 3, coords), nil)
		if err != nil {
			return nil, errDecorate(err, "ReadXYZ")
		}
		systems = append(systems, sys)
	}
	if len(systems) == 0 {
		return nil, newError(StatusInvalidParameter, "no frames in XYZ input")
	}
	return systems, nil
}

//ReadXYZFile reads every frame of the named XYZ file.
func ReadXYZFile(name string) ([]*SimpleSystem, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, newError(StatusUnknown, "%s", err.Error())
	}
	defer f.Close()
	systems, err := ReadXYZ(f)
	if err != nil {
		return nil, errDecorate(err, "ReadXYZFile "+name)
	}
	return systems, nil
}
