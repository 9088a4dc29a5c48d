/*
 * indexes.go, part of godesc.
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
	"strconv"
	"strings"
	"unicode/utf8"
)

//An IndexValue is one entry in an Indexes set: a tuple of integers, one per
//named variable of the set.
type IndexValue []int32

//Equal returns whether both tuples have the same arity and components.
func (v IndexValue) Equal(w IndexValue) bool {
	if len(v) != len(w) {
		return false
	}
	for i := range v {
		if v[i] != w[i] {
			return false
		}
	}
	return true
}

//Copy returns a new tuple with the same components as the receiver.
func (v IndexValue) Copy() IndexValue {
	w := make(IndexValue, len(v))
	copy(w, v)
	return w
}

//key builds the map key used to enforce uniqueness and for position lookups.
func (v IndexValue) key() string {
	var b strings.Builder
	for i, x := range v {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(strconv.FormatInt(int64(x), 10))
	}
	return b.String()
}

//Indexes is an ordered set of unique IndexValue tuples, labeled by variable
//names. It labels one axis (environments, features or gradient samples) of a
//Descriptor: the i-th tuple describes the i-th row or column of the matrix.
//Insertion order is preserved and meaningful. A finished Indexes is never
//mutated; a nil *Indexes behaves as an empty set with no names.
type Indexes struct {
	names     []string
	values    []IndexValue
	positions map[string]int
}

//Names returns the variable names of the set. The slice is borrowed: callers
//must not modify it.
func (in *Indexes) Names() []string {
	if in == nil {
		return nil
	}
	return in.names
}

//Arity returns the number of variables, i.e. the length of every tuple.
func (in *Indexes) Arity() int {
	if in == nil {
		return 0
	}
	return len(in.names)
}

//Count returns the number of tuples in the set.
func (in *Indexes) Count() int {
	if in == nil {
		return 0
	}
	return len(in.values)
}

//Value returns the i-th tuple. The tuple is borrowed: callers must not
//modify it. Panics if out of range, as that is a programming error.
func (in *Indexes) Value(i int) IndexValue {
	if i < 0 || i >= len(in.values) {
		panic("Indexes: requested value out of bounds")
	}
	return in.values[i]
}

//Position returns the position of the given tuple in the set, and whether
//it is present at all.
func (in *Indexes) Position(v IndexValue) (int, bool) {
	if in == nil {
		return 0, false
	}
	i, ok := in.positions[v.key()]
	return i, ok
}

//Contains returns whether the given tuple is in the set.
func (in *Indexes) Contains(v IndexValue) bool {
	_, ok := in.Position(v)
	return ok
}

//NameIndex returns the position of a variable name in the set, or -1 if the
//set has no variable with that name.
func (in *Indexes) NameIndex(name string) int {
	if in == nil {
		return -1
	}
	for i, n := range in.names {
		if n == name {
			return i
		}
	}
	return -1
}

//Equal returns whether both sets have the same names, in the same order, and
//the same tuples, in the same order.
func (in *Indexes) Equal(other *Indexes) bool {
	if in.Count() != other.Count() || in.Arity() != other.Arity() {
		return false
	}
	for i, n := range in.Names() {
		if other.Names()[i] != n {
			return false
		}
	}
	for i, v := range in.values {
		if !v.Equal(other.values[i]) {
			return false
		}
	}
	return true
}

//An IndexesBuilder accumulates tuples for an Indexes set, silently skipping
//duplicates, so that insertion order of distinct tuples is preserved.
type IndexesBuilder struct {
	names     []string
	values    []IndexValue
	positions map[string]int
}

//NewIndexesBuilder prepares a builder for tuples with the given variable
//names. Names must be non-empty, valid UTF8, and mutually distinct.
func NewIndexesBuilder(names ...string) (*IndexesBuilder, error) {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return nil, newError(StatusInvalidParameter, "empty variable name in Indexes")
		}
		if !utf8.ValidString(n) {
			return nil, newError(StatusUTF8, "variable name %q is not valid UTF8", n)
		}
		if seen[n] {
			return nil, newError(StatusInvalidParameter, "duplicated variable name %q in Indexes", n)
		}
		seen[n] = true
	}
	b := new(IndexesBuilder)
	b.names = append([]string{}, names...)
	b.positions = make(map[string]int)
	return b, nil
}

//Add inserts a tuple at the end of the set, unless an equal tuple is already
//present, in which case it does nothing and returns false. The tuple is
//copied, so the caller keeps ownership of v. It returns an error if the
//tuple's arity doesn't match the builder's names.
func (b *IndexesBuilder) Add(v IndexValue) (bool, error) {
	if len(v) != len(b.names) {
		return false, newError(StatusInvalidParameter,
			"tuple %v has %d components, but this Indexes has %d variables", v, len(v), len(b.names))
	}
	k := v.key()
	if _, dup := b.positions[k]; dup {
		return false, nil
	}
	b.positions[k] = len(b.values)
	b.values = append(b.values, v.Copy())
	return true, nil
}

//Finish returns the built Indexes. The builder must not be used afterwards.
func (b *IndexesBuilder) Finish() *Indexes {
	in := &Indexes{names: b.names, values: b.values, positions: b.positions}
	b.values = nil
	b.positions = nil
	return in
}

//FlatIndexes builds an Indexes from a flat numeric buffer, as handed over by
//non-Go callers: the buffer is read as consecutive tuples of len(names)
//components each. Its length must be an exact multiple of the arity, and
//every component must hold an integral value.
func FlatIndexes(names []string, data []float64) (*Indexes, error) {
	b, err := NewIndexesBuilder(names...)
	if err != nil {
		return nil, errDecorate(err, "FlatIndexes")
	}
	arity := len(names)
	if arity == 0 || len(data)%arity != 0 {
		return nil, newError(StatusInvalidParameter,
			"flat buffer of %d values is not a whole number of %d-component tuples", len(data), arity)
	}
	v := make(IndexValue, arity)
	for i := 0; i < len(data); i += arity {
		for j := 0; j < arity; j++ {
			x := data[i+j]
			v[j] = int32(x)
			if float64(v[j]) != x {
				return nil, newError(StatusInvalidParameter,
					"flat buffer component %f is not an integer", x)
			}
		}
		if _, err := b.Add(v); err != nil {
			return nil, errDecorate(err, "FlatIndexes")
		}
	}
	return b.Finish(), nil
}
