/*
 * dsf.go, part of godesc.
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

//Package dsf implements the descriptor storage format: a compressed,
//line-oriented text serialization of a desc.Descriptor. Values are written
//with enough digits to round-trip bit-exactly. The compression is chosen
//from the file name: names ending in 'z' use gzip, in 'l' use lzw, anything
//else uses zstd.
package dsf

import (
	"bufio"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	desc "github.com/rmera/godesc"
)

const (
	lzwLitwidth int = 8
	magic           = "godesc dsf 1"
)

//Write serializes D into w, uncompressed. Most callers want WriteFile.
func Write(w io.Writer, D *desc.Descriptor) error {
	out := bufio.NewWriter(w)
	fmt.Fprintln(out, magic)
	writeIndexes(out, "environments", D.Environments())
	writeIndexes(out, "features", D.Features())
	r, c, _ := D.Values()
	fmt.Fprintf(out, "values %d %d\n", r, c)
	writeMatrix(out, D, false)
	if D.HasGradients() {
		writeIndexes(out, "gradients", D.GradientSamples())
		gr, gc, _ := D.Gradients()
		fmt.Fprintf(out, "gradvalues %d %d\n", gr, gc)
		writeMatrix(out, D, true)
	}
	fmt.Fprintln(out, "end")
	if err := out.Flush(); err != nil {
		return Error{err.Error(), "", []string{"Write"}, true}
	}
	return nil
}

func writeIndexes(out *bufio.Writer, label string, in *desc.Indexes) {
	fmt.Fprintf(out, "%s %d %d\n", label, in.Arity(), in.Count())
	fmt.Fprintln(out, strings.Join(in.Names(), " "))
	for i := 0; i < in.Count(); i++ {
		v := in.Value(i)
		for j, x := range v {
			if j > 0 {
				out.WriteByte(' ')
			}
			out.WriteString(strconv.FormatInt(int64(x), 10))
		}
		out.WriteByte('\n')
	}
}

func writeMatrix(out *bufio.Writer, D *desc.Descriptor, gradients bool) {
	r, c, view := D.Values()
	if gradients {
		r, c, view = D.Gradients()
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if j > 0 {
				out.WriteByte(' ')
			}
			out.WriteString(strconv.FormatFloat(view.At(i, j), 'g', -1, 64))
		}
		out.WriteByte('\n')
	}
}

//Read deserializes a Descriptor from an uncompressed dsf stream.
func Read(r io.Reader) (*desc.Descriptor, error) {
	in := bufio.NewReader(r)
	line, err := readLine(in)
	if err != nil || line != magic {
		return nil, Error{WrongFormat, "", []string{"Read"}, true}
	}
	envs, err := readIndexes(in, "environments")
	if err != nil {
		return nil, errDecorate(err, "Read")
	}
	feats, err := readIndexes(in, "features")
	if err != nil {
		return nil, errDecorate(err, "Read")
	}
	vr, vc, err := readDims(in, "values")
	if err != nil {
		return nil, errDecorate(err, "Read")
	}
	if vr != envs.Count() || vc != feats.Count() {
		return nil, Error{WrongFormat, "", []string{"Read"}, true}
	}
	data, err := readMatrix(in, vr, vc)
	if err != nil {
		return nil, errDecorate(err, "Read")
	}
	D, err := desc.NewDescriptor(envs, feats, data)
	if err != nil {
		return nil, errDecorate(err, "Read")
	}
	line, err = readLine(in)
	if err != nil {
		return nil, Error{WrongFormat, "", []string{"Read"}, true}
	}
	if line == "end" {
		return D, nil
	}
	//gradients section: the line just read is its header
	samples, err := readIndexesHeader(in, line, "gradients")
	if err != nil {
		return nil, errDecorate(err, "Read")
	}
	gr, gc, err := readDims(in, "gradvalues")
	if err != nil {
		return nil, errDecorate(err, "Read")
	}
	if gr != samples.Count() || gc != feats.Count() {
		return nil, Error{WrongFormat, "", []string{"Read"}, true}
	}
	gdata, err := readMatrix(in, gr, gc)
	if err != nil {
		return nil, errDecorate(err, "Read")
	}
	if err := D.SetGradients(samples, gdata); err != nil {
		return nil, errDecorate(err, "Read")
	}
	if line, err = readLine(in); err != nil || line != "end" {
		return nil, Error{WrongFormat, "", []string{"Read"}, true}
	}
	return D, nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", Error{err.Error(), "", nil, true}
	}
	return strings.TrimSpace(line), nil
}

func readDims(in *bufio.Reader, label string) (int, int, error) {
	line, err := readLine(in)
	if err != nil {
		return 0, 0, err
	}
	return parseDims(line, label)
}

func parseDims(line, label string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != label {
		return 0, 0, Error{WrongFormat + ": expected " + label + " section", "", nil, true}
	}
	a, err1 := strconv.Atoi(fields[1])
	b, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || a < 0 || b < 0 {
		return 0, 0, Error{WrongFormat + ": bad " + label + " dimensions", "", nil, true}
	}
	return a, b, nil
}

func readIndexes(in *bufio.Reader, label string) (*desc.Indexes, error) {
	line, err := readLine(in)
	if err != nil {
		return nil, err
	}
	return readIndexesHeader(in, line, label)
}

func readIndexesHeader(in *bufio.Reader, header, label string) (*desc.Indexes, error) {
	arity, count, err := parseDims(header, label)
	if err != nil {
		return nil, err
	}
	line, err := readLine(in)
	if err != nil {
		return nil, err
	}
	names := strings.Fields(line)
	if len(names) != arity {
		return nil, Error{WrongFormat + ": wrong number of " + label + " names", "", nil, true}
	}
	b, err := desc.NewIndexesBuilder(names...)
	if err != nil {
		return nil, errDecorate(err, "readIndexes")
	}
	v := make(desc.IndexValue, arity)
	for i := 0; i < count; i++ {
		line, err := readLine(in)
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) != arity {
			return nil, Error{WrongFormat + ": bad tuple in " + label, "", nil, true}
		}
		for j, f := range fields {
			x, err := strconv.ParseInt(f, 10, 32)
			if err != nil {
				return nil, Error{WrongFormat + ": bad integer " + f, "", nil, true}
			}
			v[j] = int32(x)
		}
		added, err := b.Add(v)
		if err != nil {
			return nil, errDecorate(err, "readIndexes")
		}
		if !added {
			return nil, Error{WrongFormat + ": duplicated tuple in " + label, "", nil, true}
		}
	}
	return b.Finish(), nil
}

func readMatrix(in *bufio.Reader, rows, cols int) ([]float64, error) {
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		line, err := readLine(in)
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) != cols {
			return nil, Error{WrongFormat + ": wrong number of columns", "", nil, true}
		}
		for _, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, Error{WrongFormat + ": bad float " + f, "", nil, true}
			}
			data = append(data, x)
		}
	}
	return data, nil
}

//WriteFile stores D in the named file, compressed according to the file
//name's last character ('z' gzip, 'l' lzw, zstd otherwise).
func WriteFile(name string, D *desc.Descriptor) error {
	f, err := os.Create(name)
	if err != nil {
		return Error{UnableToOpen + ": " + err.Error(), name, []string{"WriteFile"}, true}
	}
	defer f.Close()
	h, err := newCompressor(f, name)
	if err != nil {
		return errDecorate(err, "WriteFile")
	}
	if err := Write(h, D); err != nil {
		h.Close()
		return errDecorate(err, "WriteFile "+name)
	}
	if err := h.Close(); err != nil {
		return Error{err.Error(), name, []string{"WriteFile"}, true}
	}
	return nil
}

//ReadFile reads a Descriptor back from the named file, with the same
//name-based compression choice as WriteFile.
func ReadFile(name string) (*desc.Descriptor, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"ReadFile"}, true}
	}
	defer f.Close()
	h, err := newDecompressor(f, name)
	if err != nil {
		return nil, errDecorate(err, "ReadFile")
	}
	defer h.Close()
	D, err := Read(h)
	if err != nil {
		return nil, errDecorate(err, "ReadFile "+name)
	}
	return D, nil
}

func newCompressor(w io.Writer, name string) (io.WriteCloser, error) {
	var h io.WriteCloser
	var err error
	switch format(name) {
	case 'z':
		h = gzip.NewWriter(w)
	case 'l':
		h = lzw.NewWriter(w, lzw.MSB, lzwLitwidth)
	default:
		h, err = zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	if err != nil {
		return nil, Error{err.Error(), name, []string{"newCompressor"}, true}
	}
	return h, nil
}

func newDecompressor(r io.Reader, name string) (io.ReadCloser, error) {
	switch format(name) {
	case 'z':
		h, err := gzip.NewReader(r)
		if err != nil {
			return nil, Error{err.Error(), name, []string{"newDecompressor"}, true}
		}
		return h, nil
	case 'l':
		return lzw.NewReader(r, lzw.MSB, lzwLitwidth), nil
	default:
		h, err := zstd.NewReader(r)
		if err != nil {
			return nil, Error{err.Error(), name, []string{"newDecompressor"}, true}
		}
		return h.IOReadCloser(), nil
	}
}

func format(name string) byte {
	if name == "" {
		return 0
	}
	return strings.ToLower(name)[len(name)-1]
}

//Errors

//errDecorate is a helper function that asserts that the error implements
//desc.Error and decorates it with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(desc.Error)
	if !ok {
		return Error{err.Error(), "", []string{caller}, true}
	}
	err2.Decorate(caller)
	return err2
}

//Error is the general structure for dsf errors. It fulfills desc.Error.
type Error struct {
	message  string
	filename string //the file with problems, or an empty string if none
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("dsf file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error, and returns the decoration
//so far.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Status classifies dsf errors as malformed structured data.
func (err Error) Status() desc.Status { return desc.StatusJSON }

//FileName returns the file associated to the error, if any.
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	UnableToOpen = "Unable to open file"
	WrongFormat  = "Wrong format in the DSF file"
)
