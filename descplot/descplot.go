/*
 * descplot.go, part of godesc.
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

//Package descplot draws descriptors (uses the gonum plot library).
package descplot

import (
	"fmt"

	desc "github.com/rmera/godesc"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

//FeaturePlot draws the given feature columns of D, one line each, across the
//environment rows, and saves the plot as a PNG file. A nil columns slice
//plots every column.
func FeaturePlot(D *desc.Descriptor, columns []int, title, filename string) error {
	rows, cols, view := D.Values()
	if view == nil {
		return fmt.Errorf("descplot: empty descriptor")
	}
	if columns == nil {
		columns = make([]int, cols)
		for j := range columns {
			columns[j] = j
		}
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "environment"
	p.Y.Label.Text = "value"
	p.Add(plotter.NewGrid())
	for n, j := range columns {
		if j < 0 || j >= cols {
			return fmt.Errorf("descplot: column %d out of range (%d features)", j, cols)
		}
		pts := make(plotter.XYs, rows)
		for i := 0; i < rows; i++ {
			pts[i].X = float64(i)
			pts[i].Y = view.At(i, j)
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.Color = plotutil.Color(n)
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("%v", D.Features().Value(j)), l)
	}
	return p.Save(15*vg.Centimeter, 10*vg.Centimeter, filename)
}
