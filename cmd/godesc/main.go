/*
 * main.go, part of godesc.
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

//godesc computes descriptors for the frames of one or more XYZ files and
//stores them in a dsf file.
//
//	godesc -calculator sorted_distances -params '{"cutoff":3.5,"max_neighbors":8}' \
//	       -densify species_center -o out.dsf frames1.xyz frames2.xyz
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	desc "github.com/rmera/godesc"
	"github.com/rmera/godesc/dsf"
)

func main() {
	calcName := flag.String("calculator", "sorted_distances", "registered name of the calculator to run")
	params := flag.String("params", `{"cutoff":3.5,"max_neighbors":8}`, "JSON parameters for the calculator")
	densify := flag.String("densify", "", "comma-separated environment variables to pivot into the features")
	output := flag.String("o", "descriptors.dsf", "output dsf file")
	gradients := flag.Bool("gradients", false, "also compute gradients with respect to positions")
	native := flag.Bool("native", true, "copy systems into the native representation before computing")
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "godesc: no XYZ files given")
		flag.Usage()
		os.Exit(1)
	}

	calculator, err := desc.NewCalculator(*calcName, *params)
	if err != nil {
		log.Fatal().Err(err).Str("calculator", *calcName).Msg("can not create calculator")
	}

	var systems []desc.System
	bar := progressbar.Default(int64(flag.NArg()), "reading XYZ files")
	for _, name := range flag.Args() {
		frames, err := desc.ReadXYZFile(name)
		if err != nil {
			log.Fatal().Err(err).Str("file", name).Msg("can not read XYZ file")
		}
		for _, sys := range frames {
			systems = append(systems, sys)
		}
		bar.Add(1)
	}
	log.Info().Int("systems", len(systems)).Str("calculator", *calcName).Msg("computing descriptors")

	D, err := calculator.Compute(systems, &desc.Options{
		UseNativeSystem: *native,
		Gradients:       *gradients,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("computation failed")
	}
	if *densify != "" {
		variables := strings.Split(*densify, ",")
		if err := D.Densify(variables...); err != nil {
			log.Fatal().Err(err).Strs("variables", variables).Msg("can not densify")
		}
	}
	if err := dsf.WriteFile(*output, D); err != nil {
		log.Fatal().Err(err).Str("file", *output).Msg("can not write descriptors")
	}
	rows, cols, _ := D.Values()
	log.Info().Int("environments", rows).Int("features", cols).Str("file", *output).
		Msg("descriptors written")
}
