/*
 * doc.go, part of godesc.
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

/*Package desc computes numerical representations ("descriptors") of atomic
structures, for consumption by machine-learning models.

	**godesc capabilities**

    Ordered sets of named integer tuples (Indexes) labeling both the
	environment (sample) and feature axes of a descriptor.

    A Descriptor container holding a dense values matrix, and optionally
	its gradients with respect to atomic positions, both backed by
	gonum matrices.

    Densify, a sparse-to-dense pivot that moves named variables from the
	environment axis into the feature axis, zero-filling the combinations
	that were never sampled, so ragged per-species layouts become a
	fixed-width matrix.

    A System interface exposing atoms, species, positions, the unit cell
	and a neighbor list to the calculators. A native in-memory
	implementation (SimpleSystem) with minimum-image periodic boundary
	conditions is provided, and callers can plug their own.

    Calculators, created by name with JSON parameters, which compute one
	descriptor over many systems concurrently, with optional restriction
	to a caller-given subset of samples and/or features.

    Reading of (multi-frame) XYZ files into SimpleSystems.

The feature mathematics themselves are deliberately simple here (sorted
neighbor distances); the point of the library is the indexing, reshaping and
orchestration machinery that heavier representations plug into. Subpackage dsf
stores descriptors on disk, compressed. Subpackage descplot draws them.
*/
package desc
