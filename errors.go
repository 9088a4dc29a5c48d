/*
 * errors.go, part of godesc.
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

import "fmt"

//Status classifies every error produced by this library. The numeric values
//are part of the contract with non-Go callers, so they are stable.
type Status int

const (
	//StatusSuccess means no error at all.
	StatusSuccess Status = 0
	//StatusInvalidParameter marks a malformed argument: wrong tuple arity,
	//an unknown variable name, a buffer too small, a selection that doesn't
	//match its axis.
	StatusInvalidParameter Status = 1
	//StatusJSON marks malformed calculator parameters.
	StatusJSON Status = 2
	//StatusUTF8 marks a non-UTF8 string crossing the library boundary.
	StatusUTF8 Status = 3
	//StatusUnknown is a failure reported by external code without a
	//recognized kind.
	StatusUnknown Status = 254
	//StatusInternal marks an unexpected internal invariant failure (a
	//recovered panic). It is always reported, never left as undefined
	//behavior.
	StatusInternal Status = 255
)

//Error is the interface all errors in godesc and its subpackages implement.
//The Decorate method allows adding information to an error as it travels up
//the call stack, without wrapping it in another type. Passing an empty string
//just returns the current decoration.
type Error interface {
	Error() string
	Decorate(string) []string
	Status() Status
}

//procError is the concrete error for the desc package.
type procError struct {
	message string
	status  Status
	deco    []string
}

func (err *procError) Error() string {
	return fmt.Sprintf("godesc: %s", err.message)
}

//Decorate adds new information to the error, and returns the
//decoration so far.
func (err *procError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Status returns the classification of the error.
func (err *procError) Status() Status {
	return err.status
}

func newError(status Status, format string, args ...interface{}) *procError {
	return &procError{message: fmt.Sprintf(format, args...), status: status}
}

//errDecorate asserts that err implements Error and decorates it with the
//caller's name before returning it. Errors from outside the library are
//wrapped into a StatusUnknown error instead.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		err2 = newError(StatusUnknown, "%s", err.Error())
	}
	err2.Decorate(caller)
	return err2
}

//StatusOf classifies any error for boundary-style callers: nil maps to
//StatusSuccess, errors from this library report their own status, anything
//else is StatusUnknown.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	if err2, ok := err.(Error); ok {
		return err2.Status()
	}
	return StatusUnknown
}
