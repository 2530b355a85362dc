/**
 * Licensed to the Apache Software Foundation (ASF) under one
 * or more contributor license agreements.  See the NOTICE file
 * distributed with this work for additional information
 * regarding copyright ownership.  The ASF licenses this file
 * to you under the Apache License, Version 2.0 (the
 * "License"); you may not use this file except in compliance
 * with the License.  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package scxutil

import (
	"fmt"

	"github.com/pkg/errors"
)

// Represents a low-level transport error: connect failed, write failed,
// notification channel closed.  Only a fresh connect recovers from one.
type XportError struct {
	Text string
}

func NewXportError(text string) *XportError {
	return &XportError{text}
}

func FmtXportError(format string, args ...interface{}) *XportError {
	return NewXportError(fmt.Sprintf(format, args...))
}

func (e *XportError) Error() string {
	return e.Text
}

func IsXport(err error) bool {
	if err == nil {
		return false
	}

	_, ok := errors.Cause(err).(*XportError)
	return ok
}

type SesnClosedError struct {
	Text string
}

func NewSesnClosedError(text string) *SesnClosedError {
	return &SesnClosedError{
		Text: text,
	}
}

func (e *SesnClosedError) Error() string {
	return e.Text
}

func IsSesnClosed(err error) bool {
	_, ok := errors.Cause(err).(*SesnClosedError)
	return ok
}

// The device never answered the initial state request.
type MissingInitialStateError struct {
	Text string
	Addr string
}

func NewMissingInitialStateError(addr string) *MissingInitialStateError {
	return &MissingInitialStateError{
		Text: fmt.Sprintf("no initial state received from %s", addr),
		Addr: addr,
	}
}

func (e *MissingInitialStateError) Error() string {
	return e.Text
}

func IsMissingInitialState(err error) bool {
	_, ok := errors.Cause(err).(*MissingInitialStateError)
	return ok
}

type IncompatibleResponseError struct {
	Text string
}

func NewIncompatibleResponseError(text string) *IncompatibleResponseError {
	return &IncompatibleResponseError{text}
}

func (e *IncompatibleResponseError) Error() string {
	return e.Text
}

func IsIncompatibleResponse(err error) bool {
	_, ok := errors.Cause(err).(*IncompatibleResponseError)
	return ok
}

type InvalidResponseLengthError struct {
	Text     string
	Expected int
	Got      int
}

func NewInvalidResponseLengthError(
	expected int, got int) *InvalidResponseLengthError {

	return &InvalidResponseLengthError{
		Text: fmt.Sprintf("invalid response length; expected=%d got=%d",
			expected, got),
		Expected: expected,
		Got:      got,
	}
}

func (e *InvalidResponseLengthError) Error() string {
	return e.Text
}

func IsInvalidResponseLength(err error) bool {
	_, ok := errors.Cause(err).(*InvalidResponseLengthError)
	return ok
}

type InvalidMacAddressError struct {
	Text string
}

func NewInvalidMacAddressError(text string) *InvalidMacAddressError {
	return &InvalidMacAddressError{text}
}

func FmtInvalidMacAddressError(format string,
	args ...interface{}) *InvalidMacAddressError {

	return NewInvalidMacAddressError(fmt.Sprintf(format, args...))
}

func (e *InvalidMacAddressError) Error() string {
	return e.Text
}

func IsInvalidMacAddress(err error) bool {
	_, ok := errors.Cause(err).(*InvalidMacAddressError)
	return ok
}

type DeviceNotFoundError struct {
	Text string
}

func NewDeviceNotFoundError(text string) *DeviceNotFoundError {
	return &DeviceNotFoundError{text}
}

func FmtDeviceNotFoundError(format string,
	args ...interface{}) *DeviceNotFoundError {

	return NewDeviceNotFoundError(fmt.Sprintf(format, args...))
}

func (e *DeviceNotFoundError) Error() string {
	return e.Text
}

func IsDeviceNotFound(err error) bool {
	_, ok := errors.Cause(err).(*DeviceNotFoundError)
	return ok
}

type MissingUuidSetError struct {
	Text string
}

func NewMissingUuidSetError(text string) *MissingUuidSetError {
	return &MissingUuidSetError{text}
}

func (e *MissingUuidSetError) Error() string {
	return e.Text
}

func IsMissingUuidSet(err error) bool {
	_, ok := errors.Cause(err).(*MissingUuidSetError)
	return ok
}

type MissingServiceError struct {
	Text string
}

func NewMissingServiceError(text string) *MissingServiceError {
	return &MissingServiceError{text}
}

func (e *MissingServiceError) Error() string {
	return e.Text
}

func IsMissingService(err error) bool {
	_, ok := errors.Cause(err).(*MissingServiceError)
	return ok
}

type MissingCharacteristicError struct {
	Text string
}

func NewMissingCharacteristicError(text string) *MissingCharacteristicError {
	return &MissingCharacteristicError{text}
}

func FmtMissingCharacteristicError(format string,
	args ...interface{}) *MissingCharacteristicError {

	return NewMissingCharacteristicError(fmt.Sprintf(format, args...))
}

func (e *MissingCharacteristicError) Error() string {
	return e.Text
}

func IsMissingCharacteristic(err error) bool {
	_, ok := errors.Cause(err).(*MissingCharacteristicError)
	return ok
}

// An operation was requested that the device's feature set lacks.
type FeatureNotSupportedError struct {
	Text    string
	Feature string
}

func NewFeatureNotSupportedError(feature string) *FeatureNotSupportedError {
	return &FeatureNotSupportedError{
		Text:    fmt.Sprintf("feature not supported: %s", feature),
		Feature: feature,
	}
}

func (e *FeatureNotSupportedError) Error() string {
	return e.Text
}

func IsFeatureNotSupported(err error) bool {
	_, ok := errors.Cause(err).(*FeatureNotSupportedError)
	return ok
}
