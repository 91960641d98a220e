// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"context"
	"encoding/json"
	"time"
)

// TelemetryData holds all telemetry data of an archive operation.
type TelemetryData struct {
	// Operation is either "make_archive" or "unpack_archive"
	Operation string `json:"operation"`

	// Format is the resolved archive format
	Format string `json:"format"`

	// Source is the archived path or the extracted archive
	Source string `json:"source"`

	// Target is the created archive or the extraction directory
	Target string `json:"target"`

	// Attempts is the number of calls into the archive subsystem
	Attempts int `json:"attempts"`

	// Activated is true if the format registration ran during the operation
	Activated bool `json:"activated"`

	// Duration is the time the operation took
	Duration time.Duration `json:"duration"`

	// ArchiveSize is the size of the archive file
	ArchiveSize int64 `json:"archive_size"`

	// LastError is the error the operation ended with
	LastError error `json:"last_error"`
}

// String returns a string representation of [TelemetryData].
func (m TelemetryData) String() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (m TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError string
	if m.LastError != nil {
		lastError = m.LastError.Error()
	}

	type Alias TelemetryData
	return json.Marshal(&struct {
		LastError string `json:"last_error"`
		*Alias
	}{
		LastError: lastError,
		Alias:     (*Alias)(&m),
	})
}

// TelemetryHook is a function type that performs operations on [TelemetryData]
// after an archive operation has finished which can be used to submit the
// [TelemetryData] to a telemetry service, for example.
type TelemetryHook func(context.Context, *TelemetryData)

// noopTelemetryHook discards telemetry data.
func noopTelemetryHook(context.Context, *TelemetryData) {}
