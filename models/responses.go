// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// VersionResponse is returned by the version endpoint of the document server.
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// ErrorResponse is the JSON body written by the document server on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
