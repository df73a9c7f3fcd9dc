// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app holds the user-facing wording of the list client.
//
// All Msg* constants are short alerts shown by the terminal UI. [Message]
// picks the alert for an error returned by the sync layer so every screen
// reports the same failure the same way.
package app

import (
	"errors"

	"github.com/MKhiriev/go-list-keeper/internal/service"
)

const (
	// MsgTransport is shown when the document store cannot be reached.
	// Reads may still have been answered from the local mirror.
	MsgTransport = "сервер недоступен, попробуйте позже"

	// MsgUnauthorized is shown when the store rejects the credential or the
	// requested data belongs to another user.
	MsgUnauthorized = "нет доступа: проверьте токен"

	// MsgNotFound is shown when the list was removed elsewhere.
	MsgNotFound = "список не найден, возможно он уже удалён"

	// MsgInvalidDataProvided is shown when input fails validation.
	MsgInvalidDataProvided = "некорректные данные"

	// MsgPersistence is shown when the local copy could not be written.
	MsgPersistence = "не удалось сохранить локальную копию"

	// MsgUnknown covers everything else.
	MsgUnknown = "неизвестная ошибка"
)

// checked in order, a wrapped error may match several kinds
var messages = []struct {
	err error
	msg string
}{
	{service.ErrUnauthorized, MsgUnauthorized},
	{service.ErrNoUserID, MsgUnauthorized},
	{service.ErrNotFound, MsgNotFound},
	{service.ErrInvalidInput, MsgInvalidDataProvided},
	{service.ErrTransport, MsgTransport},
	{service.ErrPersistence, MsgPersistence},
}

// Message returns the alert for err, or an empty string for nil.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return MsgUnknown
}
