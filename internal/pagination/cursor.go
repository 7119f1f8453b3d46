// Package pagination implements cursor based connections over a stable id order.
package pagination

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/staff-service/pkg/util/errorutil"
)

const cursorPrefix = "cursor:v1:"

var errMalformedCursor = errors.New("malformed cursor")

// EncodeCursor returns the opaque cursor for the node with the given id.
func EncodeCursor(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + id))
}

// DecodeCursor returns the node id carried by cursor.
func DecodeCursor(cursor string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(cursor))
	if err != nil {
		return "", apperrors.NewInvalidCursor(cursor, err)
	}
	id, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok || id == "" {
		return "", apperrors.NewInvalidCursor(cursor, errMalformedCursor)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.NewInvalidCursor(cursor, err)
	}
	return id, nil
}
