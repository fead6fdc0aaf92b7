package payment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	fieldSeparator = " | "
	valueSeparator = " : "
)

var ErrMalformedDescription = errors.New("malformed invoice description")

// EncodeDescription appends the order reference and store id to text so the
// webhook can route the callback: "<text> | Order : <ref> | Store : <id>".
// Separators inside text are rewritten so the result always parses back.
func EncodeDescription(text string, ref uuid.UUID, storeID int64) string {
	return strings.Join([]string{
		sanitizeText(text),
		"Order" + valueSeparator + ref.String(),
		"Store" + valueSeparator + strconv.FormatInt(storeID, 10),
	}, fieldSeparator)
}

// sanitizeText turns "|" into "/" and " : " into ": ".
func sanitizeText(text string) string {
	text = strings.ReplaceAll(text, "|", "/")
	for strings.Contains(text, valueSeparator) {
		text = strings.ReplaceAll(text, valueSeparator, ": ")
	}
	return text
}

// ParseDescription recovers the order reference and store id written by
// EncodeDescription.
func ParseDescription(desc string) (uuid.UUID, int64, error) {
	fields := strings.Split(desc, fieldSeparator)
	if len(fields) < 3 {
		return uuid.Nil, 0, fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedDescription, len(fields))
	}

	rawRef, err := subfieldValue(fields[1])
	if err != nil {
		return uuid.Nil, 0, err
	}
	if rawRef == "" {
		return uuid.Nil, 0, fmt.Errorf("%w: empty order reference", ErrMalformedDescription)
	}
	ref, err := uuid.Parse(rawRef)
	if err != nil || ref == uuid.Nil {
		return uuid.Nil, 0, fmt.Errorf("%w: order reference %q is not a uuid", ErrMalformedDescription, rawRef)
	}

	rawStore, err := subfieldValue(fields[2])
	if err != nil {
		return uuid.Nil, 0, err
	}
	storeID, err := strconv.ParseInt(rawStore, 10, 64)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("%w: store id %q is not numeric", ErrMalformedDescription, rawStore)
	}
	if storeID <= 0 {
		return uuid.Nil, 0, fmt.Errorf("%w: store id must be positive", ErrMalformedDescription)
	}

	return ref, storeID, nil
}

func subfieldValue(field string) (string, error) {
	parts := strings.Split(field, valueSeparator)
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: field %q has no value", ErrMalformedDescription, field)
	}
	return strings.TrimSpace(parts[1]), nil
}
