package utils

import (
	"errors"
	"strings"
)

var EmptyNameError = errors.New("'name' is required")

var (
	EmptyKeyError      = errors.New("key is required")
	WhitespaceKeyError = errors.New("key must not contain whitespace")
)

func CheckName(name string) error {
	if len(name) == 0 {
		return EmptyNameError
	}

	return nil
}

// CheckKey validates a building identifier. Keys travel in URL paths
// and journal rows, so whitespace is rejected outright.
func CheckKey(key string) error {
	if len(key) == 0 {
		return EmptyKeyError
	}

	if strings.ContainsAny(key, " \t\n\r") {
		return WhitespaceKeyError
	}

	return nil
}
