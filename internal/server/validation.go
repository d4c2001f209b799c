package server

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength    = 20
	maxCommentLength = 200
	imageDataPrefix  = "data:image/"
)

func validatePigName(name string) error {
	if name == "" {
		return errors.New("name and image are required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return fmt.Errorf("name must be %d characters or fewer", maxNameLength)
	}
	return nil
}

// validateImagePayload accepts only embedded image data URIs; the payload
// itself stays opaque.
func validateImagePayload(image string) error {
	if !strings.HasPrefix(image, imageDataPrefix) {
		return errors.New("invalid image format")
	}
	return nil
}

func validateComment(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", errors.New("comment is required")
	}
	if utf8.RuneCountInString(trimmed) > maxCommentLength {
		return "", fmt.Errorf("comment must be %d characters or fewer", maxCommentLength)
	}
	return trimmed, nil
}
