package resolve

import (
	"regexp"
	"strings"

	rxerrors "git.home.luguber.info/inful/repoexplain/internal/errors"
)

var segmentPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Validate checks that a descriptor's owner and name are well-formed GitHub
// path segments. It runs after every resolution path, regardless of how the
// descriptor was produced.
func Validate(desc *Descriptor) error {
	if err := validateSegment("owner", desc.Owner); err != nil {
		return err
	}
	return validateSegment("repository name", desc.Name)
}

func validateSegment(field, value string) error {
	if value == "" || !segmentPattern.MatchString(value) {
		return rxerrors.InvalidFieldError(field, value)
	}
	switch strings.ToLower(value) {
	case "null", "undefined":
		return rxerrors.InvalidFieldError(field, value)
	}
	return nil
}
