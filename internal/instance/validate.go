package instance

import (
	"regexp"
	"strconv"

	"github.com/avolkov/srvman/internal/errors"
)

// namePattern matches valid instance names: 1 to 32 lowercase Latin letters.
// The same pattern identifies instance directories during stop_all, so
// loosening it changes which directories the tool considers its own.
var namePattern = regexp.MustCompile(`^[a-z]{1,32}$`)

// ValidateName returns name unchanged if it is a valid instance name.
func ValidateName(name string) (string, error) {
	if !namePattern.MatchString(name) {
		return "", errors.NewValidationError("must be 1..32 lowercase Latin letters [a-z]").
			WithField("name").WithValue(name)
	}
	return name, nil
}

// IsValidName reports whether name is a valid instance name.
func IsValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ValidatePort parses port as an integer. No range check is performed here;
// an unbindable port is reported by the operating environment when the
// instance process tries to listen on it.
func ValidatePort(port string) (int, error) {
	p, err := strconv.Atoi(port)
	if err != nil {
		return 0, errors.NewValidationError("must be an integer").
			WithField("port").WithValue(port)
	}
	return p, nil
}
