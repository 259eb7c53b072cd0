package ranksyncdomain

import (
	"errors"
	"fmt"
)

// ConfigurationError marks a guild whose role directory is missing a role
// the tier table requires. It isolates the affected member; an operator has
// to create the role.
type ConfigurationError struct {
	GuildID  GuildID
	RoleName string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("role %q is not present in the role directory of guild %s", e.RoleName, e.GuildID)
}

// PermissionError marks a role mutation the directory rejected for lack of
// privilege. Fatal for the member this run; retrying cannot help.
type PermissionError struct {
	GuildID  GuildID
	MemberID MemberID
	Err      error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("role mutation rejected for member %s in guild %s: %v", e.MemberID, e.GuildID, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// TransientError marks a collaborator call that failed in a way worth
// retrying (rate limit, network).
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure in %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// DataError short-circuits a whole guild: nothing is linked or no rank roles
// exist, so per-member processing is pointless.
type DataError struct {
	GuildID GuildID
	Reason  string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("guild %s cannot be reconciled: %s", e.GuildID, e.Reason)
}

// IsTransient reports whether err is, or wraps, a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsConfiguration reports whether err is, or wraps, a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsPermission reports whether err is, or wraps, a PermissionError.
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsData reports whether err is, or wraps, a DataError.
func IsData(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}
