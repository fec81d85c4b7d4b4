package authorize

import (
	"context"
	"errors"

	"github.com/ankurdental/dentaldesk/pkg/reqctx"
)

var ErrNoSubjectInContext = errors.New("no subject found in context")

// SubjectFromContext returns the policy subject of the authenticated caller.
func SubjectFromContext(ctx context.Context) (GroupSubject, error) {
	uid, ok := reqctx.UserIDFromContext(ctx)
	if !ok {
		return "", ErrNoSubjectInContext
	}
	return UserSubject(uid), nil
}

// Grant gives the caller the role their account holds: admins clinic-wide,
// patients inside their own patient domain. Granting twice is a no-op.
func Grant(ctx context.Context, auth IAuthorization, userID, userRole, patientID string) error {
	role, ok := RoleFor(userRole)
	if !ok {
		return ErrForbidden
	}
	domain := WildcardDomain
	if role == RolePatient {
		if patientID == "" {
			// a patient account not linked to a record owns nothing
			return nil
		}
		domain = PatientDomain(patientID)
	}
	_, err := auth.AddRoleForUserInDomain(ctx, UserSubject(userID), role, domain)
	return err
}
