package authservice

import (
	"errors"

	"github.com/wisbric/orbit/pkg/apierror"
)

// mapProviderError translates a provider-returned error into an
// apierror.Error. ProviderError codes from the fixed set spec.md §4.6 names
// (USER_ALREADY_EXISTS, INVALID_CREDENTIALS, SESSION_EXPIRED,
// RATE_LIMIT_EXCEEDED, ACCOUNT_LOCKED, USER_NOT_FOUND) carry through as-is;
// any other code a provider returns also passes through unchanged, since the
// set is the provider's to extend.
func mapProviderError(err error) *apierror.Error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return apierror.New(pe.Code, pe.Message)
	}
	return apierror.New(apierror.CodeInvalidCredentials, err.Error())
}
