// Package identity resolves human-readable reviewer references (display
// names, mail addresses or raw GUIDs) to canonical Azure DevOps identity
// ids, and identifies the credential currently talking to the service.
package identity

import (
	"context"
	"fmt"
	"regexp"

	adoidentity "github.com/microsoft/azure-devops-go-api/azuredevops/v7/identity"
	"github.com/pkg/errors"
)

var (
	guidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	mailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
)

// Search filters understood by the identity service.
const (
	filterMailAddress = "MailAddress"
	filterDisplayName = "DisplayName"
)

// Client is the subset of the identity service used by the resolver.
type Client interface {
	ReadIdentities(ctx context.Context, args adoidentity.ReadIdentitiesArgs) (*[]adoidentity.Identity, error)
	GetSelf(ctx context.Context, args adoidentity.GetSelfArgs) (*adoidentity.IdentitySelf, error)
}

// NotFoundError reports a reference that resolved to zero identities.
type NotFoundError struct {
	Reference string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not resolve %q to an identity", e.Reference)
}

// Resolver classifies references and looks them up against the identity
// service. It holds no state besides the client handle.
type Resolver struct {
	client Client
}

func NewResolver(client Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve turns a reviewer reference into a canonical identity GUID.
// A reference that already is a GUID is returned verbatim without any
// remote call. A single local@domain token is looked up by mail address,
// anything else by display name. The first match wins.
func (r *Resolver) Resolve(ctx context.Context, reference string) (string, error) {
	if guidPattern.MatchString(reference) {
		return reference, nil
	}

	filter := filterDisplayName
	if mailPattern.MatchString(reference) {
		filter = filterMailAddress
	}

	identities, err := r.client.ReadIdentities(ctx, adoidentity.ReadIdentitiesArgs{
		SearchFilter: &filter,
		FilterValue:  &reference,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve reviewer %q", reference)
	}

	if identities == nil || len(*identities) == 0 {
		return "", errors.Wrapf(&NotFoundError{Reference: reference}, "failed to resolve reviewer %q", reference)
	}

	first := (*identities)[0]
	if first.Id == nil {
		return "", errors.Wrapf(&NotFoundError{Reference: reference}, "failed to resolve reviewer %q", reference)
	}

	return first.Id.String(), nil
}

// Caller returns the identity of the credential authenticating to the
// service. There is no fallback identity: a failure here is fatal to the
// operation that needed it.
func (r *Resolver) Caller(ctx context.Context) (*adoidentity.IdentitySelf, error) {
	self, err := r.client.GetSelf(ctx, adoidentity.GetSelfArgs{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve the current caller")
	}
	if self == nil || self.Id == nil {
		return nil, errors.New("identity service returned no caller identity")
	}
	return self, nil
}
