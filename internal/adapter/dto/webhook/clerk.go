package webhook

import "encoding/json"

// Identity-provider event types
const (
	ClerkUserCreated         = "user.created"
	ClerkUserUpdated         = "user.updated"
	ClerkOrganizationCreated = "organization.created"
	ClerkOrganizationUpdated = "organization.updated"
	ClerkOrganizationDeleted = "organization.deleted"
	ClerkMembershipCreated   = "organizationMembership.created"
	ClerkMembershipUpdated   = "organizationMembership.updated"
	ClerkMembershipDeleted   = "organizationMembership.deleted"
)

// Signature headers of identity-provider deliveries
const (
	SvixIDHeader        = "svix-id"
	SvixTimestampHeader = "svix-timestamp"
	SvixSignatureHeader = "svix-signature"
)

// ClerkEvent is the envelope of every identity-provider delivery; Data is decoded per type
type ClerkEvent struct {
	Type   string          `json:"type" validate:"required"`
	Object string          `json:"object"`
	Data   json.RawMessage `json:"data" validate:"required"`
}

// ClerkMetadata is the public metadata the dashboard writes
type ClerkMetadata struct {
	Role string `json:"role"`
}

// ClerkEmail is one of a user's email addresses
type ClerkEmail struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// ClerkUser is the data of user.* events
type ClerkUser struct {
	ID                    string        `json:"id" validate:"required"`
	FirstName             string        `json:"first_name"`
	LastName              string        `json:"last_name"`
	EmailAddresses        []ClerkEmail  `json:"email_addresses"`
	PrimaryEmailAddressID string        `json:"primary_email_address_id"`
	PublicMetadata        ClerkMetadata `json:"public_metadata"`
}

// PrimaryEmail returns the primary address, falling back to the first one
func (u ClerkUser) PrimaryEmail() string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

// ClerkOrganization is the data of organization.* events
type ClerkOrganization struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Deleted bool   `json:"deleted"`
}

// ClerkPublicUserData identifies the member of a membership
type ClerkPublicUserData struct {
	UserID    string `json:"user_id" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ClerkMembership is the data of organizationMembership.* events
type ClerkMembership struct {
	ID             string              `json:"id"`
	Role           string              `json:"role"`
	Organization   ClerkOrganization   `json:"organization"`
	PublicUserData ClerkPublicUserData `json:"public_user_data"`
	PublicMetadata ClerkMetadata       `json:"public_metadata"`
}
