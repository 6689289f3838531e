package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/usecase/identity"
	"github.com/johnquangdev/meeting-insights/pkg/ai"
)

type fakeIdentity struct {
	users       []identity.UserProfile
	orgs        []identity.OrganizationProfile
	deletedOrgs []string
	added       []identity.Membership
	removed     []identity.Membership
	err         error
}

func (f *fakeIdentity) SyncUser(_ context.Context, p identity.UserProfile) (*entities.User, error) {
	f.users = append(f.users, p)
	return &entities.User{ExternalID: p.ExternalID}, f.err
}

func (f *fakeIdentity) SyncOrganization(_ context.Context, p identity.OrganizationProfile) (*entities.Organization, error) {
	f.orgs = append(f.orgs, p)
	return nil, f.err
}

func (f *fakeIdentity) DeleteOrganization(_ context.Context, id string) error {
	f.deletedOrgs = append(f.deletedOrgs, id)
	return f.err
}

func (f *fakeIdentity) AddMembership(_ context.Context, m identity.Membership) error {
	f.added = append(f.added, m)
	return f.err
}

func (f *fakeIdentity) RemoveMembership(_ context.Context, m identity.Membership) error {
	f.removed = append(f.removed, m)
	return f.err
}

func newJSONRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIdentityWebhook_Dispatch(t *testing.T) {
	s := newTestServer(entities.RoleAdmin)

	events := []string{
		`{"type":"user.created","data":{"id":"user_1","first_name":"Ada","primary_email_address_id":"e2",
			"email_addresses":[{"id":"e1","email_address":"old@x.io"},{"id":"e2","email_address":"ada@x.io"}],
			"public_metadata":{"role":"manager"}}}`,
		`{"type":"organization.created","data":{"id":"org_1","name":"Acme","slug":"acme"}}`,
		`{"type":"organizationMembership.created","data":{"role":"org:admin","organization":{"id":"org_1"},
			"public_user_data":{"user_id":"user_1"},"public_metadata":{"role":"user"}}}`,
		`{"type":"organizationMembership.deleted","data":{"organization":{"id":"org_1"},"public_user_data":{"user_id":"user_1"}}}`,
		`{"type":"organization.deleted","data":{"id":"org_1","deleted":true}}`,
	}
	for _, body := range events {
		if rec := s.do(http.MethodPost, "/api/webhooks/clerk", body); rec.Code != http.StatusOK {
			t.Fatalf("status = %d for %s; body %s", rec.Code, body, rec.Body.String())
		}
	}

	f := s.identity
	if len(f.users) != 1 || f.users[0].Email != "ada@x.io" || f.users[0].Role != "manager" {
		t.Errorf("users = %+v", f.users)
	}
	if len(f.orgs) != 1 || f.orgs[0].Slug != "acme" {
		t.Errorf("orgs = %+v", f.orgs)
	}
	want := identity.Membership{OrganizationExternalID: "org_1", UserExternalID: "user_1", OrgRole: "org:admin", MetadataRole: "user"}
	if len(f.added) != 1 || f.added[0] != want {
		t.Errorf("added = %+v", f.added)
	}
	if len(f.removed) != 1 || len(f.deletedOrgs) != 1 {
		t.Errorf("removed = %+v deleted = %v", f.removed, f.deletedOrgs)
	}
}

func TestIdentityWebhook_UnknownEventAcknowledged(t *testing.T) {
	s := newTestServer(entities.RoleAdmin)
	rec := s.do(http.MethodPost, "/api/webhooks/clerk", `{"type":"session.created","data":{}}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ignored"`) {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestIdentityWebhook_Signature(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	secret := "whsec_" + base64.StdEncoding.EncodeToString(key)
	now := time.Unix(1700000000, 0)
	body := `{"type":"user.updated","data":{"id":"user_1"}}`

	syncer := &fakeIdentity{}
	h := NewIdentityWebhookHandler(syncer, secret, nil, nil)
	h.now = func() time.Time { return now }
	e := echo.New()
	e.POST("/hook", h.HandleClerk)

	sign := func(ts time.Time, payload string) *http.Request {
		stamp := strconv.FormatInt(ts.Unix(), 10)
		req := newJSONRequest(http.MethodPost, "/hook", body)
		req.Header.Set("svix-id", "msg_1")
		req.Header.Set("svix-timestamp", stamp)
		req.Header.Set("svix-signature", "v1,"+ai.SignSvix(key, "msg_1", stamp, []byte(payload)))
		return req
	}

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"valid", sign(now, body), http.StatusOK},
		{"tampered body", sign(now, `{"type":"user.updated","data":{"id":"user_2"}}`), http.StatusBadRequest},
		{"stale timestamp", sign(now.Add(-10*time.Minute), body), http.StatusBadRequest},
		{"missing headers", newJSONRequest(http.MethodPost, "/hook", body), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := serve(e, tt.req); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
	if len(syncer.users) != 1 {
		t.Errorf("synced %d users, want only the valid delivery", len(syncer.users))
	}
}

func TestIdentityWebhook_MissingUserID(t *testing.T) {
	s := newTestServer(entities.RoleAdmin)
	s.identity.err = entities.ErrInvalidExternalID
	rec := s.do(http.MethodPost, "/api/webhooks/clerk", `{"type":"user.created","data":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
