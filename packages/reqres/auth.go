package reqres

import (
	"context"
	"fmt"

	"github.com/abdul-hamid-achik/restcheck/packages/assertions"
	"github.com/abdul-hamid-achik/restcheck/packages/http"
	"github.com/abdul-hamid-achik/restcheck/packages/matchers"
)

// RegisterPath is rooted, so it resolves against the host of the base URI
// rather than the users collection.
const RegisterPath = "/api/register"

// Credentials is the body posted to RegisterPath.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is a successful RegisterPath response.
type Registration struct {
	ID    int    `json:"id"`
	Token string `json:"token"`
}

var registrationSpec = assertions.MustResponseSpec(
	assertions.ExpectStatus(200),
	assertions.ExpectBody("id", matchers.NotNull()),
	assertions.ExpectBody("token", matchers.NotNull()),
)

// Register posts creds as JSON. The response is returned as is; callers
// check it.
func Register(ctx context.Context, client *http.Client, base *http.RequestSpec, creds Credentials) (*http.Response, error) {
	spec := http.Merge(base, http.Override(http.WithContentType(http.ContentTypeJSON)))
	return client.Post(ctx, spec, RegisterPath, creds)
}

// GetAuthToken registers email and password and returns the issued token.
func GetAuthToken(ctx context.Context, client *http.Client, base *http.RequestSpec, email, password string) (string, error) {
	resp, err := Register(ctx, client, base, Credentials{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	if err := assertions.Evaluate(resp, registrationSpec); err != nil {
		return "", err
	}

	var reg Registration
	if err := resp.Decode(&reg); err != nil {
		return "", fmt.Errorf("decoding registration: %w", err)
	}
	return reg.Token, nil
}
