package reqres

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abdul-hamid-achik/restcheck/packages/assertions"
	"github.com/abdul-hamid-achik/restcheck/packages/core/suite"
	"github.com/abdul-hamid-achik/restcheck/packages/http"
	"github.com/abdul-hamid-achik/restcheck/packages/matchers"
)

const (
	Epic    = "reqres.in users API"
	Feature = "Response assertions against the users API"

	StoryAssertions = "Numerical and string assertions"
	StoryDelete     = "DELETE requests"
	StoryConfig     = "Requests with suite configuration"
)

// ListPage is the page every listing check requests.
const ListPage = 2

// ResponseSpec is the shared expectation for the page 2 listing.
var ResponseSpec = assertions.MustResponseSpec(
	assertions.ExpectStatus(200),
	assertions.ExpectBody("page", matchers.Equals(ListPage)),
)

// RequestSpec layers the suite defaults over base: page=2 plus request and
// response logging.
func RequestSpec(base *http.RequestSpec, logger logrus.FieldLogger) *http.RequestSpec {
	return http.Merge(base, http.Override(
		http.WithQueryParam("page", ListPage),
		http.WithFilter(http.NewRequestLoggingFilter(logger)),
		http.WithFilter(http.NewResponseLoggingFilter(logger)),
	))
}

// AuthenticationData feeds the registration checks.
func AuthenticationData() [][]any {
	return [][]any{{"eve.holt@reqres.in", "pistol"}}
}

// DeleteUserData feeds deleteUserTest.
func DeleteUserData() [][]any {
	return [][]any{{2}}
}

// Tests returns the reqres checks in registration order.
func Tests() []suite.Test {
	return []suite.Test{
		{
			Name:        "validateNumberAssertions",
			Description: "Validates numerical assertions on the users listing",
			Story:       StoryAssertions,
			Tags:        []string{"users", "numbers"},
			Run:         validateNumberAssertions,
		},
		{
			Name:        "validateGreaterThanAssertions",
			Description: "Validates 'greater than' assertions on the users listing",
			Story:       StoryAssertions,
			Tags:        []string{"users", "numbers"},
			Run:         validateGreaterThanAssertions,
		},
		{
			Name:        "validateLessThanAssertions",
			Description: "Validates 'less than' assertions on the users listing",
			Story:       StoryAssertions,
			Tags:        []string{"users", "numbers"},
			Run:         validateLessThanAssertions,
		},
		{
			Name:        "validateStringAssertions",
			Description: "Validates string assertions on listed users",
			Story:       StoryAssertions,
			Tags:        []string{"users", "strings"},
			Run:         validateStringAssertions,
		},
		{
			Name:         "validateAuthenticationToken",
			Description:  "Registers a user and validates the authentication token",
			Story:        StoryAssertions,
			Tags:         []string{"auth"},
			DataProvider: AuthenticationData,
			Run:          validateAuthenticationToken,
		},
		{
			Name:         "printAuthToken",
			Description:  "Registers a user and logs the authentication token",
			Story:        StoryAssertions,
			Tags:         []string{"auth"},
			DataProvider: AuthenticationData,
			Run:          printAuthToken,
		},
		{
			Name:         "deleteUserTest",
			Description:  "Sends a DELETE request and validates the response",
			Story:        StoryDelete,
			Tags:         []string{"users", "delete"},
			DataProvider: DeleteUserData,
			Run:          deleteUserTest,
		},
		{
			Name:        "validateExpect",
			Description: "Fetches a single user and expects 200",
			Story:       StoryAssertions,
			Tags:        []string{"users"},
			Run:         validateExpect,
		},
		{
			Name:        "validateBodyUsingExpect",
			Description: "Fetches a single user and validates its body",
			Story:       StoryAssertions,
			Tags:        []string{"users"},
			Run:         validateBodyUsingExpect,
		},
		{
			Name:        "getRequestWithConfigTest",
			Description: "Executes a GET request with the suite configuration",
			Story:       StoryConfig,
			Severity:    suite.SeverityCritical,
			Tags:        []string{"users", "config"},
			Run:         getRequestWithConfigTest,
		},
	}
}

// RegisterTests adds every check to reg, stamping the suite epic and
// feature.
func RegisterTests(reg *suite.Registry) error {
	for _, t := range Tests() {
		t.Epic = Epic
		t.Feature = Feature
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("registering %s: %w", t.Name, err)
		}
	}
	return nil
}

// getList fetches the listing with page=2 but without the suite filters.
func getList(t *suite.T) (*http.Response, error) {
	spec := http.Merge(t.RequestSpec, http.Override(http.WithQueryParam("page", ListPage)))
	return t.Client.Get(t.Context(), spec, "")
}

func getUser(t *suite.T, id int) (*http.Response, error) {
	return t.Client.Get(t.Context(), t.RequestSpec, fmt.Sprint(id))
}

func validateNumberAssertions(t *suite.T, _ ...any) error {
	resp, err := getList(t)
	if err != nil {
		return err
	}
	return t.Check(resp, assertions.MustResponseSpec(
		assertions.ExpectStatus(200),
		assertions.ExpectBody("page", matchers.Equals(ListPage)),
		assertions.ExpectBody("per_page", matchers.GreaterThan(4)),
		assertions.ExpectBody("per_page", matchers.GreaterOrEqual(6)),
		assertions.ExpectBody("total", matchers.LessThan(14)),
		assertions.ExpectBody("total_pages", matchers.LessOrEqual(3)),
	))
}

func validateGreaterThanAssertions(t *suite.T, _ ...any) error {
	resp, err := getList(t)
	if err != nil {
		return err
	}
	return t.Check(resp, assertions.MustResponseSpec(
		assertions.ExpectStatus(200),
		assertions.ExpectBody("per_page", matchers.GreaterThan(4)),
		assertions.ExpectBody("per_page", matchers.GreaterOrEqual(6)),
	))
}

func validateLessThanAssertions(t *suite.T, _ ...any) error {
	resp, err := getList(t)
	if err != nil {
		return err
	}
	return t.Check(resp, assertions.MustResponseSpec(
		assertions.ExpectStatus(200),
		assertions.ExpectBody("total", matchers.LessThan(14)),
		assertions.ExpectBody("total_pages", matchers.LessOrEqual(3)),
	))
}

func validateStringAssertions(t *suite.T, _ ...any) error {
	resp, err := t.Client.Get(t.Context(), RequestSpec(t.RequestSpec, t.Logger), "")
	if err != nil {
		return err
	}
	return t.Check(resp, assertions.Merge(ResponseSpec, assertions.MustResponseSpec(
		assertions.ExpectBody("data[0].first_name", matchers.Equals("Michael")),
		assertions.ExpectBody("data[0].first_name", matchers.EqualsIgnoreCase("MICHael")),
		assertions.ExpectBody("data[0].email", matchers.Contains("michael.lawson")),
		assertions.ExpectBody("data[0].last_name", matchers.StartsWith("L")),
		assertions.ExpectBody("data[0].last_name", matchers.EndsWith("n")),
		assertions.ExpectBody("data[1].first_name", matchers.EqualsCompressingWhitespace("    Lindsay ")),
	)))
}

func credentials(args []any) (Credentials, error) {
	email, err := suite.StringArg(args, 0)
	if err != nil {
		return Credentials{}, err
	}
	password, err := suite.StringArg(args, 1)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Email: email, Password: password}, nil
}

func validateAuthenticationToken(t *suite.T, args ...any) error {
	creds, err := credentials(args)
	if err != nil {
		return err
	}
	resp, err := Register(t.Context(), t.Client, t.RequestSpec, creds)
	if err != nil {
		return err
	}
	return t.Check(resp, registrationSpec)
}

func printAuthToken(t *suite.T, args ...any) error {
	creds, err := credentials(args)
	if err != nil {
		return err
	}
	token, err := GetAuthToken(t.Context(), t.Client, t.RequestSpec, creds.Email, creds.Password)
	if err != nil {
		return err
	}
	t.Logf("auth token for %s: %s", creds.Email, token)
	return nil
}

func deleteUserTest(t *suite.T, args ...any) error {
	id, err := suite.IntArg(args, 0)
	if err != nil {
		return err
	}
	resp, err := t.Client.Delete(t.Context(), t.RequestSpec, fmt.Sprint(id))
	if err != nil {
		return err
	}
	return t.Check(resp, assertions.MustResponseSpec(assertions.ExpectStatus(204)))
}

func validateExpect(t *suite.T, _ ...any) error {
	resp, err := getUser(t, 2)
	if err != nil {
		return err
	}
	return t.Check(resp, assertions.MustResponseSpec(assertions.ExpectStatus(200)))
}

func validateBodyUsingExpect(t *suite.T, _ ...any) error {
	resp, err := getUser(t, 2)
	if err != nil {
		return err
	}
	return t.Check(resp, assertions.MustResponseSpec(
		assertions.ExpectStatus(200),
		assertions.ExpectBody("data.email", matchers.Equals("janet.weaver@reqres.in")),
		assertions.ExpectBody("data.id", matchers.Equals(2)),
	))
}

func getRequestWithConfigTest(t *suite.T, _ ...any) error {
	resp, err := getUser(t, 2)
	if err != nil {
		return err
	}
	return t.Check(resp, assertions.MustResponseSpec(
		assertions.ExpectStatus(200),
		assertions.ExpectBody("data.first_name", matchers.Equals("Janet")),
	))
}
