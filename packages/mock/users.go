package mock

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// User is a record served by the fake users API.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// DefaultPerPage is the page size used when ?per_page is absent.
const DefaultPerPage = 6

var names = [][2]string{
	{"George", "Bluth"},
	{"Janet", "Weaver"},
	{"Emma", "Wong"},
	{"Eve", "Holt"},
	{"Charles", "Morris"},
	{"Tracey", "Ramos"},
	{"Michael", "Lawson"},
	{"Lindsay", "Ferguson"},
	{"Tobias", "Funke"},
	{"Byron", "Fields"},
	{"George", "Edwards"},
	{"Rachel", "Howell"},
}

// Users returns the twelve users of the public reqres.in dataset.
func Users() []User {
	users := make([]User, len(names))
	for i, n := range names {
		id := i + 1
		users[i] = User{
			ID:        id,
			Email:     fmt.Sprintf("%s.%s@reqres.in", strings.ToLower(n[0]), strings.ToLower(n[1])),
			FirstName: n[0],
			LastName:  n[1],
			Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
		}
	}
	return users
}

// tokenNamespace scopes the tokens handed out by /api/register.
var tokenNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://reqres.in/api/register"))

// Token returns the registration token for email. It is stable across runs so
// tests can compare against it.
func Token(email string) string {
	id := uuid.NewSHA1(tokenNamespace, []byte(strings.ToLower(email)))
	return strings.ReplaceAll(id.String(), "-", "")[:17]
}
