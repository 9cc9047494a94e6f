// Package reqres holds the checks restcheck runs against the reqres.in users
// API: list paging numbers, string fields of a listed user, registration
// tokens, single-user lookups and deletes.
//
// Every check reads its base URI from the runner's RequestSpec, so the same
// suite runs against https://reqres.in/api/users/ or the in-process fake in
// packages/mock.
package reqres
