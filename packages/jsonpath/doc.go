// Package jsonpath resolves literal paths such as "data[0].first_name"
// against a JSON document.
//
// Paths are dot-separated object keys, each optionally followed by one or
// more bracketed array indexes. There are no wildcards, filters or
// recursive descent; every lookup is literal. A key or index that does not
// exist resolves to Missing rather than an error.
package jsonpath
