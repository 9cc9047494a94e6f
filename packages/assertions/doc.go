// Package assertions evaluates captured responses against declarative
// expectations.
//
// A ResponseSpec bundles an optional expected status code with an ordered
// list of expectations, each pairing a JSON path (or header name) with a
// matcher:
//
//	spec := assertions.MustResponseSpec(
//		assertions.ExpectStatus(200),
//		assertions.ExpectBody("page", matchers.Equals(2)),
//		assertions.ExpectBody("data[0].first_name", matchers.NotNull()),
//	)
//	if err := assertions.Evaluate(resp, spec); err != nil {
//		// err is an assertions.Failures listing every mismatch
//	}
//
// Evaluation never stops at the first mismatch. The status check runs first
// and independently of the body expectations; a path that does not resolve
// fails unless its matcher accepts absence.
package assertions
