// Package suite declares and runs API test cases.
//
// Tests are plain records registered in a Registry: a name, descriptive
// metadata (epic, feature, story, severity, tags), an optional set of
// argument tuples, and a function to run. The Runner expands every test
// over its argument tuples and executes the resulting cases one at a time,
// classifying each as passed, failed (unmet expectations), errored
// (transport failure, invalid spec or panic) or skipped.
//
// After every executed case the runner calls each registered
// AfterTestHook with the test and case names and their start and end times.
package suite
