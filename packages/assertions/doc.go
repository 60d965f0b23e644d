// Package assertions checks a Response against --expect expressions.
//
// An expression is "subject [operator] [value]":
//
//	status == 200
//	status in [200, 201]
//	header Content-Type contains json
//	mime == application/json
//	body.user.name == "John"
//	body.items length 3
//	jsonpath items.#.id includes 7
//	body schema ./user.schema.json
//	duration < 500
//
// The operator defaults to ==. Values are read as JSON when they parse as
// JSON, otherwise as a bare string.
package assertions
