// Package env resolves {{...}} placeholders in request parts.
//
// A placeholder is one of:
//   - {{name}}: a variable from the config file, an env file or --var
//   - {{$NAME}}: a process environment variable
//   - {{fn(args)}}: a builtin function such as uuid() or timestamp()
//
// Placeholders that cannot be resolved are left in place and reported
// through the resolver's warn function.
package env
