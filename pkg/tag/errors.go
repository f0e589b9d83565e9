package tag

import "errors"

// errNotATag signals that a comment body does not match the tag grammar at
// all; callers treat this as "not a tag" and emit no diagnostic.
var errNotATag = errors.New("tag: comment body does not match tag grammar")

// errUnterminatedString signals a runaway string literal inside a tag body
// that otherwise looked like a committed tag attempt.
var errUnterminatedString = errors.New("tag: unterminated string literal")
