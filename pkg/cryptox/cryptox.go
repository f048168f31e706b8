// Package cryptox holds the password hashing primitives shared across the
// service. All hashes are Argon2id in PHC string form.
package cryptox

import "encoding/base64"

var b64 = base64.RawStdEncoding
