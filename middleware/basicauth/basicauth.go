// Package basicauth implements RFC 7617 HTTP Basic Authentication as
// Bolt middleware, checking submitted credentials against bcrypt
// hashes rather than plaintext, the same way the teacher's jwt
// middleware checks bearer tokens against a verification key.
package basicauth

import (
	"encoding/base64"
	"strings"

	"github.com/boltframework/bolt/bcrypt"
	"github.com/boltframework/bolt/core"
)

// Config configures the basicauth middleware.
type Config struct {
	// Realm is sent in the WWW-Authenticate challenge header.
	Realm string

	// Users maps a username to its bcrypt hash. Lookups are by exact
	// username match; Validate overrides this for dynamic user stores.
	Users map[string]string

	// Validate, when set, is called instead of the Users map so
	// credentials can be checked against an external store. It must
	// still compare password digests with bcrypt.Compare (or an
	// equivalent constant-time scheme) rather than a plaintext
	// equality check.
	Validate func(user, password string) bool

	// Skip, when it returns true for a request, bypasses auth entirely.
	Skip func(c *core.Context) bool
}

// DefaultRealm is used when Config.Realm is empty.
const DefaultRealm = "restricted"

// New returns Basic Auth middleware backed by config. A request missing
// or failing credentials gets a 401 with a WWW-Authenticate challenge;
// the handler chain never runs for it.
func New(config Config) core.Middleware {
	realm := config.Realm
	if realm == "" {
		realm = DefaultRealm
	}
	challenge := "Basic realm=\"" + realm + "\""

	validate := config.Validate
	if validate == nil {
		users := config.Users
		validate = func(user, password string) bool {
			hashed, ok := users[user]
			if !ok {
				return false
			}
			return bcrypt.Compare([]byte(password), hashed) == nil
		}
	}

	return func(next core.Handler) core.Handler {
		return func(c *core.Context) error {
			if config.Skip != nil && config.Skip(c) {
				return next(c)
			}

			user, password, ok := parseAuthorization(c.GetHeader("Authorization"))
			if !ok || !validate(user, password) {
				c.SetHeader("WWW-Authenticate", challenge)
				return c.JSON(401, map[string]string{"error": "unauthorized"})
			}

			c.Set("basicauth.user", user)
			return next(c)
		}
	}
}

// parseAuthorization extracts and decodes a "Basic <base64>" header
// value into its user/password pair. The colon split stops at the
// first ':', matching RFC 7617 (passwords may themselves contain ':').
func parseAuthorization(header string) (user, password string, ok bool) {
	const prefix = "Basic "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	idx := strings.IndexByte(string(decoded), ':')
	if idx < 0 {
		return "", "", false
	}
	return string(decoded[:idx]), string(decoded[idx+1:]), true
}
