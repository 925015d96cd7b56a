// Package config loads the declarative server configuration: listener and
// logging settings plus route entries that compile into resources for the
// decision engine.
package config

import "fmt"

// Config is the root of a decider configuration file.
type Config struct {
	// Listen is the bind address, e.g. ":8080".
	Listen string `json:"listen" yaml:"listen"`

	// Log configures the server's logger.
	Log LogConfig `json:"log" yaml:"log"`

	// Routes is the ordered route table; first match wins.
	Routes []RouteConfig `json:"routes" yaml:"routes"`
}

// LogConfig selects log level and format.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// JSON selects JSON log output over text.
	JSON bool `json:"json,omitempty" yaml:"json,omitempty"`
}

// RouteConfig declares one route and the resource behavior behind it.
// Everything beyond Path is optional; omissions fall back to the standard
// resource defaults.
type RouteConfig struct {
	// Path is the route pattern, e.g. "/items/{id}" or "/files/**".
	Path string `json:"path" yaml:"path"`

	// Methods lists the allowed methods. Default: GET.
	Methods []string `json:"methods,omitempty" yaml:"methods,omitempty"`

	// Auth protects the route with a bearer token or an HMAC JWT.
	Auth *AuthConfig `json:"auth,omitempty" yaml:"auth,omitempty"`

	// ETag is the entity tag of the current representation.
	ETag string `json:"etag,omitempty" yaml:"etag,omitempty"`

	// LastModified is an RFC 3339 timestamp for the Last-Modified
	// header and conditional matching.
	LastModified string `json:"lastModified,omitempty" yaml:"lastModified,omitempty"`

	// Expires is an RFC 3339 timestamp for the Expires header.
	Expires string `json:"expires,omitempty" yaml:"expires,omitempty"`

	// ExistsWhen, ForbiddenWhen, and ConflictWhen are expr expressions
	// evaluated per request against {method, path, params, query,
	// header}. Empty means the default answer.
	ExistsWhen    string `json:"existsWhen,omitempty" yaml:"existsWhen,omitempty"`
	ForbiddenWhen string `json:"forbiddenWhen,omitempty" yaml:"forbiddenWhen,omitempty"`
	ConflictWhen  string `json:"conflictWhen,omitempty" yaml:"conflictWhen,omitempty"`

	// BodySchema is an inline JSON Schema; request entities that fail
	// it are treated as malformed (400). Declaring a schema makes the
	// entity mandatory: an empty or non-JSON PUT/POST body is also 400.
	BodySchema string `json:"bodySchema,omitempty" yaml:"bodySchema,omitempty"`

	// Accepts lists the media types accepted in PUT/POST entities.
	// Default: application/json when those methods are allowed.
	Accepts []string `json:"accepts,omitempty" yaml:"accepts,omitempty"`

	// Charsets lists provided charsets in preference order. Empty
	// short-circuits charset negotiation.
	Charsets []string `json:"charsets,omitempty" yaml:"charsets,omitempty"`

	// Encodings lists provided content codings in preference order
	// (identity, gzip, deflate). Default: identity.
	Encodings []string `json:"encodings,omitempty" yaml:"encodings,omitempty"`

	// Languages lists provided language tags, matched against
	// Accept-Language. Empty means every language is available.
	Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"`

	// Variances adds extra header names to Vary.
	Variances []string `json:"variances,omitempty" yaml:"variances,omitempty"`

	// Representations declares one body per provided media type, in
	// negotiation preference order.
	Representations []Representation `json:"representations,omitempty" yaml:"representations,omitempty"`
}

// Representation is one provided media type and its body: either literal
// text or a structure rendered as JSON.
type Representation struct {
	ContentType string `json:"contentType" yaml:"contentType"`
	Body        string `json:"body,omitempty" yaml:"body,omitempty"`
	JSON        any    `json:"json,omitempty" yaml:"json,omitempty"`
}

// AuthConfig protects a route. BearerToken and JWTKey are mutually
// exclusive.
type AuthConfig struct {
	// BearerToken is a static token compared against Authorization:
	// Bearer.
	BearerToken string `json:"bearerToken,omitempty" yaml:"bearerToken,omitempty"`

	// JWTKey is the HMAC key for validating bearer JWTs.
	JWTKey string `json:"jwtKey,omitempty" yaml:"jwtKey,omitempty"`

	// JWTIssuer, when set, is enforced against the token's iss claim.
	JWTIssuer string `json:"jwtIssuer,omitempty" yaml:"jwtIssuer,omitempty"`

	// Realm names the protection space in the WWW-Authenticate
	// challenge. Default: "decider".
	Realm string `json:"realm,omitempty" yaml:"realm,omitempty"`
}

// ApplyDefaults fills the zero values with workable settings.
func (c *Config) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for structural problems, returning
// one error per route so all problems surface in a single run.
func (c *Config) Validate() []error {
	var errs []error
	if len(c.Routes) == 0 {
		errs = append(errs, fmt.Errorf("no routes configured"))
	}
	for i, rc := range c.Routes {
		if rc.Path == "" {
			errs = append(errs, fmt.Errorf("route %d: path is required", i))
		}
		if rc.Auth != nil && rc.Auth.BearerToken != "" && rc.Auth.JWTKey != "" {
			errs = append(errs, fmt.Errorf("route %d: bearerToken and jwtKey are mutually exclusive", i))
		}
		for j, rep := range rc.Representations {
			if rep.ContentType == "" {
				errs = append(errs, fmt.Errorf("route %d: representation %d: contentType is required", i, j))
			}
			if rep.Body != "" && rep.JSON != nil {
				errs = append(errs, fmt.Errorf("route %d: representation %d: body and json are mutually exclusive", i, j))
			}
		}
	}
	return errs
}
