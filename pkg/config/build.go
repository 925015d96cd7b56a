package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getdecider/decider/internal/conneg"
	"github.com/getdecider/decider/pkg/resource"
	"github.com/getdecider/decider/pkg/route"
	"github.com/getdecider/decider/pkg/walk"
)

// BuildRouter compiles every route entry into a resource and registers it.
// Expressions and schemas are compiled once here, not per request.
func BuildRouter(cfg *Config) (*route.Router, error) {
	rt := route.New()
	for i, rc := range cfg.Routes {
		res, err := BuildResource(rc)
		if err != nil {
			return nil, fmt.Errorf("route %d (%s): %w", i, rc.Path, err)
		}
		if err := rt.Handle(rc.Path, res); err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
	}
	return rt, nil
}

// BuildResource compiles one route entry into a Resource, starting from
// the standard defaults and overriding only what the entry declares.
func BuildResource(rc RouteConfig) (*resource.Resource, error) {
	r := resource.Default()
	r.ContentHeadersValid = resource.ValidContentHeaders()

	if len(rc.Methods) > 0 {
		methods := normalizeMethods(rc.Methods)
		r.AllowedMethods = resource.Const(methods)
		if slices.Contains(methods, http.MethodOptions) {
			r.Options = resource.Const(map[string]string{
				"Allow": strings.Join(methods, ", "),
			})
		}
	}

	if rc.Auth != nil {
		realm := rc.Auth.Realm
		if realm == "" {
			realm = "decider"
		}
		switch {
		case rc.Auth.JWTKey != "":
			r.IsAuthorized = resource.JWTAuthorizer([]byte(rc.Auth.JWTKey), rc.Auth.JWTIssuer, realm)
		case rc.Auth.BearerToken != "":
			r.IsAuthorized = resource.BearerAuthorizer(rc.Auth.BearerToken, realm)
		}
	}

	if rc.ETag != "" {
		r.GenerateETag = resource.Const(rc.ETag)
	}
	if rc.LastModified != "" {
		t, err := time.Parse(time.RFC3339, rc.LastModified)
		if err != nil {
			return nil, fmt.Errorf("lastModified: %w", err)
		}
		r.LastModified = resource.Const(t)
	}
	if rc.Expires != "" {
		t, err := time.Parse(time.RFC3339, rc.Expires)
		if err != nil {
			return nil, fmt.Errorf("expires: %w", err)
		}
		r.Expires = resource.Const(t)
	}

	if rc.ExistsWhen != "" {
		hook, err := guardHook(rc.ExistsWhen)
		if err != nil {
			return nil, fmt.Errorf("existsWhen: %w", err)
		}
		r.ResourceExists = hook
	}
	if rc.ForbiddenWhen != "" {
		hook, err := guardHook(rc.ForbiddenWhen)
		if err != nil {
			return nil, fmt.Errorf("forbiddenWhen: %w", err)
		}
		r.IsForbidden = hook
	}
	if rc.ConflictWhen != "" {
		hook, err := guardHook(rc.ConflictWhen)
		if err != nil {
			return nil, fmt.Errorf("conflictWhen: %w", err)
		}
		r.IsConflict = hook
	}

	if rc.BodySchema != "" {
		schema, err := jsonschema.CompileString("route.schema.json", rc.BodySchema)
		if err != nil {
			return nil, fmt.Errorf("bodySchema: %w", err)
		}
		r.IsMalformed = schemaHook(schema)
	}

	if len(rc.Representations) > 0 {
		provided := make([]resource.MediaType, 0, len(rc.Representations))
		for _, rep := range rc.Representations {
			mt := resource.MediaType{Type: rep.ContentType}
			if rep.JSON != nil {
				mt.Render = resource.JSONRenderer(rep.JSON)
			} else {
				mt.Render = resource.StaticRenderer([]byte(rep.Body))
			}
			provided = append(provided, mt)
		}
		r.ContentTypesProvided = resource.Const(provided)
	}

	if len(rc.Charsets) > 0 {
		charsets := resource.Charsets(rc.Charsets...)
		if len(charsets) != len(rc.Charsets) {
			return nil, fmt.Errorf("charsets: unknown charset in %v", rc.Charsets)
		}
		r.CharsetsProvided = resource.Const(charsets)
	}

	if len(rc.Encodings) > 0 {
		encodings := make([]resource.Encoding, 0, len(rc.Encodings))
		for _, name := range rc.Encodings {
			enc, ok := resource.EncodingByName(name)
			if !ok {
				return nil, fmt.Errorf("encodings: unknown coding %q", name)
			}
			encodings = append(encodings, enc)
		}
		r.EncodingsProvided = resource.Const(encodings)
	}

	if len(rc.Languages) > 0 {
		langs := rc.Languages
		r.IsLanguageAvailable = func(c walk.Context) (walk.Result[bool], walk.Context) {
			_, ok := conneg.BestLanguage(c.Req.GetHeader("Accept-Language"), langs)
			return walk.Value(ok), c
		}
	}

	if len(rc.Variances) > 0 {
		r.Variances = resource.Const(rc.Variances)
	}

	// State-changing methods need an accepted-type handler; without
	// storage behind it the handler just acknowledges the entity.
	if methodsNeedEntity(rc.Methods) {
		accepts := rc.Accepts
		if len(accepts) == 0 {
			accepts = []string{"application/json"}
		}
		accepted := make([]resource.Accepted, 0, len(accepts))
		for _, ct := range accepts {
			accepted = append(accepted, resource.Accepted{
				Type:   ct,
				Handle: resource.Const(true),
			})
		}
		r.ContentTypesAccepted = resource.Const(accepted)
		r.ProcessPost = resource.Const(true)
		r.DeleteResource = resource.Const(true)
	}

	return r, nil
}

func normalizeMethods(methods []string) []string {
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = strings.ToUpper(strings.TrimSpace(m))
	}
	return out
}

func methodsNeedEntity(methods []string) bool {
	for _, m := range normalizeMethods(methods) {
		switch m {
		case http.MethodPut, http.MethodPost, http.MethodDelete:
			return true
		}
	}
	return false
}

// guardHook compiles an expr expression into a boolean hook. The
// expression sees method, path, params, query, and header.
func guardHook(code string) (resource.Hook[bool], error) {
	program, err := expr.Compile(code, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return exprHook(program), nil
}

func exprHook(program *vm.Program) resource.Hook[bool] {
	return func(c walk.Context) (walk.Result[bool], walk.Context) {
		out, err := expr.Run(program, exprEnv(c))
		if err != nil {
			return walk.Error[bool](err), c
		}
		b, _ := out.(bool)
		return walk.Value(b), c
	}
}

// exprEnv flattens the request snapshot for expression evaluation. Query
// and header maps carry first values only; header keys are lowercased.
func exprEnv(c walk.Context) map[string]any {
	params := map[string]string{}
	for k, v := range c.Req.PathParams {
		params[k] = v
	}
	query := map[string]string{}
	for k, v := range c.Req.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	hdr := map[string]string{}
	for k, v := range c.Req.Header {
		if len(v) > 0 {
			hdr[strings.ToLower(k)] = v[0]
		}
	}
	return map[string]any{
		"method": c.Req.Method,
		"path":   c.Req.Path,
		"params": params,
		"query":  query,
		"header": hdr,
	}
}

// schemaHook treats request entities that fail the schema as malformed.
// An empty or unparseable entity on a schema'd method is malformed too:
// declaring a schema makes the entity mandatory. Methods without a request
// entity always pass.
func schemaHook(schema *jsonschema.Schema) resource.Hook[bool] {
	return func(c walk.Context) (walk.Result[bool], walk.Context) {
		switch c.Req.Method {
		case http.MethodPut, http.MethodPost, http.MethodPatch:
		default:
			return walk.Value(false), c
		}
		if len(c.Req.Body) == 0 {
			return walk.Value(true), c
		}
		var doc any
		if err := json.Unmarshal(c.Req.Body, &doc); err != nil {
			return walk.Value(true), c
		}
		if err := schema.Validate(doc); err != nil {
			return walk.Value(true), c
		}
		return walk.Value(false), c
	}
}
