package swaggerkit

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Param documents one path or query parameter
type Param struct {
	Name     string
	In       string // "path" | "query"
	Type     string // "string" | "integer" | "boolean"
	Required bool
	Desc     string
}

// Op documents one operation under /api/v1
type Op struct {
	Method  string
	Path    string
	Tag     string
	Summary string
	Secure  bool
	Params  []Param
	// Body names a request body schema registered with Schema
	Body string
}

var (
	mu      sync.Mutex
	ops     = map[string]Op{}
	schemas = map[string]map[string]any{}
)

// Register records op; the last registration for a method and path wins
func Register(op Op) {
	mu.Lock()
	defer mu.Unlock()
	ops[strings.ToLower(op.Method)+" "+op.Path] = op
}

// Schema records a named JSON schema object referenced by Op.Body
func Schema(name string, schema map[string]any) {
	mu.Lock()
	defer mu.Unlock()
	schemas[name] = schema
}

// Reset clears the document; tests only
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ops = map[string]Op{}
	schemas = map[string]map[string]any{}
}

// Document renders the OpenAPI 3.0 document
func Document(title, version string) map[string]any {
	mu.Lock()
	defer mu.Unlock()

	keys := make([]string, 0, len(ops))
	for k := range ops {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	paths := map[string]any{}
	for _, k := range keys {
		op := ops[k]
		node, _ := paths[op.Path].(map[string]any)
		if node == nil {
			node = map[string]any{}
			paths[op.Path] = node
		}
		node[strings.ToLower(op.Method)] = operation(op)
	}

	comps := map[string]any{
		"schemas": componentSchemas(),
		"securitySchemes": map[string]any{
			"bearer": map[string]any{"type": "http", "scheme": "bearer"},
		},
	}
	return map[string]any{
		"openapi":    "3.0.3",
		"info":       map[string]any{"title": title, "version": version},
		"servers":    []any{map[string]any{"url": "/api/v1"}},
		"paths":      paths,
		"components": comps,
	}
}

func operation(op Op) map[string]any {
	out := map[string]any{
		"summary":   op.Summary,
		"responses": responses(op.Secure),
	}
	if op.Tag != "" {
		out["tags"] = []any{op.Tag}
	}
	if op.Secure {
		out["security"] = []any{map[string]any{"bearer": []any{}}}
	}
	if len(op.Params) > 0 {
		params := make([]any, 0, len(op.Params))
		for _, p := range op.Params {
			params = append(params, map[string]any{
				"name":        p.Name,
				"in":          p.In,
				"required":    p.Required || p.In == "path",
				"description": p.Desc,
				"schema":      map[string]any{"type": p.Type},
			})
		}
		out["parameters"] = params
	}
	if op.Body != "" {
		out["requestBody"] = map[string]any{
			"required": true,
			"content": map[string]any{
				"application/json": map[string]any{"schema": ref(op.Body)},
			},
		}
	}
	return out
}

func responses(secure bool) map[string]any {
	errResp := func(desc string) map[string]any {
		return map[string]any{
			"description": desc,
			"content": map[string]any{
				"application/json": map[string]any{"schema": ref("Envelope")},
			},
		}
	}
	out := map[string]any{
		"200": errResp("OK"),
		"400": errResp("Bad Request"),
		"500": errResp("Internal Server Error"),
		"503": errResp("Service Unavailable"),
	}
	if secure {
		out["401"] = errResp("Unauthorized")
	}
	return out
}

func componentSchemas() map[string]any {
	out := map[string]any{
		"Envelope": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status_code": map[string]any{"type": "integer"},
				"status":      map[string]any{"type": "string"},
				"code":        map[string]any{"type": "integer"},
				"error":       map[string]any{"type": "string"},
				"field":       map[string]any{"type": "string"},
				"request_id":  map[string]any{"type": "string"},
				"data":        map[string]any{},
			},
			"required": []any{"status_code", "status"},
		},
	}
	for name, s := range schemas {
		out[name] = s
	}
	return out
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func serveDocJSON(title, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(Document(title, version))
	}
}
