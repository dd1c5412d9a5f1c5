package route

import "strings"

// ToEcho converts a route template to Echo route syntax.
// Converts: /users/{id:int} -> /users/:id
func ToEcho(template string) string {
	return convert(template, func(name string) string { return ":" + name })
}

// ToGin converts a route template to Gin route syntax.
// Converts: /posts/{slug}/comments/{id:int} -> /posts/:slug/comments/:id
func ToGin(template string) string {
	return convert(template, func(name string) string { return ":" + name })
}

// ToSwagger strips constraints and optional markers from a route template.
// Converts: /users/{id:int}/files/{name?} -> /users/{id}/files/{name}
func ToSwagger(template string) string {
	return convert(template, func(name string) string { return "{" + name + "}" })
}

// ToFiber converts a route template to Fiber route syntax, marking optional
// placeholders with a trailing '?'.
// Converts: /files/{name?} -> /files/:name?
func ToFiber(template string) string {
	var b strings.Builder
	last := 0
	for ph := range Placeholders(template) {
		b.WriteString(template[last:ph.Start])
		b.WriteString(":" + ph.Name)
		if ph.Optional {
			b.WriteString("?")
		}
		last = ph.End
	}
	b.WriteString(template[last:])
	return b.String()
}

func convert(template string, param func(name string) string) string {
	var b strings.Builder
	last := 0
	for ph := range Placeholders(template) {
		b.WriteString(template[last:ph.Start])
		b.WriteString(param(ph.Name))
		last = ph.End
	}
	b.WriteString(template[last:])
	return b.String()
}

// Join joins a controller prefix and a route path with exactly one separator
func Join(prefix, path string) string {
	if prefix == "" {
		return path
	}
	prefix = "/" + strings.Trim(prefix, "/")
	if path == "" || path == "/" {
		return prefix
	}
	return prefix + "/" + strings.TrimLeft(path, "/")
}
