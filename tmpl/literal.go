package tmpl

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"
)

// ParseLiteral evaluates src as an expression and converts the result with
// [FromNative]. Expressions may refer to the members of c by name and to the
// process environment with env("NAME") unless c has a member named env.
//
//	ParseLiteral(`true`, c)              // Boolean
//	ParseLiteral(`["a", "b"]`, c)        // List
//	ParseLiteral(`{"k": "v"}`, c)        // Object
//	ParseLiteral(`1 + 2`, c)             // String "3"
//	ParseLiteral(`name + "!"`, c)        // String from a member of c
//
// Anything that does not compile or evaluate is taken verbatim as a String,
// so bare words need no quoting.
func ParseLiteral(src string, c Context) Value {
	if src == "" {
		return String(src)
	}

	env, _ := ToNative(c.Value()).(map[string]any)
	if _, ok := env["env"]; !ok {
		env["env"] = os.Getenv
	}

	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return String(src)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return String(src)
	}

	v, err := FromNative(out)
	if err != nil {
		return String(fmt.Sprint(out))
	}

	return v
}
