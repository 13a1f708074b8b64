// Package script lets users define validation rules in a small,
// sandboxed Lisp (zygomys). A script rule evaluates an expression
// against one object and the validation context; the expression's
// value decides whether the rule produces findings.
//
// Scripts read object and room attributes through the (attr "name")
// builtin, e.g.:
//
//	(> (attr "pos-z") 0.0)
//	(if (> (attr "height") (attr "room-height")) "object taller than room" true)
//
// Evaluation semantics: true or null means the object passes; false
// produces one finding with the rule's default message; a string
// produces one finding with that string as the message; a list of
// strings produces one finding per string.
package script

import (
	"fmt"
	"strings"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/galley/pkg/catalog"
	"github.com/chazu/galley/pkg/scene"
	"github.com/chazu/galley/pkg/validation"
)

// EvalTimeout is the hard limit for a single script evaluation.
const EvalTimeout = 2 * time.Second

// Compile-time interface check.
var _ validation.Rule = (*Rule)(nil)

// Rule is a validation.Rule whose logic is a user-supplied Lisp
// expression. Each evaluation runs in a fresh sandboxed environment
// for determinism; user code cannot touch the filesystem or syscalls.
type Rule struct {
	id       string
	severity validation.Severity
	source   string
	message  string
}

// NewRule creates a script rule. The message is used for findings
// when the script returns plain false; pass empty for a generic one.
func NewRule(id string, severity validation.Severity, source, message string) *Rule {
	if message == "" {
		message = "script rule failed"
	}
	return &Rule{id: id, severity: severity, source: source, message: message}
}

func (r *Rule) ID() string                       { return r.id }
func (r *Rule) Severity() validation.Severity    { return r.severity }
func (r *Rule) AppliesTo(obj *scene.Object) bool { return obj != nil }

// Validate evaluates the script against obj. Script errors (parse
// failures, runtime errors, panics, timeouts) surface as a single
// Error finding tagged with this rule's id rather than aborting the
// validation pass.
func (r *Rule) Validate(obj *scene.Object, ctx *validation.Context) []validation.ValidationError {
	result, err := r.eval(obj, ctx)
	if err != nil {
		return []validation.ValidationError{{
			Severity: validation.SeverityError,
			Message:  fmt.Sprintf("script error: %v", err),
			ObjectID: obj.ID,
			RuleID:   r.id,
		}}
	}
	return r.interpret(obj, result)
}

type evalResult struct {
	sexp zygo.Sexp
	err  error
}

// eval runs the script in a fresh sandbox with a hard timeout. The
// goroutine may outlive a timeout; its result is simply dropped.
func (r *Rule) eval(obj *scene.Object, ctx *validation.Context) (zygo.Sexp, error) {
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", rec)}
			}
		}()

		env := zygo.NewZlispSandbox()
		defer env.Stop()
		registerAttrs(env, obj, ctx)

		if err := env.LoadString(preprocess(r.source)); err != nil {
			ch <- evalResult{err: err}
			return
		}
		sexp, err := env.Run()
		ch <- evalResult{sexp: sexp, err: err}
	}()

	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()
	select {
	case res := <-ch:
		return res.sexp, res.err
	case <-timer.C:
		return nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}

// interpret maps the script's result value onto findings.
func (r *Rule) interpret(obj *scene.Object, sexp zygo.Sexp) []validation.ValidationError {
	finding := func(msg string) validation.ValidationError {
		return validation.ValidationError{
			Severity: r.severity,
			Message:  msg,
			ObjectID: obj.ID,
			Location: obj.Transform.Translation,
			RuleID:   r.id,
		}
	}

	switch v := sexp.(type) {
	case nil:
		return nil
	case *zygo.SexpSentinel:
		return nil
	case *zygo.SexpBool:
		if v.Val {
			return nil
		}
		return []validation.ValidationError{finding(r.message)}
	case *zygo.SexpStr:
		return []validation.ValidationError{finding(v.S)}
	case *zygo.SexpArray:
		var findings []validation.ValidationError
		for _, item := range v.Val {
			if str, ok := item.(*zygo.SexpStr); ok {
				findings = append(findings, finding(str.S))
			}
		}
		return findings
	case *zygo.SexpPair:
		items, err := zygo.ListToArray(v)
		if err != nil {
			return []validation.ValidationError{finding(r.message)}
		}
		var findings []validation.ValidationError
		for _, item := range items {
			if str, ok := item.(*zygo.SexpStr); ok {
				findings = append(findings, finding(str.S))
			}
		}
		return findings
	default:
		// Any other value (numbers included) counts as passing.
		return nil
	}
}

// registerAttrs installs the (attr "name") builtin exposing object and
// room attributes to the script.
func registerAttrs(env *zygo.Zlisp, obj *scene.Object, ctx *validation.Context) {
	numbers := map[string]float64{
		"pos-x":   obj.Transform.Translation[0],
		"pos-y":   obj.Transform.Translation[1],
		"pos-z":   obj.Transform.Translation[2],
		"rot-x":   obj.Transform.Rotation[0],
		"rot-y":   obj.Transform.Rotation[1],
		"rot-z":   obj.Transform.Rotation[2],
		"scale-x": obj.Transform.Scale[0],
		"scale-y": obj.Transform.Scale[1],
		"scale-z": obj.Transform.Scale[2],
	}

	dims := [3]float64{1, 1, 1}
	if item, ok := catalog.Lookup(obj.CatalogRef); ok {
		dims = [3]float64{item.Width, item.Depth, item.Height}
	}
	numbers["width"] = dims[0] * obj.Transform.Scale[0]
	numbers["depth"] = dims[1] * obj.Transform.Scale[1]
	numbers["height"] = dims[2] * obj.Transform.Scale[2]

	if ctx != nil && ctx.Project != nil {
		numbers["room-width"] = ctx.Project.Room.Width
		numbers["room-depth"] = ctx.Project.Room.Depth
		numbers["room-height"] = ctx.Project.Room.Height
	}

	strs := map[string]string{
		"id":          obj.ID,
		"name":        obj.Name,
		"catalog-ref": obj.CatalogRef,
		"category":    catalog.CategoryOf(obj.CatalogRef).String(),
	}

	env.AddFunction("attr", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("attr requires exactly 1 argument, got %d", len(args))
		}
		str, ok := args[0].(*zygo.SexpStr)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("attr: expected attribute name string, got %T", args[0])
		}
		key := str.S
		if n, ok := numbers[key]; ok {
			return &zygo.SexpFloat{Val: n}, nil
		}
		if s, ok := strs[key]; ok {
			return &zygo.SexpStr{S: s}, nil
		}
		return zygo.SexpNull, fmt.Errorf("attr: unknown attribute %q", key)
	})
}

// preprocess converts traditional Lisp ; line comments to the // form
// zygomys expects, respecting string literal boundaries.
func preprocess(source string) string {
	var b strings.Builder
	b.Grow(len(source))
	inString := false
	i := 0
	for i < len(source) {
		c := source[i]
		switch {
		case c == '"':
			inString = !inString
			b.WriteByte(c)
			i++
		case c == '\\' && inString && i+1 < len(source):
			b.WriteByte(c)
			b.WriteByte(source[i+1])
			i += 2
		case c == ';' && !inString:
			b.WriteString("//")
			for i < len(source) && source[i] == ';' {
				i++
			}
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
