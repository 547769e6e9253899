package templates

import (
	"github.com/Masterminds/sprig/v3"
	"github.com/cbroglie/mustache"
)

// lambdaFuncs maps lambda names to the sprig function each one applies to
// its rendered section.
var lambdaFuncs = map[string]string{
	"lowercase": "lower",
	"uppercase": "upper",
	"titlecase": "title",
	"camelcase": "camelcase",
	"snakecase": "snakecase",
	"kebabcase": "kebabcase",
}

// Lambdas returns the section lambdas available to every view, e.g.
// {{#lowercase}}{{classname}}{{/lowercase}}.
func Lambdas() map[string]any {
	funcs := sprig.GenericFuncMap()
	out := make(map[string]any, len(lambdaFuncs))
	for name, fn := range lambdaFuncs {
		apply, ok := funcs[fn].(func(string) string)
		if !ok {
			continue
		}
		out[name] = mustache.LambdaFunc(func(text string, render mustache.RenderFunc) (string, error) {
			s, err := render(text)
			if err != nil {
				return "", err
			}
			return apply(s), nil
		})
	}
	return out
}
