package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-components/pkg/slots"
)

// {% component "card" title="Hello" count=3 %}
//   {% fill "header" %}...{% endfill %}
// {% endcomponent %}
//
// Self-closing form: {% component "card" ... / %}
//
// The name is a string literal or a name= keyword argument. Keyword
// arguments evaluate in the caller's context and become the nested
// component's named arguments. The body may hold only fill tags and
// whitespace; anything else is an error.

type componentArg struct {
	key  string
	expr pongo2.IEvaluator
}

type tagComponentNode struct {
	name     string
	nameExpr pongo2.IEvaluator
	kwargs   []componentArg
	wrapper  *pongo2.NodeWrapper
	token    *pongo2.Token
}

func (node *tagComponentNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	fr, ok := frameFrom(ctx)
	if !ok {
		return ctx.Error("component tag used outside a component render", node.token)
	}
	if _, collecting := ctx.Private[fillCollectorKey].(*fillCollector); collecting {
		return ctx.Error("component tag may not appear directly in a component tag body; wrap it in a fill tag", node.token)
	}

	name := node.name
	if name == "" && node.nameExpr != nil {
		val, perr := node.nameExpr.Evaluate(ctx)
		if perr != nil {
			return perr
		}
		name = val.String()
	}
	if name == "" {
		return ctx.Error("component tag requires a component name", node.token)
	}

	if fr.pipeline.registry == nil {
		return ctx.Error("no component registry configured", node.token)
	}
	def, err := fr.pipeline.registry.Get(name)
	if err != nil {
		return ctx.OrigError(err, node.token)
	}

	kwargs := make(map[string]any, len(node.kwargs))
	for _, arg := range node.kwargs {
		val, perr := arg.expr.Evaluate(ctx)
		if perr != nil {
			return perr
		}
		kwargs[arg.key] = val.Interface()
	}

	fills := map[string]slots.Fill{}
	if node.wrapper != nil {
		collector := &fillCollector{fills: fills}
		sub := pongo2.NewChildExecutionContext(ctx)
		sub.Private[fillCollectorKey] = collector
		var body bytes.Buffer
		if perr := node.wrapper.Execute(sub, &body); perr != nil {
			return perr
		}
		if strings.TrimSpace(body.String()) != "" {
			return ctx.Error(fmt.Sprintf("unexpected content in component %q body; only fill tags are allowed", name), node.token)
		}
	}

	if err := fr.pipeline.renderComponent(writer, def, nil, kwargs, fr.chain, fills, fr.collector, fr.depth+1); err != nil {
		return ctx.OrigError(err, node.token)
	}
	return nil
}

func componentTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node := &tagComponentNode{token: start}

	if nameToken := arguments.MatchType(pongo2.TokenString); nameToken != nil {
		node.name = nameToken.Val
	}

	selfClosing := false
	for arguments.Remaining() > 0 {
		if arguments.Match(pongo2.TokenSymbol, "/") != nil {
			if arguments.Remaining() > 0 {
				return nil, arguments.Error("unexpected arguments after '/'", arguments.Current())
			}
			selfClosing = true
			break
		}

		ident := arguments.MatchType(pongo2.TokenIdentifier)
		if ident == nil {
			return nil, arguments.Error("expected a key=value pair", arguments.Current())
		}
		if arguments.Match(pongo2.TokenSymbol, "=") == nil {
			return nil, arguments.Error("expected '=' after argument name", arguments.Current())
		}
		expr, err := arguments.ParseExpression()
		if err != nil {
			return nil, err
		}

		if ident.Val == "name" && node.name == "" && node.nameExpr == nil {
			node.nameExpr = expr
			continue
		}
		node.kwargs = append(node.kwargs, componentArg{key: ident.Val, expr: expr})
	}

	if node.name == "" && node.nameExpr == nil {
		return nil, arguments.Error("component tag requires a component name", start)
	}

	if !selfClosing {
		wrapper, endArgs, err := doc.WrapUntilTag("endcomponent")
		if err != nil {
			return nil, err
		}
		if endArgs.Remaining() > 0 {
			return nil, endArgs.Error("endcomponent takes no arguments", nil)
		}
		node.wrapper = wrapper
	}

	return node, nil
}
