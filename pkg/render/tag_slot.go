package render

import (
	"bytes"
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-components/pkg/slots"
)

// {% slot NAME [required] [default] [key=expr ...] [group:key=expr ...] %}
//   ...inline default content...
// {% endslot %}
//
// Self-closing form: {% slot NAME ... / %}
//
// NAME is a string literal or bare identifier. Data expressions evaluate
// when the slot is encountered, against the component's resolved context,
// so they may reference the component's own data. group:key pairs are
// delivered to the fill as one nested map under the group name.

type slotDataExpr struct {
	group string
	key   string
	expr  pongo2.IEvaluator
}

type tagSlotNode struct {
	name       string
	required   bool
	hasDefault bool
	data       []slotDataExpr
	wrapper    *pongo2.NodeWrapper
	token      *pongo2.Token
}

func (node *tagSlotNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	fr, ok := frameFrom(ctx)
	if !ok {
		return ctx.Error("slot tag used outside a component render", node.token)
	}

	data, perr := node.evaluateData(ctx)
	if perr != nil {
		return perr
	}

	occ := slots.Occurrence{
		Declaration: slots.Declaration{
			Name:     node.name,
			Required: node.required,
			Default:  node.hasDefault,
			Data:     data,
		},
		Visible: fr.fillContext(),
		// The inline body renders under the component's own context,
		// not the fill's view of it.
		RenderDefault: func() (string, error) {
			return node.renderBody(ctx)
		},
		RenderContent: func(content string, visible map[string]any) (string, error) {
			return fr.pipeline.renderSnippet(content, visible, fr)
		},
		Sanitize: fr.pipeline.sanitizeFunc(),
	}

	out, err := fr.resolver.Resolve(occ)
	if err != nil {
		return ctx.OrigError(err, node.token)
	}
	if _, werr := writer.WriteString(out); werr != nil {
		return ctx.OrigError(werr, node.token)
	}
	return nil
}

func (node *tagSlotNode) renderBody(ctx *pongo2.ExecutionContext) (string, error) {
	if node.wrapper == nil {
		return "", nil
	}
	var b bytes.Buffer
	if perr := node.wrapper.Execute(ctx, &b); perr != nil {
		return "", perr
	}
	return b.String(), nil
}

func (node *tagSlotNode) evaluateData(ctx *pongo2.ExecutionContext) (map[string]any, *pongo2.Error) {
	if len(node.data) == 0 {
		return map[string]any{}, nil
	}
	data := make(map[string]any, len(node.data))
	for _, d := range node.data {
		val, perr := d.expr.Evaluate(ctx)
		if perr != nil {
			return nil, perr
		}
		if d.group == "" {
			data[d.key] = val.Interface()
			continue
		}
		sub, _ := data[d.group].(map[string]any)
		if sub == nil {
			sub = map[string]any{}
			data[d.group] = sub
		}
		sub[d.key] = val.Interface()
	}
	return data, nil
}

func slotTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node := &tagSlotNode{token: start}

	nameToken := arguments.MatchType(pongo2.TokenString)
	if nameToken == nil {
		nameToken = arguments.MatchType(pongo2.TokenIdentifier)
	}
	if nameToken == nil {
		return nil, arguments.Error("slot tag requires a name as its first argument", start)
	}
	node.name = nameToken.Val

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
			return nil, arguments.Error("expected a flag or key=value pair", arguments.Current())
		}

		switch {
		case arguments.Match(pongo2.TokenSymbol, ":") != nil:
			keyToken := arguments.MatchType(pongo2.TokenIdentifier)
			if keyToken == nil {
				return nil, arguments.Error("expected a key after ':'", arguments.Current())
			}
			if arguments.Match(pongo2.TokenSymbol, "=") == nil {
				return nil, arguments.Error("expected '=' after data key", arguments.Current())
			}
			expr, err := arguments.ParseExpression()
			if err != nil {
				return nil, err
			}
			node.data = append(node.data, slotDataExpr{group: ident.Val, key: keyToken.Val, expr: expr})

		case arguments.Match(pongo2.TokenSymbol, "=") != nil:
			expr, err := arguments.ParseExpression()
			if err != nil {
				return nil, err
			}
			node.data = append(node.data, slotDataExpr{key: ident.Val, expr: expr})

		default:
			switch ident.Val {
			case "required":
				node.required = true
			case "default":
				node.hasDefault = true
			default:
				return nil, arguments.Error(fmt.Sprintf("unknown slot flag %q", ident.Val), ident)
			}
		}
	}

	if !selfClosing {
		wrapper, endArgs, err := doc.WrapUntilTag("endslot")
		if err != nil {
			return nil, err
		}
		if endArgs.Remaining() > 0 {
			return nil, endArgs.Error("endslot takes no arguments", nil)
		}
		node.wrapper = wrapper
	}

	return node, nil
}
