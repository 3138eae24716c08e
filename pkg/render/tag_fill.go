package render

import (
	"bytes"
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-components/pkg/slots"
)

// {% fill "header" [data="varname"] %}...{% endfill %}
//
// Valid only inside a component tag body. The fill body renders lazily,
// when the nested component reaches the matching slot, under the context
// visible at the slot site. data= binds the slot's emitted data to a
// variable inside the body.

type tagFillNode struct {
	name    string
	dataVar string
	wrapper *pongo2.NodeWrapper
	token   *pongo2.Token
}

func (node *tagFillNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	collector, ok := ctx.Private[fillCollectorKey].(*fillCollector)
	if !ok {
		return ctx.Error("fill tag must appear inside a component tag", node.token)
	}
	if _, exists := collector.fills[node.name]; exists {
		return ctx.Error(fmt.Sprintf("duplicate fill %q", node.name), node.token)
	}

	caller := ctx
	wrapper := node.wrapper
	dataVar := node.dataVar

	collector.fills[node.name] = slots.Body(func(visible, data map[string]any) (string, error) {
		sub := pongo2.NewChildExecutionContext(caller)
		// The fill body runs at the slot site, outside fill collection, so
		// nested component tags are legal again here.
		delete(sub.Private, fillCollectorKey)
		pub := make(pongo2.Context, len(visible)+1)
		for key, value := range visible {
			pub[key] = value
		}
		if fr, ok := frameFrom(caller); ok {
			pub[frameKey] = fr
		}
		sub.Public = pub
		if dataVar != "" {
			sub.Private[dataVar] = data
		}
		var b bytes.Buffer
		if perr := wrapper.Execute(sub, &b); perr != nil {
			return "", perr
		}
		return b.String(), nil
	})
	return nil
}

func fillTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node := &tagFillNode{token: start}

	nameToken := arguments.MatchType(pongo2.TokenString)
	if nameToken == nil {
		nameToken = arguments.MatchType(pongo2.TokenIdentifier)
	}
	if nameToken == nil {
		return nil, arguments.Error("fill tag requires a slot name as its first argument", start)
	}
	node.name = nameToken.Val

	if arguments.Match(pongo2.TokenIdentifier, "data") != nil {
		if arguments.Match(pongo2.TokenSymbol, "=") == nil {
			return nil, arguments.Error("expected '=' after data", arguments.Current())
		}
		varToken := arguments.MatchType(pongo2.TokenString)
		if varToken == nil {
			return nil, arguments.Error("expected a variable name string after data=", arguments.Current())
		}
		node.dataVar = varToken.Val
	}

	if arguments.Remaining() > 0 {
		return nil, arguments.Error("unexpected fill tag arguments", arguments.Current())
	}

	wrapper, endArgs, err := doc.WrapUntilTag("endfill")
	if err != nil {
		return nil, err
	}
	if endArgs.Remaining() > 0 {
		return nil, endArgs.Error("endfill takes no arguments", nil)
	}
	node.wrapper = wrapper

	return node, nil
}
