package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-components/pkg/assets"
	"github.com/goliatone/go-components/pkg/component"
	"github.com/goliatone/go-components/pkg/registry"
	"github.com/goliatone/go-components/pkg/scope"
	"github.com/goliatone/go-components/pkg/slots"
)

func newTestPipeline(t *testing.T, options ...Option) *Pipeline {
	t.Helper()
	p, err := New(options...)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func TestRenderInlineDefinition(t *testing.T) {
	p := newTestPipeline(t)

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "greeting",
			Source:        "<p>Hello {{ name }}</p>",
			DataFunc: func(in component.Input) (map[string]any, error) {
				return map[string]any{"name": in.Kwarg("name")}, nil
			},
		},
		Kwargs: map[string]any{"name": "world"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "<p>Hello world</p>" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestNewWithoutTemplateLoader(t *testing.T) {
	p, err := New(WithRegistry(registry.New()))
	if err != nil {
		t.Fatalf("loader-less pipeline must construct: %v", err)
	}

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{ComponentName: "inline", Source: "ok"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "ok" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestRenderRegisteredComponent(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "badge",
		Source:        "<span>{{ label }}</span>",
		StaticData:    map[string]any{"label": "new"},
	})
	p := newTestPipeline(t, WithRegistry(reg))

	html, err := p.Render(context.Background(), Request{Component: "badge"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "<span>new</span>" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestRenderRequestValidation(t *testing.T) {
	p := newTestPipeline(t)

	if _, err := p.Render(nil, Request{}); err == nil { //nolint:staticcheck
		t.Fatalf("nil context must be rejected")
	}
	if _, err := p.Render(context.Background(), Request{}); err == nil {
		t.Fatalf("a request without component or definition must fail")
	}
	if _, err := p.Render(context.Background(), Request{Component: "card"}); err == nil {
		t.Fatalf("registry-less pipeline must reject lookups by name")
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Render(canceled, Request{Component: "card"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled context must abort the render, got %v", err)
	}
}

func TestRenderUnknownComponent(t *testing.T) {
	p := newTestPipeline(t, WithRegistry(registry.New()))

	_, err := p.Render(context.Background(), Request{Component: "ghost"})
	if err == nil || !strings.Contains(err.Error(), `"ghost"`) {
		t.Fatalf("unknown component must fail by name, got %v", err)
	}
}

func TestRenderRequiredSlotWithoutFill(t *testing.T) {
	p := newTestPipeline(t)

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "strict",
			Source:        `<div>{% slot "first" required / %}</div>`,
		},
	})
	if err == nil {
		t.Fatalf("required slot without a fill must fail the render")
	}
	if html != "" {
		t.Fatalf("failed render must produce no partial output, got %q", html)
	}

	var resErr *slots.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("want *slots.ResolutionError, got %T: %v", err, err)
	}
	if resErr.Slot != "first" {
		t.Fatalf("error must name the slot: got %q", resErr.Slot)
	}
}

func TestRenderRequiredSlotWithFill(t *testing.T) {
	p := newTestPipeline(t)

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "strict",
			Source:        `<div>{% slot "first" required / %}</div>`,
		},
		Fills: map[string]any{"first": "X"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "X") {
		t.Fatalf("fill content missing from %q", html)
	}
}

func TestRenderFillWinsOverDefault(t *testing.T) {
	p := newTestPipeline(t)

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "card",
			Source:        `{% slot "header" default %}FALLBACK{% endslot %}`,
		},
		Fills: map[string]any{"header": "FILLED"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "FILLED" {
		t.Fatalf("fill must replace the default body, got %q", html)
	}
}

func TestRenderDefaultBodyUsesComponentContext(t *testing.T) {
	p := newTestPipeline(t)

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "card",
			Source:        `{% slot "header" default %}{{ name }}{% endslot %}`,
			StaticData:    map[string]any{"name": "component"},
		},
		Context: map[string]any{"name": "caller"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "component" {
		t.Fatalf("default body must bind the component's own data, got %q", html)
	}
}

func TestRenderOptionalSlotWithoutFillIsEmpty(t *testing.T) {
	p := newTestPipeline(t)

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "card",
			Source:        `a{% slot "extra" %}ignored{% endslot %}b`,
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "ab" {
		t.Fatalf("slot without default flag must render empty, got %q", html)
	}
}

func TestRenderSlotDataRoundTrip(t *testing.T) {
	p := newTestPipeline(t)

	var gotData map[string]any
	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "table",
			Source:        `{% slot "first" required data1="abc" data2:hello="world" data2:one=123 %}SLOT_DEFAULT{% endslot %}`,
		},
		Fills: map[string]any{
			"first": func(_, data map[string]any, ref *slots.SlotRef) (any, error) {
				gotData = data
				return fmt.Sprintf("FROM_INSIDE_FIRST_SLOT | %s", ref), nil
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "FROM_INSIDE_FIRST_SLOT | SLOT_DEFAULT" {
		t.Fatalf("unexpected output %q", html)
	}

	wantData := map[string]any{
		"data1": "abc",
		"data2": map[string]any{"hello": "world", "one": 123},
	}
	if diff := cmp.Diff(wantData, gotData); diff != "" {
		t.Fatalf("slot data mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSlotDataFromComponentData(t *testing.T) {
	p := newTestPipeline(t)

	var gotData map[string]any
	_, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "table",
			Source:        `{% slot "row" value=item / %}`,
			StaticData:    map[string]any{"item": "from-data"},
		},
		Fills: map[string]any{
			"row": func(_, data map[string]any, _ *slots.SlotRef) (any, error) {
				gotData = data
				return "", nil
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"value": "from-data"}, gotData); diff != "" {
		t.Fatalf("slot data mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderRepeatedSlotInLoop(t *testing.T) {
	p := newTestPipeline(t)

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "list",
			Source:        `{% for item in items %}{% slot "row" value=item / %}{% endfor %}`,
			StaticData:    map[string]any{"items": []string{"a", "b", "c"}},
		},
		Fills: map[string]any{
			"row": func(_, data map[string]any, _ *slots.SlotRef) (any, error) {
				return fmt.Sprintf("[%v]", data["value"]), nil
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "[a][b][c]" {
		t.Fatalf("each occurrence must resolve with its own data, got %q", html)
	}
}

func TestRenderFuncFillWrapsDefault(t *testing.T) {
	p := newTestPipeline(t)

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "card",
			Source:        `{% slot "body" default %}DEFAULT{% endslot %}`,
		},
		Fills: map[string]any{
			"body": func(_, _ map[string]any, ref *slots.SlotRef) (any, error) {
				return fmt.Sprintf("WRAP[%s]", ref), nil
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "WRAP[DEFAULT]" {
		t.Fatalf("want WRAP[DEFAULT], got %q", html)
	}
}

func TestRenderStaticFillEvaluatesTemplateSource(t *testing.T) {
	p := newTestPipeline(t)

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "card",
			Source:        `{% slot "header" / %}`,
			StaticData:    map[string]any{"title": "Report"},
		},
		Fills: map[string]any{"header": "Title: {{ title }}"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "Title: Report" {
		t.Fatalf("static fill must render under the slot-visible context, got %q", html)
	}
}

func TestRenderFillVisibilityByBehavior(t *testing.T) {
	def := &component.Def{
		ComponentName: "card",
		Source:        `{% slot "header" / %}`,
		StaticData:    map[string]any{"the_data": "component"},
	}
	req := func(capture *map[string]any) Request {
		return Request{
			Definition: def,
			Context:    map[string]any{"abc": "def"},
			Fills: map[string]any{
				"header": func(visible, _ map[string]any, _ *slots.SlotRef) (any, error) {
					*capture = visible
					return "", nil
				},
			},
		}
	}

	t.Run("django", func(t *testing.T) {
		p := newTestPipeline(t, WithContextBehavior(scope.BehaviorDjango))
		var visible map[string]any
		if _, err := p.Render(context.Background(), req(&visible)); err != nil {
			t.Fatalf("render: %v", err)
		}
		if visible["abc"] != "def" || visible["the_data"] != "component" {
			t.Fatalf("django fills see root and component data: %v", visible)
		}
	})

	t.Run("isolated", func(t *testing.T) {
		p := newTestPipeline(t, WithContextBehavior(scope.BehaviorIsolated))
		var visible map[string]any
		if _, err := p.Render(context.Background(), req(&visible)); err != nil {
			t.Fatalf("render: %v", err)
		}
		if visible["abc"] != "def" {
			t.Fatalf("isolated fills still see root bindings: %v", visible)
		}
		if _, ok := visible["the_data"]; ok {
			t.Fatalf("isolated fills must not see component data: %v", visible)
		}
	})
}

func TestRenderNestedComponentIsolation(t *testing.T) {
	newRegistry := func() *registry.Registry {
		reg := registry.New()
		reg.MustRegister(&component.Def{
			ComponentName: "parent",
			Source:        `{% component "child" / %}`,
			StaticData:    map[string]any{"parent_value": "P"},
		})
		reg.MustRegister(&component.Def{
			ComponentName: "child",
			Source:        `{{ parent_value }}|{{ root_value }}`,
		})
		return reg
	}
	req := Request{Component: "parent", Context: map[string]any{"root_value": "R"}}

	t.Run("django", func(t *testing.T) {
		p := newTestPipeline(t, WithRegistry(newRegistry()), WithContextBehavior(scope.BehaviorDjango))
		html, err := p.Render(context.Background(), req)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if html != "P|R" {
			t.Fatalf("nested component inherits ambient data, got %q", html)
		}
	})

	t.Run("isolated", func(t *testing.T) {
		p := newTestPipeline(t, WithRegistry(newRegistry()), WithContextBehavior(scope.BehaviorIsolated))
		html, err := p.Render(context.Background(), req)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if html != "|R" {
			t.Fatalf("isolated nested component sees only root bindings, got %q", html)
		}
	})
}

func TestRenderComponentTagKwargs(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "page",
		Source:        `{% component "badge" label=title / %}`,
		StaticData:    map[string]any{"title": "Hi"},
	})
	reg.MustRegister(&component.Def{
		ComponentName: "badge",
		Source:        `<span>{{ label }}</span>`,
		DataFunc: func(in component.Input) (map[string]any, error) {
			return map[string]any{"label": in.Kwarg("label")}, nil
		},
	})
	p := newTestPipeline(t, WithRegistry(reg))

	html, err := p.Render(context.Background(), Request{Component: "page"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "<span>Hi</span>" {
		t.Fatalf("keyword arguments must evaluate in the caller's context, got %q", html)
	}
}

func TestRenderComponentTagDynamicName(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "page",
		Source:        `{% component name=target / %}`,
		StaticData:    map[string]any{"target": "badge"},
	})
	reg.MustRegister(&component.Def{ComponentName: "badge", Source: "B"})
	p := newTestPipeline(t, WithRegistry(reg))

	html, err := p.Render(context.Background(), Request{Component: "page"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "B" {
		t.Fatalf("name= must resolve the component dynamically, got %q", html)
	}
}

func TestRenderFillTag(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "page",
		Source:        `{% component "card" %}{% fill "header" %}H:{{ heading }}{% endfill %}{% endcomponent %}`,
	})
	reg.MustRegister(&component.Def{
		ComponentName: "card",
		Source:        `<div>{% slot "header" default %}default{% endslot %}</div>`,
		StaticData:    map[string]any{"heading": "CardH"},
	})
	p := newTestPipeline(t, WithRegistry(reg))

	html, err := p.Render(context.Background(), Request{Component: "page"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "<div>H:CardH</div>" {
		t.Fatalf("fill body must render at the slot site, got %q", html)
	}
}

func TestRenderFillTagDataBinding(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "page",
		Source:        `{% component "stats" %}{% fill "count" data="d" %}n={{ d.total }}{% endfill %}{% endcomponent %}`,
	})
	reg.MustRegister(&component.Def{
		ComponentName: "stats",
		Source:        `{% slot "count" total=3 / %}`,
	})
	p := newTestPipeline(t, WithRegistry(reg))

	html, err := p.Render(context.Background(), Request{Component: "page"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "n=3" {
		t.Fatalf("slot data must bind into the fill body, got %q", html)
	}
}

func TestRenderComponentTagBodyRejectsNestedComponent(t *testing.T) {
	trackerCalls := 0
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "page",
		Source:        `{% component "card" %}{% component "tracker" / %}{% endcomponent %}`,
	})
	reg.MustRegister(&component.Def{
		ComponentName: "card",
		Source:        "CARD",
	})
	reg.MustRegister(&component.Def{
		ComponentName: "tracker",
		Source:        "T",
		Media:         assets.Media{CSS: []string{"tracker.css"}},
		DataFunc: func(component.Input) (map[string]any, error) {
			trackerCalls++
			return nil, nil
		},
	})
	p := newTestPipeline(t, WithRegistry(reg))

	result, err := p.RenderWithInfo(context.Background(), Request{Component: "page"})
	if err == nil || !strings.Contains(err.Error(), "wrap it in a fill tag") {
		t.Fatalf("component tag directly in a component body must be rejected, got %v", err)
	}
	if trackerCalls != 0 {
		t.Fatalf("rejected component must not run its data function (%d calls)", trackerCalls)
	}
	if !result.Assets.IsZero() {
		t.Fatalf("rejected component must not leak assets: %v", result.Assets)
	}
}

func TestRenderComponentTagBodyRejectsStrayContent(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "page",
		Source:        `{% component "card" %}stray{% endcomponent %}`,
	})
	reg.MustRegister(&component.Def{ComponentName: "card", Source: "CARD"})
	p := newTestPipeline(t, WithRegistry(reg))

	_, err := p.Render(context.Background(), Request{Component: "page"})
	if err == nil || !strings.Contains(err.Error(), "only fill tags are allowed") {
		t.Fatalf("stray component body content must be rejected, got %v", err)
	}
}

func TestRenderComponentTagBodyAllowsWhitespace(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "page",
		Source:        "{% component \"card\" %}\n  {% fill \"header\" %}H{% endfill %}\n{% endcomponent %}",
	})
	reg.MustRegister(&component.Def{
		ComponentName: "card",
		Source:        `<div>{% slot "header" default %}d{% endslot %}</div>`,
	})
	p := newTestPipeline(t, WithRegistry(reg))

	html, err := p.Render(context.Background(), Request{Component: "page"})
	if err != nil {
		t.Fatalf("whitespace between fill tags must stay legal: %v", err)
	}
	if html != "<div>H</div>" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestRenderComponentInsideFillBody(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "page",
		Source:        `{% component "card" %}{% fill "header" %}{% component "badge" / %}{% endfill %}{% endcomponent %}`,
	})
	reg.MustRegister(&component.Def{
		ComponentName: "card",
		Source:        `<div>{% slot "header" default %}d{% endslot %}</div>`,
	})
	reg.MustRegister(&component.Def{ComponentName: "badge", Source: "B"})
	p := newTestPipeline(t, WithRegistry(reg))

	html, err := p.Render(context.Background(), Request{Component: "page"})
	if err != nil {
		t.Fatalf("component tags inside fill bodies must stay legal: %v", err)
	}
	if html != "<div>B</div>" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestRenderRequiredSlotWithDefaultBody(t *testing.T) {
	p := newTestPipeline(t)
	def := &component.Def{
		ComponentName: "card",
		Source:        `{% slot "first" required default %}BODY{% endslot %}`,
	}

	html, err := p.Render(context.Background(), Request{Definition: def})
	if err != nil {
		t.Fatalf("required slot with a default body must fall back to it: %v", err)
	}
	if html != "BODY" {
		t.Fatalf("want the inline body, got %q", html)
	}

	html, err = p.Render(context.Background(), Request{
		Definition: def,
		Fills:      map[string]any{"first": "FILLED"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "FILLED" {
		t.Fatalf("an explicit fill still wins, got %q", html)
	}
}

func TestRenderUnmatchedFillIsInert(t *testing.T) {
	p := newTestPipeline(t)

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{ComponentName: "plain", Source: "<p>ok</p>"},
		Fills:      map[string]any{"nonexistent": "ignored"},
	})
	if err != nil {
		t.Fatalf("a fill matching no slot must not fail the render: %v", err)
	}
	if html != "<p>ok</p>" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestRenderIdempotent(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "page",
		Source:        `{% component "card" %}{% fill "header" %}X{% endfill %}{% endcomponent %}`,
	})
	reg.MustRegister(&component.Def{
		ComponentName: "card",
		Source:        `<div>{% slot "header" default %}d{% endslot %}</div>`,
	})
	p := newTestPipeline(t, WithRegistry(reg))

	req := Request{Component: "page", Context: map[string]any{"k": "v"}}
	first, err := p.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := p.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if first != second {
		t.Fatalf("renders of the same request must match:\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestRenderMissingTemplateConfiguration(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Render(context.Background(), Request{
		Definition: &component.Def{ComponentName: "bare"},
	})
	var cfgErr *component.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("want *component.ConfigurationError, got %T: %v", err, err)
	}
	if cfgErr.Component != "bare" {
		t.Fatalf("error must name the component: %q", cfgErr.Component)
	}
}

type svgComponent struct{}

func (svgComponent) Name() string { return "dynamic_svg" }

func (svgComponent) Data(in component.Input) (map[string]any, error) {
	return map[string]any{"variant": in.Kwarg("variant")}, nil
}

func (svgComponent) TemplateName(data map[string]any) (string, error) {
	return fmt.Sprintf("dynamic_svg%v.html", data["variant"]), nil
}

func TestRenderDynamicTemplateName(t *testing.T) {
	fsys := fstest.MapFS{
		"dynamic_svg1.html": &fstest.MapFile{Data: []byte("<svg>Dynamic1</svg>")},
		"dynamic_svg2.html": &fstest.MapFile{Data: []byte("<svg>Dynamic2</svg>")},
	}
	p := newTestPipeline(t, WithTemplatesFS(fsys))

	for variant, want := range map[int]string{1: "<svg>Dynamic1</svg>", 2: "<svg>Dynamic2</svg>"} {
		html, err := p.Render(context.Background(), Request{
			Definition: svgComponent{},
			Kwargs:     map[string]any{"variant": variant},
		})
		if err != nil {
			t.Fatalf("variant %d: render: %v", variant, err)
		}
		if html != want {
			t.Fatalf("variant %d: want %q, got %q", variant, want, html)
		}
	}
}

func TestRenderTemplateFileWithExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"card.html": &fstest.MapFile{Data: []byte("<div>file card</div>")},
	}
	p := newTestPipeline(t, WithTemplatesFS(fsys), WithExtension("html"))

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{ComponentName: "card", TemplateFile: "card"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "<div>file card</div>" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestRenderTemplateFileWithoutLoader(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Render(context.Background(), Request{
		Definition: &component.Def{ComponentName: "card", TemplateFile: "card.html"},
	})
	if err == nil || !strings.Contains(err.Error(), "no template directory") {
		t.Fatalf("file-backed component without a loader must fail clearly, got %v", err)
	}
}

func TestRenderGlobalsAndContextOverride(t *testing.T) {
	p := newTestPipeline(t, WithGlobalData(map[string]any{"site": "Acme", "x": "global"}))

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{ComponentName: "hdr", Source: "{{ site }}|{{ x }}"},
		Context:    map[string]any{"x": "request"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "Acme|request" {
		t.Fatalf("request context must override globals, got %q", html)
	}
}

func TestRenderThemeBinding(t *testing.T) {
	p := newTestPipeline(t, WithTheme(&theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		Tokens:  map[string]string{"brand": "#123456"},
	}))

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "hdr",
			Source:        "{{ theme.name }}/{{ theme.variant }}/{{ theme.tokens.brand }}",
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "acme/dark/#123456" {
		t.Fatalf("theme binding mismatch: %q", html)
	}
}

func TestRenderSanitizesFuncFillOutput(t *testing.T) {
	p := newTestPipeline(t, WithSanitizer(bluemonday.StrictPolicy()))

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "card",
			Source:        `{% slot "body" / %}`,
		},
		Fills: map[string]any{
			"body": func(_, _ map[string]any, _ *slots.SlotRef) (any, error) {
				return "<b>bold</b>", nil
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "bold" {
		t.Fatalf("computed fill output must pass the sanitizer, got %q", html)
	}
}

func TestRenderNestingLimit(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "loop",
		Source:        `{% component "loop" / %}`,
	})
	p := newTestPipeline(t, WithRegistry(reg), WithMaxDepth(5))

	_, err := p.Render(context.Background(), Request{Component: "loop"})
	if err == nil || !strings.Contains(err.Error(), "nesting exceeds") {
		t.Fatalf("self-referential components must hit the depth guard, got %v", err)
	}
}

func TestRenderWithInfoCollectsAssets(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(&component.Def{
		ComponentName: "page",
		Source:        `{% component "calendar" / %}{% component "calendar2" / %}`,
		Media:         assets.Media{CSS: []string{"page.css"}},
	})
	reg.MustRegister(&component.Def{
		ComponentName: "calendar",
		Source:        "<p>cal</p>",
		Media:         assets.Media{CSS: []string{"calendar.css", "shared.css"}, JS: []string{"calendar.js"}},
	})
	reg.MustRegister(&component.Def{
		ComponentName: "calendar2",
		Source:        "<p>cal2</p>",
		Media:         assets.Media{CSS: []string{"shared.css"}},
	})
	p := newTestPipeline(t, WithRegistry(reg))

	result, err := p.RenderWithInfo(context.Background(), Request{Component: "page"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.HTML != "<p>cal</p><p>cal2</p>" {
		t.Fatalf("unexpected markup %q", result.HTML)
	}

	want := assets.Media{
		CSS: []string{"calendar.css", "shared.css", "page.css"},
		JS:  []string{"calendar.js"},
	}
	if diff := cmp.Diff(want, result.Assets); diff != "" {
		t.Fatalf("assets mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderComponentIDReachesDataFunc(t *testing.T) {
	p := newTestPipeline(t)

	html, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "tracked",
			ID:            "tracked-42",
			Source:        "{{ id }}",
			DataFunc: func(in component.Input) (map[string]any, error) {
				return map[string]any{"id": in.ComponentID}, nil
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "tracked-42" {
		t.Fatalf("component ID must reach the data function, got %q", html)
	}
}

func TestRenderDataFuncError(t *testing.T) {
	boom := errors.New("no data today")
	p := newTestPipeline(t)

	_, err := p.Render(context.Background(), Request{
		Definition: &component.Def{
			ComponentName: "failing",
			Source:        "x",
			DataFunc:      func(component.Input) (map[string]any, error) { return nil, boom },
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("data errors must propagate, got %v", err)
	}
}

func TestPipelineBehavior(t *testing.T) {
	if got := newTestPipeline(t).Behavior(); got != scope.BehaviorDjango {
		t.Fatalf("default behavior must be django, got %q", got)
	}
	p := newTestPipeline(t, WithContextBehavior(scope.BehaviorIsolated))
	if got := p.Behavior(); got != scope.BehaviorIsolated {
		t.Fatalf("behavior option not applied, got %q", got)
	}
}
