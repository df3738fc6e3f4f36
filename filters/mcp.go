package filters

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/svgfx/svgdom"
)

// RegisterMCP registers filter conversion tools on an MCP server. Each
// convert/classify call builds a fresh Service from cfg, keeping definition
// ids scoped to one document as required.
func RegisterMCP(srv *mcp.Server, cfg Config) {
	registerConvertTool(srv, cfg)
	registerClassifyTool(srv, cfg)
	registerKindsTool(srv)
}

func parseDocument(svg string, permissive bool) (*svgdom.Element, error) {
	parse := svgdom.Parse
	if permissive {
		parse = svgdom.ParsePermissive
	}
	return parse(strings.NewReader(svg))
}

type convertReq struct {
	SVG        string `json:"svg" jsonschema:"SVG markup containing filter definitions"`
	Permissive bool   `json:"permissive,omitempty" jsonschema:"tolerate malformed markup"`
}

type convertedDef struct {
	ID             string `json:"id"`
	Classification string `json:"classification"`
	Fragment       string `json:"fragment"`
}

type convertResp struct {
	Definitions []convertedDef `json:"definitions"`
}

func convertDocument(ctx context.Context, cfg Config, in convertReq) (convertResp, error) {
	root, err := parseDocument(in.SVG, in.Permissive)
	if err != nil {
		return convertResp{}, fmt.Errorf("svgfx_convert: %w", err)
	}

	svc := NewService(cfg)
	svc.RegisterDocument(root)

	var resp convertResp
	for _, el := range svgdom.FilterDefs(root) {
		id := el.Attr("id")
		def, _ := svc.Definition(id)
		fragment, _ := svc.FilterContent(ctx, id)
		resp.Definitions = append(resp.Definitions, convertedDef{
			ID:             id,
			Classification: svc.Classify(def),
			Fragment:       fragment,
		})
	}
	return resp, nil
}

func registerConvertTool(srv *mcp.Server, cfg Config) {
	tool := &mcp.Tool{
		Name:        "svgfx_convert",
		Description: "Convert the SVG filter definitions in a document to DrawingML effect markup.",
	}
	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in convertReq) (*mcp.CallToolResult, convertResp, error) {
		resp, err := convertDocument(ctx, cfg, in)
		return nil, resp, err
	})
}

type classifyReq struct {
	SVG        string `json:"svg" jsonschema:"SVG markup containing filter definitions"`
	ID         string `json:"id" jsonschema:"filter definition id to classify (url(#id), #id, or bare id)"`
	Permissive bool   `json:"permissive,omitempty" jsonschema:"tolerate malformed markup"`
}

type classifyResp struct {
	ID             string `json:"id"`
	Classification string `json:"classification"`
	Primitives     int    `json:"primitives"`
}

func classifyDocument(cfg Config, in classifyReq) (classifyResp, error) {
	root, err := parseDocument(in.SVG, in.Permissive)
	if err != nil {
		return classifyResp{}, fmt.Errorf("svgfx_classify: %w", err)
	}

	svc := NewService(cfg)
	svc.RegisterDocument(root)

	id := svgdom.StripReference(in.ID)
	def, ok := svc.Definition(id)
	if !ok {
		return classifyResp{}, fmt.Errorf("svgfx_classify: definition %q not found", id)
	}
	return classifyResp{
		ID:             id,
		Classification: svc.Classify(def),
		Primitives:     len(def.Primitives),
	}, nil
}

func registerClassifyTool(srv *mcp.Server, cfg Config) {
	tool := &mcp.Tool{
		Name:        "svgfx_classify",
		Description: "Classify one filter definition (empty, a primitive kind, or chain) without converting it.",
	}
	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in classifyReq) (*mcp.CallToolResult, classifyResp, error) {
		resp, err := classifyDocument(cfg, in)
		return nil, resp, err
	})
}

type kindsReq struct{}

type kindsResp struct {
	Kinds []string `json:"kinds"`
}

// supportedKinds lists the kinds the MCP surface handles. Convert builds a
// fresh default-registry service per call, so the built-in set plus the
// inline service fast paths is exactly what the tools dispatch on.
func supportedKinds() []string {
	reg := NewRegistry()
	reg.RegisterDefaults()
	var kinds []string
	for _, k := range reg.Kinds() {
		kinds = append(kinds, string(k))
	}
	return append(kinds, string(KindBlur), string(KindDropShadow))
}

func registerKindsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "svgfx_kinds",
		Description: "List the filter primitive kinds the converter supports.",
	}
	kinds := supportedKinds()
	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in kindsReq) (*mcp.CallToolResult, kindsResp, error) {
		return nil, kindsResp{Kinds: kinds}, nil
	})
}
