package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "annotator"
	serviceName       = "tasktrail.annotator.v1.Annotator"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodAnnotate    = "/" + serviceName + "/Annotate"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "TASKTRAIL_ANNOTATOR",
	MagicCookieValue: "tasktrail",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Model        string   `json:"model"`
	Capabilities []string `json:"capabilities"`
}

type AnnotateRequest struct {
	ScreenshotPath string            `json:"screenshot_path"`
	CapturedAtMS   int64             `json:"captured_at_ms"`
	Hints          map[string]string `json:"hints"`
}

type AnnotateResponse struct {
	WindowTitle string `json:"window_title"`
	Category    string `json:"category"`
	OCRText     string `json:"ocr_text"`
	Model       string `json:"model"`
}

type AnnotatorServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Annotate(ctx context.Context, in *AnnotateRequest) (*AnnotateResponse, error)
}

type AnnotatorClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Annotate(ctx context.Context, in *AnnotateRequest) (*AnnotateResponse, error)
}

type annotatorClient struct {
	conn *grpc.ClientConn
}

func NewAnnotatorClient(conn *grpc.ClientConn) AnnotatorClient {
	return &annotatorClient{conn: conn}
}

func (c *annotatorClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *annotatorClient) Annotate(ctx context.Context, in *AnnotateRequest) (*AnnotateResponse, error) {
	out := &AnnotateResponse{}
	if err := c.conn.Invoke(ctx, methodAnnotate, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterAnnotatorServer(server grpc.ServiceRegistrar, impl AnnotatorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*AnnotatorServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Annotate",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &AnnotateRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Annotate(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodAnnotate}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*AnnotateRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Annotate(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "annotator-rpc-v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl AnnotatorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterAnnotatorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewAnnotatorClient(conn), nil
}

func PluginMap(impl AnnotatorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
